// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package payload implements a segmented, append-only byte buffer used to
// assemble outbound AMQP frame bodies without unnecessary copies.
//
// A Payload is an ordered sequence of Parts. Each Part is either an owned
// byte array or a lazy callback that streams its bytes on demand. Callers
// build a Payload with AppendData/AppendCallback/ReserveData and hand it to
// a frame encoder, which walks the sequence with StreamOutput (or
// StreamToHeap for a single contiguous copy) without caring which kind of
// Part produced which bytes.
//
// A Payload is single-owner: it exclusively owns every byte array it holds,
// but it never owns the user context passed to AppendCallback. Callers must
// keep that context alive for as long as the Payload exists. Payload is not
// safe for concurrent use from multiple goroutines without external
// synchronization, matching the codec it feeds.
package payload

import (
	"reflect"
)

// WriteFunc is the sink a Payload streams bytes into. Returning false aborts
// the stream; StreamOutput propagates that false to its own caller.
type WriteFunc func(ctx any, buf []byte) bool

// CallbackFunc is a lazy byte producer registered with AppendCallback. It
// must emit the exact same sequence of bytes, and therefore the same total
// length, on every invocation: Length() may call it once to measure and
// StreamOutput will call it again later to emit, and the two must agree.
type CallbackFunc func(userCtx any, sink WriteFunc, sinkCtx any) bool

type kind uint8

const (
	kindByteArray kind = iota + 1
	kindCallback
)

const sizeUncalculated int64 = -1

// part is one node of a Payload's logical chain, represented as a slice
// element rather than a linked-list node (see DESIGN.md).
type part struct {
	kind kind

	// kindByteArray
	bytes []byte // len(bytes) is "size", cap(bytes) is "capacity"

	// kindCallback
	writer     CallbackFunc
	userCtx    any
	cachedSize int64
}

func (p *part) isEmpty() bool {
	return p.kind == kindByteArray && len(p.bytes) == 0
}

func (p *part) sizeOf() int64 {
	switch p.kind {
	case kindByteArray:
		return int64(len(p.bytes))
	case kindCallback:
		if p.cachedSize != sizeUncalculated {
			return p.cachedSize
		}
		var n int64
		if p.writer(p.userCtx, countingSink, &n) {
			p.cachedSize = n
		}
		return n
	default:
		return 0
	}
}

func countingSink(ctx any, buf []byte) bool {
	n := ctx.(*int64)
	*n += int64(len(buf))
	return true
}

func (p *part) isValid() bool {
	switch p.kind {
	case kindByteArray:
		// A Go slice's header already guarantees size <= capacity and
		// nil <=> (size == 0 && capacity == 0); nothing further to check.
		return true
	case kindCallback:
		return p.writer != nil
	default:
		return false
	}
}

func (p *part) equal(other *part) bool {
	if p.kind != other.kind {
		return false
	}
	switch p.kind {
	case kindByteArray:
		if len(p.bytes) != len(other.bytes) {
			return false
		}
		for i := range p.bytes {
			if p.bytes[i] != other.bytes[i] {
				return false
			}
		}
		return true
	case kindCallback:
		if p.userCtx != other.userCtx {
			return false
		}
		return funcsEqual(p.writer, other.writer)
	default:
		return false
	}
}

func funcsEqual(a, b CallbackFunc) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
}

// Payload is a segmented byte buffer. The zero value is not valid; use New
// or NewReserved. A Payload handle always has at least one Part, matching
// the "head Part always exists" invariant of the original design.
type Payload struct {
	parts []part
}

// New returns a Payload holding a single empty byte-array Part.
func New() *Payload {
	return &Payload{parts: []part{{kind: kindByteArray}}}
}

// NewReserved returns a Payload whose sole Part has n bytes of reserved,
// unused capacity.
func NewReserved(n int) *Payload {
	p := New()
	p.ReserveData(n)
	return p
}

func (p *Payload) requireNonNil() {
	if p == nil {
		panic("payload: operation on nil Payload")
	}
}

func (p *Payload) tail() *part {
	return &p.parts[len(p.parts)-1]
}

// Clone returns a deep copy: byte-array parts are byte-copied; callback
// parts copy the writer/context/cached-size triple by value without
// invoking the writer.
func (p *Payload) Clone() *Payload {
	p.requireNonNil()
	clone := New()
	clone.AppendPayloadAsCopy(p)
	return clone
}

// Clear frees every Part after the head and resets the head to an empty
// byte array. The handle remains valid.
func (p *Payload) Clear() {
	p.requireNonNil()
	p.parts = p.parts[:1]
	p.parts[0] = part{kind: kindByteArray}
}

// Destroy releases the entire chain referenced by *p and sets *p to nil,
// mirroring payload_destroy's pointer-to-pointer invalidation contract.
// Destroy is a no-op if p or *p is nil.
func Destroy(p **Payload) {
	if p == nil || *p == nil {
		return
	}
	(*p).parts = nil
	*p = nil
}

// Length returns the total byte length of the Payload: the sum, over every
// Part, of its byte-array size or its (possibly newly-measured and
// memoized) callback size.
func (p *Payload) Length() int64 {
	p.requireNonNil()
	var total int64
	for i := range p.parts {
		total += p.parts[i].sizeOf()
	}
	return total
}

// Parts returns the number of Parts in the chain.
func (p *Payload) Parts() int {
	p.requireNonNil()
	return len(p.parts)
}

// PeekBytes returns the head Part's bytes if the head is a byte array, or
// nil otherwise. It is a debugging affordance, not a stream.
func (p *Payload) PeekBytes() []byte {
	p.requireNonNil()
	head := &p.parts[0]
	if head.kind != kindByteArray {
		return nil
	}
	return head.bytes
}

// reserveBytes allocates a byte slice of length 0 and capacity n, reporting
// failure instead of panicking when n is large enough that the runtime
// allocator cannot satisfy it. Go has no malloc-returns-NULL collaborator;
// this recover is the one place that surfaces an allocation failure as a
// bool the way the original C allocator contract requires (see DESIGN.md).
func reserveBytes(n int) (b []byte, ok bool) {
	if n < 0 {
		return nil, false
	}
	defer func() {
		if recover() != nil {
			b, ok = nil, false
		}
	}()
	return make([]byte, 0, n), true
}

// AppendData appends a copy of buf using the tail Part, resolving in order:
// reuse an empty, capacity-less tail by exact allocation; append in place
// if the tail has enough spare capacity; otherwise start a new Part.
func (p *Payload) AppendData(buf []byte) {
	p.requireNonNil()
	if len(buf) == 0 {
		return
	}
	tail := p.tail()
	switch {
	case tail.kind == kindByteArray && len(tail.bytes) == 0 && cap(tail.bytes) == 0:
		b, ok := reserveBytes(len(buf))
		if !ok {
			return
		}
		tail.bytes = append(b, buf...)
	case tail.kind == kindByteArray && cap(tail.bytes)-len(tail.bytes) >= len(buf):
		tail.bytes = append(tail.bytes, buf...)
	default:
		b, ok := reserveBytes(len(buf))
		if !ok {
			return
		}
		p.parts = append(p.parts, part{kind: kindByteArray, bytes: append(b, buf...)})
	}
}

// AppendString appends s's bytes, equivalent to AppendData([]byte(s)).
func (p *Payload) AppendString(s string) {
	p.AppendData([]byte(s))
}

// ReserveData links a fresh Part after a non-empty tail (or reuses an
// already-empty tail), makes it a byte array with n bytes of capacity and
// zero size, and reports whether the allocation succeeded.
func (p *Payload) ReserveData(n int) bool {
	p.requireNonNil()
	b, ok := reserveBytes(n)
	if !ok {
		return false
	}
	if !p.tail().isEmpty() {
		p.parts = append(p.parts, part{})
	}
	*p.tail() = part{kind: kindByteArray, bytes: b}
	return true
}

// AppendCallback links a fresh Part after a non-empty tail (or reuses an
// already-empty tail) and makes it a lazy Callback Part.
func (p *Payload) AppendCallback(writer CallbackFunc, ctx any) {
	p.requireNonNil()
	if writer == nil {
		panic("payload: nil callback writer")
	}
	if !p.tail().isEmpty() {
		p.parts = append(p.parts, part{})
	}
	*p.tail() = part{kind: kindCallback, writer: writer, userCtx: ctx, cachedSize: sizeUncalculated}
}

// AppendPayloadAsCopy walks src and appends an equivalent copy of every
// Part to the end of p: byte arrays are copied via AppendData; callback
// parts are copied by value (writer, context, and any already-memoized
// size) without being invoked.
func (p *Payload) AppendPayloadAsCopy(src *Payload) {
	p.requireNonNil()
	if src == nil {
		return
	}
	for i := range src.parts {
		sp := &src.parts[i]
		switch sp.kind {
		case kindByteArray:
			p.AppendData(sp.bytes)
		case kindCallback:
			if !p.tail().isEmpty() {
				p.parts = append(p.parts, part{})
			}
			*p.tail() = part{kind: kindCallback, writer: sp.writer, userCtx: sp.userCtx, cachedSize: sp.cachedSize}
		}
	}
}

// MoveToEnd transfers the entire chain of *src to the end of dst and sets
// *src to nil, invalidating the caller's source handle. It is a no-op if
// src or *src is nil.
func MoveToEnd(dst *Payload, src **Payload) {
	dst.requireNonNil()
	if src == nil || *src == nil {
		return
	}
	dst.parts = append(dst.parts, (*src).parts...)
	*src = nil
}

// StreamOutput streams every Part's bytes to sink in order: byte arrays are
// passed directly; callback Parts invoke their writer. It stops and
// returns false at the first sink/writer failure. A nil Payload returns
// false; a non-nil Payload with no bytes returns true, preserving the
// original's asymmetry (see DESIGN.md).
func (p *Payload) StreamOutput(sink WriteFunc, ctx any) bool {
	if p == nil || sink == nil {
		return false
	}
	for i := range p.parts {
		pt := &p.parts[i]
		var ok bool
		switch pt.kind {
		case kindByteArray:
			ok = sink(ctx, pt.bytes)
		case kindCallback:
			ok = pt.writer(pt.userCtx, sink, ctx)
		}
		if !ok {
			return false
		}
	}
	return true
}

// StreamToHeap streams the entire Payload into one freshly allocated slice
// of exactly Length() bytes.
func (p *Payload) StreamToHeap() []byte {
	p.requireNonNil()
	out := make([]byte, p.Length())
	pos := 0
	p.StreamOutput(func(_ any, buf []byte) bool {
		pos += copy(out[pos:], buf)
		return true
	}, nil)
	return out
}

// SpareCapacity returns the tail Part's unused byte-array capacity, or 0 if
// the tail is a callback Part.
func (p *Payload) SpareCapacity() int {
	p.requireNonNil()
	tail := p.tail()
	if tail.kind != kindByteArray {
		return 0
	}
	return cap(tail.bytes) - len(tail.bytes)
}

// HasCallbackData reports whether any Part is a lazy callback.
func (p *Payload) HasCallbackData() bool {
	p.requireNonNil()
	for i := range p.parts {
		if p.parts[i].kind == kindCallback {
			return true
		}
	}
	return false
}

// IsEmpty reports whether every Part is a zero-size byte array.
func (p *Payload) IsEmpty() bool {
	p.requireNonNil()
	for i := range p.parts {
		if !p.parts[i].isEmpty() {
			return false
		}
	}
	return true
}

// IsValid reports whether every Part satisfies its representation
// invariant (byte arrays: size/capacity relation; callbacks: non-nil
// writer).
func (p *Payload) IsValid() bool {
	p.requireNonNil()
	for i := range p.parts {
		if !p.parts[i].isValid() {
			return false
		}
	}
	return true
}

// Equal reports whether p and other have the same number of Parts and each
// corresponding Part is equal: byte-for-byte for byte arrays, by
// writer+context identity (never by materialized output) for callbacks.
func (p *Payload) Equal(other *Payload) bool {
	if p == other {
		return true
	}
	if p == nil || other == nil {
		return false
	}
	if len(p.parts) != len(other.parts) {
		return false
	}
	for i := range p.parts {
		if !p.parts[i].equal(&other.parts[i]) {
			return false
		}
	}
	return true
}
