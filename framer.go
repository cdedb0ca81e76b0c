// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package framer implements the AMQP 1.0 frame layer (ISO/IEC 19464 §2.3):
// a streaming byte-level codec that decodes inbound bytes into typed frames
// and encodes outbound frames from composable payload fragments.
//
// Wire format: a frame is an 8-byte minimum header (4-byte big-endian total
// size, 1-byte data offset in 4-byte words, 1-byte frame type, then the
// first two bytes of the type-specific region), the remainder of the
// type-specific region up to doff*4, and the frame body out to size. The
// type-specific region is doff*4-6 bytes long.
//
// Semantics and design:
//   - No I/O: Codec consumes pre-buffered bytes via ReceiveBytes and emits
//     bytes through a caller-supplied sink in EncodeFrame. Reaching an
//     actual socket is the job of the sibling transport package.
//   - Not re-entrant: a single Codec instance requires external mutual
//     exclusion; distinct instances may be driven concurrently by distinct
//     goroutines.
//   - Decode errors are sticky: once ReceiveBytes returns a protocol or
//     resource error, the codec is in its absorbing error state and every
//     subsequent call fails the same way.
package framer

const (
	frameHeaderSize       = 8
	maxTypeSpecificSize   = 255*4 - 6
	minMaxFrameSize       = frameHeaderSize
	subscriptionTableSize = 256 // a frame type is a single byte
)

// decodeState is the receive-side state machine's current phase.
type decodeState uint8

const (
	stateFrameSize decodeState = iota
	stateDOFF
	stateFrameType
	stateTypeSpecific
	stateFrameBody
	stateError
)

// OnFrameReceived is invoked once per decoded frame for a subscribed type.
// typeSpecific and body are valid only for the duration of the call; body
// is nil when the frame has no body.
type OnFrameReceived func(ctx any, typeSpecific []byte, body []byte)

// OnFrameCodecError is invoked exactly once per transition into the
// codec's absorbing error state.
type OnFrameCodecError func(ctx any)

type subscription struct {
	onFrameReceived OnFrameReceived
	ctx             any
}

// Codec is a streaming AMQP frame decoder/encoder. The zero value is not
// usable; construct one with NewCodec. A Codec is not safe for concurrent
// use by multiple goroutines.
type Codec struct {
	onError    OnFrameCodecError
	onErrorCtx any

	subs [subscriptionTableSize]*subscription

	maxFrameSize uint32

	// decode state
	decodeState      decodeState
	receiveFrameSize uint32
	receiveDOFF      uint8
	receiveType      uint8
	typeSpecificSize uint32
	pos              uint32 // bytes consumed in the current state
	receiveSub       *subscription
	receiveBuf       []byte // type-specific bytes followed by body bytes

	// encode state
	encodeInError bool
}

// NewCodec constructs a Codec. onError is required and is invoked exactly
// once whenever the codec transitions into its decode error state;
// errCtx is passed through unchanged and may be nil. NewCodec returns nil
// when onError is nil.
func NewCodec(onError OnFrameCodecError, errCtx any, opts ...Option) *Codec {
	if onError == nil {
		return nil
	}
	o := defaultOptions
	for _, fn := range opts {
		fn(&o)
	}
	max := o.MaxFrameSize
	if max < minMaxFrameSize {
		max = minMaxFrameSize
	}
	return &Codec{
		onError:      onError,
		onErrorCtx:   errCtx,
		maxFrameSize: max,
	}
}

// Close releases the codec's in-flight receive buffer. It is the Go
// analogue of frame_codec_destroy freeing receive_frame_bytes; since the
// garbage collector reclaims the Codec itself, Close exists only to give
// callers a disposal call symmetric with NewCodec and to let an in-flight
// buffer be reclaimed promptly. Close is idempotent and safe to call on an
// already-errored codec.
func (c *Codec) Close() {
	if c == nil {
		return
	}
	c.receiveBuf = nil
}

// SetMaxFrameSize updates the codec's maximum frame size. It fails when n
// is below the 8-byte header floor, when a decode is in progress (the
// codec is past the FRAME_SIZE state) and n is smaller than the frame size
// already being decoded, or when the codec is in its error state (decode
// or encode). Otherwise the new limit takes effect immediately, including
// for any in-flight decode.
func (c *Codec) SetMaxFrameSize(n uint32) error {
	if c == nil {
		return ErrInvalidArgument
	}
	if n < minMaxFrameSize {
		return ErrInvalidArgument
	}
	if c.decodeState == stateError || c.encodeInError {
		return ErrCodecInError
	}
	if c.decodeState != stateFrameSize && n < c.receiveFrameSize {
		return ErrInvalidArgument
	}
	c.maxFrameSize = n
	return nil
}

func (c *Codec) resetDecode() {
	c.decodeState = stateFrameSize
	c.receiveFrameSize = 0
	c.receiveDOFF = 0
	c.receiveType = 0
	c.typeSpecificSize = 0
	c.pos = 0
	c.receiveSub = nil
	c.receiveBuf = nil
}

// fail transitions the codec into its absorbing decode error state, fires
// onError exactly once, and returns err so the caller that triggered the
// failure sees the specific reason; every later call instead observes the
// sticky ErrCodecInError from the stateError branch in ReceiveBytes.
func (c *Codec) fail(err error) error {
	c.decodeState = stateError
	c.onError(c.onErrorCtx)
	return err
}

// allocBytes allocates an n-byte buffer, recovering from an allocation
// panic (Go has no malloc-returns-nil signal) so resource exhaustion can be
// reported through fail's ordinary error return instead of crashing.
func allocBytes(n uint32) (b []byte, ok bool) {
	defer func() {
		if recover() != nil {
			b, ok = nil, false
		}
	}()
	return make([]byte, n), true
}
