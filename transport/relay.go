// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package transport

import (
	"io"

	"code.hybscloud.com/amqpframe"
)

// Transform rewrites a decoded frame before it is re-encoded to a Relay's
// destination. Returning the inputs unchanged passes the frame through
// verbatim.
type Transform func(typ byte, tsBytes []byte, body []byte) (newTyp byte, newTSBytes []byte, newBody []byte)

// Relay forwards decoded frames from a source Conn to a destination
// codec/writer pair, optionally transforming each frame in flight. It is
// the frame-level generalization of the teacher's Forwarder
// (forward.go): where Forwarder relays opaque length-prefixed payloads
// byte-for-byte, Relay decodes each AMQP frame, gives the caller a chance
// to rewrite it, and re-encodes the result — the unit of forwarding is a
// frame, not a raw byte run.
type Relay struct {
	src       *Conn
	dstCodec  *framer.Codec
	dst       io.Writer
	transform Transform

	lastErr error
}

// NewRelay constructs a Relay that decodes frames arriving on src and
// re-encodes them (after transform, if non-nil) to dst through dstCodec.
// It subscribes to all 256 possible frame types on src's codec, so any
// prior subscriptions on that codec for relay-managed types are replaced.
func NewRelay(src *Conn, dstCodec *framer.Codec, dst io.Writer, transform Transform) *Relay {
	r := &Relay{src: src, dstCodec: dstCodec, dst: dst, transform: transform}
	for t := 0; t < 256; t++ {
		typ := byte(t)
		_ = src.codec.Subscribe(typ, r.onFrame, typ)
	}
	return r
}

func (r *Relay) onFrame(ctx any, tsBytes, body []byte) {
	typ := ctx.(byte)
	if r.transform != nil {
		typ, tsBytes, body = r.transform(typ, tsBytes, body)
	}
	var payloads []framer.EncodePayload
	if body != nil {
		payloads = []framer.EncodePayload{{Bytes: body}}
	}
	if err := EncodeFrame(r.dst, r.dstCodec, typ, payloads, tsBytes); err != nil && r.lastErr == nil {
		r.lastErr = err
	}
}

// RelayOnce pumps one chunk of bytes from the source connection. Every
// complete frame decoded from that chunk is transformed and re-encoded to
// the destination synchronously, before RelayOnce returns, the same
// delivery-before-return contract framer.Codec itself guarantees. The
// returned error is, in priority order: a source read/decode error from
// PumpReads, else the first destination encode/write error observed while
// relaying frames found in this chunk.
func (r *Relay) RelayOnce(buf []byte) (int, error) {
	r.lastErr = nil
	n, err := r.src.PumpReads(buf)
	if err != nil {
		return n, err
	}
	return n, r.lastErr
}
