// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package framer

import "encoding/binary"

// EncodePayload is a flat, already-materialized byte blob contributed to a
// frame's body. The frame codec treats payloads as opaque; assembling
// Callback parts into bytes (see the sibling payload package's
// StreamToHeap) is the caller's job before EncodeFrame is invoked.
type EncodePayload struct {
	Bytes []byte
}

// OnBytesEncoded receives one chunk of a frame being encoded. isLast is
// true on exactly the final non-empty chunk emitted for this frame; every
// preceding chunk carries false. Unlike payload.WriteFunc this callback has
// no abort signal: EncodeFrame validates the whole frame up front and, once
// validation passes, always emits every chunk.
type OnBytesEncoded func(ctx any, buf []byte, isLast bool)

// EncodeFrame validates and emits one AMQP frame: a 6-byte header, the
// type-specific bytes (if any), zero-padding up to the doff boundary, and
// each payload's bytes in order. Validation happens before anything is
// emitted, so a rejected call produces no OnBytesEncoded invocations and
// leaves the codec's encode state unchanged.
func (c *Codec) EncodeFrame(typ byte, payloads []EncodePayload, tsBytes []byte, onBytesEncoded OnBytesEncoded, ctx any) error {
	if c == nil || onBytesEncoded == nil {
		return ErrInvalidArgument
	}
	if c.encodeInError {
		return ErrCodecInError
	}

	// A []byte already couples pointer and length, so the source's
	// separate "ts_size > 0 but ts_bytes == NULL" argument error has no
	// Go analogue; ErrMissingTypeSpecificBytes is kept for API symmetry
	// with the decode-side error set but EncodeFrame cannot return it.
	tsSize := uint32(len(tsBytes))
	if tsSize > maxTypeSpecificSize {
		return ErrTypeSpecificTooLarge
	}

	doff := (tsSize + 6 + 3) / 4
	frameBodyOffset := doff * 4
	padding := frameBodyOffset - tsSize - 6

	var bodySize uint64
	for _, p := range payloads {
		bodySize += uint64(len(p.Bytes))
	}
	frameSize := bodySize + uint64(frameBodyOffset)
	if frameSize > uint64(c.maxFrameSize) {
		return ErrFrameTooLarge
	}

	var header [frameHeaderSize - 2]byte
	binary.BigEndian.PutUint32(header[0:4], uint32(frameSize))
	header[4] = byte(doff)
	header[5] = typ

	chunks := make([][]byte, 0, 3+len(payloads))
	chunks = append(chunks, header[:])
	if tsSize > 0 {
		chunks = append(chunks, tsBytes[:tsSize])
	}
	if padding > 0 {
		chunks = append(chunks, make([]byte, padding))
	}
	for _, p := range payloads {
		chunks = append(chunks, p.Bytes)
	}

	// is_last is true only for the final non-empty chunk actually
	// emitted ("final non-empty chunk of this frame"), not whichever
	// chunk happens to be positionally last in the slice above.
	lastNonEmpty := -1
	for i, chunk := range chunks {
		if len(chunk) > 0 {
			lastNonEmpty = i
		}
	}

	for i, chunk := range chunks {
		if len(chunk) == 0 {
			continue
		}
		onBytesEncoded(ctx, chunk, i == lastNonEmpty)
	}
	return nil
}
