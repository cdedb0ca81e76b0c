// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package framer_test

import (
	"bytes"
	"errors"
	"testing"

	"code.hybscloud.com/amqpframe"
)

type delivery struct {
	ts   []byte
	body []byte
}

func TestReceiveBytesRejectsNilCodecAndEmptyBuffer(t *testing.T) {
	var nilCodec *framer.Codec
	if err := nilCodec.ReceiveBytes([]byte{1}); !errors.Is(err, framer.ErrInvalidArgument) {
		t.Fatalf("nil codec: err=%v want ErrInvalidArgument", err)
	}

	c, _ := newTestCodec(t)
	if err := c.ReceiveBytes(nil); !errors.Is(err, framer.ErrInvalidArgument) {
		t.Fatalf("nil buffer: err=%v want ErrInvalidArgument", err)
	}
	if err := c.ReceiveBytes([]byte{}); !errors.Is(err, framer.ErrInvalidArgument) {
		t.Fatalf("empty buffer: err=%v want ErrInvalidArgument", err)
	}
}

// Scenario 2 from the frame-delivery walkthrough: header + type-specific
// only, no body.
func TestReceiveBytesHeaderAndTypeSpecificOnly(t *testing.T) {
	c, _ := newTestCodec(t)
	var got []delivery
	_ = c.Subscribe(0x01, func(_ any, ts, body []byte) {
		got = append(got, delivery{ts: append([]byte(nil), ts...), body: append([]byte(nil), body...)})
	}, nil)

	frame := []byte{0x00, 0x00, 0x00, 0x08, 0x02, 0x01, 0xAA, 0xBB}
	if err := c.ReceiveBytes(frame); err != nil {
		t.Fatalf("receive: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("deliveries=%d want 1", len(got))
	}
	if !bytes.Equal(got[0].ts, []byte{0xAA, 0xBB}) {
		t.Fatalf("ts=%x want aabb", got[0].ts)
	}
	if got[0].body != nil {
		t.Fatalf("body=%x want nil", got[0].body)
	}
}

// Scenario 4: body delivery alongside type-specific bytes.
func TestReceiveBytesDeliversBody(t *testing.T) {
	c, _ := newTestCodec(t)
	var got []delivery
	_ = c.Subscribe(0x03, func(_ any, ts, body []byte) {
		got = append(got, delivery{ts: append([]byte(nil), ts...), body: append([]byte(nil), body...)})
	}, nil)

	frame := []byte{0x00, 0x00, 0x00, 0x0C, 0x02, 0x03, 0x11, 0x22, 0x30, 0x31, 0x32, 0x33}
	if err := c.ReceiveBytes(frame); err != nil {
		t.Fatalf("receive: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("deliveries=%d want 1", len(got))
	}
	if !bytes.Equal(got[0].ts, []byte{0x11, 0x22}) {
		t.Fatalf("ts=%x", got[0].ts)
	}
	if !bytes.Equal(got[0].body, []byte{0x30, 0x31, 0x32, 0x33}) {
		t.Fatalf("body=%x", got[0].body)
	}
}

// Scenario 6: a well-formed frame with no subscriber is consumed silently
// and leaves the decoder ready for the next frame.
func TestReceiveBytesDiscardsUnsubscribedFrame(t *testing.T) {
	c, _ := newTestCodec(t)
	var got int
	_ = c.Subscribe(0x01, func(any, []byte, []byte) { got++ }, nil)

	unsub := []byte{0x00, 0x00, 0x00, 0x0A, 0x02, 0x7F, 0x00, 0x00, 0xFF, 0xFF}
	next := []byte{0x00, 0x00, 0x00, 0x08, 0x02, 0x01, 0x00, 0x00}
	if err := c.ReceiveBytes(append(append([]byte{}, unsub...), next...)); err != nil {
		t.Fatalf("receive: %v", err)
	}
	if got != 1 {
		t.Fatalf("deliveries to subscribed type=%d want 1", got)
	}
}

// Chunking invariance: feeding identical bytes one-shot vs byte-by-byte
// produces the same delivery sequence.
func TestReceiveBytesChunkingInvariance(t *testing.T) {
	frames := append(
		[]byte{0x00, 0x00, 0x00, 0x08, 0x02, 0x01, 0xAA, 0xBB},
		[]byte{0x00, 0x00, 0x00, 0x0C, 0x02, 0x01, 0x11, 0x22, 0x30, 0x31, 0x32, 0x33}...,
	)

	runWith := func(chunker func([]byte) [][]byte) []delivery {
		var got []delivery
		c, _ := newTestCodec(t)
		_ = c.Subscribe(0x01, func(_ any, ts, body []byte) {
			got = append(got, delivery{ts: append([]byte(nil), ts...), body: append([]byte(nil), body...)})
		}, nil)
		for _, chunk := range chunker(frames) {
			if err := c.ReceiveBytes(chunk); err != nil {
				t.Fatalf("receive chunk: %v", err)
			}
		}
		return got
	}

	oneShot := runWith(func(b []byte) [][]byte { return [][]byte{b} })
	byteByByte := runWith(func(b []byte) [][]byte {
		chunks := make([][]byte, len(b))
		for i, x := range b {
			chunks[i] = []byte{x}
		}
		return chunks
	})

	if len(oneShot) != len(byteByByte) || len(oneShot) != 2 {
		t.Fatalf("delivery counts differ: one-shot=%d byte-by-byte=%d", len(oneShot), len(byteByByte))
	}
	for i := range oneShot {
		if !bytes.Equal(oneShot[i].ts, byteByByte[i].ts) || !bytes.Equal(oneShot[i].body, byteByByte[i].body) {
			t.Fatalf("delivery %d differs between chunkings", i)
		}
	}
}

func TestReceiveBytesInvalidDOFFEntersErrorState(t *testing.T) {
	c, errs := newTestCodec(t)
	err := c.ReceiveBytes([]byte{0x00, 0x00, 0x00, 0x08, 0x01, 0x00})
	if !errors.Is(err, framer.ErrInvalidDOFF) {
		t.Fatalf("err=%v want ErrInvalidDOFF", err)
	}
	if *errs != 1 {
		t.Fatalf("error callback fired %d times, want 1", *errs)
	}
}

// Scenario 5: oversized rejection with sticky error state.
func TestReceiveBytesOversizedRejectionIsSticky(t *testing.T) {
	c, errs := newTestCodec(t, framer.WithMaxFrameSize(16))
	err := c.ReceiveBytes([]byte{0x00, 0x00, 0x00, 0x20})
	if !errors.Is(err, framer.ErrFrameTooLarge) {
		t.Fatalf("err=%v want ErrFrameTooLarge", err)
	}
	if *errs != 1 {
		t.Fatalf("error callback fired %d times, want 1", *errs)
	}

	err = c.ReceiveBytes([]byte{0x00, 0x00, 0x00, 0x08, 0x02, 0x00})
	if !errors.Is(err, framer.ErrCodecInError) {
		t.Fatalf("err=%v want ErrCodecInError", err)
	}
	if *errs != 1 {
		t.Fatalf("error callback fired again: %d times, want still 1", *errs)
	}
}

// A doff that would place the type-specific region beyond the frame's own
// declared size passes the bare "doff >= 2" check but must still be
// rejected before any allocation or copy into the receive buffer is sized
// from the frame size rather than from doff.
func TestReceiveBytesDOFFBeyondFrameSizeEntersErrorState(t *testing.T) {
	c, errs := newTestCodec(t)
	_ = c.Subscribe(0x00, func(any, []byte, []byte) {}, nil)

	frame := []byte{0x00, 0x00, 0x00, 0x08, 0x03, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}
	err := c.ReceiveBytes(frame)
	if !errors.Is(err, framer.ErrInvalidDOFF) {
		t.Fatalf("err=%v want ErrInvalidDOFF", err)
	}
	if *errs != 1 {
		t.Fatalf("error callback fired %d times, want 1", *errs)
	}
}

func TestReceiveBytesFrameTooSmall(t *testing.T) {
	c, _ := newTestCodec(t)
	if err := c.ReceiveBytes([]byte{0x00, 0x00, 0x00, 0x07}); !errors.Is(err, framer.ErrFrameTooSmall) {
		t.Fatalf("err=%v want ErrFrameTooSmall", err)
	}
}
