//go:build examples
// +build examples

// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package examples_test

import (
	"bytes"
	"net"
	"testing"
	"time"

	"code.hybscloud.com/amqpframe"
	"code.hybscloud.com/amqpframe/transport"
)

func TestExample_NetPipe_FrameRoundTrip(t *testing.T) {
	t.Parallel()

	// net.Pipe is an in-memory, fully synchronous stream connection: like
	// TCP, it does not preserve message boundaries.
	c1, c2 := net.Pipe()
	defer c1.Close()
	defer c2.Close()

	var delivered []byte
	decCodec := framer.NewCodec(func(any) { t.Errorf("unexpected decode error") }, nil)
	done := make(chan struct{})
	_ = decCodec.Subscribe(0x10, func(_ any, _ []byte, body []byte) {
		delivered = append([]byte(nil), body...)
		close(done)
	}, nil)

	reader := transport.NewConn(c2, nil, decCodec, transport.WithTCP())
	go func() {
		buf := make([]byte, 256)
		for {
			if _, err := reader.PumpReads(buf); err != nil {
				return
			}
		}
	}()

	encCodec := framer.NewCodec(func(any) { t.Errorf("unexpected encode error") }, nil)
	body := bytes.Repeat([]byte("ping"), 8)
	if err := transport.EncodeFrame(c1, encCodec, 0x10, []framer.EncodePayload{{Bytes: body}}, nil); err != nil {
		t.Fatalf("EncodeFrame: %v", err)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for delivery")
	}
	if !bytes.Equal(delivered, body) {
		t.Fatalf("delivered = %q, want %q", delivered, body)
	}
}
