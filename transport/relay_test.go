// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package transport_test

import (
	"bytes"
	"testing"

	"code.hybscloud.com/amqpframe"
	"code.hybscloud.com/amqpframe/transport"
)

func TestRelayOnceForwardsFrameVerbatim(t *testing.T) {
	var upstream bytes.Buffer
	srcCodec := framer.NewCodec(func(any) { t.Fatalf("unexpected src error") }, nil)
	body := []byte("relay me")
	if err := transport.EncodeFrame(&upstream, srcCodec, 0x07, []framer.EncodePayload{{Bytes: body}}, []byte{0xEE}); err != nil {
		t.Fatalf("encode upstream: %v", err)
	}

	srcConn := transport.NewConn(&upstream, nil, framer.NewCodec(func(any) { t.Fatalf("unexpected relay src error") }, nil))
	var downstream bytes.Buffer
	dstCodec := framer.NewCodec(func(any) { t.Fatalf("unexpected dst encode error") }, nil)

	relay := transport.NewRelay(srcConn, dstCodec, &downstream, nil)
	if _, err := relay.RelayOnce(make([]byte, 4096)); err != nil {
		t.Fatalf("RelayOnce: %v", err)
	}

	var gotTS, gotBody []byte
	decCodec := framer.NewCodec(func(any) { t.Fatalf("unexpected final decode error") }, nil)
	_ = decCodec.Subscribe(0x07, func(_ any, ts, b []byte) {
		gotTS = append([]byte(nil), ts...)
		gotBody = append([]byte(nil), b...)
	}, nil)
	if err := decCodec.ReceiveBytes(downstream.Bytes()); err != nil {
		t.Fatalf("decode relayed frame: %v", err)
	}
	// The single type-specific byte travels in a 2-byte region (doff 2), so
	// it is delivered followed by its zero padding byte.
	if !bytes.Equal(gotTS, []byte{0xEE, 0x00}) {
		t.Fatalf("ts = %x, want ee00", gotTS)
	}
	if !bytes.Equal(gotBody, body) {
		t.Fatalf("body = %q, want %q", gotBody, body)
	}
}

func TestRelayOnceAppliesTransform(t *testing.T) {
	var upstream bytes.Buffer
	srcCodec := framer.NewCodec(func(any) {}, nil)
	if err := transport.EncodeFrame(&upstream, srcCodec, 0x01, nil, []byte{0x00}); err != nil {
		t.Fatalf("encode upstream: %v", err)
	}

	srcConn := transport.NewConn(&upstream, nil, framer.NewCodec(func(any) {}, nil))
	var downstream bytes.Buffer
	dstCodec := framer.NewCodec(func(any) {}, nil)

	relayed := false
	transform := func(typ byte, ts, body []byte) (byte, []byte, []byte) {
		relayed = true
		return 0x02, []byte{0x99}, body
	}
	relay := transport.NewRelay(srcConn, dstCodec, &downstream, transform)
	if _, err := relay.RelayOnce(make([]byte, 4096)); err != nil {
		t.Fatalf("RelayOnce: %v", err)
	}
	if !relayed {
		t.Fatalf("transform was not invoked")
	}

	var gotType byte
	decCodec := framer.NewCodec(func(any) {}, nil)
	_ = decCodec.Subscribe(0x02, func(any, []byte, []byte) { gotType = 0x02 }, nil)
	if err := decCodec.ReceiveBytes(downstream.Bytes()); err != nil {
		t.Fatalf("decode relayed frame: %v", err)
	}
	if gotType != 0x02 {
		t.Fatalf("relayed frame did not arrive with transformed type 0x02")
	}
}
