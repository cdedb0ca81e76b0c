// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package transport drives a framer.Codec from a real byte transport. The
// frame codec and payload packages never touch an io.Reader/io.Writer;
// this package is the sibling that does, generalizing the teacher
// framing package's non-blocking retry loop (readOnce/writeOnce in
// internal.go) from its own length-prefixed wire format to AMQP's
// ReceiveBytes/EncodeFrame codec.
package transport

import (
	"io"
	"runtime"
	"time"

	"code.hybscloud.com/amqpframe"
)

// Conn pumps bytes between an io.Reader/io.Writer pair and a framer.Codec.
// It owns no buffer of its own: callers supply the read buffer to
// PumpReads, matching the codec's own no-allocation-by-default posture.
type Conn struct {
	r     io.Reader
	w     io.Writer
	codec *framer.Codec

	retryDelay time.Duration
}

// NewConn constructs a Conn. r may be nil for a write-only Conn; w may be
// nil for a read-only Conn. codec must not be nil.
func NewConn(r io.Reader, w io.Writer, codec *framer.Codec, opts ...Option) *Conn {
	o := defaultOptions
	for _, fn := range opts {
		fn(&o)
	}
	return &Conn{r: r, w: w, codec: codec, retryDelay: o.RetryDelay}
}

// waitOnceOnWouldBlock mirrors the teacher's framer.waitOnceOnWouldBlock:
// it reports whether the caller should retry after an ErrWouldBlock.
func (c *Conn) waitOnceOnWouldBlock() bool {
	if c.retryDelay < 0 {
		return false
	}
	if c.retryDelay == 0 {
		runtime.Gosched()
		return true
	}
	time.Sleep(c.retryDelay)
	return true
}

// readOnce is the teacher's internal.go readOnce loop, unchanged in
// shape: retry on ErrWouldBlock per the configured policy, and guard
// against Readers that violate the io.Reader contract by returning
// (0, nil) on a non-empty buffer.
func (c *Conn) readOnce(p []byte) (n int, err error) {
	for {
		n, err = c.r.Read(p)
		if len(p) != 0 && n == 0 && err == nil {
			return 0, io.ErrNoProgress
		}
		if n > 0 {
			return n, err
		}
		if err != ErrWouldBlock {
			return n, err
		}
		if !c.waitOnceOnWouldBlock() {
			return n, err
		}
	}
}

// PumpReads reads at most one chunk of transport bytes into buf and feeds
// whatever was read to the codec's ReceiveBytes. It returns the number of
// bytes read and an error from either the underlying Read (including
// ErrWouldBlock/ErrMore/io.EOF) or decoding (a framer protocol/resource
// error); when both occur in one call, the decode error is returned. A
// read error is reported even when n > 0, matching io.Reader's own
// "process what you got, then look at the error" contract.
func (c *Conn) PumpReads(buf []byte) (int, error) {
	if c.r == nil || c.codec == nil {
		return 0, ErrInvalidArgument
	}
	n, rerr := c.readOnce(buf)
	if n > 0 {
		if derr := c.codec.ReceiveBytes(buf[:n]); derr != nil {
			return n, derr
		}
	}
	return n, rerr
}
