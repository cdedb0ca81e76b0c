// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package transport

import (
	"io"
	"runtime"

	"code.hybscloud.com/amqpframe"
)

// writeOnce is the teacher's internal.go writeOnce loop: retry on
// ErrWouldBlock with a cooperative spin, and guard against Writers that
// violate the io.Writer contract by returning (0, nil) on a non-empty
// buffer.
func writeOnce(w io.Writer, p []byte) (n int, err error) {
	for {
		n, err = w.Write(p)
		if len(p) != 0 && n == 0 && err == nil {
			return 0, io.ErrShortWrite
		}
		if n > 0 {
			return n, err
		}
		if err != ErrWouldBlock {
			return n, err
		}
		runtime.Gosched()
	}
}

// writeAll is the teacher's writeStream short-write retry loop, collapsed
// to the one thing this package's EncodeFrame needs: keep calling
// writeOnce until every byte of p has been accepted.
func writeAll(w io.Writer, p []byte) error {
	for len(p) > 0 {
		n, err := writeOnce(w, p)
		p = p[n:]
		if err != nil {
			return err
		}
	}
	return nil
}

// EncodeFrame encodes one AMQP frame through codec and writes every
// resulting chunk to w, looping on short writes exactly the way the
// teacher's writeOnce/writeStream do. It is the on_bytes_encoded sink
// framer.Codec.EncodeFrame needs in order to reach a socket; validation
// errors from EncodeFrame itself are returned before anything is written,
// consistent with the codec's own all-or-nothing encode contract.
func EncodeFrame(w io.Writer, codec *framer.Codec, typ byte, payloads []framer.EncodePayload, tsBytes []byte) error {
	if w == nil || codec == nil {
		return ErrInvalidArgument
	}
	var writeErr error
	err := codec.EncodeFrame(typ, payloads, tsBytes, func(_ any, buf []byte, _ bool) {
		if writeErr != nil {
			return
		}
		writeErr = writeAll(w, buf)
	}, nil)
	if err != nil {
		return err
	}
	return writeErr
}
