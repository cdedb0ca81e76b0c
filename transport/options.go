// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package transport

import "time"

// Options configures a Conn's read-retry behavior. AMQP fixes the one
// axis the teacher's per-transport mapping (netopts.go) used to vary —
// protocol mode (always a byte stream) and byte order (always big-endian,
// enforced by framer.Codec itself) — so only the retry policy and read
// chunk size are left for a transport preset to set.
type Options struct {
	// RetryDelay controls how PumpReads waits after an ErrWouldBlock
	// before retrying. Zero means a cooperative runtime.Gosched() spin;
	// negative means do not retry at all (return ErrWouldBlock upward
	// immediately, letting the caller poll on its own schedule).
	RetryDelay time.Duration

	// ReadSize is the default buffer size a caller's read loop should use
	// with PumpReads; Conn itself is buffer-size agnostic, but presets
	// publish a sensible default for each transport kind.
	ReadSize int
}

var defaultOptions = Options{
	RetryDelay: 0,
	ReadSize:   4096,
}

// Option configures Options when passed to NewConn.
type Option func(*Options)

// WithRetryDelay sets the delay PumpReads sleeps after an ErrWouldBlock
// before retrying the read. Negative disables retrying.
func WithRetryDelay(d time.Duration) Option {
	return func(o *Options) { o.RetryDelay = d }
}

// WithReadSize sets the preset's recommended read buffer size.
func WithReadSize(n int) Option {
	return func(o *Options) { o.ReadSize = n }
}

// WithTCP configures a Conn for a TCP connection: cooperative-spin retry
// and a read size sized for typical Ethernet MTUs, the direct
// generalization of the teacher's netTCP entry in netopts.go (which paired
// BinaryStream framing with BigEndian; AMQP's frame header already fixes
// both of those, so only the retry axis is left to set here).
func WithTCP() Option {
	return func(o *Options) {
		o.RetryDelay = 0
		o.ReadSize = 4096
	}
}

// WithTLS configures a Conn for a TLS-wrapped stream. Handshake and
// record-layer buffering make busy-spin retries wasteful, so WithTLS
// backs off briefly between ErrWouldBlock retries instead of spinning.
func WithTLS() Option {
	return func(o *Options) {
		o.RetryDelay = time.Millisecond
		o.ReadSize = 16 * 1024
	}
}

// WithUnix configures a Conn for a Unix domain stream socket: local IPC is
// cheap to retry aggressively, so this mirrors WithTCP's spin policy with a
// smaller default read size appropriate to typical control-channel frames.
func WithUnix() Option {
	return func(o *Options) {
		o.RetryDelay = 0
		o.ReadSize = 2048
	}
}

// WithWebSocket configures a Conn layered over a WebSocket connection via
// WSStream. Unlike TCP, TLS, or Unix sockets, a WebSocket connection is
// message- not stream-oriented, so the caller must wrap its
// *websocket.Conn in a WSStream before passing it to NewConn; once wrapped,
// AMQP frames arrive as an ordinary byte stream; the retry policy is the
// same as WithTCP's and only the default read size differs.
func WithWebSocket() Option {
	return func(o *Options) {
		o.RetryDelay = 0
		o.ReadSize = 8192
	}
}
