// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package framer

// Options configures a Codec at construction time.
type Options struct {
	// MaxFrameSize is the initial maximum accepted/emitted frame size in
	// bytes, including the 8-byte header. It can be changed later with
	// SetMaxFrameSize. The AMQP ISO floor is the 8-byte frame header.
	MaxFrameSize uint32
}

var defaultOptions = Options{
	MaxFrameSize: 512,
}

// Option configures Options when passed to NewCodec.
type Option func(*Options)

// WithMaxFrameSize sets the codec's initial maximum frame size. Values
// below the 8-byte header floor are clamped up to 8 by NewCodec.
func WithMaxFrameSize(n uint32) Option {
	return func(o *Options) { o.MaxFrameSize = n }
}
