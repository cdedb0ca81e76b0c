// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package transport

import (
	"errors"

	"code.hybscloud.com/iox"
)

// ErrInvalidArgument reports a nil reader/writer/codec passed to a
// constructor or call that requires one.
var ErrInvalidArgument = errors.New("transport: invalid argument")

// These are re-exported, the same way the teacher framing package
// re-exposes iox's control-flow signals, so callers never need to import
// iox directly to recognize a non-blocking retry condition.
var (
	// ErrWouldBlock means "no further progress without waiting". Any
	// returned byte count still represents real progress.
	ErrWouldBlock = iox.ErrWouldBlock

	// ErrMore means "this completion is usable and more completions will
	// follow". The operation stays active; call again for the next chunk.
	ErrMore = iox.ErrMore
)
