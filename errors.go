// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package framer

import "errors"

var (
	// ErrInvalidArgument reports a nil codec/buffer, a zero-length buffer
	// passed to ReceiveBytes, or another caller-contract violation that is
	// reported by return value rather than by panic.
	ErrInvalidArgument = errors.New("framer: invalid argument")

	// ErrFrameTooSmall reports a decoded or requested frame size smaller
	// than the 8-byte minimum frame header.
	ErrFrameTooSmall = errors.New("framer: frame size smaller than header")

	// ErrFrameTooLarge reports a decoded or requested frame size bigger
	// than the codec's configured max frame size.
	ErrFrameTooLarge = errors.New("framer: frame size exceeds max frame size")

	// ErrInvalidDOFF reports a data offset below the mandatory minimum of 2
	// (4-byte words), which would place the frame body before the end of
	// the fixed header, or one whose doff*4 exceeds the frame's declared
	// size.
	ErrInvalidDOFF = errors.New("framer: invalid data offset")

	// ErrAllocFailed reports that the codec could not allocate the receive
	// buffer for a subscribed frame type.
	ErrAllocFailed = errors.New("framer: allocation failed")

	// ErrCodecInError reports that the codec already transitioned to its
	// absorbing error state; it is sticky and returned by every subsequent
	// call until the codec is discarded.
	ErrCodecInError = errors.New("framer: codec is in error state")

	// ErrTypeSpecificTooLarge reports a type-specific header region larger
	// than the AMQP ISO allows (doff is a single byte, so the region is
	// capped at 255*4-6 bytes).
	ErrTypeSpecificTooLarge = errors.New("framer: type-specific region too large")

	// ErrSubscriptionNotFound reports that Unsubscribe was called for a
	// frame type with no existing subscription.
	ErrSubscriptionNotFound = errors.New("framer: no subscription for frame type")

	// ErrMissingTypeSpecificBytes names the case of a non-zero
	// type-specific size with no type-specific bytes. EncodeFrame takes the
	// type-specific bytes as one []byte, whose length is the size, so it
	// never returns this error.
	ErrMissingTypeSpecificBytes = errors.New("framer: type-specific size without bytes")
)
