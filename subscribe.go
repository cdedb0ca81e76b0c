// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package framer

// Subscribe registers onFrameReceived to be invoked for every decoded frame
// of the given type. A second call for the same type replaces the existing
// subscription; ctx is passed through unchanged on every delivery.
//
// Subscribe is cheap and lock-free: the subscription table is a fixed
// 256-entry array indexed directly by the frame type byte, so lookup and
// registration are both O(1) regardless of how many types are subscribed.
func (c *Codec) Subscribe(frameType byte, onFrameReceived OnFrameReceived, ctx any) error {
	if c == nil || onFrameReceived == nil {
		return ErrInvalidArgument
	}
	c.subs[frameType] = &subscription{onFrameReceived: onFrameReceived, ctx: ctx}
	return nil
}

// Unsubscribe removes the subscription for frameType, if any. It reports
// ErrSubscriptionNotFound if no subscription exists for that type.
func (c *Codec) Unsubscribe(frameType byte) error {
	if c == nil {
		return ErrInvalidArgument
	}
	if c.subs[frameType] == nil {
		return ErrSubscriptionNotFound
	}
	c.subs[frameType] = nil
	return nil
}

// Subscribed reports whether frameType currently has a registered
// subscription.
func (c *Codec) Subscribed(frameType byte) bool {
	if c == nil {
		return false
	}
	return c.subs[frameType] != nil
}
