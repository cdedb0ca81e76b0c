// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package framer

// ReceiveBytes feeds the next chunk of inbound transport bytes to the
// decoder. It is resumable: buf may hold any prefix of one or more frames,
// and decoding state carries over between calls. Each complete frame for
// which a subscription exists is delivered synchronously to that
// subscription's OnFrameReceived before ReceiveBytes returns.
//
// Once a protocol or resource error occurs, the codec enters its absorbing
// error state: the call that hit the error returns the specific cause
// (ErrFrameTooSmall, ErrFrameTooLarge, ErrInvalidDOFF, ErrAllocFailed) and
// every subsequent call returns ErrCodecInError.
func (c *Codec) ReceiveBytes(buf []byte) error {
	if c == nil || len(buf) == 0 {
		return ErrInvalidArgument
	}
	for len(buf) > 0 {
		switch c.decodeState {
		case stateError:
			return ErrCodecInError

		case stateFrameSize:
			n := consume(&buf, &c.pos, frameSizeRemaining(c.pos))
			// Accumulate big-endian bytes into receiveFrameSize as they
			// arrive, matching the resumable byte-at-a-time accumulation
			// of the original decoder while still batching the copy.
			for _, b := range n {
				c.receiveFrameSize = c.receiveFrameSize<<8 | uint32(b)
			}
			if c.pos == 4 {
				if c.receiveFrameSize < frameHeaderSize {
					return c.fail(ErrFrameTooSmall)
				}
				if c.receiveFrameSize > c.maxFrameSize {
					return c.fail(ErrFrameTooLarge)
				}
				c.decodeState = stateDOFF
				c.pos = 0
			}

		case stateDOFF:
			c.receiveDOFF = buf[0]
			buf = buf[1:]
			if c.receiveDOFF < 2 {
				return c.fail(ErrInvalidDOFF)
			}
			if uint32(c.receiveDOFF)*4 > c.receiveFrameSize {
				return c.fail(ErrInvalidDOFF)
			}
			c.decodeState = stateFrameType

		case stateFrameType:
			c.receiveType = buf[0]
			buf = buf[1:]
			c.typeSpecificSize = uint32(c.receiveDOFF)*4 - 6
			c.receiveSub = c.subs[c.receiveType]
			if c.receiveSub != nil {
				rb, ok := allocBytes(c.receiveFrameSize - 6)
				if !ok {
					return c.fail(ErrAllocFailed)
				}
				c.receiveBuf = rb
			}
			c.pos = 0
			c.decodeState = stateTypeSpecific

		case stateTypeSpecific:
			toCopy := min(uint32(len(buf)), c.typeSpecificSize-c.pos)
			if c.receiveSub != nil {
				copy(c.receiveBuf[c.pos:c.pos+toCopy], buf[:toCopy])
			}
			buf = buf[toCopy:]
			c.pos += toCopy

			if c.pos == c.typeSpecificSize {
				// No body: the frame ends with its type-specific region.
				if c.receiveFrameSize == uint32(c.receiveDOFF)*4 {
					c.deliver(nil)
					c.resetDecode()
				} else {
					c.decodeState = stateFrameBody
					c.pos = 0
				}
			}

		case stateFrameBody:
			bodySize := c.receiveFrameSize - uint32(c.receiveDOFF)*4
			toCopy := min(uint32(len(buf)), bodySize-c.pos)
			if c.receiveSub != nil {
				copy(c.receiveBuf[c.typeSpecificSize+c.pos:c.typeSpecificSize+c.pos+toCopy], buf[:toCopy])
			}
			buf = buf[toCopy:]
			c.pos += toCopy

			if c.pos == bodySize {
				var body []byte
				if c.receiveSub != nil {
					body = c.receiveBuf[c.typeSpecificSize:]
				}
				c.deliver(body)
				c.resetDecode()
			}
		}
	}
	return nil
}

// deliver invokes the current frame's subscription, if any, with the
// type-specific bytes already accumulated in c.receiveBuf and the given
// body slice (nil for a frame with no body).
func (c *Codec) deliver(body []byte) {
	if c.receiveSub == nil {
		return
	}
	var ts []byte
	if c.typeSpecificSize > 0 {
		ts = c.receiveBuf[:c.typeSpecificSize]
	}
	c.receiveSub.onFrameReceived(c.receiveSub.ctx, ts, body)
}

// frameSizeRemaining returns how many of the 4 big-endian size bytes are
// still needed given pos bytes already consumed.
func frameSizeRemaining(pos uint32) uint32 {
	return 4 - pos
}

// consume advances *pos by up to want bytes taken from the front of *buf,
// returning the consumed slice and shrinking *buf in place.
func consume(buf *[]byte, pos *uint32, want uint32) []byte {
	n := min(uint32(len(*buf)), want)
	taken := (*buf)[:n]
	*buf = (*buf)[n:]
	*pos += n
	return taken
}
