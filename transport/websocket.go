// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package transport

import (
	"io"

	"github.com/gorilla/websocket"
)

// WSStream adapts a *websocket.Conn to io.Reader/io.Writer so it can feed
// NewConn and EncodeFrame the same way a TCP or TLS connection does.
// gorilla/websocket's Conn is message-oriented (ReadMessage/WriteMessage,
// one frame per call) rather than stream-oriented, and AMQP frames do not
// align with WebSocket message boundaries — a single WebSocket message may
// carry a partial AMQP frame, several whole ones, or both. WSStream
// flattens the message stream into a byte stream by buffering whatever
// ReadMessage returns and handing it out incrementally, and by writing each
// Write call as one binary WebSocket message.
type WSStream struct {
	conn *websocket.Conn
	rbuf []byte
}

// NewWSStream wraps conn for use as a Conn's reader/writer.
func NewWSStream(conn *websocket.Conn) *WSStream {
	return &WSStream{conn: conn}
}

// Read implements io.Reader by pulling WebSocket messages via ReadMessage
// (mirroring the teacher pack's readPump) and draining them into p across
// however many calls it takes.
func (s *WSStream) Read(p []byte) (int, error) {
	for len(s.rbuf) == 0 {
		_, msg, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				return 0, err
			}
			return 0, io.EOF
		}
		s.rbuf = msg
	}
	n := copy(p, s.rbuf)
	s.rbuf = s.rbuf[n:]
	return n, nil
}

// Write implements io.Writer by sending p as a single binary WebSocket
// message, the send-side counterpart of the teacher pack's Client.Send.
func (s *WSStream) Write(p []byte) (int, error) {
	if err := s.conn.WriteMessage(websocket.BinaryMessage, p); err != nil {
		return 0, err
	}
	return len(p), nil
}
