package ws

import (
	"encoding/json"
)

// Control frame types. They are handled by the source and never reach the
// dispatcher.
const (
	FrameHello   = "hello"
	FramePing    = "ping"
	FramePong    = "pong"
	FrameGoodbye = "goodbye"
	FrameError   = "error"
)

// frameHeader is the part of a frame the source inspects before passing it
// on.
type frameHeader struct {
	Type    string `json:"type"`
	ReplyTo *int64 `json:"reply_to,omitempty"`
	Error   *struct {
		Code int    `json:"code"`
		Msg  string `json:"msg"`
	} `json:"error,omitempty"`
}

// isControl reports whether the frame is stream bookkeeping rather than a
// workspace event. Replies to our own pings carry reply_to.
func (h frameHeader) isControl() bool {
	switch h.Type {
	case FrameHello, FramePong, FrameGoodbye, FrameError:
		return true
	}
	return h.ReplyTo != nil
}

func readHeader(data []byte) (frameHeader, bool) {
	var h frameHeader
	if err := json.Unmarshal(data, &h); err != nil {
		return h, false
	}
	return h, true
}

// pingFrame is the keepalive the client sends.
type pingFrame struct {
	ID   int64  `json:"id"`
	Type string `json:"type"`
}
