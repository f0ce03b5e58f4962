package chat

import "github.com/JakubEth/gramytu/internal/types"

// Frame types exchanged over the socket.
const (
	FrameConnected = "connected"
	FrameJoin      = "join"
	FrameJoined    = "joined"
	FrameLeave     = "leave"
	FrameLeft      = "left"
	FrameMessage   = "message"
	FrameRead      = "read"
	FrameTyping    = "typing"
	FramePresence  = "presence"
	FrameError     = "error"
)

type IncomingFrame struct {
	Type    string `json:"type"`
	EventID uint   `json:"event_id"`
	Text    string `json:"text"`
}

type OutgoingFrame struct {
	Type     string                 `json:"type"`
	EventID  uint                   `json:"event_id,omitempty"`
	Message  *types.MessageResponse `json:"message,omitempty"`
	UserID   uint                   `json:"user_id,omitempty"`
	Username string                 `json:"username,omitempty"`
	Online   int                    `json:"online,omitempty"`
	Count    int64                  `json:"count,omitempty"`
	Error    string                 `json:"error,omitempty"`
}
