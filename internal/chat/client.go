package chat

import (
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8192
	sendBufferSize = 256
)

type Client struct {
	ID       string
	UserID   uint
	Username string

	conn  *websocket.Conn
	send  chan []byte
	hub   *Hub
	rooms map[uint]bool // guarded by hub.mu
}

func NewClient(hub *Hub, conn *websocket.Conn, userID uint, username string) *Client {
	return &Client{
		ID:       uuid.NewString(),
		UserID:   userID,
		Username: username,
		conn:     conn,
		send:     make(chan []byte, sendBufferSize),
		hub:      hub,
		rooms:    make(map[uint]bool),
	}
}

// Serve registers the connection and blocks until it closes.
func (h *Hub) Serve(conn *websocket.Conn, userID uint, username string) {
	client := NewClient(h, conn, userID, username)
	h.Register(client)
	h.SendTo(client, OutgoingFrame{Type: FrameConnected, UserID: userID, Username: username})

	go client.WritePump()
	client.ReadPump()
}

func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		log.Printf("chat: failed to set initial read deadline: %v", err)
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("chat: read error for %s: %v", c.ID, err)
			}
			return
		}

		var frame IncomingFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			c.hub.SendTo(c, OutgoingFrame{Type: FrameError, Error: "Invalid frame"})
			continue
		}

		c.handle(frame)
	}
}

func (c *Client) handle(frame IncomingFrame) {
	if frame.EventID == 0 {
		c.hub.SendTo(c, OutgoingFrame{Type: FrameError, Error: "event_id is required"})
		return
	}

	switch frame.Type {
	case FrameJoin:
		if err := c.hub.Join(c, frame.EventID); err != nil {
			c.hub.SendTo(c, OutgoingFrame{Type: FrameError, EventID: frame.EventID, Error: clientError(err)})
		}
	case FrameLeave:
		c.hub.Leave(c, frame.EventID)
	case FrameMessage:
		if _, err := c.hub.SendMessage(frame.EventID, c.UserID, frame.Text, "ws"); err != nil {
			c.hub.SendTo(c, OutgoingFrame{Type: FrameError, EventID: frame.EventID, Error: clientError(err)})
		}
	case FrameRead:
		if _, err := c.hub.MarkRead(frame.EventID, c.UserID, c.Username); err != nil {
			c.hub.SendTo(c, OutgoingFrame{Type: FrameError, EventID: frame.EventID, Error: clientError(err)})
		}
	case FrameTyping:
		c.hub.Typing(c, frame.EventID)
	default:
		c.hub.SendTo(c, OutgoingFrame{Type: FrameError, EventID: frame.EventID, Error: "Unknown frame type"})
	}
}

func clientError(err error) string {
	switch {
	case errors.Is(err, ErrNotMember):
		return "You are not a participant of this event"
	case errors.Is(err, ErrEmptyMessage), errors.Is(err, ErrMessageTooLong):
		return err.Error()
	default:
		log.Printf("chat: %v", err)
		return "Internal server error"
	}
}

func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}

			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Printf("chat: write error for %s: %v", c.ID, err)
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}

			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
