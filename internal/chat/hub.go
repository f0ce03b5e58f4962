package chat

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/JakubEth/gramytu/internal/monitoring"
	"github.com/JakubEth/gramytu/internal/types"
)

// Hub relays chat frames between the clients of each event room. Delivery is
// best effort: a client whose send buffer is full is disconnected.
type Hub struct {
	clients map[*Client]bool
	rooms   map[uint]map[*Client]bool
	mu      sync.RWMutex
	store   Store
}

func NewHub(store Store) *Hub {
	return &Hub{
		clients: make(map[*Client]bool),
		rooms:   make(map[uint]map[*Client]bool),
		store:   store,
	}
}

func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	h.mu.Unlock()

	monitoring.ConnectionOpened()
	log.Printf("chat: %s connected (%s)", client.Username, client.ID)
}

// Unregister drops the client from every room and closes its send channel.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()

	if !h.clients[client] {
		h.mu.Unlock()
		return
	}

	delete(h.clients, client)

	for eventID := range client.rooms {
		h.removeFromRoom(client, eventID)
	}

	close(client.send)
	h.mu.Unlock()

	monitoring.ConnectionClosed()
	log.Printf("chat: %s disconnected (%s)", client.Username, client.ID)
}

// removeFromRoom must be called with h.mu held for writing.
func (h *Hub) removeFromRoom(client *Client, eventID uint) {
	delete(client.rooms, eventID)

	if members, ok := h.rooms[eventID]; ok {
		delete(members, client)

		if len(members) == 0 {
			delete(h.rooms, eventID)
		}
	}
}

// Join puts the client into an event room after checking participation.
func (h *Hub) Join(client *Client, eventID uint) error {
	member, err := h.store.IsMember(eventID, client.UserID)

	if err != nil {
		return fmt.Errorf("failed to check membership: %w", err)
	}

	if !member {
		return ErrNotMember
	}

	h.mu.Lock()

	if !h.clients[client] {
		h.mu.Unlock()
		return fmt.Errorf("client is not connected")
	}

	if h.rooms[eventID] == nil {
		h.rooms[eventID] = make(map[*Client]bool)
	}

	h.rooms[eventID][client] = true
	client.rooms[eventID] = true
	online := len(h.rooms[eventID])
	h.mu.Unlock()

	h.SendTo(client, OutgoingFrame{Type: FrameJoined, EventID: eventID, Online: online})
	h.Broadcast(eventID, OutgoingFrame{
		Type:     FramePresence,
		EventID:  eventID,
		UserID:   client.UserID,
		Username: client.Username,
		Online:   online,
	}, client)

	return nil
}

func (h *Hub) Leave(client *Client, eventID uint) {
	h.mu.Lock()

	if !client.rooms[eventID] {
		h.mu.Unlock()
		return
	}

	h.removeFromRoom(client, eventID)
	online := len(h.rooms[eventID])
	h.mu.Unlock()

	h.SendTo(client, OutgoingFrame{Type: FrameLeft, EventID: eventID})
	h.Broadcast(eventID, OutgoingFrame{
		Type:     FramePresence,
		EventID:  eventID,
		UserID:   client.UserID,
		Username: client.Username,
		Online:   online,
	}, nil)
}

// RemoveMember evicts every connection of userID from the room, for when the
// user stops being a participant of the event.
func (h *Hub) RemoveMember(eventID, userID uint) {
	h.mu.Lock()

	var removed []*Client
	for client := range h.rooms[eventID] {
		if client.UserID == userID {
			removed = append(removed, client)
		}
	}

	for _, client := range removed {
		h.removeFromRoom(client, eventID)
	}

	online := len(h.rooms[eventID])
	h.mu.Unlock()

	if len(removed) == 0 {
		return
	}

	for _, client := range removed {
		h.SendTo(client, OutgoingFrame{Type: FrameLeft, EventID: eventID})
	}

	h.Broadcast(eventID, OutgoingFrame{
		Type:     FramePresence,
		EventID:  eventID,
		UserID:   userID,
		Username: removed[0].Username,
		Online:   online,
	}, nil)
}

// CloseRoom evicts everyone from the room of a deleted event.
func (h *Hub) CloseRoom(eventID uint) {
	h.mu.Lock()

	members := make([]*Client, 0, len(h.rooms[eventID]))
	for client := range h.rooms[eventID] {
		delete(client.rooms, eventID)
		members = append(members, client)
	}
	delete(h.rooms, eventID)

	h.mu.Unlock()

	for _, client := range members {
		h.SendTo(client, OutgoingFrame{Type: FrameLeft, EventID: eventID})
	}
}

// DisconnectUser closes every connection the user holds.
func (h *Hub) DisconnectUser(userID uint) {
	h.mu.RLock()
	var clients []*Client
	for client := range h.clients {
		if client.UserID == userID {
			clients = append(clients, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range clients {
		h.Unregister(client)
	}
}

func (h *Hub) InRoom(client *Client, eventID uint) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return client.rooms[eventID]
}

func (h *Hub) RoomSize(eventID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.rooms[eventID])
}

// Broadcast sends frame to every client in the room except skip.
func (h *Hub) Broadcast(eventID uint, frame OutgoingFrame, skip *Client) {
	data, err := json.Marshal(frame)

	if err != nil {
		log.Printf("chat: failed to marshal %s frame: %v", frame.Type, err)
		return
	}

	var slow []*Client

	h.mu.RLock()
	for client := range h.rooms[eventID] {
		if client == skip {
			continue
		}

		select {
		case client.send <- data:
		default:
			slow = append(slow, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range slow {
		log.Printf("chat: dropping slow client %s", client.ID)
		h.Unregister(client)
	}
}

// SendTo delivers a frame to a single client.
func (h *Hub) SendTo(client *Client, frame OutgoingFrame) {
	data, err := json.Marshal(frame)

	if err != nil {
		log.Printf("chat: failed to marshal %s frame: %v", frame.Type, err)
		return
	}

	h.mu.RLock()
	delivered := true
	if h.clients[client] {
		select {
		case client.send <- data:
		default:
			delivered = false
		}
	}
	h.mu.RUnlock()

	if !delivered {
		h.Unregister(client)
	}
}

// SendMessage validates, persists and then broadcasts a message to the whole
// room, sender included. It backs both the socket and the REST endpoint.
func (h *Hub) SendMessage(eventID, authorID uint, text, transport string) (types.MessageResponse, error) {
	text, err := NormalizeText(text)

	if err != nil {
		return types.MessageResponse{}, err
	}

	member, err := h.store.IsMember(eventID, authorID)

	if err != nil {
		return types.MessageResponse{}, fmt.Errorf("failed to check membership: %w", err)
	}

	if !member {
		return types.MessageResponse{}, ErrNotMember
	}

	message, err := h.store.SaveMessage(eventID, authorID, text)

	if err != nil {
		return types.MessageResponse{}, err
	}

	monitoring.MessagePersisted(transport)

	h.Broadcast(eventID, OutgoingFrame{Type: FrameMessage, EventID: eventID, Message: &message}, nil)

	return message, nil
}

// MarkRead stores read receipts and tells the room who caught up.
func (h *Hub) MarkRead(eventID, userID uint, username string) (int64, error) {
	member, err := h.store.IsMember(eventID, userID)

	if err != nil {
		return 0, fmt.Errorf("failed to check membership: %w", err)
	}

	if !member {
		return 0, ErrNotMember
	}

	count, err := h.store.MarkRead(eventID, userID)

	if err != nil {
		return 0, err
	}

	if count > 0 {
		h.Broadcast(eventID, OutgoingFrame{
			Type:     FrameRead,
			EventID:  eventID,
			UserID:   userID,
			Username: username,
			Count:    count,
		}, nil)
	}

	return count, nil
}

// Typing is relayed to the room and never stored.
func (h *Hub) Typing(client *Client, eventID uint) {
	if !h.InRoom(client, eventID) {
		h.SendTo(client, OutgoingFrame{Type: FrameError, EventID: eventID, Error: "Join the room first"})
		return
	}

	h.Broadcast(eventID, OutgoingFrame{
		Type:     FrameTyping,
		EventID:  eventID,
		UserID:   client.UserID,
		Username: client.Username,
	}, client)
}

// Shutdown disconnects every client.
func (h *Hub) Shutdown() {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	for _, client := range clients {
		h.Unregister(client)
	}
}
