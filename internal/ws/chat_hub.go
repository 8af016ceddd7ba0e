package ws

import (
	"encoding/json"
	"sync"
)

// GroupRoom is one room per chipereganyu group.
type GroupRoom struct {
	GroupID uint
	clients map[*Client]struct{}
	mu      sync.RWMutex
}

func NewGroupRoom(groupID uint) *GroupRoom {
	return &GroupRoom{
		GroupID: groupID,
		clients: make(map[*Client]struct{}),
	}
}

func (r *GroupRoom) Join(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.room = r
	r.clients[c] = struct{}{}
}

func (r *GroupRoom) Leave(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.clients, c)
}

func (r *GroupRoom) ClientCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}

// Broadcast sends payload to every member in the room except the sender.
func (r *GroupRoom) Broadcast(from *Client, payload interface{}) {
	data, _ := json.Marshal(payload)
	r.mu.RLock()
	clients := make([]*Client, 0, len(r.clients))
	for c := range r.clients {
		if c != from {
			clients = append(clients, c)
		}
	}
	r.mu.RUnlock()
	for _, c := range clients {
		select {
		case c.Send <- data:
		default:
		}
	}
}

// ChatHub holds all group chat rooms by group ID.
type ChatHub struct {
	mu    sync.RWMutex
	rooms map[uint]*GroupRoom
}

func NewChatHub() *ChatHub {
	return &ChatHub{rooms: make(map[uint]*GroupRoom)}
}

func (h *ChatHub) GetOrCreateRoom(groupID uint) *GroupRoom {
	h.mu.Lock()
	defer h.mu.Unlock()
	if r, ok := h.rooms[groupID]; ok {
		return r
	}
	r := NewGroupRoom(groupID)
	h.rooms[groupID] = r
	return r
}

func (h *ChatHub) RemoveRoom(groupID uint) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.rooms, groupID)
}
