package notification

import (
	"sync"

	"github.com/gorilla/websocket"
)

// Hub tracks the websocket connection of each user currently listening
// on the notification stream. One connection per user; a newer
// connection replaces the old one.
type Hub struct {
	conns map[int64]*websocket.Conn
	mutex sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{conns: make(map[int64]*websocket.Conn)}
}

func (h *Hub) Register(userID int64, conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if old, ok := h.conns[userID]; ok && old != nil {
		_ = old.Close()
	}
	h.conns[userID] = conn
}

func (h *Hub) Unregister(userID int64) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if conn, ok := h.conns[userID]; ok && conn != nil {
		_ = conn.Close()
		delete(h.conns, userID)
	}
}

// Push delivers a message to the user if connected. A write failure
// drops the connection; the persisted row is the source of truth anyway.
func (h *Hub) Push(userID int64, message any) bool {
	h.mutex.RLock()
	conn, ok := h.conns[userID]
	h.mutex.RUnlock()

	if !ok || conn == nil {
		return false
	}
	if err := conn.WriteJSON(message); err != nil {
		h.Unregister(userID)
		return false
	}
	return true
}

func (h *Hub) Online(userID int64) bool {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	_, ok := h.conns[userID]
	return ok
}

func (h *Hub) Close() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for id, conn := range h.conns {
		if conn != nil {
			_ = conn.Close()
		}
		delete(h.conns, id)
	}
}
