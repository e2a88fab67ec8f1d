// internal/handlers/hub.go
package handlers

import (
	"encoding/json"
	"sync"

	"github.com/NGoodma/expat/internal/game"
	"github.com/sirupsen/logrus"
)

// Connection is one websocket client. Frames are queued on OutChan and written
// by the connection's write pump.
type Connection struct {
	ID       string
	StableID string
	OutChan  chan []byte

	// room is the code the client last entered; only the read pump touches it.
	room string
}

func newConnection(id, stableID string) *Connection {
	return &Connection{
		ID:       id,
		StableID: stableID,
		OutChan:  make(chan []byte, 32),
	}
}

// WriteRaw queues an encoded frame without blocking. It reports whether the
// frame was queued.
func (c *Connection) WriteRaw(data []byte) bool {
	select {
	case c.OutChan <- data:
		return true
	default:
		return false
	}
}

// Hub fans room updates out to the connections attached to each room.
type Hub struct {
	mu     sync.Mutex
	rooms  map[string]map[string]*Connection
	logger *logrus.Logger
}

func NewHub(logger *logrus.Logger) *Hub {
	return &Hub{
		rooms:  make(map[string]map[string]*Connection),
		logger: logger,
	}
}

// Attach subscribes conn to the updates of room code.
func (h *Hub) Attach(code string, conn *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.rooms[code]
	if !ok {
		set = make(map[string]*Connection)
		h.rooms[code] = set
	}
	set[conn.ID] = conn
}

// Detach removes conn from room code.
func (h *Hub) Detach(code string, conn *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set, ok := h.rooms[code]; ok {
		delete(set, conn.ID)
		if len(set) == 0 {
			delete(h.rooms, code)
		}
	}
}

// DropRoom forgets every subscription of room code.
func (h *Hub) DropRoom(code string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.rooms, code)
}

// Subscribers returns the number of connections attached to room code.
func (h *Hub) Subscribers(code string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.rooms[code])
}

// Publish sends data to every connection of room code. Clients with a full
// queue miss the frame.
func (h *Hub) Publish(code string, data []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, conn := range h.rooms[code] {
		if !conn.WriteRaw(data) {
			h.logger.WithFields(logrus.Fields{"room": code, "conn": id}).Warn("outbound queue full, update dropped")
		}
	}
}

// BroadcastFunc returns the room's BroadcastFn. It runs with the room lock
// held, so it only encodes and queues.
func (h *Hub) BroadcastFunc(code string) func(ev game.RoomEvent) {
	return func(ev game.RoomEvent) {
		data, err := json.Marshal(ev)
		if err != nil {
			h.logger.WithError(err).WithField("room", code).Error("failed to marshal room update")
			return
		}
		h.Publish(code, data)
	}
}
