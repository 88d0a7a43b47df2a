// Package ws pushes booking events to castle owners over WebSocket.
package ws

import (
	"context"
	"sync"
	"time"

	"castlebooking/internal/events"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const writeWait = 5 * time.Second

type client struct {
	conn *websocket.Conn
	// gorilla connections allow one concurrent writer
	mu sync.Mutex
}

func (c *client) send(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(v)
}

func (c *client) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

// Hub tracks the open connections subscribed to each castle.
type Hub struct {
	mutex  sync.RWMutex
	rooms  map[uuid.UUID]map[*client]struct{}
	closed bool
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[uuid.UUID]map[*client]struct{})}
}

func (h *Hub) register(castleID uuid.UUID, conn *websocket.Conn) *client {
	c := &client{conn: conn}

	h.mutex.Lock()
	defer h.mutex.Unlock()
	if h.closed {
		_ = conn.Close()
		return c
	}
	subs, ok := h.rooms[castleID]
	if !ok {
		subs = make(map[*client]struct{})
		h.rooms[castleID] = subs
	}
	subs[c] = struct{}{}
	return c
}

func (h *Hub) unregister(castleID uuid.UUID, c *client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if subs, ok := h.rooms[castleID]; ok {
		delete(subs, c)
		if len(subs) == 0 {
			delete(h.rooms, castleID)
		}
	}
	_ = c.conn.Close()
}

// Subscribers returns the number of open connections for castleID.
func (h *Hub) Subscribers(castleID uuid.UUID) int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.rooms[castleID])
}

// Publish sends e to every subscriber of its castle. Connections that fail
// to take the write are dropped.
func (h *Hub) Publish(_ context.Context, e events.Event) error {
	h.mutex.RLock()
	targets := make([]*client, 0, len(h.rooms[e.CastleID]))
	for c := range h.rooms[e.CastleID] {
		targets = append(targets, c)
	}
	h.mutex.RUnlock()

	for _, c := range targets {
		if err := c.send(e); err != nil {
			h.unregister(e.CastleID, c)
		}
	}
	return nil
}

func (h *Hub) Close() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for castleID, subs := range h.rooms {
		for c := range subs {
			_ = c.conn.Close()
		}
		delete(h.rooms, castleID)
	}
	h.closed = true
}
