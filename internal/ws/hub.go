package ws

import (
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

// Client is one WebSocket connection fed by the hub.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// Hub fans scenario frames out to connected clients. The last published
// scenario:set frame is retained and queued for every client that joins
// later.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	latest  []byte
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*Client]struct{})}
}

// Register adds c and queues the retained scenario set, if any.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
	if h.latest != nil {
		deliver(c, h.latest)
	}
}

func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

// Publish retains msg as the current scenario set and sends it to every
// client.
func (h *Hub) Publish(msg []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.latest = msg
	for c := range h.clients {
		deliver(c, msg)
	}
}

// Broadcast sends a transient frame, such as scenario profiles, to every
// client without retaining it.
func (h *Hub) Broadcast(msg []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		deliver(c, msg)
	}
}

// Latest returns the retained scenario:set frame, or nil before the first
// Publish.
func (h *Hub) Latest() []byte {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.latest
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func deliver(c *Client, msg []byte) {
	select {
	case c.send <- msg:
	default:
		log.Printf("client send buffer full, dropping %d byte frame", len(msg))
	}
}

// writePump drains the send queue into the connection until the hub closes it.
func (c *Client) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}
