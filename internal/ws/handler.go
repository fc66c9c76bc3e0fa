package ws

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"prosumer_scenarios/internal/model"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Generator produces a fresh scenario set. A nil seed means a random one.
type Generator interface {
	Generate(ctx context.Context, seed *uint64) (*model.ScenarioSet, error)
}

// Handler manages WebSocket connections and serves the current scenario set.
type Handler struct {
	hub    *Hub
	bridge *Bridge
	gen    Generator

	mu      sync.Mutex // serializes regenerations
	current *model.ScenarioSet
}

// NewHandler publishes initial, when given, as the hub's current set.
func NewHandler(hub *Hub, gen Generator, initial *model.ScenarioSet) *Handler {
	h := &Handler{hub: hub, bridge: NewBridge(hub), gen: gen, current: initial}
	if initial != nil {
		h.bridge.PublishSet(initial)
	}
	return h
}

// Current returns the most recently generated set, or nil.
func (h *Handler) Current() *model.ScenarioSet {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.current
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	client := &Client{
		hub:  h.hub,
		conn: conn,
		send: make(chan []byte, 256),
	}

	// Register queues the current scenario set.
	h.hub.Register(client)
	go client.writePump()

	h.readPump(r.Context(), client)
}

func (h *Handler) readPump(ctx context.Context, c *Client) {
	defer func() {
		h.hub.Unregister(c)
		c.conn.Close()
	}()

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("WebSocket read error: %v", err)
			}
			return
		}

		h.handleMessage(ctx, c, msg)
	}
}

func (h *Handler) handleMessage(ctx context.Context, c *Client, msg []byte) {
	var env Envelope
	if err := json.Unmarshal(msg, &env); err != nil {
		log.Printf("Invalid message: %v", err)
		return
	}

	switch env.Type {
	case TypeScenarioGet:
		h.sendCurrent(c)

	case TypeScenarioRegenerate:
		var p RegeneratePayload
		if len(env.Payload) > 0 {
			if err := json.Unmarshal(env.Payload, &p); err != nil {
				log.Printf("Invalid regenerate payload: %v", err)
				sendError(c, "invalid regenerate payload")
				return
			}
		}
		if err := h.regenerate(ctx, p.Seed); err != nil {
			log.Printf("Scenario generation failed: %v", err)
			sendError(c, err.Error())
		}

	default:
		log.Printf("Unknown message type: %s", env.Type)
	}
}

// regenerate holds the lock through publication; sets reach the hub in
// generation order.
func (h *Handler) regenerate(ctx context.Context, seed *uint64) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, err := h.gen.Generate(ctx, seed)
	if err != nil {
		return err
	}
	h.current = set
	h.bridge.PublishSet(set)
	return nil
}

func (h *Handler) sendCurrent(c *Client) {
	msg := h.hub.Latest()
	if msg == nil {
		return
	}
	select {
	case c.send <- msg:
	default:
	}
}

func sendError(c *Client, message string) {
	msg, err := NewEnvelope(TypeError, ErrorPayload{Message: message})
	if err != nil {
		return
	}
	select {
	case c.send <- msg:
	default:
	}
}
