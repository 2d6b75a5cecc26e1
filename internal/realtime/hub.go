// Package realtime pushes domain events to connected dashboards over
// WebSocket so room boards and reservation lists refresh without polling.
package realtime

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/iliyamo/hotel-front-desk/internal/events"
)

type MessageType string

const (
	MessageTypeEvent       MessageType = "EVENT"
	MessageTypeSubscribe   MessageType = "SUBSCRIBE"
	MessageTypeUnsubscribe MessageType = "UNSUBSCRIBE"
	MessageTypeError       MessageType = "ERROR"
)

// Message is the JSON frame exchanged with dashboards.  For EVENT frames
// Payload is the domain event; SUBSCRIBE and UNSUBSCRIBE carry Resources.
type Message struct {
	Type      MessageType `json:"type"`
	Payload   any         `json:"payload,omitempty"`
	Resources []string    `json:"resources,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Client is one dashboard connection.  A client with no resource
// subscriptions receives every event.
type Client struct {
	ID   uuid.UUID
	conn *websocket.Conn
	hub  *Hub
	send chan Message

	mu        sync.RWMutex
	resources map[string]bool
}

func (c *Client) Subscribe(resources ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, r := range resources {
		c.resources[r] = true
	}
}

func (c *Client) Unsubscribe(resources ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, r := range resources {
		delete(c.resources, r)
	}
}

// Wants reports whether the client should receive an event touching any of
// resources.
func (c *Client) Wants(resources []string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.resources) == 0 {
		return true
	}
	for _, r := range resources {
		if c.resources[r] {
			return true
		}
	}
	return false
}

// Hub tracks connected clients and fans events out to them.
type Hub struct {
	log *zap.Logger

	clients    map[*Client]bool
	broadcast  chan events.Event
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mu         sync.RWMutex
}

func NewHub(log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		log:        log,
		clients:    make(map[*Client]bool),
		broadcast:  make(chan events.Event, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run owns client registration and delivery until ctx is done, then closes
// every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()

		case e := <-h.broadcast:
			h.deliver(e)
		}
	}
}

// Publish queues e for delivery.  It never blocks; when the hub is
// saturated the event is dropped and dashboards catch up on their next
// fetch.
func (h *Hub) Publish(e events.Event) {
	select {
	case h.broadcast <- e:
	default:
		h.log.Warn("websocket hub saturated, dropping event", zap.String("event", string(e.Type)))
	}
}

func (h *Hub) deliver(e events.Event) {
	msg := Message{Type: MessageTypeEvent, Payload: e, Resources: e.Resources, Timestamp: time.Now().UTC()}
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		if !client.Wants(e.Resources) {
			continue
		}
		select {
		case client.send <- msg:
		default:
			// Slow consumer; drop the connection rather than stall everyone.
			close(client.send)
			delete(h.clients, client)
		}
	}
}

func (h *Hub) add(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) remove(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
