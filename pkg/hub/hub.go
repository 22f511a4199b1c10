package hub

import (
	"context"
	"sync"

	"github.com/teslashibe/go-snowdrive/internal/log"
)

// Hub maintains the set of active clients and broadcasts messages to them
type Hub struct {
	// Name for logging
	name string

	// Registered clients
	clients map[*Client]bool

	// Inbound messages to broadcast
	broadcast chan Message

	// Register requests from clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Closed when Run returns
	done chan struct{}

	// Most recent broadcast, sent to clients as they join so a viewer of a
	// paused session still sees where the car is
	last    Message
	hasLast bool

	// Guards clients, running and stopped for callers outside Run
	mu      sync.RWMutex
	running bool
	stopped bool
	dropped uint64
}

// New creates a new Hub
func New(name string) *Hub {
	return &Hub{
		name:       name,
		clients:    make(map[*Client]bool),
		broadcast:  make(chan Message, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run starts the hub's main loop until ctx is cancelled, then disconnects
// every client. Call it in a goroutine.
func (h *Hub) Run(ctx context.Context) {
	h.mu.Lock()
	h.running = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		for client := range h.clients {
			close(client.send)
			delete(h.clients, client)
		}
		h.running = false
		h.stopped = true
		h.mu.Unlock()
		close(h.done)
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			if h.hasLast {
				select {
				case client.send <- h.last:
				default:
				}
			}
			count := len(h.clients)
			h.mu.Unlock()
			log.Debug("hub client connected", "hub", h.name, "clients", count)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			count := len(h.clients)
			h.mu.Unlock()
			log.Debug("hub client disconnected", "hub", h.name, "clients", count)

		case message := <-h.broadcast:
			h.mu.Lock()
			h.last, h.hasLast = message, true
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Client's buffer is full: drop it rather than stall the tick.
					close(client.send)
					delete(h.clients, client)
					log.Warn("hub dropped slow client", "hub", h.name)
				}
			}
			h.mu.Unlock()
		}
	}
}

// add registers c. Before Run starts the client goes straight into the set
// and Run picks it up; after Run returns its channel is closed at once.
func (h *Hub) add(c *Client) bool {
	h.mu.Lock()
	switch {
	case h.stopped:
		h.mu.Unlock()
		close(c.send)
		return false
	case !h.running:
		h.clients[c] = true
		h.mu.Unlock()
		return true
	}
	h.mu.Unlock()

	select {
	case h.register <- c:
		return true
	case <-h.done:
		close(c.send)
		return false
	}
}

func (h *Hub) remove(c *Client) {
	h.mu.Lock()
	switch {
	case h.stopped:
		h.mu.Unlock()
		return
	case !h.running:
		if _, ok := h.clients[c]; ok {
			delete(h.clients, c)
			close(c.send)
		}
		h.mu.Unlock()
		return
	}
	h.mu.Unlock()

	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Broadcast queues a message for all connected clients without blocking.
func (h *Hub) Broadcast(msg Message) {
	select {
	case h.broadcast <- msg:
	default:
		h.mu.Lock()
		h.dropped++
		h.mu.Unlock()
	}
}

// BroadcastJSON encodes and broadcasts a JSON message
func (h *Hub) BroadcastJSON(v any) error {
	msg, err := Encode(v)
	if err != nil {
		return err
	}
	h.Broadcast(msg)
	return nil
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Dropped returns how many broadcasts were discarded because the queue was full.
func (h *Hub) Dropped() uint64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.dropped
}

// IsRunning returns whether the hub is running
func (h *Hub) IsRunning() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.running
}
