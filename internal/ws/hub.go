package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
)

// Hub tracks connected spectators. Membership changes and incoming requests
// are serialized through Run; broadcasts may come from any goroutine.
type Hub struct {
	Register   chan *Client
	Unregister chan *Client
	Incoming   chan *ClientMessage

	// OnConnect is called after a client joins.
	OnConnect func(client *Client)
	// OnMessage is called for each request.
	OnMessage func(cm *ClientMessage)
	// OnDisconnect is called after a client leaves.
	OnDisconnect func(client *Client)

	mu      sync.RWMutex
	clients map[*Client]struct{}
	done    chan struct{}
}

// NewHub creates an idle hub. Call Run to start serving it.
func NewHub() *Hub {
	return &Hub{
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		Incoming:   make(chan *ClientMessage, 64),
		clients:    make(map[*Client]struct{}),
		done:       make(chan struct{}),
	}
}

// Run serves the hub until ctx is cancelled, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	defer h.closeAll()

	for {
		select {
		case <-ctx.Done():
			return

		case c := <-h.Register:
			h.mu.Lock()
			h.clients[c] = struct{}{}
			n := len(h.clients)
			h.mu.Unlock()
			slog.Info("spectator connected", "client", c.ID, "spectators", n)
			if h.OnConnect != nil {
				h.OnConnect(c)
			}

		case c := <-h.Unregister:
			if !h.remove(c) {
				continue
			}
			slog.Info("spectator disconnected", "client", c.ID, "dropped", c.Dropped())
			if h.OnDisconnect != nil {
				h.OnDisconnect(c)
			}

		case cm := <-h.Incoming:
			if h.OnMessage != nil {
				h.OnMessage(cm)
			}
		}
	}
}

func (h *Hub) remove(c *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return false
	}
	delete(h.clients, c)
	c.close()
	return true
}

func (h *Hub) closeAll() {
	close(h.done)
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		c.close()
	}
	h.clients = make(map[*Client]struct{})
}

// join hands a client to Run. It reports false once the hub has stopped.
func (h *Hub) join(c *Client) bool {
	select {
	case h.Register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) leave(c *Client) {
	select {
	case h.Unregister <- c:
	case <-h.done:
	}
}

func (h *Hub) deliver(cm *ClientMessage) bool {
	select {
	case h.Incoming <- cm:
		return true
	case <-h.done:
		return false
	}
}

// Attach registers a freshly upgraded client and starts its pumps.
func (h *Hub) Attach(c *Client) {
	if !h.join(c) {
		c.conn.Close()
		return
	}
	go c.WritePump()
	go c.ReadPump()
}

// Broadcast queues data for every spectator. Spectators with a full buffer
// miss this message.
func (h *Hub) Broadcast(data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		c.enqueue(data)
	}
}

// BroadcastMessage marshals msg once and broadcasts it.
func (h *Hub) BroadcastMessage(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("failed to marshal message", "type", msg.Type, "error", err)
		return
	}
	h.Broadcast(data)
}

// ClientCount returns the number of connected spectators.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
