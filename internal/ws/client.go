package ws

import (
	"encoding/json"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// Spectators only send small requests.
	maxRequestSize = 512
	sendBuffer     = 64
)

// Client is one spectator connection. Frames queue on Send and are written
// by WritePump; requests read by ReadPump are handed to the hub.
type Client struct {
	ID   string
	Send chan []byte

	hub     *Hub
	conn    *websocket.Conn
	dropped atomic.Uint64

	mu     sync.Mutex
	closed bool
}

// NewClient creates a client for an upgraded connection.
func NewClient(id string, hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		ID:   id,
		Send: make(chan []byte, sendBuffer),
		hub:  hub,
		conn: conn,
	}
}

// Dropped returns how many messages were discarded because the client fell
// behind.
func (c *Client) Dropped() uint64 {
	return c.dropped.Load()
}

// ReadPump reads requests until the connection fails, then unregisters the
// client.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.leave(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxRequestSize)
	c.extendDeadline()
	c.conn.SetPongHandler(func(string) error {
		c.extendDeadline()
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Warn("spectator read failed", "client", c.ID, "error", err)
			}
			return
		}
		if !c.hub.deliver(&ClientMessage{Client: c, Data: data}) {
			return
		}
	}
}

// WritePump writes queued messages and keeps the connection alive with
// pings. It returns once Send is closed or a write fails.
func (c *Client) WritePump() {
	ping := time.NewTicker(pingPeriod)
	defer func() {
		ping.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.Send:
			if !ok {
				c.write(websocket.CloseMessage, nil)
				return
			}
			if err := c.write(websocket.TextMessage, data); err != nil {
				slog.Debug("spectator write failed", "client", c.ID, "error", err)
				return
			}
		case <-ping.C:
			if err := c.write(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) write(kind int, data []byte) error {
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(kind, data)
}

func (c *Client) extendDeadline() {
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
}

// SendMessage queues msg for this client only.
func (c *Client) SendMessage(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("failed to marshal message", "type", msg.Type, "error", err)
		return
	}
	c.enqueue(data)
}

// enqueue never blocks; a full buffer drops the message and a closed
// client ignores it.
func (c *Client) enqueue(data []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.Send <- data:
		return true
	default:
		n := c.dropped.Add(1)
		if n == 1 || n%100 == 0 {
			slog.Warn("spectator falling behind", "client", c.ID, "dropped", n)
		}
		return false
	}
}

// close ends the client's queue; WritePump then says goodbye.
func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.Send)
	}
}

// ClientMessage is a request together with the client that sent it.
type ClientMessage struct {
	Client *Client
	Data   []byte
}
