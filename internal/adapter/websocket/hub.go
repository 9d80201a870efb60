package websocket

import (
	"errors"
	"sync"

	"github.com/gofiber/websocket/v2"

	"github.com/RufelleEmmanuelPactol/Tukma-Backend-sub000/internal/observability/telemetry"
)

var ErrClientGone = errors.New("websocket: client disconnected")

// Hub tracks open interview channels. Each connection gets a Client whose
// writer goroutine serializes outbound frames, so turn goroutines and the
// read loop can send without coordinating.
type Hub struct {
	// Registered clients.
	clients map[*Client]bool

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	mu sync.RWMutex
}

type Client struct {
	hub *Hub
	// The websocket connection.
	conn *websocket.Conn
	// Buffered channel of outbound frames.
	send chan []byte
	// Identity the channel was authorized for.
	identity string

	closeOnce sync.Once
}

func NewHub() *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			telemetry.ActiveInterviewSessions.Inc()
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.closeSend()
				telemetry.ActiveInterviewSessions.Dec()
			}
			h.mu.Unlock()
		}
	}
}

// ActiveCount reports currently registered channels.
func (h *Hub) ActiveCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Attach registers the connection and starts its writer. The caller keeps
// running the read loop on its own goroutine and must call Detach when done.
func (h *Hub) Attach(conn *websocket.Conn, identity string) *Client {
	client := &Client{hub: h, conn: conn, send: make(chan []byte, 64), identity: identity}
	h.register <- client
	go client.writePump()
	return client
}

func (h *Hub) Detach(client *Client) {
	h.unregister <- client
}

func (c *Client) Identity() string { return c.identity }

// Send queues a binary frame for delivery. A client that cannot keep up has
// its channel torn down rather than blocking the session.
func (c *Client) Send(frame []byte) error {
	select {
	case c.send <- frame:
		return nil
	default:
		c.hub.Detach(c)
		return ErrClientGone
	}
}

func (c *Client) closeSend() {
	c.closeOnce.Do(func() { close(c.send) })
}

func (c *Client) writePump() {
	defer c.conn.Close()
	for frame := range c.send {
		if err := c.conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
			return
		}
	}
	// The hub closed the channel.
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}
