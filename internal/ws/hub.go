// Package ws fans match updates out to every browser watching a match.
package ws

import (
	"context"
	"sync"
	"time"

	"github.com/coder/websocket"
)

const (
	writeTimeout = 3 * time.Second
	// sendBuffer is how many messages a client may fall behind before it is dropped
	sendBuffer = 64
)

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub queues messages per connection. Each connection has its own writer
// goroutine, so Broadcast never waits on the network.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]*client
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]*client)}
}

func (h *Hub) Add(conn *websocket.Conn) {
	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	h.mu.Lock()
	if _, exists := h.clients[conn]; exists {
		h.mu.Unlock()
		return
	}
	h.clients[conn] = c
	h.mu.Unlock()
	go h.writeLoop(c)
}

// Remove stops the connection's writer. Messages still queued are dropped.
func (h *Hub) Remove(conn *websocket.Conn) {
	h.mu.Lock()
	h.removeLocked(conn)
	h.mu.Unlock()
}

func (h *Hub) removeLocked(conn *websocket.Conn) bool {
	c, ok := h.clients[conn]
	if !ok {
		return false
	}
	delete(h.clients, conn)
	close(c.send)
	return true
}

func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Broadcast queues message for every client. Clients whose queue is full
// are disconnected.
func (h *Hub) Broadcast(message []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn, c := range h.clients {
		select {
		case c.send <- message:
		default:
			h.removeLocked(conn)
			go conn.Close(websocket.StatusPolicyViolation, "client too slow")
		}
	}
}

// SendTo queues message for a single client, after anything already queued
// for it. It reports false if the client is not in the hub or is too slow.
func (h *Hub) SendTo(conn *websocket.Conn, message []byte) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	c, ok := h.clients[conn]
	if !ok {
		return false
	}
	select {
	case c.send <- message:
		return true
	default:
		h.removeLocked(conn)
		go conn.Close(websocket.StatusPolicyViolation, "client too slow")
		return false
	}
}

// CloseAll disconnects every client, e.g. when the match is torn down
func (h *Hub) CloseAll(reason string) {
	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for conn := range h.clients {
		h.removeLocked(conn)
		conns = append(conns, conn)
	}
	h.mu.Unlock()

	for _, conn := range conns {
		_ = conn.Close(websocket.StatusGoingAway, reason)
	}
}

func (h *Hub) writeLoop(c *client) {
	for message := range c.send {
		if err := Send(c.conn, message); err != nil {
			h.Remove(c.conn)
			_ = c.conn.CloseNow()
			return
		}
	}
}

// Send writes a single text message to one connection
func Send(conn *websocket.Conn, message []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	return conn.Write(ctx, websocket.MessageText, message)
}
