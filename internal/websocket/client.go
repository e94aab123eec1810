package websocket

import (
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// Video frames arrive as base64 data URLs, so the limit is generous.
	maxMessageSize = 4 * 1024 * 1024

	sendBufferSize = 256
)

// Client wraps one websocket connection with a single-writer outbound queue.
// Multiple producers (turn controller, fraud monitor) enqueue; only writePump
// touches the connection for writes, so frames never interleave.
type Client struct {
	Conn *websocket.Conn

	send   chan []byte
	done   chan struct{} // closed when WritePump has drained and released Conn
	mu     sync.Mutex    // guards closed
	closed bool
}

func NewClient(conn *websocket.Conn) *Client {
	return &Client{
		Conn: conn,
		send: make(chan []byte, sendBufferSize),
		done: make(chan struct{}),
	}
}

// Enqueue queues an outbound message. Returns false when the session is
// already shutting down or the buffer is full (slow consumer).
func (c *Client) Enqueue(message []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- message:
		return true
	default:
		return false
	}
}

// CloseSend flushes-then-closes the outbound queue: writePump drains whatever
// is already buffered, then sends the close frame. Safe to call twice.
func (c *Client) CloseSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// WaitClosed blocks until the write pump has drained the outbound queue and
// closed the connection. Callers must CloseSend first or this never returns.
func (c *Client) WaitClosed() {
	<-c.done
}

// WritePump pumps queued messages to the websocket connection. It owns the
// connection's write side and its closure: nobody else may close Conn while
// the pump runs, or buffered messages (including the terminal one) are lost.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
		close(c.done)
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The dispatcher closed the queue.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
