package ws

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// clientConn serialises writes to one websocket connection. gorilla conns
// allow only a single concurrent writer, and broadcasts arrive from other
// connections' reader goroutines.
type clientConn struct {
	rawConn *websocket.Conn
	mu      sync.Mutex

	// hook replaces the websocket sender when set (used in tests).
	hook func(v any)
}

func (c *clientConn) setSendHook(fn func(v any)) {
	c.mu.Lock()
	c.hook = fn
	c.mu.Unlock()
}

func (c *clientConn) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.hook != nil {
		c.hook(v)
		return nil
	}
	_ = c.rawConn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.rawConn.WriteJSON(v)
}

func (c *clientConn) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.hook != nil {
		return nil
	}
	return c.rawConn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

func (c *clientConn) close() {
	if c.rawConn != nil {
		_ = c.rawConn.Close()
	}
}
