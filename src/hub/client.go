package hub

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/mangaverse/realtime/src/auth"
	"github.com/mangaverse/realtime/src/types"
)

// Client wraps one WebSocket connection together with its verified identity
// and liveness state. Identity is fixed at admission; the liveness fields are
// owned by the heartbeat sweep and the pong handler.
type Client struct {
	ID      string
	UserID  string // empty for anonymous connections
	IsAdmin bool

	conn        types.Conn
	hub         *Hub
	Send        chan types.Envelope
	connectedAt time.Time
	channels    map[string]bool

	mu       sync.RWMutex
	alive    bool
	lastPing time.Time
	done     chan struct{}
	closed   bool
}

// NewClient creates a client wrapper for an admitted connection.
func NewClient(id string, conn types.Conn, ident auth.Identity, h *Hub, sendBuffer int) *Client {
	return &Client{
		ID:          id,
		UserID:      ident.UserID,
		IsAdmin:     ident.IsAdmin,
		conn:        conn,
		hub:         h,
		Send:        make(chan types.Envelope, sendBuffer),
		connectedAt: time.Now(),
		channels:    make(map[string]bool),
		alive:       true,
		lastPing:    time.Now(),
		done:        make(chan struct{}),
	}
}

// Authenticated reports whether the client holds a verified user identity.
func (c *Client) Authenticated() bool { return c.UserID != "" }

// Info returns metadata about this client.
func (c *Client) Info() types.ClientInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()

	channels := make([]string, 0, len(c.channels))
	for ch := range c.channels {
		channels = append(channels, ch)
	}
	return types.ClientInfo{
		ID:            c.ID,
		ConnectedAt:   c.connectedAt,
		Authenticated: c.Authenticated(),
		IsAdmin:       c.IsAdmin,
		Channels:      channels,
	}
}

// AddChannel records a channel subscription. Subscriptions are recorded for
// diagnostics only; broadcast delivery is not channel-filtered.
func (c *Client) AddChannel(channel string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.channels[channel] = true
}

// Alive reports whether the client answered the most recent liveness probe.
func (c *Client) Alive() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.alive
}

// LastPing returns the time of the most recent liveness confirmation.
func (c *Client) LastPing() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastPing
}

// confirmAlive records a pong from the peer.
func (c *Client) confirmAlive() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.alive = true
	c.lastPing = time.Now()
}

// markAwaitingPong clears the alive flag ahead of a liveness probe.
func (c *Client) markAwaitingPong() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.alive = false
}

// ping sends a transport-level liveness probe.
func (c *Client) ping() error {
	return c.conn.WritePing()
}

// send queues an envelope without blocking. Returns false when the client is
// closed or its buffer is full; delivery is best-effort either way.
func (c *Client) send(env types.Envelope) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return false
	}
	select {
	case c.Send <- env:
		return true
	default:
		return false
	}
}

// ReadPump reads frames from the WebSocket and routes them to the hub.
// A frame that fails to parse is logged and skipped; only transport errors
// end the pump.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	for {
		data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var frame types.Frame
		if err := json.Unmarshal(data, &frame); err != nil {
			c.hub.logger.Warn().Err(err).Str("client_id", c.ID).Msg("malformed frame")
			continue
		}
		select {
		case c.hub.incoming <- inbound{clientID: c.ID, frame: frame}:
		case <-c.done:
			return
		}
	}
}

// WritePump writes queued envelopes to the WebSocket.
func (c *Client) WritePump() {
	defer c.conn.Close()

	for {
		select {
		case env := <-c.Send:
			if err := c.conn.WriteJSON(env); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}

// Close signals the client's pumps to stop. Idempotent.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.done)
	}
}
