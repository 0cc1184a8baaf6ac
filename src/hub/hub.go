package hub

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/mangaverse/realtime/src/types"
)

// Hub owns the registry of live WebSocket connections. All registry
// mutation funnels through the event loop in Run or is guarded by mu, so
// snapshot iteration and at-most-once removal hold on a multi-threaded host.
type Hub struct {
	clients map[string]*Client

	register   chan *Client
	unregister chan *Client
	incoming   chan inbound
	pongs      chan string

	handlers  map[string]types.FrameHandler
	onConnect []func(string)
	onDisconn []func(string)

	pingInterval time.Duration
	mu           sync.RWMutex
	logger       zerolog.Logger
	done         chan struct{}
	stopOnce     sync.Once
}

type inbound struct {
	clientID string
	frame    types.Frame
}

// New creates a hub that probes connection liveness every pingInterval.
func New(logger zerolog.Logger, pingInterval time.Duration) *Hub {
	return &Hub{
		clients:      make(map[string]*Client),
		register:     make(chan *Client),
		unregister:   make(chan *Client),
		incoming:     make(chan inbound, 256),
		pongs:        make(chan string, 256),
		handlers:     make(map[string]types.FrameHandler),
		pingInterval: pingInterval,
		logger:       logger.With().Str("component", "hub").Logger(),
		done:         make(chan struct{}),
	}
}

// Run starts the hub event loop, including the heartbeat ticker.
// Call in a goroutine.
func (h *Hub) Run() {
	ticker := time.NewTicker(h.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client, false)
		case in := <-h.incoming:
			h.route(in)
		case clientID := <-h.pongs:
			h.confirmAlive(clientID)
		case <-ticker.C:
			h.sweep()
		case <-h.done:
			return
		}
	}
}

// Register queues a client for admission.
func (h *Hub) Register(c *Client) {
	select {
	case h.register <- c:
	case <-h.done:
	}
}

// Unregister queues a client for removal. Safe to call more than once per
// client; only the first removal has effect.
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Pong records a transport-level pong from a connection.
func (h *Hub) Pong(clientID string) {
	select {
	case h.pongs <- clientID:
	case <-h.done:
	}
}

func (h *Hub) addClient(c *Client) {
	h.mu.Lock()
	h.clients[c.ID] = c
	total := len(h.clients)
	h.mu.Unlock()

	metricConnections.Inc()
	metricAdmissions.Inc()
	h.logger.Info().
		Str("client_id", c.ID).
		Str("user_id", c.UserID).
		Bool("is_admin", c.IsAdmin).
		Int("total", total).
		Msg("client connected")

	// Welcome envelope confirming the server-derived identity.
	c.send(types.NewEnvelope("connection", map[string]any{
		"clientId":      c.ID,
		"message":       "Connected to MangaVerse WebSocket",
		"authenticated": c.Authenticated(),
		"isAdmin":       c.IsAdmin,
	}))

	for _, cb := range h.onConnect {
		cb(c.ID)
	}
}

func (h *Hub) removeClient(c *Client, evicted bool) {
	h.mu.Lock()
	if _, ok := h.clients[c.ID]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c.ID)
	total := len(h.clients)
	h.mu.Unlock()

	c.Close()
	metricConnections.Dec()
	if evicted {
		metricEvictions.Inc()
	}
	h.logger.Info().
		Str("client_id", c.ID).
		Bool("evicted", evicted).
		Int("total", total).
		Msg("client disconnected")

	for _, cb := range h.onDisconn {
		cb(c.ID)
	}
}

func (h *Hub) confirmAlive(clientID string) {
	h.mu.RLock()
	c, ok := h.clients[clientID]
	h.mu.RUnlock()
	if ok {
		c.confirmAlive()
	}
}

// sweep probes every registered connection and evicts peers that failed to
// answer the previous probe. A dead peer is removed within two intervals of
// going silent.
func (h *Hub) sweep() {
	h.mu.RLock()
	snapshot := make([]*Client, 0, len(h.clients))
	for _, c := range h.clients {
		snapshot = append(snapshot, c)
	}
	h.mu.RUnlock()

	for _, c := range snapshot {
		if !c.Alive() {
			h.logger.Info().Str("client_id", c.ID).Msg("terminating unresponsive client")
			h.removeClient(c, true)
			continue
		}
		c.markAwaitingPong()
		if err := c.ping(); err != nil {
			h.logger.Warn().Err(err).Str("client_id", c.ID).Msg("liveness probe failed")
		}
	}
}

// Shutdown closes every connection and stops the event loop and heartbeat
// ticker. Idempotent; safe to call once per process lifetime or more.
func (h *Hub) Shutdown() {
	h.stopOnce.Do(func() {
		close(h.done)

		h.mu.Lock()
		snapshot := make([]*Client, 0, len(h.clients))
		for _, c := range h.clients {
			snapshot = append(snapshot, c)
		}
		h.clients = make(map[string]*Client)
		h.mu.Unlock()

		for _, c := range snapshot {
			c.Close()
		}
		metricConnections.Set(0)
		h.logger.Info().Int("closed", len(snapshot)).Msg("hub shut down")
	})
}
