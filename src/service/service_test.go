package service_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mangaverse/realtime/src/auth"
	"github.com/mangaverse/realtime/src/hub"
	"github.com/mangaverse/realtime/src/service"
	"github.com/mangaverse/realtime/src/types"
)

// sinkConn is a minimal types.Conn that records writes.
type sinkConn struct {
	mu      sync.Mutex
	written []types.Envelope
	closed  chan struct{}
	once    sync.Once
}

func newSinkConn() *sinkConn { return &sinkConn{closed: make(chan struct{})} }

func (s *sinkConn) ReadMessage() ([]byte, error) {
	<-s.closed
	return nil, errors.New("closed")
}

func (s *sinkConn) WriteJSON(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if env, ok := v.(types.Envelope); ok {
		s.written = append(s.written, env)
	}
	return nil
}

func (s *sinkConn) WritePing() error      { return nil }
func (s *sinkConn) SetPongHandler(func()) {}
func (s *sinkConn) Close() error {
	s.once.Do(func() { close(s.closed) })
	return nil
}

func (s *sinkConn) countOfType(msgType string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, env := range s.written {
		if env.Type == msgType {
			n++
		}
	}
	return n
}

func newTestService(t *testing.T) (*service.Service, *hub.Hub) {
	t.Helper()
	h := hub.New(zerolog.Nop(), time.Minute)
	go h.Run()
	svc := service.New(h, zerolog.Nop())
	t.Cleanup(svc.Shutdown)
	return svc, h
}

func connect(t *testing.T, h *hub.Hub, userID string) (*hub.Client, *sinkConn) {
	t.Helper()
	conn := newSinkConn()
	c := hub.NewClient(uuid.NewString(), conn, auth.Identity{UserID: userID}, h, 16)
	h.Register(c)
	go c.WritePump()
	require.Eventually(t, func() bool {
		return h.ClientInfo(c.ID) != nil
	}, time.Second, 5*time.Millisecond)
	return c, conn
}

func TestServiceBroadcastBuildsTimestampedEnvelope(t *testing.T) {
	svc, h := newTestService(t)
	_, conn := connect(t, h, "")

	sent := svc.Broadcast("settings:updated", map[string]any{"theme": "dark"})
	assert.Equal(t, 1, sent)

	require.Eventually(t, func() bool {
		return conn.countOfType("settings:updated") == 1
	}, time.Second, 5*time.Millisecond)

	conn.mu.Lock()
	defer conn.mu.Unlock()
	for _, env := range conn.written {
		if env.Type == "settings:updated" {
			assert.Greater(t, env.Timestamp, int64(0))
		}
	}
}

func TestServiceBroadcastToUsers(t *testing.T) {
	svc, h := newTestService(t)
	_, u1 := connect(t, h, "u1")
	_, u2 := connect(t, h, "u2")

	sent := svc.BroadcastToUsers([]string{"u1"}, "gift:received", map[string]any{"coins": 50})
	assert.Equal(t, 1, sent)

	require.Eventually(t, func() bool {
		return u1.countOfType("gift:received") == 1
	}, time.Second, 5*time.Millisecond)
	assert.Zero(t, u2.countOfType("gift:received"))
}

func TestServiceSendToUnknownClient(t *testing.T) {
	svc, _ := newTestService(t)
	err := svc.SendToClient("missing", "notify", nil)
	assert.Error(t, err)
}

func TestServiceStats(t *testing.T) {
	svc, h := newTestService(t)
	connect(t, h, "")
	connect(t, h, "")
	connect(t, h, "u1")

	assert.Equal(t, types.Stats{Total: 3, Authenticated: 1, Alive: 3, Inactive: 0}, svc.Stats())
}

func TestServiceShutdownIdempotent(t *testing.T) {
	svc, h := newTestService(t)
	connect(t, h, "u1")

	svc.Shutdown()
	svc.Shutdown()
	assert.Equal(t, 0, h.ClientCount())
}
