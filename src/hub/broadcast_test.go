package hub_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mangaverse/realtime/src/types"
)

func TestBroadcastReachesEveryConnection(t *testing.T) {
	h := newTestHub(t, time.Minute)
	_, anon := admit(t, h, "", false)
	_, authed := admit(t, h, "u1", false)

	sent := h.Broadcast(types.NewEnvelope("chapter:new", map[string]any{"seriesId": "s1"}))
	assert.Equal(t, 2, sent)

	for _, conn := range []*mockConn{anon, authed} {
		require.Eventually(t, func() bool {
			return len(conn.writtenOfType("chapter:new")) == 1
		}, time.Second, 5*time.Millisecond)
	}
}

func TestBroadcastToAuthenticatedSkipsAnonymous(t *testing.T) {
	h := newTestHub(t, time.Minute)
	_, anon := admit(t, h, "", false)
	_, authed := admit(t, h, "u1", false)

	sent := h.BroadcastToAuthenticated(types.NewEnvelope("reward:granted", map[string]any{"coins": 10}))
	assert.Equal(t, 1, sent)

	require.Eventually(t, func() bool {
		return len(authed.writtenOfType("reward:granted")) == 1
	}, time.Second, 5*time.Millisecond)
	assert.Empty(t, anon.writtenOfType("reward:granted"))
}

func TestBroadcastToUsersTargetsAllTheirConnections(t *testing.T) {
	h := newTestHub(t, time.Minute)
	_, u1a := admit(t, h, "u1", false)
	_, u1b := admit(t, h, "u1", false)
	_, u2 := admit(t, h, "u2", false)
	_, anon := admit(t, h, "", false)

	sent := h.BroadcastToUsers([]string{"u1"}, types.NewEnvelope("notify", map[string]any{"text": "hi"}))
	assert.Equal(t, 2, sent)

	for _, conn := range []*mockConn{u1a, u1b} {
		require.Eventually(t, func() bool {
			return len(conn.writtenOfType("notify")) == 1
		}, time.Second, 5*time.Millisecond)
	}
	assert.Empty(t, u2.writtenOfType("notify"))
	assert.Empty(t, anon.writtenOfType("notify"))
}

func TestSendToClientUnknownIDIsNoOp(t *testing.T) {
	h := newTestHub(t, time.Minute)
	ok := h.SendToClient("no-such-client", types.NewEnvelope("notify", nil))
	assert.False(t, ok)
}

func TestSendToClosedClientIsSkipped(t *testing.T) {
	h := newTestHub(t, time.Minute)
	c, conn := admit(t, h, "u1", false)

	c.Close()
	ok := h.SendToClient(c.ID, types.NewEnvelope("notify", nil))
	assert.False(t, ok)
	assert.Empty(t, conn.writtenOfType("notify"))
}
