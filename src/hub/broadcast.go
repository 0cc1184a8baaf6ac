package hub

import (
	"github.com/mangaverse/realtime/src/types"
)

// Broadcast delivers an envelope to every open connection. Best-effort:
// closed or backpressured clients are skipped, never retried. Returns the
// number of clients the envelope was queued for.
func (h *Hub) Broadcast(env types.Envelope) int {
	return h.broadcastWhere("all", env, func(*Client) bool { return true })
}

// BroadcastToAuthenticated delivers an envelope to connections holding a
// verified user identity. Anonymous connections never receive it.
func (h *Hub) BroadcastToAuthenticated(env types.Envelope) int {
	return h.broadcastWhere("authenticated", env, func(c *Client) bool {
		return c.Authenticated()
	})
}

// BroadcastToUsers delivers an envelope to every connection whose user is in
// userIDs. A user with several simultaneous connections receives it on each.
func (h *Hub) BroadcastToUsers(userIDs []string, env types.Envelope) int {
	targets := make(map[string]bool, len(userIDs))
	for _, id := range userIDs {
		targets[id] = true
	}
	return h.broadcastWhere("users", env, func(c *Client) bool {
		return c.Authenticated() && targets[c.UserID]
	})
}

// SendToClient queues an envelope for one connection. A missing or closed
// client is a silent no-op; callers must not assume delivery.
func (h *Hub) SendToClient(clientID string, env types.Envelope) bool {
	h.mu.RLock()
	c, ok := h.clients[clientID]
	h.mu.RUnlock()
	if !ok {
		return false
	}
	if !c.send(env) {
		metricDroppedSends.Inc()
		return false
	}
	return true
}

// broadcastWhere sends env to every client matching the filter, iterating a
// snapshot of the registry taken at call time.
func (h *Hub) broadcastWhere(target string, env types.Envelope, match func(*Client) bool) int {
	h.mu.RLock()
	snapshot := make([]*Client, 0, len(h.clients))
	for _, c := range h.clients {
		snapshot = append(snapshot, c)
	}
	h.mu.RUnlock()

	sent := 0
	for _, c := range snapshot {
		if !match(c) {
			continue
		}
		if c.send(env) {
			sent++
		} else {
			metricDroppedSends.Inc()
			h.logger.Warn().Str("client_id", c.ID).Msg("send buffer full, dropping")
		}
	}

	metricBroadcasts.WithLabelValues(target).Inc()
	h.logger.Debug().
		Str("type", env.Type).
		Str("target", target).
		Int("sent", sent).
		Msg("broadcast")
	return sent
}
