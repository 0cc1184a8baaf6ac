package hub

import (
	"encoding/json"

	"github.com/mangaverse/realtime/src/types"
)

// route dispatches an inbound frame by its type discriminator. "subscribe"
// and "ping" are built in; other types fall through to registered handlers.
// Unknown types are logged and ignored — never a reason to drop the
// connection.
func (h *Hub) route(in inbound) {
	metricFrames.WithLabelValues(frameLabel(in.frame.Type)).Inc()

	switch in.frame.Type {
	case "subscribe":
		h.handleSubscribe(in.clientID, in.frame.Payload)
	case "ping":
		h.SendToClient(in.clientID, types.NewEnvelope("pong", map[string]any{}))
	default:
		h.mu.RLock()
		handler, ok := h.handlers[in.frame.Type]
		h.mu.RUnlock()
		if !ok {
			h.logger.Debug().
				Str("client_id", in.clientID).
				Str("type", in.frame.Type).
				Msg("unknown message type")
			return
		}
		if err := handler(in.clientID, in.frame); err != nil {
			h.logger.Error().Err(err).
				Str("client_id", in.clientID).
				Str("type", in.frame.Type).
				Msg("handler error")
		}
	}
}

// handleSubscribe records the requested channels on the client. Channels are
// an extension point for targeted delivery; current broadcast operations are
// not channel-filtered.
func (h *Hub) handleSubscribe(clientID string, payload json.RawMessage) {
	var sub types.SubscribePayload
	if err := json.Unmarshal(payload, &sub); err != nil {
		h.logger.Warn().Err(err).Str("client_id", clientID).Msg("bad subscribe payload")
		return
	}

	h.mu.RLock()
	c, ok := h.clients[clientID]
	h.mu.RUnlock()
	if !ok {
		return
	}
	for _, ch := range sub.Channels {
		c.AddChannel(ch)
	}
	h.logger.Info().
		Str("client_id", clientID).
		Strs("channels", sub.Channels).
		Msg("client subscribed")
}

// RegisterHandler registers a handler for a custom frame type. Built-in
// types cannot be overridden.
func (h *Hub) RegisterHandler(frameType string, handler types.FrameHandler) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handlers[frameType] = handler
}

func frameLabel(t string) string {
	switch t {
	case "subscribe", "ping":
		return t
	default:
		return "other"
	}
}
