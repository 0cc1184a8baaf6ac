package service

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mangaverse/realtime/src/hub"
	"github.com/mangaverse/realtime/src/types"
)

// Service is the programmatic API the rest of the system uses to push
// realtime messages — e.g. the REST layer notifying readers of a new
// chapter. Delivery is best-effort at-most-once.
type Service struct {
	hub    *hub.Hub
	logger zerolog.Logger
}

// New creates a service backed by the given hub.
func New(h *hub.Hub, logger zerolog.Logger) *Service {
	return &Service{hub: h, logger: logger.With().Str("component", "realtime").Logger()}
}

// Hub returns the underlying hub.
func (s *Service) Hub() *hub.Hub { return s.hub }

// Broadcast sends a message to every open connection.
func (s *Service) Broadcast(msgType string, payload any) int {
	return s.hub.Broadcast(types.NewEnvelope(msgType, payload))
}

// BroadcastToAuthenticated sends a message to authenticated connections only.
func (s *Service) BroadcastToAuthenticated(msgType string, payload any) int {
	return s.hub.BroadcastToAuthenticated(types.NewEnvelope(msgType, payload))
}

// BroadcastToUsers sends a message to every connection belonging to one of
// the given users.
func (s *Service) BroadcastToUsers(userIDs []string, msgType string, payload any) int {
	return s.hub.BroadcastToUsers(userIDs, types.NewEnvelope(msgType, payload))
}

// SendToClient sends a message to one connection. Delivery is not
// guaranteed; an unknown client id is reported, a full buffer is not.
func (s *Service) SendToClient(clientID, msgType string, payload any) error {
	if ok := s.hub.SendToClient(clientID, types.NewEnvelope(msgType, payload)); !ok {
		return fmt.Errorf("client %s not found or not writable", clientID)
	}
	return nil
}

// Stats returns connection statistics.
func (s *Service) Stats() types.Stats {
	return s.hub.Stats()
}

// ClientInfos returns metadata for every connected client.
func (s *Service) ClientInfos() []types.ClientInfo {
	return s.hub.ClientInfos()
}

// RegisterHandler registers a handler for a custom inbound frame type.
func (s *Service) RegisterHandler(frameType string, handler types.FrameHandler) {
	s.hub.RegisterHandler(frameType, handler)
	s.logger.Debug().Str("type", frameType).Msg("handler registered")
}

// OnConnection registers a callback for new connections.
func (s *Service) OnConnection(cb func(clientID string)) {
	s.hub.OnConnection(cb)
}

// OnDisconnection registers a callback for disconnections.
func (s *Service) OnDisconnection(cb func(clientID string)) {
	s.hub.OnDisconnection(cb)
}

// Shutdown closes all connections and stops the hub. Idempotent.
func (s *Service) Shutdown() {
	s.hub.Shutdown()
	s.logger.Info().Msg("realtime service stopped")
}
