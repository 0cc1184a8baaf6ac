package hub

import (
	"github.com/mangaverse/realtime/src/types"
)

// Stats returns counts over the current registry snapshot.
func (h *Hub) Stats() types.Stats {
	h.mu.RLock()
	defer h.mu.RUnlock()

	s := types.Stats{Total: len(h.clients)}
	for _, c := range h.clients {
		if c.Authenticated() {
			s.Authenticated++
		}
		if c.Alive() {
			s.Alive++
		}
	}
	s.Inactive = s.Total - s.Alive
	return s
}

// ConnectedClients returns the ids of all registered clients.
func (h *Hub) ConnectedClients() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	ids := make([]string, 0, len(h.clients))
	for id := range h.clients {
		ids = append(ids, id)
	}
	return ids
}

// ClientInfo returns metadata for one client, or nil if unknown.
func (h *Hub) ClientInfo(clientID string) *types.ClientInfo {
	h.mu.RLock()
	c, ok := h.clients[clientID]
	h.mu.RUnlock()
	if !ok {
		return nil
	}
	info := c.Info()
	return &info
}

// ClientInfos returns metadata for every registered client.
func (h *Hub) ClientInfos() []types.ClientInfo {
	h.mu.RLock()
	snapshot := make([]*Client, 0, len(h.clients))
	for _, c := range h.clients {
		snapshot = append(snapshot, c)
	}
	h.mu.RUnlock()

	infos := make([]types.ClientInfo, 0, len(snapshot))
	for _, c := range snapshot {
		infos = append(infos, c.Info())
	}
	return infos
}

// ClientCount returns the number of registered clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// OnConnection registers a callback invoked after each admission.
func (h *Hub) OnConnection(cb func(clientID string)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onConnect = append(h.onConnect, cb)
}

// OnDisconnection registers a callback invoked after each removal.
func (h *Hub) OnDisconnection(cb func(clientID string)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onDisconn = append(h.onDisconn, cb)
}
