package types

import (
	"encoding/json"
	"time"
)

// Envelope is the outbound wire format for every server-to-client message.
// Timestamp is epoch milliseconds.
type Envelope struct {
	Type      string `json:"type"`
	Payload   any    `json:"payload"`
	Timestamp int64  `json:"timestamp"`
}

// NewEnvelope builds an envelope stamped with the current time.
func NewEnvelope(msgType string, payload any) Envelope {
	return Envelope{
		Type:      msgType,
		Payload:   payload,
		Timestamp: time.Now().UnixMilli(),
	}
}

// Frame is an inbound client message. Payload stays raw so each handler
// decodes its own shape.
type Frame struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// FrameHandler handles inbound frames of a registered type.
type FrameHandler func(clientID string, frame Frame) error

// SubscribePayload is the payload of a "subscribe" frame.
type SubscribePayload struct {
	Channels []string `json:"channels"`
}

// Stats summarizes the connection registry.
type Stats struct {
	Total         int `json:"total"`
	Authenticated int `json:"authenticated"`
	Alive         int `json:"alive"`
	Inactive      int `json:"inactive"`
}

// ClientInfo holds metadata about a connected client.
type ClientInfo struct {
	ID            string    `json:"id"`
	ConnectedAt   time.Time `json:"connected_at"`
	Authenticated bool      `json:"authenticated"`
	IsAdmin       bool      `json:"is_admin"`
	Channels      []string  `json:"channels"`
}

// Conn abstracts a WebSocket connection for testability.
// ReadMessage returns raw frame bytes so the caller can tell a malformed
// payload apart from a broken transport.
type Conn interface {
	ReadMessage() ([]byte, error)
	WriteJSON(v any) error
	WritePing() error
	SetPongHandler(func())
	Close() error
}
