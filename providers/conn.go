package providers

import (
	"time"

	"github.com/fasthttp/websocket"

	"github.com/mangaverse/realtime/src/types"
)

// wsConn wraps fasthttp/websocket.Conn to satisfy types.Conn.
type wsConn struct {
	conn         *websocket.Conn
	writeTimeout time.Duration
}

func (w *wsConn) ReadMessage() ([]byte, error) {
	_, data, err := w.conn.ReadMessage()
	return data, err
}

func (w *wsConn) WriteJSON(v any) error { return w.conn.WriteJSON(v) }

// WritePing sends a transport-level ping control frame. WriteControl is safe
// to call concurrently with WriteJSON.
func (w *wsConn) WritePing() error {
	return w.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(w.writeTimeout))
}

func (w *wsConn) SetPongHandler(h func()) {
	w.conn.SetPongHandler(func(string) error {
		h()
		return nil
	})
}

func (w *wsConn) Close() error { return w.conn.Close() }

var _ types.Conn = (*wsConn)(nil)
