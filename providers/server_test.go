package providers

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/mangaverse/realtime/config"
	"github.com/mangaverse/realtime/src/auth"
	"github.com/mangaverse/realtime/src/hub"
	"github.com/mangaverse/realtime/src/service"
	"github.com/mangaverse/realtime/src/store"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.Default()
	logger := zerolog.Nop()
	authn := auth.New(store.Null{}, cfg.SessionSecret, cfg.CookieName, logger)
	h := hub.New(logger, time.Minute)
	go h.Run()
	t.Cleanup(h.Shutdown)
	svc := service.New(h, logger)
	return NewServer(cfg, authn, h, svc, logger)
}

func TestInfoRoute(t *testing.T) {
	s := newTestServer(t)

	resp, err := s.app.Test(httptest.NewRequest("GET", "/ws/info", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, 200, resp.StatusCode)

	var body struct {
		Websocket bool   `json:"websocket"`
		Endpoint  string `json:"endpoint"`
		Stats     struct {
			Total int `json:"total"`
		} `json:"stats"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Websocket)
	assert.Equal(t, "/ws", body.Endpoint)
	assert.Equal(t, 0, body.Stats.Total)
}

func TestClientsRouteEmpty(t *testing.T) {
	s := newTestServer(t)

	resp, err := s.app.Test(httptest.NewRequest("GET", "/ws/clients", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, 200, resp.StatusCode)

	var body struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 0, body.Count)
}

func TestHealthRoute(t *testing.T) {
	s := newTestServer(t)

	resp, err := s.app.Test(httptest.NewRequest("GET", "/healthz", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, 200, resp.StatusCode)
}

func TestUpgradePathRequiresWebSocket(t *testing.T) {
	s := newTestServer(t)
	handler := s.Handler()

	var req fasthttp.Request
	req.SetRequestURI("http://localhost/ws")
	var ctx fasthttp.RequestCtx
	ctx.Init(&req, nil, nil)

	handler(&ctx)
	assert.Equal(t, fasthttp.StatusUpgradeRequired, ctx.Response.StatusCode())
}
