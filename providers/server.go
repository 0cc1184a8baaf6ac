package providers

import (
	"strings"

	"github.com/fasthttp/websocket"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"

	"github.com/mangaverse/realtime/config"
	"github.com/mangaverse/realtime/src/auth"
	"github.com/mangaverse/realtime/src/hub"
	"github.com/mangaverse/realtime/src/service"
)

// Server hosts the WebSocket upgrade endpoint and the HTTP info surface.
// The upgrade path is handled as a raw fasthttp handler, since Fiber v3
// does not expose *fasthttp.RequestCtx; everything else routes through the
// Fiber app.
type Server struct {
	cfg      *config.Config
	authn    *auth.Authenticator
	hub      *hub.Hub
	service  *service.Service
	app      *fiber.App
	upgrader websocket.FastHTTPUpgrader
	srv      *fasthttp.Server
	logger   zerolog.Logger
}

// NewServer assembles the HTTP surface over an already-running hub.
func NewServer(cfg *config.Config, authn *auth.Authenticator, h *hub.Hub, svc *service.Service, logger zerolog.Logger) *Server {
	s := &Server{
		cfg:     cfg,
		authn:   authn,
		hub:     h,
		service: svc,
		app:     fiber.New(),
		upgrader: websocket.FastHTTPUpgrader{
			ReadBufferSize:  cfg.ReadBufferSize,
			WriteBufferSize: cfg.WriteBufferSize,
		},
		logger: logger.With().Str("component", "server").Logger(),
	}
	s.registerRoutes()
	return s
}

// Handler returns the composed top-level request handler.
func (s *Server) Handler() fasthttp.RequestHandler {
	appHandler := s.app.Handler()
	metricsHandler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())

	return func(ctx *fasthttp.RequestCtx) {
		switch string(ctx.Path()) {
		case s.cfg.Path:
			s.handleUpgrade(ctx)
		case "/metrics":
			metricsHandler(ctx)
		default:
			appHandler(ctx)
		}
	}
}

// Start serves until Stop is called.
func (s *Server) Start() error {
	s.srv = &fasthttp.Server{
		Handler: s.Handler(),
		Name:    "mangaverse-realtime",
	}
	s.logger.Info().Str("addr", s.cfg.Addr).Str("path", s.cfg.Path).Msg("listening")
	return s.srv.ListenAndServe(s.cfg.Addr)
}

// Stop releases the listener.
func (s *Server) Stop() error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown()
}

// handleUpgrade authenticates the request against server-side session state
// and admits the connection. Authentication failure never rejects the
// upgrade — the connection proceeds as anonymous.
func (s *Server) handleUpgrade(ctx *fasthttp.RequestCtx) {
	upgrade := string(ctx.Request.Header.Peek("Upgrade"))
	if !strings.EqualFold(upgrade, "websocket") {
		ctx.SetStatusCode(fasthttp.StatusUpgradeRequired)
		ctx.SetContentType("application/json")
		ctx.SetBodyString(`{"error":"upgrade_required","message":"WebSocket upgrade required"}`)
		return
	}

	// Identity is derived from the signed session cookie, never from
	// client-supplied fields, and fixed for the connection's lifetime.
	ident := s.authn.Identify(ctx, string(ctx.Request.Header.Peek("Cookie")))

	err := s.upgrader.Upgrade(ctx, func(conn *websocket.Conn) {
		clientID := uuid.New().String()
		wc := &wsConn{conn: conn, writeTimeout: s.cfg.WriteTimeout}
		client := hub.NewClient(clientID, wc, ident, s.hub, s.cfg.SendBuffer)
		wc.SetPongHandler(func() { s.hub.Pong(clientID) })

		s.hub.Register(client)
		go client.WritePump()
		client.ReadPump()
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("websocket upgrade failed")
	}
}
