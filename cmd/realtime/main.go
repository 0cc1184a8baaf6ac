package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/mangaverse/realtime/config"
	"github.com/mangaverse/realtime/providers"
	"github.com/mangaverse/realtime/src/auth"
	"github.com/mangaverse/realtime/src/hub"
	"github.com/mangaverse/realtime/src/service"
	"github.com/mangaverse/realtime/src/store"
)

func main() {
	// Load .env if present; ignored when missing.
	_ = godotenv.Load()

	cfg := config.FromEnv()
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	sessions, closeStore := openSessionStore(cfg, logger)
	defer closeStore()

	authn := auth.New(sessions, cfg.SessionSecret, cfg.CookieName, logger)

	h := hub.New(logger, cfg.PingInterval)
	go h.Run()

	svc := service.New(h, logger)
	srv := providers.NewServer(cfg, authn, h, svc, logger)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
	case err := <-errCh:
		if err != nil {
			logger.Error().Err(err).Msg("server error")
		}
	}

	if err := srv.Stop(); err != nil {
		logger.Error().Err(err).Msg("listener shutdown error")
	}
	svc.Shutdown()
}

// openSessionStore opens the configured session backend. An unreachable
// backend is non-fatal: the hub starts in anonymous-only mode, mirroring
// how every authentication failure degrades rather than rejects.
func openSessionStore(cfg *config.Config, logger zerolog.Logger) (auth.SessionStore, func()) {
	switch cfg.SessionStore {
	case "redis":
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		rs, err := store.OpenRedis(ctx, cfg.Redis)
		if err != nil {
			logger.Warn().Err(err).Msg("redis session store unavailable, anonymous-only mode")
			return store.Null{}, func() {}
		}
		logger.Info().Str("addr", cfg.Redis.Addr).Msg("redis session store connected")
		return rs, closer(rs, logger)
	default:
		ss, err := store.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			logger.Warn().Err(err).Msg("sqlite session store unavailable, anonymous-only mode")
			return store.Null{}, func() {}
		}
		logger.Info().Str("path", cfg.SQLitePath).Msg("sqlite session store opened")
		return ss, closer(ss, logger)
	}
}

func closer(c io.Closer, logger zerolog.Logger) func() {
	return func() {
		if err := c.Close(); err != nil {
			logger.Error().Err(err).Msg("session store close error")
		}
	}
}
