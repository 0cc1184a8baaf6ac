package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the realtime hub configuration.
type Config struct {
	Addr            string        // listen address
	Path            string        // WebSocket upgrade path
	CookieName      string        // session cookie name shared with the HTTP layer
	SessionSecret   string        // cookie signing secret shared with the HTTP layer
	PingInterval    time.Duration // heartbeat sweep interval
	WriteTimeout    time.Duration // per-write deadline on the transport
	ReadBufferSize  int
	WriteBufferSize int
	SendBuffer      int // per-client outbound queue length

	SessionStore string // "sqlite" or "redis"
	SQLitePath   string // path to the session database
	Redis        RedisConfig
}

// RedisConfig holds connection settings for the Redis session store.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string // session key prefix, default "sess:"
}

// Default returns the default hub configuration. The session secret default
// matches the one the HTTP session middleware ships with; operators must
// override SESSION_SECRET in production.
func Default() *Config {
	return &Config{
		Addr:            ":8080",
		Path:            "/ws",
		CookieName:      "auth.sid",
		SessionSecret:   "replit-auth-secret-offline-first-manga-platform",
		PingInterval:    30 * time.Second,
		WriteTimeout:    10 * time.Second,
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		SendBuffer:      256,
		SessionStore:    "sqlite",
		SQLitePath:      "./data/sessions.db",
		Redis: RedisConfig{
			Addr:   "localhost:6379",
			Prefix: "sess:",
		},
	}
}

// FromEnv loads configuration from environment variables, falling back to
// defaults for any missing values.
func FromEnv() *Config {
	cfg := Default()

	if addr := os.Getenv("WS_ADDR"); addr != "" {
		cfg.Addr = addr
	}
	if path := os.Getenv("WS_PATH"); path != "" {
		cfg.Path = path
	}
	if name := os.Getenv("SESSION_COOKIE_NAME"); name != "" {
		cfg.CookieName = name
	}
	if secret := os.Getenv("SESSION_SECRET"); secret != "" {
		cfg.SessionSecret = secret
	}
	if s := os.Getenv("WS_PING_INTERVAL"); s != "" {
		if secs, err := strconv.Atoi(s); err == nil && secs > 0 {
			cfg.PingInterval = time.Duration(secs) * time.Second
		}
	}
	if s := os.Getenv("WS_SEND_BUFFER"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			cfg.SendBuffer = n
		}
	}
	if backend := os.Getenv("SESSION_STORE"); backend != "" {
		cfg.SessionStore = backend
	}
	if path := os.Getenv("SESSION_DB_PATH"); path != "" {
		cfg.SQLitePath = path
	}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.Redis.Addr = addr
	}
	if pw := os.Getenv("REDIS_PASSWORD"); pw != "" {
		cfg.Redis.Password = pw
	}
	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		if db, err := strconv.Atoi(dbStr); err == nil {
			cfg.Redis.DB = db
		}
	}
	if prefix := os.Getenv("REDIS_SESSION_PREFIX"); prefix != "" {
		cfg.Redis.Prefix = prefix
	}
	return cfg
}
