package auth

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"
)

// Identity is the verified identity of a connection. A zero UserID means
// the connection is anonymous.
type Identity struct {
	UserID  string
	IsAdmin bool
}

// Authenticated reports whether the identity belongs to a known user.
func (id Identity) Authenticated() bool { return id.UserID != "" }

// SessionStore looks up the serialized session blob for a raw (unsigned)
// session id. Implementations return an error when the session is absent.
// Defined here rather than in the store package to avoid a circular import.
type SessionStore interface {
	Get(ctx context.Context, sid string) ([]byte, error)
}

// Authenticator resolves a connection identity from the Cookie header of an
// upgrade request. Identity is resolved once at admission and never
// re-validated for the life of the connection; revoking a session does not
// disconnect an already-admitted client.
type Authenticator struct {
	store      SessionStore
	secret     string
	cookieName string
	logger     zerolog.Logger
}

// New creates an Authenticator backed by the given session store.
func New(store SessionStore, secret, cookieName string, logger zerolog.Logger) *Authenticator {
	return &Authenticator{
		store:      store,
		secret:     secret,
		cookieName: cookieName,
		logger:     logger.With().Str("component", "auth").Logger(),
	}
}

// sessionBlob mirrors the session record the HTTP layer persists.
// user.isAdmin is stored as either a bool or the string "true" depending on
// which code path wrote the session.
type sessionBlob struct {
	UserID string `json:"userId"`
	User   struct {
		IsAdmin any    `json:"isAdmin"`
		Role    string `json:"role"`
	} `json:"user"`
}

// Identify resolves the identity for an upgrade request's raw Cookie header.
// It never fails: every error path degrades to the anonymous identity, since
// anonymous realtime subscriptions are a valid capability tier. A client can
// never elevate itself — identity comes only from the signed cookie and the
// server-side session row.
func (a *Authenticator) Identify(ctx context.Context, cookieHeader string) Identity {
	anonymous := Identity{}

	cookies := parseCookieHeader(cookieHeader)
	signed, ok := cookies[a.cookieName]
	if !ok {
		a.logger.Debug().Msg("no session cookie")
		return anonymous
	}

	sid, ok := Unsign(signed, a.secret)
	if !ok {
		a.logger.Warn().Msg("invalid session signature")
		return anonymous
	}

	blob, err := a.store.Get(ctx, sid)
	if err != nil {
		a.logger.Debug().Err(err).Msg("session lookup failed")
		return anonymous
	}

	var sess sessionBlob
	if err := json.Unmarshal(blob, &sess); err != nil {
		a.logger.Warn().Err(err).Msg("malformed session blob")
		return anonymous
	}
	if sess.UserID == "" {
		return anonymous
	}

	id := Identity{
		UserID:  sess.UserID,
		IsAdmin: adminFlag(sess.User.IsAdmin) || sess.User.Role == "admin" || sess.User.Role == "owner",
	}
	a.logger.Debug().
		Str("user_id", id.UserID).
		Bool("is_admin", id.IsAdmin).
		Msg("session validated")
	return id
}

func adminFlag(v any) bool {
	switch f := v.(type) {
	case bool:
		return f
	case string:
		return f == "true"
	default:
		return false
	}
}
