// Package store provides session-store backends for the hub's
// authenticator. Sessions are written by the HTTP layer; this package
// only reads them.
package store

import "errors"

// ErrNotFound is returned when no session row exists for a session id.
var ErrNotFound = errors.New("session not found")
