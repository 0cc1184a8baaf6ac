package store

import "context"

// Null is a session store with no sessions. It backs degraded operation
// when the real store is unreachable: every connection is admitted as
// anonymous instead of the hub failing to start.
type Null struct{}

// Get always reports the session as missing.
func (Null) Get(context.Context, string) ([]byte, error) {
	return nil, ErrNotFound
}
