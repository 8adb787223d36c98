package ports

import "context"

// Keys used in durable session storage.
const (
	SessionTokenKey = "token"
	SessionUserKey  = "user"
)

// SessionStorage is the durable key-value store behind one browser session.
// Get reports ok=false for a missing key.
type SessionStorage interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}

// SessionStorageProvider hands out storage scoped to a session id.
type SessionStorageProvider interface {
	Scope(sessionID string) SessionStorage
}
