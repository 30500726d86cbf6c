package ports

import "context"

// SessionStore persists the single ERP session token across process
// restarts. Get returns an empty token (not an error) when nothing has
// been stored yet; Put overwrites, never appends.
type SessionStore interface {
	Get(ctx context.Context) (string, error)
	Put(ctx context.Context, token string) error
}
