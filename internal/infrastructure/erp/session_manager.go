package erp

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"erp-shopify-bridge/internal/domain"
	"erp-shopify-bridge/internal/ports"
)

// errUnauthorized signals that the ERP rejected the session token on a
// request. It never escapes this package: WithAuthRetry converts a second
// rejection into a domain.AuthenticationError.
var errUnauthorized = errors.New("erp session rejected")

// LoginFunc performs one fresh authentication call and returns the issued
// session token.
type LoginFunc func(ctx context.Context) (string, error)

// SessionManager owns the single ERP session token. The token is cached in
// memory, persisted through the SessionStore across restarts, and refreshed
// only when the ERP rejects a request: the ERP announces no TTL, so a
// rejected request is the only reliable expiry signal.
//
// The mutex exists because the interactive pricing endpoint and the batch
// sync loops share one client; without it, concurrent relogins would race
// to overwrite the cached token.
type SessionManager struct {
	store  ports.SessionStore
	login  LoginFunc
	logger zerolog.Logger

	mu    sync.Mutex
	token string
}

// NewSessionManager creates a session manager backed by the given store.
func NewSessionManager(store ports.SessionStore, login LoginFunc, logger zerolog.Logger) *SessionManager {
	return &SessionManager{store: store, login: login, logger: logger}
}

// GetOrRefresh returns the cached token, falling back to the persisted one
// and finally to a fresh login.
func (m *SessionManager) GetOrRefresh(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.token != "" {
		return m.token, nil
	}
	stored, err := m.store.Get(ctx)
	if err != nil {
		m.logger.Warn().Err(err).Msg("Session store read failed, falling back to login")
	} else if stored != "" {
		m.token = stored
		return stored, nil
	}
	return m.loginLocked(ctx)
}

// Login always performs a fresh authentication call regardless of cache
// state, persists the result and returns it.
func (m *SessionManager) Login(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loginLocked(ctx)
}

// Invalidate drops the cached token so the next request logs in again.
func (m *SessionManager) Invalidate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
}

func (m *SessionManager) loginLocked(ctx context.Context) (string, error) {
	token, err := m.login(ctx)
	if err != nil {
		return "", err
	}
	m.token = token
	// The in-memory token is authoritative for this process; a failed
	// persist only costs a relogin after the next restart.
	if err := m.store.Put(ctx, token); err != nil {
		m.logger.Warn().Err(err).Msg("Failed to persist session token")
	}
	return token, nil
}

// WithAuthRetry runs fn with the current session token. If the ERP rejects
// the token, it performs exactly one login followed by exactly one retry;
// a second rejection surfaces as domain.AuthenticationError. The single
// bounded retry is enforced here so that no call site can re-implement it
// with a different bound.
func (m *SessionManager) WithAuthRetry(ctx context.Context, fn func(token string) error) error {
	token, err := m.GetOrRefresh(ctx)
	if err != nil {
		return err
	}
	err = fn(token)
	if !errors.Is(err, errUnauthorized) {
		return err
	}

	m.logger.Info().Msg("ERP session expired, performing relogin")
	m.Invalidate()
	token, err = m.Login(ctx)
	if err != nil {
		return err
	}
	err = fn(token)
	if errors.Is(err, errUnauthorized) {
		return &domain.AuthenticationError{Reason: "request rejected again after relogin"}
	}
	return err
}
