// Package session manages the client's token pair: loading it for
// requests, refreshing it when the server rejects the access token and
// ending the session when the refresh token itself is no longer good.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Cabrel-loic/Expenses-tracking-web-app/internal/client/storage"
	"github.com/Cabrel-loic/Expenses-tracking-web-app/pkg/api"
)

// ErrNotAuthenticated is returned when no session is stored
var ErrNotAuthenticated = errors.New("not authenticated, run login first")

// RefreshFunc exchanges a refresh token for a new token pair.
// A *api.Error of kind detail with status 401 means the token is dead.
type RefreshFunc func(ctx context.Context, refreshToken string) (access, refresh string, err error)

// Manager owns the locally stored session.
// Concurrent refresh attempts collapse into a single server call;
// every waiter gets the same outcome.
type Manager struct {
	logger    *slog.Logger
	store     storage.AuthStorage
	refreshFn RefreshFunc

	group singleflight.Group
	mu    sync.Mutex // serializes store writes
}

// NewManager creates a session manager backed by the given storage
func NewManager(logger *slog.Logger, store storage.AuthStorage, refreshFn RefreshFunc) *Manager {
	return &Manager{
		logger:    logger,
		store:     store,
		refreshFn: refreshFn,
	}
}

// Begin persists a fresh session after login
func (m *Manager) Begin(ctx context.Context, access, refresh string, user api.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	auth := &storage.AuthData{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         user,
		SavedAt:      time.Now(),
	}

	if err := m.store.SaveAuth(ctx, auth); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	m.logger.Debug("session started", "username", user.Username)
	return nil
}

// AccessToken returns the current access token
func (m *Manager) AccessToken(ctx context.Context) (string, error) {
	auth, err := m.current(ctx)
	if err != nil {
		return "", err
	}
	return auth.AccessToken, nil
}

// User returns the cached profile of the logged-in user
func (m *Manager) User(ctx context.Context) (api.User, error) {
	auth, err := m.current(ctx)
	if err != nil {
		return api.User{}, err
	}
	return auth.User, nil
}

// Refresh exchanges the stored refresh token for a new pair and
// returns the new access token. Concurrent callers share one exchange:
// whichever call reaches the server first decides for everyone.
// If the server rejects the refresh token the session is ended and
// callers must log in again.
func (m *Manager) Refresh(ctx context.Context) (string, error) {
	access, err, _ := m.group.Do("refresh", func() (interface{}, error) {
		return m.doRefresh(ctx)
	})
	if err != nil {
		return "", err
	}
	return access.(string), nil
}

func (m *Manager) doRefresh(ctx context.Context) (string, error) {
	auth, err := m.current(ctx)
	if err != nil {
		return "", err
	}

	newAccess, newRefresh, err := m.refreshFn(ctx, auth.RefreshToken)
	if err != nil {
		var apiErr *api.Error
		if errors.As(err, &apiErr) && apiErr.Status == 401 {
			// The refresh token itself is dead, the session is over
			m.logger.Warn("refresh token rejected, ending session")
			if endErr := m.End(ctx); endErr != nil {
				m.logger.Error("failed to end session", "error", endErr)
			}
			return "", fmt.Errorf("session expired: %w", err)
		}
		return "", fmt.Errorf("failed to refresh tokens: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	auth.AccessToken = newAccess
	auth.RefreshToken = newRefresh
	auth.SavedAt = time.Now()

	if err := m.store.SaveAuth(ctx, auth); err != nil {
		return "", fmt.Errorf("failed to save refreshed session: %w", err)
	}

	m.logger.Debug("session refreshed")
	return newAccess, nil
}

// UpdateUser replaces the cached profile, keeping the tokens
func (m *Manager) UpdateUser(ctx context.Context, user api.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	auth, err := m.store.GetAuth(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrAuthNotFound) {
			return ErrNotAuthenticated
		}
		return err
	}

	auth.User = user
	return m.store.SaveAuth(ctx, auth)
}

// End removes the stored session. The server is not involved: tokens
// simply expire on their own.
func (m *Manager) End(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.store.DeleteAuth(ctx); err != nil {
		if errors.Is(err, storage.ErrAuthNotFound) {
			return ErrNotAuthenticated
		}
		return fmt.Errorf("failed to delete session: %w", err)
	}

	m.logger.Debug("session ended")
	return nil
}

// Active reports whether a session is stored
func (m *Manager) Active(ctx context.Context) (bool, error) {
	_, err := m.current(ctx)
	if err != nil {
		if errors.Is(err, ErrNotAuthenticated) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (m *Manager) current(ctx context.Context) (*storage.AuthData, error) {
	auth, err := m.store.GetAuth(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrAuthNotFound) {
			return nil, ErrNotAuthenticated
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return auth, nil
}
