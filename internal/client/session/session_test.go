package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cabrel-loic/Expenses-tracking-web-app/internal/client/storage"
	"github.com/Cabrel-loic/Expenses-tracking-web-app/pkg/api"
)

type memStore struct {
	mu   sync.Mutex
	auth *storage.AuthData
}

func (m *memStore) SaveAuth(ctx context.Context, auth *storage.AuthData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *auth
	m.auth = &copied
	return nil
}

func (m *memStore) GetAuth(ctx context.Context) (*storage.AuthData, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.auth == nil {
		return nil, storage.ErrAuthNotFound
	}
	copied := *m.auth
	return &copied, nil
}

func (m *memStore) DeleteAuth(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.auth == nil {
		return storage.ErrAuthNotFound
	}
	m.auth = nil
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestManager_BeginAndAccessToken(t *testing.T) {
	m := NewManager(testLogger(), &memStore{}, nil)
	ctx := context.Background()

	_, err := m.AccessToken(ctx)
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	require.NoError(t, m.Begin(ctx, "access-1", "refresh-1", api.User{Username: "testuser"}))

	token, err := m.AccessToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "access-1", token)

	user, err := m.User(ctx)
	require.NoError(t, err)
	assert.Equal(t, "testuser", user.Username)
}

func TestManager_RefreshRotatesStoredPair(t *testing.T) {
	var calls int32
	refreshFn := func(ctx context.Context, refreshToken string) (string, string, error) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, "refresh-1", refreshToken)
		return "access-2", "refresh-2", nil
	}

	store := &memStore{}
	m := NewManager(testLogger(), store, refreshFn)
	ctx := context.Background()
	require.NoError(t, m.Begin(ctx, "access-1", "refresh-1", api.User{}))

	token, err := m.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, "access-2", token)

	auth, err := store.GetAuth(ctx)
	require.NoError(t, err)
	assert.Equal(t, "access-2", auth.AccessToken)
	assert.Equal(t, "refresh-2", auth.RefreshToken)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestManager_RefreshRejectionEndsSession(t *testing.T) {
	refreshFn := func(ctx context.Context, refreshToken string) (string, string, error) {
		return "", "", &api.Error{Kind: api.ErrorKindDetail, Status: 401, Detail: "Token is invalid or expired"}
	}

	m := NewManager(testLogger(), &memStore{}, refreshFn)
	ctx := context.Background()
	require.NoError(t, m.Begin(ctx, "access-1", "dead-refresh", api.User{}))

	_, err := m.Refresh(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session expired")

	active, err := m.Active(ctx)
	require.NoError(t, err)
	assert.False(t, active)
}

func TestManager_RefreshNetworkErrorKeepsSession(t *testing.T) {
	refreshFn := func(ctx context.Context, refreshToken string) (string, string, error) {
		return "", "", api.NetworkError(errors.New("connection refused"))
	}

	m := NewManager(testLogger(), &memStore{}, refreshFn)
	ctx := context.Background()
	require.NoError(t, m.Begin(ctx, "access-1", "refresh-1", api.User{}))

	_, err := m.Refresh(ctx)
	require.Error(t, err)

	// A transient failure must not log the user out
	active, err := m.Active(ctx)
	require.NoError(t, err)
	assert.True(t, active)

	token, err := m.AccessToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "access-1", token)
}

func TestManager_End(t *testing.T) {
	m := NewManager(testLogger(), &memStore{}, nil)
	ctx := context.Background()

	assert.ErrorIs(t, m.End(ctx), ErrNotAuthenticated)

	require.NoError(t, m.Begin(ctx, "a", "r", api.User{}))
	require.NoError(t, m.End(ctx))

	active, err := m.Active(ctx)
	require.NoError(t, err)
	assert.False(t, active)
}
