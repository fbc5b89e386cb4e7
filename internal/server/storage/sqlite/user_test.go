package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cabrel-loic/Expenses-tracking-web-app/internal/models"
	"github.com/Cabrel-loic/Expenses-tracking-web-app/internal/server/storage"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()

	s, err := New(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, s.Close())
	})

	return s
}

func newTestUser(username string) *models.User {
	return &models.User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "$2a$10$fakehash",
		DateJoined:   time.Now().UTC(),
	}
}

func TestCreateAndGetUser(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	user := newTestUser("alice")
	require.NoError(t, s.CreateUser(ctx, user))

	byName, err := s.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byName.ID)
	assert.Equal(t, user.Email, byName.Email)
	assert.Nil(t, byName.LastLogin)

	byID, err := s.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)
}

func TestCreateUser_Duplicate(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.CreateUser(ctx, newTestUser("alice")))

	err := s.CreateUser(ctx, newTestUser("alice"))
	assert.ErrorIs(t, err, storage.ErrUserAlreadyExists)
}

func TestGetUser_NotFound(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	_, err := s.GetUserByUsername(ctx, "ghost")
	assert.ErrorIs(t, err, storage.ErrUserNotFound)

	_, err = s.GetUserByID(ctx, uuid.New().String())
	assert.ErrorIs(t, err, storage.ErrUserNotFound)
}

func TestUpdateUser(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	user := newTestUser("alice")
	require.NoError(t, s.CreateUser(ctx, user))

	user.Email = "new@example.com"
	user.FirstName = "Alice"
	user.Avatar = "avatars/alice.png"
	require.NoError(t, s.UpdateUser(ctx, user))

	got, err := s.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", got.Email)
	assert.Equal(t, "Alice", got.FirstName)
	assert.Equal(t, "avatars/alice.png", got.Avatar)
}

func TestUpdateUser_NotFound(t *testing.T) {
	s := newTestStorage(t)

	err := s.UpdateUser(context.Background(), newTestUser("ghost"))
	assert.ErrorIs(t, err, storage.ErrUserNotFound)
}

func TestUpdatePassword(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	user := newTestUser("alice")
	require.NoError(t, s.CreateUser(ctx, user))
	require.NoError(t, s.UpdatePassword(ctx, user.ID, "$2a$10$newhash"))

	got, err := s.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "$2a$10$newhash", got.PasswordHash)
}

func TestUpdateLastLogin(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	user := newTestUser("alice")
	require.NoError(t, s.CreateUser(ctx, user))

	now := time.Now().UTC()
	require.NoError(t, s.UpdateLastLogin(ctx, user.ID, now))

	got, err := s.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastLogin)
	assert.WithinDuration(t, now, *got.LastLogin, time.Second)
}
