package storage

import (
	"context"
	"time"

	"github.com/Cabrel-loic/Expenses-tracking-web-app/pkg/api"
)

// AuthStorage defines interface for storing the session on the client.
// It holds raw token strings; session logic lives above this layer.
type AuthStorage interface {
	// SaveAuth stores the session data, replacing any previous session
	SaveAuth(ctx context.Context, auth *AuthData) error

	// GetAuth retrieves the stored session
	// Returns ErrAuthNotFound if no session exists
	GetAuth(ctx context.Context) (*AuthData, error)

	// DeleteAuth removes the stored session (logout)
	DeleteAuth(ctx context.Context) error
}

// AuthData is the locally persisted session: the token pair plus a
// cached copy of the profile for offline display.
type AuthData struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	User         api.User  `json:"user"`
	SavedAt      time.Time `json:"saved_at"`
}
