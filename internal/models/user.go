package models

import "time"

// User represents a registered user
type User struct {
	ID           string     `json:"id"`          // UUID
	Username     string     `json:"username"`    // unique username
	Email        string     `json:"email"`       // contact email
	PasswordHash string     `json:"-"`           // bcrypt hash, never serialized
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	Avatar       string     `json:"avatar"` // relative path to the uploaded avatar, empty if none
	DateJoined   time.Time  `json:"date_joined"`
	LastLogin    *time.Time `json:"last_login"` // nil until the first login
}

// RefreshToken represents a stored refresh token.
// Tokens are opaque random values, rotated on every refresh.
type RefreshToken struct {
	Token     string    `json:"token"` // the token value itself
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}
