package api

import "time"

// User represents the user profile as exposed by the API.
// The server owns this data; clients hold a cached copy.
type User struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Avatar     string    `json:"avatar,omitempty"`
	DateJoined time.Time `json:"date_joined"`
}

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Password2 string `json:"password2"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// RegisterResponse represents a successful registration
type RegisterResponse struct {
	Message string `json:"message"`
	User    User   `json:"user"`
}

// LoginRequest represents an authentication request
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the token pair and the user profile
type LoginResponse struct {
	Access  string `json:"access"`  // JWT access token
	Refresh string `json:"refresh"` // opaque refresh token
	User    User   `json:"user"`
}

// RefreshRequest represents a token refresh request
type RefreshRequest struct {
	Refresh string `json:"refresh"`
}

// RefreshResponse carries the rotated token pair.
// The previous refresh token is revoked by the server.
type RefreshResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// UpdateProfileRequest represents a partial profile update.
// Nil fields are left unchanged.
type UpdateProfileRequest struct {
	Email     *string `json:"email,omitempty"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
}

// ChangePasswordRequest represents a password change request
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// AvatarResponse carries the stored avatar path after an upload
type AvatarResponse struct {
	Avatar string `json:"avatar"`
}
