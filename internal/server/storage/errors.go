package storage

import "errors"

// Common storage errors
var (
	// ErrUserNotFound indicates that user was not found in storage
	ErrUserNotFound = errors.New("user not found")

	// ErrUserAlreadyExists indicates that user with this username already exists
	ErrUserAlreadyExists = errors.New("user already exists")

	// ErrTokenNotFound indicates that refresh token was not found
	ErrTokenNotFound = errors.New("refresh token not found")

	// ErrTransactionNotFound indicates that transaction was not found
	// or belongs to another user
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrCategoryNotFound indicates that category was not found
	// or belongs to another user
	ErrCategoryNotFound = errors.New("category not found")

	// ErrCategoryAlreadyExists indicates a duplicate category name for the user
	ErrCategoryAlreadyExists = errors.New("category already exists")
)
