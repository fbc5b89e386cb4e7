package validation

import (
	"fmt"
	"regexp"
	"strings"
)

// UsernamePattern defines the accepted username format:
// latin letters, digits and underscores, 3-32 characters.
var UsernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,32}$`)

// emailPattern is a deliberately loose check: one @, no spaces,
// something on both sides with a dot in the domain.
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

const (
	// MinUsernameLen is the minimum username length
	MinUsernameLen = 3
	// MaxUsernameLen is the maximum username length
	MaxUsernameLen = 32
	// MinPasswordLen is the minimum password length
	MinPasswordLen = 8
	// MaxTransactionTextLen is the maximum transaction description length
	MaxTransactionTextLen = 200
)

// ValidateUsername checks that username matches the accepted format
func ValidateUsername(username string) error {
	if username == "" {
		return fmt.Errorf("username cannot be empty")
	}

	if len(username) < MinUsernameLen {
		return fmt.Errorf("username must be at least %d characters long", MinUsernameLen)
	}

	if len(username) > MaxUsernameLen {
		return fmt.Errorf("username must not exceed %d characters", MaxUsernameLen)
	}

	if !UsernamePattern.MatchString(username) {
		return fmt.Errorf("username can only contain letters (a-z, A-Z), numbers (0-9), and underscores (_)")
	}

	return nil
}

// ValidatePassword checks the minimum password requirements
func ValidatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("password cannot be empty")
	}

	if len(password) < MinPasswordLen {
		return fmt.Errorf("password must be at least %d characters long", MinPasswordLen)
	}

	return nil
}

// ValidateEmail checks that email looks like an email address
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email cannot be empty")
	}

	if !emailPattern.MatchString(email) {
		return fmt.Errorf("enter a valid email address")
	}

	return nil
}

// ValidateTransaction checks transaction input before it is accepted.
// The same rules run on the client before any network call and on the
// server before any write.
func ValidateTransaction(text string, amount float64, transactionType string) map[string][]string {
	fields := make(map[string][]string)

	if strings.TrimSpace(text) == "" {
		fields["text"] = append(fields["text"], "description cannot be empty")
	}
	if len(text) > MaxTransactionTextLen {
		fields["text"] = append(fields["text"], fmt.Sprintf("description must not exceed %d characters", MaxTransactionTextLen))
	}

	if amount <= 0 {
		fields["amount"] = append(fields["amount"], "amount must be greater than zero")
	}

	if transactionType != "income" && transactionType != "expense" {
		fields["type"] = append(fields["type"], `type must be "income" or "expense"`)
	}

	if len(fields) == 0 {
		return nil
	}
	return fields
}

// ValidateCategoryName checks a category name
func ValidateCategoryName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("category name cannot be empty")
	}
	if len(name) > 100 {
		return fmt.Errorf("category name must not exceed 100 characters")
	}
	return nil
}
