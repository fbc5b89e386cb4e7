package api

import "time"

// Transaction represents a single transaction record.
// Amount is always non-negative; the direction is carried by Type.
type Transaction struct {
	ID         string    `json:"id"`
	Text       string    `json:"text"`
	Amount     float64   `json:"amount"`
	Type       string    `json:"type"` // "income" or "expense"
	CategoryID *string   `json:"category_id"`
	Date       time.Time `json:"date"`
	CreatedAt  time.Time `json:"created_at"`
}

// TransactionRequest represents a create or full-update request
type TransactionRequest struct {
	Text       string     `json:"text"`
	Amount     float64    `json:"amount"`
	Type       string     `json:"type"`
	CategoryID *string    `json:"category_id,omitempty"`
	Date       *time.Time `json:"date,omitempty"` // defaults to now on create
}

// Category represents a transaction category
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Color       string `json:"color"`
	Icon        string `json:"icon"`
	Description string `json:"description,omitempty"`
	IsDefault   bool   `json:"is_default"`
}

// CategoryRequest represents a category create or update request
type CategoryRequest struct {
	Name        string `json:"name"`
	Color       string `json:"color,omitempty"`
	Icon        string `json:"icon,omitempty"`
	Description string `json:"description,omitempty"`
}
