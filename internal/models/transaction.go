package models

import "time"

// TransactionType tells whether a transaction adds to or subtracts from
// the balance. The amount itself is always non-negative.
type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

// Valid reports whether t is one of the known transaction types
func (t TransactionType) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Transaction represents a single income or expense record,
// scoped to exactly one user.
type Transaction struct {
	ID         string          `json:"id"`          // UUID
	UserID     string          `json:"user_id"`     // owner
	Text       string          `json:"text"`        // description, max 200 chars
	Amount     float64         `json:"amount"`      // non-negative; direction comes from Type
	Type       TransactionType `json:"type"`        // empty only in legacy records
	CategoryID *string         `json:"category_id"` // optional category reference
	Date       time.Time       `json:"date"`        // when the transaction happened
	CreatedAt  time.Time       `json:"created_at"`  // when the record was created
}
