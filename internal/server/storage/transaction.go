package storage

import (
	"context"
	"time"

	"github.com/Cabrel-loic/Expenses-tracking-web-app/internal/models"
)

// TransactionFilter narrows down a transaction listing.
// Zero values mean "no constraint".
type TransactionFilter struct {
	CategoryID string    // only transactions tagged with this category
	Start      time.Time // inclusive lower bound on the transaction date
	End        time.Time // inclusive upper bound on the transaction date
}

// TransactionStorage defines interface for transaction persistence.
// Every operation is scoped to a single user; a transaction belonging
// to another user behaves as if it did not exist.
type TransactionStorage interface {
	// CreateTransaction creates a new transaction
	CreateTransaction(ctx context.Context, tx *models.Transaction) error

	// GetTransaction retrieves a transaction by id for the given user
	// Returns ErrTransactionNotFound if it doesn't exist or is not theirs
	GetTransaction(ctx context.Context, userID, id string) (*models.Transaction, error)

	// ListTransactions returns the user's transactions matching the filter,
	// ordered by date then creation time
	ListTransactions(ctx context.Context, userID string, filter TransactionFilter) ([]models.Transaction, error)

	// UpdateTransaction updates text, amount, type, category and date
	// Returns ErrTransactionNotFound if it doesn't exist or is not theirs
	UpdateTransaction(ctx context.Context, tx *models.Transaction) error

	// DeleteTransaction deletes a transaction by id for the given user
	// Returns ErrTransactionNotFound if it doesn't exist or is not theirs
	DeleteTransaction(ctx context.Context, userID, id string) error

	// DeleteOrphanTransactions removes transactions whose user no longer
	// exists. The schema prevents these under normal operation; the sweep
	// guards against manual database edits. Returns number deleted.
	DeleteOrphanTransactions(ctx context.Context) (int, error)
}
