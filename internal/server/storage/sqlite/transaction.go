package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Cabrel-loic/Expenses-tracking-web-app/internal/models"
	"github.com/Cabrel-loic/Expenses-tracking-web-app/internal/server/storage"
)

// CreateTransaction creates a new transaction
func (s *Storage) CreateTransaction(ctx context.Context, tx *models.Transaction) error {
	query := `
		INSERT INTO transactions (id, user_id, text, amount, type, category_id, date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		tx.ID,
		tx.UserID,
		tx.Text,
		tx.Amount,
		string(tx.Type),
		tx.CategoryID,
		tx.Date,
		tx.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	return nil
}

// GetTransaction retrieves a transaction by id for the given user
func (s *Storage) GetTransaction(ctx context.Context, userID, id string) (*models.Transaction, error) {
	query := `
		SELECT id, user_id, text, amount, type, category_id, date, created_at
		FROM transactions
		WHERE id = ? AND user_id = ?
	`

	tx, err := scanTransaction(s.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	return tx, nil
}

// ListTransactions returns the user's transactions matching the filter
func (s *Storage) ListTransactions(ctx context.Context, userID string, filter storage.TransactionFilter) ([]models.Transaction, error) {
	query := `
		SELECT id, user_id, text, amount, type, category_id, date, created_at
		FROM transactions
		WHERE user_id = ?
	`
	args := []any{userID}

	if filter.CategoryID != "" {
		query += ` AND category_id = ?`
		args = append(args, filter.CategoryID)
	}
	if !filter.Start.IsZero() {
		query += ` AND date >= ?`
		args = append(args, filter.Start)
	}
	if !filter.End.IsZero() {
		query += ` AND date <= ?`
		args = append(args, filter.End)
	}

	query += ` ORDER BY date, created_at`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	transactions := []models.Transaction{}
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, *tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	return transactions, nil
}

// UpdateTransaction updates text, amount, type, category and date
func (s *Storage) UpdateTransaction(ctx context.Context, tx *models.Transaction) error {
	query := `
		UPDATE transactions
		SET text = ?, amount = ?, type = ?, category_id = ?, date = ?
		WHERE id = ? AND user_id = ?
	`

	result, err := s.db.ExecContext(ctx, query,
		tx.Text,
		tx.Amount,
		string(tx.Type),
		tx.CategoryID,
		tx.Date,
		tx.ID,
		tx.UserID,
	)

	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}

	return s.requireRow(result, storage.ErrTransactionNotFound)
}

// DeleteTransaction deletes a transaction by id for the given user
func (s *Storage) DeleteTransaction(ctx context.Context, userID, id string) error {
	query := `DELETE FROM transactions WHERE id = ? AND user_id = ?`

	result, err := s.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	return s.requireRow(result, storage.ErrTransactionNotFound)
}

// DeleteOrphanTransactions removes transactions whose user no longer exists
func (s *Storage) DeleteOrphanTransactions(ctx context.Context) (int, error) {
	query := `DELETE FROM transactions WHERE user_id NOT IN (SELECT id FROM users)`

	result, err := s.db.ExecContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to delete orphan transactions: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return int(rows), nil
}

// scanner covers both *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row scanner) (*models.Transaction, error) {
	tx := &models.Transaction{}
	var categoryID sql.NullString
	var txType string

	err := row.Scan(
		&tx.ID,
		&tx.UserID,
		&tx.Text,
		&tx.Amount,
		&txType,
		&categoryID,
		&tx.Date,
		&tx.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	tx.Type = models.TransactionType(txType)
	if categoryID.Valid {
		tx.CategoryID = &categoryID.String
	}

	return tx, nil
}
