package storage

import (
	"context"

	"github.com/Cabrel-loic/Expenses-tracking-web-app/internal/models"
)

// CategoryStorage defines interface for category persistence.
// Categories are scoped to a single user.
type CategoryStorage interface {
	// CreateCategory creates a new category
	// Returns ErrCategoryAlreadyExists on a duplicate name for the user
	CreateCategory(ctx context.Context, category *models.Category) error

	// GetCategory retrieves a category by id for the given user
	// Returns ErrCategoryNotFound if it doesn't exist or is not theirs
	GetCategory(ctx context.Context, userID, id string) (*models.Category, error)

	// ListCategories returns all of the user's categories ordered by name
	ListCategories(ctx context.Context, userID string) ([]models.Category, error)

	// UpdateCategory updates name, color, icon and description
	// Returns ErrCategoryNotFound if it doesn't exist or is not theirs
	UpdateCategory(ctx context.Context, category *models.Category) error

	// DeleteCategory deletes a category by id for the given user.
	// Transactions referencing it keep existing with a cleared category.
	// Returns ErrCategoryNotFound if it doesn't exist or is not theirs
	DeleteCategory(ctx context.Context, userID, id string) error
}
