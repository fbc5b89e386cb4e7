package handlers

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/Cabrel-loic/Expenses-tracking-web-app/internal/models"
	"github.com/Cabrel-loic/Expenses-tracking-web-app/internal/server/storage"
)

func setupTestLogger() *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: slog.LevelError, // Only show errors in tests
	}
	return slog.New(slog.NewTextHandler(io.Discard, opts))
}

// withUser attaches an authenticated user id the way the middleware does
func withUser(r *http.Request, userID string) *http.Request {
	ctx := context.WithValue(r.Context(), UserIDKey, userID)
	return r.WithContext(ctx)
}

// mockUserStorage is a mock implementation of UserStorage for testing
type mockUserStorage struct {
	users        map[string]*models.User // username -> User
	createError  error
	getUserError error
	updatedUsers []*models.User
}

func (m *mockUserStorage) CreateUser(ctx context.Context, user *models.User) error {
	if m.createError != nil {
		return m.createError
	}
	if _, exists := m.users[user.Username]; exists {
		return storage.ErrUserAlreadyExists
	}
	m.users[user.Username] = user
	return nil
}

func (m *mockUserStorage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	if m.getUserError != nil {
		return nil, m.getUserError
	}
	user, ok := m.users[username]
	if !ok {
		return nil, storage.ErrUserNotFound
	}
	return user, nil
}

func (m *mockUserStorage) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	if m.getUserError != nil {
		return nil, m.getUserError
	}
	for _, user := range m.users {
		if user.ID == userID {
			return user, nil
		}
	}
	return nil, storage.ErrUserNotFound
}

func (m *mockUserStorage) UpdateUser(ctx context.Context, user *models.User) error {
	m.updatedUsers = append(m.updatedUsers, user)
	return nil
}

func (m *mockUserStorage) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	for _, user := range m.users {
		if user.ID == userID {
			user.PasswordHash = passwordHash
			return nil
		}
	}
	return storage.ErrUserNotFound
}

func (m *mockUserStorage) UpdateLastLogin(ctx context.Context, userID string, lastLogin time.Time) error {
	for _, user := range m.users {
		if user.ID == userID {
			user.LastLogin = &lastLogin
			return nil
		}
	}
	return storage.ErrUserNotFound
}

// mockTokenStorage is a mock implementation of TokenStorage for testing
type mockTokenStorage struct {
	tokens        map[string]*models.RefreshToken // token -> RefreshToken
	saveError     error
	getError      error
	deleteError   error
	savedTokens   []*models.RefreshToken // Track all saved tokens
	deletedTokens []string               // Track deleted tokens
}

func (m *mockTokenStorage) SaveRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	if m.saveError != nil {
		return m.saveError
	}
	m.tokens[token.Token] = token
	m.savedTokens = append(m.savedTokens, token)
	return nil
}

func (m *mockTokenStorage) GetRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	rt, ok := m.tokens[token]
	if !ok {
		return nil, storage.ErrTokenNotFound
	}
	return rt, nil
}

func (m *mockTokenStorage) DeleteRefreshToken(ctx context.Context, token string) error {
	if m.deleteError != nil {
		return m.deleteError
	}
	if _, ok := m.tokens[token]; !ok {
		return storage.ErrTokenNotFound
	}
	delete(m.tokens, token)
	m.deletedTokens = append(m.deletedTokens, token)
	return nil
}

func (m *mockTokenStorage) DeleteUserTokens(ctx context.Context, userID string) (int, error) {
	if m.deleteError != nil {
		return 0, m.deleteError
	}
	count := 0
	for token, rt := range m.tokens {
		if rt.UserID == userID {
			delete(m.tokens, token)
			m.deletedTokens = append(m.deletedTokens, token)
			count++
		}
	}
	return count, nil
}

func (m *mockTokenStorage) DeleteExpiredTokens(ctx context.Context) (int, error) {
	return 0, nil
}

// mockTransactionStorage is a mock implementation of TransactionStorage for testing
type mockTransactionStorage struct {
	transactions map[string]*models.Transaction // id -> Transaction
	listError    error
}

func (m *mockTransactionStorage) CreateTransaction(ctx context.Context, tx *models.Transaction) error {
	m.transactions[tx.ID] = tx
	return nil
}

func (m *mockTransactionStorage) GetTransaction(ctx context.Context, userID, id string) (*models.Transaction, error) {
	tx, ok := m.transactions[id]
	if !ok || tx.UserID != userID {
		return nil, storage.ErrTransactionNotFound
	}
	return tx, nil
}

func (m *mockTransactionStorage) ListTransactions(ctx context.Context, userID string, filter storage.TransactionFilter) ([]models.Transaction, error) {
	if m.listError != nil {
		return nil, m.listError
	}
	var result []models.Transaction
	for _, tx := range m.transactions {
		if tx.UserID != userID {
			continue
		}
		if filter.CategoryID != "" && (tx.CategoryID == nil || *tx.CategoryID != filter.CategoryID) {
			continue
		}
		if !filter.Start.IsZero() && tx.Date.Before(filter.Start) {
			continue
		}
		if !filter.End.IsZero() && tx.Date.After(filter.End) {
			continue
		}
		result = append(result, *tx)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Date.Before(result[j].Date)
	})
	return result, nil
}

func (m *mockTransactionStorage) UpdateTransaction(ctx context.Context, tx *models.Transaction) error {
	existing, ok := m.transactions[tx.ID]
	if !ok || existing.UserID != tx.UserID {
		return storage.ErrTransactionNotFound
	}
	m.transactions[tx.ID] = tx
	return nil
}

func (m *mockTransactionStorage) DeleteTransaction(ctx context.Context, userID, id string) error {
	tx, ok := m.transactions[id]
	if !ok || tx.UserID != userID {
		return storage.ErrTransactionNotFound
	}
	delete(m.transactions, id)
	return nil
}

func (m *mockTransactionStorage) DeleteOrphanTransactions(ctx context.Context) (int, error) {
	return 0, nil
}

// mockCategoryStorage is a mock implementation of CategoryStorage for testing
type mockCategoryStorage struct {
	categories  map[string]*models.Category // id -> Category
	createError error
}

func (m *mockCategoryStorage) CreateCategory(ctx context.Context, category *models.Category) error {
	if m.createError != nil {
		return m.createError
	}
	for _, existing := range m.categories {
		if existing.UserID == category.UserID && existing.Name == category.Name {
			return storage.ErrCategoryAlreadyExists
		}
	}
	m.categories[category.ID] = category
	return nil
}

func (m *mockCategoryStorage) GetCategory(ctx context.Context, userID, id string) (*models.Category, error) {
	category, ok := m.categories[id]
	if !ok || category.UserID != userID {
		return nil, storage.ErrCategoryNotFound
	}
	return category, nil
}

func (m *mockCategoryStorage) ListCategories(ctx context.Context, userID string) ([]models.Category, error) {
	var result []models.Category
	for _, category := range m.categories {
		if category.UserID == userID {
			result = append(result, *category)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result, nil
}

func (m *mockCategoryStorage) UpdateCategory(ctx context.Context, category *models.Category) error {
	existing, ok := m.categories[category.ID]
	if !ok || existing.UserID != category.UserID {
		return storage.ErrCategoryNotFound
	}
	for _, other := range m.categories {
		if other.ID != category.ID && other.UserID == category.UserID && other.Name == category.Name {
			return storage.ErrCategoryAlreadyExists
		}
	}
	m.categories[category.ID] = category
	return nil
}

func (m *mockCategoryStorage) DeleteCategory(ctx context.Context, userID, id string) error {
	category, ok := m.categories[id]
	if !ok || category.UserID != userID {
		return storage.ErrCategoryNotFound
	}
	delete(m.categories, id)
	return nil
}
