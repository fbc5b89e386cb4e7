package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/Cabrel-loic/Expenses-tracking-web-app/internal/models"
	"github.com/Cabrel-loic/Expenses-tracking-web-app/internal/server/storage"
	"github.com/Cabrel-loic/Expenses-tracking-web-app/internal/validation"
	"github.com/Cabrel-loic/Expenses-tracking-web-app/pkg/api"
)

// TransactionHandler handles the /api/transactions/ endpoints
type TransactionHandler struct {
	logger             *slog.Logger
	transactionStorage storage.TransactionStorage
	categoryStorage    storage.CategoryStorage
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(logger *slog.Logger, transactionStorage storage.TransactionStorage, categoryStorage storage.CategoryStorage) *TransactionHandler {
	return &TransactionHandler{
		logger:             logger,
		transactionStorage: transactionStorage,
		categoryStorage:    categoryStorage,
	}
}

// List handles GET /api/transactions/
// An optional ?category=<id> query narrows the listing.
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := UserIDFromContext(ctx)
	if !ok {
		sendDetail(h.logger, w, "Authentication credentials were not provided.", http.StatusUnauthorized)
		return
	}

	filter := storage.TransactionFilter{
		CategoryID: r.URL.Query().Get("category"),
	}

	transactions, err := h.transactionStorage.ListTransactions(ctx, userID, filter)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list transactions", slog.Any("error", err))
		sendDetail(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	sendJSON(h.logger, w, toAPITransactions(transactions), http.StatusOK)
}

// Create handles POST /api/transactions/
func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := UserIDFromContext(ctx)
	if !ok {
		sendDetail(h.logger, w, "Authentication credentials were not provided.", http.StatusUnauthorized)
		return
	}

	var req api.TransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(ctx, "failed to decode transaction request", slog.Any("error", err))
		sendDetail(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	tx, fields := h.buildTransaction(r, userID, req)
	if fields != nil {
		sendFieldErrors(h.logger, w, fields)
		return
	}

	tx.ID = uuid.New().String()
	tx.CreatedAt = time.Now()

	if err := h.transactionStorage.CreateTransaction(ctx, tx); err != nil {
		h.logger.ErrorContext(ctx, "failed to create transaction", slog.Any("error", err))
		sendDetail(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "transaction created",
		slog.String("user_id", userID),
		slog.String("transaction_id", tx.ID),
		slog.String("type", string(tx.Type)))

	sendJSON(h.logger, w, toAPITransaction(*tx), http.StatusCreated)
}

// Get handles GET /api/transactions/{id}/
func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := UserIDFromContext(ctx)
	if !ok {
		sendDetail(h.logger, w, "Authentication credentials were not provided.", http.StatusUnauthorized)
		return
	}

	tx, err := h.transactionStorage.GetTransaction(ctx, userID, r.PathValue("id"))
	if err != nil {
		if errors.Is(err, storage.ErrTransactionNotFound) {
			sendDetail(h.logger, w, "Not found.", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get transaction", slog.Any("error", err))
		sendDetail(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	sendJSON(h.logger, w, toAPITransaction(*tx), http.StatusOK)
}

// Update handles PUT /api/transactions/{id}/
func (h *TransactionHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := UserIDFromContext(ctx)
	if !ok {
		sendDetail(h.logger, w, "Authentication credentials were not provided.", http.StatusUnauthorized)
		return
	}

	existing, err := h.transactionStorage.GetTransaction(ctx, userID, r.PathValue("id"))
	if err != nil {
		if errors.Is(err, storage.ErrTransactionNotFound) {
			sendDetail(h.logger, w, "Not found.", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get transaction", slog.Any("error", err))
		sendDetail(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	var req api.TransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(ctx, "failed to decode transaction request", slog.Any("error", err))
		sendDetail(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	tx, fields := h.buildTransaction(r, userID, req)
	if fields != nil {
		sendFieldErrors(h.logger, w, fields)
		return
	}

	tx.ID = existing.ID
	tx.CreatedAt = existing.CreatedAt

	if err := h.transactionStorage.UpdateTransaction(ctx, tx); err != nil {
		h.logger.ErrorContext(ctx, "failed to update transaction", slog.Any("error", err))
		sendDetail(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	sendJSON(h.logger, w, toAPITransaction(*tx), http.StatusOK)
}

// Delete handles DELETE /api/transactions/{id}/
func (h *TransactionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := UserIDFromContext(ctx)
	if !ok {
		sendDetail(h.logger, w, "Authentication credentials were not provided.", http.StatusUnauthorized)
		return
	}

	if err := h.transactionStorage.DeleteTransaction(ctx, userID, r.PathValue("id")); err != nil {
		if errors.Is(err, storage.ErrTransactionNotFound) {
			sendDetail(h.logger, w, "Not found.", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to delete transaction", slog.Any("error", err))
		sendDetail(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// buildTransaction validates the request and assembles a transaction.
// A non-nil field map means validation failed.
func (h *TransactionHandler) buildTransaction(r *http.Request, userID string, req api.TransactionRequest) (*models.Transaction, map[string][]string) {
	ctx := r.Context()

	fields := validation.ValidateTransaction(req.Text, req.Amount, req.Type)
	if fields != nil {
		return nil, fields
	}

	// A referenced category must exist and belong to the user
	if req.CategoryID != nil && *req.CategoryID != "" {
		if _, err := h.categoryStorage.GetCategory(ctx, userID, *req.CategoryID); err != nil {
			if errors.Is(err, storage.ErrCategoryNotFound) {
				return nil, map[string][]string{"category_id": {"category does not exist"}}
			}
			h.logger.ErrorContext(ctx, "failed to check category", slog.Any("error", err))
			return nil, map[string][]string{"category_id": {"could not verify category"}}
		}
	}

	date := time.Now()
	if req.Date != nil {
		date = *req.Date
	}

	var categoryID *string
	if req.CategoryID != nil && *req.CategoryID != "" {
		categoryID = req.CategoryID
	}

	return &models.Transaction{
		UserID:     userID,
		Text:       req.Text,
		Amount:     req.Amount,
		Type:       models.TransactionType(req.Type),
		CategoryID: categoryID,
		Date:       date,
	}, nil
}

func toAPITransaction(tx models.Transaction) api.Transaction {
	return api.Transaction{
		ID:         tx.ID,
		Text:       tx.Text,
		Amount:     tx.Amount,
		Type:       string(tx.Type),
		CategoryID: tx.CategoryID,
		Date:       tx.Date,
		CreatedAt:  tx.CreatedAt,
	}
}

func toAPITransactions(transactions []models.Transaction) []api.Transaction {
	result := make([]api.Transaction, 0, len(transactions))
	for _, tx := range transactions {
		result = append(result, toAPITransaction(tx))
	}
	return result
}
