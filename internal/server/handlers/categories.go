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

// CategoryHandler handles the /api/categories/ endpoints
type CategoryHandler struct {
	logger          *slog.Logger
	categoryStorage storage.CategoryStorage
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(logger *slog.Logger, categoryStorage storage.CategoryStorage) *CategoryHandler {
	return &CategoryHandler{
		logger:          logger,
		categoryStorage: categoryStorage,
	}
}

// List handles GET /api/categories/
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := UserIDFromContext(ctx)
	if !ok {
		sendDetail(h.logger, w, "Authentication credentials were not provided.", http.StatusUnauthorized)
		return
	}

	categories, err := h.categoryStorage.ListCategories(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list categories", slog.Any("error", err))
		sendDetail(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	result := make([]api.Category, 0, len(categories))
	for _, category := range categories {
		result = append(result, toAPICategory(category))
	}

	sendJSON(h.logger, w, result, http.StatusOK)
}

// Create handles POST /api/categories/
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := UserIDFromContext(ctx)
	if !ok {
		sendDetail(h.logger, w, "Authentication credentials were not provided.", http.StatusUnauthorized)
		return
	}

	var req api.CategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(ctx, "failed to decode category request", slog.Any("error", err))
		sendDetail(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := validation.ValidateCategoryName(req.Name); err != nil {
		sendFieldErrors(h.logger, w, map[string][]string{"name": {err.Error()}})
		return
	}

	category := &models.Category{
		ID:          uuid.New().String(),
		UserID:      userID,
		Name:        req.Name,
		Color:       req.Color,
		Icon:        req.Icon,
		Description: req.Description,
		CreatedAt:   time.Now(),
	}

	if err := h.categoryStorage.CreateCategory(ctx, category); err != nil {
		if errors.Is(err, storage.ErrCategoryAlreadyExists) {
			sendFieldErrors(h.logger, w, map[string][]string{"name": {"A category with that name already exists."}})
			return
		}
		h.logger.ErrorContext(ctx, "failed to create category", slog.Any("error", err))
		sendDetail(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "category created",
		slog.String("user_id", userID),
		slog.String("category_id", category.ID))

	sendJSON(h.logger, w, toAPICategory(*category), http.StatusCreated)
}

// Update handles PUT /api/categories/{id}/
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := UserIDFromContext(ctx)
	if !ok {
		sendDetail(h.logger, w, "Authentication credentials were not provided.", http.StatusUnauthorized)
		return
	}

	category, err := h.categoryStorage.GetCategory(ctx, userID, r.PathValue("id"))
	if err != nil {
		if errors.Is(err, storage.ErrCategoryNotFound) {
			sendDetail(h.logger, w, "Not found.", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get category", slog.Any("error", err))
		sendDetail(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	var req api.CategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(ctx, "failed to decode category request", slog.Any("error", err))
		sendDetail(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := validation.ValidateCategoryName(req.Name); err != nil {
		sendFieldErrors(h.logger, w, map[string][]string{"name": {err.Error()}})
		return
	}

	category.Name = req.Name
	category.Color = req.Color
	category.Icon = req.Icon
	category.Description = req.Description

	if err := h.categoryStorage.UpdateCategory(ctx, category); err != nil {
		if errors.Is(err, storage.ErrCategoryAlreadyExists) {
			sendFieldErrors(h.logger, w, map[string][]string{"name": {"A category with that name already exists."}})
			return
		}
		h.logger.ErrorContext(ctx, "failed to update category", slog.Any("error", err))
		sendDetail(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	sendJSON(h.logger, w, toAPICategory(*category), http.StatusOK)
}

// Delete handles DELETE /api/categories/{id}/
// Default categories cannot be deleted.
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := UserIDFromContext(ctx)
	if !ok {
		sendDetail(h.logger, w, "Authentication credentials were not provided.", http.StatusUnauthorized)
		return
	}

	category, err := h.categoryStorage.GetCategory(ctx, userID, r.PathValue("id"))
	if err != nil {
		if errors.Is(err, storage.ErrCategoryNotFound) {
			sendDetail(h.logger, w, "Not found.", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get category", slog.Any("error", err))
		sendDetail(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	if category.IsDefault {
		sendDetail(h.logger, w, "Default categories cannot be deleted.", http.StatusBadRequest)
		return
	}

	if err := h.categoryStorage.DeleteCategory(ctx, userID, category.ID); err != nil {
		h.logger.ErrorContext(ctx, "failed to delete category", slog.Any("error", err))
		sendDetail(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toAPICategory(category models.Category) api.Category {
	return api.Category{
		ID:          category.ID,
		Name:        category.Name,
		Color:       category.Color,
		Icon:        category.Icon,
		Description: category.Description,
		IsDefault:   category.IsDefault,
	}
}
