package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/Cabrel-loic/Expenses-tracking-web-app/internal/models"
	"github.com/Cabrel-loic/Expenses-tracking-web-app/internal/server/storage"
	"github.com/Cabrel-loic/Expenses-tracking-web-app/internal/validation"
	"github.com/Cabrel-loic/Expenses-tracking-web-app/pkg/api"
)

// maxAvatarSize limits avatar uploads to 5 MB
const maxAvatarSize = 5 << 20

// ProfileHandler handles the /api/auth/me/ endpoints
type ProfileHandler struct {
	logger       *slog.Logger
	userStorage  storage.UserStorage
	tokenStorage storage.TokenStorage
	uploadDir    string
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(logger *slog.Logger, userStorage storage.UserStorage, tokenStorage storage.TokenStorage, uploadDir string) *ProfileHandler {
	return &ProfileHandler{
		logger:       logger,
		userStorage:  userStorage,
		tokenStorage: tokenStorage,
		uploadDir:    uploadDir,
	}
}

// currentUser loads the authenticated user from storage
func (h *ProfileHandler) currentUser(w http.ResponseWriter, r *http.Request) *models.User {
	ctx := r.Context()

	userID, ok := UserIDFromContext(ctx)
	if !ok {
		sendDetail(h.logger, w, "Authentication credentials were not provided.", http.StatusUnauthorized)
		return nil
	}

	user, err := h.userStorage.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			sendDetail(h.logger, w, "User not found", http.StatusUnauthorized)
			return nil
		}
		h.logger.ErrorContext(ctx, "failed to get user", slog.Any("error", err))
		sendDetail(h.logger, w, "internal server error", http.StatusInternalServerError)
		return nil
	}

	return user
}

// Me handles GET /api/auth/me/
func (h *ProfileHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := h.currentUser(w, r)
	if user == nil {
		return
	}

	sendJSON(h.logger, w, profileOf(user), http.StatusOK)
}

// Update handles PUT and PATCH /api/auth/me/update/
// Both are treated as partial updates: nil fields stay unchanged.
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user := h.currentUser(w, r)
	if user == nil {
		return
	}

	var req api.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(ctx, "failed to decode profile update", slog.Any("error", err))
		sendDetail(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.Email != nil {
		if err := validation.ValidateEmail(*req.Email); err != nil {
			sendFieldErrors(h.logger, w, map[string][]string{"email": {err.Error()}})
			return
		}
		user.Email = *req.Email
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}

	if err := h.userStorage.UpdateUser(ctx, user); err != nil {
		h.logger.ErrorContext(ctx, "failed to update user", slog.Any("error", err))
		sendDetail(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "profile updated", slog.String("user_id", user.ID))

	sendJSON(h.logger, w, profileOf(user), http.StatusOK)
}

// ChangePassword handles POST /api/auth/me/password/
// All refresh tokens are revoked so other sessions must log in again.
func (h *ProfileHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user := h.currentUser(w, r)
	if user == nil {
		return
	}

	var req api.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(ctx, "failed to decode password change", slog.Any("error", err))
		sendDetail(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)); err != nil {
		sendFieldErrors(h.logger, w, map[string][]string{"old_password": {"Wrong password."}})
		return
	}

	if err := validation.ValidatePassword(req.NewPassword); err != nil {
		sendFieldErrors(h.logger, w, map[string][]string{"new_password": {err.Error()}})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to hash password", slog.Any("error", err))
		sendDetail(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	if err := h.userStorage.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
		h.logger.ErrorContext(ctx, "failed to update password", slog.Any("error", err))
		sendDetail(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	deleted, err := h.tokenStorage.DeleteUserTokens(ctx, user.ID)
	if err != nil {
		h.logger.WarnContext(ctx, "failed to revoke refresh tokens", slog.Any("error", err))
	}

	h.logger.InfoContext(ctx, "password changed",
		slog.String("user_id", user.ID),
		slog.Int("tokens_revoked", deleted))

	sendJSON(h.logger, w, map[string]string{"message": "Password updated successfully"}, http.StatusOK)
}

// Avatar handles POST /api/auth/me/avatar/ (multipart upload)
func (h *ProfileHandler) Avatar(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user := h.currentUser(w, r)
	if user == nil {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxAvatarSize)
	if err := r.ParseMultipartForm(maxAvatarSize); err != nil {
		sendFieldErrors(h.logger, w, map[string][]string{"avatar": {"file is missing or too large (max 5 MB)"}})
		return
	}

	file, header, err := r.FormFile("avatar")
	if err != nil {
		sendFieldErrors(h.logger, w, map[string][]string{"avatar": {"avatar file is required"}})
		return
	}
	defer func() {
		_ = file.Close()
	}()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".gif", ".webp":
	default:
		sendFieldErrors(h.logger, w, map[string][]string{"avatar": {"unsupported file type"}})
		return
	}

	if err := os.MkdirAll(h.uploadDir, 0o750); err != nil {
		h.logger.ErrorContext(ctx, "failed to create upload dir", slog.Any("error", err))
		sendDetail(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	filename := user.ID + ext
	dst, err := os.Create(filepath.Join(h.uploadDir, filename))
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to create avatar file", slog.Any("error", err))
		sendDetail(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}
	defer func() {
		_ = dst.Close()
	}()

	if _, err := io.Copy(dst, file); err != nil {
		h.logger.ErrorContext(ctx, "failed to write avatar file", slog.Any("error", err))
		sendDetail(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	user.Avatar = fmt.Sprintf("/uploads/%s", filename)
	if err := h.userStorage.UpdateUser(ctx, user); err != nil {
		h.logger.ErrorContext(ctx, "failed to save avatar path", slog.Any("error", err))
		sendDetail(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "avatar uploaded",
		slog.String("user_id", user.ID),
		slog.Int64("size", header.Size))

	sendJSON(h.logger, w, api.AvatarResponse{Avatar: user.Avatar}, http.StatusOK)
}
