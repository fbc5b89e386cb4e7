package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Cabrel-loic/Expenses-tracking-web-app/internal/models"
	"github.com/Cabrel-loic/Expenses-tracking-web-app/internal/server/storage"
	"github.com/Cabrel-loic/Expenses-tracking-web-app/internal/validation"
	"github.com/Cabrel-loic/Expenses-tracking-web-app/pkg/api"
)

// AuthHandler handles registration, login and token refresh
type AuthHandler struct {
	logger          *slog.Logger
	userStorage     storage.UserStorage
	tokenStorage    storage.TokenStorage
	categoryStorage storage.CategoryStorage
	jwtConfig       JWTConfig
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(
	logger *slog.Logger,
	userStorage storage.UserStorage,
	tokenStorage storage.TokenStorage,
	categoryStorage storage.CategoryStorage,
	jwtConfig JWTConfig,
) *AuthHandler {
	return &AuthHandler{
		logger:          logger,
		userStorage:     userStorage,
		tokenStorage:    tokenStorage,
		categoryStorage: categoryStorage,
		jwtConfig:       jwtConfig,
	}
}

// Register handles POST /api/auth/register/
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(ctx, "failed to decode register request", slog.Any("error", err))
		sendDetail(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	fields := make(map[string][]string)
	if err := validation.ValidateUsername(req.Username); err != nil {
		fields["username"] = append(fields["username"], err.Error())
	}
	if err := validation.ValidateEmail(req.Email); err != nil {
		fields["email"] = append(fields["email"], err.Error())
	}
	if err := validation.ValidatePassword(req.Password); err != nil {
		fields["password"] = append(fields["password"], err.Error())
	}
	if req.Password != req.Password2 {
		fields["password"] = append(fields["password"], "Password fields didn't match.")
	}
	if len(fields) > 0 {
		h.logger.WarnContext(ctx, "invalid registration input", slog.String("username", req.Username))
		sendFieldErrors(h.logger, w, fields)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to hash password", slog.Any("error", err))
		sendDetail(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		DateJoined:   time.Now(),
	}

	if err := h.userStorage.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrUserAlreadyExists) {
			h.logger.WarnContext(ctx, "user already exists", slog.String("username", req.Username))
			sendFieldErrors(h.logger, w, map[string][]string{
				"username": {"A user with that username already exists."},
			})
			return
		}
		h.logger.ErrorContext(ctx, "failed to create user", slog.Any("error", err))
		sendDetail(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.createDefaultCategories(r, user.ID)

	h.logger.InfoContext(ctx, "user registered successfully",
		slog.String("username", req.Username),
		slog.String("user_id", user.ID))

	resp := api.RegisterResponse{
		Message: "User registered successfully",
		User:    profileOf(user),
	}

	sendJSON(h.logger, w, resp, http.StatusCreated)
}

// createDefaultCategories seeds the default category set for a new user.
// Fail-safe: registration must succeed even if this fails.
func (h *AuthHandler) createDefaultCategories(r *http.Request, userID string) {
	ctx := r.Context()

	for _, category := range models.DefaultCategories() {
		category.ID = uuid.New().String()
		category.UserID = userID
		category.CreatedAt = time.Now()

		if err := h.categoryStorage.CreateCategory(ctx, &category); err != nil {
			h.logger.ErrorContext(ctx, "failed to create default category",
				slog.String("user_id", userID),
				slog.String("category", category.Name),
				slog.Any("error", err))
		}
	}
}

// Login handles POST /api/auth/login/
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(ctx, "failed to decode login request", slog.Any("error", err))
		sendDetail(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.Username == "" || req.Password == "" {
		sendDetail(h.logger, w, "username and password are required", http.StatusBadRequest)
		return
	}

	user, err := h.userStorage.GetUserByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			h.logger.WarnContext(ctx, "login failed: user not found", slog.String("username", req.Username))
			sendDetail(h.logger, w, "No active account found with the given credentials", http.StatusUnauthorized)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get user", slog.Any("error", err))
		sendDetail(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		h.logger.WarnContext(ctx, "login failed: invalid password", slog.String("username", req.Username))
		sendDetail(h.logger, w, "No active account found with the given credentials", http.StatusUnauthorized)
		return
	}

	accessToken, refreshToken, err := h.issueTokens(r, user)
	if err != nil {
		sendDetail(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	now := time.Now()
	if err := h.userStorage.UpdateLastLogin(ctx, user.ID, now); err != nil {
		// Not critical, log and continue
		h.logger.WarnContext(ctx, "failed to update last login", slog.Any("error", err))
	}

	h.logger.InfoContext(ctx, "user logged in successfully",
		slog.String("username", req.Username),
		slog.String("user_id", user.ID))

	resp := api.LoginResponse{
		Access:  accessToken,
		Refresh: refreshToken,
		User:    profileOf(user),
	}

	sendJSON(h.logger, w, resp, http.StatusOK)
}

// Refresh handles POST /api/auth/token/refresh/
// The presented refresh token is rotated: it is revoked and a new pair
// is returned.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(ctx, "failed to decode refresh request", slog.Any("error", err))
		sendDetail(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.Refresh == "" {
		sendFieldErrors(h.logger, w, map[string][]string{
			"refresh": {"This field is required."},
		})
		return
	}

	storedToken, err := h.tokenStorage.GetRefreshToken(ctx, req.Refresh)
	if err != nil {
		if errors.Is(err, storage.ErrTokenNotFound) {
			h.logger.WarnContext(ctx, "refresh token not found")
			sendDetail(h.logger, w, "Token is invalid or expired", http.StatusUnauthorized)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get refresh token", slog.Any("error", err))
		sendDetail(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	if time.Now().After(storedToken.ExpiresAt) {
		h.logger.WarnContext(ctx, "refresh token expired", slog.String("user_id", storedToken.UserID))
		sendDetail(h.logger, w, "Token is invalid or expired", http.StatusUnauthorized)
		return
	}

	user, err := h.userStorage.GetUserByID(ctx, storedToken.UserID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to get user", slog.Any("error", err))
		sendDetail(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	// Revoke the presented token before issuing the replacement
	if err := h.tokenStorage.DeleteRefreshToken(ctx, req.Refresh); err != nil {
		h.logger.WarnContext(ctx, "failed to delete old refresh token", slog.Any("error", err))
	}

	accessToken, refreshToken, err := h.issueTokens(r, user)
	if err != nil {
		sendDetail(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "tokens refreshed successfully", slog.String("user_id", user.ID))

	resp := api.RefreshResponse{
		Access:  accessToken,
		Refresh: refreshToken,
	}

	sendJSON(h.logger, w, resp, http.StatusOK)
}

// issueTokens generates an access token and persists a fresh refresh token
func (h *AuthHandler) issueTokens(r *http.Request, user *models.User) (string, string, error) {
	ctx := r.Context()

	accessToken, err := GenerateAccessToken(h.jwtConfig, user.ID, user.Username)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to generate access token", slog.Any("error", err))
		return "", "", err
	}

	refreshToken, expiresAt, err := GenerateRefreshToken(h.jwtConfig)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to generate refresh token", slog.Any("error", err))
		return "", "", err
	}

	token := &models.RefreshToken{
		Token:     refreshToken,
		UserID:    user.ID,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}

	if err := h.tokenStorage.SaveRefreshToken(ctx, token); err != nil {
		h.logger.ErrorContext(ctx, "failed to save refresh token", slog.Any("error", err))
		return "", "", err
	}

	return accessToken, refreshToken, nil
}

// profileOf converts a stored user into its API representation
func profileOf(user *models.User) api.User {
	return api.User{
		ID:         user.ID,
		Username:   user.Username,
		Email:      user.Email,
		FirstName:  user.FirstName,
		LastName:   user.LastName,
		Avatar:     user.Avatar,
		DateJoined: user.DateJoined,
	}
}
