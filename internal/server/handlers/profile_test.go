package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Cabrel-loic/Expenses-tracking-web-app/internal/models"
	"github.com/Cabrel-loic/Expenses-tracking-web-app/pkg/api"
)

func newProfileHandler(t *testing.T, userStorage *mockUserStorage, tokenStorage *mockTokenStorage) *ProfileHandler {
	t.Helper()
	return NewProfileHandler(setupTestLogger(), userStorage, tokenStorage, t.TempDir())
}

func TestProfileHandler_Me(t *testing.T) {
	userStorage := &mockUserStorage{
		users: map[string]*models.User{
			"testuser": {
				ID:       "user1",
				Username: "testuser",
				Email:    "test@example.com",
			},
		},
	}
	tokenStorage := &mockTokenStorage{tokens: make(map[string]*models.RefreshToken)}

	handler := newProfileHandler(t, userStorage, tokenStorage)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me/", nil)
	req = withUser(req, "user1")

	w := httptest.NewRecorder()
	handler.Me(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response api.User
	err := json.NewDecoder(w.Body).Decode(&response)
	require.NoError(t, err)

	assert.Equal(t, "user1", response.ID)
	assert.Equal(t, "testuser", response.Username)
	assert.Equal(t, "test@example.com", response.Email)
}

func TestProfileHandler_Me_Unauthenticated(t *testing.T) {
	userStorage := &mockUserStorage{users: make(map[string]*models.User)}
	tokenStorage := &mockTokenStorage{tokens: make(map[string]*models.RefreshToken)}

	handler := newProfileHandler(t, userStorage, tokenStorage)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me/", nil)

	w := httptest.NewRecorder()
	handler.Me(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProfileHandler_Update_Partial(t *testing.T) {
	userStorage := &mockUserStorage{
		users: map[string]*models.User{
			"testuser": {
				ID:        "user1",
				Username:  "testuser",
				Email:     "old@example.com",
				FirstName: "Old",
				LastName:  "Name",
			},
		},
	}
	tokenStorage := &mockTokenStorage{tokens: make(map[string]*models.RefreshToken)}

	handler := newProfileHandler(t, userStorage, tokenStorage)

	// Only the first name is sent; everything else stays put
	body, err := json.Marshal(api.UpdateProfileRequest{FirstName: strPtr("New")})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPatch, "/api/auth/me/update/", bytes.NewReader(body))
	req = withUser(req, "user1")

	w := httptest.NewRecorder()
	handler.Update(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response api.User
	err = json.NewDecoder(w.Body).Decode(&response)
	require.NoError(t, err)

	assert.Equal(t, "New", response.FirstName)
	assert.Equal(t, "Name", response.LastName)
	assert.Equal(t, "old@example.com", response.Email)
}

func TestProfileHandler_Update_BadEmail(t *testing.T) {
	userStorage := &mockUserStorage{
		users: map[string]*models.User{
			"testuser": {ID: "user1", Username: "testuser", Email: "old@example.com"},
		},
	}
	tokenStorage := &mockTokenStorage{tokens: make(map[string]*models.RefreshToken)}

	handler := newProfileHandler(t, userStorage, tokenStorage)

	body, err := json.Marshal(api.UpdateProfileRequest{Email: strPtr("nope")})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPatch, "/api/auth/me/update/", bytes.NewReader(body))
	req = withUser(req, "user1")

	w := httptest.NewRecorder()
	handler.Update(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "old@example.com", userStorage.users["testuser"].Email)
}

func TestProfileHandler_ChangePassword_Success(t *testing.T) {
	userStorage := &mockUserStorage{
		users: map[string]*models.User{
			"testuser": {
				ID:           "user1",
				Username:     "testuser",
				PasswordHash: hashPassword(t, "oldpassword"),
			},
		},
	}
	tokenStorage := &mockTokenStorage{
		tokens: map[string]*models.RefreshToken{
			"rt1": {Token: "rt1", UserID: "user1"},
			"rt2": {Token: "rt2", UserID: "user1"},
			"rt3": {Token: "rt3", UserID: "other"},
		},
	}

	handler := newProfileHandler(t, userStorage, tokenStorage)

	body, err := json.Marshal(api.ChangePasswordRequest{
		OldPassword: "oldpassword",
		NewPassword: "newpassword123",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/me/password/", bytes.NewReader(body))
	req = withUser(req, "user1")

	w := httptest.NewRecorder()
	handler.ChangePassword(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	// The stored hash now matches the new password
	err = bcrypt.CompareHashAndPassword([]byte(userStorage.users["testuser"].PasswordHash), []byte("newpassword123"))
	assert.NoError(t, err)

	// All of the user's refresh tokens were revoked, other users untouched
	assert.Len(t, tokenStorage.tokens, 1)
	_, ok := tokenStorage.tokens["rt3"]
	assert.True(t, ok)
}

func TestProfileHandler_ChangePassword_WrongOld(t *testing.T) {
	userStorage := &mockUserStorage{
		users: map[string]*models.User{
			"testuser": {
				ID:           "user1",
				Username:     "testuser",
				PasswordHash: hashPassword(t, "oldpassword"),
			},
		},
	}
	tokenStorage := &mockTokenStorage{tokens: make(map[string]*models.RefreshToken)}

	handler := newProfileHandler(t, userStorage, tokenStorage)

	body, err := json.Marshal(api.ChangePasswordRequest{
		OldPassword: "wrong",
		NewPassword: "newpassword123",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/me/password/", bytes.NewReader(body))
	req = withUser(req, "user1")

	w := httptest.NewRecorder()
	handler.ChangePassword(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var fields map[string][]string
	err = json.NewDecoder(w.Body).Decode(&fields)
	require.NoError(t, err)
	assert.Contains(t, fields["old_password"], "Wrong password.")
}

func TestProfileHandler_Avatar_Upload(t *testing.T) {
	userStorage := &mockUserStorage{
		users: map[string]*models.User{
			"testuser": {ID: "user1", Username: "testuser"},
		},
	}
	tokenStorage := &mockTokenStorage{tokens: make(map[string]*models.RefreshToken)}

	uploadDir := t.TempDir()
	handler := NewProfileHandler(setupTestLogger(), userStorage, tokenStorage, uploadDir)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("avatar", "me.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("fake image bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/auth/me/avatar/", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req = withUser(req, "user1")

	w := httptest.NewRecorder()
	handler.Avatar(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response api.AvatarResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, "/uploads/user1.png", response.Avatar)

	data, err := os.ReadFile(filepath.Join(uploadDir, "user1.png"))
	require.NoError(t, err)
	assert.Equal(t, "fake image bytes", string(data))

	require.Len(t, userStorage.updatedUsers, 1)
	assert.Equal(t, "/uploads/user1.png", userStorage.updatedUsers[0].Avatar)
}

func TestProfileHandler_Avatar_BadExtension(t *testing.T) {
	userStorage := &mockUserStorage{
		users: map[string]*models.User{
			"testuser": {ID: "user1", Username: "testuser"},
		},
	}
	tokenStorage := &mockTokenStorage{tokens: make(map[string]*models.RefreshToken)}

	handler := newProfileHandler(t, userStorage, tokenStorage)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("avatar", "script.sh")
	require.NoError(t, err)
	_, err = part.Write([]byte("#!/bin/sh"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/auth/me/avatar/", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req = withUser(req, "user1")

	w := httptest.NewRecorder()
	handler.Avatar(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var fields map[string][]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&fields))
	assert.Contains(t, fields["avatar"], "unsupported file type")
	assert.Empty(t, userStorage.updatedUsers)
}
