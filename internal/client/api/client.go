// Package api implements the HTTP client for the server's REST API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"time"

	"github.com/Cabrel-loic/Expenses-tracking-web-app/pkg/api"
)

// Session supplies access tokens and refreshes them on demand.
// Implemented by the session manager.
type Session interface {
	// AccessToken returns the current access token
	AccessToken(ctx context.Context) (string, error)

	// Refresh exchanges the refresh token for a new pair and returns
	// the new access token
	Refresh(ctx context.Context) (string, error)

	// End discards the stored session
	End(ctx context.Context) error
}

// Client is the HTTP client for the server API.
// Authenticated calls retry exactly once after a 401: refresh, retry,
// and if the retry still comes back 401 the session is ended and the
// caller must log in again.
type Client struct {
	httpClient *http.Client
	baseURL    string
	session    Session
}

// NewClient creates a new API client
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetSession wires the token source used for authenticated calls.
// Done after construction because the session manager refreshes
// through this same client.
func (c *Client) SetSession(session Session) {
	c.session = session
}

// Register creates a new account
func (c *Client) Register(ctx context.Context, req api.RegisterRequest) (*api.RegisterResponse, error) {
	var resp api.RegisterResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/register/", "", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Login authenticates and returns the token pair with the profile
func (c *Client) Login(ctx context.Context, req api.LoginRequest) (*api.LoginResponse, error) {
	var resp api.LoginResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login/", "", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RefreshTokens exchanges a refresh token for a rotated pair.
// Called by the session manager, not directly by commands.
func (c *Client) RefreshTokens(ctx context.Context, refreshToken string) (string, string, error) {
	var resp api.RefreshResponse
	req := api.RefreshRequest{Refresh: refreshToken}
	if err := c.do(ctx, http.MethodPost, "/api/auth/token/refresh/", "", req, &resp); err != nil {
		return "", "", err
	}
	return resp.Access, resp.Refresh, nil
}

// Me fetches the current profile
func (c *Client) Me(ctx context.Context) (*api.User, error) {
	var resp api.User
	if err := c.doAuth(ctx, http.MethodGet, "/api/auth/me/", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateProfile applies a partial profile update
func (c *Client) UpdateProfile(ctx context.Context, req api.UpdateProfileRequest) (*api.User, error) {
	var resp api.User
	if err := c.doAuth(ctx, http.MethodPatch, "/api/auth/me/update/", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ChangePassword replaces the account password.
// The server revokes every refresh token, including this session's.
func (c *Client) ChangePassword(ctx context.Context, req api.ChangePasswordRequest) error {
	return c.doAuth(ctx, http.MethodPost, "/api/auth/me/password/", req, nil)
}

// UploadAvatar uploads an avatar image file
func (c *Client) UploadAvatar(ctx context.Context, filename string, content io.Reader) (*api.AvatarResponse, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("avatar", filepath.Base(filename))
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, fmt.Errorf("failed to read avatar file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish multipart body: %w", err)
	}

	var resp api.AvatarResponse
	err = c.doRaw(ctx, http.MethodPost, "/api/auth/me/avatar/", writer.FormDataContentType(), buf.Bytes(), &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListTransactions returns the user's transactions.
// categoryID, when non-empty, narrows the listing.
func (c *Client) ListTransactions(ctx context.Context, categoryID string) ([]api.Transaction, error) {
	path := "/api/transactions/"
	if categoryID != "" {
		path += "?category=" + url.QueryEscape(categoryID)
	}

	var resp []api.Transaction
	if err := c.doAuth(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// CreateTransaction records a new transaction
func (c *Client) CreateTransaction(ctx context.Context, req api.TransactionRequest) (*api.Transaction, error) {
	var resp api.Transaction
	if err := c.doAuth(ctx, http.MethodPost, "/api/transactions/", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetTransaction fetches one transaction by id
func (c *Client) GetTransaction(ctx context.Context, id string) (*api.Transaction, error) {
	var resp api.Transaction
	if err := c.doAuth(ctx, http.MethodGet, "/api/transactions/"+url.PathEscape(id)+"/", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateTransaction replaces a transaction's fields
func (c *Client) UpdateTransaction(ctx context.Context, id string, req api.TransactionRequest) (*api.Transaction, error) {
	var resp api.Transaction
	if err := c.doAuth(ctx, http.MethodPut, "/api/transactions/"+url.PathEscape(id)+"/", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteTransaction removes a transaction
func (c *Client) DeleteTransaction(ctx context.Context, id string) error {
	return c.doAuth(ctx, http.MethodDelete, "/api/transactions/"+url.PathEscape(id)+"/", nil, nil)
}

// ListCategories returns the user's categories
func (c *Client) ListCategories(ctx context.Context) ([]api.Category, error) {
	var resp []api.Category
	if err := c.doAuth(ctx, http.MethodGet, "/api/categories/", nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// CreateCategory creates a new category
func (c *Client) CreateCategory(ctx context.Context, req api.CategoryRequest) (*api.Category, error) {
	var resp api.Category
	if err := c.doAuth(ctx, http.MethodPost, "/api/categories/", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateCategory updates a category
func (c *Client) UpdateCategory(ctx context.Context, id string, req api.CategoryRequest) (*api.Category, error) {
	var resp api.Category
	if err := c.doAuth(ctx, http.MethodPut, "/api/categories/"+url.PathEscape(id)+"/", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteCategory removes a category; default ones are refused
func (c *Client) DeleteCategory(ctx context.Context, id string) error {
	return c.doAuth(ctx, http.MethodDelete, "/api/categories/"+url.PathEscape(id)+"/", nil, nil)
}

// Summary fetches the analytics summary. Dates are YYYY-MM-DD, empty
// means unbounded on that side.
func (c *Client) Summary(ctx context.Context, startDate, endDate string) (*api.AnalyticsSummary, error) {
	query := url.Values{}
	if startDate != "" {
		query.Set("start_date", startDate)
	}
	if endDate != "" {
		query.Set("end_date", endDate)
	}

	path := "/api/analytics/summary/"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var resp api.AnalyticsSummary
	if err := c.doAuth(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// doAuth performs an authenticated request with the one-retry rule:
// on 401 the session is refreshed and the request replayed once.
// A 401 on the replay means the account itself is rejected, so the
// session is ended instead of refreshing again.
func (c *Client) doAuth(ctx context.Context, method, path string, body, result interface{}) error {
	if c.session == nil {
		return fmt.Errorf("no session configured")
	}

	token, err := c.session.AccessToken(ctx)
	if err != nil {
		return err
	}

	err = c.do(ctx, method, path, token, body, result)
	if !isUnauthorized(err) {
		return err
	}

	token, err = c.session.Refresh(ctx)
	if err != nil {
		return err
	}

	err = c.do(ctx, method, path, token, body, result)
	if isUnauthorized(err) {
		return c.endSession(ctx, err)
	}
	return err
}

// endSession clears the stored session after a replay came back 401
// with a freshly refreshed token. End fails if another caller already
// ended the session, in which case the expiry was signalled there.
func (c *Client) endSession(ctx context.Context, cause error) error {
	if endErr := c.session.End(ctx); endErr == nil {
		return fmt.Errorf("session expired: %w", cause)
	}
	return cause
}

func isUnauthorized(err error) bool {
	var apiErr *api.Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

// do performs one HTTP round trip with a JSON body
func (c *Client) do(ctx context.Context, method, path, token string, body, result interface{}) error {
	var bodyBytes []byte
	contentType := ""
	if body != nil {
		var err error
		bodyBytes, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		contentType = "application/json"
	}

	return c.roundTrip(ctx, method, path, token, contentType, bodyBytes, result)
}

// doRaw performs one authenticated round trip with a prebuilt body,
// applying the same one-retry rule as doAuth
func (c *Client) doRaw(ctx context.Context, method, path, contentType string, body []byte, result interface{}) error {
	if c.session == nil {
		return fmt.Errorf("no session configured")
	}

	token, err := c.session.AccessToken(ctx)
	if err != nil {
		return err
	}

	err = c.roundTrip(ctx, method, path, token, contentType, body, result)
	if !isUnauthorized(err) {
		return err
	}

	token, err = c.session.Refresh(ctx)
	if err != nil {
		return err
	}

	err = c.roundTrip(ctx, method, path, token, contentType, body, result)
	if isUnauthorized(err) {
		return c.endSession(ctx, err)
	}
	return err
}

func (c *Client) roundTrip(ctx context.Context, method, path, token, contentType string, body []byte, result interface{}) error {
	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return api.NetworkError(err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return api.NetworkError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return api.DecodeError(resp.StatusCode, respBody)
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
