// Package server assembles the HTTP API: routes, middleware and the
// http.Server lifecycle.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/Cabrel-loic/Expenses-tracking-web-app/internal/config"
	"github.com/Cabrel-loic/Expenses-tracking-web-app/internal/server/handlers"
	"github.com/Cabrel-loic/Expenses-tracking-web-app/internal/server/middleware"
	"github.com/Cabrel-loic/Expenses-tracking-web-app/internal/server/storage"
)

// Storages bundles the persistence interfaces the server needs
type Storages struct {
	Users        storage.UserStorage
	Tokens       storage.TokenStorage
	Transactions storage.TransactionStorage
	Categories   storage.CategoryStorage
}

// Server is the HTTP front of the application
type Server struct {
	logger *slog.Logger
	httpd  *http.Server
}

// New builds the router and the underlying http.Server
func New(logger *slog.Logger, cfg *config.Config, storages Storages, version handlers.VersionInfo) *Server {
	jwtConfig := handlers.JWTConfig{
		Secret:          []byte(cfg.JWTSecret),
		AccessTokenTTL:  cfg.AccessTokenTTL,
		RefreshTokenTTL: cfg.RefreshTokenTTL,
	}

	authHandler := handlers.NewAuthHandler(logger, storages.Users, storages.Tokens, storages.Categories, jwtConfig)
	profileHandler := handlers.NewProfileHandler(logger, storages.Users, storages.Tokens, cfg.UploadDir)
	transactionHandler := handlers.NewTransactionHandler(logger, storages.Transactions, storages.Categories)
	categoryHandler := handlers.NewCategoryHandler(logger, storages.Categories)
	analyticsHandler := handlers.NewAnalyticsHandler(logger, storages.Transactions, storages.Categories)
	healthHandler := handlers.NewHealthHandler(logger, version)

	requireAuth := middleware.AuthMiddleware(logger, jwtConfig)

	mux := http.NewServeMux()

	// Public endpoints
	mux.HandleFunc("GET /api/health/{$}", healthHandler.Health)
	mux.HandleFunc("GET /api/version/{$}", healthHandler.Version)
	mux.HandleFunc("POST /api/auth/register/{$}", authHandler.Register)
	mux.HandleFunc("POST /api/auth/login/{$}", authHandler.Login)
	mux.HandleFunc("POST /api/auth/token/refresh/{$}", authHandler.Refresh)

	// Authenticated endpoints
	mux.Handle("GET /api/auth/me/{$}", requireAuth(http.HandlerFunc(profileHandler.Me)))
	mux.Handle("PUT /api/auth/me/update/{$}", requireAuth(http.HandlerFunc(profileHandler.Update)))
	mux.Handle("PATCH /api/auth/me/update/{$}", requireAuth(http.HandlerFunc(profileHandler.Update)))
	mux.Handle("POST /api/auth/me/password/{$}", requireAuth(http.HandlerFunc(profileHandler.ChangePassword)))
	mux.Handle("POST /api/auth/me/avatar/{$}", requireAuth(http.HandlerFunc(profileHandler.Avatar)))

	mux.Handle("GET /api/transactions/{$}", requireAuth(http.HandlerFunc(transactionHandler.List)))
	mux.Handle("POST /api/transactions/{$}", requireAuth(http.HandlerFunc(transactionHandler.Create)))
	mux.Handle("GET /api/transactions/{id}/{$}", requireAuth(http.HandlerFunc(transactionHandler.Get)))
	mux.Handle("PUT /api/transactions/{id}/{$}", requireAuth(http.HandlerFunc(transactionHandler.Update)))
	mux.Handle("DELETE /api/transactions/{id}/{$}", requireAuth(http.HandlerFunc(transactionHandler.Delete)))

	mux.Handle("GET /api/categories/{$}", requireAuth(http.HandlerFunc(categoryHandler.List)))
	mux.Handle("POST /api/categories/{$}", requireAuth(http.HandlerFunc(categoryHandler.Create)))
	mux.Handle("PUT /api/categories/{id}/{$}", requireAuth(http.HandlerFunc(categoryHandler.Update)))
	mux.Handle("DELETE /api/categories/{id}/{$}", requireAuth(http.HandlerFunc(categoryHandler.Delete)))

	mux.Handle("GET /api/analytics/summary/{$}", requireAuth(http.HandlerFunc(analyticsHandler.Summary)))

	// Uploaded avatars
	mux.Handle("GET /uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadDir))))

	var handler http.Handler = mux
	handler = middleware.RateLimitMiddleware(cfg.RateLimit, cfg.RateWindow, logger)(handler)
	handler = middleware.LoggingWithSkip(logger, []string{"/api/health/"})(handler)
	handler = middleware.RecoveryMiddleware(logger)(handler)

	return &Server{
		logger: logger,
		httpd: &http.Server{
			Addr:              cfg.Addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       2 * time.Minute,
		},
	}
}

// Run serves until the listener fails or Shutdown is called
func (s *Server) Run() error {
	s.logger.Info("HTTP server listening", "addr", s.httpd.Addr)
	if err := s.httpd.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpd.Shutdown(ctx)
}

// Handler exposes the assembled handler chain, used in tests
func (s *Server) Handler() http.Handler {
	return s.httpd.Handler
}
