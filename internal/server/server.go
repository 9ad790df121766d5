// Package server provides the HTTP API for browsing scraped job datasets, triggering
// scrapes and managing dashboard accounts.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/ai-jobs-tracker/internal/config"
	"github.com/jonathan/ai-jobs-tracker/internal/scraper"
	"github.com/jonathan/ai-jobs-tracker/internal/scrapestatus"
	"github.com/jonathan/ai-jobs-tracker/internal/server/middleware"
	"github.com/jonathan/ai-jobs-tracker/internal/server/ratelimit"
	"github.com/jonathan/ai-jobs-tracker/internal/storage"
	"github.com/jonathan/ai-jobs-tracker/internal/types"
)

const shutdownTimeout = 30 * time.Second

// ScrapeRunner runs one company scrape. *scraper.Scraper implements it.
type ScrapeRunner interface {
	Run(ctx context.Context, c scraper.Company) (*types.CompanyDataset, error)
}

// SkillIndex answers cross-company skill queries without loading every dataset.
type SkillIndex interface {
	JobsWithSkill(ctx context.Context, skill string) ([]types.JobPosting, error)
}

// BookmarkStore persists saved postings. *db.DB implements it.
type BookmarkStore interface {
	CreateBookmark(ctx context.Context, userID uuid.UUID, req *types.CreateBookmarkRequest) (*types.Bookmark, error)
	ListBookmarks(ctx context.Context, userID uuid.UUID) ([]types.Bookmark, error)
	DeleteBookmark(ctx context.Context, userID, id uuid.UUID) (bool, error)
}

// Config holds server configuration
type Config struct {
	Port      int
	RateLimit *ratelimit.Config
}

// Deps are the collaborators of the server. Datasets is required. Without Users and JWT
// the auth routes answer 503, without Bookmarks the bookmark routes do, and without
// Scraper or Tracker scrape triggering is unavailable.
type Deps struct {
	Datasets  storage.Source
	Skills    SkillIndex
	Scraper   ScrapeRunner
	Companies func(name string) (scraper.Company, bool)
	Tracker   scrapestatus.Tracker
	Users     UserStore
	Bookmarks BookmarkStore
	JWT       *config.JWTConfig
	Password  *config.PasswordConfig
	Logger    *zap.Logger
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	handler     http.Handler
	deps        Deps
	logger      *zap.Logger
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
	authHandler *AuthHandler
	validate    *validator.Validate

	// scrapeCtx outlives individual requests; Close cancels it.
	scrapeCtx    context.Context
	cancelScrape context.CancelFunc
	scrapes      sync.WaitGroup
}

// New creates a new server instance
func New(cfg Config, deps Deps) (*Server, error) {
	if deps.Datasets == nil {
		return nil, errors.New("server requires a dataset source")
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	s := &Server{
		deps:        deps,
		logger:      deps.Logger.Named("server"),
		rateLimiter: ratelimit.NewLimiter(cfg.RateLimit),
		validate:    validator.New(),
	}
	s.scrapeCtx, s.cancelScrape = context.WithCancel(context.Background())

	if deps.JWT != nil {
		if err := deps.JWT.Validate(); err != nil {
			return nil, fmt.Errorf("invalid JWT config: %w", err)
		}
		s.jwtService = NewJWTService(deps.JWT)
	}
	if deps.Users != nil && s.jwtService != nil {
		password := deps.Password
		if password == nil {
			password = &config.PasswordConfig{BcryptCost: config.DefaultBcryptCost}
		}
		s.authHandler = NewAuthHandler(NewUserService(deps.Users, password), s.jwtService, s.logger)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("POST /auth/register", s.handleRegister)
	mux.HandleFunc("POST /auth/login", s.handleLogin)
	mux.Handle("PUT /auth/password", s.authenticated(s.handleUpdatePassword))

	mux.HandleFunc("GET /companies", s.handleListCompanies)
	mux.HandleFunc("GET /companies/{company}/dataset", s.handleGetDataset)
	mux.HandleFunc("GET /companies/{company}/jobs", s.handleListJobs)
	mux.HandleFunc("GET /companies/{company}/papers", s.handleListPapers)
	mux.HandleFunc("GET /jobs/by-skill", s.handleJobsBySkill)
	mux.HandleFunc("GET /compare", s.handleCompare)

	mux.HandleFunc("POST /companies/{company}/scrape", s.handleStartScrape)
	mux.HandleFunc("GET /companies/{company}/scrape/status", s.handleScrapeStatus)
	mux.HandleFunc("DELETE /companies/{company}/scrape/status", s.handleClearScrapeStatus)

	mux.Handle("GET /bookmarks", s.authenticated(s.handleListBookmarks))
	mux.Handle("POST /bookmarks", s.authenticated(s.handleCreateBookmark))
	mux.Handle("DELETE /bookmarks/{id}", s.authenticated(s.handleDeleteBookmark))

	s.handler = s.withRecover(s.withRateLimit(s.withLogging(s.withCORS(mux))))
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the fully wrapped request handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		s.Close()
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := s.httpServer.Shutdown(shutdownCtx)
	s.Close()
	if err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}

// Close cancels background scrapes, waits for them and stops the rate limiter.
func (s *Server) Close() {
	s.cancelScrape()
	s.scrapes.Wait()
	s.rateLimiter.Stop()
}

// authenticated wraps h with bearer token authentication.
func (s *Server) authenticated(h http.HandlerFunc) http.Handler {
	if s.jwtService == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			s.errorResponse(w, http.StatusServiceUnavailable, "authentication is not configured")
		})
	}
	return middleware.AuthMiddleware(s.jwtService.AsTokenValidator())(h)
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, data, s.logger)
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// errResponse maps err to a status with HTTPStatus. Internal errors are logged and hidden.
func (s *Server) errResponse(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", zap.Error(err))
		s.errorResponse(w, status, "internal error")
		return
	}
	s.errorResponse(w, status, err.Error())
}

func writeJSON(w http.ResponseWriter, status int, data any, logger *zap.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Warn("failed to encode JSON response", zap.Error(err))
	}
}

// parseQueryInt parses an integer query parameter with default and max values
func parseQueryInt(r *http.Request, key string, defaultValue, maxValue int) int {
	valStr := r.URL.Query().Get(key)
	if valStr == "" {
		return defaultValue
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val < 0 {
		return defaultValue
	}
	if maxValue > 0 && val > maxValue {
		return maxValue
	}
	return val
}

// extractClientID extracts the client identifier from the request.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
