// Package server provides the HTTP REST API for the resume matcher.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/resume-matcher/internal/analysis"
	"github.com/jonathan/resume-matcher/internal/config"
	"github.com/jonathan/resume-matcher/internal/db"
	"github.com/jonathan/resume-matcher/internal/metrics"
	"github.com/jonathan/resume-matcher/internal/ranking"
	"github.com/jonathan/resume-matcher/internal/server/middleware"
	"github.com/jonathan/resume-matcher/internal/server/ratelimit"
)

// maxBodyBytes caps JSON request bodies and multipart uploads
const maxBodyBytes = 10 << 20

// Store is the persistence the API needs. *db.DB implements it.
type Store interface {
	analysis.Repository
	CreateResume(ctx context.Context, input *db.ResumeCreateInput) (*db.Resume, error)
	CreateJobPosting(ctx context.Context, input *db.JobPostingCreateInput) (*db.JobPosting, error)
	ListJobPostings(ctx context.Context, limit int) ([]db.JobPosting, error)
	UpdateJobPosting(ctx context.Context, id uuid.UUID, input *db.JobPostingCreateInput) (*db.JobPosting, error)
	DeleteJobPosting(ctx context.Context, id uuid.UUID) (bool, error)
	DeleteResume(ctx context.Context, id uuid.UUID) (bool, error)
	Ping(ctx context.Context) error
}

// JobFetcher downloads a job posting page and returns its description text
type JobFetcher func(ctx context.Context, url string) (string, error)

// Config holds server configuration
type Config struct {
	Port               int
	RateLimitPerMinute int
	// JWT enables bearer authentication when non-nil
	JWT             *config.JWTConfig
	ShutdownTimeout time.Duration
}

// Deps are the collaborators the handlers call into. Matcher is required; without a
// Store only the stateless endpoints work.
type Deps struct {
	Store    Store
	Matcher  *ranking.Matcher
	Service  *analysis.Service
	Metrics  *metrics.Manager
	Logger   *slog.Logger
	FetchJob JobFetcher
}

// Server represents the HTTP server
type Server struct {
	httpServer      *http.Server
	handler         http.Handler
	store           Store
	matcher         *ranking.Matcher
	service         *analysis.Service
	metrics         *metrics.Manager
	logger          *slog.Logger
	fetchJob        JobFetcher
	rateLimiter     *ratelimit.Limiter
	jwtService      *JWTService
	shutdownTimeout time.Duration
}

// New creates a new server instance
func New(cfg Config, deps Deps) (*Server, error) {
	if deps.Matcher == nil {
		return nil, fmt.Errorf("matcher is required")
	}

	s := &Server{
		store:           deps.Store,
		matcher:         deps.Matcher,
		service:         deps.Service,
		metrics:         deps.Metrics,
		logger:          deps.Logger,
		fetchJob:        deps.FetchJob,
		rateLimiter:     ratelimit.NewLimiter(ratelimit.LoadConfig(cfg.RateLimitPerMinute)),
		shutdownTimeout: cfg.ShutdownTimeout,
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.metrics == nil {
		s.metrics = metrics.NewManager()
	}
	if s.shutdownTimeout <= 0 {
		s.shutdownTimeout = 30 * time.Second
	}
	if s.service == nil && s.store != nil {
		s.service = analysis.NewService(s.store, s.matcher,
			analysis.WithLogger(s.logger),
			analysis.WithBulkRecorder(s.metrics),
		)
	}
	if cfg.JWT != nil {
		s.jwtService = NewJWTService(cfg.JWT)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", s.metrics.Handler())

	// Stateless scoring
	mux.HandleFunc("POST /match", s.handleMatch)
	mux.HandleFunc("POST /job-profile", s.handleJobProfile)

	// Resumes
	mux.HandleFunc("POST /resumes", s.handleCreateResume)
	mux.HandleFunc("POST /resumes/bulk-upload", s.handleBulkUpload)
	mux.HandleFunc("GET /resumes/{id}", s.handleGetResume)
	mux.HandleFunc("DELETE /resumes/{id}", s.handleDeleteResume)
	mux.HandleFunc("POST /resumes/{id}/ats-score", s.handleATSScore)
	mux.HandleFunc("GET /resumes/{id}/analyses", s.handleListResumeAnalyses)

	// Job postings
	mux.HandleFunc("POST /jobs", s.handleCreateJob)
	mux.HandleFunc("GET /jobs", s.handleListJobs)
	mux.HandleFunc("GET /jobs/{id}", s.handleGetJob)
	mux.HandleFunc("PUT /jobs/{id}", s.handleUpdateJob)
	mux.HandleFunc("DELETE /jobs/{id}", s.handleDeleteJob)

	// Stored analyses
	mux.HandleFunc("POST /analyze-resume-job", s.handleAnalyzeResumeJob)
	mux.HandleFunc("POST /bulk-analyze", s.handleBulkAnalyze)
	mux.HandleFunc("GET /analysis-results/{id}", s.handleGetAnalysis)
	mux.HandleFunc("GET /analysis-results/{id}/report", s.handleAnalysisReport)
	mux.HandleFunc("POST /skill-gap", s.handleSkillGap)

	// auth runs before the limiter so authenticated clients get their own buckets
	h := s.withRateLimit(mux)
	if s.jwtService != nil {
		h = middleware.AuthMiddleware(s.jwtService.AsTokenValidator(), "/health", "/metrics")(h)
	}
	s.handler = s.withLogging(s.withMetrics(s.withCORS(h)))

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // bulk analyses can take a while
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the fully wrapped HTTP handler
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start serves until ctx is cancelled or SIGINT/SIGTERM arrives, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "addr", s.httpServer.Addr, "auth", s.jwtService != nil)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		s.Close()
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.Close()
	s.logger.Info("server stopped")
	return nil
}

// Close releases background resources. The store is owned by the caller.
func (s *Server) Close() {
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(s.extractClientID(r), r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, r, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response status for logging and metrics
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		level := slog.LevelInfo
		if rec.status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		s.logger.Log(r.Context(), level, "request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
			"remote", r.RemoteAddr,
		)
	})
}

// withMetrics records request counts and latency per route
func (s *Server) withMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.metrics.ObserveHTTP(endpointLabel(r.URL.Path), r.Method, rec.status, time.Since(start))
	})
}

// endpointLabel replaces UUID path segments so metric labels stay bounded
func endpointLabel(path string) string {
	out := make([]byte, 0, len(path))
	start := 0
	for i := 0; i <= len(path); i++ {
		if i < len(path) && path[i] != '/' {
			continue
		}
		seg := path[start:i]
		if _, err := uuid.Parse(seg); err == nil && len(seg) == 36 {
			seg = "{id}"
		}
		out = append(out, seg...)
		if i < len(path) {
			out = append(out, '/')
		}
		start = i + 1
	}
	return string(out)
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]string{"status": "ok", "database": "disabled"}
	status := http.StatusOK
	if s.store != nil {
		resp["database"] = "ok"
		if err := s.store.Ping(r.Context()); err != nil {
			s.logger.Warn("database ping failed", "error", err)
			resp["status"] = "degraded"
			resp["database"] = "unavailable"
			status = http.StatusServiceUnavailable
		}
	}
	s.jsonResponse(w, status, resp)
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode JSON response", "error", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// handleError maps err to a status code and writes it. Internal details of 5xx errors are logged, not returned.
func (s *Server) handleError(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		message = "Internal server error"
	}
	s.errorResponse(w, status, message)
}

// decodeJSON decodes a size-limited JSON request body into v
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &ErrValidation{Field: "body", Message: "invalid JSON: " + err.Error()}
	}
	return nil
}

// pathUUID parses the named path parameter as a UUID
func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		return uuid.Nil, &ErrValidation{Field: name, Message: "invalid UUID"}
	}
	return id, nil
}

// parseQueryInt reads a non-negative integer query parameter, capped at maxValue when positive
func parseQueryInt(r *http.Request, key string, defaultValue, maxValue int) int {
	val, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || val < 0 {
		return defaultValue
	}
	if maxValue > 0 && val > maxValue {
		return maxValue
	}
	return val
}

// requireStore reports whether the database-backed endpoints can run
func (s *Server) requireStore(w http.ResponseWriter, r *http.Request) bool {
	if s.store == nil || s.service == nil {
		s.handleError(w, r, &ErrStoreUnavailable{})
		return false
	}
	return true
}

// extractClientID identifies the caller for rate limiting: the authenticated client when
// auth is on, otherwise the remote IP.
func (s *Server) extractClientID(r *http.Request) string {
	if client, err := middleware.GetClientID(r); err == nil {
		return "client:" + client
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, r *http.Request, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		seconds := max(int(info.RetryAfter.Seconds()), 1)
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", strconv.Itoa(seconds))
	}

	s.logger.Warn("rate limit exceeded",
		"client", s.extractClientID(r),
		"path", r.URL.Path,
		"limit", info.Limit,
	)

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
