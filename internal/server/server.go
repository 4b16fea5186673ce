// Package server provides the HTTP REST API for the recruitment manager.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/recruitment-manager/internal/ingestion"
	"github.com/jonathan/recruitment-manager/internal/interview"
	"github.com/jonathan/recruitment-manager/internal/jobdesc"
	"github.com/jonathan/recruitment-manager/internal/logger"
	"github.com/jonathan/recruitment-manager/internal/ranking"
	"github.com/jonathan/recruitment-manager/internal/server/ratelimit"
	"github.com/jonathan/recruitment-manager/internal/types"
)

// defaultMaxUploadBytes caps multipart bodies
const defaultMaxUploadBytes = 32 << 20

// DocumentStore is the read side of the relational store used by the document routes
type DocumentStore interface {
	ListRaw(ctx context.Context, kind types.DocumentKind, limit int) ([]types.RawDocument, error)
	GetRaw(ctx context.Context, kind types.DocumentKind, id int64) (*types.RawDocument, error)
	GetParsedByRawID(ctx context.Context, kind types.DocumentKind, rawID int64) (*types.ParsedDocument, error)
}

// Config holds server configuration
type Config struct {
	Port int
	// UploadDir receives /rank uploads; the OS temp dir when empty
	UploadDir      string
	MaxUploadBytes int64
	RateLimit      *ratelimit.Config
	Logger         *zap.Logger
}

// Deps are the components behind the routes. Documents and Ingestion may be
// nil, in which case the document routes answer 503.
type Deps struct {
	Scorer          ranking.Scorer
	RankOptions     ranking.Options
	Interviews      *interview.Engine
	JobDescriptions *jobdesc.Generator
	Documents       DocumentStore
	Ingestion       *ingestion.Pipeline
	// LLMAvailable is reported by /health
	LLMAvailable bool
}

// Server represents the HTTP server
type Server struct {
	httpServer     *http.Server
	handler        http.Handler
	logger         *zap.Logger
	rateLimiter    *ratelimit.Limiter
	uploadDir      string
	maxUploadBytes int64

	scorer       ranking.Scorer
	rankOptions  ranking.Options
	interviews   *interview.Engine
	jobdescs     *jobdesc.Generator
	documents    DocumentStore
	ingestion    *ingestion.Pipeline
	llmAvailable bool
}

// New creates a new server instance
func New(cfg Config, deps Deps) *Server {
	log := logger.OrNop(cfg.Logger)

	s := &Server{
		logger:         log,
		rateLimiter:    ratelimit.NewLimiter(cfg.RateLimit),
		uploadDir:      cfg.UploadDir,
		maxUploadBytes: cfg.MaxUploadBytes,
		scorer:         deps.Scorer,
		rankOptions:    deps.RankOptions,
		interviews:     deps.Interviews,
		jobdescs:       deps.JobDescriptions,
		documents:      deps.Documents,
		ingestion:      deps.Ingestion,
		llmAvailable:   deps.LLMAvailable,
	}
	if s.maxUploadBytes <= 0 {
		s.maxUploadBytes = defaultMaxUploadBytes
	}
	if s.scorer == nil {
		s.scorer = ranking.LexicalScorer{}
	}
	if s.rankOptions.Logger == nil {
		s.rankOptions.Logger = log
	}
	if s.interviews == nil {
		s.interviews = interview.NewEngine(nil, interview.Config{Logger: log})
	}
	if s.jobdescs == nil {
		s.jobdescs = jobdesc.NewGenerator(nil, 0, log)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	// Job descriptions and ranking
	mux.HandleFunc("POST /generate-jd", s.handleGenerateJD)
	mux.HandleFunc("POST /rank", s.handleRank)

	// Interview sessions
	mux.HandleFunc("POST /api/interview/start", s.handleStartInterview)
	mux.HandleFunc("POST /api/interview/answer", s.handleSubmitAnswer)
	mux.HandleFunc("GET /api/interview/session/{id}", s.handleGetSession)
	mux.HandleFunc("POST /api/interview/end", s.handleEndInterview)
	mux.HandleFunc("GET /api/interview/results/{id}", s.handleInterviewResults)
	mux.HandleFunc("GET /api/interview/all-results", s.handleAllResults)

	// Stored documents
	mux.HandleFunc("POST /api/documents/{kind}/ingest", s.handleIngestDocuments)
	mux.HandleFunc("GET /api/documents/{kind}", s.handleListDocuments)
	mux.HandleFunc("GET /api/documents/{kind}/{id}/parsed", s.handleGetParsedDocument)

	s.handler = s.withRateLimit(s.withLogging(s.withCORS(mux)))

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // LLM-backed routes can be slow
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler returns the fully wrapped router
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start begins listening and blocks until SIGINT or SIGTERM
func (s *Server) Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.Run(ctx)
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		s.rateLimiter.Stop()
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.rateLimiter.Stop()
	s.logger.Info("server stopped")
	return nil
}

// Close releases background resources without serving
func (s *Server) Close() {
	s.rateLimiter.Stop()
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response code for logging
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("remote", r.RemoteAddr),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(extractClientID(r), r.URL.Path, r.Method)
		setRateLimitHeaders(w, info)

		if !allowed {
			s.rateLimitResponse(w, r, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"status": "ok",
		"ollama": s.llmAvailable,
		"llm":    s.llmAvailable,
	})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// writeError maps err to a status and writes its message
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", zap.Error(err))
	}
	s.errorResponse(w, status, err.Error())
}

// extractClientID uses the IP of RemoteAddr; forwarded headers are not trusted.
func extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
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
	}
	if !info.ResetTime.IsZero() {
		response["reset_at"] = info.ResetTime.Format(time.RFC3339)
	}

	if info.RetryAfter > 0 {
		secs := int(info.RetryAfter.Seconds())
		if secs < 1 {
			secs = 1
		}
		response["retry_after"] = secs
		w.Header().Set("Retry-After", strconv.Itoa(secs))
	}

	s.logger.Warn("rate limit exceeded",
		zap.String("client", extractClientID(r)),
		zap.String("path", r.URL.Path),
		zap.Int("limit", info.Limit),
	)

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
