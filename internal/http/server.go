package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"finsight/internal/cache"
	"finsight/internal/core"
	"finsight/internal/services"
)

// InsightAPI is the slice of the insight service the server needs.
type InsightAPI interface {
	GenerateInsights(ctx context.Context, userID string) ([]core.Insight, error)
	GetInsightsForUser(ctx context.Context, userID string) ([]core.Insight, error)
	GetInsightByID(ctx context.Context, id, userID string) (core.Insight, error)
}

// ResourceStore covers the transaction, budget, and goal endpoints.
type ResourceStore interface {
	CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error)
	ListTransactions(ctx context.Context, userID string, filter services.TransactionFilter) ([]core.Transaction, error)
	CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error)
	ListBudgets(ctx context.Context, userID string) ([]core.Budget, error)
	CreateGoal(ctx context.Context, g core.Goal) (core.Goal, error)
	ListGoals(ctx context.Context, userID string) ([]core.Goal, error)
}

// GeneratePublisher queues insight regeneration for async processing. Nil
// means the server generates inline instead.
type GeneratePublisher interface {
	PublishInsightGenerate(ctx context.Context, userID string) error
}

type Server struct {
	http.Server
	insights    InsightAPI
	resources   ResourceStore
	publisher   GeneratePublisher
	rateLimiter *rateLimiter

	// Per-user insight list cache, invalidated on generation.
	insightCache *cache.LRU[[]core.Insight]

	stopCacheSweep chan struct{}
	shutdownOnce   sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server. publisher may be nil.
func NewServer(addr string, insights InsightAPI, resources ResourceStore, publisher GeneratePublisher, cacheTTL time.Duration) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		insights:       insights,
		resources:      resources,
		publisher:      publisher,
		rateLimiter:    newRateLimiter(),
		insightCache:   cache.NewLRU[[]core.Insight](500, cacheTTL),
		stopCacheSweep: make(chan struct{}),
	}

	go s.startCacheSweep()

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)

	mux.HandleFunc("GET /insights", s.withMiddleware(s.handleListInsights))
	mux.HandleFunc("GET /insights/{id}", s.withMiddleware(s.handleGetInsight))
	mux.HandleFunc("POST /insights/generate", s.withMiddleware(s.handleGenerateInsights))

	mux.HandleFunc("POST /transactions", s.withMiddleware(s.handleCreateTransaction))
	mux.HandleFunc("GET /transactions", s.withMiddleware(s.handleListTransactions))
	mux.HandleFunc("POST /budgets", s.withMiddleware(s.handleCreateBudget))
	mux.HandleFunc("GET /budgets", s.withMiddleware(s.handleListBudgets))
	mux.HandleFunc("POST /goals", s.withMiddleware(s.handleCreateGoal))
	mux.HandleFunc("GET /goals", s.withMiddleware(s.handleListGoals))

	return s
}

func (s *Server) startCacheSweep() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if cleaned := s.insightCache.Sweep(); cleaned > 0 {
				slog.Debug("Insight cache sweep completed", "entries_removed", cleaned)
			}
		case <-s.stopCacheSweep:
			return
		}
	}
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.stopCacheSweep != nil {
			close(s.stopCacheSweep)
		}
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

type ctxKey string

const requestIDKey ctxKey = "request_id"

// withMiddleware adds security headers, rate limiting, request logging, and
// the user id check shared by all API endpoints.
func (s *Server) withMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Extract client IP (considering proxies)
		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"client_ip", clientIP,
			"user_agent", r.Header.Get("User-Agent"))

		if r.Method == http.MethodPost && !s.rateLimiter.allow(clientIP) {
			slog.WarnContext(ctx, "Rate limit exceeded", "client_ip", clientIP, "method", r.Method, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			respondError(w, http.StatusTooManyRequests, "rate limit exceeded, try again later")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		if userIDFrom(r) == "" {
			respondError(w, http.StatusUnauthorized, "missing "+userIDHeader+" header")
			return
		}

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		duration := time.Since(start)
		slog.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds(),
			"client_ip", clientIP)
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
