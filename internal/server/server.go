// Package server provides the HTTP preview server for a generated site.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jonathan/pokedex/internal/db"
	"github.com/jonathan/pokedex/internal/ratelimit"
	"github.com/jonathan/pokedex/internal/typechart"
)

// RunLookup reads recorded generation runs. The Postgres store implements it.
type RunLookup interface {
	GetRun(ctx context.Context, id uuid.UUID) (*db.Run, error)
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	chart       *typechart.Chart
	runs        RunLookup
	rateLimiter *ratelimit.Limiter
	logger      zerolog.Logger
}

// Config holds server configuration
type Config struct {
	Port      int
	SiteDir   string
	Chart     *typechart.Chart // Defaults to typechart.Standard()
	Runs      RunLookup        // Optional: enables GET /api/runs/{id}
	RateLimit ratelimit.Config
	Logger    zerolog.Logger
}

// New creates a new server instance
func New(cfg Config) *Server {
	s := &Server{
		chart:       cfg.Chart,
		runs:        cfg.Runs,
		rateLimiter: ratelimit.NewLimiter(cfg.RateLimit),
		logger:      cfg.Logger,
	}
	if s.chart == nil {
		s.chart = typechart.Standard()
	}

	// Setup router
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /api/types", s.handleTypes)
	mux.HandleFunc("GET /api/matchup", s.handleMatchup)
	mux.HandleFunc("GET /api/runs/{id}", s.handleRun)
	mux.Handle("GET /", http.FileServer(http.Dir(cfg.SiteDir)))

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withRateLimit(s.withLogging(s.withCORS(mux))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler returns the fully wrapped request handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start listens until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	defer s.rateLimiter.Stop()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", ln.Addr().String()).Msg("server starting")
		errCh <- s.httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	<-errCh
	s.logger.Info().Msg("server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

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
		allowed, info := s.rateLimiter.Allow(s.extractClientID(r))

		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the status code written by a handler.
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
		s.logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("remote", r.RemoteAddr).
			Int("status", rec.status).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleTypes(w http.ResponseWriter, _ *http.Request) {
	names := make([]string, 0, typechart.NumCategories)
	for _, c := range typechart.All() {
		names = append(names, c.String())
	}
	s.jsonResponse(w, http.StatusOK, map[string][]string{"types": names})
}

// MatchupResponse is the body of GET /api/matchup.
type MatchupResponse struct {
	Defending   []string           `json:"defending"`
	Multipliers map[string]float64 `json:"multipliers"`
	Buckets     []BucketResponse   `json:"buckets"`
}

// BucketResponse is one weakness-table column.
type BucketResponse struct {
	Label      string   `json:"label"`
	Multiplier float64  `json:"multiplier"`
	Types      []string `json:"types"`
}

// handleMatchup answers ?types=fire,flying with the defending profile.
func (s *Server) handleMatchup(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("types")
	if raw == "" {
		s.errorFromErr(w, &ErrValidation{Field: "types", Message: "at least one type is required"})
		return
	}

	names := strings.Split(raw, ",")
	for i := range names {
		names[i] = strings.ToLower(strings.TrimSpace(names[i]))
	}
	defending, err := typechart.ParseCategories(names)
	if err != nil {
		s.errorFromErr(w, err)
		return
	}
	profile := s.chart.Effectiveness(defending)

	resp := MatchupResponse{Multipliers: profile.Map()}
	for _, c := range defending {
		resp.Defending = append(resp.Defending, c.String())
	}
	for _, b := range profile.Buckets() {
		types := make([]string, 0, len(b.Categories))
		for _, c := range b.Categories {
			types = append(types, c.String())
		}
		resp.Buckets = append(resp.Buckets, BucketResponse{Label: b.Label, Multiplier: b.Multiplier, Types: types})
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// RunResponse is the body of GET /api/runs/{id}.
type RunResponse struct {
	ID          string     `json:"id"`
	EntryCount  int        `json:"entry_count"`
	Status      string     `json:"status"`
	Fetches     int        `json:"fetches"`
	Hits        int        `json:"hits"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	if s.runs == nil {
		s.errorResponse(w, http.StatusNotFound, "run history is not recorded by this cache backend")
		return
	}
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorFromErr(w, &ErrValidation{Field: "id", Message: "not a UUID"})
		return
	}

	run, err := s.runs.GetRun(r.Context(), id)
	if err != nil {
		s.logger.Error().Err(err).Str("run_id", id.String()).Msg("failed to load run")
		s.errorResponse(w, http.StatusInternalServerError, "failed to load run")
		return
	}
	if run == nil {
		s.errorFromErr(w, &ErrRunNotFound{RunID: id})
		return
	}

	s.jsonResponse(w, http.StatusOK, RunResponse{
		ID:          run.ID.String(),
		EntryCount:  run.EntryCount,
		Status:      run.Status,
		Fetches:     run.Fetches,
		Hits:        run.Hits,
		StartedAt:   run.StartedAt,
		CompletedAt: run.CompletedAt,
	})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error().Err(err).Msg("error encoding JSON response")
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

func (s *Server) errorFromErr(w http.ResponseWriter, err error) {
	s.errorResponse(w, HTTPStatus(err), err.Error())
}

// extractClientID returns the client IP address
func (s *Server) extractClientID(r *http.Request) string {
	// Get IP from RemoteAddr (format: "IP:port")
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		// If parsing fails, use the whole RemoteAddr
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		response["retry_after"] = int(info.RetryAfter.Seconds())
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds())))
	}

	s.logger.Warn().
		Int("limit", info.Limit).
		Time("reset_at", info.ResetTime).
		Msg("rate limit exceeded")

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
