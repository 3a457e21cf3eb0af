package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jonathan/pokedex/internal/db"
	"github.com/jonathan/pokedex/internal/ratelimit"
)

// mockRuns implements RunLookup for testing
type mockRuns struct {
	runs map[uuid.UUID]*db.Run
	err  error
}

func (m *mockRuns) GetRun(_ context.Context, runID uuid.UUID) (*db.Run, error) {
	if m.err != nil {
		return nil, m.err
	}
	run, ok := m.runs[runID]
	if !ok {
		return nil, nil
	}
	return run, nil
}

// newTestServer creates a server over a small site directory
func newTestServer(t *testing.T, runs RunLookup) *Server {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>Pokédex</h1>"), 0644); err != nil {
		t.Fatalf("failed to write index: %v", err)
	}
	s := New(Config{
		SiteDir:   dir,
		Runs:      runs,
		RateLimit: ratelimit.Config{Limit: 0},
		Logger:    zerolog.Nop(),
	})
	t.Cleanup(s.rateLimiter.Stop)
	return s
}

func get(s *Server, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

// TestHealthEndpoint tests the /health endpoint
func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t, nil)

	w := get(s, "/health")

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}

	if resp["status"] != "ok" {
		t.Errorf("expected status 'ok', got '%s'", resp["status"])
	}
}

func TestTypesEndpoint(t *testing.T) {
	s := newTestServer(t, nil)

	w := get(s, "/api/types")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp map[string][]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(resp["types"]) != 18 {
		t.Errorf("expected 18 types, got %d", len(resp["types"]))
	}
	if resp["types"][0] != "normal" || resp["types"][17] != "fairy" {
		t.Errorf("unexpected type order: %v", resp["types"])
	}
}

func TestMatchupEndpoint(t *testing.T) {
	s := newTestServer(t, nil)

	w := get(s, "/api/matchup?types=fire,flying")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp MatchupResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}

	if strings.Join(resp.Defending, "/") != "fire/flying" {
		t.Errorf("expected defending fire/flying, got %v", resp.Defending)
	}
	if resp.Multipliers["rock"] != 4 {
		t.Errorf("expected rock x4, got %v", resp.Multipliers["rock"])
	}
	if resp.Multipliers["ground"] != 0 {
		t.Errorf("expected ground x0, got %v", resp.Multipliers["ground"])
	}
	if len(resp.Buckets) != 6 {
		t.Fatalf("expected 6 buckets, got %d", len(resp.Buckets))
	}
	if resp.Buckets[5].Label != "4x" || strings.Join(resp.Buckets[5].Types, ",") != "rock" {
		t.Errorf("unexpected 4x bucket: %+v", resp.Buckets[5])
	}
}

func TestMatchupEndpoint_Errors(t *testing.T) {
	s := newTestServer(t, nil)

	tests := []struct {
		name   string
		target string
		want   string
	}{
		{"missing types", "/api/matchup", "at least one type is required"},
		{"unknown type", "/api/matchup?types=fire,shadow", "shadow"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(s, tt.target)
			if w.Code != http.StatusBadRequest {
				t.Errorf("expected status 400, got %d", w.Code)
			}
			if !strings.Contains(w.Body.String(), tt.want) {
				t.Errorf("expected body to mention %q, got %s", tt.want, w.Body.String())
			}
		})
	}
}

func TestRunEndpoint(t *testing.T) {
	runID := uuid.New()
	completed := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	runs := &mockRuns{runs: map[uuid.UUID]*db.Run{
		runID: {
			ID:          runID,
			EntryCount:  151,
			Status:      db.RunStatusCompleted,
			Fetches:     10,
			Hits:        300,
			StartedAt:   completed.Add(-time.Minute),
			CompletedAt: &completed,
		},
	}}
	s := newTestServer(t, runs)

	w := get(s, "/api/runs/"+runID.String())
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp RunResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.ID != runID.String() || resp.Status != db.RunStatusCompleted || resp.Hits != 300 {
		t.Errorf("unexpected run: %+v", resp)
	}
	if resp.CompletedAt == nil || !resp.CompletedAt.Equal(completed) {
		t.Errorf("expected completed_at %v, got %v", completed, resp.CompletedAt)
	}
}

func TestRunEndpoint_Errors(t *testing.T) {
	tests := []struct {
		name   string
		runs   RunLookup
		target string
		want   int
	}{
		{"no run history", nil, "/api/runs/" + uuid.NewString(), http.StatusNotFound},
		{"not found", &mockRuns{}, "/api/runs/" + uuid.NewString(), http.StatusNotFound},
		{"invalid id", &mockRuns{}, "/api/runs/not-a-uuid", http.StatusBadRequest},
		{"lookup failure", &mockRuns{err: errors.New("connection refused")}, "/api/runs/" + uuid.NewString(), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, tt.runs)
			w := get(s, tt.target)
			if w.Code != tt.want {
				t.Errorf("expected status %d, got %d", tt.want, w.Code)
			}
		})
	}
}

func TestStaticFiles(t *testing.T) {
	s := newTestServer(t, nil)

	w := get(s, "/index.html")
	if w.Code != http.StatusMovedPermanently && w.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", w.Code)
	}

	w = get(s, "/")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Pokédex") {
		t.Errorf("expected index page, got %s", w.Body.String())
	}

	w = get(s, "/missing.html")
	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/types", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Errorf("expected CORS header, got %q", w.Header().Get("Access-Control-Allow-Origin"))
	}
}

func TestRateLimit(t *testing.T) {
	s := New(Config{
		SiteDir:   t.TempDir(),
		RateLimit: ratelimit.Config{Limit: 2, Window: time.Hour, Burst: 2, CleanupInterval: time.Hour},
		Logger:    zerolog.Nop(),
	})
	t.Cleanup(s.rateLimiter.Stop)

	for i := 0; i < 2; i++ {
		w := get(s, "/health")
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: expected status 200, got %d", i+1, w.Code)
		}
		if w.Header().Get("X-RateLimit-Limit") != "2" {
			t.Errorf("expected X-RateLimit-Limit 2, got %q", w.Header().Get("X-RateLimit-Limit"))
		}
	}

	w := get(s, "/health")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected status 429, got %d", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Error("expected Retry-After header")
	}
	if !strings.Contains(w.Body.String(), "rate_limit_exceeded") {
		t.Errorf("unexpected body: %s", w.Body.String())
	}
}

func TestExtractClientID(t *testing.T) {
	s := &Server{}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:1234"
	if got := s.extractClientID(req); got != "192.0.2.1" {
		t.Errorf("expected 192.0.2.1, got %s", got)
	}

	req.RemoteAddr = "garbage"
	if got := s.extractClientID(req); got != "garbage" {
		t.Errorf("expected garbage, got %s", got)
	}
}

func TestServe_GracefulShutdown(t *testing.T) {
	s := newTestServer(t, nil)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/health")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected status 200, got %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("expected clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
