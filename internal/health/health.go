// Package health provides the liveness and readiness endpoints.
//
// /healthz answers 200 as long as the process is serving HTTP. /readyz
// answers 200 only once every transport has been started, and 503 before
// that or while shutting down. Readiness changes are also pushed to any
// registered listeners, e.g. the gRPC health service.
package health

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nadzzz/orpheusdemo/internal/message"
)

// Status is the body of both endpoints.
type Status struct {
	Status  string  `json:"status"`
	Mode    string  `json:"mode"`
	Model   string  `json:"model"`
	UptimeS float64 `json:"uptime_s"`
}

// Server is a lightweight HTTP server that exposes /healthz and /readyz.
type Server struct {
	port    int
	started time.Time
	ready   atomic.Bool
	server  *http.Server

	mu        sync.Mutex
	listeners []func(bool)
}

// New creates a new health check server.
func New(port int) *Server {
	return &Server{port: port, started: time.Now()}
}

// OnReady registers fn to be called on every readiness change.
func (s *Server) OnReady(fn func(ready bool)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// SetReady marks the daemon as ready (or not) to accept traffic.
func (s *Server) SetReady(ready bool) {
	s.ready.Store(ready)

	s.mu.Lock()
	listeners := append([]func(bool){}, s.listeners...)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(ready)
	}
}

// Ready reports the current readiness.
func (s *Server) Ready() bool { return s.ready.Load() }

// Handler returns the router serving both endpoints.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		s.write(w, http.StatusOK, "ok")
	})

	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		if !s.ready.Load() {
			s.write(w, http.StatusServiceUnavailable, "not_ready")
			return
		}
		s.write(w, http.StatusOK, "ok")
	})

	return mux
}

func (s *Server) write(w http.ResponseWriter, code int, status string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(Status{
		Status:  status,
		Mode:    "demo",
		Model:   message.ModelName,
		UptimeS: time.Since(s.started).Round(time.Millisecond).Seconds(),
	})
}

// ListenAndServe starts the health check HTTP server.
// It blocks until the context is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	slog.Info("health server listening", "port", s.port)

	go func() {
		<-ctx.Done()
		s.SetReady(false)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	if err := s.server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("health server: %w", err)
	}
	return nil
}
