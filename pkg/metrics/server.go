package metrics

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// Server exposes /metrics and /healthz on a dedicated listener, separate
// from the control plane.
type Server struct {
	httpServer *http.Server
	startTime  time.Time
}

// NewServer creates a metrics server for the given address.
func NewServer(addr string) *Server {
	s := &Server{startTime: time.Now()}

	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	mux.HandleFunc("/healthz", s.healthzHandler)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	return s
}

// Start serves until Stop is called. Blocks; run it in a goroutine.
func (s *Server) Start() error {
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Stop gracefully shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) healthzHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status": "alive",
		"uptime": time.Since(s.startTime).String(),
	})
}
