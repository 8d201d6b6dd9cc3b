package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/theyonatan/multiverse/pkg/log"
	"github.com/theyonatan/multiverse/pkg/logbus"
	"github.com/theyonatan/multiverse/pkg/supervisor"
	"github.com/theyonatan/multiverse/pkg/types"
)

const (
	// DefaultListenAddr is where the control plane binds.
	DefaultListenAddr = "127.0.0.1:3000"
	// DefaultLogLimit is the /logs window when no limit is given.
	DefaultLogLimit = 100
)

// userActor labels externally triggered events in the log feed.
const userActor = "user"

// Server is the HTTP/JSON control plane over the fleet.
type Server struct {
	supervisor *supervisor.Supervisor
	ring       *logbus.Ring
	bus        *logbus.Bus
	logger     zerolog.Logger
	httpServer *http.Server
}

// NewServer builds the control plane for the given address.
func NewServer(sup *supervisor.Supervisor, ring *logbus.Ring, bus *logbus.Bus, addr string) *Server {
	if addr == "" {
		addr = DefaultListenAddr
	}
	s := &Server{
		supervisor: sup,
		ring:       ring,
		bus:        bus,
		logger:     log.WithComponent("api"),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /universes", s.handleList)
	mux.HandleFunc("POST /universes", s.handleCreate)
	mux.HandleFunc("POST /universes/{name}/resume", s.handleResume)
	mux.HandleFunc("POST /universes/{name}/pause", s.handlePause)
	mux.HandleFunc("POST /universes/{name}/collapse", s.handleCollapse)
	mux.HandleFunc("POST /universes/{name}/events/shatter", s.handleShatter)
	mux.HandleFunc("POST /universes/{name}/events/heal", s.handleHeal)
	mux.HandleFunc("POST /universes/{name}/events/crash", s.handleCrash)
	mux.HandleFunc("GET /universes/{name}/state", s.handleState)
	mux.HandleFunc("GET /logs", s.handleLogs)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.withObservability(mux),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	return s
}

// Start serves until Stop is called. Blocks; run it in a goroutine.
func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.httpServer.Addr).Msg("Control plane listening")
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Stop gracefully shuts the control plane down.
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the routed handler for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

type createRequest struct {
	Name string `json:"name"`
}

type strengthRequest struct {
	Strength int `json:"strength"`
}

// logEntryJSON is the wire form of a feed entry.
type logEntryJSON struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	names := s.supervisor.List()
	writeJSON(w, http.StatusOK, map[string][]string{"universes": names})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed JSON body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "universe name must not be empty")
		return
	}

	if err := s.supervisor.Create(req.Name); err != nil {
		var taken supervisor.ErrNameTaken
		if errors.As(err, &taken) {
			writeError(w, http.StatusBadRequest, taken.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.bus.UserAction(userActor, "created", req.Name)
	writeJSON(w, http.StatusCreated, map[string]string{"name": req.Name})
}

// dispatch routes a command and narrates the user action, but only when
// the name resolved: a command to a ghost leaves nothing behind but the
// supervisor's own info log.
func (s *Server) dispatch(name, action string, cmd types.Command) {
	if s.supervisor.SendCommand(name, cmd) {
		s.bus.UserAction(userActor, action, name)
	}
}

func (s *Server) handleResume(w http.ResponseWriter, r *http.Request) {
	s.dispatch(r.PathValue("name"), "resumed", types.Start())
	writeJSON(w, http.StatusOK, nil)
}

func (s *Server) handlePause(w http.ResponseWriter, r *http.Request) {
	s.dispatch(r.PathValue("name"), "paused", types.Stop())
	writeJSON(w, http.StatusOK, nil)
}

func (s *Server) handleCollapse(w http.ResponseWriter, r *http.Request) {
	s.dispatch(r.PathValue("name"), "collapsed", types.Shutdown())
	writeJSON(w, http.StatusOK, nil)
}

func (s *Server) handleShatter(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeStrength(w, r)
	if !ok {
		return
	}
	s.dispatch(r.PathValue("name"), "shattered", types.InjectEvent(types.Shatter(req.Strength)))
	writeJSON(w, http.StatusOK, nil)
}

func (s *Server) handleHeal(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeStrength(w, r)
	if !ok {
		return
	}
	s.dispatch(r.PathValue("name"), "healed", types.InjectEvent(types.Heal(req.Strength)))
	writeJSON(w, http.StatusOK, nil)
}

func (s *Server) handleCrash(w http.ResponseWriter, r *http.Request) {
	s.dispatch(r.PathValue("name"), "crashed", types.InjectEvent(types.Crash()))
	writeJSON(w, http.StatusOK, nil)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	s.supervisor.SendCommand(name, types.RequestState())
	writeJSON(w, http.StatusOK, nil)
}

func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	limit := DefaultLogLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	entries := s.ring.Tail(limit)
	out := make([]logEntryJSON, 0, len(entries))
	for _, e := range entries {
		out = append(out, logEntryJSON{Level: string(e.Level), Message: e.Message})
	}
	writeJSON(w, http.StatusOK, out)
}

func decodeStrength(w http.ResponseWriter, r *http.Request) (strengthRequest, bool) {
	var req strengthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed JSON body")
		return req, false
	}
	return req, true
}
