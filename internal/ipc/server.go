// Package ipc exposes the running bar over HTTP: health and variable
// inspection, a WebSocket feed of state diffs, and endpoints for poking
// variables and triggering block click commands.
package ipc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os/exec"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vk/grainbar/internal/config"
	"github.com/vk/grainbar/internal/ctxlog"
	"github.com/vk/grainbar/internal/placeholder"
	"github.com/vk/grainbar/internal/state"
)

const shutdownTimeout = 5 * time.Second

// Server is the IPC HTTP server. It implements state.Subscriber so every
// published diff is pushed to connected WebSocket clients.
type Server struct {
	cfg    *config.Model
	engine *state.Engine
	port   int

	upgrader websocket.Upgrader

	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}

	// runCommand is swappable in tests.
	runCommand func(ctx context.Context, command string)
}

// New creates the IPC server. Port zero or negative disables it; Run
// returns immediately in that case.
func New(cfg *config.Model, engine *state.Engine, port int) *Server {
	return &Server{
		cfg:        cfg,
		engine:     engine,
		port:       port,
		conns:      make(map[*websocket.Conn]struct{}),
		runCommand: runShell,
	}
}

// Handler returns the server's routes, exposed for tests.
func (s *Server) Handler(ctx context.Context) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth(ctx))
	mux.HandleFunc("/vars", s.handleVars(ctx))
	mux.HandleFunc("/poke", s.handlePoke(ctx))
	mux.HandleFunc("/click", s.handleClick(ctx))
	mux.HandleFunc("/ws", s.handleWS(ctx))
	return mux
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	if s.port <= 0 {
		logger.Debug("IPC server disabled.")
		return nil
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", s.port),
		Handler: s.Handler(ctx),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("IPC server starting.", "address", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("ipc server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.closeConns()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("IPC server shutdown failed.", "error", err)
		return err
	}
	logger.Debug("IPC server shut down gracefully.")
	return ctx.Err()
}

func (s *Server) handleHealth(ctx context.Context) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctxlog.FromContext(ctx).Debug("Health check endpoint hit.", "remote_addr", r.RemoteAddr)
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "OK")
	}
}

func (s *Server) handleVars(ctx context.Context) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		payload := struct {
			Vars  map[string]string `json:"vars"`
			Error string            `json:"error,omitempty"`
		}{Vars: s.engine.Vars()}
		if msg, ok := s.engine.BuildErrorMsg(); ok {
			payload.Error = msg
		}
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			ctxlog.FromContext(ctx).Warn("Failed to write vars response.", "error", err)
		}
	}
}

// pokeRequest sets one variable from outside, e.g. from a shell script that
// wants to flip a bar indicator.
type pokeRequest struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

func (s *Server) handlePoke(ctx context.Context) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "POST required", http.StatusMethodNotAllowed)
			return
		}
		var req pokeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
			http.Error(w, "body must be {\"name\": ..., \"value\": ...}", http.StatusBadRequest)
			return
		}
		update := state.Update{
			Entries: []state.UpdateEntry{{Var: req.Name, Value: req.Value}},
		}
		select {
		case s.engine.Updates() <- update:
			w.WriteHeader(http.StatusAccepted)
		case <-r.Context().Done():
			http.Error(w, "engine unavailable", http.StatusServiceUnavailable)
		}
	}
}

func (s *Server) handleClick(ctx context.Context) http.HandlerFunc {
	logger := ctxlog.FromContext(ctx)
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "POST required", http.StatusMethodNotAllowed)
			return
		}
		name := r.URL.Query().Get("block")
		blk, ok := s.cfg.Blocks[name]
		if !ok {
			http.Error(w, fmt.Sprintf("unknown block %q", name), http.StatusNotFound)
			return
		}
		command := blk.Common().OnClickCommand
		if command == "" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		resolved, err := placeholder.Interpolate(command, s.engine.Snapshot())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		logger.Debug("Running click command.", "block", name, "command", resolved)
		go s.runCommand(ctx, resolved)
		w.WriteHeader(http.StatusAccepted)
	}
}

func runShell(ctx context.Context, command string) {
	if err := exec.CommandContext(ctx, "sh", "-c", command).Run(); err != nil {
		ctxlog.FromContext(ctx).Warn("Click command failed.", "command", command, "error", err)
	}
}
