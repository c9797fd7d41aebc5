// Package api exposes the tracker to a block host over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/junsooki/InputDetect/internal/extension"
	"github.com/junsooki/InputDetect/internal/input"
	"github.com/junsooki/InputDetect/internal/message"
	"github.com/junsooki/InputDetect/internal/tracker"
)

// Server serves the descriptor, block calls, and state snapshots, and
// accepts extension messages for the tracker.
type Server struct {
	tracker  *tracker.Tracker
	ext      *extension.Extension
	messages *message.Channel
	source   string
	token    string

	// StreamInterval is how often /api/stream pushes a snapshot.
	StreamInterval time.Duration
}

// NewServer creates an API server for t. Messages sent to /api/messages are
// posted on messages as coming from source, which should be the tracker's own
// context. An empty token disables auth.
func NewServer(t *tracker.Tracker, messages *message.Channel, source, token string) *Server {
	return &Server{
		tracker:        t,
		ext:            extension.New(t),
		messages:       messages,
		source:         source,
		token:          token,
		StreamInterval: 100 * time.Millisecond,
	}
}

// Handler returns the routed handler with auth and panic recovery.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /api/extension", s.handleExtension)
	mux.HandleFunc("GET /api/snapshot", s.handleSnapshot)
	mux.HandleFunc("POST /api/blocks/{opcode}", s.handleBlock)
	mux.HandleFunc("POST /api/messages", s.handleMessage)
	mux.HandleFunc("GET /api/stream", s.handleStream)
	return s.authMiddleware(s.recoverMiddleware(mux))
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("API server listening", "addr", ln.Addr().String())
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

func (s *Server) recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				slog.Error("API handler panic", "path", r.URL.Path, "panic", err)
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		slog.Debug("API request", "method", r.Method, "path", r.URL.Path, "remote", r.RemoteAddr)

		if r.URL.Path == "/health" || s.token == "" {
			next.ServeHTTP(w, r)
			return
		}
		if r.Header.Get("Authorization") != "Bearer "+s.token {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleExtension(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, extension.Describe())
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.tracker.Snapshot())
}

// handleBlock handles POST /api/blocks/{opcode} with a JSON object of
// string arguments. An empty body means no arguments.
func (s *Server) handleBlock(w http.ResponseWriter, r *http.Request) {
	opcode := r.PathValue("opcode")
	if !extension.Has(opcode) {
		http.Error(w, "Unknown block", http.StatusNotFound)
		return
	}

	args := extension.Args{}
	if err := json.NewDecoder(r.Body).Decode(&args); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "Invalid arguments", http.StatusBadRequest)
		return
	}

	value, _ := s.ext.Call(opcode, args)
	writeJSON(w, http.StatusOK, map[string]any{"value": value})
}

// handleMessage handles POST /api/messages with a {type, message} envelope.
// A missing type means an extension message.
func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	var env input.Envelope
	if err := json.NewDecoder(r.Body).Decode(&env); err != nil {
		http.Error(w, "Invalid message", http.StatusBadRequest)
		return
	}
	if env.Type == "" {
		env.Type = input.MessageTag
	}
	s.messages.Post(s.source, env)
	w.WriteHeader(http.StatusAccepted)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Debug("Write response failed", "error", err)
	}
}
