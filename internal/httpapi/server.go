// Package httpapi exposes internal/engine's operations over a minimal
// net/http surface. It is not itself a user-facing delivery channel —
// just the entrypoint a runnable daemon needs — built on a ServeMux with
// Go's method+pattern routing, JSON request/response structs, and
// graceful shutdown on context cancellation.
package httpapi

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"time"

	"github.com/dailyspark/practiceengine/internal/curriculum"
	"github.com/dailyspark/practiceengine/internal/engine"
	"github.com/dailyspark/practiceengine/internal/errs"
	"github.com/dailyspark/practiceengine/internal/observability"
	"github.com/dailyspark/practiceengine/internal/resolver"
)

// Server wraps an *engine.Engine behind HTTP handlers. Structurer and
// Resolver are optional — when nil, their routes return a validation
// error rather than panicking, the same nil-safe-optional-dependency
// convention every other package in this module follows.
type Server struct {
	addr       string
	engine     *engine.Engine
	structurer *curriculum.Structurer
	resolver   *resolver.Resolver
	log        *observability.Logger

	srv      *http.Server
	listener net.Listener
	started  time.Time
}

// New constructs a Server. log, structurer, and resolver may all be nil.
func New(addr string, eng *engine.Engine, log *observability.Logger) *Server {
	return &Server{addr: addr, engine: eng, log: log}
}

// WithCurriculum attaches a curriculum structurer, enabling POST /curriculum.
func (s *Server) WithCurriculum(st *curriculum.Structurer) *Server {
	s.structurer = st
	return s
}

// WithResolver attaches an entity resolver, enabling POST /resolve.
func (s *Server) WithResolver(r *resolver.Resolver) *Server {
	s.resolver = r
	return s
}

func (s *Server) mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /goals", s.handleCreateGoal)
	mux.HandleFunc("POST /goals/{goalId}/quests", s.handleOnGoalCreated)
	mux.HandleFunc("GET /goals/{goalId}/progress", s.handleGetPathProgress)
	mux.HandleFunc("POST /goals/{goalId}/priority", s.handleSetGoalPriority)
	mux.HandleFunc("POST /goals/{goalId}/pause", s.handlePauseGoal)
	mux.HandleFunc("POST /goals/{goalId}/resume", s.handleResumeGoal)
	mux.HandleFunc("GET /users/{userId}/today", s.handleGetTodayForUser)
	mux.HandleFunc("POST /sparks/{sparkId}/complete", s.handleMarkSparkComplete)
	mux.HandleFunc("POST /sparks/{sparkId}/skip", s.handleSkipSpark)
	mux.HandleFunc("POST /drills/{drillId}/outcome", s.handleRecordDrillOutcome)
	mux.HandleFunc("POST /skills/{skillId}/difficulty", s.handleRateDifficulty)
	mux.HandleFunc("POST /curriculum", s.handleGenerateCurriculum)
	mux.HandleFunc("POST /resolve", s.handleResolveEntities)
	return mux
}

// Start launches the HTTP server and blocks until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	s.started = time.Now()
	s.srv = &http.Server{
		Addr:              s.addr,
		Handler:           s.mux(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.listener = ln

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.srv.Shutdown(shutdownCtx)
	}()

	if err := s.srv.Serve(ln); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Addr returns the listener's actual address, useful when addr was ":0".
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

// Stop gracefully stops the HTTP server.
func (s *Server) Stop() error {
	if s.srv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.srv.Shutdown(ctx)
}

func (s *Server) logWarn(msg string, args ...any) {
	if s.log != nil {
		s.log.Warn(msg, args...)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// writeError maps a taxonomized *errs.Error to an HTTP status: this is the
// one place the transport-agnostic Kind taxonomy touches HTTP semantics.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	kind := errs.KindOf(err)
	status := http.StatusInternalServerError
	switch kind {
	case errs.KindValidation:
		status = http.StatusBadRequest
	case errs.KindNotFound:
		status = http.StatusNotFound
	case errs.KindVersionConflict:
		status = http.StatusConflict
	case errs.KindInvalidTransition:
		status = http.StatusConflict
	case errs.KindRateLimited:
		status = http.StatusTooManyRequests
	case errs.KindGenerationFailed:
		status = http.StatusBadGateway
	}
	if status == http.StatusInternalServerError {
		s.logWarn("unclassified handler error", "error", err.Error())
	}
	writeJSON(w, status, errorResponse{Error: err.Error(), Kind: string(kind)})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"uptime": time.Since(s.started).String(),
	})
}
