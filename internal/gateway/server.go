// Package gateway exposes the intake engine over HTTP and WebSocket.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sidgajraj/caseline/internal/config"
	"github.com/sidgajraj/caseline/internal/intake"
	"github.com/sidgajraj/caseline/internal/logging"
	"github.com/sidgajraj/caseline/internal/store"
	"github.com/sidgajraj/caseline/internal/version"
)

// turnTimeout caps one conversational turn, including both inference calls.
const turnTimeout = 5 * time.Minute

// CaseLister reads back persisted cases for the listing endpoint.
type CaseLister interface {
	ListCases(ctx context.Context, limit int) ([]store.CaseRow, error)
}

// Server is the caseline HTTP + WebSocket server.
type Server struct {
	cfg        config.GatewayConfig
	engine     *intake.Engine
	cases      CaseLister
	log        *logging.Logger
	mux        *http.ServeMux
	httpServer *http.Server
	upgrader   websocket.Upgrader
}

// New creates a gateway server around an intake engine. cases may be nil,
// which disables the case listing endpoint.
func New(cfg config.GatewayConfig, engine *intake.Engine, cases CaseLister, log *logging.Logger) *Server {
	s := &Server{
		cfg:    cfg,
		engine: engine,
		cases:  cases,
		log:    log.Sub("gateway"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /api/chat", s.handleChat)
	mux.HandleFunc("POST /api/import", s.handleImport)
	mux.HandleFunc("GET /api/sessions", s.handleSessions)
	mux.HandleFunc("GET /api/cases", s.handleCases)
	mux.HandleFunc("GET /ws", s.handleWebSocket)
	s.mux = mux

	return s
}

// Handler returns the server's HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.mux }

// Start listens and serves until Shutdown.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Bind, s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.log.Info().Str("addr", addr).Msg("gateway listening")
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	s.log.Info().Msg("gateway shutting down")
	return s.httpServer.Shutdown(ctx)
}

type chatRequest struct {
	SessionID string `json:"sessionId,omitempty"`
	Text      string `json:"text"`
}

type importRequest struct {
	Text string `json:"text"`
}

type sessionView struct {
	ID        string            `json:"id"`
	State     string            `json:"state"`
	Record    map[string]string `json:"record"`
	Committed bool              `json:"committed"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": version.Version,
	})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), turnTimeout)
	defer cancel()

	result := s.engine.HandleTurn(ctx, req.SessionID, req.Text)
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	var req importRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), turnTimeout)
	defer cancel()

	saved := s.engine.ImportFragment(ctx, req.Text)
	writeJSON(w, http.StatusOK, map[string]bool{"saved": saved})
}

func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	views := make([]sessionView, 0)
	for _, snap := range s.engine.Sessions().SnapshotAll() {
		views = append(views, sessionView{
			ID:        snap.ID,
			State:     string(snap.State),
			Record:    snap.Record,
			Committed: snap.Committed,
		})
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleCases(w http.ResponseWriter, r *http.Request) {
	if s.cases == nil {
		writeError(w, http.StatusNotFound, "case listing not available")
		return
	}

	cases, err := s.cases.ListCases(r.Context(), 0)
	if err != nil {
		s.log.Error().Err(err).Msg("listing cases failed")
		writeError(w, http.StatusInternalServerError, "failed to list cases")
		return
	}
	if cases == nil {
		cases = []store.CaseRow{}
	}
	writeJSON(w, http.StatusOK, cases)
}

// handleWebSocket runs a chat loop over a socket: each client message is a
// chatRequest, each reply a TurnResult.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	s.log.Debug().Str("remote", r.RemoteAddr).Msg("websocket client connected")

	for {
		var req chatRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Debug().Err(err).Msg("websocket read failed")
			}
			return
		}
		if req.Text == "" {
			continue
		}

		ctx, cancel := context.WithTimeout(r.Context(), turnTimeout)
		result := s.engine.HandleTurn(ctx, req.SessionID, req.Text)
		cancel()

		if err := conn.WriteJSON(result); err != nil {
			s.log.Debug().Err(err).Msg("websocket write failed")
			return
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
