package main

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/coder/websocket"

	"github.com/Ko-stant/hex-tactics-engine/internal/web/views"
)

// Server routes browser and API requests to running matches
type Server struct {
	ctx         context.Context
	matches     *MatchManager
	connections *ConnectionManager
	metrics     *PerformanceMetrics
	logger      Logger
}

// NewServer creates a server. Matches it creates live until ctx is
// cancelled or they are closed. metrics may be nil.
func NewServer(ctx context.Context, matches *MatchManager, connections *ConnectionManager, metrics *PerformanceMetrics, logger Logger) *Server {
	return &Server{
		ctx:         ctx,
		matches:     matches,
		connections: connections,
		metrics:     metrics,
		logger:      logger,
	}
}

func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /matches", s.handleCreateMatch)
	mux.HandleFunc("GET /match/{id}", s.handleBoard)
	mux.HandleFunc("DELETE /match/{id}", s.handleCloseMatch)
	mux.HandleFunc("GET /match/{id}/ws", s.handleStream)
}

// Start a fresh match and send the browser to it
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	session, err := s.matches.CreateMatch(s.ctx)
	if err != nil {
		s.logger.Printf("failed to create match: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/match/"+session.ID, http.StatusSeeOther)
}

func (s *Server) handleCreateMatch(w http.ResponseWriter, r *http.Request) {
	session, err := s.matches.CreateMatch(s.ctx)
	if err != nil {
		s.logger.Printf("failed to create match: %v", err)
		writeGameError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"id":       session.ID,
		"snapshot": session.Snapshot(),
	})
}

func (s *Server) handleBoard(w http.ResponseWriter, r *http.Request) {
	session, ok := s.matches.GetMatch(r.PathValue("id"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err := views.BoardPage(session.Snapshot()).Render(r.Context(), w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleCloseMatch(w http.ResponseWriter, r *http.Request) {
	if err := s.matches.CloseMatch(r.PathValue("id")); err != nil {
		writeGameError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleStream serves one client of a match. Patches from the match reach
// it through the match hub; snapshots and errors are replied to it alone.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	matchID := r.PathValue("id")
	session, ok := s.matches.GetMatch(matchID)
	if !ok {
		http.NotFound(w, r)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
	if err != nil {
		s.logger.Printf("websocket accept failed: %v", err)
		return
	}
	viewerID := s.connections.AddConnection(conn, matchID)
	session.Hub().Add(conn)
	s.logger.Printf("%s joined match %s", viewerID, matchID)

	defer func() {
		session.Hub().Remove(conn)
		s.connections.RemoveConnection(conn)
		conn.Close(websocket.StatusNormalClosure, "")
		s.logger.Printf("%s left match %s", viewerID, matchID)
	}()

	var engine MatchEngine = session
	if s.metrics != nil {
		engine = NewInstrumentedEngine(session, s.metrics)
	}
	reply := NewConnReplier(session.Hub(), conn, session.Sequence())
	handlers := NewIntentHandlers(engine, reply, s.logger)
	reply.BroadcastEvent("Snapshot", engine.Snapshot())

	for {
		_, data, err := conn.Read(r.Context())
		if err != nil {
			return
		}
		if err := handlers.HandleWebSocketMessage(data); err != nil {
			handlers.ReplyError(err)
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeGameError(w http.ResponseWriter, err error) {
	ge := toGameError(err)
	status := http.StatusBadRequest
	switch ge.Code {
	case "match_not_found", "unknown_combatant":
		status = http.StatusNotFound
	case "match_closed":
		status = http.StatusGone
	case "internal":
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, ge)
}
