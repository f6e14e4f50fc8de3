package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
)

// DebugConfig holds debug mode configuration
type DebugConfig struct {
	Enabled           bool
	AllowStateChanges bool
	LogDebugActions   bool
}

// DebugSystem exposes match internals for development and testing
type DebugSystem struct {
	config      DebugConfig
	matches     *MatchManager
	connections *ConnectionManager
	logger      Logger
}

// NewDebugSystem creates a new debug system
func NewDebugSystem(config DebugConfig, matches *MatchManager, connections *ConnectionManager, logger Logger) *DebugSystem {
	return &DebugSystem{
		config:      config,
		matches:     matches,
		connections: connections,
		logger:      logger,
	}
}

// Debug API endpoints
func (ds *DebugSystem) RegisterDebugRoutes(mux *http.ServeMux) {
	if !ds.config.Enabled {
		return
	}

	mux.HandleFunc("GET /debug/matches", ds.handleListMatches)
	mux.HandleFunc("GET /debug/state", ds.handleGetState)
	mux.HandleFunc("POST /debug/end-turn", ds.handleForceEndTurn)
	mux.HandleFunc("POST /debug/remove", ds.handleRemoveCombatant)
}

// List every running match with its turn position and viewer count
func (ds *DebugSystem) handleListMatches(w http.ResponseWriter, r *http.Request) {
	if !ds.checkDebugEnabled(w) {
		return
	}

	viewers := ds.connections.ViewerCounts()
	matches := make([]map[string]any, 0)
	for _, id := range ds.matches.ListMatches() {
		session, ok := ds.matches.GetMatch(id)
		if !ok {
			continue
		}
		snap := session.Snapshot()
		matches = append(matches, map[string]any{
			"id":         id,
			"createdAt":  session.CreatedAt,
			"turn":       snap.Turn,
			"round":      snap.Round,
			"activeId":   snap.ActiveID,
			"playerTurn": snap.PlayerTurn,
			"viewers":    viewers[id],
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"matches":     matches,
		"connections": ds.connections.Count(),
		"debugConfig": ds.config,
	})
}

// Full snapshot of one match
func (ds *DebugSystem) handleGetState(w http.ResponseWriter, r *http.Request) {
	if !ds.checkDebugEnabled(w) {
		return
	}

	session, ok := ds.lookup(w, r.URL.Query().Get("match"))
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    session.Snapshot(),
	})
}

// End whatever turn is active, including an opponent's
func (ds *DebugSystem) handleForceEndTurn(w http.ResponseWriter, r *http.Request) {
	if !ds.checkDebugEnabled(w) || !ds.checkStateChangesAllowed(w) {
		return
	}

	matchID := r.URL.Query().Get("match")
	session, ok := ds.lookup(w, matchID)
	if !ok {
		return
	}
	before := session.Snapshot().ActiveID
	if err := session.ForceEndTurn(); err != nil {
		writeGameError(w, err)
		return
	}
	after := session.Snapshot().ActiveID

	ds.logDebugAction("force_end_turn", map[string]any{
		"matchId": matchID,
		"ended":   before,
		"next":    after,
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": fmt.Sprintf("Ended turn of %s, now %s", before, after),
	})
}

// Remove a combatant from a running match
func (ds *DebugSystem) handleRemoveCombatant(w http.ResponseWriter, r *http.Request) {
	if !ds.checkDebugEnabled(w) || !ds.checkStateChangesAllowed(w) {
		return
	}

	var req struct {
		MatchID     string `json:"matchId"`
		CombatantID string `json:"combatantId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	session, ok := ds.lookup(w, req.MatchID)
	if !ok {
		return
	}
	if err := session.RemoveCombatant(req.CombatantID); err != nil {
		writeGameError(w, err)
		return
	}

	ds.logDebugAction("remove_combatant", map[string]any{
		"matchId":     req.MatchID,
		"combatantId": req.CombatantID,
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": fmt.Sprintf("Removed %s", req.CombatantID),
	})
}

// Helper methods

func (ds *DebugSystem) lookup(w http.ResponseWriter, matchID string) (*MatchSession, bool) {
	if matchID == "" {
		http.Error(w, "Missing match id", http.StatusBadRequest)
		return nil, false
	}
	session, ok := ds.matches.GetMatch(matchID)
	if !ok {
		http.Error(w, "Match not found", http.StatusNotFound)
		return nil, false
	}
	return session, true
}

func (ds *DebugSystem) checkDebugEnabled(w http.ResponseWriter) bool {
	if !ds.config.Enabled {
		http.Error(w, "Debug mode not enabled", http.StatusForbidden)
		return false
	}
	return true
}

func (ds *DebugSystem) checkStateChangesAllowed(w http.ResponseWriter) bool {
	if !ds.config.AllowStateChanges {
		http.Error(w, "State changes not allowed", http.StatusForbidden)
		return false
	}
	return true
}

func (ds *DebugSystem) logDebugAction(actionType string, params map[string]any) {
	if ds.config.LogDebugActions {
		ds.logger.Printf("DEBUG ACTION: %s - %+v", actionType, params)
	}
}

// GetDebugConfigFromEnv creates debug config from environment variables
func GetDebugConfigFromEnv() DebugConfig {
	return DebugConfig{
		Enabled:           getEnvBool("DEBUG_MODE", false),
		AllowStateChanges: getEnvBool("DEBUG_ALLOW_STATE_CHANGES", true),
		LogDebugActions:   getEnvBool("DEBUG_LOG_ACTIONS", true),
	}
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	result, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return result
}
