package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Ko-stant/hex-tactics-engine/internal/config"
)

func newDebugFixture(t *testing.T, cfg DebugConfig) (*http.ServeMux, *MatchSession, *MockLogger) {
	t.Helper()
	settings := config.Default()
	settings.AI.Delay = time.Minute
	matches := NewMatchManager(settings, &MockLogger{})
	t.Cleanup(matches.CloseAll)
	session, err := matches.CreateMatch(context.Background())
	if err != nil {
		t.Fatalf("CreateMatch failed: %v", err)
	}

	logger := &MockLogger{}
	mux := http.NewServeMux()
	NewDebugSystem(cfg, matches, NewConnectionManager(), logger).RegisterDebugRoutes(mux)
	return mux, session, logger
}

func enabledDebugConfig() DebugConfig {
	return DebugConfig{Enabled: true, AllowStateChanges: true, LogDebugActions: true}
}

func TestDebugSystem_DisabledRegistersNothing(t *testing.T) {
	mux, _, _ := newDebugFixture(t, DebugConfig{})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/matches", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 with debug disabled, got %d", rec.Code)
	}
}

func TestDebugSystem_CheckDebugEnabled(t *testing.T) {
	ds := NewDebugSystem(DebugConfig{}, nil, NewConnectionManager(), &MockLogger{})

	rec := httptest.NewRecorder()
	if ds.checkDebugEnabled(rec) {
		t.Fatal("Expected debug to be reported disabled")
	}
	if rec.Code != http.StatusForbidden {
		t.Errorf("Expected 403, got %d", rec.Code)
	}
}

func TestDebugSystem_ListMatches(t *testing.T) {
	mux, session, _ := newDebugFixture(t, enabledDebugConfig())

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/matches", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var body struct {
		Matches []struct {
			ID       string `json:"id"`
			ActiveID string `json:"activeId"`
			Viewers  int    `json:"viewers"`
		} `json:"matches"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode: %v", err)
	}
	if len(body.Matches) != 1 || body.Matches[0].ID != session.ID {
		t.Fatalf("Expected match %s, got %+v", session.ID, body.Matches)
	}
	if body.Matches[0].ActiveID != "hero-1" || body.Matches[0].Viewers != 0 {
		t.Errorf("Unexpected entry: %+v", body.Matches[0])
	}
}

func TestDebugSystem_State(t *testing.T) {
	mux, session, _ := newDebugFixture(t, enabledDebugConfig())

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/state?match="+session.ID, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/state", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 without a match id, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/state?match=nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for an unknown match, got %d", rec.Code)
	}
}

func TestDebugSystem_ForceEndTurn(t *testing.T) {
	mux, session, logger := newDebugFixture(t, enabledDebugConfig())

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/debug/end-turn?match="+session.ID, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := session.Snapshot().ActiveID; got != "enemy-1" {
		t.Errorf("Expected enemy-1 active, got %s", got)
	}
	if !logger.Contains("DEBUG ACTION: force_end_turn") {
		t.Error("Expected the action to be logged")
	}
}

func TestDebugSystem_StateChangesDisallowed(t *testing.T) {
	cfg := enabledDebugConfig()
	cfg.AllowStateChanges = false
	mux, session, _ := newDebugFixture(t, cfg)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/debug/end-turn?match="+session.ID, nil))
	if rec.Code != http.StatusForbidden {
		t.Errorf("Expected 403, got %d", rec.Code)
	}
	if got := session.Snapshot().ActiveID; got != "hero-1" {
		t.Errorf("Expected hero-1 still active, got %s", got)
	}
}

func TestDebugSystem_RemoveCombatant(t *testing.T) {
	mux, session, _ := newDebugFixture(t, enabledDebugConfig())

	body, _ := json.Marshal(map[string]string{"matchId": session.ID, "combatantId": "enemy-1"})
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/debug/remove", bytes.NewReader(body)))
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if _, ok := session.Snapshot().Combatant("enemy-1"); ok {
		t.Error("Expected enemy-1 to be removed")
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/debug/remove", bytes.NewReader(body)))
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 removing twice, got %d", rec.Code)
	}
}

func TestGetDebugConfigFromEnv(t *testing.T) {
	t.Setenv("DEBUG_MODE", "true")
	t.Setenv("DEBUG_ALLOW_STATE_CHANGES", "nonsense")
	t.Setenv("DEBUG_LOG_ACTIONS", "false")

	cfg := GetDebugConfigFromEnv()
	if !cfg.Enabled {
		t.Error("Expected debug enabled")
	}
	if !cfg.AllowStateChanges {
		t.Error("Expected an unparsable value to fall back to the default")
	}
	if cfg.LogDebugActions {
		t.Error("Expected action logging disabled")
	}
}
