package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"

	"github.com/Ko-stant/hex-tactics-engine/internal/config"
	"github.com/Ko-stant/hex-tactics-engine/internal/protocol"
)

type testServer struct {
	*httptest.Server
	matches     *MatchManager
	connections *ConnectionManager
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	matches := NewMatchManager(config.Default(), &MockLogger{})
	connections := NewConnectionManager()

	mux := http.NewServeMux()
	NewServer(ctx, matches, connections, NewPerformanceMetrics(), &MockLogger{}).RegisterRoutes(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(func() {
		matches.CloseAll()
		srv.Close()
		cancel()
	})
	return &testServer{Server: srv, matches: matches, connections: connections}
}

func (ts *testServer) createMatch(t *testing.T) string {
	t.Helper()
	resp, err := http.Post(ts.URL+"/matches", "application/json", nil)
	if err != nil {
		t.Fatalf("POST /matches failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Expected 201, got %d", resp.StatusCode)
	}
	var body struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	return body.ID
}

type patch struct {
	Seq     uint64          `json:"seq"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func readPatch(t *testing.T, ctx context.Context, conn *websocket.Conn) patch {
	t.Helper()
	_, data, err := conn.Read(ctx)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	var p patch
	if err := json.Unmarshal(data, &p); err != nil {
		t.Fatalf("Failed to decode patch: %v", err)
	}
	return p
}

func TestServer_BoardPage(t *testing.T) {
	ts := newTestServer(t)
	id := ts.createMatch(t)

	resp, err := http.Get(ts.URL + "/match/" + id)
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(string(body), `data-match="`+id+`"`) {
		t.Error("Expected the board to carry the match id")
	}
}

func TestServer_IndexCreatesMatch(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("GET / failed: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected the redirect to land on the board, got %d", resp.StatusCode)
	}
	if !strings.HasPrefix(resp.Request.URL.Path, "/match/") {
		t.Errorf("Expected redirect to /match/{id}, got %s", resp.Request.URL.Path)
	}
	if len(ts.matches.ListMatches()) != 1 {
		t.Errorf("Expected 1 match, got %d", len(ts.matches.ListMatches()))
	}
}

func TestServer_UnknownMatch(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/match/nope")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", resp.StatusCode)
	}
}

func TestServer_DeleteMatch(t *testing.T) {
	ts := newTestServer(t)
	id := ts.createMatch(t)

	del := func() *http.Response {
		req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/match/"+id, nil)
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("DELETE failed: %v", err)
		}
		return resp
	}

	resp := del()
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("Expected 204, got %d", resp.StatusCode)
	}

	resp = del()
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("Expected 404, got %d", resp.StatusCode)
	}
	var ge GameError
	if err := json.NewDecoder(resp.Body).Decode(&ge); err != nil {
		t.Fatalf("Failed to decode error: %v", err)
	}
	if ge.Code != "match_not_found" {
		t.Errorf("Expected match_not_found, got %s", ge.Code)
	}
}

func TestServer_WebSocketFlow(t *testing.T) {
	ts := newTestServer(t)
	id := ts.createMatch(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/match/" + id + "/ws"
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	first := readPatch(t, ctx, conn)
	if first.Type != "Snapshot" {
		t.Fatalf("Expected Snapshot first, got %s", first.Type)
	}
	var snap protocol.Snapshot
	if err := json.Unmarshal(first.Payload, &snap); err != nil {
		t.Fatalf("Failed to decode snapshot: %v", err)
	}
	if snap.MatchID != id || snap.ActiveID != "hero-1" {
		t.Errorf("Unexpected snapshot: %s active %s", snap.MatchID, snap.ActiveID)
	}

	if counts := ts.connections.ViewerCounts(); counts[id] != 1 {
		t.Errorf("Expected 1 viewer, got %d", counts[id])
	}

	click, _ := json.Marshal(protocol.IntentEnvelope{Type: "RequestTileClick", Payload: json.RawMessage(`{"q":1,"r":1}`)})
	if err := conn.Write(ctx, websocket.MessageText, click); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	sel := readPatch(t, ctx, conn)
	if sel.Type != "SelectionChanged" {
		t.Fatalf("Expected SelectionChanged, got %s", sel.Type)
	}
	if sel.Seq <= first.Seq {
		t.Errorf("Expected sequence to increase, got %d after %d", sel.Seq, first.Seq)
	}
	if rng := readPatch(t, ctx, conn); rng.Type != "RangeChanged" {
		t.Fatalf("Expected RangeChanged, got %s", rng.Type)
	}

	if err := conn.Write(ctx, websocket.MessageText, []byte("{oops")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	reply := readPatch(t, ctx, conn)
	if reply.Type != "Error" {
		t.Fatalf("Expected Error reply, got %s", reply.Type)
	}
	var er protocol.ErrorReply
	_ = json.Unmarshal(reply.Payload, &er)
	if er.Code != "bad_request" {
		t.Errorf("Expected bad_request, got %s", er.Code)
	}
}
