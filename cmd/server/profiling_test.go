package main

import (
	"testing"

	"github.com/Ko-stant/hex-tactics-engine/internal/protocol"
)

func TestInstrumentedEngine_TracksCalls(t *testing.T) {
	engine := &MockMatchEngine{snapshot: protocol.Snapshot{MatchID: "m-1"}}
	metrics := NewPerformanceMetrics()
	ie := NewInstrumentedEngine(engine, metrics)

	_ = ie.TileClick(protocol.RequestTileClick{Q: 1, R: 1})
	_ = ie.TileClick(protocol.RequestTileClick{Q: 2, R: 1})
	_ = ie.EndTurn()
	_ = ie.BackgroundClick()
	if snap := ie.Snapshot(); snap.MatchID != "m-1" {
		t.Errorf("Expected snapshot to pass through, got %+v", snap)
	}

	if metrics.TileClicksProcessed != 2 {
		t.Errorf("Expected 2 tile clicks, got %d", metrics.TileClicksProcessed)
	}
	if metrics.TurnsEnded != 1 {
		t.Errorf("Expected 1 turn ended, got %d", metrics.TurnsEnded)
	}
	if metrics.SnapshotsBuilt != 1 {
		t.Errorf("Expected 1 snapshot, got %d", metrics.SnapshotsBuilt)
	}
	if len(engine.clicks) != 2 || engine.endTurnCalls != 1 || engine.backgroundCalls != 1 {
		t.Error("Expected every call to reach the wrapped engine")
	}
	if metrics.PeakGoroutines == 0 {
		t.Error("Expected system metrics to be sampled")
	}
}

func TestGetProfilingConfigFromEnv(t *testing.T) {
	t.Setenv("ENABLE_PROFILING", "true")
	t.Setenv("PPROF_PORT", "")
	t.Setenv("METRICS_REPORT_INTERVAL", "30s")

	cfg := GetProfilingConfigFromEnv()
	if !cfg.Enabled || cfg.Port != "42069" {
		t.Errorf("Unexpected config: %+v", cfg)
	}
	if cfg.ReportInterval.String() != "30s" {
		t.Errorf("Expected 30s report interval, got %v", cfg.ReportInterval)
	}
}
