package main

import "github.com/Ko-stant/hex-tactics-engine/internal/protocol"

// Broadcaster interface for WebSocket communication
type Broadcaster interface {
	BroadcastEvent(eventType string, payload interface{})
}

// Logger interface for logging abstraction
type Logger interface {
	Printf(format string, v ...interface{})
}

// SequenceGenerator interface for sequence number generation
type SequenceGenerator interface {
	Next() uint64
}

// MatchEngine is the part of a match session the intent handlers drive
type MatchEngine interface {
	TileClick(req protocol.RequestTileClick) error
	BackgroundClick() error
	EndTurn() error
	Snapshot() protocol.Snapshot
}
