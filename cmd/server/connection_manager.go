package main

import (
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
)

// ConnectionInfo tracks a WebSocket connection and the match it watches
type ConnectionInfo struct {
	Conn        *websocket.Conn
	ViewerID    string
	MatchID     string
	ConnectedAt time.Time
}

// ConnectionManager manages WebSocket connections across matches
type ConnectionManager struct {
	connections map[*websocket.Conn]*ConnectionInfo
	mutex       sync.RWMutex
}

// NewConnectionManager creates a new connection manager
func NewConnectionManager() *ConnectionManager {
	return &ConnectionManager{
		connections: make(map[*websocket.Conn]*ConnectionInfo),
	}
}

// AddConnection registers a connection for a match and returns its viewer ID
func (cm *ConnectionManager) AddConnection(conn *websocket.Conn, matchID string) string {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()

	viewerID := generateViewerID()
	cm.connections[conn] = &ConnectionInfo{
		Conn:        conn,
		ViewerID:    viewerID,
		MatchID:     matchID,
		ConnectedAt: time.Now(),
	}
	return viewerID
}

// RemoveConnection removes a connection and returns its viewer ID
func (cm *ConnectionManager) RemoveConnection(conn *websocket.Conn) string {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()

	info, exists := cm.connections[conn]
	if !exists {
		return ""
	}
	delete(cm.connections, conn)
	return info.ViewerID
}

// GetInfo returns what is known about a connection
func (cm *ConnectionManager) GetInfo(conn *websocket.Conn) (ConnectionInfo, bool) {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()

	info, exists := cm.connections[conn]
	if !exists {
		return ConnectionInfo{}, false
	}
	return *info, true
}

// ViewerCounts returns the number of connections per match
func (cm *ConnectionManager) ViewerCounts() map[string]int {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()

	counts := make(map[string]int)
	for _, info := range cm.connections {
		counts[info.MatchID]++
	}
	return counts
}

// Count returns the number of open connections
func (cm *ConnectionManager) Count() int {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()
	return len(cm.connections)
}

// generateViewerID creates a unique viewer ID
func generateViewerID() string {
	return "viewer-" + uuid.NewString()
}
