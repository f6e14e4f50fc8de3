package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Ko-stant/hex-tactics-engine/internal/config"
	"github.com/Ko-stant/hex-tactics-engine/internal/tactics"
	"github.com/Ko-stant/hex-tactics-engine/internal/ws"
)

const tickInterval = 20 * time.Millisecond

// MatchManager creates, finds and tears down independent matches
type MatchManager struct {
	cfg      config.Config
	sessions map[string]*MatchSession
	logger   Logger
	mutex    sync.RWMutex
}

// NewMatchManager creates a manager that builds matches from cfg
func NewMatchManager(cfg config.Config, logger Logger) *MatchManager {
	return &MatchManager{
		cfg:      cfg,
		sessions: make(map[string]*MatchSession),
		logger:   logger,
	}
}

// loadRoster returns a fresh roster per match since combatants are mutable
func (mm *MatchManager) loadRoster() ([]*tactics.Combatant, error) {
	if mm.cfg.Roster == "" {
		return tactics.DevRoster(), nil
	}
	roster, err := tactics.LoadRoster(mm.cfg.Roster, mm.cfg.Grid)
	if err != nil {
		return nil, fmt.Errorf("failed to load roster %s: %w", mm.cfg.Roster, err)
	}
	return roster, nil
}

func (mm *MatchManager) newRand() *rand.Rand {
	if mm.cfg.AI.Seed == 0 {
		return nil
	}
	return rand.New(rand.NewPCG(mm.cfg.AI.Seed, mm.cfg.AI.Seed))
}

// CreateMatch starts a new match and its host loop
func (mm *MatchManager) CreateMatch(ctx context.Context) (*MatchSession, error) {
	policy, err := tactics.ParseMovementPolicy(mm.cfg.Movement.Policy)
	if err != nil {
		return nil, err
	}
	roster, err := mm.loadRoster()
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	match := tactics.NewMatch(tactics.Options{
		Bounds:   mm.cfg.Grid,
		AIDelay:  mm.cfg.AI.Delay,
		HandSize: mm.cfg.Hand.Size,
		Policy:   policy,
		Rand:     mm.newRand(),
		Logger:   mm.logger,
	})
	hub := ws.NewHub()
	sequence := NewSequenceGenerator()
	broadcaster := NewBroadcaster(hub, sequence)

	session, err := NewMatchSession(id, match, hub, sequence, broadcaster, mm.cfg.HexSize, roster, mm.logger)
	if err != nil {
		match.Close()
		return nil, fmt.Errorf("failed to start match: %w", err)
	}
	session.Start(ctx, tickInterval)

	mm.mutex.Lock()
	mm.sessions[id] = session
	mm.mutex.Unlock()

	mm.logger.Printf("match %s created with %d combatants", id, len(roster))
	return session, nil
}

func (mm *MatchManager) GetMatch(id string) (*MatchSession, bool) {
	mm.mutex.RLock()
	defer mm.mutex.RUnlock()

	s, ok := mm.sessions[id]
	return s, ok
}

// ListMatches returns match ids, oldest first
func (mm *MatchManager) ListMatches() []string {
	mm.mutex.RLock()
	sessions := make([]*MatchSession, 0, len(mm.sessions))
	for _, s := range mm.sessions {
		sessions = append(sessions, s)
	}
	mm.mutex.RUnlock()

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].CreatedAt.Before(sessions[j].CreatedAt)
	})
	ids := make([]string, len(sessions))
	for i, s := range sessions {
		ids[i] = s.ID
	}
	return ids
}

// CloseMatch tears a match down and forgets it
func (mm *MatchManager) CloseMatch(id string) error {
	mm.mutex.Lock()
	s, ok := mm.sessions[id]
	delete(mm.sessions, id)
	mm.mutex.Unlock()

	if !ok {
		return &GameError{Code: "match_not_found", Message: fmt.Sprintf("no match %s", id)}
	}
	s.Close()
	return nil
}

// CloseAll tears down every match, e.g. on shutdown
func (mm *MatchManager) CloseAll() {
	for _, id := range mm.ListMatches() {
		_ = mm.CloseMatch(id)
	}
}
