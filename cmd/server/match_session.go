package main

import (
	"context"
	"sync"
	"time"

	"github.com/Ko-stant/hex-tactics-engine/internal/geometry"
	"github.com/Ko-stant/hex-tactics-engine/internal/protocol"
	"github.com/Ko-stant/hex-tactics-engine/internal/tactics"
	"github.com/Ko-stant/hex-tactics-engine/internal/ws"
)

// MatchSession is one running match plus the clients watching it
type MatchSession struct {
	ID        string
	CreatedAt time.Time

	match       *tactics.Match
	hub         *ws.Hub
	broadcaster Broadcaster
	sequence    SequenceGenerator
	logger      Logger
	hexSize     float64

	cancel    context.CancelFunc
	closeOnce sync.Once
}

// NewMatchSession forwards the match's events to broadcaster and then
// starts the match with roster.
func NewMatchSession(id string, match *tactics.Match, hub *ws.Hub, sequence SequenceGenerator, broadcaster Broadcaster, hexSize float64, roster []*tactics.Combatant, logger Logger) (*MatchSession, error) {
	s := &MatchSession{
		ID:          id,
		CreatedAt:   time.Now(),
		match:       match,
		hub:         hub,
		broadcaster: broadcaster,
		sequence:    sequence,
		logger:      logger,
		hexSize:     hexSize,
		cancel:      func() {},
	}
	s.bridgeEvents()
	if err := match.Initialize(roster); err != nil {
		return nil, err
	}
	return s, nil
}

// bridgeEvents turns engine signals into patch broadcasts. The listeners run
// under the match lock so they only read the values handed to them.
func (s *MatchSession) bridgeEvents() {
	events := s.match.Events()

	events.OrderInitialized.Subscribe(func(order []string) {
		s.broadcaster.BroadcastEvent("OrderInitialized", protocol.OrderInitialized{Order: order})
	})
	events.TurnStart.Subscribe(func(c *tactics.Combatant) {
		s.broadcaster.BroadcastEvent("TurnStarted", protocol.TurnStarted{
			CombatantID:    c.ID,
			PlayerTurn:     c.Team == tactics.Player,
			MovementPoints: c.MovementPoints,
		})
	})
	events.TurnEnd.Subscribe(func(c *tactics.Combatant) {
		s.broadcaster.BroadcastEvent("TurnEnded", protocol.TurnEnded{
			CombatantID:  c.ID,
			MovementLeft: c.MovementPoints,
		})
	})
	events.SelectionChanged.Subscribe(func(c *tactics.Combatant) {
		payload := protocol.SelectionChanged{}
		if c != nil {
			payload.CombatantID = c.ID
		}
		s.broadcaster.BroadcastEvent("SelectionChanged", payload)
	})
	events.MoveExecuted.Subscribe(func(e tactics.MoveEvent) {
		s.broadcaster.BroadcastEvent("MoveExecuted", protocol.MoveExecuted{
			CombatantID:  e.Combatant.ID,
			From:         e.From,
			To:           e.To,
			Cost:         e.Cost,
			MovementLeft: e.Combatant.MovementPoints,
		})
	})
	events.RangeChanged.Subscribe(func(hexes []geometry.Hex) {
		if hexes == nil {
			hexes = []geometry.Hex{}
		}
		s.broadcaster.BroadcastEvent("RangeChanged", protocol.RangeChanged{Hexes: hexes})
	})
	events.CardsDrawn.Subscribe(func(e tactics.CardEvent) {
		s.broadcaster.BroadcastEvent("CardsDrawn", cardsChanged(e))
	})
	events.CardsReturned.Subscribe(func(e tactics.CardEvent) {
		s.broadcaster.BroadcastEvent("CardsReturned", cardsChanged(e))
	})
}

func cardsChanged(e tactics.CardEvent) protocol.CardsChanged {
	return protocol.CardsChanged{
		CombatantID: e.Combatant.ID,
		Cards:       toCardLites(e.Cards),
		HandSize:    len(e.Combatant.Hand),
	}
}

// Start launches the host loop that advances the match's scheduled AI
// steps until ctx is cancelled or the session is closed.
func (s *MatchSession) Start(ctx context.Context, interval time.Duration) {
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	go s.run(ctx, interval)
}

func (s *MatchSession) run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.match.Tick(now)
		}
	}
}

func (s *MatchSession) TileClick(req protocol.RequestTileClick) error {
	return s.match.HandleTileClick(geometry.Hex{Q: req.Q, R: req.R})
}

func (s *MatchSession) BackgroundClick() error {
	return s.match.HandleBackgroundClick()
}

// EndTurn ends the turn on behalf of the player. Opponent turns end on
// their own.
func (s *MatchSession) EndTurn() error {
	return s.match.EndPlayerTurn()
}

// ForceEndTurn ends whatever turn is active
func (s *MatchSession) ForceEndTurn() error {
	return s.match.EndTurn()
}

// RemoveCombatant takes a combatant off the board and out of the turn order
func (s *MatchSession) RemoveCombatant(id string) error {
	return s.match.RemoveCombatant(id)
}

func (s *MatchSession) Snapshot() protocol.Snapshot {
	return toSnapshot(s.ID, s.match.Snapshot(), s.hexSize)
}

func (s *MatchSession) Hub() *ws.Hub {
	return s.hub
}

// Sequence numbers every patch sent for this match, broadcast or reply
func (s *MatchSession) Sequence() SequenceGenerator {
	return s.sequence
}

// Close stops the host loop, tears the match down and disconnects clients
func (s *MatchSession) Close() {
	s.closeOnce.Do(func() {
		s.cancel()
		s.match.Close()
		s.hub.CloseAll("match closed")
		s.logger.Printf("match %s closed", s.ID)
	})
}

func toSnapshot(id string, state tactics.State, hexSize float64) protocol.Snapshot {
	snap := protocol.Snapshot{
		MatchID:         id,
		Rows:            state.Bounds.Rows,
		Cols:            state.Bounds.Cols,
		HexSize:         hexSize,
		Turn:            state.TurnNumber,
		Round:           state.Round,
		ActiveID:        state.ActiveID,
		PlayerTurn:      state.PlayerTurn,
		SelectedID:      state.SelectedID,
		Order:           state.Order,
		Highlighted:     state.Highlighted,
		Combatants:      make([]protocol.CombatantLite, 0, len(state.Combatants)),
		ProtocolVersion: protocol.Version,
	}
	for _, c := range state.Combatants {
		snap.Combatants = append(snap.Combatants, protocol.CombatantLite{
			ID:                c.ID,
			Name:              c.Name,
			Team:              string(c.Team),
			Hex:               c.Position,
			Offset:            geometry.AxialToOffset(c.Position),
			MovementPoints:    c.MovementPoints,
			MaxMovementPoints: c.MaxMovementPoints,
			Initiative:        c.Initiative,
			IsSelected:        c.IsSelected,
			IsActingNow:       c.IsActingNow,
			SpritePath:        c.SpritePath,
			Hand:              toCardLites(c.Hand),
		})
	}
	return snap
}

func toCardLites(cards []tactics.Card) []protocol.CardLite {
	out := make([]protocol.CardLite, 0, len(cards))
	for _, c := range cards {
		out = append(out, protocol.CardLite{ID: c.ID, Name: c.Name})
	}
	return out
}
