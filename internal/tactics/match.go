// Package tactics runs a turn-based skirmish on a hex board: turn order,
// selection and movement, and the computer opponent.
package tactics

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/Ko-stant/hex-tactics-engine/internal/geometry"
)

// Options configures a Match
type Options struct {
	Bounds   geometry.GridBounds
	AIDelay  time.Duration
	// HandSize of zero means DefaultHandSize
	HandSize int
	Policy   MovementPolicy
	Rand     *rand.Rand
	Clock    TimeProvider
	Logger   Logger
}

// Match is one independent game: the board, the turn sequencer, the
// coordinator, the AI agent and the scheduler that paces it. Every inbound
// call runs to completion under a single lock. Listeners on Events run
// while that lock is held and must not call back into the Match.
type Match struct {
	mu     sync.Mutex
	closed bool

	events      *Events
	board       *Board
	scheduler   *Scheduler
	sequencer   *TurnSequencer
	coordinator *Coordinator
	agent       *Agent
	logger      Logger
}

// NewMatch builds an uninitialized match
func NewMatch(opts Options) *Match {
	if opts.Logger == nil {
		opts.Logger = nopLogger{}
	}
	if opts.Bounds.Size() == 0 {
		opts.Bounds = geometry.DevBounds()
	}
	if opts.HandSize == 0 {
		opts.HandSize = DefaultHandSize
	}

	events := &Events{}
	board := NewBoard(opts.Bounds, nil)
	scheduler := NewScheduler(opts.Clock)
	dealer := NewCardDealer(events, opts.HandSize, opts.Logger)
	sequencer := NewTurnSequencer(events, dealer, opts.Logger)
	coordinator := NewCoordinator(board, sequencer, events, opts.Policy, opts.Logger)
	agent := NewAgent(board, sequencer, coordinator, scheduler, events, opts.AIDelay, opts.Rand, opts.Logger)

	return &Match{
		events:      events,
		board:       board,
		scheduler:   scheduler,
		sequencer:   sequencer,
		coordinator: coordinator,
		agent:       agent,
		logger:      opts.Logger,
	}
}

// Events exposes the outbound signals. Subscribe before Initialize to see
// the first OrderInitialized and TurnStart.
func (m *Match) Events() *Events {
	return m.events
}

// Initialize places the roster and starts the first turn. Pending AI steps
// from an earlier initialization are dropped.
func (m *Match) Initialize(roster []*Combatant) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrMatchClosed
	}
	m.scheduler.CancelAll()
	m.coordinator.HandleBackgroundClick()
	m.board.Reset(roster)
	return m.sequencer.Initialize(roster)
}

func (m *Match) HandleTileClick(h geometry.Hex) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrMatchClosed
	}
	m.coordinator.HandleTileClick(h)
	return nil
}

func (m *Match) HandleBackgroundClick() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrMatchClosed
	}
	m.coordinator.HandleBackgroundClick()
	return nil
}

// EndTurn ends the active turn
func (m *Match) EndTurn() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrMatchClosed
	}
	return m.sequencer.EndTurn()
}

// EndPlayerTurn ends the active turn only if a player controls it
func (m *Match) EndPlayerTurn() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrMatchClosed
	}
	if _, err := m.sequencer.ActiveCombatant(); err != nil {
		return err
	}
	if !m.sequencer.IsControlledByPlayer() {
		return ErrNotPlayerTurn
	}
	return m.sequencer.EndTurn()
}

// RemoveCombatant takes a combatant off the board and out of the turn order
func (m *Match) RemoveCombatant(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrMatchClosed
	}
	if m.board.ByID(id) == nil {
		return fmt.Errorf("remove %q: %w", id, ErrUnknownCombatant)
	}
	m.coordinator.Forget(id)
	m.board.Remove(id)
	if err := m.sequencer.Remove(id); err != nil {
		return err
	}
	m.coordinator.Refresh()
	return nil
}

// Tick runs the AI steps due by now and reports how many ran
func (m *Match) Tick(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return 0
	}
	return m.scheduler.RunDue(now)
}

// Settle runs up to limit pending steps without waiting for their delay.
// Matches with only AI combatants never run dry, hence the limit.
func (m *Match) Settle(limit int) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	ran := 0
	for !m.closed && ran < limit && m.scheduler.RunNext() {
		ran++
	}
	return ran
}

// NextDue reports when the next AI step becomes due
func (m *Match) NextDue() (time.Time, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.scheduler.NextDue()
}

// Close cancels pending AI steps and drops every listener. Any later call
// returns ErrMatchClosed.
func (m *Match) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}
	m.closed = true
	n := m.scheduler.CancelAll()
	m.agent.Detach()
	m.coordinator.Detach()
	m.sequencer.Reset()
	m.events.Clear()
	m.logger.Printf("DEBUG: match closed, %d pending steps cancelled", n)
}

func (m *Match) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.closed
}

// State is a point-in-time copy of a match
type State struct {
	Bounds      geometry.GridBounds
	Order       []string
	Cursor      int
	TurnNumber  int
	Round       int
	ActiveID    string
	PlayerTurn  bool
	SelectedID  string
	Highlighted []geometry.Hex
	Combatants  []Combatant
	PendingAI   int
}

// Snapshot copies the current state. Combatants are listed in turn order.
func (m *Match) Snapshot() State {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := State{
		Bounds:      m.board.Bounds,
		Order:       m.sequencer.Order(),
		Cursor:      m.sequencer.Cursor(),
		TurnNumber:  m.sequencer.TurnNumber(),
		Round:       m.sequencer.Round(),
		PlayerTurn:  m.sequencer.IsControlledByPlayer(),
		Highlighted: m.coordinator.Highlighted(),
		PendingAI:   m.scheduler.Len(),
	}
	if active, err := m.sequencer.ActiveCombatant(); err == nil {
		s.ActiveID = active.ID
	}
	if sel, ok := m.coordinator.Selected(); ok {
		s.SelectedID = sel.ID
	}
	for _, c := range m.sequencer.Combatants() {
		s.Combatants = append(s.Combatants, c.Clone())
	}
	return s
}
