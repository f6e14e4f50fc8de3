package tactics

import (
	"fmt"

	"github.com/Ko-stant/hex-tactics-engine/internal/geometry"
	"github.com/Ko-stant/hex-tactics-engine/internal/movement"
)

// MovementPolicy decides how many points a move consumes
type MovementPolicy string

const (
	// Deduction spends the hex distance of the move, allowing several moves per turn
	Deduction MovementPolicy = "deduction"
	// Exhaust spends every remaining point on any move
	Exhaust MovementPolicy = "exhaust"
)

// ParseMovementPolicy accepts "" as Deduction
func ParseMovementPolicy(s string) (MovementPolicy, error) {
	switch MovementPolicy(s) {
	case "", Deduction:
		return Deduction, nil
	case Exhaust:
		return Exhaust, nil
	default:
		return "", fmt.Errorf("unknown movement policy %q", s)
	}
}

// SelectionState is Idle or Selected
type SelectionState int

const (
	Idle SelectionState = iota
	Selected
)

func (s SelectionState) String() string {
	if s == Selected {
		return "selected"
	}
	return "idle"
}

// Coordinator owns the selection state machine and executes moves
type Coordinator struct {
	board     *Board
	sequencer *TurnSequencer
	events    *Events
	logger    Logger
	policy    MovementPolicy

	selected    *Combatant
	highlighted movement.Range

	unsubscribe func()
}

// NewCoordinator wires the coordinator to the turn events. It clears the
// selection whenever a turn ends.
func NewCoordinator(board *Board, sequencer *TurnSequencer, events *Events, policy MovementPolicy, logger Logger) *Coordinator {
	if logger == nil {
		logger = nopLogger{}
	}
	if policy == "" {
		policy = Deduction
	}
	gc := &Coordinator{
		board:       board,
		sequencer:   sequencer,
		events:      events,
		logger:      logger,
		policy:      policy,
		highlighted: movement.EmptyRange(),
	}
	gc.unsubscribe = events.TurnEnd.Subscribe(func(c *Combatant) {
		if gc.selected == c {
			gc.deselect()
		}
	})
	return gc
}

// Detach stops listening to turn events
func (gc *Coordinator) Detach() {
	if gc.unsubscribe != nil {
		gc.unsubscribe()
		gc.unsubscribe = nil
	}
}

func (gc *Coordinator) State() SelectionState {
	if gc.selected == nil {
		return Idle
	}
	return Selected
}

func (gc *Coordinator) Selected() (*Combatant, bool) {
	return gc.selected, gc.selected != nil
}

// Highlighted returns the current move targets in a stable order
func (gc *Coordinator) Highlighted() []geometry.Hex {
	return gc.highlighted.Sorted()
}

func (gc *Coordinator) Policy() MovementPolicy {
	return gc.policy
}

// HandleTileClick routes a click on h to the selection or move rules
func (gc *Coordinator) HandleTileClick(h geometry.Hex) {
	if c := gc.board.At(h); c != nil {
		gc.clickCombatant(c)
		return
	}
	if gc.selected != nil {
		gc.clickTarget(h)
		return
	}
	gc.logger.Printf("DEBUG: click on empty tile %s with nothing selected", h)
}

// HandleBackgroundClick cancels any selection
func (gc *Coordinator) HandleBackgroundClick() {
	gc.deselect()
}

func (gc *Coordinator) playable(c *Combatant) bool {
	active, err := gc.sequencer.ActiveCombatant()
	return err == nil && active == c && c.Team == Player
}

func (gc *Coordinator) clickCombatant(c *Combatant) {
	if !gc.playable(c) {
		gc.logger.Printf("DEBUG: rejected selection of %s: not the acting player combatant", c.ID)
		return
	}
	if gc.selected == c {
		gc.deselect()
		return
	}
	gc.selected = c
	c.IsSelected = true
	gc.events.SelectionChanged.Emit(c)
	gc.refreshRange()
}

func (gc *Coordinator) clickTarget(h geometry.Hex) {
	c := gc.selected
	if !gc.playable(c) {
		gc.logger.Printf("WARN: %s is no longer playable, clearing selection", c.ID)
		gc.deselect()
		return
	}
	if !gc.highlighted.Has(h) || gc.board.At(h) != nil {
		gc.logger.Printf("DEBUG: %s is not a legal target for %s", h, c.ID)
		gc.deselect()
		return
	}
	if err := gc.MoveCombatant(c.ID, h); err != nil {
		gc.logger.Printf("WARN: move failed: %v", err)
		gc.deselect()
		return
	}
	if c.MovementPoints > 0 {
		gc.refreshRange()
		return
	}
	gc.deselect()
}

// MoveCombatant moves a combatant to a hex inside its reachable set and
// spends movement points according to the policy.
func (gc *Coordinator) MoveCombatant(id string, to geometry.Hex) error {
	c := gc.board.ByID(id)
	if c == nil {
		return fmt.Errorf("move %q: %w", id, ErrUnknownCombatant)
	}
	if !gc.board.CanReach(c, to) {
		return fmt.Errorf("move %s from %s to %s with %d points: %w", id, c.Position, to, c.MovementPoints, ErrIllegalMove)
	}

	from := c.Position
	cost := geometry.Distance(from, to)
	c.Position = to
	switch gc.policy {
	case Exhaust:
		c.SpendMovement(c.MovementPoints)
	default:
		c.SpendMovement(cost)
	}

	gc.logger.Printf("DEBUG: moved %s from %s to %s, %d points left", id, from, to, c.MovementPoints)
	gc.events.MoveExecuted.Emit(MoveEvent{Combatant: c, From: from, To: to, Cost: cost})
	return nil
}

// Refresh recomputes the highlighted range for the current selection
func (gc *Coordinator) Refresh() {
	if gc.selected != nil {
		gc.refreshRange()
	}
}

// Forget drops the selection if it refers to id
func (gc *Coordinator) Forget(id string) {
	if gc.selected != nil && gc.selected.ID == id {
		gc.deselect()
	}
}

func (gc *Coordinator) refreshRange() {
	gc.highlighted = gc.board.ReachableFrom(gc.selected)
	gc.events.RangeChanged.Emit(gc.highlighted.Sorted())
}

func (gc *Coordinator) deselect() {
	hadRange := gc.highlighted.Len() > 0
	gc.highlighted = movement.EmptyRange()
	if gc.selected != nil {
		gc.selected.IsSelected = false
		gc.selected = nil
		gc.events.SelectionChanged.Emit(nil)
	}
	if hadRange {
		gc.events.RangeChanged.Emit(nil)
	}
}
