package tactics

import (
	"fmt"
	"slices"
	"sort"
)

// TurnSequencer orders combatants by initiative and drives whose turn it is.
// It is Uninitialized while the order is empty and Active otherwise.
type TurnSequencer struct {
	events      *Events
	logger      Logger
	replenisher Replenisher

	order  []*Combatant
	cursor int
	turn   int
	round  int
}

// NewTurnSequencer creates an uninitialized sequencer. replenisher may be nil.
func NewTurnSequencer(events *Events, replenisher Replenisher, logger Logger) *TurnSequencer {
	if logger == nil {
		logger = nopLogger{}
	}
	return &TurnSequencer{
		events:      events,
		logger:      logger,
		replenisher: replenisher,
	}
}

// Initialize sorts combatants by initiative, highest first, keeping roster
// order for ties, and starts the first combatant's turn.
func (ts *TurnSequencer) Initialize(combatants []*Combatant) error {
	for _, c := range ts.order {
		c.IsActingNow = false
	}
	ts.order = nil
	ts.cursor = 0
	ts.turn = 0
	ts.round = 0

	if len(combatants) == 0 {
		return fmt.Errorf("initialize turn order: %w", ErrEmptyRoster)
	}

	ts.order = sortByInitiative(combatants)
	for _, c := range ts.order {
		c.IsActingNow = false
	}
	ts.round = 1

	ts.logger.Printf("DEBUG: turn order initialized: %v", ts.Order())
	ts.events.OrderInitialized.Emit(ts.Order())
	ts.beginTurn()
	return nil
}

func sortByInitiative(combatants []*Combatant) []*Combatant {
	order := slices.Clone(combatants)
	sort.SliceStable(order, func(i, j int) bool {
		return order[i].Initiative > order[j].Initiative
	})
	return order
}

// ActiveCombatant returns the combatant whose turn it is
func (ts *TurnSequencer) ActiveCombatant() (*Combatant, error) {
	if len(ts.order) == 0 {
		return nil, ErrUninitialized
	}
	return ts.order[ts.cursor], nil
}

// IsControlledByPlayer reports whether the active combatant is on the player's team
func (ts *TurnSequencer) IsControlledByPlayer() bool {
	c, err := ts.ActiveCombatant()
	return err == nil && c.Team == Player
}

// EndTurn resets the outgoing combatant, advances the cursor circularly and
// starts the next turn. With an empty order it only logs a warning.
func (ts *TurnSequencer) EndTurn() error {
	if len(ts.order) == 0 {
		ts.logger.Printf("WARN: cannot end turn: no combatants in turn order")
		return nil
	}

	ts.finishTurn(ts.order[ts.cursor])

	ts.cursor = (ts.cursor + 1) % len(ts.order)
	if ts.cursor == 0 {
		ts.round++
	}
	ts.beginTurn()
	return nil
}

func (ts *TurnSequencer) finishTurn(c *Combatant) {
	c.ResetMovement()
	c.IsActingNow = false
	c.IsSelected = false
	if ts.replenisher != nil {
		ts.replenisher.Return(c)
	}
	ts.logger.Printf("DEBUG: ended turn for %s, movement reset to %d", c.ID, c.MaxMovementPoints)
	ts.events.TurnEnd.Emit(c)
}

func (ts *TurnSequencer) beginTurn() {
	c := ts.order[ts.cursor]
	ts.turn++
	c.IsActingNow = true
	if ts.replenisher != nil {
		ts.replenisher.Replenish(c)
	}
	ts.logger.Printf("DEBUG: started turn %d for %s", ts.turn, c.ID)
	ts.events.TurnStart.Emit(c)
}

// Remove takes a combatant out of the order. If it was acting, its turn
// ends and the next combatant in order starts.
func (ts *TurnSequencer) Remove(id string) error {
	idx := slices.IndexFunc(ts.order, func(c *Combatant) bool { return c.ID == id })
	if idx < 0 {
		return fmt.Errorf("remove %q from turn order: %w", id, ErrUnknownCombatant)
	}

	removed := ts.order[idx]
	wasActive := idx == ts.cursor
	if wasActive {
		ts.finishTurn(removed)
	}

	ts.order = slices.Delete(ts.order, idx, idx+1)
	if idx < ts.cursor {
		ts.cursor--
	}

	if len(ts.order) == 0 {
		ts.cursor = 0
		ts.logger.Printf("WARN: turn order is empty after removing %s", id)
		ts.events.OrderInitialized.Emit(ts.Order())
		return nil
	}
	if ts.cursor >= len(ts.order) {
		ts.cursor = 0
		ts.round++
	}

	ts.events.OrderInitialized.Emit(ts.Order())
	if wasActive {
		ts.beginTurn()
	}
	return nil
}

// Reset returns the sequencer to the uninitialized state
func (ts *TurnSequencer) Reset() {
	for _, c := range ts.order {
		c.IsActingNow = false
	}
	ts.order = nil
	ts.cursor = 0
	ts.turn = 0
	ts.round = 0
}

// Order returns the combatant ids in turn order
func (ts *TurnSequencer) Order() []string {
	ids := make([]string, len(ts.order))
	for i, c := range ts.order {
		ids[i] = c.ID
	}
	return ids
}

// Combatants returns the combatants in turn order
func (ts *TurnSequencer) Combatants() []*Combatant {
	return slices.Clone(ts.order)
}

func (ts *TurnSequencer) Cursor() int {
	return ts.cursor
}

// TurnNumber counts every turn started since Initialize, starting at 1
func (ts *TurnSequencer) TurnNumber() int {
	return ts.turn
}

// Round counts passes through the whole order, starting at 1
func (ts *TurnSequencer) Round() int {
	return ts.round
}
