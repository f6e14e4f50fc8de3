package tactics

import (
	"errors"
	"slices"
	"testing"
)

func newTestSequencer() (*TurnSequencer, *Events, *MockLogger) {
	events := &Events{}
	logger := &MockLogger{}
	return NewTurnSequencer(events, NewCardDealer(events, DefaultHandSize, logger), logger), events, logger
}

func TestTurnSequencer_Uninitialized(t *testing.T) {
	ts, _, logger := newTestSequencer()

	if _, err := ts.ActiveCombatant(); !errors.Is(err, ErrUninitialized) {
		t.Errorf("Expected ErrUninitialized, got %v", err)
	}
	if ts.IsControlledByPlayer() {
		t.Error("Expected no player control before initialization")
	}
	if err := ts.EndTurn(); err != nil {
		t.Errorf("Expected EndTurn on an empty order to be a no-op, got %v", err)
	}
	if !logger.Contains("WARN: cannot end turn") {
		t.Errorf("Expected a warning to be logged, got %v", logger.messages)
	}
	if err := ts.Initialize(nil); !errors.Is(err, ErrEmptyRoster) {
		t.Errorf("Expected ErrEmptyRoster, got %v", err)
	}
	if _, err := ts.ActiveCombatant(); !errors.Is(err, ErrUninitialized) {
		t.Errorf("Expected sequencer to stay uninitialized, got %v", err)
	}
}

func TestTurnSequencer_StableInitiativeOrder(t *testing.T) {
	ts, _, _ := newTestSequencer()
	roster := []*Combatant{
		NewCombatant("slow", "Slow", Player, at(0, 0), 2, 2),
		NewCombatant("tie-1", "Tie 1", Opponent, at(1, 0), 5, 2),
		NewCombatant("fast", "Fast", Player, at(2, 0), 9, 2),
		NewCombatant("tie-2", "Tie 2", Player, at(3, 0), 5, 2),
		NewCombatant("tie-3", "Tie 3", Opponent, at(4, 0), 5, 2),
	}

	if err := ts.Initialize(roster); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	want := []string{"fast", "tie-1", "tie-2", "tie-3", "slow"}
	if !slices.Equal(ts.Order(), want) {
		t.Errorf("Expected order %v, got %v", want, ts.Order())
	}
	if roster[0].ID != "slow" {
		t.Error("Expected the caller's roster slice to be left untouched")
	}
}

func TestTurnSequencer_InitializeStartsFirstTurn(t *testing.T) {
	ts, events, _ := newTestSequencer()
	rec := newRecorder(events)
	roster := []*Combatant{
		NewCombatant("b", "B", Opponent, at(5, 5), 4, 2),
		NewCombatant("a", "A", Player, at(0, 0), 6, 2),
	}

	if err := ts.Initialize(roster); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	acting := 0
	for _, c := range roster {
		if c.IsActingNow {
			acting++
		}
	}
	if acting != 1 {
		t.Errorf("Expected exactly one acting combatant, got %d", acting)
	}
	active, err := ts.ActiveCombatant()
	if err != nil || active.ID != "a" {
		t.Fatalf("Expected a to be active, got %v (%v)", active, err)
	}
	if !active.IsActingNow {
		t.Error("Expected order[0] to be acting")
	}

	want := []string{"OrderInitialized:a,b", "TurnStart:a"}
	if !slices.Equal(rec.log, want) {
		t.Errorf("Expected events %v, got %v", want, rec.log)
	}
	if ts.TurnNumber() != 1 || ts.Round() != 1 || ts.Cursor() != 0 {
		t.Errorf("Expected turn 1 round 1 cursor 0, got %d %d %d", ts.TurnNumber(), ts.Round(), ts.Cursor())
	}
}

func TestTurnSequencer_TwoCombatantCycle(t *testing.T) {
	ts, _, _ := newTestSequencer()
	a := NewCombatant("A", "A", Player, at(0, 0), 6, 2)
	b := NewCombatant("B", "B", Opponent, at(3, 3), 4, 2)

	if err := ts.Initialize([]*Combatant{a, b}); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if !slices.Equal(ts.Order(), []string{"A", "B"}) {
		t.Fatalf("Expected order [A B], got %v", ts.Order())
	}
	if !ts.IsControlledByPlayer() {
		t.Error("Expected A's turn to be player controlled")
	}

	ts.EndTurn()
	if active, _ := ts.ActiveCombatant(); active != b {
		t.Errorf("Expected B after one EndTurn, got %s", active.ID)
	}
	if ts.IsControlledByPlayer() {
		t.Error("Expected B's turn not to be player controlled")
	}

	ts.EndTurn()
	if active, _ := ts.ActiveCombatant(); active != a {
		t.Errorf("Expected A after two EndTurns, got %s", active.ID)
	}
	if ts.Cursor() != 0 || ts.Round() != 2 || ts.TurnNumber() != 3 {
		t.Errorf("Expected cursor 0 round 2 turn 3, got %d %d %d", ts.Cursor(), ts.Round(), ts.TurnNumber())
	}
	if b.IsActingNow || !a.IsActingNow {
		t.Error("Expected only A to be acting")
	}
}

func TestTurnSequencer_ResetBeforeAdvance(t *testing.T) {
	ts, events, _ := newTestSequencer()
	a := NewCombatant("A", "A", Player, at(0, 0), 6, 3)
	b := NewCombatant("B", "B", Opponent, at(3, 3), 4, 2)
	ts.Initialize([]*Combatant{a, b})

	a.MovementPoints = 0
	a.IsSelected = true

	var observed []string
	events.TurnEnd.Subscribe(func(c *Combatant) {
		if c.MovementPoints != c.MaxMovementPoints {
			t.Errorf("Expected %s to be reset before TurnEnd, has %d points", c.ID, c.MovementPoints)
		}
		if c.IsActingNow || c.IsSelected {
			t.Errorf("Expected %s to be inactive and deselected at TurnEnd", c.ID)
		}
		active, _ := ts.ActiveCombatant()
		if active != c {
			t.Errorf("Expected cursor to still be on %s during TurnEnd", c.ID)
		}
		observed = append(observed, "end:"+c.ID)
	})
	events.TurnStart.Subscribe(func(c *Combatant) {
		if a.MovementPoints != 3 {
			t.Errorf("Expected outgoing combatant reset before TurnStart")
		}
		observed = append(observed, "start:"+c.ID)
	})

	ts.EndTurn()

	want := []string{"end:A", "start:B"}
	if !slices.Equal(observed, want) {
		t.Errorf("Expected %v, got %v", want, observed)
	}
}

func TestTurnSequencer_CursorWraps(t *testing.T) {
	ts, _, _ := newTestSequencer()
	roster := []*Combatant{
		NewCombatant("a", "A", Player, at(0, 0), 3, 2),
		NewCombatant("b", "B", Player, at(1, 0), 2, 2),
		NewCombatant("c", "C", Player, at(2, 0), 1, 2),
	}
	ts.Initialize(roster)

	var seen []string
	for range 7 {
		active, _ := ts.ActiveCombatant()
		seen = append(seen, active.ID)
		ts.EndTurn()
	}

	want := []string{"a", "b", "c", "a", "b", "c", "a"}
	if !slices.Equal(seen, want) {
		t.Errorf("Expected %v, got %v", want, seen)
	}
	if ts.Round() != 3 {
		t.Errorf("Expected round 3, got %d", ts.Round())
	}
}

func TestTurnSequencer_DrawsAndReturnsCards(t *testing.T) {
	ts, events, _ := newTestSequencer()
	var drawn, returned []CardEvent
	events.CardsDrawn.Subscribe(func(e CardEvent) { drawn = append(drawn, e) })
	events.CardsReturned.Subscribe(func(e CardEvent) { returned = append(returned, e) })

	a := NewCombatant("A", "A", Player, at(0, 0), 6, 2)
	b := NewCombatant("B", "B", Opponent, at(3, 3), 4, 2)
	ts.Initialize([]*Combatant{a, b})

	if len(a.Hand) != DefaultHandSize || len(a.Deck) != 5-DefaultHandSize {
		t.Fatalf("Expected A to hold %d cards, has hand %d deck %d", DefaultHandSize, len(a.Hand), len(a.Deck))
	}
	if a.Hand[0].ID != "attack-basic" {
		t.Errorf("Expected cards drawn from the top of the deck, got %s", a.Hand[0].ID)
	}
	if len(drawn) != 1 || drawn[0].Combatant != a {
		t.Fatalf("Expected one CardsDrawn for A, got %v", drawn)
	}
	if len(b.Hand) != 0 {
		t.Error("Expected B not to draw before its turn")
	}

	ts.EndTurn()

	if len(a.Hand) != 0 || len(a.Deck) != 5 {
		t.Errorf("Expected A's cards back in the deck, hand %d deck %d", len(a.Hand), len(a.Deck))
	}
	if a.Deck[4].ID != "heal-basic" {
		t.Errorf("Expected returned cards at the bottom of the deck, got %s", a.Deck[4].ID)
	}
	if len(returned) != 1 || len(returned[0].Cards) != DefaultHandSize {
		t.Errorf("Expected one CardsReturned with %d cards, got %v", DefaultHandSize, returned)
	}
	if len(b.Hand) != DefaultHandSize {
		t.Errorf("Expected B to draw on its turn, has %d", len(b.Hand))
	}
}

func TestTurnSequencer_RemoveActive(t *testing.T) {
	ts, events, _ := newTestSequencer()
	rec := newRecorder(events)
	a := NewCombatant("a", "A", Player, at(0, 0), 3, 2)
	b := NewCombatant("b", "B", Opponent, at(1, 0), 2, 2)
	c := NewCombatant("c", "C", Opponent, at(2, 0), 1, 2)
	ts.Initialize([]*Combatant{a, b, c})
	ts.EndTurn()
	rec.reset()

	if err := ts.Remove("b"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	want := []string{"TurnEnd:b", "OrderInitialized:a,c", "TurnStart:c"}
	if !slices.Equal(rec.log, want) {
		t.Errorf("Expected %v, got %v", want, rec.log)
	}
	if b.IsActingNow {
		t.Error("Expected removed combatant to stop acting")
	}
	if active, _ := ts.ActiveCombatant(); active != c {
		t.Errorf("Expected c to act next, got %s", active.ID)
	}
}

func TestTurnSequencer_RemoveBeforeCursorKeepsActive(t *testing.T) {
	ts, _, _ := newTestSequencer()
	a := NewCombatant("a", "A", Player, at(0, 0), 3, 2)
	b := NewCombatant("b", "B", Opponent, at(1, 0), 2, 2)
	c := NewCombatant("c", "C", Opponent, at(2, 0), 1, 2)
	ts.Initialize([]*Combatant{a, b, c})
	ts.EndTurn()
	ts.EndTurn()
	turn := ts.TurnNumber()

	if err := ts.Remove("a"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if active, _ := ts.ActiveCombatant(); active != c {
		t.Errorf("Expected c to keep acting, got %s", active.ID)
	}
	if ts.TurnNumber() != turn {
		t.Error("Expected no new turn when a waiting combatant is removed")
	}
	ts.EndTurn()
	if active, _ := ts.ActiveCombatant(); active != b {
		t.Errorf("Expected wrap to b, got %s", active.ID)
	}
}

func TestTurnSequencer_RemoveLastActiveWraps(t *testing.T) {
	ts, _, _ := newTestSequencer()
	a := NewCombatant("a", "A", Player, at(0, 0), 3, 2)
	b := NewCombatant("b", "B", Opponent, at(1, 0), 2, 2)
	ts.Initialize([]*Combatant{a, b})
	ts.EndTurn()

	ts.Remove("b")
	if active, _ := ts.ActiveCombatant(); active != a {
		t.Errorf("Expected a after removing the last combatant in order, got %s", active.ID)
	}
	if ts.Round() != 2 {
		t.Errorf("Expected round 2, got %d", ts.Round())
	}

	ts.Remove("a")
	if _, err := ts.ActiveCombatant(); !errors.Is(err, ErrUninitialized) {
		t.Errorf("Expected empty order to be uninitialized, got %v", err)
	}
	if err := ts.Remove("a"); !errors.Is(err, ErrUnknownCombatant) {
		t.Errorf("Expected ErrUnknownCombatant, got %v", err)
	}
}

func TestTurnSequencer_Reset(t *testing.T) {
	ts, _, _ := newTestSequencer()
	a := NewCombatant("a", "A", Player, at(0, 0), 3, 2)
	ts.Initialize([]*Combatant{a})

	ts.Reset()

	if a.IsActingNow {
		t.Error("Expected Reset to clear IsActingNow")
	}
	if _, err := ts.ActiveCombatant(); !errors.Is(err, ErrUninitialized) {
		t.Errorf("Expected ErrUninitialized after Reset, got %v", err)
	}
	if ts.TurnNumber() != 0 || len(ts.Order()) != 0 {
		t.Error("Expected counters and order to be cleared")
	}
}
