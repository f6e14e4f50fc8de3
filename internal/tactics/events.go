package tactics

import "github.com/Ko-stant/hex-tactics-engine/internal/geometry"

// Signal is an ordered list of typed listeners. Emit calls them in the
// order they subscribed.
type Signal[T any] struct {
	listeners []listener[T]
	nextID    int
}

type listener[T any] struct {
	id int
	fn func(T)
}

// Subscribe registers fn and returns a func that removes it again
func (s *Signal[T]) Subscribe(fn func(T)) func() {
	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, listener[T]{id: id, fn: fn})
	return func() {
		for i, l := range s.listeners {
			if l.id == id {
				s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

// Emit delivers v to the listeners registered at the time of the call
func (s *Signal[T]) Emit(v T) {
	snapshot := s.listeners
	for _, l := range snapshot {
		l.fn(v)
	}
}

// Len reports the number of registered listeners
func (s *Signal[T]) Len() int {
	return len(s.listeners)
}

// Clear drops every listener
func (s *Signal[T]) Clear() {
	s.listeners = nil
}

// MoveEvent describes an executed move
type MoveEvent struct {
	Combatant *Combatant
	From      geometry.Hex
	To        geometry.Hex
	Cost      int
}

// CardEvent lists the cards that entered or left a combatant's hand
type CardEvent struct {
	Combatant *Combatant
	Cards     []Card
}

// Events is the outbound surface of a match. The sequencer, the
// coordinator and the agent all share one Events value.
type Events struct {
	OrderInitialized Signal[[]string]
	TurnStart        Signal[*Combatant]
	TurnEnd          Signal[*Combatant]
	SelectionChanged Signal[*Combatant]
	MoveExecuted     Signal[MoveEvent]
	RangeChanged     Signal[[]geometry.Hex]
	CardsDrawn       Signal[CardEvent]
	CardsReturned    Signal[CardEvent]
}

// Clear drops every listener on every signal
func (e *Events) Clear() {
	e.OrderInitialized.Clear()
	e.TurnStart.Clear()
	e.TurnEnd.Clear()
	e.SelectionChanged.Clear()
	e.MoveExecuted.Clear()
	e.RangeChanged.Clear()
	e.CardsDrawn.Clear()
	e.CardsReturned.Clear()
}
