package tactics

import "errors"

var (
	// ErrUninitialized is returned when the turn order is empty
	ErrUninitialized = errors.New("turn sequencer is not initialized")
	// ErrEmptyRoster is returned when a match is started with no combatants
	ErrEmptyRoster = errors.New("roster is empty")
	// ErrUnknownCombatant is returned for ids not on the board
	ErrUnknownCombatant = errors.New("unknown combatant")
	// ErrIllegalMove is returned when a destination is outside the reachable set
	ErrIllegalMove = errors.New("illegal move")
	// ErrNotPlayerTurn is returned when a player tries to end an opponent's turn
	ErrNotPlayerTurn = errors.New("not a player-controlled turn")
	// ErrMatchClosed is returned by every Match operation after Close
	ErrMatchClosed = errors.New("match is closed")
)
