package main

import (
	"errors"
	"fmt"

	"github.com/Ko-stant/hex-tactics-engine/internal/tactics"
)

// GameError represents a game logic error
type GameError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *GameError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// toGameError maps engine errors onto stable wire codes
func toGameError(err error) *GameError {
	var ge *GameError
	switch {
	case errors.As(err, &ge):
		return ge
	case errors.Is(err, tactics.ErrMatchClosed):
		return &GameError{Code: "match_closed", Message: err.Error()}
	case errors.Is(err, tactics.ErrUnknownCombatant):
		return &GameError{Code: "unknown_combatant", Message: err.Error()}
	case errors.Is(err, tactics.ErrNotPlayerTurn):
		return &GameError{Code: "not_player_turn", Message: err.Error()}
	case errors.Is(err, tactics.ErrIllegalMove):
		return &GameError{Code: "illegal_move", Message: err.Error()}
	case errors.Is(err, tactics.ErrUninitialized), errors.Is(err, tactics.ErrEmptyRoster):
		return &GameError{Code: "not_started", Message: err.Error()}
	default:
		return &GameError{Code: "internal", Message: err.Error()}
	}
}
