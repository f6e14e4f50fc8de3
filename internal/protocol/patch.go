package protocol

import "github.com/Ko-stant/hex-tactics-engine/internal/geometry"

type PatchEnvelope struct {
	Sequence uint64 `json:"seq"`
	EventID  int64  `json:"eventId"`
	Type     string `json:"type"`
	Payload  any    `json:"payload"`
}

type OrderInitialized struct {
	Order []string `json:"order"`
}

type TurnStarted struct {
	CombatantID    string `json:"combatantId"`
	PlayerTurn     bool   `json:"playerTurn"`
	MovementPoints int    `json:"movementPoints"`
}

type TurnEnded struct {
	CombatantID  string `json:"combatantId"`
	MovementLeft int    `json:"movementLeft"`
}

// SelectionChanged carries an empty CombatantID when nothing is selected
type SelectionChanged struct {
	CombatantID string `json:"combatantId"`
}

type MoveExecuted struct {
	CombatantID  string       `json:"combatantId"`
	From         geometry.Hex `json:"from"`
	To           geometry.Hex `json:"to"`
	Cost         int          `json:"cost"`
	MovementLeft int          `json:"movementLeft"`
}

type RangeChanged struct {
	Hexes []geometry.Hex `json:"hexes"`
}

type CardsChanged struct {
	CombatantID string     `json:"combatantId"`
	Cards       []CardLite `json:"cards"`
	HandSize    int        `json:"handSize"`
}

type ErrorReply struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
