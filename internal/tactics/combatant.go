package tactics

import (
	"slices"

	"github.com/Ko-stant/hex-tactics-engine/internal/geometry"
)

// Team identifies which side controls a combatant
type Team string

const (
	Player   Team = "player"
	Opponent Team = "opponent"
)

const (
	DefaultInitiative     = 5
	DefaultMovementPoints = 2
	DefaultHandSize       = 3
)

// Card is a single entry in a combatant's deck
type Card struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// DefaultDeck returns a fresh copy of the starter deck every combatant gets
func DefaultDeck() []Card {
	return []Card{
		{ID: "attack-basic", Name: "Attack", Description: "Deal damage to a target."},
		{ID: "defend-basic", Name: "Defend", Description: "Gain protection from attacks."},
		{ID: "heal-basic", Name: "Heal", Description: "Restore health to a target."},
		{ID: "move-fast", Name: "Quick Move", Description: "Move additional tiles."},
		{ID: "shield-basic", Name: "Shield", Description: "Block incoming damage."},
	}
}

// Combatant is the single record the engine keeps per piece on the board.
// Position and MovementPoints change through the Coordinator; IsActingNow,
// the MovementPoints reset and the hand change through the TurnSequencer.
type Combatant struct {
	ID                string
	Name              string
	Team              Team
	Position          geometry.Hex
	MovementPoints    int
	MaxMovementPoints int
	Initiative        int
	IsSelected        bool
	IsActingNow       bool
	SpritePath        string

	Deck []Card
	Hand []Card
}

// NewCombatant creates a combatant with full movement points and the default deck
func NewCombatant(id, name string, team Team, pos geometry.Hex, initiative, maxMP int) *Combatant {
	return &Combatant{
		ID:                id,
		Name:              name,
		Team:              team,
		Position:          pos,
		MovementPoints:    maxMP,
		MaxMovementPoints: maxMP,
		Initiative:        initiative,
		Deck:              DefaultDeck(),
	}
}

// ResetMovement restores movement points to the maximum
func (c *Combatant) ResetMovement() {
	c.MovementPoints = c.MaxMovementPoints
}

// SpendMovement deducts points, never going below zero
func (c *Combatant) SpendMovement(points int) {
	c.MovementPoints -= points
	if c.MovementPoints < 0 {
		c.MovementPoints = 0
	}
}

// DrawCards moves up to n cards from the front of the deck into the hand
func (c *Combatant) DrawCards(n int) []Card {
	if n > len(c.Deck) {
		n = len(c.Deck)
	}
	if n <= 0 {
		return nil
	}
	drawn := make([]Card, n)
	copy(drawn, c.Deck[:n])
	c.Deck = c.Deck[n:]
	c.Hand = append(c.Hand, drawn...)
	return drawn
}

// ReturnCards puts the whole hand back at the bottom of the deck
func (c *Combatant) ReturnCards() []Card {
	returned := c.Hand
	c.Deck = append(c.Deck, returned...)
	c.Hand = nil
	return returned
}

// Clone returns a copy that shares no slices with c
func (c *Combatant) Clone() Combatant {
	cp := *c
	cp.Deck = slices.Clone(c.Deck)
	cp.Hand = slices.Clone(c.Hand)
	return cp
}
