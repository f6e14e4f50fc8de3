package tactics

import (
	"slices"

	"github.com/zyedidia/generic/mapset"

	"github.com/Ko-stant/hex-tactics-engine/internal/geometry"
	"github.com/Ko-stant/hex-tactics-engine/internal/movement"
)

// Board holds the combatants of a match in roster order
type Board struct {
	Bounds     geometry.GridBounds
	combatants []*Combatant
}

func NewBoard(bounds geometry.GridBounds, combatants []*Combatant) *Board {
	return &Board{
		Bounds:     bounds,
		combatants: slices.Clone(combatants),
	}
}

// Combatants returns the roster in insertion order
func (b *Board) Combatants() []*Combatant {
	return slices.Clone(b.combatants)
}

func (b *Board) ByID(id string) *Combatant {
	for _, c := range b.combatants {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// At returns the combatant standing on h, or nil
func (b *Board) At(h geometry.Hex) *Combatant {
	for _, c := range b.combatants {
		if c.Position == h {
			return c
		}
	}
	return nil
}

func (b *Board) Remove(id string) *Combatant {
	for i, c := range b.combatants {
		if c.ID == id {
			b.combatants = slices.Delete(b.combatants, i, i+1)
			return c
		}
	}
	return nil
}

// Occupied returns every occupied hex except the one c stands on
func (b *Board) Occupied(c *Combatant) mapset.Set[geometry.Hex] {
	positions := make([]geometry.Hex, 0, len(b.combatants))
	for _, other := range b.combatants {
		positions = append(positions, other.Position)
	}
	return movement.OccupiedExcept(positions, c.Position)
}

// ReachableFrom computes c's movement range with its current points
func (b *Board) ReachableFrom(c *Combatant) movement.Range {
	return movement.Reachable(c.Position, c.MovementPoints, b.Occupied(c), movement.Bounded(b.Bounds))
}

// CanReach reports whether c may legally end a move on to
func (b *Board) CanReach(c *Combatant, to geometry.Hex) bool {
	return movement.IsReachable(c.Position, to, c.MovementPoints, b.Occupied(c), movement.Bounded(b.Bounds))
}

// Reset replaces the roster
func (b *Board) Reset(combatants []*Combatant) {
	b.combatants = slices.Clone(combatants)
}
