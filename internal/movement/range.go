// Package movement computes where a combatant may go on a hex board.
package movement

import (
	"cmp"
	"slices"

	"github.com/zyedidia/generic/mapset"

	"github.com/Ko-stant/hex-tactics-engine/internal/geometry"
)

// BoundsCheck reports whether a hex is on the board.
type BoundsCheck func(geometry.Hex) bool

// Bounded adapts a GridBounds into a BoundsCheck.
func Bounded(b geometry.GridBounds) BoundsCheck {
	return b.Contains
}

// Unbounded accepts every hex.
func Unbounded(geometry.Hex) bool { return true }

// Range is the set of hexes reachable from an origin under a point budget.
type Range struct {
	set mapset.Set[geometry.Hex]
}

// EmptyRange returns a range with no destinations.
func EmptyRange() Range {
	return Range{set: mapset.New[geometry.Hex]()}
}

// Has reports whether h is a legal destination.
func (r Range) Has(h geometry.Hex) bool {
	return r.set.Has(h)
}

// Len is the number of destinations.
func (r Range) Len() int {
	return r.set.Size()
}

// Sorted returns the destinations ordered by r, then q.
func (r Range) Sorted() []geometry.Hex {
	out := make([]geometry.Hex, 0, r.Len())
	r.set.Each(func(h geometry.Hex) {
		out = append(out, h)
	})
	slices.SortFunc(out, func(a, b geometry.Hex) int {
		if c := cmp.Compare(a.R, b.R); c != 0 {
			return c
		}
		return cmp.Compare(a.Q, b.Q)
	})
	return out
}

// OccupiedExcept builds the blocking set from every combatant position
// except origin, which never blocks its own mover.
func OccupiedExcept(positions []geometry.Hex, origin geometry.Hex) mapset.Set[geometry.Hex] {
	occupied := mapset.New[geometry.Hex]()
	for _, p := range positions {
		if p != origin {
			occupied.Put(p)
		}
	}
	return occupied
}

type frontier struct {
	hex  geometry.Hex
	cost int
}

// Reachable flood-fills outward from origin one step per edge while the
// accumulated cost is below budget. Occupied and out-of-bounds hexes are
// neither entered nor returned; origin itself is never in the result.
// occupied must not contain origin.
func Reachable(origin geometry.Hex, budget int, occupied mapset.Set[geometry.Hex], inBounds BoundsCheck) Range {
	result := EmptyRange()
	if budget <= 0 {
		return result
	}
	if inBounds == nil {
		inBounds = Unbounded
	}

	visited := mapset.New[geometry.Hex]()
	visited.Put(origin)
	queue := []frontier{{hex: origin, cost: 0}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if cur.cost > 0 {
			result.set.Put(cur.hex)
		}
		if cur.cost >= budget {
			continue
		}

		for _, n := range geometry.Neighbors(cur.hex) {
			if visited.Has(n) {
				continue
			}
			visited.Put(n)
			if occupied.Has(n) {
				continue
			}
			if !inBounds(n) {
				continue
			}
			queue = append(queue, frontier{hex: n, cost: cur.cost + 1})
		}
	}

	return result
}

// IsReachable reports whether target is a legal destination. It is defined
// as membership in Reachable so blocked paths are respected.
func IsReachable(origin, target geometry.Hex, budget int, occupied mapset.Set[geometry.Hex], inBounds BoundsCheck) bool {
	if origin == target || budget <= 0 {
		return false
	}
	if geometry.Distance(origin, target) > budget {
		return false
	}
	return Reachable(origin, budget, occupied, inBounds).Has(target)
}
