package tactics

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Ko-stant/hex-tactics-engine/internal/geometry"
)

// RosterEntry is one character record as supplied by content files
type RosterEntry struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	Team              string          `json:"team"`
	Speed             *int            `json:"speed,omitempty"`
	MaxMovementPoints *int            `json:"maxMovementPoints,omitempty"`
	SpritePath        string          `json:"spritePath,omitempty"`
	InitialPosition   geometry.Offset `json:"initialPosition"`
}

// ParseTeam maps roster team names onto Team
func ParseTeam(s string) (Team, error) {
	switch s {
	case "TeamA", "player", "Player":
		return Player, nil
	case "TeamB", "opponent", "Opponent":
		return Opponent, nil
	default:
		return "", fmt.Errorf("unknown team %q", s)
	}
}

// LoadRoster reads a JSON array of roster entries from path
func LoadRoster(path string, bounds geometry.GridBounds) ([]*Combatant, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open roster: %w", err)
	}
	defer f.Close()
	return DecodeRoster(f, bounds)
}

// DecodeRoster decodes and validates roster entries from r
func DecodeRoster(r io.Reader, bounds geometry.GridBounds) ([]*Combatant, error) {
	var entries []RosterEntry
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("failed to parse roster: %w", err)
	}
	return BuildRoster(entries, bounds)
}

// BuildRoster turns entries into combatants, applying defaults for speed and
// movement points and rejecting duplicate ids, shared or off-board start
// cells and non-positive movement points.
func BuildRoster(entries []RosterEntry, bounds geometry.GridBounds) ([]*Combatant, error) {
	var errs []error
	ids := make(map[string]bool, len(entries))
	cells := make(map[geometry.Hex]string, len(entries))
	out := make([]*Combatant, 0, len(entries))

	for i, e := range entries {
		if e.ID == "" {
			errs = append(errs, fmt.Errorf("entry %d: missing id", i))
			continue
		}
		if ids[e.ID] {
			errs = append(errs, fmt.Errorf("entry %d: duplicate id %q", i, e.ID))
			continue
		}
		ids[e.ID] = true

		team, err := ParseTeam(e.Team)
		if err != nil {
			errs = append(errs, fmt.Errorf("entry %q: %w", e.ID, err))
			continue
		}

		speed := DefaultInitiative
		if e.Speed != nil {
			speed = *e.Speed
		}
		maxMP := DefaultMovementPoints
		if e.MaxMovementPoints != nil {
			maxMP = *e.MaxMovementPoints
		}
		if maxMP <= 0 {
			errs = append(errs, fmt.Errorf("entry %q: maxMovementPoints must be positive, got %d", e.ID, maxMP))
			continue
		}

		pos := geometry.OffsetToAxial(e.InitialPosition)
		if !bounds.Contains(pos) {
			errs = append(errs, fmt.Errorf("entry %q: start (%d,%d) is outside the %dx%d board",
				e.ID, e.InitialPosition.Col, e.InitialPosition.Row, bounds.Cols, bounds.Rows))
			continue
		}
		if other, taken := cells[pos]; taken {
			errs = append(errs, fmt.Errorf("entry %q: start (%d,%d) already taken by %q",
				e.ID, e.InitialPosition.Col, e.InitialPosition.Row, other))
			continue
		}
		cells[pos] = e.ID

		name := e.Name
		if name == "" {
			name = e.ID
		}
		c := NewCombatant(e.ID, name, team, pos, speed, maxMP)
		c.SpritePath = e.SpritePath
		out = append(out, c)
	}

	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("invalid roster: %w", err)
	}
	return out, nil
}

// DevRoster is the two-versus-two skirmish used when no roster file is configured
func DevRoster() []*Combatant {
	return []*Combatant{
		NewCombatant("hero-1", "Knight", Player, geometry.OffsetToAxial(geometry.Offset{Col: 1, Row: 1}), 6, DefaultMovementPoints),
		NewCombatant("hero-2", "Archer", Player, geometry.OffsetToAxial(geometry.Offset{Col: 1, Row: 5}), 4, DefaultMovementPoints),
		NewCombatant("enemy-1", "Goblin", Opponent, geometry.OffsetToAxial(geometry.Offset{Col: 6, Row: 2}), 5, DefaultMovementPoints),
		NewCombatant("enemy-2", "Orc", Opponent, geometry.OffsetToAxial(geometry.Offset{Col: 6, Row: 6}), 3, DefaultMovementPoints),
	}
}
