package protocol

import "github.com/Ko-stant/hex-tactics-engine/internal/geometry"

const Version = "hex-1"

type CardLite struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type CombatantLite struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	Team              string          `json:"team"`
	Hex               geometry.Hex    `json:"hex"`
	Offset            geometry.Offset `json:"offset"`
	MovementPoints    int             `json:"movementPoints"`
	MaxMovementPoints int             `json:"maxMovementPoints"`
	Initiative        int             `json:"initiative"`
	IsSelected        bool            `json:"isSelected"`
	IsActingNow       bool            `json:"isActingNow"`
	SpritePath        string          `json:"spritePath,omitempty"`
	Hand              []CardLite      `json:"hand,omitempty"`
}

type Snapshot struct {
	MatchID         string          `json:"matchId"`
	Rows            int             `json:"rows"`
	Cols            int             `json:"cols"`
	HexSize         float64         `json:"hexSize"`
	Turn            int             `json:"turn"`
	Round           int             `json:"round"`
	ActiveID        string          `json:"activeId"`
	PlayerTurn      bool            `json:"playerTurn"`
	SelectedID      string          `json:"selectedId"`
	Order           []string        `json:"order"`
	Highlighted     []geometry.Hex  `json:"highlighted"`
	Combatants      []CombatantLite `json:"combatants"`
	ProtocolVersion string          `json:"protocolVersion"`
}

// Combatant returns the entry with the given id
func (s Snapshot) Combatant(id string) (CombatantLite, bool) {
	for _, c := range s.Combatants {
		if c.ID == id {
			return c, true
		}
	}
	return CombatantLite{}, false
}
