package views

import (
	"math"
	"strconv"
	"strings"

	"github.com/Ko-stant/hex-tactics-engine/internal/geometry"
	"github.com/Ko-stant/hex-tactics-engine/internal/protocol"
)

type cellView struct {
	Key    string
	Points string
	Class  string
	X, Y   float64
}

type tokenView struct {
	ID     string
	Label  string
	Class  string
	X, Y   float64
	Radius float64
}

func layoutFor(snap protocol.Snapshot) geometry.Layout {
	if snap.HexSize <= 0 {
		return geometry.DevLayout()
	}
	return geometry.Layout{Size: snap.HexSize}
}

func boardCells(snap protocol.Snapshot) []cellView {
	layout := layoutFor(snap)
	lit := make(map[geometry.Hex]bool, len(snap.Highlighted))
	for _, h := range snap.Highlighted {
		lit[h] = true
	}

	bounds := geometry.GridBounds{Rows: snap.Rows, Cols: snap.Cols}
	cells := make([]cellView, 0, bounds.Size())
	for _, h := range bounds.Hexes() {
		class := "cell"
		if lit[h] {
			class += " cell-reachable"
		}
		c := layout.ToPixel(h)
		cells = append(cells, cellView{
			Key:    h.String(),
			Points: polygonPoints(layout.Corners(h)),
			Class:  class,
			X:      c.X,
			Y:      c.Y,
		})
	}
	return cells
}

func boardTokens(snap protocol.Snapshot) []tokenView {
	layout := layoutFor(snap)
	tokens := make([]tokenView, 0, len(snap.Combatants))
	for _, c := range snap.Combatants {
		class := "token token-" + c.Team
		if c.IsActingNow {
			class += " token-active"
		}
		if c.IsSelected {
			class += " token-selected"
		}
		p := layout.ToPixel(c.Hex)
		tokens = append(tokens, tokenView{
			ID:     c.ID,
			Label:  initials(c.Name),
			Class:  class,
			X:      p.X,
			Y:      p.Y,
			Radius: layout.Size * 0.6,
		})
	}
	return tokens
}

// viewBox frames every cell with a small margin.
func viewBox(snap protocol.Snapshot) string {
	layout := layoutFor(snap)
	bounds := geometry.GridBounds{Rows: snap.Rows, Cols: snap.Cols}
	if bounds.Size() == 0 {
		return "0 0 0 0"
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, h := range bounds.Hexes() {
		for _, p := range layout.Corners(h) {
			minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
			minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
		}
	}
	m := layout.Size / 4
	return strings.Join([]string{
		num(minX - m), num(minY - m), num(maxX - minX + 2*m), num(maxY - minY + 2*m),
	}, " ")
}

func polygonPoints(corners [6]geometry.Point) string {
	parts := make([]string, len(corners))
	for i, p := range corners {
		parts[i] = num(p.X) + "," + num(p.Y)
	}
	return strings.Join(parts, " ")
}

func initials(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return "?"
	}
	if len(fields) == 1 {
		r := []rune(fields[0])
		return strings.ToUpper(string(r[:min(2, len(r))]))
	}
	return strings.ToUpper(string([]rune(fields[0])[0]) + string([]rune(fields[1])[0]))
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}

func turnLabel(snap protocol.Snapshot) string {
	who := "opponent"
	if snap.PlayerTurn {
		who = "player"
	}
	return "Round " + strconv.Itoa(snap.Round) + ", turn " + strconv.Itoa(snap.Turn) + ": " + snap.ActiveID + " (" + who + ")"
}
