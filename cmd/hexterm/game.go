package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/Ko-stant/hex-tactics-engine/internal/geometry"
	"github.com/Ko-stant/hex-tactics-engine/internal/tactics"
)

const (
	boardX     = 2
	boardY     = 3
	cellWidth  = 4
	frameDelay = 16 * time.Millisecond
	maxHistory = 4
)

var (
	styleCell      = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleReachable = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	stylePlayer    = tcell.StyleDefault.Foreground(tcell.ColorBlue).Bold(true)
	styleOpponent  = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleText      = tcell.StyleDefault.Foreground(tcell.ColorWhite)
)

// Game draws a match on a terminal and feeds key presses into it
type Game struct {
	screen tcell.Screen
	match  *tactics.Match
	bounds geometry.GridBounds
	cursor geometry.Offset

	// written by match listeners, which run under the match lock
	history []string
}

func NewGame(screen tcell.Screen, match *tactics.Match, bounds geometry.GridBounds) *Game {
	g := &Game{
		screen: screen,
		match:  match,
		bounds: bounds,
	}

	events := match.Events()
	events.TurnStart.Subscribe(func(c *tactics.Combatant) {
		g.record(fmt.Sprintf("%s's turn (%d MP)", c.Name, c.MovementPoints))
	})
	events.MoveExecuted.Subscribe(func(e tactics.MoveEvent) {
		to := geometry.AxialToOffset(e.To)
		g.record(fmt.Sprintf("%s moved to %d,%d", e.Combatant.Name, to.Col, to.Row))
	})
	return g
}

func (g *Game) record(line string) {
	g.history = append(g.history, line)
	if len(g.history) > maxHistory {
		g.history = g.history[len(g.history)-maxHistory:]
	}
}

func screenPos(o geometry.Offset) (int, int) {
	return boardX + o.Col*cellWidth + (o.Row&1)*cellWidth/2, boardY + o.Row
}

func (g *Game) drawText(x, y int, style tcell.Style, text string) {
	for i, r := range []rune(text) {
		g.screen.SetContent(x+i, y, r, nil, style)
	}
}

func (g *Game) draw() {
	state := g.match.Snapshot()
	g.screen.Clear()

	who := "opponent"
	if state.PlayerTurn {
		who = "your move"
	}
	g.drawText(0, 0, styleText, fmt.Sprintf("Round %d  Turn %d  %s (%s)", state.Round, state.TurnNumber, state.ActiveID, who))
	g.drawText(0, 1, styleText, "order: "+strings.Join(state.Order, " > "))

	lit := make(map[geometry.Hex]bool, len(state.Highlighted))
	for _, h := range state.Highlighted {
		lit[h] = true
	}
	occupant := make(map[geometry.Hex]tactics.Combatant, len(state.Combatants))
	for _, c := range state.Combatants {
		occupant[c.Position] = c
	}

	for _, h := range state.Bounds.Hexes() {
		x, y := screenPos(geometry.AxialToOffset(h))
		r, style := '.', styleCell
		if lit[h] {
			r, style = '*', styleReachable
		}
		if c, ok := occupant[h]; ok {
			r, style = glyph(c)
		}
		if geometry.AxialToOffset(h) == g.cursor {
			style = style.Reverse(true)
		}
		g.screen.SetContent(x, y, r, nil, style)
	}

	y := boardY + state.Bounds.Rows + 1
	for _, c := range state.Combatants {
		mark := " "
		if c.IsActingNow {
			mark = ">"
		}
		line := fmt.Sprintf("%s %c %-8s %d/%d MP  hand %d", mark, initial(c), c.Name, c.MovementPoints, c.MaxMovementPoints, len(c.Hand))
		_, style := glyph(c)
		g.drawText(0, y, style, line)
		y++
	}
	y++
	for _, line := range g.history {
		g.drawText(0, y, styleText, line)
		y++
	}
	g.drawText(0, y+1, styleCell, "arrows move  enter select/move  esc cancel  e end turn  q quit")

	g.screen.Show()
}

func glyph(c tactics.Combatant) (rune, tcell.Style) {
	style := styleOpponent
	if c.Team == tactics.Player {
		style = stylePlayer
	}
	if c.IsSelected {
		style = style.Underline(true)
	}
	return initial(c), style
}

func initial(c tactics.Combatant) rune {
	for _, r := range c.Name {
		return r
	}
	return '?'
}

func (g *Game) moveCursor(dc, dr int) {
	next := geometry.Offset{Col: g.cursor.Col + dc, Row: g.cursor.Row + dr}
	if next.Col < 0 || next.Col >= g.bounds.Cols || next.Row < 0 || next.Row >= g.bounds.Rows {
		return
	}
	g.cursor = next
}

// handleInput returns false when the player quits
func (g *Game) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyCtrlC:
			return false
		case tcell.KeyUp:
			g.moveCursor(0, -1)
		case tcell.KeyDown:
			g.moveCursor(0, 1)
		case tcell.KeyLeft:
			g.moveCursor(-1, 0)
		case tcell.KeyRight:
			g.moveCursor(1, 0)
		case tcell.KeyEnter:
			_ = g.match.HandleTileClick(geometry.OffsetToAxial(g.cursor))
		case tcell.KeyEscape:
			_ = g.match.HandleBackgroundClick()
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return false
			case ' ':
				_ = g.match.HandleTileClick(geometry.OffsetToAxial(g.cursor))
			case 'e':
				_ = g.match.EndPlayerTurn()
			}
		}
	case *tcell.EventResize:
		g.screen.Sync()
	}
	return true
}

func (g *Game) run() {
	ticker := time.NewTicker(frameDelay)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := g.screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	}()

	for {
		select {
		case ev := <-eventChan:
			if !g.handleInput(ev) {
				return
			}
			g.draw()

		case now := <-ticker.C:
			if g.match.Tick(now) > 0 {
				g.draw()
			}
		}
	}
}
