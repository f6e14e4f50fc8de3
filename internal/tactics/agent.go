package tactics

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/Ko-stant/hex-tactics-engine/internal/geometry"
)

// Chooser picks a destination out of a non-empty list of candidates
type Chooser func(candidates []geometry.Hex) geometry.Hex

// Agent plays every combatant that is not on the player's team. Each step
// of its turn runs as a scheduled continuation so the pacing delay can be
// set to zero in tests without changing event order.
type Agent struct {
	board       *Board
	sequencer   *TurnSequencer
	coordinator *Coordinator
	scheduler   *Scheduler
	logger      Logger
	delay       time.Duration
	choose      Chooser

	unsubscribe func()
}

// NewAgent subscribes the agent to TurnStart. rng drives the uniform choice
// of destination; a nil rng uses an unseeded source.
func NewAgent(board *Board, sequencer *TurnSequencer, coordinator *Coordinator, scheduler *Scheduler, events *Events, delay time.Duration, rng *rand.Rand, logger Logger) *Agent {
	if logger == nil {
		logger = nopLogger{}
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	a := &Agent{
		board:       board,
		sequencer:   sequencer,
		coordinator: coordinator,
		scheduler:   scheduler,
		logger:      logger,
		delay:       delay,
		choose:      UniformChooser(rng),
	}
	a.unsubscribe = events.TurnStart.Subscribe(a.onTurnStart)
	return a
}

// UniformChooser picks uniformly at random using rng
func UniformChooser(rng *rand.Rand) Chooser {
	return func(candidates []geometry.Hex) geometry.Hex {
		return candidates[rng.IntN(len(candidates))]
	}
}

// SetChooser replaces the destination picker
func (a *Agent) SetChooser(choose Chooser) {
	a.choose = choose
}

// Detach stops reacting to new turns. Already scheduled steps stay queued.
func (a *Agent) Detach() {
	if a.unsubscribe != nil {
		a.unsubscribe()
		a.unsubscribe = nil
	}
}

func (a *Agent) onTurnStart(c *Combatant) {
	if c.Team == Player {
		return
	}
	turn := a.sequencer.TurnNumber()
	a.logger.Printf("DEBUG: AI taking turn %d for %s", turn, c.ID)
	a.scheduler.Schedule("ai-move:"+c.ID, a.delay, func() {
		a.step(c, turn, a.move)
	})
}

// current reports whether c still holds turn number turn
func (a *Agent) current(c *Combatant, turn int) bool {
	active, err := a.sequencer.ActiveCombatant()
	return err == nil && active == c && a.sequencer.TurnNumber() == turn
}

func (a *Agent) step(c *Combatant, turn int, fn func(*Combatant, int) error) {
	if !a.current(c, turn) {
		a.logger.Printf("DEBUG: dropping stale AI step for %s on turn %d", c.ID, turn)
		return
	}
	defer func() {
		if r := recover(); r != nil {
			a.forceEndTurn(c, turn, fmt.Errorf("panic: %v", r))
		}
	}()
	if err := fn(c, turn); err != nil {
		a.forceEndTurn(c, turn, err)
	}
}

func (a *Agent) move(c *Combatant, turn int) error {
	candidates := a.board.ReachableFrom(c).Sorted()
	if len(candidates) == 0 {
		a.logger.Printf("DEBUG: %s has no reachable tiles, ending turn", c.ID)
		return a.sequencer.EndTurn()
	}

	dest := a.choose(candidates)
	a.logger.Printf("DEBUG: AI moving %s from %s to %s", c.ID, c.Position, dest)
	if err := a.coordinator.MoveCombatant(c.ID, dest); err != nil {
		return err
	}

	a.scheduler.Schedule("ai-end-turn:"+c.ID, a.delay, func() {
		a.step(c, turn, a.endTurn)
	})
	return nil
}

func (a *Agent) endTurn(_ *Combatant, _ int) error {
	return a.sequencer.EndTurn()
}

func (a *Agent) forceEndTurn(c *Combatant, turn int, cause error) {
	a.logger.Printf("WARN: AI turn for %s failed: %v; forcing end of turn", c.ID, cause)
	if !a.current(c, turn) {
		return
	}
	if err := a.sequencer.EndTurn(); err != nil {
		a.logger.Printf("WARN: forced end of turn failed: %v", err)
	}
}
