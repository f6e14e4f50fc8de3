package tactics

import "time"

// Logger interface for logging abstraction
type Logger interface {
	Printf(format string, v ...interface{})
}

// TimeProvider supplies the current time to the scheduler
type TimeProvider interface {
	Now() time.Time
}

// Replenisher is the per-turn resource hook run by the sequencer.
// Replenish runs before TurnStart fires, Return before TurnEnd fires.
type Replenisher interface {
	Replenish(c *Combatant)
	Return(c *Combatant)
}

// SystemTime provides the real wall clock
type SystemTime struct{}

func (SystemTime) Now() time.Time {
	return time.Now()
}

type nopLogger struct{}

func (nopLogger) Printf(string, ...interface{}) {}
