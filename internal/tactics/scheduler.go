package tactics

import (
	"slices"
	"time"
)

// ScheduledAction is a deferred callback owned by a Scheduler
type ScheduledAction struct {
	ID    uint64
	Label string
	Due   time.Time
	Run   func()
}

// Scheduler queues deferred work for a host loop to advance with RunDue.
// Scheduling never runs anything inline, even with a zero delay.
type Scheduler struct {
	clock   TimeProvider
	nextID  uint64
	pending []*ScheduledAction
}

func NewScheduler(clock TimeProvider) *Scheduler {
	if clock == nil {
		clock = SystemTime{}
	}
	return &Scheduler{clock: clock}
}

// Schedule queues fn to run once delay has elapsed and returns its id
func (s *Scheduler) Schedule(label string, delay time.Duration, fn func()) uint64 {
	s.nextID++
	s.pending = append(s.pending, &ScheduledAction{
		ID:    s.nextID,
		Label: label,
		Due:   s.clock.Now().Add(delay),
		Run:   fn,
	})
	return s.nextID
}

// Cancel removes a pending action. It reports false if the action already ran.
func (s *Scheduler) Cancel(id uint64) bool {
	idx := slices.IndexFunc(s.pending, func(a *ScheduledAction) bool { return a.ID == id })
	if idx < 0 {
		return false
	}
	s.pending = slices.Delete(s.pending, idx, idx+1)
	return true
}

// CancelAll drops every pending action
func (s *Scheduler) CancelAll() int {
	n := len(s.pending)
	s.pending = nil
	return n
}

func (s *Scheduler) Len() int {
	return len(s.pending)
}

// Pending returns copies of the queued actions, earliest first
func (s *Scheduler) Pending() []ScheduledAction {
	out := make([]ScheduledAction, 0, len(s.pending))
	for _, a := range s.pending {
		out = append(out, *a)
	}
	slices.SortStableFunc(out, func(a, b ScheduledAction) int {
		return a.Due.Compare(b.Due)
	})
	return out
}

// NextDue reports when the earliest pending action becomes due
func (s *Scheduler) NextDue() (time.Time, bool) {
	next := s.earliest()
	if next < 0 {
		return time.Time{}, false
	}
	return s.pending[next].Due, true
}

// RunDue runs every action due at or before now, earliest first and in
// scheduling order for equal due times. Actions queued by a running action
// wait for the next call, even when already due. It returns the number of
// actions run.
func (s *Scheduler) RunDue(now time.Time) int {
	ceiling := s.nextID
	ran := 0
	for {
		next := s.earliestUpTo(ceiling)
		if next < 0 || s.pending[next].Due.After(now) {
			return ran
		}
		action := s.pending[next]
		s.pending = slices.Delete(s.pending, next, next+1)
		action.Run()
		ran++
	}
}

// RunNext runs the earliest pending action whether or not it is due yet
func (s *Scheduler) RunNext() bool {
	next := s.earliest()
	if next < 0 {
		return false
	}
	action := s.pending[next]
	s.pending = slices.Delete(s.pending, next, next+1)
	action.Run()
	return true
}

func (s *Scheduler) earliest() int {
	return s.earliestUpTo(s.nextID)
}

// earliestUpTo finds the earliest pending action with an id at most ceiling
func (s *Scheduler) earliestUpTo(ceiling uint64) int {
	best := -1
	for i, a := range s.pending {
		if a.ID > ceiling {
			continue
		}
		if best < 0 || a.Due.Before(s.pending[best].Due) {
			best = i
		}
	}
	return best
}
