package tactics

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/Ko-stant/hex-tactics-engine/internal/geometry"
)

type MockLogger struct {
	messages []string
}

func (m *MockLogger) Printf(format string, v ...interface{}) {
	m.messages = append(m.messages, fmt.Sprintf(format, v...))
}

func (m *MockLogger) Contains(substr string) bool {
	for _, msg := range m.messages {
		if strings.Contains(msg, substr) {
			return true
		}
	}
	return false
}

type MockTimeProvider struct {
	now time.Time
}

func NewMockTimeProvider() *MockTimeProvider {
	return &MockTimeProvider{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (m *MockTimeProvider) Now() time.Time {
	return m.now
}

func (m *MockTimeProvider) Advance(d time.Duration) {
	m.now = m.now.Add(d)
}

// recorder flattens every emitted event into a readable log line
type recorder struct {
	log []string
}

func newRecorder(events *Events) *recorder {
	r := &recorder{}
	events.OrderInitialized.Subscribe(func(order []string) {
		r.add("OrderInitialized:%s", strings.Join(order, ","))
	})
	events.TurnStart.Subscribe(func(c *Combatant) { r.add("TurnStart:%s", c.ID) })
	events.TurnEnd.Subscribe(func(c *Combatant) { r.add("TurnEnd:%s", c.ID) })
	events.SelectionChanged.Subscribe(func(c *Combatant) {
		if c == nil {
			r.add("SelectionChanged:none")
			return
		}
		r.add("SelectionChanged:%s", c.ID)
	})
	events.MoveExecuted.Subscribe(func(e MoveEvent) {
		r.add("MoveExecuted:%s:%s->%s", e.Combatant.ID, e.From, e.To)
	})
	return r
}

func (r *recorder) add(format string, v ...interface{}) {
	r.log = append(r.log, fmt.Sprintf(format, v...))
}

func (r *recorder) count(prefix string) int {
	n := 0
	for _, line := range r.log {
		if strings.HasPrefix(line, prefix) {
			n++
		}
	}
	return n
}

func (r *recorder) reset() {
	r.log = nil
}

func at(col, row int) geometry.Hex {
	return geometry.OffsetToAxial(geometry.Offset{Col: col, Row: row})
}

func seeded() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}
