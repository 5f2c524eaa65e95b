package clock

import (
	"sync"
	"time"
)

// Manual is a Clock that only moves when Advance is called. Timer callbacks
// run synchronously on the goroutine calling Advance, in due-time order.
type Manual struct {
	mu     sync.Mutex
	now    time.Time
	timers []*manualTimer
}

func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *Manual) Every(interval time.Duration, fn func()) Timer {
	if interval <= 0 {
		panic("clock: non-positive interval")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	t := &manualTimer{clock: m, interval: interval, next: m.now.Add(interval), fn: fn}
	m.timers = append(m.timers, t)
	return t
}

// Active reports how many timers are still running.
func (m *Manual) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.timers)
}

// Advance moves the clock forward by d, firing every timer that comes due.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now.Add(d)
	m.mu.Unlock()

	for {
		m.mu.Lock()
		var due *manualTimer
		for _, t := range m.timers {
			if !t.next.After(target) && (due == nil || t.next.Before(due.next)) {
				due = t
			}
		}
		if due == nil {
			m.now = target
			m.mu.Unlock()
			return
		}
		m.now = due.next
		due.next = due.next.Add(due.interval)
		fn := due.fn
		m.mu.Unlock()

		fn()
	}
}

func (m *Manual) remove(t *manualTimer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, other := range m.timers {
		if other == t {
			m.timers = append(m.timers[:i], m.timers[i+1:]...)
			return
		}
	}
}

type manualTimer struct {
	clock    *Manual
	interval time.Duration
	next     time.Time
	fn       func()
}

func (t *manualTimer) Stop() {
	t.clock.remove(t)
}
