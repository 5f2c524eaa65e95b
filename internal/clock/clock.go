package clock

import (
	"sync"
	"time"
)

// Clock abstracts time and repeating timers so sessions can be driven
// deterministically in tests.
type Clock interface {
	Now() time.Time
	// Every calls fn once per interval until the returned Timer is stopped.
	Every(interval time.Duration, fn func()) Timer
}

type Timer interface {
	Stop()
}

type System struct{}

func (System) Now() time.Time {
	return time.Now()
}

func (System) Every(interval time.Duration, fn func()) Timer {
	t := &systemTimer{ticker: time.NewTicker(interval), done: make(chan struct{})}
	go t.run(fn)
	return t
}

type systemTimer struct {
	ticker *time.Ticker
	done   chan struct{}
	once   sync.Once
}

func (t *systemTimer) run(fn func()) {
	for {
		select {
		case <-t.done:
			return
		case <-t.ticker.C:
			// Stop may race with a tick already delivered on the channel.
			select {
			case <-t.done:
				return
			default:
			}
			fn()
		}
	}
}

func (t *systemTimer) Stop() {
	t.once.Do(func() {
		t.ticker.Stop()
		close(t.done)
	})
}
