package workout

import "fmt"

type Status string

const (
	StatusIdle      Status = "idle"
	StatusCountdown Status = "countdown"
	StatusActive    Status = "active"
	StatusPaused    Status = "paused"
	StatusFinished  Status = "finished"
)

// transitions lists every legal status change. Abandon is handled separately
// since it is allowed from any non-finished status.
var transitions = map[Status][]Status{
	StatusIdle:      {StatusCountdown},
	StatusCountdown: {StatusActive},
	StatusActive:    {StatusPaused, StatusFinished},
	StatusPaused:    {StatusActive, StatusFinished},
	StatusFinished:  nil,
}

func canTransition(from, to Status) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func checkTransition(from, to Status) error {
	if !canTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}

// Tracking reports whether the session still owns a timer or may acquire one.
func (s Status) Tracking() bool {
	return s == StatusCountdown || s == StatusActive || s == StatusPaused
}
