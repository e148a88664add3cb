// Package timer keeps the period clock as a wall-clock anchor instead of a
// ticked counter: elapsed time is recomputed from real time on every read,
// so a reload or reconnect never drifts the clock.
package timer

import (
	"fmt"
	"time"
)

// State is the loosely synchronized clock value shared alongside a match.
type State struct {
	StartedAt          time.Time `json:"startedAt,omitempty"`
	Running            bool      `json:"running"`
	AccumulatedSeconds int       `json:"accumulatedSeconds"`
}

// Start anchors the clock to now. Starting a running clock is a no-op.
func (s State) Start(now time.Time) State {
	if s.Running {
		return s
	}
	s.StartedAt = now
	s.Running = true
	return s
}

// Pause banks the elapsed segment and stops the clock.
func (s State) Pause(now time.Time) State {
	if !s.Running {
		return s
	}
	s.AccumulatedSeconds += int(now.Sub(s.StartedAt) / time.Second)
	s.Running = false
	s.StartedAt = time.Time{}
	return s
}

// Reset clears the clock for the next period.
func (s State) Reset() State {
	return State{}
}

// ElapsedSeconds is the total played time as of now.
func (s State) ElapsedSeconds(now time.Time) int {
	total := s.AccumulatedSeconds
	if s.Running {
		total += int(now.Sub(s.StartedAt) / time.Second)
	}
	if total < 0 {
		return 0
	}
	return total
}

// CurrentMinute is the elapsed minute used to stamp events.
func (s State) CurrentMinute(now time.Time) int {
	return s.ElapsedSeconds(now) / 60
}

// FormatTime renders a second count as MM:SS.
func FormatTime(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
