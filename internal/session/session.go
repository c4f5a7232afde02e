// Package session defines goal-oriented work sessions and their pause
// bookkeeping.
package session

import (
	"errors"
	"strings"
	"time"

	"github.com/sramzz/pomodorowithsound/internal/timeutil"
)

// ErrEmptyGoal is reported when a session is created without a goal.
var ErrEmptyGoal = errors.New("goal must not be empty or whitespace")

// Pause is a single pause interval within a session. ResumeTime is nil
// while the pause is still open.
type Pause struct {
	PauseTime  time.Time  `json:"pauseTime"`
	ResumeTime *time.Time `json:"resumeTime"`
}

// Session represents a single timed work session directed at a goal.
type Session struct {
	Goal      string    `json:"goal"`
	StartTime time.Time `json:"startTime"`
	// EndTime remains zero until the session is finalized.
	EndTime time.Time `json:"endTime,omitzero"`
	Pauses  []Pause   `json:"pauses"`
	// Duration is the net working time in seconds, computed once at
	// finalization.
	Duration int `json:"duration"`
}

// New creates an unfinalized session for the given goal, started at the
// given time.
func New(goal string, startTime time.Time) (*Session, error) {
	goal = strings.TrimSpace(goal)
	if goal == "" {
		return nil, ErrEmptyGoal
	}

	return &Session{
		Goal:      goal,
		StartTime: startTime,
	}, nil
}

// Finalized reports whether the session has ended.
func (s *Session) Finalized() bool {
	return !s.EndTime.IsZero()
}

// Paused reports whether the session currently has an open pause.
func (s *Session) Paused() bool {
	return s.openPause() != nil
}

func (s *Session) openPause() *Pause {
	if len(s.Pauses) == 0 {
		return nil
	}

	last := &s.Pauses[len(s.Pauses)-1]
	if last.ResumeTime == nil {
		return last
	}

	return nil
}

// BeginPause opens a new pause interval. It does nothing if the session
// is already paused or finalized.
func (s *Session) BeginPause(now time.Time) {
	if s.Finalized() || s.Paused() {
		return
	}

	s.Pauses = append(s.Pauses, Pause{PauseTime: now})
}

// EndPause closes the open pause interval, if any.
func (s *Session) EndPause(now time.Time) {
	p := s.openPause()
	if p == nil {
		return
	}

	t := now
	p.ResumeTime = &t
}

// PausedTime returns the total time spent in closed pause intervals.
func (s *Session) PausedTime() time.Duration {
	var total time.Duration

	for i := range s.Pauses {
		p := s.Pauses[i]
		if p.ResumeTime == nil {
			continue
		}

		total += p.ResumeTime.Sub(p.PauseTime)
	}

	return total
}

// Finalize ends the session at the given time and computes its net
// duration. A pause that is still open is closed at the same instant so
// that the paused stretch never counts as working time. Finalizing an
// already finalized session has no effect.
func (s *Session) Finalize(now time.Time) {
	if s.Finalized() {
		return
	}

	s.EndPause(now)

	s.EndTime = now

	net := now.Sub(s.StartTime) - s.PausedTime()
	if net < 0 {
		net = 0
	}

	s.Duration = timeutil.Round(net.Seconds())
}

// Clone returns a deep copy of the session.
func (s *Session) Clone() *Session {
	c := *s

	if s.Pauses != nil {
		c.Pauses = make([]Pause, len(s.Pauses))

		for i := range s.Pauses {
			c.Pauses[i] = s.Pauses[i]

			if s.Pauses[i].ResumeTime != nil {
				t := *s.Pauses[i].ResumeTime
				c.Pauses[i].ResumeTime = &t
			}
		}
	}

	return &c
}
