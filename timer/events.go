package timer

import "time"

// State represents the current engine mode.
type State string

const (
	StateIdle    State = "idle"
	StateRunning State = "running"
	StatePaused  State = "paused"
	StateExpired State = "expired"
)

// EventType defines the type of engine event.
type EventType string

const (
	// EventStateChange reports a transition between engine states.
	EventStateChange EventType = "state_change"
	// EventTick is a cosmetic refresh carrying the recomputed remaining
	// time.
	EventTick EventType = "tick"
	// EventExpired reports that the countdown reached its deadline.
	EventExpired EventType = "expired"
)

// Event represents an engine update for observers.
type Event struct {
	Type      EventType
	State     State
	Remaining time.Duration
	At        time.Time
}
