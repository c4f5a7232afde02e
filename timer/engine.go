package timer

import (
	"sync"
	"time"

	"github.com/sramzz/pomodorowithsound/internal/timeutil"
)

// EngineOptions contains runtime options for the countdown engine.
type EngineOptions struct {
	Clock        Clock
	Scheduler    Scheduler
	TickInterval time.Duration
}

// Engine is a deadline-based countdown state machine. When started it
// schedules a one-shot completion trigger for the deadline and a
// repeating refresh trigger. The one-shot is the sole authority for
// expiry; refresh ticks only recompute the remaining time from the
// absolute deadline, so a stalled or delayed tick can never make the
// countdown drift.
type Engine struct {
	mu         sync.Mutex
	clock      Clock
	scheduler  Scheduler
	tick       time.Duration
	state      State
	remaining  time.Duration
	deadline   time.Time
	epoch      uint64
	completion Trigger
	refresh    Trigger
	expireFn   func()
	events     []chan Event
}

// NewEngine creates an idle engine. Zero-value options fall back to the
// system clock, system timers, and a one-second refresh interval.
func NewEngine(options EngineOptions) *Engine {
	if options.Clock == nil {
		options.Clock = systemClock{}
	}

	if options.Scheduler == nil {
		options.Scheduler = systemScheduler{}
	}

	if options.TickInterval <= 0 {
		options.TickInterval = time.Second
	}

	return &Engine{
		clock:     options.Clock,
		scheduler: options.Scheduler,
		tick:      options.TickInterval,
		state:     StateIdle,
	}
}

// Subscribe registers a new observer channel. Delivery is best-effort: a
// full channel drops the event rather than blocking the engine.
func (e *Engine) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}

	ch := make(chan Event, buffer)

	e.mu.Lock()
	e.events = append(e.events, ch)
	e.mu.Unlock()

	return ch
}

func (e *Engine) emitLocked(event Event) {
	for _, ch := range e.events {
		select {
		case ch <- event:
		default:
		}
	}
}

// onExpire registers fn to run when the completion trigger fires. Unlike
// subscriptions, fn is called synchronously and is never dropped, so the
// session lifecycle can rely on it. It runs outside the engine lock.
func (e *Engine) onExpire(fn func()) {
	e.mu.Lock()
	e.expireFn = fn
	e.mu.Unlock()
}

// State returns the current engine state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.state
}

func (e *Engine) remainingLocked() time.Duration {
	if e.state != StateRunning {
		return e.remaining
	}

	rem := e.deadline.Sub(e.clock.Now())
	if rem < 0 {
		rem = 0
	}

	return rem
}

// Remaining returns the time left on the countdown. While running it is
// derived from the deadline; while paused or idle it is the frozen value.
func (e *Engine) Remaining() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.remainingLocked()
}

// RemainingSeconds returns the remaining time rounded to whole seconds.
func (e *Engine) RemainingSeconds() int {
	return timeutil.Round(e.Remaining().Seconds())
}

// Deadline returns the absolute completion time. The second return value
// is false unless the engine is running.
func (e *Engine) Deadline() (time.Time, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.deadline, e.state == StateRunning
}

// Configure sets the countdown duration on an idle engine.
func (e *Engine) Configure(d time.Duration) error {
	if d <= 0 {
		return errInvalidDuration
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateIdle {
		return errInvalidTransition
	}

	e.remaining = d

	e.emitLocked(Event{
		Type:      EventTick,
		State:     e.state,
		Remaining: d,
		At:        e.clock.Now(),
	})

	return nil
}

// Start begins or resumes the countdown against a fresh deadline
// computed from the remaining time.
func (e *Engine) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateIdle && e.state != StatePaused {
		return errInvalidTransition
	}

	// A pause can land exactly on the deadline, leaving zero remaining
	// time. Resuming that is allowed and schedules an immediate
	// completion.
	if e.state == StateIdle && e.remaining <= 0 {
		return errNoDuration
	}

	now := e.clock.Now()

	e.deadline = now.Add(e.remaining)
	e.state = StateRunning
	e.epoch++

	epoch := e.epoch
	e.completion = e.scheduler.Once(e.remaining, func() { e.expire(epoch) })
	e.refresh = e.scheduler.Every(e.tick, func() { e.reconcile(epoch) })

	e.emitLocked(Event{
		Type:      EventStateChange,
		State:     StateRunning,
		Remaining: e.remaining,
		At:        now,
	})

	return nil
}

// Resume restarts a paused countdown.
func (e *Engine) Resume() error {
	return e.Start()
}

// Pause freezes the remaining time and cancels both triggers. The epoch
// bump invalidates a trigger that already fired but has not yet acquired
// the lock, so cancellation always wins that race.
func (e *Engine) Pause() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateRunning {
		return errInvalidTransition
	}

	now := e.clock.Now()

	rem := e.deadline.Sub(now)
	if rem < 0 {
		rem = 0
	}

	e.remaining = rem
	e.deadline = time.Time{}
	e.state = StatePaused
	e.epoch++
	e.stopTriggersLocked()

	e.emitLocked(Event{
		Type:      EventStateChange,
		State:     StatePaused,
		Remaining: rem,
		At:        now,
	})

	return nil
}

// Reset cancels any scheduled work and returns the engine to idle with
// the given duration.
func (e *Engine) Reset(d time.Duration) error {
	if d <= 0 {
		return errInvalidDuration
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.epoch++
	e.stopTriggersLocked()
	e.state = StateIdle
	e.remaining = d
	e.deadline = time.Time{}

	e.emitLocked(Event{
		Type:      EventStateChange,
		State:     StateIdle,
		Remaining: d,
		At:        e.clock.Now(),
	})

	return nil
}

// Close stops all scheduled work and closes observer channels.
func (e *Engine) Close() {
	e.mu.Lock()

	e.epoch++
	e.stopTriggersLocked()

	events := e.events
	e.events = nil

	e.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

func (e *Engine) stopTriggersLocked() {
	if e.completion != nil {
		e.completion.Stop()
		e.completion = nil
	}

	if e.refresh != nil {
		e.refresh.Stop()
		e.refresh = nil
	}
}

// expire handles the one-shot completion trigger. A stale epoch means
// the countdown was paused or reset after the trigger fired; it must do
// nothing.
func (e *Engine) expire(epoch uint64) {
	e.mu.Lock()

	if epoch != e.epoch || e.state != StateRunning {
		e.mu.Unlock()
		return
	}

	now := e.clock.Now()

	e.state = StateExpired
	e.remaining = 0
	e.epoch++
	e.stopTriggersLocked()

	fn := e.expireFn

	e.emitLocked(Event{
		Type:      EventExpired,
		State:     StateExpired,
		Remaining: 0,
		At:        now,
	})

	e.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// reconcile handles the repeating refresh trigger. It republishes the
// remaining time derived from the deadline and never drives expiry, even
// after the remaining time reaches zero.
func (e *Engine) reconcile(epoch uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if epoch != e.epoch || e.state != StateRunning {
		return
	}

	now := e.clock.Now()

	rem := e.deadline.Sub(now)
	if rem < 0 {
		rem = 0
	}

	e.remaining = rem

	e.emitLocked(Event{
		Type:      EventTick,
		State:     StateRunning,
		Remaining: rem,
		At:        now,
	})
}
