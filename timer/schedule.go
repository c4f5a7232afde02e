package timer

import "time"

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// Trigger is a scheduled callback that can be cancelled.
type Trigger interface {
	Stop()
}

// Scheduler arranges callbacks to run later. Once fires fn a single time
// after d elapses; Every fires fn repeatedly every d until stopped.
type Scheduler interface {
	Once(d time.Duration, fn func()) Trigger
	Every(d time.Duration, fn func()) Trigger
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

type systemScheduler struct{}

type timerTrigger struct {
	timer *time.Timer
}

func (t timerTrigger) Stop() {
	t.timer.Stop()
}

func (systemScheduler) Once(d time.Duration, fn func()) Trigger {
	return timerTrigger{timer: time.AfterFunc(d, fn)}
}

type tickerTrigger struct {
	done chan struct{}
}

func (t *tickerTrigger) Stop() {
	close(t.done)
}

func (systemScheduler) Every(d time.Duration, fn func()) Trigger {
	trigger := &tickerTrigger{done: make(chan struct{})}

	ticker := time.NewTicker(d)

	go func() {
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				fn()
			case <-trigger.done:
				return
			}
		}
	}()

	return trigger
}
