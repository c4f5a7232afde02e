package timer

import (
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/davecgh/go-spew/spew"
	"github.com/gopxl/beep/v2/speaker"

	"github.com/sramzz/pomodorowithsound/config"
	"github.com/sramzz/pomodorowithsound/internal/session"
)

const (
	padding  = 2
	maxWidth = 80
)

const soundView = "sound"

const eventBuffer = 8

const durationStep = 5 * time.Minute

// errMsg reports a failure from a background command.
type errMsg struct{ err error }

// Err returns the error that stopped the interface, if any.
func (t *Timer) Err() error {
	return t.err
}

// Init subscribes to countdown events and either starts the session
// right away or prompts for a goal first.
func (t *Timer) Init() tea.Cmd {
	t.events = t.Events(eventBuffer)

	if t.goal == "" {
		t.goalForm = newGoalForm(&t.goal)

		return tea.Batch(t.goalForm.Init(), t.nextEvent())
	}

	return tea.Batch(t.startSession(), t.nextEvent())
}

func newGoalForm(goal *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("What are you working on?").
				Value(goal).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return session.ErrEmptyGoal
					}

					return nil
				}),
		),
	)
}

func (t *Timer) newSoundForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Ambient sound").
				Options(huh.NewOptions(SoundOpts()...)...).
				Value(&t.soundSelection),
		),
	)
}

// nextEvent waits for the next countdown event.
func (t *Timer) nextEvent() tea.Cmd {
	return func() tea.Msg {
		event, ok := <-t.events
		if !ok {
			return nil
		}

		return event
	}
}

// startSession begins the countdown for the current goal.
func (t *Timer) startSession() tea.Cmd {
	return func() tea.Msg {
		err := t.Start(t.goal)
		if err != nil {
			return errMsg{err}
		}

		return nil
	}
}

// togglePlay pauses a running countdown or resumes a paused one.
func (t *Timer) togglePlay() tea.Cmd {
	return func() tea.Msg {
		var err error

		if t.State() == StateRunning {
			err = t.Pause()
		} else {
			err = t.Start(t.goal)
		}

		if err != nil {
			return errMsg{err}
		}

		return nil
	}
}

// quit ends the session and leaves the program.
func (t *Timer) quit() tea.Cmd {
	_ = t.End(EndUser)

	return tea.Batch(tea.ClearScreen, tea.Quit)
}

// syncAmbientSound starts, suspends, or resumes the ambient sound to
// match the countdown state.
func (t *Timer) syncAmbientSound(state State) {
	if t.SoundStream == nil {
		return
	}

	switch state {
	case StateRunning:
		if !t.ambientStarted {
			speaker.Play(t.SoundStream)
			t.ambientStarted = true

			return
		}

		_ = speaker.Resume()
	case StatePaused:
		_ = speaker.Suspend()
	case StateIdle, StateExpired:
	}
}

// handleGoalForm routes messages to the goal prompt until it completes.
func (t *Timer) handleGoalForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.String() == "ctrl+c" {
			return t, tea.Batch(tea.ClearScreen, tea.Quit)
		}
	}

	form, cmd := t.goalForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		t.goalForm = f

		if t.goalForm.State == huh.StateCompleted {
			t.goalForm = nil
			t.goal = strings.TrimSpace(t.goal)

			return t, t.startSession()
		}
	}

	return t, cmd
}

// handleSoundForm routes messages to the ambient sound picker and
// applies the selection once it completes.
func (t *Timer) handleSoundForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	slog.Debug(spew.Sdump(msg))

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case keyMsg.String() == "ctrl+c":
			return t, t.quit()
		case key.Matches(keyMsg, defaultKeymap.esc):
			t.soundForm = nil
			t.settings = ""

			return t, nil
		}
	}

	form, cmd := t.soundForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		t.soundForm = f

		if t.soundForm.State == huh.StateCompleted {
			t.soundForm = nil
			t.settings = ""
			t.applySoundSelection()

			return t, nil
		}
	}

	return t, cmd
}

// applySoundSelection swaps the ambient sound for the picked one and
// restarts playback when the countdown is running.
func (t *Timer) applySoundSelection() {
	previous := t.SoundStream

	if t.soundSelection == config.SoundOff {
		t.Opts.AmbientSound = ""
	} else {
		t.Opts.AmbientSound = t.soundSelection
	}

	err := t.setAmbientSound()
	if err != nil {
		// keep the previous sound if the new one cannot be loaded
		slog.Error("unable to set ambient sound", slog.Any("error", err))

		return
	}

	if previous != nil || t.SoundStream != nil {
		speaker.Clear()
	}

	t.ambientStarted = false

	if t.SoundStream != nil && t.State() == StateRunning {
		speaker.Play(t.SoundStream)
		t.ambientStarted = true
	}
}

func (t *Timer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if t.goalForm != nil {
		return t.handleGoalForm(msg)
	}

	if t.soundForm != nil {
		return t.handleSoundForm(msg)
	}

	switch msg := msg.(type) {
	case Event:
		switch msg.Type {
		case EventExpired:
			t.waitForNextSession = true
			t.ambientStarted = false
		case EventStateChange:
			t.syncAmbientSound(msg.State)
		case EventTick:
		}

		return t, t.nextEvent()

	case errMsg:
		t.err = msg.err

		return t, tea.Quit

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, defaultKeymap.enter):
			if t.waitForNextSession {
				t.waitForNextSession = false

				return t, t.startSession()
			}

			return t, nil

		case key.Matches(msg, defaultKeymap.sound):
			t.soundSelection = t.Opts.AmbientSound
			if t.soundSelection == "" {
				t.soundSelection = config.SoundOff
			}

			t.soundForm = t.newSoundForm()
			t.settings = soundView

			return t, t.soundForm.Init()

		case key.Matches(msg, defaultKeymap.lengthen):
			if t.waitForNextSession {
				_ = t.SetDuration(t.Opts.Duration + durationStep)
			}

			return t, nil

		case key.Matches(msg, defaultKeymap.shorten):
			if t.waitForNextSession {
				if d := t.Opts.Duration - durationStep; d > 0 {
					_ = t.SetDuration(d)
				}
			}

			return t, nil

		case key.Matches(msg, defaultKeymap.togglePlay):
			if t.waitForNextSession {
				return t, nil
			}

			return t, t.togglePlay()

		case key.Matches(msg, defaultKeymap.quit):
			return t, t.quit()
		}

	case tea.WindowSizeMsg:
		t.progress.Width = msg.Width - padding*2 - 4
		if t.progress.Width > maxWidth {
			t.progress.Width = maxWidth
		}

		return t, nil

		// FrameMsg is sent when the progress bar wants to animate itself
	case progress.FrameMsg:
		var progressModel tea.Model

		progressModel, cmd = t.progress.Update(msg)
		t.progress, _ = progressModel.(progress.Model)

		return t, cmd
	}

	return t, nil
}
