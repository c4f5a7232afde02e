// Package timer operates the pomodoro countdown and drives each goal
// session from start to finalization.
package timer

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/huh"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/kballard/go-shellquote"
	"github.com/pterm/pterm"

	bolt "go.etcd.io/bbolt"

	"github.com/sramzz/pomodorowithsound/config"
	"github.com/sramzz/pomodorowithsound/internal/session"
	"github.com/sramzz/pomodorowithsound/internal/timeutil"
	"github.com/sramzz/pomodorowithsound/store"
)

// EndReason identifies what settled a session.
type EndReason string

const (
	// EndUser marks a session ended by the user before the countdown
	// ran out.
	EndUser EndReason = "user"
	// EndExpired marks a session that ran its full course.
	EndExpired EndReason = "expired"
)

// Timer drives a goal session from start to finalization. It also
// doubles as the bubbletea model for the countdown interface.
type Timer struct {
	mu       sync.Mutex
	db       store.DB
	clock    Clock
	engine   *Engine
	notifier Notifier
	current  *session.Session
	goal     string

	Opts        *config.TimerConfig
	SoundStream beep.Streamer

	// interface state
	events             <-chan Event
	progress           progress.Model
	help               help.Model
	styles             styles
	goalForm           *huh.Form
	soundForm          *huh.Form
	settings           string
	soundSelection     string
	ambientStarted     bool
	waitForNextSession bool
	err                error
}

// Status represents the status of a running timer.
type Status struct {
	Goal      string    `json:"goal"`
	State     State     `json:"state"`
	EndTime   time.Time `json:"end_time"`
	Remaining int       `json:"remaining_seconds"`
}

// New creates a new timer with the user's configuration.
func New(dbClient store.DB, cfg *config.TimerConfig) (*Timer, error) {
	t, err := newTimer(dbClient, cfg, newDesktopNotifier(cfg), EngineOptions{})
	if err != nil {
		return nil, err
	}

	err = t.setAmbientSound()
	if err != nil {
		return nil, err
	}

	return t, nil
}

// newTimer wires the countdown engine to the session lifecycle. It
// exists apart from New so tests can supply a fake clock, scheduler,
// and notifier.
func newTimer(
	dbClient store.DB,
	cfg *config.TimerConfig,
	notifier Notifier,
	engineOpts EngineOptions,
) (*Timer, error) {
	if engineOpts.Clock == nil {
		engineOpts.Clock = systemClock{}
	}

	engine := NewEngine(engineOpts)

	err := engine.Configure(cfg.Duration)
	if err != nil {
		return nil, err
	}

	t := &Timer{
		db:       dbClient,
		clock:    engineOpts.Clock,
		engine:   engine,
		notifier: notifier,
		Opts:     cfg,
		progress: progress.New(progress.WithDefaultGradient()),
		help:     help.New(),
		styles:   newStyles(cfg.DarkTheme),
	}

	engine.onExpire(func() {
		_ = t.End(EndExpired)
	})

	return t, nil
}

// SetGoal presets the goal for the next session. When left empty, the
// interface prompts for one before starting.
func (t *Timer) SetGoal(goal string) {
	t.goal = strings.TrimSpace(goal)
}

// Start begins a countdown for the specified goal, or resumes the
// current session if it is paused. Starting while already running is a
// no-op.
func (t *Timer) Start(goal string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.clock.Now()

	if t.current != nil {
		err := t.engine.Resume()
		if err != nil {
			return ignoreInvalidTransition("start", err)
		}

		t.current.EndPause(now)

		_ = t.writeStatusFile()

		return nil
	}

	sess, err := session.New(goal, now)
	if err != nil {
		return err
	}

	err = t.engine.Start()
	if err != nil {
		return ignoreInvalidTransition("start", err)
	}

	t.current = sess

	_ = t.writeStatusFile()

	return nil
}

// Pause suspends a running countdown and opens a pause window on the
// session. Pausing while not running is a no-op.
func (t *Timer) Pause() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	err := t.engine.Pause()
	if err != nil {
		return ignoreInvalidTransition("pause", err)
	}

	if t.current != nil {
		t.current.BeginPause(t.clock.Now())
	}

	_ = t.writeStatusFile()

	return nil
}

// End settles the active session: it finalizes the record, appends it
// to the store, and returns the engine to idle with the configured
// duration. Ending twice is a no-op, so user cancellation and expiry
// cannot both settle the same session. Expiry additionally notifies the
// user and runs the configured session command.
func (t *Timer) End(reason EndReason) error {
	t.mu.Lock()

	if t.current == nil || t.current.Finalized() {
		t.mu.Unlock()

		slog.Debug(
			"end request ignored: no active session",
			slog.String("reason", string(reason)),
		)

		return nil
	}

	now := t.clock.Now()
	sess := t.current

	if t.SoundStream != nil {
		speaker.Clear()
	}

	if reason == EndExpired {
		err := t.notifier.Notify(sess.Goal)
		if err != nil {
			slog.Debug(
				"completion notification failed",
				slog.Any("error", err),
			)
		}
	}

	sess.Finalize(now)

	err := t.db.Append(sess)
	if err != nil {
		slog.Error(
			"unable to record completed session",
			slog.String("goal", sess.Goal),
			slog.Any("error", err),
		)
	}

	t.current = nil

	_ = t.engine.Reset(t.Opts.Duration)

	_ = t.writeStatusFile()

	var sessionCmd string
	if reason == EndExpired {
		sessionCmd = t.Opts.SessionCmd
	}

	t.mu.Unlock()

	if sessionCmd != "" {
		err := t.runSessionCmd(sessionCmd)
		if err != nil {
			slog.Error(
				"unable to run session command",
				slog.Any("error", err),
			)
		}
	}

	return nil
}

// SetDuration changes the countdown length for future sessions. It is
// ignored while a session is active.
func (t *Timer) SetDuration(d time.Duration) error {
	if d <= 0 {
		return errInvalidDuration
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.current != nil {
		slog.Debug("duration change ignored while a session is active")

		return nil
	}

	err := t.engine.Reset(d)
	if err != nil {
		return err
	}

	t.Opts.Duration = d

	return nil
}

// State reports the current countdown state.
func (t *Timer) State() State {
	return t.engine.State()
}

// Remaining reports the time left on the countdown.
func (t *Timer) Remaining() time.Duration {
	return t.engine.Remaining()
}

// Current returns a copy of the active session, or nil when none is
// running.
func (t *Timer) Current() *session.Session {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.current == nil {
		return nil
	}

	return t.current.Clone()
}

// Events exposes countdown events for rendering.
func (t *Timer) Events(buffer int) <-chan Event {
	return t.engine.Subscribe(buffer)
}

// ignoreInvalidTransition downgrades disallowed state transitions to a
// debug log so that duplicate key presses stay harmless.
func ignoreInvalidTransition(op string, err error) error {
	if errors.Is(err, errInvalidTransition) {
		slog.Debug(
			"ignoring invalid transition",
			slog.String("op", op),
			slog.Any("error", err),
		)

		return nil
	}

	return err
}

// runSessionCmd executes the specified command.
func (t *Timer) runSessionCmd(sessionCmd string) error {
	cmdSlice, err := shellquote.Split(sessionCmd)
	if err != nil {
		return fmt.Errorf("unable to parse session_cmd option: %w", err)
	}

	if len(cmdSlice) == 0 {
		return nil
	}

	name := cmdSlice[0]
	args := cmdSlice[1:]

	cmd := exec.Command(name, args...)

	return cmd.Run()
}

// writeStatusFile records the timer status in the data directory so
// that other processes can report on it. With no active session the
// file is removed instead.
func (t *Timer) writeStatusFile() error {
	statusFilePath := config.StatusFilePath()

	if t.current == nil {
		err := os.Remove(statusFilePath)
		if err != nil && !os.IsNotExist(err) {
			return err
		}

		return nil
	}

	deadline, _ := t.engine.Deadline()

	s := Status{
		Goal:      t.current.Goal,
		State:     t.engine.State(),
		EndTime:   deadline,
		Remaining: t.engine.RemainingSeconds(),
	}

	b, err := json.Marshal(s)
	if err != nil {
		return err
	}

	statusFile, err := os.Create(statusFilePath)
	if err != nil {
		return err
	}

	writer := bufio.NewWriter(statusFile)

	_, err = writer.Write(b)
	if err != nil {
		_ = statusFile.Close()

		return err
	}

	err = writer.Flush()
	if err != nil {
		_ = statusFile.Close()

		return err
	}

	return statusFile.Close()
}

// ReportStatus reports the status of the currently running timer.
func (t *Timer) ReportStatus() error {
	dbFilePath := config.DBFilePath()
	statusFilePath := config.StatusFilePath()

	var fileMode fs.FileMode = 0o600

	db, err := bolt.Open(dbFilePath, fileMode, &bolt.Options{
		Timeout: 100 * time.Millisecond,
	})
	// acquiring the lock means no timer is running, so there is no
	// status to report
	if err == nil {
		return db.Close()
	}

	if !errors.Is(err, bolt.ErrDatabaseOpen) &&
		!errors.Is(err, bolt.ErrTimeout) {
		return err
	}

	fileBytes, err := os.ReadFile(statusFilePath)
	if err != nil {
		// missing file should not return an error
		return nil
	}

	var s Status

	err = json.Unmarshal(fileBytes, &s)
	if err != nil {
		return err
	}

	remaining := s.Remaining
	if s.State == StateRunning {
		remaining = timeutil.Round(time.Until(s.EndTime).Seconds())
	}

	if remaining < 0 {
		return nil
	}

	mins, secs := timeutil.SecsToMinsAndSecs(float64(remaining))

	text := fmt.Sprintf("[%s]", s.Goal)
	if s.State == StatePaused {
		text += " (paused)"
	}

	pterm.Printfln("%s: %02d:%02d", text, mins, secs)

	return nil
}
