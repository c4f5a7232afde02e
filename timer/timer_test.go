package timer

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/adrg/xdg"
	"github.com/google/go-cmp/cmp"
	"github.com/pterm/pterm"

	"github.com/sramzz/pomodorowithsound/config"
	"github.com/sramzz/pomodorowithsound/internal/session"
)

func TestMain(m *testing.M) {
	// Redirect XDG directories and use the testing environment so that
	// tests never touch real configuration or data.
	tmpDir, err := os.MkdirTemp("", "pomodoro-timer-test")
	if err != nil {
		log.Fatal(err)
	}

	os.Setenv("XDG_CONFIG_HOME", tmpDir)
	os.Setenv("XDG_DATA_HOME", tmpDir)
	os.Setenv("POMODORO_ENV", "testing")

	xdg.Reload()

	config.InitializePaths()

	pterm.DisableOutput()

	// several tests exercise failure paths on purpose
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))

	code := m.Run()

	err = os.RemoveAll(tmpDir)
	if err != nil {
		log.Fatal(err)
	}

	os.Exit(code)
}

type dbMock struct {
	mu        sync.Mutex
	sessions  []*session.Session
	appendErr error
}

func (d *dbMock) Append(sess *session.Session) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.appendErr != nil {
		return d.appendErr
	}

	d.sessions = append(d.sessions, sess.Clone())

	return nil
}

func (d *dbMock) GetSessions(
	startTime, endTime time.Time,
) ([]*session.Session, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var result []*session.Session

	for _, s := range d.sessions {
		if s.StartTime.Before(startTime) || s.StartTime.After(endTime) {
			continue
		}

		result = append(result, s.Clone())
	}

	return result, nil
}

func (d *dbMock) DeleteSessions(sessions []*session.Session) error {
	return nil
}

func (d *dbMock) DeleteAll() error {
	d.mu.Lock()
	d.sessions = nil
	d.mu.Unlock()

	return nil
}

func (d *dbMock) Close() error { return nil }

func (d *dbMock) saved() []*session.Session {
	d.mu.Lock()
	defer d.mu.Unlock()

	result := make([]*session.Session, len(d.sessions))
	copy(result, d.sessions)

	return result
}

type notifierMock struct {
	mu    sync.Mutex
	goals []string
	err   error
}

func (n *notifierMock) Notify(goal string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.goals = append(n.goals, goal)

	return n.err
}

func (n *notifierMock) notified() []string {
	n.mu.Lock()
	defer n.mu.Unlock()

	return append([]string(nil), n.goals...)
}

type testTimer struct {
	timer     *Timer
	clock     *fakeClock
	scheduler *fakeScheduler
	db        *dbMock
	notifier  *notifierMock
}

func newTestTimer(t *testing.T, d time.Duration) *testTimer {
	t.Helper()

	clock := newFakeClock(
		time.Date(2024, time.April, 2, 9, 0, 0, 0, time.UTC),
	)
	scheduler := &fakeScheduler{}
	db := &dbMock{}
	notifier := &notifierMock{}

	cfg := &config.TimerConfig{
		Duration: d,
		Notify:   true,
	}

	tm, err := newTimer(db, cfg, notifier, EngineOptions{
		Clock:     clock,
		Scheduler: scheduler,
	})
	if err != nil {
		t.Fatalf("newTimer: %v", err)
	}

	return &testTimer{
		timer:     tm,
		clock:     clock,
		scheduler: scheduler,
		db:        db,
		notifier:  notifier,
	}
}

// expire fires the pending completion trigger as if its deadline just
// arrived.
func (tt *testTimer) expire(t *testing.T) {
	t.Helper()

	tt.clock.Advance(tt.timer.Remaining())
	tt.scheduler.lastOnce(t).fn()
}

func TestTimerRunsToCompletion(t *testing.T) {
	tt := newTestTimer(t, time.Minute)

	startTime := tt.clock.Now()

	if err := tt.timer.Start("write report"); err != nil {
		t.Fatalf("Start: %v", err)
	}

	stale := tt.scheduler.lastOnce(t)

	tt.expire(t)

	saved := tt.db.saved()
	if len(saved) != 1 {
		t.Fatalf("saved %d sessions, want 1", len(saved))
	}

	got := saved[0]

	if got.Goal != "write report" {
		t.Errorf("saved goal = %q, want %q", got.Goal, "write report")
	}

	if got.Duration != 60 {
		t.Errorf("saved duration = %d, want 60", got.Duration)
	}

	if len(got.Pauses) != 0 {
		t.Errorf("saved pauses = %+v, want none", got.Pauses)
	}

	if want := startTime.Add(time.Minute); !got.EndTime.Equal(want) {
		t.Errorf("saved end time = %v, want %v", got.EndTime, want)
	}

	if notified := tt.notifier.notified(); len(notified) != 1 ||
		notified[0] != "write report" {
		t.Errorf("notified goals = %v, want [write report]", notified)
	}

	if got := tt.timer.State(); got != StateIdle {
		t.Errorf("State() after completion = %v, want %v", got, StateIdle)
	}

	if got := tt.timer.Remaining(); got != time.Minute {
		t.Errorf("Remaining() after completion = %v, want %v", got, time.Minute)
	}

	if tt.timer.Current() != nil {
		t.Error("Current() is not nil after completion")
	}

	// the same trigger firing again must not settle anything twice
	stale.fn()

	// neither must a late cancellation
	if err := tt.timer.End(EndUser); err != nil {
		t.Fatalf("End after completion: %v", err)
	}

	if len(tt.db.saved()) != 1 {
		t.Fatal("session was settled more than once")
	}

	if len(tt.notifier.notified()) != 1 {
		t.Fatal("completion was notified more than once")
	}
}

func TestTimerPauseResumeExcludesPausedTime(t *testing.T) {
	tt := newTestTimer(t, time.Minute)

	startTime := tt.clock.Now()

	if err := tt.timer.Start("deep work"); err != nil {
		t.Fatalf("Start: %v", err)
	}

	tt.clock.Advance(10 * time.Second)

	if err := tt.timer.Pause(); err != nil {
		t.Fatalf("Pause: %v", err)
	}

	if got := tt.timer.State(); got != StatePaused {
		t.Fatalf("State() = %v, want %v", got, StatePaused)
	}

	if got := tt.timer.Remaining(); got != 50*time.Second {
		t.Fatalf("Remaining() while paused = %v, want %v", got, 50*time.Second)
	}

	tt.clock.Advance(5 * time.Second)

	if err := tt.timer.Start("deep work"); err != nil {
		t.Fatalf("resume: %v", err)
	}

	tt.clock.Advance(5 * time.Second)

	if err := tt.timer.End(EndUser); err != nil {
		t.Fatalf("End: %v", err)
	}

	saved := tt.db.saved()
	if len(saved) != 1 {
		t.Fatalf("saved %d sessions, want 1", len(saved))
	}

	resumeTime := startTime.Add(15 * time.Second)

	want := &session.Session{
		Goal:      "deep work",
		StartTime: startTime,
		EndTime:   startTime.Add(20 * time.Second),
		Pauses: []session.Pause{
			{
				PauseTime:  startTime.Add(10 * time.Second),
				ResumeTime: &resumeTime,
			},
		},
		// 20 seconds elapsed minus the 5 second pause
		Duration: 15,
	}

	if diff := cmp.Diff(want, saved[0]); diff != "" {
		t.Errorf("saved session mismatch (-want +got):\n%s", diff)
	}

	// a user-initiated end must not notify
	if len(tt.notifier.notified()) != 0 {
		t.Error("user cancellation produced a completion notification")
	}
}

func TestTimerMultiplePauses(t *testing.T) {
	tt := newTestTimer(t, 10*time.Minute)

	if err := tt.timer.Start("study"); err != nil {
		t.Fatalf("Start: %v", err)
	}

	// 60s paused, then 120s paused, inside 600s of wall time
	tt.clock.Advance(time.Minute)

	if err := tt.timer.Pause(); err != nil {
		t.Fatalf("Pause: %v", err)
	}

	tt.clock.Advance(time.Minute)

	if err := tt.timer.Start("study"); err != nil {
		t.Fatalf("resume: %v", err)
	}

	tt.clock.Advance(2 * time.Minute)

	if err := tt.timer.Pause(); err != nil {
		t.Fatalf("Pause: %v", err)
	}

	tt.clock.Advance(2 * time.Minute)

	if err := tt.timer.Start("study"); err != nil {
		t.Fatalf("resume: %v", err)
	}

	tt.clock.Advance(4 * time.Minute)

	if err := tt.timer.End(EndUser); err != nil {
		t.Fatalf("End: %v", err)
	}

	saved := tt.db.saved()
	if len(saved) != 1 {
		t.Fatalf("saved %d sessions, want 1", len(saved))
	}

	if got := saved[0].Duration; got != 420 {
		t.Errorf("net duration = %d, want 420", got)
	}

	if got := len(saved[0].Pauses); got != 2 {
		t.Errorf("saved %d pauses, want 2", got)
	}

	for i, p := range saved[0].Pauses {
		if p.ResumeTime == nil {
			t.Errorf("pause %d was never closed", i)
		}
	}
}

// A session that runs its full course nets exactly the configured
// duration, no matter how long it spent paused along the way.
func TestTimerExpiredDurationExcludesPauses(t *testing.T) {
	tt := newTestTimer(t, time.Minute)

	if err := tt.timer.Start("focus"); err != nil {
		t.Fatalf("Start: %v", err)
	}

	tt.clock.Advance(10 * time.Second)

	if err := tt.timer.Pause(); err != nil {
		t.Fatalf("Pause: %v", err)
	}

	tt.clock.Advance(20 * time.Second)

	if err := tt.timer.Start("focus"); err != nil {
		t.Fatalf("resume: %v", err)
	}

	tt.expire(t)

	saved := tt.db.saved()
	if len(saved) != 1 {
		t.Fatalf("saved %d sessions, want 1", len(saved))
	}

	if got := saved[0].Duration; got != 60 {
		t.Errorf("net duration = %d, want 60", got)
	}
}

func TestTimerEmptyGoal(t *testing.T) {
	tt := newTestTimer(t, time.Minute)

	err := tt.timer.Start("   ")
	if !errors.Is(err, session.ErrEmptyGoal) {
		t.Fatalf("Start with blank goal = %v, want %v", err, session.ErrEmptyGoal)
	}

	if got := tt.timer.State(); got != StateIdle {
		t.Errorf("State() = %v, want %v", got, StateIdle)
	}

	if tt.timer.Current() != nil {
		t.Error("a session exists despite the rejected goal")
	}

	if len(tt.db.saved()) != 0 {
		t.Error("a session was recorded despite the rejected goal")
	}
}

func TestTimerPauseWhileIdle(t *testing.T) {
	tt := newTestTimer(t, time.Minute)

	if err := tt.timer.Pause(); err != nil {
		t.Fatalf("Pause while idle = %v, want nil", err)
	}

	if got := tt.timer.State(); got != StateIdle {
		t.Errorf("State() = %v, want %v", got, StateIdle)
	}

	if tt.timer.Current() != nil {
		t.Error("pausing while idle created a session")
	}
}

func TestTimerStartWhileRunning(t *testing.T) {
	tt := newTestTimer(t, time.Minute)

	if err := tt.timer.Start("original"); err != nil {
		t.Fatalf("Start: %v", err)
	}

	tt.clock.Advance(5 * time.Second)

	if err := tt.timer.Start("other"); err != nil {
		t.Fatalf("Start while running = %v, want nil", err)
	}

	current := tt.timer.Current()
	if current == nil || current.Goal != "original" {
		t.Fatalf("Current() = %+v, want the original session", current)
	}

	if got := tt.timer.State(); got != StateRunning {
		t.Errorf("State() = %v, want %v", got, StateRunning)
	}
}

// User cancellation that wins the race against an in-flight expiry must
// settle the session as user-ended, and the late trigger must do
// nothing.
func TestTimerUserEndBeatsExpiry(t *testing.T) {
	tt := newTestTimer(t, time.Minute)

	if err := tt.timer.Start("race"); err != nil {
		t.Fatalf("Start: %v", err)
	}

	stale := tt.scheduler.lastOnce(t)

	// the deadline has passed, but the trigger has not run yet
	tt.clock.Advance(time.Minute + time.Second)

	if err := tt.timer.End(EndUser); err != nil {
		t.Fatalf("End: %v", err)
	}

	stale.fn()

	saved := tt.db.saved()
	if len(saved) != 1 {
		t.Fatalf("saved %d sessions, want 1", len(saved))
	}

	if len(tt.notifier.notified()) != 0 {
		t.Error("user cancellation produced a completion notification")
	}

	if got := tt.timer.State(); got != StateIdle {
		t.Errorf("State() = %v, want %v", got, StateIdle)
	}
}

func TestTimerEndTwice(t *testing.T) {
	tt := newTestTimer(t, time.Minute)

	if err := tt.timer.Start("once"); err != nil {
		t.Fatalf("Start: %v", err)
	}

	tt.clock.Advance(30 * time.Second)

	if err := tt.timer.End(EndUser); err != nil {
		t.Fatalf("End: %v", err)
	}

	if err := tt.timer.End(EndUser); err != nil {
		t.Fatalf("second End: %v", err)
	}

	if got := len(tt.db.saved()); got != 1 {
		t.Fatalf("saved %d sessions, want 1", got)
	}
}

func TestTimerEndWhilePaused(t *testing.T) {
	tt := newTestTimer(t, time.Minute)

	startTime := tt.clock.Now()

	if err := tt.timer.Start("winding down"); err != nil {
		t.Fatalf("Start: %v", err)
	}

	tt.clock.Advance(10 * time.Second)

	if err := tt.timer.Pause(); err != nil {
		t.Fatalf("Pause: %v", err)
	}

	tt.clock.Advance(20 * time.Second)

	if err := tt.timer.End(EndUser); err != nil {
		t.Fatalf("End: %v", err)
	}

	saved := tt.db.saved()
	if len(saved) != 1 {
		t.Fatalf("saved %d sessions, want 1", len(saved))
	}

	got := saved[0]

	// the open pause is closed at the moment the session ends
	if len(got.Pauses) != 1 || got.Pauses[0].ResumeTime == nil {
		t.Fatalf("pauses = %+v, want one closed pause", got.Pauses)
	}

	endTime := startTime.Add(30 * time.Second)

	if !got.Pauses[0].ResumeTime.Equal(endTime) {
		t.Errorf(
			"pause closed at %v, want %v",
			got.Pauses[0].ResumeTime,
			endTime,
		)
	}

	if got.Duration != 10 {
		t.Errorf("net duration = %d, want 10", got.Duration)
	}
}

func TestTimerStoreFailureIsNotFatal(t *testing.T) {
	tt := newTestTimer(t, time.Minute)

	tt.db.appendErr = errors.New("disk full")

	if err := tt.timer.Start("doomed"); err != nil {
		t.Fatalf("Start: %v", err)
	}

	tt.clock.Advance(30 * time.Second)

	if err := tt.timer.End(EndUser); err != nil {
		t.Fatalf("End with failing store = %v, want nil", err)
	}

	if tt.timer.Current() != nil {
		t.Error("session is still active after End")
	}

	if got := tt.timer.State(); got != StateIdle {
		t.Errorf("State() = %v, want %v", got, StateIdle)
	}
}

func TestTimerNotifierFailureIsSwallowed(t *testing.T) {
	tt := newTestTimer(t, time.Minute)

	tt.notifier.err = errors.New("notification daemon unavailable")

	if err := tt.timer.Start("quiet"); err != nil {
		t.Fatalf("Start: %v", err)
	}

	tt.expire(t)

	if got := len(tt.db.saved()); got != 1 {
		t.Fatalf("saved %d sessions, want 1", got)
	}

	if got := tt.timer.State(); got != StateIdle {
		t.Errorf("State() = %v, want %v", got, StateIdle)
	}
}

func TestTimerSetDuration(t *testing.T) {
	tt := newTestTimer(t, 25*time.Minute)

	err := tt.timer.SetDuration(0)
	if !errors.Is(err, errInvalidDuration) {
		t.Fatalf("SetDuration(0) = %v, want %v", err, errInvalidDuration)
	}

	if err := tt.timer.SetDuration(50 * time.Minute); err != nil {
		t.Fatalf("SetDuration: %v", err)
	}

	if got := tt.timer.Remaining(); got != 50*time.Minute {
		t.Errorf("Remaining() = %v, want %v", got, 50*time.Minute)
	}

	if got := tt.timer.Opts.Duration; got != 50*time.Minute {
		t.Errorf("Opts.Duration = %v, want %v", got, 50*time.Minute)
	}

	if err := tt.timer.Start("fixed length"); err != nil {
		t.Fatalf("Start: %v", err)
	}

	// duration changes are ignored while a session is active
	if err := tt.timer.SetDuration(10 * time.Minute); err != nil {
		t.Fatalf("SetDuration while active = %v, want nil", err)
	}

	if got := tt.timer.Opts.Duration; got != 50*time.Minute {
		t.Errorf("Opts.Duration changed mid-session to %v", got)
	}

	tt.expire(t)

	saved := tt.db.saved()
	if len(saved) != 1 {
		t.Fatalf("saved %d sessions, want 1", len(saved))
	}

	if got := saved[0].Duration; got != 3000 {
		t.Errorf("net duration = %d, want 3000", got)
	}
}

func TestTimerRunSessionCmd(t *testing.T) {
	tt := newTestTimer(t, time.Minute)

	err := tt.timer.runSessionCmd("echo 'unbalanced")
	if err == nil ||
		!strings.Contains(err.Error(), "unable to parse session_cmd option") {
		t.Fatalf("runSessionCmd = %v, want a parse error", err)
	}

	if err := tt.timer.runSessionCmd(""); err != nil {
		t.Fatalf("runSessionCmd with no command = %v, want nil", err)
	}
}

func TestTimerStatusFile(t *testing.T) {
	tt := newTestTimer(t, time.Minute)

	if err := tt.timer.Start("status check"); err != nil {
		t.Fatalf("Start: %v", err)
	}

	b, err := os.ReadFile(config.StatusFilePath())
	if err != nil {
		t.Fatalf("reading status file: %v", err)
	}

	var s Status

	if err = json.Unmarshal(b, &s); err != nil {
		t.Fatalf("unmarshalling status file: %v", err)
	}

	if s.Goal != "status check" {
		t.Errorf("status goal = %q, want %q", s.Goal, "status check")
	}

	if s.State != StateRunning {
		t.Errorf("status state = %v, want %v", s.State, StateRunning)
	}

	if want := tt.clock.Now().Add(time.Minute); !s.EndTime.Equal(want) {
		t.Errorf("status end time = %v, want %v", s.EndTime, want)
	}

	if s.Remaining != 60 {
		t.Errorf("status remaining = %d, want 60", s.Remaining)
	}

	if err = tt.timer.Pause(); err != nil {
		t.Fatalf("Pause: %v", err)
	}

	b, err = os.ReadFile(config.StatusFilePath())
	if err != nil {
		t.Fatalf("reading status file: %v", err)
	}

	if err = json.Unmarshal(b, &s); err != nil {
		t.Fatalf("unmarshalling status file: %v", err)
	}

	if s.State != StatePaused {
		t.Errorf("status state = %v, want %v", s.State, StatePaused)
	}

	if err = tt.timer.End(EndUser); err != nil {
		t.Fatalf("End: %v", err)
	}

	_, err = os.Stat(config.StatusFilePath())
	if !os.IsNotExist(err) {
		t.Fatalf("status file still exists after End: %v", err)
	}
}
