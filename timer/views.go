package timer

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"github.com/sramzz/pomodorowithsound/internal/timeutil"
)

// formatTimeRemaining returns the remaining time formatted as "MM:SS".
func (t *Timer) formatTimeRemaining() string {
	m, s := timeutil.SecsToMinsAndSecs(t.Remaining().Seconds())

	return fmt.Sprintf(
		"%s:%s", fmt.Sprintf("%02d", m), fmt.Sprintf("%02d", s),
	)
}

// sessionPromptView renders the prompt shown once a session completes.
func (t *Timer) sessionPromptView() string {
	var s strings.Builder

	title := "Your session is complete"
	msg := fmt.Sprintf("Well done! Press enter to work on '%s' again.", t.goal)

	s.WriteString(t.styles.main.SetString(title).String())
	s.WriteString("\n\n" + t.styles.secondary.SetString(msg).String())
	s.WriteString(
		"\n\n" + t.styles.hint.SetString(
			fmt.Sprintf("next session: %s", t.Opts.Duration),
		).String(),
	)
	s.WriteString("\n\n" + t.help.ShortHelpView([]key.Binding{
		defaultKeymap.enter,
		defaultKeymap.lengthen,
		defaultKeymap.quit,
	}),
	)

	return s.String()
}

func (t *Timer) timerView() string {
	var s strings.Builder

	sess := t.Current()
	if sess == nil {
		return ""
	}

	s.WriteString(t.styles.goal.SetString(sess.Goal).String())

	var timeFormat string
	if t.Opts.TwentyFourHourClock {
		timeFormat = "15:04:05"
	} else {
		timeFormat = "03:04:05 PM"
	}

	if t.State() == StatePaused {
		s.WriteString(t.styles.secondary.SetString(" [Paused]").String())
	} else if deadline, ok := t.engine.Deadline(); ok {
		s.WriteString(
			t.styles.hint.SetString(
				" until " + deadline.Format(timeFormat),
			).String(),
		)
	}

	percent := t.Remaining().Seconds() / t.Opts.Duration.Seconds()

	s.WriteString("\n\n")
	s.WriteString(t.styles.main.SetString(t.formatTimeRemaining()).String())
	s.WriteString("\n\n")
	s.WriteString(t.progress.ViewAs(1 - percent))
	s.WriteString(t.sessionHelpView())

	return s.String()
}

func (t *Timer) settingsView(view string) string {
	if t.settings == soundView && t.soundForm != nil {
		return view + "\n\n" + t.soundForm.View()
	}

	return view
}

func (t *Timer) sessionHelpView() string {
	return "\n\n" + t.help.ShortHelpView([]key.Binding{
		defaultKeymap.togglePlay,
		defaultKeymap.sound,
		defaultKeymap.quit,
	})
}

func (t *Timer) View() string {
	if t.err != nil {
		return ""
	}

	if t.goalForm != nil {
		return t.styles.base.Render(t.goalForm.View())
	}

	if t.waitForNextSession {
		return t.styles.base.Render(t.sessionPromptView())
	}

	view := t.timerView()
	if view == "" {
		return ""
	}

	return t.styles.base.Render(t.settingsView(view))
}
