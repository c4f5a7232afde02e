package app

import (
	"fmt"
	"io"
	"os"

	"github.com/sramzz/pomodorowithsound/internal/session"
	"github.com/sramzz/pomodorowithsound/internal/timeutil"
	"github.com/sramzz/pomodorowithsound/internal/ui"
	"github.com/sramzz/pomodorowithsound/report"
)

const dateFormat = "Jan 02, 2006 03:04 PM"

// formatDuration renders a net working time in seconds for the table.
func formatDuration(seconds int) string {
	mins, secs := timeutil.SecsToMinsAndSecs(float64(seconds))

	return fmt.Sprintf("%dm %02ds", mins, secs)
}

// printSessionsTable prints a session table to the command-line.
func printSessionsTable(w io.Writer, sessions []*session.Session) {
	tableBody := make([][]string, len(sessions))

	for i := range sessions {
		sess := sessions[i]

		endDate := sess.EndTime.Format(dateFormat)
		if sess.EndTime.IsZero() {
			endDate = ""
		}

		row := []string{
			fmt.Sprintf("%d", i+1),
			ui.Highlight(sess.Goal),
			sess.StartTime.Format(dateFormat),
			endDate,
			ui.Green(formatDuration(sess.Duration)),
			fmt.Sprintf("%d", len(sess.Pauses)),
		}

		tableBody[i] = row
	}

	tableBody = append([][]string{
		{"#", "GOAL", "STARTED", "ENDED", "DURATION", "PAUSES"},
	}, tableBody...)

	ui.PrintTable(tableBody, w)
}

// listSessions prints out a table of sessions.
func listSessions(sessions []*session.Session) error {
	if len(sessions) == 0 {
		report.NoSessions()

		return nil
	}

	printSessionsTable(os.Stdout, sessions)

	return nil
}
