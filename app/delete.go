package app

import (
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/pterm/pterm"

	"github.com/sramzz/pomodorowithsound/internal/session"
	"github.com/sramzz/pomodorowithsound/report"
	"github.com/sramzz/pomodorowithsound/store"
)

// pickSessions resolves the numbers reported by the list command to
// their sessions. Numbers are 1-based and must fall within the listed
// range.
func pickSessions(
	sessions []*session.Session,
	args []string,
) ([]*session.Session, error) {
	picked := make([]*session.Session, 0, len(args))
	seen := make(map[int]struct{})

	for _, arg := range args {
		num, err := strconv.Atoi(arg)
		if err != nil || num < 1 || num > len(sessions) {
			return nil, fmt.Errorf(
				"'%s' does not match any listed session", arg,
			)
		}

		if _, dup := seen[num]; dup {
			continue
		}

		seen[num] = struct{}{}

		picked = append(picked, sessions[num-1])
	}

	return picked, nil
}

// delSessions deletes the specified sessions after the user confirms
// the operation.
func delSessions(db store.DB, sessions []*session.Session) error {
	printSessionsTable(os.Stdout, sessions)

	var confirmed bool

	err := huh.NewConfirm().
		Title(fmt.Sprintf(
			"Delete the %d session(s) above permanently?", len(sessions),
		)).
		Value(&confirmed).
		Run()
	if err != nil {
		return err
	}

	if !confirmed {
		pterm.Info.Println("The operation was cancelled")

		return nil
	}

	err = db.DeleteSessions(sessions)
	if err != nil {
		return err
	}

	report.SessionsDeleted(len(sessions))

	return nil
}

// clearSessions deletes the entire session history after the user
// confirms the operation.
func clearSessions(db store.DB, total int) error {
	if total == 0 {
		report.NoSessions()

		return nil
	}

	var confirmed bool

	err := huh.NewConfirm().
		Title(fmt.Sprintf(
			"Delete all %d recorded session(s) permanently?", total,
		)).
		Value(&confirmed).
		Run()
	if err != nil {
		return err
	}

	if !confirmed {
		pterm.Info.Println("The operation was cancelled")

		return nil
	}

	err = db.DeleteAll()
	if err != nil {
		return err
	}

	report.SessionsDeleted(total)

	return nil
}
