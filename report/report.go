// Package report prints user-facing notices and errors through pterm.
package report

import (
	"os"

	"github.com/pterm/pterm"
)

// NoSessions tells the user that no sessions matched their query.
func NoSessions() {
	pterm.Info.Println("No sessions found for the specified time range")
}

// SessionsDeleted confirms how many sessions were removed.
func SessionsDeleted(count int) {
	pterm.Success.Printfln("%d session(s) deleted successfully", count)
}

// Error prints an error without exiting.
func Error(err error) {
	pterm.Error.Println(err)
}

// Quit prints an error and exits with a failure code.
func Quit(err error) {
	pterm.Error.Println(err)
	os.Exit(1)
}
