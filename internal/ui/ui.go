// Package ui provides coloured terminal output helpers for the session
// history table.
package ui

import (
	"fmt"
	"io"

	"github.com/pterm/pterm"
)

// DarkTheme switches the colour helpers to their light variants so that
// text stays readable on dark terminal backgrounds.
var DarkTheme bool

func Green(a any) string {
	if DarkTheme {
		return pterm.LightGreen(a)
	}

	return pterm.Green(a)
}

func Highlight(a any) string {
	if DarkTheme {
		return pterm.LightWhite(a)
	}

	return pterm.Black(a)
}

// PrintTable renders rows as a boxed table with the first row as the
// header.
func PrintTable(data [][]string, writer io.Writer) {
	table := pterm.DefaultTable
	table.Boxed = true

	str, err := table.WithHasHeader().WithData(data).Srender()
	if err != nil {
		pterm.Error.Printfln("Failed to render session table: %s", err.Error())
		return
	}

	fmt.Fprintln(writer, str)
}
