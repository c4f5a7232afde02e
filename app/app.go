// Package app defines the command-line interface for the timer.
package app

import (
	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/sramzz/pomodorowithsound/config"
)

// disableStyling disables all styling provided by pterm.
func disableStyling() {
	pterm.DisableColor()
	pterm.DisableStyling()
	pterm.Debug.Prefix.Text = ""
	pterm.Info.Prefix.Text = ""
	pterm.Success.Prefix.Text = ""
	pterm.Warning.Prefix.Text = ""
	pterm.Error.Prefix.Text = ""
	pterm.Fatal.Prefix.Text = ""
}

// Get retrieves the pomodoro app instance.
func Get() *cli.App {
	pomodoroApp := &cli.App{
		Name: "pomodoro",
		Authors: []*cli.Author{
			{
				Name: "sramzz",
			},
		},
		Usage: `
		Pomodoro is a goal-oriented productivity timer for the command-line.
		Name what you want to get done, start the countdown, and every
		finished session is recorded against that goal.`,
		UsageText:            "[COMMAND] [OPTIONS] [GOAL]",
		Version:              config.Version,
		EnableBashCompletion: true,
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List recorded sessions for the specified time period",
				Action: listAction,
				Flags: []cli.Flag{
					periodFlag,
					sinceFlag,
					goalFlag,
					jsonFlag,
					noColorFlag,
				},
			},
			{
				Name: "delete",
				Usage: `
				Delete recorded sessions by the numbers reported by the list
				command. Without arguments, every session in the specified
				time period is selected`,
				UsageText: "delete [OPTIONS] [NUMBER]...",
				Action:    deleteAction,
				Flags: []cli.Flag{
					periodFlag,
					sinceFlag,
					goalFlag,
					noColorFlag,
				},
			},
			{
				Name:   "clear",
				Usage:  "Delete all recorded sessions",
				Action: clearAction,
			},
			{
				Name:   "status",
				Usage:  "Print the status of the timer",
				Action: statusAction,
			},
			{
				Name:   "edit-config",
				Usage:  "Edit the configuration file",
				Action: editConfigAction,
			},
		},
		Flags: []cli.Flag{
			durationFlag,
			disableNotificationFlag,
			soundFlag,
			alertSoundFlag,
			sessionCmdFlag,
			noColorFlag,
		},
		Action: defaultAction,
		Before: beforeAction,
		After:  afterAction,
	}

	return pomodoroApp
}
