package app

import "github.com/urfave/cli/v2"

var (
	durationFlag = &cli.StringFlag{
		Name:    "duration",
		Aliases: []string{"d"},
		Usage:   "Session length in minutes, or as a duration string (e.g. 45m, 1h10m). Defaults to 25",
	}

	sinceFlag = &cli.StringFlag{
		Name:  "since",
		Usage: "Select sessions started after a date or phrase (e.g. 'yesterday', '3 days ago')",
	}

	periodFlag = &cli.StringFlag{
		Name:    "period",
		Aliases: []string{"p"},
		Usage:   "Select sessions within a named period: today, yesterday, 7days, 14days, 30days, 90days, 180days, 365days, or all-time",
	}

	goalFlag = &cli.StringFlag{
		Name:    "goal",
		Aliases: []string{"g"},
		Usage:   "Select sessions whose goal contains the given text",
	}

	jsonFlag = &cli.BoolFlag{
		Name:  "json",
		Usage: "Print the output in JSON format",
	}

	noColorFlag = &cli.BoolFlag{
		Name:  "no-color",
		Usage: "Disable coloured output",
	}

	disableNotificationFlag = &cli.BoolFlag{
		Name:  "disable-notification",
		Usage: "Disable the system notification that appears after a session is completed",
	}

	sessionCmdFlag = &cli.StringFlag{
		Name:    "session-cmd",
		Aliases: []string{"cmd"},
		Usage:   "Execute an arbitrary command after each completed session",
	}

	soundFlag = &cli.StringFlag{
		Name:  "sound",
		Usage: "Play ambient sounds continuously during a session. Default options: brown_noise, rain, tick_tock,\n\t\t\t\twhite_noise. Disable sound by setting to 'off'",
	}

	alertSoundFlag = &cli.StringFlag{
		Name:  "alert-sound",
		Usage: "Sound to play when a session has ended. Defaults to bell. Disable by setting to 'off'",
	}
)
