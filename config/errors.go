package config

import "errors"

var (
	errInitFailed = errors.New(
		"unable to initialise Pomodoro settings from the configuration file",
	)

	errInvalidDuration = errors.New(
		"duration must be a positive Go duration (e.g. 25m, 1h30m) or a number of minutes",
	)
)
