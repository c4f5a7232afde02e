package timer

import "errors"

var (
	errInvalidSoundFormat = errors.New(
		"sound file must be in mp3, ogg, flac, or wav format",
	)

	errInvalidTransition = errors.New(
		"transition not allowed from the current state",
	)

	errInvalidDuration = errors.New(
		"duration must be greater than zero",
	)

	errNoDuration = errors.New(
		"no duration has been configured",
	)
)
