// Package log routes structured logs to a rotated file in the user's
// data directory. The terminal is reserved for pterm output and the
// countdown interface, so logs never write to it.
package log

import (
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	maxSizeMB  = 5
	maxBackups = 3
)

// envDebug enables debug-level logging when set.
const envDebug = "POMODORO_DEBUG"

// Init installs the default slog logger, writing JSON records to the
// given file with rotation.
func Init(pathToLogFile string) {
	level := slog.LevelInfo

	if _, ok := os.LookupEnv(envDebug); ok {
		level = slog.LevelDebug
	}

	writer := &lumberjack.Logger{
		Filename:   pathToLogFile,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
	}

	handler := slog.NewJSONHandler(writer, &slog.HandlerOptions{
		Level: level,
	})

	slog.SetDefault(slog.New(handler))
}
