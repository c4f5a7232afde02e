package main

import (
	"log/slog"
	"os"

	"github.com/sramzz/pomodorowithsound/app"
	"github.com/sramzz/pomodorowithsound/config"
	"github.com/sramzz/pomodorowithsound/internal/log"
	"github.com/sramzz/pomodorowithsound/internal/static"
	"github.com/sramzz/pomodorowithsound/report"
)

func main() {
	config.InitializePaths()

	log.Init(config.LogFilePath())

	// make the notification icon and default sounds available in the
	// user's data directory
	err := static.CopyFilesToDataDir(config.Dir())
	if err != nil {
		slog.Warn("unable to copy embedded assets", slog.Any("error", err))
	}

	err = app.Get().Run(os.Args)
	if err != nil {
		report.Quit(err)
	}
}
