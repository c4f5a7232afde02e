package timer

import (
	"errors"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/gen2brain/beeep"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"

	"github.com/sramzz/pomodorowithsound/config"
)

// Notifier announces the completion of a session. Notifications are
// best-effort: callers log failures and move on.
type Notifier interface {
	Notify(goal string) error
}

// desktopNotifier sends a desktop notification and plays the configured
// alert sound.
type desktopNotifier struct {
	opts *config.TimerConfig
}

func newDesktopNotifier(cfg *config.TimerConfig) Notifier {
	return &desktopNotifier{opts: cfg}
}

func (d *desktopNotifier) Notify(goal string) error {
	if !d.opts.Notify {
		return nil
	}

	title := "Session completed"

	configDir := filepath.Base(filepath.Dir(d.opts.PathToConfig))

	// pathToIcon will be an empty string if the file is not found
	pathToIcon, _ := xdg.SearchDataFile(
		filepath.Join(configDir, "static", "icon.png"),
	)

	err := beeep.Notify(title, goal, pathToIcon)

	return errors.Join(err, d.playAlertSound())
}

// playAlertSound plays the alert sound to completion. It claims the
// speaker for itself, so any ambient sound must be cleared first.
func (d *desktopNotifier) playAlertSound() error {
	sound := d.opts.AlertSound

	if sound == "" || sound == config.SoundOff {
		return nil
	}

	stream, format, err := prepSoundStream(sound)
	if err != nil {
		return err
	}

	done := make(chan bool)

	speaker.Play(beep.Seq(playable(stream, format), beep.Callback(func() {
		done <- true
	})))

	<-done

	_ = stream.Close()

	speaker.Clear()

	return nil
}
