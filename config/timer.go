// Package config is responsible for setting the program config from
// the config file and command-line arguments
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"
	"github.com/spf13/viper"
	"github.com/urfave/cli/v2"
)

var timerCfg = &TimerConfig{}

var once sync.Once

const ascii = `
██████╗  ██████╗ ███╗   ███╗ ██████╗ ██████╗  ██████╗ ██████╗  ██████╗
██╔══██╗██╔═══██╗████╗ ████║██╔═══██╗██╔══██╗██╔═══██╗██╔══██╗██╔═══██╗
██████╔╝██║   ██║██╔████╔██║██║   ██║██║  ██║██║   ██║██████╔╝██║   ██║
██╔═══╝ ██║   ██║██║╚██╔╝██║██║   ██║██║  ██║██║   ██║██╔══██╗██║   ██║
██║     ╚██████╔╝██║ ╚═╝ ██║╚██████╔╝██████╔╝╚██████╔╝██║  ██║╚██████╔╝
╚═╝      ╚═════╝ ╚═╝     ╚═╝ ╚═════╝ ╚═════╝  ╚═════╝ ╚═╝  ╚═╝ ╚═════╝ `

const defaultDuration = 25 * time.Minute

const defaultAlertSound = "bell"

// SoundOff disables a sound option when used as its value.
const SoundOff = "off"

const (
	configDuration            = "duration"
	configNotify              = "notify"
	configAmbientSound        = "sound"
	configAlertSound          = "alert_sound"
	configSessionCmd          = "session_cmd"
	configDarkTheme           = "dark_theme"
	configTwentyFourHourClock = "24hr_clock"
)

// TimerConfig represents the program configuration derived from the config
// file and command-line arguments.
type TimerConfig struct {
	Duration            time.Duration `json:"duration"`
	AmbientSound        string        `json:"sound"`
	AlertSound          string        `json:"alert_sound"`
	SessionCmd          string        `json:"session_cmd"`
	PathToConfig        string        `json:"path_to_config"`
	PathToDB            string        `json:"path_to_db"`
	Notify              bool          `json:"notify"`
	DarkTheme           bool          `json:"dark_theme"`
	TwentyFourHourClock bool          `json:"twenty_four_hour_clock"`
}

// parseDuration interprets a config or flag value as a session length.
// Plain numbers are read as minutes.
func parseDuration(value string) (time.Duration, error) {
	if mins, err := strconv.Atoi(value); err == nil {
		if mins <= 0 {
			return 0, errInvalidDuration
		}

		return time.Duration(mins) * time.Minute, nil
	}

	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return 0, errInvalidDuration
	}

	return d, nil
}

// prompt allows the user to state their preferred session length. It is run
// only when a configuration file is not already present (e.g on first run).
func prompt() error {
	pterm.Println(ascii)

	_ = putils.BulletListFromString(`Follow the prompt below to configure Pomodoro for the first time.
Select your preferred value, or press ENTER to accept the default.
Edit the config file with 'pomodoro edit-config' to change any settings.`, " ").
		Render()

	var mins int

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Session length").
				Options(
					huh.NewOption("25 minutes", 25).Selected(true),
					huh.NewOption("35 minutes", 35),
					huh.NewOption("50 minutes", 50),
					huh.NewOption("60 minutes", 60),
					huh.NewOption("90 minutes", 90),
				).
				Value(&mins),
		),
	)

	err := form.Run()
	if err != nil {
		return err
	}

	viper.Set(configDuration, strconv.Itoa(mins)+"m")

	return nil
}

// createTimerConfig prompts the user for their preferred session length
// and saves the result along with the defaults to the user's config
// directory.
func createTimerConfig() error {
	if os.Getenv("POMODORO_ENV") != "testing" {
		err := prompt()
		if err != nil {
			return err
		}
	}

	err := viper.WriteConfigAs(timerCfg.PathToConfig)
	if err != nil {
		return err
	}

	pterm.Println()
	pterm.Success.Printfln("Your settings have been saved to %s", timerCfg.PathToConfig)

	return nil
}

// timerDefaults sets the program's default configuration values.
func timerDefaults() {
	viper.SetDefault(configDuration, "25m")
	viper.SetDefault(configNotify, true)
	viper.SetDefault(configAmbientSound, "")
	viper.SetDefault(configAlertSound, defaultAlertSound)
	viper.SetDefault(configSessionCmd, "")
	viper.SetDefault(configDarkTheme, true)
	viper.SetDefault(configTwentyFourHourClock, false)
}

// initTimerConfig initialises the application configuration. If the config
// file does not exist, it prompts the user and saves the inputted
// preferences and defaults in a config file.
func initTimerConfig() error {
	timerDefaults()

	viper.SetConfigName(strings.TrimSuffix(configFileName, filepath.Ext(configFileName)))
	viper.SetConfigType("yaml")

	timerCfg.PathToConfig = ConfigFilePath()

	viper.AddConfigPath(filepath.Dir(timerCfg.PathToConfig))

	if err := viper.ReadInConfig(); err != nil {
		if errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return createTimerConfig()
		}

		return err
	}

	return nil
}

// setTimerConfig fills the timer configuration from the config file and
// command-line arguments. Command-line arguments take precedence.
func setTimerConfig(ctx *cli.Context) error {
	timerCfg.PathToDB = DBFilePath()

	// set from config file
	d, err := parseDuration(viper.GetString(configDuration))
	if err != nil {
		return err
	}

	timerCfg.Duration = d
	timerCfg.Notify = viper.GetBool(configNotify)
	timerCfg.AmbientSound = viper.GetString(configAmbientSound)
	timerCfg.AlertSound = viper.GetString(configAlertSound)
	timerCfg.SessionCmd = viper.GetString(configSessionCmd)
	timerCfg.TwentyFourHourClock = viper.GetBool(configTwentyFourHourClock)

	if viper.IsSet(configDarkTheme) {
		timerCfg.DarkTheme = viper.GetBool(configDarkTheme)
	} else {
		timerCfg.DarkTheme = true
	}

	// set from command-line arguments
	if ctx.String("duration") != "" {
		d, err := parseDuration(ctx.String("duration"))
		if err != nil {
			return err
		}

		timerCfg.Duration = d
	}

	if ctx.Bool("disable-notification") {
		timerCfg.Notify = false
	}

	if ctx.String("sound") != "" {
		if ctx.String("sound") == SoundOff {
			timerCfg.AmbientSound = ""
		} else {
			timerCfg.AmbientSound = ctx.String("sound")
		}
	}

	if ctx.String("alert-sound") != "" {
		if ctx.String("alert-sound") == SoundOff {
			timerCfg.AlertSound = ""
		} else {
			timerCfg.AlertSound = ctx.String("alert-sound")
		}
	}

	if ctx.String("session-cmd") != "" {
		timerCfg.SessionCmd = ctx.String("session-cmd")
	}

	return nil
}

// Timer initializes and returns the timer configuration. This
// initialization is done just once no matter how many times it is called.
func Timer(ctx *cli.Context) *TimerConfig {
	once.Do(func() {
		err := initTimerConfig()
		if err != nil {
			pterm.Error.Printfln("%s: %s", errInitFailed.Error(), err.Error())
			os.Exit(1)
		}

		err = setTimerConfig(ctx)
		if err != nil {
			pterm.Error.Println(err)
			os.Exit(1)
		}
	})

	return timerCfg
}
