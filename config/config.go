package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/pterm/pterm"
)

// Version is the current version of Pomodoro.
const Version = "v0.1.0"

var (
	configDir      = "pomodoro"
	configFileName = "config.yml"
	dbFileName     = "pomodoro.db"
	statusFileName = "status.json"
	logFileName    = "pomodoro.log"
	dbFilePath     string
	configFilePath string
	statusFilePath string
	logFilePath    string
)

// Dir returns the name of the directory that holds the program's
// configuration and data files.
func Dir() string {
	return configDir
}

// DBFilePath returns the path to the session database.
func DBFilePath() string {
	return dbFilePath
}

// StatusFilePath returns the path to the status file for the running timer.
func StatusFilePath() string {
	return statusFilePath
}

// LogFilePath returns the path to the log file.
func LogFilePath() string {
	return logFilePath
}

// ConfigFilePath returns the path to the configuration file.
func ConfigFilePath() string {
	return configFilePath
}

// InitializePaths sets up the file paths for the config, database, status,
// and log files. The POMODORO_ENV environment variable changes the file
// names so that development or test runs never touch real data.
func InitializePaths() {
	pomodoroEnv := strings.TrimSpace(os.Getenv("POMODORO_ENV"))
	if pomodoroEnv != "" {
		configFileName = fmt.Sprintf("config_%s.yml", pomodoroEnv)
		dbFileName = fmt.Sprintf("pomodoro_%s.db", pomodoroEnv)
		statusFileName = fmt.Sprintf("status_%s.json", pomodoroEnv)
		logFileName = fmt.Sprintf("pomodoro_%s.log", pomodoroEnv)
	}

	var err error

	relPath := filepath.Join(configDir, configFileName)

	configFilePath, err = xdg.ConfigFile(relPath)
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}

	dbFilePath, err = xdg.DataFile(filepath.Join(configDir, dbFileName))
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}

	dataDir := filepath.Dir(dbFilePath)

	statusFilePath = filepath.Join(dataDir, statusFileName)

	logFilePath = filepath.Join(dataDir, "log", logFileName)
}
