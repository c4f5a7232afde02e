package config

import (
	"log"
	"os"
	"strings"
	"testing"

	"github.com/adrg/xdg"
	"github.com/pterm/pterm"
)

func TestMain(m *testing.M) {
	// Redirect XDG directories and use the testing environment so that
	// tests never touch real configuration or data.
	tmpDir, err := os.MkdirTemp("", "pomodoro-config-test")
	if err != nil {
		log.Fatal(err)
	}

	os.Setenv("XDG_CONFIG_HOME", tmpDir)
	os.Setenv("XDG_DATA_HOME", tmpDir)
	os.Setenv("POMODORO_ENV", "testing")

	xdg.Reload()

	InitializePaths()

	pterm.DisableOutput()

	code := m.Run()

	err = os.RemoveAll(tmpDir)
	if err != nil {
		log.Fatal(err)
	}

	os.Exit(code)
}

func TestInitializePaths(t *testing.T) {
	cases := []struct {
		name string
		got  string
		want string
	}{
		{name: "config", got: ConfigFilePath(), want: "config_testing.yml"},
		{name: "database", got: DBFilePath(), want: "pomodoro_testing.db"},
		{name: "status", got: StatusFilePath(), want: "status_testing.json"},
		{name: "log", got: LogFilePath(), want: "pomodoro_testing.log"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.got == "" {
				t.Fatalf("%s path is empty", tc.name)
			}

			if !strings.HasSuffix(tc.got, tc.want) {
				t.Errorf("%s path = %s, want suffix %s", tc.name, tc.got, tc.want)
			}

			if !strings.Contains(tc.got, Dir()) {
				t.Errorf("%s path = %s, want it inside the %q directory", tc.name, tc.got, Dir())
			}
		})
	}
}
