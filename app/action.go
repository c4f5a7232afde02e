package app

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/sramzz/pomodorowithsound/config"
	"github.com/sramzz/pomodorowithsound/internal/session"
	"github.com/sramzz/pomodorowithsound/internal/timeutil"
	"github.com/sramzz/pomodorowithsound/internal/ui"
	"github.com/sramzz/pomodorowithsound/report"
	"github.com/sramzz/pomodorowithsound/store"
	"github.com/sramzz/pomodorowithsound/timer"
)

const (
	envUpdateNotifier  = "POMODORO_UPDATE_NOTIFIER"
	envNoColor         = "NO_COLOR"
	envPomodoroNoColor = "POMODORO_NO_COLOR"
)

const repoURL = "https://github.com/sramzz/pomodorowithsound"

// firstNonEmptyString returns its first non-empty argument, or "" if all
// arguments are empty.
func firstNonEmptyString(ss ...string) string {
	for _, s := range ss {
		if s != "" {
			return s
		}
	}

	return ""
}

// checkForUpdates alerts the user if there is an updated version of
// Pomodoro from the one currently installed.
func checkForUpdates(app *cli.App) {
	spinner, _ := pterm.DefaultSpinner.Start("Checking for updates...")
	c := http.Client{Timeout: 10 * time.Second}

	resp, err := c.Get(repoURL + "/releases/latest")
	if err != nil {
		pterm.Error.Println("HTTP Error: Failed to check for update")
		return
	}

	defer resp.Body.Close()

	var version string

	_, err = fmt.Sscanf(
		resp.Request.URL.String(),
		repoURL+"/releases/tag/%s",
		&version,
	)
	if err != nil {
		pterm.Error.Println("Failed to get latest version")
		return
	}

	if version == app.Version {
		text := pterm.Sprintf(
			"Congratulations, you are using the latest version of %s",
			app.Name,
		)
		spinner.Success(text)
	} else {
		pterm.Warning.Prefix = pterm.Prefix{
			Text:  "UPDATE AVAILABLE",
			Style: pterm.NewStyle(pterm.BgYellow, pterm.FgBlack),
		}
		pterm.Warning.Printfln(
			"A new release of pomodoro is available: %s at %s",
			version,
			resp.Request.URL.String(),
		)
	}
}

// sessionHelper retrieves the sessions matching the command's filter
// flags.
func sessionHelper(ctx *cli.Context) ([]*session.Session, store.DB, error) {
	conf := config.Filter(ctx)

	db, err := store.NewClient(config.DBFilePath())
	if err != nil {
		return nil, nil, err
	}

	sessions, err := db.GetSessions(conf.StartTime, conf.EndTime)
	if err != nil {
		_ = db.Close()

		return nil, nil, err
	}

	if conf.Goal != "" {
		filtered := sessions[:0]

		for _, sess := range sessions {
			if strings.Contains(
				strings.ToLower(sess.Goal),
				strings.ToLower(conf.Goal),
			) {
				filtered = append(filtered, sess)
			}
		}

		sessions = filtered
	}

	return sessions, db, nil
}

// listAction handles the list command and prints a table of all the
// sessions recorded within a time period.
func listAction(ctx *cli.Context) error {
	sessions, db, err := sessionHelper(ctx)
	if err != nil {
		return err
	}

	defer db.Close()

	if ctx.Bool("json") {
		b, err := json.Marshal(sessions)
		if err != nil {
			return err
		}

		pterm.Println(string(b))

		return nil
	}

	return listSessions(sessions)
}

// deleteAction handles the delete command which deletes the numbered
// sessions reported by the list command.
func deleteAction(ctx *cli.Context) error {
	sessions, db, err := sessionHelper(ctx)
	if err != nil {
		return err
	}

	defer db.Close()

	if len(sessions) == 0 {
		report.NoSessions()

		return nil
	}

	picked := sessions

	if ctx.Args().Len() > 0 {
		picked, err = pickSessions(sessions, ctx.Args().Slice())
		if err != nil {
			return err
		}
	}

	return delSessions(db, picked)
}

// clearAction handles the clear command which deletes every recorded
// session.
func clearAction(ctx *cli.Context) error {
	db, err := store.NewClient(config.DBFilePath())
	if err != nil {
		return err
	}

	defer db.Close()

	sessions, err := db.GetSessions(
		time.Time{},
		timeutil.RoundToEnd(time.Now()),
	)
	if err != nil {
		return err
	}

	return clearSessions(db, len(sessions))
}

// editConfigAction handles the edit-config command which opens the
// config file in the user's default text editor.
func editConfigAction(ctx *cli.Context) error {
	defaultEditor := "nano"

	if runtime.GOOS == "windows" {
		defaultEditor = "C:\\Windows\\system32\\notepad.exe"
	}

	editor := firstNonEmptyString(
		os.Getenv("VISUAL"),
		os.Getenv("EDITOR"),
		defaultEditor,
	)

	cfg := config.Timer(ctx)

	cmd := exec.Command(editor, cfg.PathToConfig)

	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout

	return cmd.Run()
}

// statusAction handles the status command and prints the status of the
// currently running timer.
func statusAction(_ *cli.Context) error {
	t := &timer.Timer{}

	return t.ReportStatus()
}

// defaultAction starts the timer interface for a new session. The goal
// may be passed as trailing arguments; otherwise the interface prompts
// for one before counting down.
func defaultAction(ctx *cli.Context) error {
	cfg := config.Timer(ctx)

	dbClient, err := store.NewClient(cfg.PathToDB)
	if err != nil {
		return err
	}

	defer dbClient.Close()

	t, err := timer.New(dbClient, cfg)
	if err != nil {
		return err
	}

	t.SetGoal(strings.Join(ctx.Args().Slice(), " "))

	ui.DarkTheme = cfg.DarkTheme

	p := tea.NewProgram(t)

	model, err := p.Run()
	if err != nil {
		return err
	}

	if final, ok := model.(*timer.Timer); ok {
		return final.Err()
	}

	return nil
}

func beforeAction(ctx *cli.Context) error {
	// Override the default help template
	cli.AppHelpTemplate = helpText()

	// Override the default version printer
	oldVersionPrinter := cli.VersionPrinter
	cli.VersionPrinter = func(c *cli.Context) {
		oldVersionPrinter(c)
		fmt.Printf("%s/releases/%s\n", repoURL, c.App.Version)

		if _, found := os.LookupEnv(envUpdateNotifier); found {
			checkForUpdates(c.App)
		}
	}

	pterm.Error.MessageStyle = pterm.NewStyle(pterm.FgRed)
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "ERROR",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}

	// Disable colour output if NO_COLOR is set
	if _, exists := os.LookupEnv(envNoColor); exists {
		disableStyling()
	}

	// Disable colour output if POMODORO_NO_COLOR is set
	if _, exists := os.LookupEnv(envPomodoroNoColor); exists {
		disableStyling()
	}

	if ctx.Bool("no-color") {
		disableStyling()
	}

	return nil
}

func afterAction(ctx *cli.Context) error {
	slog.InfoContext(ctx.Context, "exiting pomodoro")

	return nil
}
