package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/daystreak/internal/cli"
	"github.com/julianstephens/daystreak/internal/cli/account"
	"github.com/julianstephens/daystreak/internal/cli/backups"
	"github.com/julianstephens/daystreak/internal/cli/challenges"
	"github.com/julianstephens/daystreak/internal/cli/habits"
	"github.com/julianstephens/daystreak/internal/cli/system"
	"github.com/julianstephens/daystreak/internal/config"
	"github.com/julianstephens/daystreak/internal/constants"
	apperrors "github.com/julianstephens/daystreak/internal/errors"
	"github.com/julianstephens/daystreak/internal/logger"
)

var CLI struct {
	Version  kong.VersionFlag
	Config   string `help:"SQLite database path or PostgreSQL connection string (default: keyring, ${env}, then ${db})." default:""`
	Settings string `help:"Settings file path." type:"path" default:"${settings}"`
	Offline  bool   `help:"Do not contact the record store; queue every change."`
	Debug    bool   `help:"Log debug output to stderr."`

	Init    system.InitCmd    `cmd:"" help:"Initialize daystreak storage."`
	Migrate system.MigrateCmd `cmd:"" help:"Apply pending database migrations."`
	Login   account.LoginCmd  `cmd:"" help:"Sign in as a user."`
	Logout  account.LogoutCmd `cmd:"" help:"Sign out and clear local state."`
	Whoami  account.WhoamiCmd `cmd:"" help:"Show the signed-in user."`

	Setup    challenges.SetupCmd    `cmd:"" help:"Create your challenge and its habits."`
	Day      challenges.DayCmd      `cmd:"" help:"Show the habits for a day."`
	Toggle   challenges.ToggleCmd   `cmd:"" help:"Mark a habit done or not done for a day."`
	Calendar challenges.CalendarCmd `cmd:"" help:"Show the challenge heatmap."`
	Stats    challenges.StatsCmd    `cmd:"" help:"Show streaks and completion stats."`
	Sync     challenges.SyncCmd     `cmd:"" help:"Send queued offline changes."`
	Habit    struct {
		List habits.ListCmd `cmd:"" help:"List habits."`
		Edit habits.EditCmd `cmd:"" help:"Rename or reschedule a habit."`
	} `cmd:"" help:"Manage habits."`

	Backup struct {
		Create  backups.CreateCmd  `cmd:"" help:"Create a backup now."`
		List    backups.ListCmd    `cmd:"" help:"List available backups."`
		Restore backups.RestoreCmd `cmd:"" help:"Restore the database from a backup."`
	} `cmd:"" help:"Manage SQLite backups."`

	Keyring  system.KeyringCmd `cmd:"" help:"Manage the PostgreSQL connection string in the OS keyring."`
	Doctor   system.DoctorCmd  `cmd:"" help:"Run health checks."`
	DebugCmd system.DebugCmd   `cmd:"" name:"debug" help:"Debugging helpers."`
	Tui      system.TuiCmd     `cmd:"" help:"Launch the interactive TUI." default:"1"`
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Track daily habits through a fixed-length challenge."),
		kong.UsageOnError(),
		kong.Vars{
			"version":  constants.Version,
			"settings": config.DefaultPath(),
			"env":      constants.ConnectionEnvVar,
			"db":       constants.DefaultConfigPath,
		},
	)

	cfg, err := config.Load(CLI.Settings)
	if err != nil {
		apperrors.Fatal(err)
	}
	cfg.Offline = cfg.Offline || CLI.Offline
	cfg.Debug = cfg.Debug || CLI.Debug

	if err := logger.Init(logger.Config{Debug: cfg.Debug, Dir: cfg.LocalDir}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logging: %v\n", err)
	}

	store, err := cli.NewProvider(CLI.Config)
	if err != nil {
		apperrors.Fatal(err)
	}

	appCtx := cli.NewContext(store, cfg)
	err = kctx.Run(appCtx)
	if cerr := appCtx.Close(); cerr != nil {
		logger.Warn("Failed to close storage", "error", cerr)
	}
	defer logger.Close()

	if errors.Is(err, apperrors.ErrNoChallenge) {
		fmt.Println("No challenge yet. Run 'daystreak setup' to create one.")
		return
	}
	apperrors.Fatal(err)
}
