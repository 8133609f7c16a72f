package system

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/daystreak/internal/backup"
	"github.com/julianstephens/daystreak/internal/cli"
	"github.com/julianstephens/daystreak/internal/keyring"
	"github.com/julianstephens/daystreak/internal/storage"
	"github.com/julianstephens/daystreak/internal/storage/postgres"
	"github.com/julianstephens/daystreak/internal/storage/sqlite"
	"github.com/julianstephens/daystreak/internal/utils"
)

type DoctorCmd struct{}

type check struct {
	name string
	// warn marks checks whose failure does not fail the command
	warn bool
	run  func(*cli.Context) error
	// needsDB skips the check when the database is unreachable
	needsDB bool
}

var errSkipped = errors.New("not applicable")

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	checks := []check{
		{name: "Database reachable", run: checkDBReachable},
		{name: "Schema version", run: checkSchemaVersion, needsDB: true},
		{name: "Local store", run: checkLocalStore, needsDB: true},
		{name: "Signed in", run: checkSignedIn, needsDB: true, warn: true},
		{name: "Offline queue", run: checkQueue, needsDB: true, warn: true},
		{name: "Backups present", run: checkBackupsPresent, warn: true},
		{name: "Keyring", run: checkKeyring, warn: true},
		{name: "Clock/timezone", run: checkClockTimezone},
	}

	ctx.Println("Running diagnostics...")
	ctx.Println()

	failed := false
	dbReachable := true
	for _, c := range checks {
		if c.needsDB && !dbReachable {
			ctx.Printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case err == nil:
			ctx.Printf("✓ %s: OK\n", c.name)
		case errors.Is(err, errSkipped):
			ctx.Printf("⊘ %s: SKIPPED (%v)\n", c.name, err)
		case c.warn:
			ctx.Printf("⚠ %s: WARNING\n   %v\n", c.name, err)
		default:
			ctx.Printf("❌ %s: FAIL\n   Error: %v\n", c.name, err)
			failed = true
			if c.name == "Database reachable" {
				dbReachable = false
			}
		}
	}

	ctx.Println()
	if failed {
		ctx.Println("Diagnostics completed with errors.")
		return errors.New("one or more health checks failed")
	}
	ctx.Println("All diagnostics passed!")
	return nil
}

func checkDBReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return ctx.Store.Ping(pingCtx)
}

func checkSchemaVersion(ctx *cli.Context) error {
	m, ok := ctx.Store.(storage.Migrator)
	if !ok {
		return errSkipped
	}
	current, latest, err := m.SchemaVersion()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d", current, latest)
	}
	return nil
}

func checkLocalStore(ctx *cli.Context) error {
	_, err := ctx.Session()
	return err
}

func checkSignedIn(ctx *cli.Context) error {
	sess, err := ctx.Session()
	if err != nil {
		return err
	}
	_, err = sess.RequireUser()
	return err
}

func checkQueue(ctx *cli.Context) error {
	sess, err := ctx.Session()
	if err != nil {
		return err
	}
	n, err := sess.Queue().Len()
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%d change(s) waiting, run 'daystreak sync'", n)
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	if _, ok := ctx.Store.(*sqlite.Store); !ok {
		return fmt.Errorf("%w: backups cover SQLite only", errSkipped)
	}
	backups, err := backup.NewManager(ctx.Store.GetConfigPath()).List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return errors.New("no backups found, consider creating one with 'daystreak backup create'")
	}
	return nil
}

func checkKeyring(ctx *cli.Context) error {
	if _, ok := ctx.Store.(*postgres.Store); !ok {
		return fmt.Errorf("%w: SQLite storage", errSkipped)
	}
	if !keyring.IsAvailable() {
		return keyring.ErrKeyringUnavailable
	}
	return nil
}

func checkClockTimezone(ctx *cli.Context) error {
	now := ctx.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	if !utils.ValidateTimezone(ctx.Config.Timezone) {
		return fmt.Errorf("timezone %q cannot be loaded", ctx.Config.Timezone)
	}
	return nil
}
