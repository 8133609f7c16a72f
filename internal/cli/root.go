package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/daystreak/internal/backup"
	"github.com/julianstephens/daystreak/internal/challenge"
	"github.com/julianstephens/daystreak/internal/config"
	"github.com/julianstephens/daystreak/internal/constants"
	"github.com/julianstephens/daystreak/internal/keyring"
	"github.com/julianstephens/daystreak/internal/logger"
	"github.com/julianstephens/daystreak/internal/progress"
	"github.com/julianstephens/daystreak/internal/session"
	"github.com/julianstephens/daystreak/internal/storage"
	"github.com/julianstephens/daystreak/internal/storage/postgres"
	"github.com/julianstephens/daystreak/internal/storage/sqlite"
	"github.com/julianstephens/daystreak/internal/tracker"
	"github.com/julianstephens/daystreak/internal/utils"
)

type Context struct {
	Store  storage.Provider
	Config config.Config
	Out    io.Writer
	// Now is the wall clock; tests pin it
	Now func() time.Time

	session *session.Session
}

// NewContext fills Out and Now with the process defaults.
func NewContext(store storage.Provider, cfg config.Config) *Context {
	return &Context{Store: store, Config: cfg, Out: os.Stdout, Now: time.Now}
}

// Printf writes to the command output.
func (c *Context) Printf(format string, args ...any) {
	fmt.Fprintf(c.Out, format, args...)
}

func (c *Context) Println(args ...any) {
	fmt.Fprintln(c.Out, args...)
}

// Session opens the session on first use.
func (c *Context) Session() (*session.Session, error) {
	if c.session != nil {
		return c.session, nil
	}
	s, err := session.Open(c.Config, c.Store)
	if err != nil {
		return nil, err
	}
	c.session = s
	return s, nil
}

// Close releases the session, or the bare store when no session was opened.
func (c *Context) Close() error {
	if c.session != nil {
		err := c.session.Close()
		c.session = nil
		return err
	}
	return c.Store.Close()
}

// Today is the current time in the configured timezone.
func (c *Context) Today() time.Time {
	loc, err := utils.LoadLocation(c.Config.Timezone)
	if err != nil {
		loc = time.Local
	}
	return c.Now().In(loc)
}

// Workspace is the loaded state most commands operate on.
type Workspace struct {
	Session  *session.Session
	Service  *challenge.Service
	Snapshot challenge.Snapshot
	Tracker  *tracker.Tracker
	Engine   *progress.Engine
}

// Load opens the session and loads the signed-in user's challenge. Queued
// offline changes are already reflected in the engine.
func (c *Context) Load(ctx context.Context) (*Workspace, error) {
	sess, err := c.Session()
	if err != nil {
		return nil, err
	}
	user, err := sess.RequireUser()
	if err != nil {
		return nil, err
	}

	svc := challenge.NewService(sess.Store(), sess.Local(), sess.Offline())
	snap, err := svc.Load(ctx, user)
	if err != nil {
		return nil, err
	}
	if snap.Stale {
		logger.Warn("Showing cached data", "saved_at", snap.SavedAt)
	}

	tr, err := sess.NewTracker(snap.Completions)
	if err != nil {
		return nil, err
	}
	w := &Workspace{Session: sess, Service: svc, Snapshot: snap, Tracker: tr}
	if err := w.Refresh(); err != nil {
		return nil, err
	}
	return w, nil
}

// Refresh rebuilds the engine from the tracker's current completions.
func (w *Workspace) Refresh() error {
	eng, err := progress.New(w.Snapshot.Challenge, w.Snapshot.Habits, w.Tracker.Completions())
	if err != nil {
		return err
	}
	w.Engine = eng
	return nil
}

// Sync replays queued changes when the store is reachable. Failures are
// logged and the queue is left for the next attempt.
func (w *Workspace) Sync(ctx context.Context) tracker.ReplayResult {
	res, err := w.Tracker.Replay(ctx)
	if err != nil {
		logger.Warn("Sync incomplete", "applied", res.Applied, "remaining", res.Remaining, "error", err)
	}
	if res.Applied > 0 {
		w.Remember()
		if err := w.Refresh(); err != nil {
			logger.Warn("Failed to rebuild progress", "error", err)
		}
	}
	return res
}

// CurrentDay is the challenge day containing today.
func (w *Workspace) CurrentDay(today time.Time) int {
	return w.Engine.CurrentDayNumber(today)
}

// HabitName returns the habit's name, or its id when unknown.
func (w *Workspace) HabitName(id string) string {
	if h, ok := w.Engine.Habit(id); ok {
		return h.Name
	}
	return id
}

// Remember caches the confirmed completions for offline use.
func (w *Workspace) Remember() {
	w.Service.Remember(w.Snapshot, w.Tracker.Completions())
}

// PerformAutomaticBackup backs up SQLite stores and only logs failures.
func (c *Context) PerformAutomaticBackup() {
	if _, ok := c.Store.(*sqlite.Store); !ok {
		return
	}
	if _, err := backup.NewManager(c.Store.GetConfigPath()).Create(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// NewProvider picks the record store for target. An empty target uses a
// connection string from the environment or keyring, then the default
// SQLite file.
func NewProvider(target string) (storage.Provider, error) {
	if target == "" {
		connStr, err := keyring.Resolve()
		if err != nil {
			logger.Debug("Keyring lookup failed", "error", err)
		}
		if connStr != "" {
			if !postgres.IsConnString(connStr) {
				return nil, fmt.Errorf("%s does not hold a PostgreSQL connection string", constants.ConnectionEnvVar)
			}
			return postgres.New(connStr), nil
		}
		return sqlite.NewStore(config.ExpandHome(constants.DefaultConfigPath)), nil
	}

	if postgres.IsConnString(target) {
		if err := postgres.ValidateConnString(target); err != nil {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, fmt.Errorf("%w; store it with 'daystreak keyring set', export %s, or use .pgpass",
					err, constants.ConnectionEnvVar)
			}
			return nil, err
		}
		return postgres.New(target), nil
	}
	return sqlite.NewStore(config.ExpandHome(target)), nil
}

// ParseWeekdays parses a comma-separated list of weekday names or numbers
// (0=Sunday).
func ParseWeekdays(s string) ([]time.Weekday, error) {
	dayMap := map[string]time.Weekday{
		"sun":       time.Sunday,
		"sunday":    time.Sunday,
		"mon":       time.Monday,
		"monday":    time.Monday,
		"tue":       time.Tuesday,
		"tuesday":   time.Tuesday,
		"wed":       time.Wednesday,
		"wednesday": time.Wednesday,
		"thu":       time.Thursday,
		"thursday":  time.Thursday,
		"fri":       time.Friday,
		"friday":    time.Friday,
		"sat":       time.Saturday,
		"saturday":  time.Saturday,
	}

	var weekdays []time.Weekday
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(strings.ToLower(part))
		if part == "" {
			continue
		}
		if wd, ok := dayMap[part]; ok {
			weekdays = append(weekdays, wd)
			continue
		}
		num, err := strconv.Atoi(part)
		if err != nil || num < 0 || num > 6 {
			return nil, fmt.Errorf("invalid weekday: %s", part)
		}
		weekdays = append(weekdays, time.Weekday(num))
	}
	return weekdays, nil
}
