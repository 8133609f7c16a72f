// Package backup snapshots and restores the SQLite record store.
package backup

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/daystreak/internal/constants"
	"github.com/julianstephens/daystreak/internal/logger"
)

const stampFormat = "20060102-150405"

// ErrNoBackups is returned when "latest" is requested from an empty directory.
var ErrNoBackups = errors.New("no backups found")

// Info describes one backup file.
type Info struct {
	Path      string
	Name      string
	Timestamp time.Time
	Size      int64
}

type Manager struct {
	dbPath string
	dir    string
	keep   int
	now    func() time.Time
}

// NewManager keeps backups in a "backups" directory next to dbPath.
func NewManager(dbPath string) *Manager {
	return &Manager{
		dbPath: dbPath,
		dir:    filepath.Join(filepath.Dir(dbPath), constants.BackupDirName),
		keep:   constants.MaxBackups,
		now:    time.Now,
	}
}

func (m *Manager) Dir() string {
	return m.dir
}

// Create writes a consistent copy of the database and prunes old backups.
func (m *Manager) Create() (Info, error) {
	info, err := m.create()
	if err != nil {
		return Info{}, err
	}
	if err := m.prune(); err != nil {
		logger.Warn("Failed to prune old backups", "error", err)
	}
	return info, nil
}

func (m *Manager) create() (Info, error) {
	if _, err := os.Stat(m.dbPath); err != nil {
		return Info{}, fmt.Errorf("database does not exist: %s", m.dbPath)
	}
	if err := os.MkdirAll(m.dir, 0700); err != nil {
		return Info{}, fmt.Errorf("failed to create backup directory: %w", err)
	}

	ts := m.now()
	dest, err := m.freePath(ts)
	if err != nil {
		return Info{}, err
	}
	if err := vacuumInto(m.dbPath, dest); err != nil {
		return Info{}, fmt.Errorf("failed to back up database: %w", err)
	}

	st, err := os.Stat(dest)
	if err != nil {
		return Info{}, err
	}
	logger.Info("Backup created", "path", dest, "size", st.Size())
	return Info{Path: dest, Name: filepath.Base(dest), Timestamp: ts.Truncate(time.Second), Size: st.Size()}, nil
}

// freePath picks daystreak-<stamp>.db, adding -N when the second is taken.
func (m *Manager) freePath(ts time.Time) (string, error) {
	stem := constants.BackupFilePrefix + ts.Format(stampFormat)
	path := filepath.Join(m.dir, stem+constants.BackupFileSuffix)
	for n := 1; ; n++ {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path, nil
		}
		if n > 100 {
			return "", errors.New("failed to find a free backup file name")
		}
		path = filepath.Join(m.dir, fmt.Sprintf("%s-%d%s", stem, n, constants.BackupFileSuffix))
	}
}

func vacuumInto(src, dest string) error {
	db, err := sql.Open("sqlite", src+"?mode=ro")
	if err != nil {
		return err
	}
	defer db.Close()

	if err := checkDatabase(db); err != nil {
		return err
	}
	_, err = db.Exec("VACUUM INTO ?", dest)
	return err
}

// checkDatabase fails unless db holds a daystreak schema.
func checkDatabase(db *sql.DB) error {
	var version int
	if err := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&version); err != nil {
		return fmt.Errorf("not a daystreak database: %w", err)
	}
	if version == 0 {
		return errors.New("database has no schema")
	}
	return nil
}

// parseName extracts the timestamp from a backup file name.
func parseName(name string) (time.Time, bool) {
	if !strings.HasPrefix(name, constants.BackupFilePrefix) || !strings.HasSuffix(name, constants.BackupFileSuffix) {
		return time.Time{}, false
	}
	stem := strings.TrimSuffix(strings.TrimPrefix(name, constants.BackupFilePrefix), constants.BackupFileSuffix)
	if len(stem) > len(stampFormat) {
		suffix, ok := strings.CutPrefix(stem[len(stampFormat):], "-")
		if !ok {
			return time.Time{}, false
		}
		if _, err := strconv.Atoi(suffix); err != nil {
			return time.Time{}, false
		}
		stem = stem[:len(stampFormat)]
	}
	ts, err := time.ParseInLocation(stampFormat, stem, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

// List returns the backups newest first. A missing directory yields none.
func (m *Manager) List() ([]Info, error) {
	entries, err := os.ReadDir(m.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	var out []Info
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ts, ok := parseName(e.Name())
		if !ok {
			continue
		}
		fi, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, Info{
			Path:      filepath.Join(m.dir, e.Name()),
			Name:      e.Name(),
			Timestamp: ts,
			Size:      fi.Size(),
		})
	}
	slices.SortFunc(out, func(a, b Info) int {
		if c := b.Timestamp.Compare(a.Timestamp); c != 0 {
			return c
		}
		return strings.Compare(b.Name, a.Name)
	})
	return out, nil
}

func (m *Manager) prune() error {
	backups, err := m.List()
	if err != nil {
		return err
	}
	if len(backups) <= m.keep {
		return nil
	}
	for _, b := range backups[m.keep:] {
		if err := os.Remove(b.Path); err != nil {
			return fmt.Errorf("failed to remove %s: %w", b.Name, err)
		}
		logger.Debug("Pruned backup", "name", b.Name)
	}
	return nil
}

// Resolve turns "latest", a backup file name, or a path into a backup path.
func (m *Manager) Resolve(ref string) (string, error) {
	if ref == "latest" {
		backups, err := m.List()
		if err != nil {
			return "", err
		}
		if len(backups) == 0 {
			return "", ErrNoBackups
		}
		return backups[0].Path, nil
	}
	if filepath.Base(ref) == ref {
		ref = filepath.Join(m.dir, ref)
	}
	if _, err := os.Stat(ref); err != nil {
		return "", fmt.Errorf("backup file does not exist: %s", ref)
	}
	return ref, nil
}

// Restore replaces the database with the backup at path. The current
// database, when present, is backed up first and its Info returned.
func (m *Manager) Restore(path string) (*Info, error) {
	if err := verify(path); err != nil {
		return nil, fmt.Errorf("backup is invalid: %w", err)
	}

	var safety *Info
	if _, err := os.Stat(m.dbPath); err == nil {
		info, err := m.create()
		if err != nil {
			return nil, fmt.Errorf("failed to back up current database: %w", err)
		}
		safety = &info
	}

	tmp := m.dbPath + ".restore.tmp"
	if err := copyFile(path, tmp); err != nil {
		os.Remove(tmp)
		return safety, fmt.Errorf("failed to copy backup: %w", err)
	}
	if err := os.Rename(tmp, m.dbPath); err != nil {
		os.Remove(tmp)
		return safety, fmt.Errorf("failed to restore database: %w", err)
	}
	logger.Info("Database restored", "from", path)
	return safety, nil
}

func verify(path string) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}
	db, err := sql.Open("sqlite", path+"?mode=ro")
	if err != nil {
		return err
	}
	defer db.Close()
	return checkDatabase(db)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	if _, err := out.ReadFrom(in); err != nil {
		out.Close()
		return err
	}
	if err := out.Sync(); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
