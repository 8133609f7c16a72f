package localstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/daystreak/internal/logger"
)

var findProcessFunc = ps.FindProcess

// ErrLocked is returned when another live process holds the local store.
var ErrLocked = errors.New("local store is in use by another daystreak process")

// acquireLock creates the lockfile at path, replacing it when the recorded
// owner is no longer running.
func acquireLock(path string) error {
	content := fmt.Sprintf("%d|%s", os.Getpid(), currentExecutable())
	for attempt := 0; attempt < 2; attempt++ {
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
		if err == nil {
			_, werr := f.WriteString(content)
			cerr := f.Close()
			if werr != nil {
				return fmt.Errorf("failed to write lockfile: %w", werr)
			}
			return cerr
		}
		if !errors.Is(err, os.ErrExist) {
			return fmt.Errorf("failed to create lockfile: %w", err)
		}

		held, err := lockHeld(path)
		if err != nil {
			return err
		}
		if held {
			return ErrLocked
		}
		logger.Warn("Removing stale local store lock", "path", path)
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to remove stale lockfile: %w", err)
		}
	}
	return ErrLocked
}

// lockHeld reports whether the lockfile names a running process. Malformed
// lockfiles are treated as stale.
func lockHeld(path string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read lockfile: %w", err)
	}

	pid, exe, ok := parseLock(string(data))
	if !ok {
		return false, nil
	}

	process, err := findProcessFunc(pid)
	if err != nil || process == nil {
		return false, nil
	}
	// ps reports truncated names on some platforms
	name := process.Executable()
	return name != "" && strings.HasPrefix(exe, name), nil
}

func parseLock(content string) (int, string, bool) {
	parts := strings.Split(strings.TrimSpace(content), "|")
	if len(parts) != 2 {
		return 0, "", false
	}
	pid, err := strconv.Atoi(parts[0])
	if err != nil || pid <= 0 {
		return 0, "", false
	}
	exe := strings.TrimSpace(parts[1])
	if exe == "" {
		return 0, "", false
	}
	return pid, exe, true
}

func releaseLock(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove lockfile: %w", err)
	}
	return nil
}

func currentExecutable() string {
	exe, err := os.Executable()
	if err != nil {
		return filepath.Base(os.Args[0])
	}
	return filepath.Base(exe)
}
