// Package session owns the per-run state every command shares: the local
// store, the offline queue, the signed-in user and the record store.
package session

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/daystreak/internal/config"
	"github.com/julianstephens/daystreak/internal/constants"
	apperrors "github.com/julianstephens/daystreak/internal/errors"
	"github.com/julianstephens/daystreak/internal/localstore"
	"github.com/julianstephens/daystreak/internal/logger"
	"github.com/julianstephens/daystreak/internal/models"
	"github.com/julianstephens/daystreak/internal/offline"
	"github.com/julianstephens/daystreak/internal/storage"
	"github.com/julianstephens/daystreak/internal/tracker"
)

var (
	// ErrNotSignedIn is returned by operations that need a user.
	ErrNotSignedIn = errors.New("not signed in, run 'daystreak login <user>' first")
	// ErrUnsynced is returned by SignOut while queued writes remain.
	ErrUnsynced = errors.New("offline changes have not been synced")
)

type Session struct {
	cfg   config.Config
	local *localstore.Store
	store storage.Provider
	queue *offline.Queue
	conn  tracker.Connectivity
	user  string
	// storeErr is set when the record store could not be loaded in offline mode
	storeErr error
}

// Open locks the local store and loads the record store. With cfg.Offline set,
// an unreachable record store is tolerated and every write is queued.
func Open(cfg config.Config, store storage.Provider) (*Session, error) {
	local, err := localstore.Open(cfg.LocalDir)
	if err != nil {
		return nil, err
	}

	s := &Session{
		cfg:   cfg,
		local: local,
		store: store,
		queue: offline.New(local),
	}

	if err := store.Load(); err != nil {
		if !cfg.Offline {
			_ = local.Close()
			return nil, apperrors.Remote("open record store", err)
		}
		logger.Warn("Record store unavailable, continuing offline", "error", err)
		s.storeErr = err
	}

	if s.Offline() {
		s.conn = tracker.Always(false)
	} else {
		s.conn = tracker.NewPingCheck(store, false)
	}

	if _, err := local.Get(constants.SessionUserKey, &s.user); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	logger.Debug("Session opened", "user", s.user, "local", local.Path(), "offline", cfg.Offline)
	return s, nil
}

func (s *Session) Config() config.Config {
	return s.cfg
}

func (s *Session) Store() storage.Provider {
	return s.store
}

func (s *Session) Local() *localstore.Store {
	return s.local
}

func (s *Session) Queue() *offline.Queue {
	return s.queue
}

func (s *Session) Connectivity() tracker.Connectivity {
	return s.conn
}

// StoreAvailable reports whether the record store loaded.
func (s *Session) StoreAvailable() bool {
	return s.storeErr == nil
}

// Offline reports whether the record store is out of reach for this run.
func (s *Session) Offline() bool {
	return s.cfg.Offline || s.storeErr != nil
}

// User returns the signed-in user id, or "".
func (s *Session) User() string {
	return s.user
}

// RequireUser returns the signed-in user or ErrNotSignedIn.
func (s *Session) RequireUser() (string, error) {
	if s.user == "" {
		return "", ErrNotSignedIn
	}
	return s.user, nil
}

// SignIn records user as the active identity.
func (s *Session) SignIn(user string) error {
	user = strings.TrimSpace(user)
	if user == "" {
		return apperrors.Validationf("user id must not be empty")
	}
	if s.user != "" && s.user != user {
		pending, err := s.queue.Len()
		if err != nil {
			return err
		}
		if pending > 0 {
			return fmt.Errorf("%w: %d change(s) queued for %s", ErrUnsynced, pending, s.user)
		}
		// the old user's snapshot must not leak into the new session
		if err := s.local.Delete(constants.SnapshotKey); err != nil {
			return err
		}
	}
	if err := s.local.Set(constants.SessionUserKey, user); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	s.user = user
	logger.Info("Signed in", "user", user)
	return nil
}

// SignOut clears the identity, the queue and the cached snapshot. Queued
// writes are lost, so it refuses while any remain unless force is set.
func (s *Session) SignOut(force bool) error {
	pending, err := s.queue.Len()
	if err != nil {
		return err
	}
	if pending > 0 && !force {
		return fmt.Errorf("%w: %d change(s) queued, run 'daystreak sync' or use --force", ErrUnsynced, pending)
	}
	if pending > 0 {
		logger.Warn("Discarding unsynced changes", "count", pending, "user", s.user)
	}

	if err := s.queue.Clear(); err != nil {
		return err
	}
	for _, key := range []string{constants.SnapshotKey, constants.SessionUserKey} {
		if err := s.local.Delete(key); err != nil {
			return err
		}
	}
	s.user = ""
	return nil
}

// NewTracker builds a tracker over completions for this session's store and queue.
func (s *Session) NewTracker(completions []models.Completion) (*tracker.Tracker, error) {
	return tracker.New(s.store, s.queue, s.conn, completions)
}

// Close releases the record store and the local store lock.
func (s *Session) Close() error {
	var errs []error
	if s.store != nil {
		errs = append(errs, s.store.Close())
	}
	if s.local != nil {
		errs = append(errs, s.local.Close())
	}
	return errors.Join(errs...)
}
