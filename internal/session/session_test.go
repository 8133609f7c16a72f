package session

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/daystreak/internal/config"
	"github.com/julianstephens/daystreak/internal/constants"
	apperrors "github.com/julianstephens/daystreak/internal/errors"
	"github.com/julianstephens/daystreak/internal/models"
	"github.com/julianstephens/daystreak/internal/storage/sqlite"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.LocalDir = t.TempDir()
	return cfg
}

func initStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, store.Init())
	return store
}

func TestSignInPersists(t *testing.T) {
	cfg := testConfig(t)
	dbPath := filepath.Join(t.TempDir(), "test.db")
	store := sqlite.NewStore(dbPath)
	require.NoError(t, store.Init())

	s, err := Open(cfg, store)
	require.NoError(t, err)
	_, err = s.RequireUser()
	assert.ErrorIs(t, err, ErrNotSignedIn)

	require.NoError(t, s.SignIn("  alice "))
	assert.Equal(t, "alice", s.User())
	require.NoError(t, s.Close())

	s, err = Open(cfg, sqlite.NewStore(dbPath))
	require.NoError(t, err)
	defer s.Close()
	user, err := s.RequireUser()
	require.NoError(t, err)
	assert.Equal(t, "alice", user)
	assert.True(t, s.StoreAvailable())
	assert.True(t, s.Connectivity().Online(context.Background()))
}

func TestSignInRejectsBlank(t *testing.T) {
	s, err := Open(testConfig(t), initStore(t))
	require.NoError(t, err)
	defer s.Close()

	err = s.SignIn("   ")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestSignOutRefusesWithQueuedChanges(t *testing.T) {
	s, err := Open(testConfig(t), initStore(t))
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.SignIn("alice"))
	require.NoError(t, s.Local().Set(constants.SnapshotKey, map[string]string{"challenge": "c1"}))
	require.NoError(t, s.Queue().Enqueue(models.Intent{ID: "i1", Action: models.IntentCreate, HabitID: "h1", DayNumber: 1}))

	err = s.SignOut(false)
	assert.ErrorIs(t, err, ErrUnsynced)
	assert.Equal(t, "alice", s.User())

	require.NoError(t, s.SignOut(true))
	assert.Empty(t, s.User())
	n, err := s.Queue().Len()
	require.NoError(t, err)
	assert.Zero(t, n)

	var snap map[string]string
	found, err := s.Local().Get(constants.SnapshotKey, &snap)
	require.NoError(t, err)
	assert.False(t, found, "snapshot should be cleared")
}

func TestSwitchingUserNeedsEmptyQueue(t *testing.T) {
	s, err := Open(testConfig(t), initStore(t))
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.SignIn("alice"))
	require.NoError(t, s.Queue().Enqueue(models.Intent{ID: "i1", Action: models.IntentCreate, HabitID: "h1", DayNumber: 1}))

	assert.ErrorIs(t, s.SignIn("bob"), ErrUnsynced)
	require.NoError(t, s.SignIn("alice"), "signing in as the same user is a no-op")

	require.NoError(t, s.Queue().Clear())
	require.NoError(t, s.SignIn("bob"))
	assert.Equal(t, "bob", s.User())
}

func TestOpenWithMissingStore(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.db")

	_, err := Open(testConfig(t), sqlite.NewStore(missing))
	require.Error(t, err)
	assert.True(t, apperrors.IsRemote(err))

	cfg := testConfig(t)
	cfg.Offline = true
	s, err := Open(cfg, sqlite.NewStore(missing))
	require.NoError(t, err)
	defer s.Close()
	assert.False(t, s.StoreAvailable())
	assert.False(t, s.Connectivity().Online(context.Background()))
}

func TestOpenReleasesLockOnFailure(t *testing.T) {
	cfg := testConfig(t)
	_, err := Open(cfg, sqlite.NewStore(filepath.Join(t.TempDir(), "nope.db")))
	require.Error(t, err)

	s, err := Open(cfg, initStore(t))
	require.NoError(t, err)
	require.NoError(t, s.Close())
}

func TestNewTrackerUsesQueue(t *testing.T) {
	cfg := testConfig(t)
	cfg.Offline = true
	s, err := Open(cfg, initStore(t))
	require.NoError(t, err)
	defer s.Close()

	tr, err := s.NewTracker(nil)
	require.NoError(t, err)
	res, err := tr.Toggle(context.Background(), "h1", 1)
	require.NoError(t, err)
	assert.True(t, res.Queued)

	n, err := s.Queue().Len()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
