package system

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/daystreak/internal/cli"
	"github.com/julianstephens/daystreak/internal/config"
	"github.com/julianstephens/daystreak/internal/storage/sqlite"
)

func newContext(t *testing.T, dbPath string) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	cfg := config.Default()
	cfg.LocalDir = t.TempDir()
	var out bytes.Buffer
	ctx := cli.NewContext(sqlite.NewStore(dbPath), cfg)
	ctx.Out = &out
	t.Cleanup(func() { ctx.Close() })
	return ctx, &out
}

func TestInitCreatesDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "test.db")
	ctx, out := newContext(t, dbPath)

	require.NoError(t, (&InitCmd{}).Run(ctx))
	assert.FileExists(t, dbPath)
	assert.Contains(t, out.String(), "Initialized daystreak storage")

	out.Reset()
	require.NoError(t, (&MigrateCmd{}).Run(ctx))
	assert.Contains(t, out.String(), "Database is up to date")
}

func TestInitForceRecreates(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, os.WriteFile(dbPath, []byte("not a database"), 0600))

	ctx, out := newContext(t, dbPath)
	require.NoError(t, (&InitCmd{Force: true}).Run(ctx))
	assert.Contains(t, out.String(), "Deleted existing database")

	require.NoError(t, ctx.Store.Load())
}
