package system

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebugDBPathReportsLogFile(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	ctx, out := newContext(t, dbPath)

	require.NoError(t, (&DebugDBPathCmd{}).Run(ctx))
	var got map[string]string
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, dbPath, got["path"])
	assert.Equal(t, filepath.Join(ctx.Config.LocalDir, "logs", "daystreak.log"), got["log_file"])
}
