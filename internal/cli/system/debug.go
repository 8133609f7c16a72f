package system

import (
	"encoding/json"
	"fmt"

	"github.com/julianstephens/daystreak/internal/cli"
	"github.com/julianstephens/daystreak/internal/constants"
	"github.com/julianstephens/daystreak/internal/logger"
)

type DebugCmd struct {
	DBPath       DebugDBPathCmd       `cmd:"" name:"db-path" help:"Show database path."`
	DumpQueue    DebugDumpQueueCmd    `cmd:"" help:"Dump queued offline changes as JSON."`
	DumpSnapshot DebugDumpSnapshotCmd `cmd:"" help:"Dump the cached challenge snapshot as JSON."`
}

func printJSON(ctx *cli.Context, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	ctx.Println(string(data))
	return nil
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *cli.Context) error {
	return printJSON(ctx, map[string]string{
		"path":      ctx.Store.GetConfigPath(),
		"local_dir": ctx.Config.LocalDir,
		"log_file":  logger.FilePath(ctx.Config.LocalDir),
	})
}

type DebugDumpQueueCmd struct{}

func (cmd *DebugDumpQueueCmd) Run(ctx *cli.Context) error {
	sess, err := ctx.Session()
	if err != nil {
		return err
	}
	items, err := sess.Queue().Items()
	if err != nil {
		return err
	}
	if items == nil {
		return printJSON(ctx, []any{})
	}
	return printJSON(ctx, items)
}

type DebugDumpSnapshotCmd struct{}

func (cmd *DebugDumpSnapshotCmd) Run(ctx *cli.Context) error {
	sess, err := ctx.Session()
	if err != nil {
		return err
	}
	var snap json.RawMessage
	found, err := sess.Local().Get(constants.SnapshotKey, &snap)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("no snapshot cached")
	}
	return printJSON(ctx, snap)
}
