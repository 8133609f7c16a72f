package tracker

import (
	"context"
	"errors"
	"fmt"

	apperrors "github.com/julianstephens/daystreak/internal/errors"
	"github.com/julianstephens/daystreak/internal/logger"
	"github.com/julianstephens/daystreak/internal/models"
	"github.com/julianstephens/daystreak/internal/storage"
)

// ReplayResult summarizes one pass over the queue.
type ReplayResult struct {
	Applied   int
	Remaining int
	Offline   bool
}

// Replay sends queued intents oldest first. Each confirmed intent is removed
// as soon as the store accepts it; the first failure ends the pass and leaves
// that intent and everything after it queued.
func (t *Tracker) Replay(ctx context.Context) (ReplayResult, error) {
	items, err := t.queue.Items()
	if err != nil {
		return ReplayResult{}, fmt.Errorf("failed to read offline queue: %w", err)
	}
	if len(items) == 0 {
		return ReplayResult{}, nil
	}
	if !t.conn.Online(ctx) {
		return ReplayResult{Remaining: len(items), Offline: true}, nil
	}

	var res ReplayResult
	for i, it := range items {
		if err := t.replayOne(ctx, it); err != nil {
			res.Remaining = len(items) - i
			logger.Warn("Replay stopped", "intent", it.ID, "action", it.Action, "error", err)
			return res, err
		}
		res.Applied++
	}
	return res, nil
}

func (t *Tracker) replayOne(ctx context.Context, it models.Intent) error {
	key := it.Key()
	ticket, release := t.acquire(key)
	defer release()

	// a toggle may have cancelled it since the pass started
	queued, err := t.queue.Contains(it.ID)
	if err != nil {
		return fmt.Errorf("failed to read offline queue: %w", err)
	}
	if !queued {
		return nil
	}

	switch it.Action {
	case models.IntentCreate:
		stored, err := t.remote.CreateCompletion(ctx, it.HabitID, it.DayNumber)
		switch {
		case err == nil:
			t.confirm(key, ticket, stored)
		case errors.Is(err, storage.ErrAlreadyExists):
			t.adopt(ctx, key, ticket, it)
		default:
			return apperrors.Remote("replay create", err)
		}
	case models.IntentDelete:
		err := t.remote.DeleteCompletion(ctx, it.HabitID, it.DayNumber)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			return apperrors.Remote("replay delete", err)
		}
		t.settle(key, ticket)
	default:
		logger.Warn("Dropping unknown queued action", "intent", it.ID, "action", it.Action)
	}

	if _, err := t.queue.Remove(it.ID); err != nil {
		return fmt.Errorf("failed to remove replayed intent: %w", err)
	}
	return nil
}
