package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/daystreak/internal/models"
	"github.com/julianstephens/daystreak/internal/storage"
)

func (s *Store) ListCompletions(ctx context.Context, habitIDs []string) ([]models.Completion, error) {
	if len(habitIDs) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(habitIDs)), ", ")
	args := make([]any, len(habitIDs))
	for i, id := range habitIDs {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, habit_id, day_number, completed_at
		FROM completions WHERE habit_id IN (`+placeholders+`)
		ORDER BY habit_id, day_number`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var completions []models.Completion
	for rows.Next() {
		var c models.Completion
		var completedAt string
		if err := rows.Scan(&c.ID, &c.HabitID, &c.DayNumber, &completedAt); err != nil {
			return nil, err
		}
		c.CompletedAt, err = time.Parse(time.RFC3339, completedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse completed_at: %w", err)
		}
		completions = append(completions, c)
	}
	return completions, rows.Err()
}

func (s *Store) CreateCompletion(ctx context.Context, habitID string, dayNumber int) (models.Completion, error) {
	var exists int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM habits WHERE id = ?`, habitID).Scan(&exists); err != nil {
		return models.Completion{}, err
	}
	if exists == 0 {
		return models.Completion{}, fmt.Errorf("habit %s: %w", habitID, storage.ErrNotFound)
	}

	c := models.Completion{
		ID:          uuid.NewString(),
		HabitID:     habitID,
		DayNumber:   dayNumber,
		CompletedAt: time.Now().UTC().Truncate(time.Second),
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO completions (id, habit_id, day_number, completed_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (habit_id, day_number) DO NOTHING`,
		c.ID, c.HabitID, c.DayNumber, c.CompletedAt.Format(time.RFC3339))
	if err != nil {
		return models.Completion{}, err
	}
	if n, err := res.RowsAffected(); err != nil {
		return models.Completion{}, err
	} else if n == 0 {
		return models.Completion{}, fmt.Errorf("completion %s/%d: %w", habitID, dayNumber, storage.ErrAlreadyExists)
	}
	return c, nil
}

func (s *Store) DeleteCompletion(ctx context.Context, habitID string, dayNumber int) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM completions WHERE habit_id = ? AND day_number = ?`, habitID, dayNumber)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("completion %s/%d: %w", habitID, dayNumber, storage.ErrNotFound)
	}
	return nil
}
