package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	pq "github.com/lib/pq"

	"github.com/julianstephens/daystreak/internal/models"
	"github.com/julianstephens/daystreak/internal/storage"
)

func (s *Store) ListCompletions(ctx context.Context, habitIDs []string) ([]models.Completion, error) {
	if len(habitIDs) == 0 {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT id, habit_id, day_number, completed_at
FROM completions WHERE habit_id = ANY($1)
ORDER BY habit_id, day_number`, pq.Array(habitIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var completions []models.Completion
	for rows.Next() {
		var c models.Completion
		if err := rows.Scan(&c.ID, &c.HabitID, &c.DayNumber, &c.CompletedAt); err != nil {
			return nil, err
		}
		completions = append(completions, c)
	}
	return completions, rows.Err()
}

func (s *Store) CreateCompletion(ctx context.Context, habitID string, dayNumber int) (models.Completion, error) {
	c := models.Completion{
		ID:        uuid.NewString(),
		HabitID:   habitID,
		DayNumber: dayNumber,
	}
	err := s.db.QueryRowContext(ctx, `
INSERT INTO completions (id, habit_id, day_number)
VALUES ($1, $2, $3)
RETURNING completed_at`, c.ID, c.HabitID, c.DayNumber).Scan(&c.CompletedAt)
	if err != nil {
		switch pqCode(err) {
		case codeUniqueViolation:
			return models.Completion{}, fmt.Errorf("completion %s/%d: %w", habitID, dayNumber, storage.ErrAlreadyExists)
		case codeForeignKeyViolation:
			return models.Completion{}, fmt.Errorf("habit %s: %w", habitID, storage.ErrNotFound)
		}
		return models.Completion{}, err
	}
	return c, nil
}

func (s *Store) DeleteCompletion(ctx context.Context, habitID string, dayNumber int) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM completions WHERE habit_id = $1 AND day_number = $2`, habitID, dayNumber)
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
