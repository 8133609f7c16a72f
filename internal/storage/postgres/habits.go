package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/daystreak/internal/models"
	"github.com/julianstephens/daystreak/internal/storage"
)

const habitColumns = `id, challenge_id, name, sublabel, frequency, specific_days, is_weekly_goal, weekly_target, sort_order, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHabit(row rowScanner) (models.Habit, error) {
	var r storage.HabitRow
	if err := row.Scan(&r.ID, &r.ChallengeID, &r.Name, &r.Sublabel, &r.Frequency, &r.SpecificDays,
		&r.IsWeeklyGoal, &r.WeeklyTarget, &r.SortOrder, &r.CreatedAt); err != nil {
		return models.Habit{}, err
	}
	return r.Habit()
}

func (s *Store) ListHabits(ctx context.Context, challengeID string) ([]models.Habit, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT `+habitColumns+`
FROM habits WHERE challenge_id = $1
ORDER BY sort_order, created_at`, challengeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var habits []models.Habit
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	return habits, rows.Err()
}

func (s *Store) CreateHabits(ctx context.Context, challengeID string, drafts []models.HabitDraft) ([]models.Habit, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	now := time.Now().UTC().Truncate(time.Microsecond)
	habits := make([]models.Habit, 0, len(drafts))
	for i, d := range drafts {
		h := models.Habit{
			ID:          uuid.NewString(),
			ChallengeID: challengeID,
			Name:        d.Name,
			Sublabel:    d.Sublabel,
			Recurrence:  d.Recurrence,
			SortOrder:   i,
			CreatedAt:   now,
		}
		r, err := storage.NewHabitRow(h)
		if err != nil {
			return nil, err
		}
		_, err = tx.ExecContext(ctx, `
INSERT INTO habits (`+habitColumns+`)
VALUES ($1, $2, $3, $4, $5, $6::jsonb, $7, $8, $9, $10)`,
			r.ID, r.ChallengeID, r.Name, r.Sublabel, r.Frequency, r.SpecificDays,
			r.IsWeeklyGoal, r.WeeklyTarget, r.SortOrder, r.CreatedAt)
		if err != nil {
			if pqCode(err) == codeForeignKeyViolation {
				return nil, fmt.Errorf("challenge %s: %w", challengeID, storage.ErrNotFound)
			}
			return nil, fmt.Errorf("failed to insert habit %q: %w", d.Name, err)
		}
		habits = append(habits, h)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return habits, nil
}

func (s *Store) UpdateHabit(ctx context.Context, habitID string, patch models.HabitPatch) (models.Habit, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Habit{}, err
	}
	defer tx.Rollback()

	current, err := scanHabit(tx.QueryRowContext(ctx, `SELECT `+habitColumns+` FROM habits WHERE id = $1 FOR UPDATE`, habitID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Habit{}, fmt.Errorf("habit %s: %w", habitID, storage.ErrNotFound)
		}
		return models.Habit{}, err
	}

	updated := patch.Apply(current)
	r, err := storage.NewHabitRow(updated)
	if err != nil {
		return models.Habit{}, err
	}
	_, err = tx.ExecContext(ctx, `
UPDATE habits
SET name = $1, sublabel = $2, frequency = $3, specific_days = $4::jsonb, is_weekly_goal = $5, weekly_target = $6
WHERE id = $7`,
		r.Name, r.Sublabel, r.Frequency, r.SpecificDays, r.IsWeeklyGoal, r.WeeklyTarget, r.ID)
	if err != nil {
		return models.Habit{}, err
	}

	if err := tx.Commit(); err != nil {
		return models.Habit{}, err
	}
	return updated, nil
}
