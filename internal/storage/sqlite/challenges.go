package sqlite

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

var (
	_ storage.Provider = (*Store)(nil)
	_ storage.Migrator = (*Store)(nil)
)

func (s *Store) GetChallengeForUser(ctx context.Context, userID string) (models.Challenge, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, duration, start_date, created_at
		FROM challenges WHERE user_id = ?`, userID)

	var c models.Challenge
	var createdAt string
	if err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.Duration, &c.StartDate, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Challenge{}, storage.ErrNotFound
		}
		return models.Challenge{}, err
	}

	var err error
	c.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return models.Challenge{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	return c, nil
}

func (s *Store) CreateChallenge(ctx context.Context, userID, name string, duration int, startDate string) (models.Challenge, error) {
	c := models.Challenge{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      name,
		Duration:  duration,
		StartDate: startDate,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO challenges (id, user_id, name, duration, start_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO NOTHING`,
		c.ID, c.UserID, c.Name, c.Duration, c.StartDate, c.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return models.Challenge{}, err
	}
	if n, err := res.RowsAffected(); err != nil {
		return models.Challenge{}, err
	} else if n == 0 {
		return models.Challenge{}, fmt.Errorf("challenge for user %s: %w", userID, storage.ErrAlreadyExists)
	}
	return c, nil
}
