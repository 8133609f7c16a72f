package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/daystreak/internal/constants"
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
FROM challenges WHERE user_id = $1`, userID)

	var c models.Challenge
	var startDate time.Time
	if err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.Duration, &startDate, &c.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Challenge{}, storage.ErrNotFound
		}
		return models.Challenge{}, err
	}
	c.StartDate = startDate.Format(constants.DateFormat)
	return c, nil
}

func (s *Store) CreateChallenge(ctx context.Context, userID, name string, duration int, startDate string) (models.Challenge, error) {
	c := models.Challenge{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      name,
		Duration:  duration,
		StartDate: startDate,
	}

	err := s.db.QueryRowContext(ctx, `
INSERT INTO challenges (id, user_id, name, duration, start_date)
VALUES ($1, $2, $3, $4, $5)
RETURNING created_at`,
		c.ID, c.UserID, c.Name, c.Duration, c.StartDate).Scan(&c.CreatedAt)
	if err != nil {
		if pqCode(err) == codeUniqueViolation {
			return models.Challenge{}, fmt.Errorf("challenge for user %s: %w", userID, storage.ErrAlreadyExists)
		}
		return models.Challenge{}, err
	}
	return c, nil
}
