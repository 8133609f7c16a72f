package storage

import (
	"context"
	"errors"

	"github.com/julianstephens/daystreak/internal/models"
)

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists is returned when a unique record would be duplicated.
	ErrAlreadyExists = errors.New("record already exists")
)

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error
	Ping(ctx context.Context) error

	// Challenges
	GetChallengeForUser(ctx context.Context, userID string) (models.Challenge, error)
	CreateChallenge(ctx context.Context, userID, name string, duration int, startDate string) (models.Challenge, error)

	// Habits
	// ListHabits returns the challenge's habits ordered by sort order ascending.
	ListHabits(ctx context.Context, challengeID string) ([]models.Habit, error)
	// CreateHabits inserts drafts in one transaction; input order becomes sort order.
	CreateHabits(ctx context.Context, challengeID string, drafts []models.HabitDraft) ([]models.Habit, error)
	UpdateHabit(ctx context.Context, habitID string, patch models.HabitPatch) (models.Habit, error)

	// Completions
	ListCompletions(ctx context.Context, habitIDs []string) ([]models.Completion, error)
	// CreateCompletion fails with ErrAlreadyExists when the (habit, day) pair is taken.
	CreateCompletion(ctx context.Context, habitID string, dayNumber int) (models.Completion, error)
	// DeleteCompletion fails with ErrNotFound when there is nothing to delete.
	DeleteCompletion(ctx context.Context, habitID string, dayNumber int) error

	// Utils
	GetConfigPath() string
}
