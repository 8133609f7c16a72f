// Package challenge loads, creates and edits a user's challenge through the
// record store and keeps a local snapshot for offline use.
package challenge

import (
	"context"
	"errors"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/daystreak/internal/constants"
	apperrors "github.com/julianstephens/daystreak/internal/errors"
	"github.com/julianstephens/daystreak/internal/logger"
	"github.com/julianstephens/daystreak/internal/models"
	"github.com/julianstephens/daystreak/internal/storage"
	"github.com/julianstephens/daystreak/internal/utils"
)

// ErrOffline is returned by operations that cannot be queued.
var ErrOffline = errors.New("record store is offline")

// Cache is where the last loaded snapshot is kept.
type Cache interface {
	Get(key string, v any) (bool, error)
	Set(key string, v any) error
}

// Snapshot is everything the progress engine needs for one user.
type Snapshot struct {
	Challenge   models.Challenge    `json:"challenge"`
	Habits      []models.Habit      `json:"habits"`
	Completions []models.Completion `json:"completions"`
	SavedAt     time.Time           `json:"saved_at"`
	// Stale is set when the snapshot came from the cache instead of the store
	Stale bool `json:"-"`
}

// SetupInput is the first-run form.
type SetupInput struct {
	Name      string
	Duration  int
	StartDate string
	Habits    []models.HabitDraft
}

type Service struct {
	store   storage.Provider
	cache   Cache
	offline bool
	now     func() time.Time
}

// NewService builds a service over store. A nil cache disables snapshots;
// offline makes every read come from the cache.
func NewService(store storage.Provider, cache Cache, offline bool) *Service {
	return &Service{store: store, cache: cache, offline: offline, now: time.Now}
}

// Load fetches the user's challenge, habits and completions. When the store
// fails, the cached snapshot for the same user is returned instead.
func (s *Service) Load(ctx context.Context, userID string) (Snapshot, error) {
	if s.offline {
		return s.cached(userID, ErrOffline)
	}

	snap, err := s.fetch(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNoChallenge) {
			return Snapshot{}, err
		}
		return s.cached(userID, err)
	}
	s.remember(snap)
	return snap, nil
}

func (s *Service) fetch(ctx context.Context, userID string) (Snapshot, error) {
	ch, err := s.store.GetChallengeForUser(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return Snapshot{}, apperrors.ErrNoChallenge
	}
	if err != nil {
		return Snapshot{}, apperrors.Remote("load challenge", err)
	}

	habits, err := s.store.ListHabits(ctx, ch.ID)
	if err != nil {
		return Snapshot{}, apperrors.Remote("load habits", err)
	}

	ids := make([]string, len(habits))
	for i, h := range habits {
		ids[i] = h.ID
	}
	completions, err := s.store.ListCompletions(ctx, ids)
	if err != nil {
		return Snapshot{}, apperrors.Remote("load completions", err)
	}

	return Snapshot{
		Challenge:   ch,
		Habits:      habits,
		Completions: completions,
		SavedAt:     s.now().UTC(),
	}, nil
}

func (s *Service) cached(userID string, cause error) (Snapshot, error) {
	if s.cache == nil {
		return Snapshot{}, remoteErr(cause)
	}
	var snap Snapshot
	found, err := s.cache.Get(constants.SnapshotKey, &snap)
	if err != nil {
		logger.Warn("Ignoring unreadable snapshot", "error", err)
		return Snapshot{}, remoteErr(cause)
	}
	if !found || snap.Challenge.UserID != userID {
		return Snapshot{}, remoteErr(cause)
	}
	logger.Debug("Using cached snapshot", "saved_at", snap.SavedAt, "cause", cause)
	snap.Stale = true
	return snap, nil
}

func remoteErr(err error) error {
	if apperrors.IsRemote(err) {
		return err
	}
	return apperrors.Remote("load challenge", err)
}

func (s *Service) remember(snap Snapshot) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(constants.SnapshotKey, snap); err != nil {
		logger.Warn("Failed to cache snapshot", "error", err)
	}
}

// Remember replaces the cached completions with the confirmed ones in
// completions. Provisional records are left to the offline queue.
func (s *Service) Remember(snap Snapshot, completions []models.Completion) {
	confirmed := make([]models.Completion, 0, len(completions))
	for _, c := range completions {
		if !c.IsProvisional() {
			confirmed = append(confirmed, c)
		}
	}
	snap.Completions = confirmed
	snap.Stale = false
	if snap.SavedAt.IsZero() {
		snap.SavedAt = s.now().UTC()
	}
	s.remember(snap)
}

// Setup creates the challenge and its habits. Habits with a blank name are
// dropped; at least one must remain. A challenge left without habits by an
// interrupted setup is reused.
func (s *Service) Setup(ctx context.Context, userID string, in SetupInput) (Snapshot, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = constants.DefaultChallengeName
	}
	if in.Duration <= 0 {
		return Snapshot{}, apperrors.Validationf("duration must be positive, got %d", in.Duration)
	}
	if _, err := utils.ParseDate(in.StartDate); err != nil {
		return Snapshot{}, apperrors.Validationf("invalid start date %q", in.StartDate)
	}

	drafts := make([]models.HabitDraft, 0, len(in.Habits))
	for _, d := range in.Habits {
		d.Name = strings.TrimSpace(d.Name)
		d.Sublabel = strings.TrimSpace(d.Sublabel)
		if d.Name == "" {
			continue
		}
		if err := d.Recurrence.Validate(); err != nil {
			return Snapshot{}, apperrors.Validationf("habit %q: %v", d.Name, err)
		}
		drafts = append(drafts, d)
	}
	if len(drafts) == 0 {
		return Snapshot{}, apperrors.Validationf("at least one habit needs a name")
	}
	if s.offline {
		return Snapshot{}, apperrors.Remote("create challenge", ErrOffline)
	}

	ch, err := s.store.GetChallengeForUser(ctx, userID)
	switch {
	case err == nil:
		existing, err := s.store.ListHabits(ctx, ch.ID)
		if err != nil {
			return Snapshot{}, apperrors.Remote("load habits", err)
		}
		if len(existing) > 0 {
			return Snapshot{}, apperrors.Validationf("%s already has a challenge (%s)", userID, ch.Name)
		}
		// an empty name means keep whatever the first attempt stored
		nameConflict := strings.TrimSpace(in.Name) != "" && name != ch.Name
		if nameConflict || in.Duration != ch.Duration || in.StartDate != ch.StartDate {
			logger.Warn("Setup values differ from unfinished challenge",
				"challenge", ch.ID,
				"name", name, "stored_name", ch.Name,
				"duration", in.Duration, "stored_duration", ch.Duration,
				"start", in.StartDate, "stored_start", ch.StartDate)
			return Snapshot{}, apperrors.Validationf(
				"%s has an unfinished challenge %q (%d days from %s); rerun setup with those values",
				userID, ch.Name, ch.Duration, ch.StartDate)
		}
		logger.Info("Resuming setup of existing challenge", "challenge", ch.ID)
	case errors.Is(err, storage.ErrNotFound):
		ch, err = s.store.CreateChallenge(ctx, userID, name, in.Duration, in.StartDate)
		if err != nil {
			return Snapshot{}, apperrors.Remote("create challenge", err)
		}
	default:
		return Snapshot{}, apperrors.Remote("load challenge", err)
	}

	habits, err := s.store.CreateHabits(ctx, ch.ID, drafts)
	if err != nil {
		return Snapshot{}, apperrors.Remote("create habits", err)
	}

	snap := Snapshot{Challenge: ch, Habits: habits, SavedAt: s.now().UTC()}
	s.remember(snap)
	return snap, nil
}

// EditHabit applies patch to the habit. A name, when given, must not be blank.
func (s *Service) EditHabit(ctx context.Context, habitID string, patch models.HabitPatch) (models.Habit, error) {
	if patch.Name != nil {
		trimmed := strings.TrimSpace(*patch.Name)
		if trimmed == "" {
			return models.Habit{}, apperrors.Validationf("habit name must not be empty")
		}
		patch.Name = &trimmed
	}
	if patch.Recurrence != nil {
		if err := patch.Recurrence.Validate(); err != nil {
			return models.Habit{}, apperrors.Validationf("%v", err)
		}
	}
	if s.offline {
		return models.Habit{}, apperrors.Remote("update habit", ErrOffline)
	}

	h, err := s.store.UpdateHabit(ctx, habitID, patch)
	if errors.Is(err, storage.ErrNotFound) {
		return models.Habit{}, apperrors.Validationf("habit %s not found", habitID)
	}
	if err != nil {
		return models.Habit{}, apperrors.Remote("update habit", err)
	}
	return h, nil
}

// FindHabit resolves ref as a habit id, a 1-based position, or a
// case-insensitive name.
func FindHabit(habits []models.Habit, ref string) (models.Habit, bool) {
	ref = strings.TrimSpace(ref)
	if i := slices.IndexFunc(habits, func(h models.Habit) bool { return h.ID == ref }); i >= 0 {
		return habits[i], true
	}
	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(habits) {
		return habits[n-1], true
	}
	if i := slices.IndexFunc(habits, func(h models.Habit) bool { return strings.EqualFold(h.Name, ref) }); i >= 0 {
		return habits[i], true
	}
	return models.Habit{}, false
}
