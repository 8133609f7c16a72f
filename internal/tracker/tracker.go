// Package tracker applies completion toggles optimistically and reconciles
// them with the record store, queueing writes while the store is unreachable.
package tracker

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/daystreak/internal/constants"
	apperrors "github.com/julianstephens/daystreak/internal/errors"
	"github.com/julianstephens/daystreak/internal/logger"
	"github.com/julianstephens/daystreak/internal/models"
	"github.com/julianstephens/daystreak/internal/storage"
)

// Remote is the write side of the record store.
type Remote interface {
	CreateCompletion(ctx context.Context, habitID string, dayNumber int) (models.Completion, error)
	DeleteCompletion(ctx context.Context, habitID string, dayNumber int) error
	ListCompletions(ctx context.Context, habitIDs []string) ([]models.Completion, error)
}

// Queue is the durable intent queue.
type Queue interface {
	Push(intent models.Intent) (cancelled bool, err error)
	Items() ([]models.Intent, error)
	Contains(id string) (bool, error)
	Remove(id string) (bool, error)
	HasPending(key models.CompletionKey) (bool, error)
}

// State is the reconciliation state of one (habit, day) pair.
type State int

const (
	Settled State = iota
	PendingCreate
	PendingDelete
)

func (s State) String() string {
	switch s {
	case PendingCreate:
		return "pending-create"
	case PendingDelete:
		return "pending-delete"
	default:
		return "settled"
	}
}

// Result describes how a toggle was applied.
type Result struct {
	// Done is the membership after the toggle
	Done bool
	// Queued is set when the write was deferred to the offline queue
	Queued bool
	// Cancelled is set when the toggle undid a queued write instead
	Cancelled  bool
	Completion models.Completion
}

type Tracker struct {
	remote Remote
	queue  Queue
	conn   Connectivity

	mu          sync.Mutex
	turn        *sync.Cond
	completions map[models.CompletionKey]models.Completion
	states      map[models.CompletionKey]State
	lines       map[models.CompletionKey]*keyLine

	now func() time.Time
}

// keyLine orders store writes for one key in the order toggles were applied.
type keyLine struct {
	next    uint64
	serving uint64
}

// Pending is a toggle already applied to the local set whose store write has
// not run yet. Every Pending must be passed to Send; later writes to the same
// key wait for it.
type Pending struct {
	key         models.CompletionKey
	ticket      uint64
	intent      models.Intent
	wasDone     bool
	prev        models.Completion
	prevState   State
	provisional models.Completion
}

// Done is the local membership the toggle produced.
func (p Pending) Done() bool { return !p.wasDone }

// New builds a tracker over the loaded completions and overlays any intents
// still waiting in the queue, so local state matches what the user last saw.
func New(remote Remote, queue Queue, conn Connectivity, completions []models.Completion) (*Tracker, error) {
	t := &Tracker{
		remote:      remote,
		queue:       queue,
		conn:        conn,
		completions: make(map[models.CompletionKey]models.Completion, len(completions)),
		states:      make(map[models.CompletionKey]State),
		lines:       make(map[models.CompletionKey]*keyLine),
		now:         time.Now,
	}
	t.turn = sync.NewCond(&t.mu)
	for _, c := range completions {
		t.completions[c.Key()] = c
	}

	pending, err := queue.Items()
	if err != nil {
		return nil, fmt.Errorf("failed to read offline queue: %w", err)
	}
	for _, it := range pending {
		t.overlay(it)
	}
	return t, nil
}

func (t *Tracker) overlay(it models.Intent) {
	key := it.Key()
	switch it.Action {
	case models.IntentCreate:
		if _, ok := t.completions[key]; !ok {
			t.completions[key] = models.Completion{
				ID:          constants.ProvisionalIDPrefix + it.ID,
				HabitID:     it.HabitID,
				DayNumber:   it.DayNumber,
				CompletedAt: it.EnqueuedAt,
			}
		}
		t.states[key] = PendingCreate
	case models.IntentDelete:
		delete(t.completions, key)
		t.states[key] = PendingDelete
	}
}

// ticketLocked hands out the next write slot for key. Caller holds t.mu.
func (t *Tracker) ticketLocked(key models.CompletionKey) uint64 {
	l, ok := t.lines[key]
	if !ok {
		l = &keyLine{}
		t.lines[key] = l
	}
	n := l.next
	l.next++
	return n
}

// await blocks until ticket is the one allowed to write key.
func (t *Tracker) await(key models.CompletionKey, ticket uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for t.lines[key].serving != ticket {
		t.turn.Wait()
	}
}

// release passes the write slot for key to the next ticket.
func (t *Tracker) release(key models.CompletionKey) {
	t.mu.Lock()
	t.lines[key].serving++
	t.mu.Unlock()
	t.turn.Broadcast()
}

// acquire takes a write slot for key and waits for its turn.
func (t *Tracker) acquire(key models.CompletionKey) (ticket uint64, release func()) {
	t.mu.Lock()
	ticket = t.ticketLocked(key)
	t.mu.Unlock()
	t.await(key, ticket)
	return ticket, func() { t.release(key) }
}

// supersededLocked reports whether a toggle after ticket has touched key.
func (t *Tracker) supersededLocked(key models.CompletionKey, ticket uint64) bool {
	return t.lines[key].next != ticket+1
}

// Completions returns a snapshot of the local completion set.
func (t *Tracker) Completions() []models.Completion {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]models.Completion, 0, len(t.completions))
	for _, c := range t.completions {
		out = append(out, c)
	}
	slices.SortFunc(out, func(a, b models.Completion) int {
		if c := cmp.Compare(a.HabitID, b.HabitID); c != 0 {
			return c
		}
		return cmp.Compare(a.DayNumber, b.DayNumber)
	})
	return out
}

// IsDone reports local membership of (habitID, day).
func (t *Tracker) IsDone(habitID string, day int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.completions[models.CompletionKey{HabitID: habitID, DayNumber: day}]
	return ok
}

// State returns the reconciliation state of (habitID, day).
func (t *Tracker) State(habitID string, day int) State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.states[models.CompletionKey{HabitID: habitID, DayNumber: day}]
}

// Toggle flips (habitID, day) and waits for the store write. See Apply and Send.
func (t *Tracker) Toggle(ctx context.Context, habitID string, day int) (Result, error) {
	return t.Send(ctx, t.Apply(habitID, day))
}

// Apply flips (habitID, day) in the local set without touching the store or
// the queue, so callers can show the change at once.
func (t *Tracker) Apply(habitID string, day int) Pending {
	key := models.CompletionKey{HabitID: habitID, DayNumber: day}
	intent := models.Intent{
		ID:         uuid.NewString(),
		HabitID:    habitID,
		DayNumber:  day,
		EnqueuedAt: t.now().UTC(),
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	p := Pending{key: key, ticket: t.ticketLocked(key), intent: intent}
	p.prev, p.wasDone = t.completions[key]
	p.prevState = t.states[key]
	if p.wasDone {
		p.intent.Action = models.IntentDelete
		delete(t.completions, key)
		t.states[key] = PendingDelete
	} else {
		p.intent.Action = models.IntentCreate
		p.provisional = models.Completion{
			ID:          constants.ProvisionalIDPrefix + intent.ID,
			HabitID:     habitID,
			DayNumber:   day,
			CompletedAt: intent.EnqueuedAt,
		}
		t.completions[key] = p.provisional
		t.states[key] = PendingCreate
	}
	return p
}

// Send writes an applied toggle to the store, after any earlier toggle of the
// same key. A store rejection reverts the local change and is returned as a
// RemoteFailure. Offline or behind an already-queued write, the intent goes to
// the queue instead.
func (t *Tracker) Send(ctx context.Context, p Pending) (Result, error) {
	t.await(p.key, p.ticket)
	defer t.release(p.key)

	key, intent := p.key, p.intent
	hasQueued, err := t.queue.HasPending(key)
	if err != nil {
		t.revert(p)
		return Result{}, fmt.Errorf("failed to read offline queue: %w", err)
	}
	if hasQueued || !t.conn.Online(ctx) {
		cancelled, err := t.queue.Push(intent)
		if err != nil {
			t.revert(p)
			return Result{}, fmt.Errorf("failed to queue %s: %w", intent.Action, err)
		}
		if cancelled {
			t.settle(key, p.ticket)
		}
		logger.Debug("Completion queued", "habit", key.HabitID, "day", key.DayNumber, "action", intent.Action, "cancelled", cancelled)
		return Result{Done: p.Done(), Queued: true, Cancelled: cancelled, Completion: p.provisional}, nil
	}

	if p.wasDone {
		err := t.remote.DeleteCompletion(ctx, key.HabitID, key.DayNumber)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			t.revert(p)
			return Result{}, apperrors.Remote("delete completion", err)
		}
		t.settle(key, p.ticket)
		return Result{Done: false}, nil
	}

	confirmed, err := t.remote.CreateCompletion(ctx, key.HabitID, key.DayNumber)
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			stored := t.adopt(ctx, key, p.ticket, intent)
			return Result{Done: true, Completion: stored}, nil
		}
		t.revert(p)
		return Result{}, apperrors.Remote("create completion", err)
	}
	t.confirm(key, p.ticket, confirmed)
	return Result{Done: true, Completion: confirmed}, nil
}

// revert undoes p locally unless a later toggle of the key has replaced it.
func (t *Tracker) revert(p Pending) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.supersededLocked(p.key, p.ticket) {
		return
	}
	if p.wasDone {
		t.completions[p.key] = p.prev
	} else {
		delete(t.completions, p.key)
	}
	if p.prevState == Settled {
		delete(t.states, p.key)
	} else {
		t.states[p.key] = p.prevState
	}
}

// settle clears the key's pending state unless a later toggle owns it.
func (t *Tracker) settle(key models.CompletionKey, ticket uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.supersededLocked(key, ticket) {
		delete(t.states, key)
	}
}

// confirm swaps a provisional record for the stored one, if it is still there.
func (t *Tracker) confirm(key models.CompletionKey, ticket uint64, stored models.Completion) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if cur, ok := t.completions[key]; ok && cur.IsProvisional() {
		t.completions[key] = stored
	}
	if !t.supersededLocked(key, ticket) {
		delete(t.states, key)
	}
}

// adopt confirms a create the store already held, using the stored row. When
// the row cannot be read back, a record keyed by the intent id stands in.
func (t *Tracker) adopt(ctx context.Context, key models.CompletionKey, ticket uint64, intent models.Intent) models.Completion {
	stored := models.Completion{
		ID:          intent.ID,
		HabitID:     key.HabitID,
		DayNumber:   key.DayNumber,
		CompletedAt: intent.EnqueuedAt,
	}
	rows, err := t.remote.ListCompletions(ctx, []string{key.HabitID})
	if err != nil {
		logger.Warn("Failed to read back existing completion", "habit", key.HabitID, "day", key.DayNumber, "error", err)
	} else if i := slices.IndexFunc(rows, func(c models.Completion) bool { return c.DayNumber == key.DayNumber }); i >= 0 {
		stored = rows[i]
	}
	t.confirm(key, ticket, stored)
	return stored
}
