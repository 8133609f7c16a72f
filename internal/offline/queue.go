// Package offline holds completion writes that could not be sent to the
// record store. Intents are kept in FIFO order in the local store.
package offline

import (
	"slices"
	"sync"

	"github.com/julianstephens/daystreak/internal/constants"
	"github.com/julianstephens/daystreak/internal/models"
)

// KV is the subset of the local store the queue needs.
type KV interface {
	Get(key string, v any) (bool, error)
	Set(key string, v any) error
	Delete(key string) error
}

type Queue struct {
	mu sync.Mutex
	kv KV
}

func New(kv KV) *Queue {
	return &Queue{kv: kv}
}

func (q *Queue) load() ([]models.Intent, error) {
	var items []models.Intent
	if _, err := q.kv.Get(constants.QueueKey, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (q *Queue) save(items []models.Intent) error {
	if len(items) == 0 {
		return q.kv.Delete(constants.QueueKey)
	}
	return q.kv.Set(constants.QueueKey, items)
}

// Enqueue appends intent to the tail.
func (q *Queue) Enqueue(intent models.Intent) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	items, err := q.load()
	if err != nil {
		return err
	}
	return q.save(append(items, intent))
}

// Push enqueues intent unless the last queued intent for the same key is its
// inverse, in which case that intent is removed and cancelled is true.
func (q *Queue) Push(intent models.Intent) (cancelled bool, err error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	items, err := q.load()
	if err != nil {
		return false, err
	}
	key := intent.Key()
	for i := len(items) - 1; i >= 0; i-- {
		if items[i].Key() != key {
			continue
		}
		if items[i].Action == intent.Action.Inverse() {
			return true, q.save(slices.Delete(items, i, i+1))
		}
		break
	}
	return false, q.save(append(items, intent))
}

// Items returns the queued intents in FIFO order without removing them.
func (q *Queue) Items() ([]models.Intent, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.load()
}

// DrainAll returns every queued intent and empties the queue.
func (q *Queue) DrainAll() ([]models.Intent, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	items, err := q.load()
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	if err := q.save(nil); err != nil {
		return nil, err
	}
	return items, nil
}

// Remove deletes the intent with id, reporting whether it was queued.
func (q *Queue) Remove(id string) (bool, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	items, err := q.load()
	if err != nil {
		return false, err
	}
	i := slices.IndexFunc(items, func(it models.Intent) bool { return it.ID == id })
	if i < 0 {
		return false, nil
	}
	return true, q.save(slices.Delete(items, i, i+1))
}

// Contains reports whether an intent with id is still queued.
func (q *Queue) Contains(id string) (bool, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	items, err := q.load()
	if err != nil {
		return false, err
	}
	return slices.ContainsFunc(items, func(it models.Intent) bool { return it.ID == id }), nil
}

// HasPending reports whether any intent for key is queued.
func (q *Queue) HasPending(key models.CompletionKey) (bool, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	items, err := q.load()
	if err != nil {
		return false, err
	}
	return slices.ContainsFunc(items, func(it models.Intent) bool { return it.Key() == key }), nil
}

func (q *Queue) Clear() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.save(nil)
}

// ReplaceWith swaps the queue contents for items.
func (q *Queue) ReplaceWith(items []models.Intent) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.save(slices.Clone(items))
}

func (q *Queue) Len() (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	items, err := q.load()
	if err != nil {
		return 0, err
	}
	return len(items), nil
}
