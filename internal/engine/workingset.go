package engine

import (
	"sync"

	"github.com/subwatch-ai/subwatch/internal/common"
	"github.com/subwatch-ai/subwatch/internal/model"
)

// WorkingSet is the in-memory collection of subscription records for the
// session. Insertion order is preserved for display; record ids are unique.
// All mutations take the write lock, so readers never observe a partially
// applied batch.
type WorkingSet struct {
	byID  map[string]model.Subscription
	order []string
	mu    sync.RWMutex
}

// NewWorkingSet creates an empty working set.
func NewWorkingSet() *WorkingSet {
	return &WorkingSet{
		byID: make(map[string]model.Subscription),
	}
}

// Add inserts a single record, rejecting duplicate ids.
func (w *WorkingSet) Add(sub model.Subscription) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, exists := w.byID[sub.ID]; exists {
		return common.ErrDuplicateRecord
	}

	w.byID[sub.ID] = sub
	w.order = append(w.order, sub.ID)
	return nil
}

// Merge appends every non-duplicate record from the batch in order, as one
// atomic mutation, and returns the number actually added. Within the batch
// the first occurrence of an id wins.
func (w *WorkingSet) Merge(batch []model.Subscription) int {
	w.mu.Lock()
	defer w.mu.Unlock()

	added := 0
	for _, sub := range batch {
		if _, exists := w.byID[sub.ID]; exists {
			continue
		}
		w.byID[sub.ID] = sub
		w.order = append(w.order, sub.ID)
		added++
	}
	return added
}

// Remove deletes a record by id.
func (w *WorkingSet) Remove(id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, exists := w.byID[id]; !exists {
		return common.ErrNotFound
	}

	delete(w.byID, id)
	for i, existing := range w.order {
		if existing == id {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
	return nil
}

// Get looks up a record by id.
func (w *WorkingSet) Get(id string) (model.Subscription, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	sub, ok := w.byID[id]
	return sub, ok
}

// Has reports whether a record with the id exists.
func (w *WorkingSet) Has(id string) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()

	_, ok := w.byID[id]
	return ok
}

// List returns a copy of all records in insertion order.
func (w *WorkingSet) List() []model.Subscription {
	w.mu.RLock()
	defer w.mu.RUnlock()

	subs := make([]model.Subscription, 0, len(w.order))
	for _, id := range w.order {
		subs = append(subs, w.byID[id])
	}
	return subs
}

// Len returns the number of records.
func (w *WorkingSet) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return len(w.order)
}

// Clear removes everything, used at sign-out.
func (w *WorkingSet) Clear() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.byID = make(map[string]model.Subscription)
	w.order = nil
}
