package board

import (
	"context"
	"sync"
)

// Selection tracks the set of currently selected task ids. It is ephemeral
// process-local state: never persisted, and pruned eagerly whenever the
// collection drops a task, so every selected id always references a task
// present in the collection.
type Selection struct {
	mu    sync.Mutex
	ids   map[string]struct{}
	order []string // selection order, for deterministic bulk operations
}

// NewSelection creates an empty selection wired to the collection's
// removal notifications.
func NewSelection(c *Collection) *Selection {
	s := &Selection{ids: make(map[string]struct{})}
	c.OnRemove(s.prune)
	return s
}

// Toggle adds or removes a single id.
func (s *Selection) Toggle(id string, selected bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if selected {
		s.add(id)
	} else {
		s.remove(id)
	}
}

// SelectAll replaces the selection with the given ids.
func (s *Selection) SelectAll(ids []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = make(map[string]struct{}, len(ids))
	s.order = s.order[:0]
	for _, id := range ids {
		s.add(id)
	}
}

// Clear empties the selection.
func (s *Selection) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = make(map[string]struct{})
	s.order = nil
}

// Has reports whether id is selected.
func (s *Selection) Has(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.ids[id]
	return ok
}

// Len returns the number of selected ids.
func (s *Selection) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ids)
}

// IDs returns the selected ids in selection order.
func (s *Selection) IDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// add and remove assume s.mu is held.
func (s *Selection) add(id string) {
	if _, ok := s.ids[id]; ok {
		return
	}
	s.ids[id] = struct{}{}
	s.order = append(s.order, id)
}

func (s *Selection) remove(id string) {
	if _, ok := s.ids[id]; !ok {
		return
	}
	delete(s.ids, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// prune drops ids whose tasks left the collection.
func (s *Selection) prune(removed []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range removed {
		s.remove(id)
	}
}

// DeleteFailure reports one failed deletion from a bulk delete.
type DeleteFailure struct {
	ID  string
	Err error
}

// BulkDelete snapshots the current selection and deletes each id against
// the collection, sequentially, awaiting each call before the next so that
// in-flight remote calls stay bounded and failure accounting is
// unambiguous. Failures are reported per id, never batched into one error,
// and the selection ends empty regardless of individual outcomes.
func (s *Selection) BulkDelete(ctx context.Context, c *Collection) []DeleteFailure {
	snapshot := s.IDs()
	defer s.Clear()

	var failures []DeleteFailure
	for _, id := range snapshot {
		if err := c.Delete(ctx, id); err != nil {
			failures = append(failures, DeleteFailure{ID: id, Err: err})
		}
	}
	return failures
}
