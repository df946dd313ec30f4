package board

import (
	"sync"

	"github.com/taskboard/taskboard/models"
)

// Sections holds the per-status expand/collapse flags for the three board
// sections. Purely presentational, default open, never persisted.
type Sections struct {
	mu        sync.Mutex
	collapsed map[models.TaskStatus]bool
}

// NewSections creates section state with all three sections expanded.
func NewSections() *Sections {
	return &Sections{collapsed: make(map[models.TaskStatus]bool, 3)}
}

// Toggle flips exactly one section's flag. Unknown statuses are ignored.
func (s *Sections) Toggle(status models.TaskStatus) {
	if !status.Valid() {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.collapsed[status] = !s.collapsed[status]
}

// Expanded reports whether the section for status is open.
func (s *Sections) Expanded(status models.TaskStatus) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.collapsed[status]
}

// Snapshot returns the expanded flag per status.
func (s *Sections) Snapshot() map[models.TaskStatus]bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[models.TaskStatus]bool, 3)
	for _, status := range models.AllStatuses() {
		out[status] = !s.collapsed[status]
	}
	return out
}
