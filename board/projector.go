package board

import (
	"strings"

	"github.com/taskboard/taskboard/models"
)

// The projector is a pure derivation layer: it holds no state and is
// recomputed from a collection snapshot on every change.

// Groups holds the three disjoint status sections of a visible task set,
// each preserving the collection's relative order.
type Groups struct {
	Todo       []models.Task
	InProgress []models.Task
	Completed  []models.Task
}

// ByStatus returns the group for the given status.
func (g Groups) ByStatus(s models.TaskStatus) []models.Task {
	switch s {
	case models.StatusTodo:
		return g.Todo
	case models.StatusInProgress:
		return g.InProgress
	case models.StatusCompleted:
		return g.Completed
	}
	return nil
}

// Total returns the number of tasks across all three groups.
func (g Groups) Total() int {
	return len(g.Todo) + len(g.InProgress) + len(g.Completed)
}

// Visible filters tasks by a search query. A task is visible iff the query
// is empty, or it is a case-insensitive substring of the title or of the
// description (an absent description never matches).
func Visible(tasks []models.Task, query string) []models.Task {
	if query == "" {
		out := make([]models.Task, len(tasks))
		copy(out, tasks)
		return out
	}
	q := strings.ToLower(query)
	out := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if strings.Contains(strings.ToLower(t.Title), q) {
			out = append(out, t)
			continue
		}
		if t.Description != "" && strings.Contains(strings.ToLower(t.Description), q) {
			out = append(out, t)
		}
	}
	return out
}

// Partition splits tasks into the three status groups. No implicit sort is
// applied: each group keeps the input's relative order, so a drag-and-drop
// move never causes a surprising reorder.
func Partition(tasks []models.Task) Groups {
	var g Groups
	for _, t := range tasks {
		switch t.Status {
		case models.StatusInProgress:
			g.InProgress = append(g.InProgress, t)
		case models.StatusCompleted:
			g.Completed = append(g.Completed, t)
		default:
			// Unknown statuses cannot exist in a validated collection;
			// anything else lands in Todo rather than disappearing.
			g.Todo = append(g.Todo, t)
		}
	}
	return g
}

// Project composes Visible and Partition: the grouped board view for a
// collection snapshot and search query.
func Project(tasks []models.Task, query string) Groups {
	return Partition(Visible(tasks, query))
}
