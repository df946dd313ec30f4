package board

import (
	"context"
	"fmt"

	"github.com/taskboard/taskboard/models"
	"github.com/taskboard/taskboard/types"
)

// Engine is the single authority for status changes: drops and edits both
// funnel through it, and nothing else writes a task's status field. The
// transition graph over the three statuses is complete — any status may
// move directly to any other — and a transition touches no other field.
type Engine struct {
	collection *Collection
}

// NewEngine creates a transition engine over the given collection.
func NewEngine(c *Collection) *Engine {
	return &Engine{collection: c}
}

// DropEvent describes a drag-and-drop gesture on the board. To is nil when
// the gesture was cancelled (no destination).
type DropEvent struct {
	TaskID string
	To     *models.TaskStatus
}

// ApplyDrop applies a drop event. A cancelled gesture or a drop onto the
// task's current section is a no-op; anything else becomes a status update
// against the collection. The task is resolved from the live collection at
// call time, not from a snapshot taken when the drag began, because the
// collection may have changed during the gesture.
func (e *Engine) ApplyDrop(ctx context.Context, ev DropEvent) error {
	if ev.To == nil {
		return nil
	}
	target := *ev.To
	if !target.Valid() {
		return &types.ValidationError{Field: "status", Reason: fmt.Sprintf("unknown status %q", target)}
	}

	task, ok := e.collection.Task(ev.TaskID)
	if !ok {
		return &types.NotFoundError{ID: ev.TaskID}
	}
	if task.Status == target {
		return nil
	}

	_, err := e.collection.Update(ctx, ev.TaskID, map[string]interface{}{"status": target})
	return err
}

// ApplyEdit applies an arbitrary partial field set, possibly including
// status, to the task identified by id. The merged result is validated
// before any remote call: title and due date must be present and the
// description may not exceed its length limit. On failure the collection
// is untouched and the error is propagated so the caller can keep its edit
// context open.
func (e *Engine) ApplyEdit(ctx context.Context, id string, fields map[string]interface{}) (models.Task, error) {
	task, ok := e.collection.Task(id)
	if !ok {
		return models.Task{}, &types.NotFoundError{ID: id}
	}

	merged := task
	if err := models.ApplyFields(&merged, fields); err != nil {
		return models.Task{}, &types.ValidationError{Reason: "edit rejected", Err: err}
	}
	if err := models.ValidateStruct(merged); err != nil {
		return models.Task{}, &types.ValidationError{Reason: "edited task failed validation", Err: err}
	}

	return e.collection.Update(ctx, id, fields)
}
