package board

import (
	"context"
	"strings"
	"testing"

	"github.com/taskboard/taskboard/models"
	"github.com/taskboard/taskboard/types"
)

func engineOver(t *testing.T, client *mockClient, tasks []models.Task) (*Engine, *Collection) {
	t.Helper()
	c := loadedCollection(t, client, tasks)
	return NewEngine(c), c
}

// applyingUpdate makes the mock repository behave like the real one for
// status moves: merge the field and append the activity entry.
func applyingUpdate(c *Collection) func(ctx context.Context, id string, updates map[string]interface{}) (models.Task, error) {
	return func(ctx context.Context, id string, updates map[string]interface{}) (models.Task, error) {
		task, ok := c.Task(id)
		if !ok {
			return models.Task{}, &types.NotFoundError{ID: id}
		}
		prev := task.Status
		if err := models.ApplyFields(&task, updates); err != nil {
			return models.Task{}, &types.ValidationError{Reason: "update rejected", Err: err}
		}
		if kind, changed := models.ActivityForTransition(prev, task.Status); changed {
			task.Activities = append(task.Activities, models.Activity{Kind: kind, By: task.UserID})
		}
		return task, nil
	}
}

func TestApplyDrop_AllTransitions(t *testing.T) {
	statuses := models.AllStatuses()
	for _, from := range statuses {
		for _, to := range statuses {
			if from == to {
				continue
			}
			t.Run(string(from)+"_to_"+string(to), func(t *testing.T) {
				client := &mockClient{}
				e, c := engineOver(t, client, []models.Task{makeTask("a", "task", from)})
				client.mu.Lock()
				client.updateFn = applyingUpdate(c)
				client.mu.Unlock()

				target := to
				if err := e.ApplyDrop(context.Background(), DropEvent{TaskID: "a", To: &target}); err != nil {
					t.Fatalf("ApplyDrop(%s -> %s) failed: %v", from, to, err)
				}
				got, _ := c.Task("a")
				if got.Status != to {
					t.Errorf("status = %q, want %q", got.Status, to)
				}
				wantKind, _ := models.ActivityForTransition(from, to)
				if n := len(got.Activities); n == 0 || got.Activities[n-1].Kind != wantKind {
					t.Errorf("expected a %q activity, got %v", wantKind, got.Activities)
				}
			})
		}
	}
}

func TestApplyDrop_SameSectionIsNoOp(t *testing.T) {
	client := &mockClient{}
	e, _ := engineOver(t, client, []models.Task{makeTask("a", "task", models.StatusTodo)})

	target := models.StatusTodo
	if err := e.ApplyDrop(context.Background(), DropEvent{TaskID: "a", To: &target}); err != nil {
		t.Fatalf("same-section drop should succeed: %v", err)
	}
	if n := client.updateCount(); n != 0 {
		t.Errorf("same-section drop must not reach the repository, got %d calls", n)
	}
}

func TestApplyDrop_CancelledGesture(t *testing.T) {
	client := &mockClient{}
	e, _ := engineOver(t, client, []models.Task{makeTask("a", "task", models.StatusTodo)})

	if err := e.ApplyDrop(context.Background(), DropEvent{TaskID: "a", To: nil}); err != nil {
		t.Fatalf("cancelled drop should be a no-op: %v", err)
	}
	if n := client.updateCount(); n != 0 {
		t.Errorf("cancelled drop must not reach the repository, got %d calls", n)
	}
}

func TestApplyDrop_UnknownStatus(t *testing.T) {
	client := &mockClient{}
	e, _ := engineOver(t, client, []models.Task{makeTask("a", "task", models.StatusTodo)})

	target := models.TaskStatus("archived")
	err := e.ApplyDrop(context.Background(), DropEvent{TaskID: "a", To: &target})
	if !types.IsValidation(err) {
		t.Errorf("expected a validation error for unknown status, got %v", err)
	}
}

func TestApplyDrop_MissingTask(t *testing.T) {
	client := &mockClient{}
	e, _ := engineOver(t, client, nil)

	target := models.StatusCompleted
	err := e.ApplyDrop(context.Background(), DropEvent{TaskID: "ghost", To: &target})
	if !types.IsNotFound(err) {
		t.Errorf("expected NotFoundError, got %v", err)
	}
}

func TestApplyEdit_MergesAndUpdates(t *testing.T) {
	client := &mockClient{}
	e, c := engineOver(t, client, []models.Task{makeTask("a", "old title", models.StatusTodo)})
	client.mu.Lock()
	client.updateFn = applyingUpdate(c)
	client.mu.Unlock()

	updated, err := e.ApplyEdit(context.Background(), "a", map[string]interface{}{
		"title":  "new title",
		"status": "completed",
	})
	if err != nil {
		t.Fatalf("ApplyEdit failed: %v", err)
	}
	if updated.Title != "new title" || updated.Status != models.StatusCompleted {
		t.Errorf("edit not applied: %+v", updated)
	}
	got, _ := c.Task("a")
	if got.Title != "new title" {
		t.Errorf("collection not refreshed after edit: %+v", got)
	}
}

func TestApplyEdit_ValidationPreflight(t *testing.T) {
	client := &mockClient{}
	e, c := engineOver(t, client, []models.Task{makeTask("a", "old title", models.StatusTodo)})

	tests := []struct {
		name   string
		fields map[string]interface{}
	}{
		{"empty title", map[string]interface{}{"title": ""}},
		{"description over limit", map[string]interface{}{"description": strings.Repeat("a", 301)}},
		{"immutable field", map[string]interface{}{"userId": "mallory"}},
		{"immutable field recapitalized", map[string]interface{}{"UserID": "mallory", "CreatedBy": "mallory"}},
		{"immutable id recapitalized", map[string]interface{}{"ID": "11111111-2222-4333-8444-555555555555"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.ApplyEdit(context.Background(), "a", tt.fields)
			if !types.IsValidation(err) {
				t.Fatalf("expected a validation error, got %v", err)
			}
		})
	}

	if n := client.updateCount(); n != 0 {
		t.Errorf("rejected edits must not reach the repository, got %d calls", n)
	}
	got, _ := c.Task("a")
	if got.Title != "old title" || got.Description != "" {
		t.Errorf("rejected edits must leave the task untouched: %+v", got)
	}
}

func TestApplyEdit_MissingTask(t *testing.T) {
	client := &mockClient{}
	e, _ := engineOver(t, client, nil)

	_, err := e.ApplyEdit(context.Background(), "ghost", map[string]interface{}{"title": "x"})
	if !types.IsNotFound(err) {
		t.Errorf("expected NotFoundError, got %v", err)
	}
}
