package board

import (
	"context"
	"testing"

	"github.com/taskboard/taskboard/models"
)

func TestBoard_SetOwnerSwitchesCollections(t *testing.T) {
	client := &mockClient{}
	byOwner := map[string][]models.Task{
		"alice": {makeTask("a1", "alice's task", models.StatusTodo)},
		"bob":   {makeTask("b1", "bob's task", models.StatusInProgress)},
	}
	client.fetchFn = func(ctx context.Context, ownerID string) ([]models.Task, error) {
		return byOwner[ownerID], nil
	}

	b := New(client)
	if err := b.SetOwner(context.Background(), "alice"); err != nil {
		t.Fatalf("SetOwner(alice) failed: %v", err)
	}
	b.Selection.Toggle("a1", true)

	if err := b.SetOwner(context.Background(), "bob"); err != nil {
		t.Fatalf("SetOwner(bob) failed: %v", err)
	}
	snap := b.Collection.Snapshot()
	if len(snap) != 1 || snap[0].ID != "b1" {
		t.Errorf("collection should hold bob's tasks: %v", ids(snap))
	}
	if b.Selection.Len() != 0 {
		t.Errorf("selection should be pruned on owner switch: %v", b.Selection.IDs())
	}
}

func TestBoard_SetOwnerEmptyTearsDown(t *testing.T) {
	client := &mockClient{}
	client.fetchFn = func(ctx context.Context, ownerID string) ([]models.Task, error) {
		return []models.Task{makeTask("a", "task", models.StatusTodo)}, nil
	}

	b := New(client)
	if err := b.SetOwner(context.Background(), "alice"); err != nil {
		t.Fatalf("SetOwner failed: %v", err)
	}
	if err := b.SetOwner(context.Background(), ""); err != nil {
		t.Fatalf("signed-out SetOwner failed: %v", err)
	}
	if len(b.Collection.Snapshot()) != 0 || b.Collection.Owner() != "" {
		t.Error("empty owner should tear down without loading")
	}
}

func TestBoard_View(t *testing.T) {
	client := &mockClient{}
	client.fetchFn = func(ctx context.Context, ownerID string) ([]models.Task, error) {
		return boardTasks(), nil
	}

	b := New(client)
	if err := b.SetOwner(context.Background(), "owner-1"); err != nil {
		t.Fatalf("SetOwner failed: %v", err)
	}

	g := b.View("")
	if g.Total() != 4 {
		t.Errorf("View('') total = %d, want 4", g.Total())
	}
	g = b.View("groceries")
	if g.Total() != 1 || len(g.Todo) != 1 {
		t.Errorf("View(groceries) = %+v", g)
	}
}
