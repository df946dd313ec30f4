package board

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/taskboard/taskboard/models"
	"github.com/taskboard/taskboard/types"
)

// mockClient is a scriptable store.Client. Each hook defaults to a benign
// empty response; tests override only what they exercise.
type mockClient struct {
	mu          sync.Mutex
	fetchFn     func(ctx context.Context, ownerID string) ([]models.Task, error)
	createFn    func(ctx context.Context, draft models.Task) (models.Task, error)
	updateFn    func(ctx context.Context, id string, updates map[string]interface{}) (models.Task, error)
	deleteFn    func(ctx context.Context, id string) error
	updateCalls int
	deleteCalls []string
}

func (m *mockClient) FetchTasks(ctx context.Context, ownerID string) ([]models.Task, error) {
	m.mu.Lock()
	fn := m.fetchFn
	m.mu.Unlock()
	if fn == nil {
		return nil, nil
	}
	return fn(ctx, ownerID)
}

func (m *mockClient) CreateTask(ctx context.Context, draft models.Task) (models.Task, error) {
	m.mu.Lock()
	fn := m.createFn
	m.mu.Unlock()
	if fn == nil {
		draft.ID = "generated-id"
		return draft, nil
	}
	return fn(ctx, draft)
}

func (m *mockClient) UpdateTask(ctx context.Context, id string, updates map[string]interface{}) (models.Task, error) {
	m.mu.Lock()
	m.updateCalls++
	fn := m.updateFn
	m.mu.Unlock()
	if fn == nil {
		return models.Task{ID: id}, nil
	}
	return fn(ctx, id, updates)
}

func (m *mockClient) DeleteTask(ctx context.Context, id string) error {
	m.mu.Lock()
	m.deleteCalls = append(m.deleteCalls, id)
	fn := m.deleteFn
	m.mu.Unlock()
	if fn == nil {
		return nil
	}
	return fn(ctx, id)
}

func (m *mockClient) Close() error { return nil }

func (m *mockClient) updateCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.updateCalls
}

func makeTask(id, title string, status models.TaskStatus) models.Task {
	now := time.Now().UTC()
	return models.Task{
		ID:        id,
		Title:     title,
		DueDate:   models.DateOf(now),
		Category:  models.CategoryWork,
		Priority:  models.PriorityMedium,
		Status:    status,
		CreatedBy: "owner-1",
		UserID:    "owner-1",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func loadedCollection(t *testing.T, client *mockClient, tasks []models.Task) *Collection {
	t.Helper()
	client.mu.Lock()
	client.fetchFn = func(ctx context.Context, ownerID string) ([]models.Task, error) {
		out := make([]models.Task, len(tasks))
		copy(out, tasks)
		return out, nil
	}
	client.mu.Unlock()

	c := NewCollection(client)
	if err := c.Load(context.Background(), "owner-1"); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return c
}

func TestCollection_LoadReplacesAndScopes(t *testing.T) {
	client := &mockClient{}
	c := loadedCollection(t, client, []models.Task{
		makeTask("a", "first", models.StatusTodo),
		makeTask("b", "second", models.StatusCompleted),
	})

	snap := c.Snapshot()
	if len(snap) != 2 || snap[0].ID != "a" || snap[1].ID != "b" {
		t.Fatalf("unexpected snapshot: %v", snap)
	}
	if c.Owner() != "owner-1" {
		t.Errorf("Owner() = %q, want owner-1", c.Owner())
	}
	if c.Loading() {
		t.Error("Loading() should be false after the load completes")
	}
	if c.Err() != nil {
		t.Errorf("Err() = %v, want nil", c.Err())
	}
}

func TestCollection_StaleLoadIsDiscarded(t *testing.T) {
	firstStarted := make(chan struct{})
	releaseFirst := make(chan struct{})

	client := &mockClient{}
	call := 0
	client.fetchFn = func(ctx context.Context, ownerID string) ([]models.Task, error) {
		client.mu.Lock()
		call++
		n := call
		client.mu.Unlock()
		if n == 1 {
			close(firstStarted)
			<-releaseFirst
			return []models.Task{makeTask("stale", "stale result", models.StatusTodo)}, nil
		}
		return []models.Task{makeTask("fresh", "fresh result", models.StatusTodo)}, nil
	}

	c := NewCollection(client)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = c.Load(context.Background(), "owner-1")
	}()
	<-firstStarted

	// A second load supersedes the blocked first one.
	if err := c.Load(context.Background(), "owner-1"); err != nil {
		t.Fatalf("second Load failed: %v", err)
	}
	close(releaseFirst)
	wg.Wait()

	snap := c.Snapshot()
	if len(snap) != 1 || snap[0].ID != "fresh" {
		t.Fatalf("stale load result was not discarded: %v", snap)
	}
}

func TestCollection_LoadFailureKeepsLastKnownGood(t *testing.T) {
	client := &mockClient{}
	c := loadedCollection(t, client, []models.Task{makeTask("a", "first", models.StatusTodo)})

	client.mu.Lock()
	client.fetchFn = func(ctx context.Context, ownerID string) ([]models.Task, error) {
		return nil, &types.RemoteError{Op: "fetch", Err: errors.New("backend down")}
	}
	client.mu.Unlock()

	if err := c.Load(context.Background(), "owner-1"); err == nil {
		t.Fatal("expected Load to report the fetch failure")
	}
	if snap := c.Snapshot(); len(snap) != 1 || snap[0].ID != "a" {
		t.Errorf("failed load should keep last-known-good tasks, got %v", snap)
	}
	if c.Err() == nil {
		t.Error("Err() should be set after a failed load")
	}

	// The next successful load clears the error.
	client.mu.Lock()
	client.fetchFn = func(ctx context.Context, ownerID string) ([]models.Task, error) {
		return []models.Task{makeTask("a", "first", models.StatusTodo)}, nil
	}
	client.mu.Unlock()
	if err := c.Load(context.Background(), "owner-1"); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if c.Err() != nil {
		t.Errorf("Err() should clear on a successful load, got %v", c.Err())
	}
}

func TestCollection_CreateAppendsOnSuccessOnly(t *testing.T) {
	client := &mockClient{}
	c := loadedCollection(t, client, nil)

	created, err := c.Create(context.Background(), makeTaskDraft("new task"))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID == "" {
		t.Error("created task should carry the repository-assigned id")
	}
	if snap := c.Snapshot(); len(snap) != 1 || snap[0].ID != created.ID {
		t.Errorf("created task not appended: %v", snap)
	}

	client.mu.Lock()
	client.createFn = func(ctx context.Context, draft models.Task) (models.Task, error) {
		return models.Task{}, &types.RemoteError{Op: "create", Err: errors.New("write failed")}
	}
	client.mu.Unlock()

	if _, err := c.Create(context.Background(), makeTaskDraft("doomed")); err == nil {
		t.Fatal("expected Create to fail")
	}
	if snap := c.Snapshot(); len(snap) != 1 {
		t.Errorf("failed create must leave the collection unchanged, got %d tasks", len(snap))
	}
}

func makeTaskDraft(title string) models.Task {
	draft := makeTask("", title, models.StatusTodo)
	return draft
}

func TestCollection_UpdateMissingID(t *testing.T) {
	client := &mockClient{}
	c := loadedCollection(t, client, nil)

	_, err := c.Update(context.Background(), "missing", map[string]interface{}{"title": "x"})
	if !types.IsNotFound(err) {
		t.Errorf("expected NotFoundError, got %v", err)
	}
	if n := client.updateCount(); n != 0 {
		t.Errorf("no remote call should be made for a locally unknown id, got %d", n)
	}
}

func TestCollection_UpdateSerializesSameID(t *testing.T) {
	client := &mockClient{}
	c := loadedCollection(t, client, []models.Task{makeTask("a", "first", models.StatusTodo)})

	var inFlight, maxInFlight int
	var mu sync.Mutex
	client.mu.Lock()
	client.updateFn = func(ctx context.Context, id string, updates map[string]interface{}) (models.Task, error) {
		mu.Lock()
		inFlight++
		if inFlight > maxInFlight {
			maxInFlight = inFlight
		}
		mu.Unlock()
		time.Sleep(5 * time.Millisecond)
		mu.Lock()
		inFlight--
		mu.Unlock()
		return makeTask(id, "updated", models.StatusTodo), nil
	}
	client.mu.Unlock()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = c.Update(context.Background(), "a", map[string]interface{}{"title": "updated"})
		}()
	}
	wg.Wait()

	if maxInFlight != 1 {
		t.Errorf("updates to the same id must be serialized, saw %d in flight", maxInFlight)
	}
}

func TestCollection_UpdateDoesNotResurrectDeleted(t *testing.T) {
	updateStarted := make(chan struct{})
	releaseUpdate := make(chan struct{})

	client := &mockClient{}
	c := loadedCollection(t, client, []models.Task{makeTask("a", "first", models.StatusTodo)})

	client.mu.Lock()
	client.updateFn = func(ctx context.Context, id string, updates map[string]interface{}) (models.Task, error) {
		close(updateStarted)
		<-releaseUpdate
		return makeTask(id, "updated", models.StatusInProgress), nil
	}
	client.mu.Unlock()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = c.Update(context.Background(), "a", map[string]interface{}{"status": "in-progress"})
	}()
	<-updateStarted

	if err := c.Delete(context.Background(), "a"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	close(releaseUpdate)
	wg.Wait()

	if snap := c.Snapshot(); len(snap) != 0 {
		t.Errorf("a completed update must not resurrect a deleted task, got %v", snap)
	}
}

func TestCollection_DeleteIsIdempotent(t *testing.T) {
	client := &mockClient{}
	c := loadedCollection(t, client, []models.Task{makeTask("a", "first", models.StatusTodo)})

	// Remote already lost the task; delete still succeeds.
	client.mu.Lock()
	client.deleteFn = func(ctx context.Context, id string) error {
		return &types.NotFoundError{ID: id}
	}
	client.mu.Unlock()

	if err := c.Delete(context.Background(), "a"); err != nil {
		t.Fatalf("delete of a remotely-missing task should succeed, got %v", err)
	}
	if snap := c.Snapshot(); len(snap) != 0 {
		t.Errorf("task should be gone locally: %v", snap)
	}

	// Locally absent: no-op, and no remote call.
	before := len(client.deleteCalls)
	if err := c.Delete(context.Background(), "a"); err != nil {
		t.Fatalf("repeat delete should be a no-op, got %v", err)
	}
	if len(client.deleteCalls) != before {
		t.Error("repeat delete of an absent id should not reach the client")
	}
}

func TestCollection_DeleteFailureKeepsTask(t *testing.T) {
	client := &mockClient{}
	c := loadedCollection(t, client, []models.Task{makeTask("a", "first", models.StatusTodo)})

	client.mu.Lock()
	client.deleteFn = func(ctx context.Context, id string) error {
		return &types.RemoteError{Op: "delete", Err: errors.New("backend down")}
	}
	client.mu.Unlock()

	if err := c.Delete(context.Background(), "a"); err == nil {
		t.Fatal("expected the remote failure to propagate")
	}
	if snap := c.Snapshot(); len(snap) != 1 {
		t.Errorf("failed delete must keep the task, got %v", snap)
	}
}

func TestCollection_CleanupNotifiesAndInvalidates(t *testing.T) {
	fetchStarted := make(chan struct{})
	releaseFetch := make(chan struct{})

	client := &mockClient{}
	c := loadedCollection(t, client, []models.Task{
		makeTask("a", "first", models.StatusTodo),
		makeTask("b", "second", models.StatusTodo),
	})

	var removed []string
	var mu sync.Mutex
	c.OnRemove(func(ids []string) {
		mu.Lock()
		removed = append(removed, ids...)
		mu.Unlock()
	})

	// Start a load that will still be in flight when Cleanup runs.
	client.mu.Lock()
	client.fetchFn = func(ctx context.Context, ownerID string) ([]models.Task, error) {
		close(fetchStarted)
		<-releaseFetch
		return []models.Task{makeTask("late", "late result", models.StatusTodo)}, nil
	}
	client.mu.Unlock()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = c.Load(context.Background(), "owner-1")
	}()
	<-fetchStarted

	c.Cleanup()
	close(releaseFetch)
	wg.Wait()

	if snap := c.Snapshot(); len(snap) != 0 {
		t.Errorf("collection should stay empty after Cleanup, got %v", snap)
	}
	if c.Owner() != "" {
		t.Errorf("owner should be cleared, got %q", c.Owner())
	}

	mu.Lock()
	defer mu.Unlock()
	got := map[string]bool{}
	for _, id := range removed {
		got[id] = true
	}
	if !got["a"] || !got["b"] {
		t.Errorf("removal hooks should see all prior ids, got %v", removed)
	}
}
