// Package board implements the task state engine: the canonical task
// collection, its derived views, status transitions and selection state.
// All durable state lives behind a store.Client; the board only caches.
package board

import (
	"context"
	"sync"

	"github.com/taskboard/taskboard/models"
	"github.com/taskboard/taskboard/store"
	"github.com/taskboard/taskboard/types"
)

// Collection is the process-wide cache of the authenticated owner's tasks.
// It owns loading/error state and is the only component that mutates the
// task list; every other component goes through its operations, which is
// what keeps derived views from observing a torn update.
type Collection struct {
	client store.Client

	mu      sync.Mutex
	ownerID string
	tasks   []models.Task
	loading bool
	err     error
	// loadSeq tags each Load; results carrying a stale tag are discarded
	// so the visible state always reflects the most recently issued load.
	loadSeq uint64
	// locks serializes updates per task id. Unrelated tasks update
	// concurrently; a second update for the same id queues behind the
	// first instead of interleaving.
	locks    map[string]*sync.Mutex
	onRemove []func(ids []string)
}

// NewCollection creates an empty collection backed by the given client.
func NewCollection(client store.Client) *Collection {
	return &Collection{
		client: client,
		locks:  make(map[string]*sync.Mutex),
	}
}

// OnRemove registers a hook invoked with the ids of tasks that left the
// collection, whether through Delete, a Load that replaced the collection,
// or Cleanup. The selection tracker uses this to keep its invariant.
func (c *Collection) OnRemove(fn func(ids []string)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onRemove = append(c.onRemove, fn)
}

// find returns the index of id in the task list. Caller holds c.mu.
func (c *Collection) find(id string) (int, bool) {
	for i := range c.tasks {
		if c.tasks[i].ID == id {
			return i, true
		}
	}
	return 0, false
}

// notifyRemoved runs removal hooks outside the collection lock.
func (c *Collection) notifyRemoved(ids []string) {
	if len(ids) == 0 {
		return
	}
	c.mu.Lock()
	hooks := make([]func([]string), len(c.onRemove))
	copy(hooks, c.onRemove)
	c.mu.Unlock()
	for _, fn := range hooks {
		fn(ids)
	}
}

// Snapshot returns a copy of the current collection in its stable order.
func (c *Collection) Snapshot() []models.Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Task, len(c.tasks))
	copy(out, c.tasks)
	return out
}

// Task looks up a task by id in the current collection.
func (c *Collection) Task(id string) (models.Task, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i, ok := c.find(id); ok {
		return c.tasks[i], true
	}
	return models.Task{}, false
}

// Loading reports whether a load is in flight.
func (c *Collection) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Err returns the most recent remote-call failure, if any. It is cleared
// by the next successful load.
func (c *Collection) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Owner returns the owner id the collection was last loaded for.
func (c *Collection) Owner() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ownerID
}

// Load fetches all tasks owned by ownerID and replaces the collection.
// Calling it again while a prior load is pending supersedes the pending
// result: each call takes a fresh token and a completion whose token is no
// longer the latest is discarded, so out-of-order responses can never
// clobber newer state. On failure the collection keeps its last-known-good
// value and the store-wide error is set.
func (c *Collection) Load(ctx context.Context, ownerID string) error {
	c.mu.Lock()
	c.loadSeq++
	seq := c.loadSeq
	c.ownerID = ownerID
	c.loading = true
	c.mu.Unlock()

	tasks, err := c.client.FetchTasks(ctx, ownerID)

	c.mu.Lock()
	if seq != c.loadSeq {
		// Superseded by a newer Load or a Cleanup while in flight.
		c.mu.Unlock()
		return nil
	}
	c.loading = false
	if err != nil {
		c.err = err
		c.mu.Unlock()
		return err
	}
	c.err = nil

	present := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		present[t.ID] = true
	}
	var removed []string
	for _, t := range c.tasks {
		if !present[t.ID] {
			removed = append(removed, t.ID)
		}
	}
	c.tasks = tasks
	c.mu.Unlock()

	c.notifyRemoved(removed)
	return nil
}

// Create sends a new task draft to the repository and, on success, appends
// the returned task to the collection. There is no optimistic insert: on
// failure the collection is unchanged and the error is returned for the
// caller to surface.
func (c *Collection) Create(ctx context.Context, draft models.Task) (models.Task, error) {
	c.mu.Lock()
	if draft.UserID == "" && c.ownerID != "" {
		draft.UserID = c.ownerID
		draft.CreatedBy = c.ownerID
	}
	owner := c.ownerID
	c.mu.Unlock()

	created, err := c.client.CreateTask(ctx, draft)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.err = err
		return models.Task{}, err
	}
	// Drop the result if the owner changed while the create was in flight.
	if owner == c.ownerID {
		c.tasks = append(c.tasks, created)
	}
	return created, nil
}

// Update merges partialFields into the task identified by id, remotely and
// then locally. It fails with *types.NotFoundError if the id is absent from
// the local collection. Updates to the same id are serialized; updates to
// different ids run independently.
func (c *Collection) Update(ctx context.Context, id string, fields map[string]interface{}) (models.Task, error) {
	c.mu.Lock()
	if _, ok := c.find(id); !ok {
		c.mu.Unlock()
		return models.Task{}, &types.NotFoundError{ID: id}
	}
	lk, ok := c.locks[id]
	if !ok {
		lk = &sync.Mutex{}
		c.locks[id] = lk
	}
	c.mu.Unlock()

	lk.Lock()
	defer lk.Unlock()

	updated, err := c.client.UpdateTask(ctx, id, fields)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.err = err
		return models.Task{}, err
	}
	// The task may have been deleted while the update was in flight; do
	// not resurrect it.
	if i, ok := c.find(id); ok {
		c.tasks[i] = updated
	}
	return updated, nil
}

// Delete removes the task from the repository and the collection. Deleting
// an id that is already absent, locally or remotely, is a no-op rather than
// an error, so duplicate bulk-delete triggers are harmless.
func (c *Collection) Delete(ctx context.Context, id string) error {
	c.mu.Lock()
	if _, ok := c.find(id); !ok {
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	if err := c.client.DeleteTask(ctx, id); err != nil && !types.IsNotFound(err) {
		c.mu.Lock()
		c.err = err
		c.mu.Unlock()
		return err
	}

	c.mu.Lock()
	if i, ok := c.find(id); ok {
		c.tasks = append(c.tasks[:i], c.tasks[i+1:]...)
	}
	delete(c.locks, id)
	c.mu.Unlock()

	c.notifyRemoved([]string{id})
	return nil
}

// Cleanup resets the collection to empty and invalidates any in-flight
// load. It is called when the owning user context ends and is safe to call
// when no operation is outstanding.
func (c *Collection) Cleanup() {
	c.mu.Lock()
	c.loadSeq++
	removed := make([]string, 0, len(c.tasks))
	for _, t := range c.tasks {
		removed = append(removed, t.ID)
	}
	c.tasks = nil
	c.ownerID = ""
	c.loading = false
	c.err = nil
	c.locks = make(map[string]*sync.Mutex)
	c.mu.Unlock()

	c.notifyRemoved(removed)
}
