package store

import (
	"context"

	"github.com/taskboard/taskboard/models"
)

// Client defines the interface to the remote task repository. It is the
// only path to durable state; the board engine keeps an in-memory cache on
// top of it and never persists anything itself.
//
// Implementations report failures using the types package taxonomy:
// *types.RemoteError for backing-store failures, *types.NotFoundError when
// an id is absent, *types.ValidationError for malformed task fields.
type Client interface {
	// FetchTasks retrieves every task owned by ownerID, in the
	// repository's stable order.
	FetchTasks(ctx context.Context, ownerID string) ([]models.Task, error)

	// CreateTask stores a new task. The draft's ID must be empty; the
	// repository assigns one and returns the stored task.
	CreateTask(ctx context.Context, draft models.Task) (models.Task, error)

	// UpdateTask merges the given partial fields, keyed by JSON field
	// names, into the task identified by id and returns the updated task.
	UpdateTask(ctx context.Context, id string, updates map[string]interface{}) (models.Task, error)

	// DeleteTask removes a task by id. Deleting an id that does not exist
	// returns *types.NotFoundError; callers that want idempotent deletes
	// treat that as success.
	DeleteTask(ctx context.Context, id string) error

	// Close releases any resources held by the client, such as file locks.
	Close() error
}
