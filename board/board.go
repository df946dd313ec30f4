package board

import (
	"context"

	"github.com/taskboard/taskboard/store"
)

// Board wires the engine components around a single repository client. It
// is an explicitly owned, lifecycle-scoped object: created on sign-in,
// torn down with Cleanup on sign-out, and passed by reference to
// consumers rather than looked up globally.
type Board struct {
	Collection *Collection
	Selection  *Selection
	Sections   *Sections
	Engine     *Engine
}

// New assembles a board over the given repository client.
func New(client store.Client) *Board {
	c := NewCollection(client)
	return &Board{
		Collection: c,
		Selection:  NewSelection(c),
		Sections:   NewSections(),
		Engine:     NewEngine(c),
	}
}

// SetOwner reacts to a change of the authenticated owner: the previous
// collection is torn down, then the new owner's tasks are loaded. An empty
// ownerID (signed out) just tears down.
func (b *Board) SetOwner(ctx context.Context, ownerID string) error {
	b.Collection.Cleanup()
	if ownerID == "" {
		return nil
	}
	return b.Collection.Load(ctx, ownerID)
}

// Refresh reloads the current owner's tasks, e.g. after the data file
// changed underneath a running server.
func (b *Board) Refresh(ctx context.Context) error {
	owner := b.Collection.Owner()
	if owner == "" {
		return nil
	}
	return b.Collection.Load(ctx, owner)
}

// View projects the current collection through the search query into the
// three grouped sections.
func (b *Board) View(query string) Groups {
	return Project(b.Collection.Snapshot(), query)
}
