// Package store persists project documents between invocations.
//
// Two backends implement the Store interface:
//   - file: one JSON document per project in a directory, for single-user
//     CLI work
//   - mongo: a MongoDB collection keyed by project tag, for shared
//     databases
//
// Both round-trip projects through the document package, so anything a
// store returns carries the full run history of what was put in. Put is an
// upsert: writing a tag that already exists replaces the stored document.
package store

import (
	"context"

	"github.com/vinisalazar/bioprov/pkg/model"
)

// Store is the persistence interface for project documents.
type Store interface {
	// Get loads the project stored under tag. Missing tags fail with a
	// NOT_FOUND error.
	Get(ctx context.Context, tag string) (*model.Project, error)

	// Put stores the project under its tag, replacing any previous
	// version.
	Put(ctx context.Context, p *model.Project) error

	// Delete removes the project stored under tag. Deleting a missing
	// tag is a no-op.
	Delete(ctx context.Context, tag string) error

	// List returns the stored project tags in lexical order.
	List(ctx context.Context) ([]string, error)

	// Close releases backend resources.
	Close(ctx context.Context) error
}
