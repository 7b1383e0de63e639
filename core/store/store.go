package store

import (
	"context"
	"errors"

	"course-manager/core/catalog"
)

var (
	// ErrStaleSnapshot is returned when the stored version moved past the saved snapshot.
	ErrStaleSnapshot = errors.New("collection changed since it was loaded")
	// ErrLockTimeout is returned when the writer lock could not be acquired in time.
	ErrLockTimeout = errors.New("timed out waiting for collection lock")
)

// Store loads and saves whole collection snapshots.
type Store interface {
	// Load returns the stored collection, or an empty one when nothing is stored yet.
	Load(ctx context.Context) (*catalog.Collection, error)
	// Save writes c if the stored version still equals c.Version, then bumps c.Version.
	Save(ctx context.Context, c *catalog.Collection) error
}
