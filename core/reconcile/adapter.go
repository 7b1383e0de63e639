package reconcile

import (
	"context"

	"course-manager/core/storage"
)

// Adapter loads the two sides of the sweep.
type Adapter interface {
	// Name identifies the adapter in cache keys and logs.
	Name() string

	// LoadReferenceIndex maps every referenced blob to the ids of the documents using it.
	LoadReferenceIndex(ctx context.Context) (map[Key][]string, error)

	// LoadStorageSet lists the stored blobs of the given areas.
	LoadStorageSet(ctx context.Context, areas []storage.Area) (map[Key]struct{}, error)

	// CheckStorage reports whether a single blob is stored.
	CheckStorage(ctx context.Context, key Key) (bool, error)
}

// Mutator applies planned deletions.
type Mutator interface {
	Remove(ctx context.Context, area storage.Area, name string) error
}

// BatchMutator removes many blobs of one area at once.
type BatchMutator interface {
	RemoveBatch(ctx context.Context, area storage.Area, names []string) error
}
