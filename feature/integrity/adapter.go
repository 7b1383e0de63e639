package integrity

import (
	"context"
	"fmt"

	"course-manager/core/reconcile"
	"course-manager/core/storage"
	"course-manager/core/store"
)

// CourseAdapter implements reconcile.Adapter over the course collection and
// the blob storage areas.
type CourseAdapter struct {
	repo  *store.Repository
	blobs storage.Blobs
}

// NewAdapter creates an adapter reading references from repo and blobs from storage.
func NewAdapter(repo *store.Repository, blobs storage.Blobs) *CourseAdapter {
	return &CourseAdapter{repo: repo, blobs: blobs}
}

// Name returns the unique name of this adapter.
func (a *CourseAdapter) Name() string {
	return "courses"
}

// LoadReferenceIndex maps every blob referenced by a course to the course ids.
func (a *CourseAdapter) LoadReferenceIndex(ctx context.Context) (map[reconcile.Key][]string, error) {
	c, err := a.repo.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read collection: %w", err)
	}
	index := c.ReferenceIndex()
	out := make(map[reconcile.Key][]string, len(index))
	for ref, owners := range index {
		out[reconcile.Key{Area: ref.Area, Name: ref.Name}] = owners
	}
	return out, nil
}

// LoadStorageSet lists the blobs stored in each area.
func (a *CourseAdapter) LoadStorageSet(ctx context.Context, areas []storage.Area) (map[reconcile.Key]struct{}, error) {
	set := make(map[reconcile.Key]struct{})
	for _, area := range areas {
		names, err := a.blobs.List(ctx, area)
		if err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", area, err)
		}
		for _, name := range names {
			set[reconcile.Key{Area: area, Name: name}] = struct{}{}
		}
	}
	return set, nil
}

// CheckStorage reports whether a single blob is stored.
func (a *CourseAdapter) CheckStorage(ctx context.Context, key reconcile.Key) (bool, error) {
	return a.blobs.Exists(ctx, key.Area, key.Name)
}
