package reconcile

import (
	"context"
	"sort"
)

// ReconcileAll sweeps every configured area and returns one result per blob
// seen in either source, sorted by area and name.
func ReconcileAll(ctx context.Context, spec *Spec) ([]ReconcileResult, error) {
	cache, err := BuildCache(ctx, spec)
	if err != nil {
		return nil, err
	}
	return resultsFromCache(cache), nil
}

// ReconcileCached is ReconcileAll served from the shared cache while it is
// fresh. Without a CacheTTL it behaves like ReconcileAll.
func ReconcileCached(ctx context.Context, spec *Spec) ([]ReconcileResult, error) {
	if spec.CacheTTL <= 0 {
		return ReconcileAll(ctx, spec)
	}
	cache, err := GetOrBuildCache(ctx, spec)
	if err != nil {
		return nil, err
	}
	return resultsFromCache(cache), nil
}

// ReconcileOne reports on a single blob. It uses the cached index when caching
// is enabled and targeted lookups otherwise.
func ReconcileOne(ctx context.Context, spec *Spec, key Key) (*ReconcileResult, error) {
	if spec.CacheTTL > 0 {
		cache, err := GetOrBuildCache(ctx, spec)
		if err != nil {
			return nil, err
		}
		result := buildResult(key, cache.References, cache.StorageSet)
		return &result, nil
	}

	refs, err := spec.Adapter.LoadReferenceIndex(ctx)
	if err != nil {
		return nil, err
	}
	stored, err := spec.Adapter.CheckStorage(ctx, key)
	if err != nil {
		return nil, err
	}

	owners := refs[key]
	result := ReconcileResult{
		Area:       key.Area,
		Name:       key.Name,
		Referenced: len(owners) > 0,
		Stored:     stored,
		Owners:     ownersOrEmpty(owners),
	}
	return &result, nil
}

func resultsFromCache(cache *ReconcileCache) []ReconcileResult {
	union := buildUnion(cache.References, cache.StorageSet)

	results := make([]ReconcileResult, 0, len(union))
	for key := range union {
		results = append(results, buildResult(key, cache.References, cache.StorageSet))
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Area != results[j].Area {
			return results[i].Area < results[j].Area
		}
		return results[i].Name < results[j].Name
	})
	return results
}

func buildUnion(refs map[Key][]string, storageSet map[Key]struct{}) map[Key]struct{} {
	union := make(map[Key]struct{}, len(refs)+len(storageSet))
	for key := range refs {
		union[key] = struct{}{}
	}
	for key := range storageSet {
		union[key] = struct{}{}
	}
	return union
}

func buildResult(key Key, refs map[Key][]string, storageSet map[Key]struct{}) ReconcileResult {
	owners := refs[key]
	_, stored := storageSet[key]
	return ReconcileResult{
		Area:       key.Area,
		Name:       key.Name,
		Referenced: len(owners) > 0,
		Stored:     stored,
		Owners:     ownersOrEmpty(owners),
	}
}

func ownersOrEmpty(owners []string) []string {
	if owners == nil {
		return []string{}
	}
	out := append([]string(nil), owners...)
	sort.Strings(out)
	return out
}
