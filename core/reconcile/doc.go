// Package reconcile compares the blobs referenced by course documents with the
// blobs actually present in storage.
//
// Each blob lands in one of three states:
//   - referenced and stored: healthy
//   - referenced but not stored: dangling, a broken link in a document
//   - stored but not referenced: orphan, wasted space left behind by failed
//     uploads or by materials replaced in later versions of a course
//
// # Architecture
//
// 1. Adapter: loads the reference index (blob to owning course ids) and the
// storage set (blobs present per area). The two loads run concurrently.
//
// 2. Engine: builds the union of keys and one ReconcileResult per blob.
//
// 3. Plan: summarizes results and, with DoPurge, plans deletion of orphans.
// Orphans whose storage name embeds a creation time inside the grace period are
// left alone so in-flight uploads are never collected. ApplyPlan re-reads the
// references before deleting.
//
// 4. Cache: TTL-based index cache with singleflight stampede protection for
// targeted lookups.
//
// # Usage Example
//
//	spec := &reconcile.Spec{Adapter: adapter, CacheTTL: time.Minute}
//
//	results, err := reconcile.ReconcileAll(ctx, spec)
//
//	plan, err := reconcile.ReconcileWithPlan(ctx, spec, reconcile.ReconcileOptions{DoPurge: true})
//	n, err := reconcile.ApplyPlan(ctx, spec, blobs, plan, reconcile.ReconcileOptions{Confirmed: true})
package reconcile
