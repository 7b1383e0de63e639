package reconcile

import (
	"context"
	"fmt"

	"course-manager/core/storage"
)

// ReconcileWithPlan sweeps and returns results plus planned actions.
// It does NOT execute actions; use ApplyPlan for that.
func ReconcileWithPlan(ctx context.Context, spec *Spec, opts ReconcileOptions) (*ReconcilePlan, error) {
	cache, err := BuildCache(ctx, spec)
	if err != nil {
		return nil, err
	}

	results := resultsFromCache(cache)
	summary, actions := buildPlanFromResults(results, spec, opts)

	return &ReconcilePlan{
		Results: results,
		Actions: actions,
		Summary: summary,
	}, nil
}

// ApplyPlan executes the plan's deletions through m. It requires
// opts.Confirmed and !opts.DryRun, and re-reads the reference index first so
// a blob referenced since planning is kept.
func ApplyPlan(ctx context.Context, spec *Spec, m Mutator, plan *ReconcilePlan, opts ReconcileOptions) (executed int, err error) {
	if !opts.Confirmed || opts.DryRun {
		return 0, nil
	}
	if len(plan.Actions) == 0 {
		return 0, nil
	}

	refs, err := spec.Adapter.LoadReferenceIndex(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to reload references: %w", err)
	}

	byArea := make(map[storage.Area][]string)
	var order []storage.Area
	for _, action := range plan.Actions {
		if action.Type != ActionDeleteBlob {
			continue
		}
		if len(refs[Key{Area: action.Area, Name: action.Name}]) > 0 {
			continue
		}
		if _, seen := byArea[action.Area]; !seen {
			order = append(order, action.Area)
		}
		byArea[action.Area] = append(byArea[action.Area], action.Name)
	}

	for _, area := range order {
		names := byArea[area]
		if batch, ok := m.(BatchMutator); ok {
			if err := batch.RemoveBatch(ctx, area, names); err != nil {
				return executed, fmt.Errorf("failed to batch delete %s blobs: %w", area, err)
			}
			executed += len(names)
			continue
		}
		for _, name := range names {
			if err := m.Remove(ctx, area, name); err != nil {
				return executed, fmt.Errorf("failed to delete %s/%s: %w", area, name, err)
			}
			executed++
		}
	}

	InvalidateCache(spec)
	return executed, nil
}

// ReconcileAndApply plans and, when confirmed, applies in one call.
func ReconcileAndApply(ctx context.Context, spec *Spec, m Mutator, opts ReconcileOptions) (*ReconcilePlan, int, error) {
	plan, err := ReconcileWithPlan(ctx, spec, opts)
	if err != nil {
		return nil, 0, err
	}

	executed, err := ApplyPlan(ctx, spec, m, plan, opts)
	return plan, executed, err
}

func buildPlanFromResults(results []ReconcileResult, spec *Spec, opts ReconcileOptions) (PlanSummary, []Action) {
	var summary PlanSummary
	var actions []Action

	summary.TotalItems = len(results)
	cutoff := spec.now().Add(-spec.OrphanGrace)

	for _, result := range results {
		if result.Referenced {
			summary.Referenced++
		}
		if result.Stored {
			summary.Stored++
		}
		if result.Dangling() {
			summary.Dangling++
		}
		if !result.Orphan() {
			continue
		}
		summary.Orphans++

		if spec.OrphanGrace > 0 {
			if created, ok := storage.NameTime(result.Name); ok && created.After(cutoff) {
				summary.Protected++
				continue
			}
		}

		if opts.DoPurge {
			actions = append(actions, Action{
				Type:   ActionDeleteBlob,
				Area:   result.Area,
				Name:   result.Name,
				Reason: "not referenced by any course",
			})
			summary.PurgeActions++
		}
	}

	return summary, actions
}

// Summarize computes the aggregate statistics of results without planning any action.
func Summarize(spec *Spec, results []ReconcileResult) PlanSummary {
	summary, _ := buildPlanFromResults(results, spec, ReconcileOptions{})
	return summary
}
