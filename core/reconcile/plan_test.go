package reconcile

import (
	"context"
	"fmt"
	"testing"
	"time"

	"course-manager/core/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockMutator struct {
	removed []Key
	err     error
}

func (m *mockMutator) Remove(ctx context.Context, area storage.Area, name string) error {
	if m.err != nil {
		return m.err
	}
	m.removed = append(m.removed, Key{Area: area, Name: name})
	return nil
}

type mockBatchMutator struct {
	mockMutator
	batches map[storage.Area][]string
}

func (m *mockBatchMutator) RemoveBatch(ctx context.Context, area storage.Area, names []string) error {
	if m.batches == nil {
		m.batches = map[storage.Area][]string{}
	}
	m.batches[area] = append(m.batches[area], names...)
	return nil
}

func TestReconcileWithPlanSummary(t *testing.T) {
	plan, err := ReconcileWithPlan(context.Background(), &Spec{Adapter: sampleAdapter()}, ReconcileOptions{})
	require.NoError(t, err)

	assert.Equal(t, PlanSummary{TotalItems: 4, Referenced: 3, Stored: 3, Dangling: 1, Orphans: 1}, plan.Summary)
	assert.Empty(t, plan.Actions)
}

func TestReconcileWithPlanPurge(t *testing.T) {
	plan, err := ReconcileWithPlan(context.Background(), &Spec{Adapter: sampleAdapter()}, ReconcileOptions{DoPurge: true})
	require.NoError(t, err)

	require.Len(t, plan.Actions, 1)
	assert.Equal(t, Action{Type: ActionDeleteBlob, Area: storage.AreaVideos, Name: "orphan.mp4", Reason: "not referenced by any course"}, plan.Actions[0])
	assert.Equal(t, 1, plan.Summary.PurgeActions)
}

func TestReconcileWithPlanProtectsRecentOrphans(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)
	adapter := &mockAdapter{storageSet: map[Key]struct{}{
		vid(fmt.Sprintf("%d-1-new.mp4", now.Add(-time.Minute).UnixMilli())): {},
		vid(fmt.Sprintf("%d-2-old.mp4", now.Add(-2*time.Hour).UnixMilli())): {},
		vid("legacy.mp4"): {},
	}}
	spec := &Spec{Adapter: adapter, OrphanGrace: time.Hour, Now: func() time.Time { return now }}

	plan, err := ReconcileWithPlan(context.Background(), spec, ReconcileOptions{DoPurge: true})
	require.NoError(t, err)
	assert.Equal(t, 3, plan.Summary.Orphans)
	assert.Equal(t, 1, plan.Summary.Protected)
	assert.Len(t, plan.Actions, 2)
}

func TestApplyPlanRequiresConfirmation(t *testing.T) {
	spec := &Spec{Adapter: sampleAdapter()}
	plan := &ReconcilePlan{Actions: []Action{{Type: ActionDeleteBlob, Area: storage.AreaVideos, Name: "orphan.mp4"}}}
	m := &mockMutator{}

	n, err := ApplyPlan(context.Background(), spec, m, plan, ReconcileOptions{})
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = ApplyPlan(context.Background(), spec, m, plan, ReconcileOptions{Confirmed: true, DryRun: true})
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, m.removed)
}

func TestApplyPlanSkipsNewlyReferenced(t *testing.T) {
	adapter := sampleAdapter()
	spec := &Spec{Adapter: adapter}
	plan := &ReconcilePlan{Actions: []Action{
		{Type: ActionDeleteBlob, Area: storage.AreaVideos, Name: "orphan.mp4"},
		{Type: ActionDeleteBlob, Area: storage.AreaVideos, Name: "ok.mp4"},
	}}
	m := &mockMutator{}

	n, err := ApplyPlan(context.Background(), spec, m, plan, ReconcileOptions{Confirmed: true})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []Key{vid("orphan.mp4")}, m.removed)
}

func TestApplyPlanUsesBatch(t *testing.T) {
	spec := &Spec{Adapter: &mockAdapter{}}
	plan := &ReconcilePlan{Actions: []Action{
		{Type: ActionDeleteBlob, Area: storage.AreaVideos, Name: "a.mp4"},
		{Type: ActionDeleteBlob, Area: storage.AreaMaterials, Name: "b.pdf"},
		{Type: ActionDeleteBlob, Area: storage.AreaVideos, Name: "c.mp4"},
	}}
	m := &mockBatchMutator{}

	n, err := ApplyPlan(context.Background(), spec, m, plan, ReconcileOptions{Confirmed: true})
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, []string{"a.mp4", "c.mp4"}, m.batches[storage.AreaVideos])
	assert.Equal(t, []string{"b.pdf"}, m.batches[storage.AreaMaterials])
	assert.Empty(t, m.removed)
}

func TestApplyPlanStopsOnError(t *testing.T) {
	spec := &Spec{Adapter: &mockAdapter{}}
	plan := &ReconcilePlan{Actions: []Action{{Type: ActionDeleteBlob, Area: storage.AreaVideos, Name: "a.mp4"}}}

	n, err := ApplyPlan(context.Background(), spec, &mockMutator{err: fmt.Errorf("denied")}, plan, ReconcileOptions{Confirmed: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "denied")
	assert.Zero(t, n)
}

func TestReconcileAndApply(t *testing.T) {
	m := &mockMutator{}
	plan, n, err := ReconcileAndApply(context.Background(), &Spec{Adapter: sampleAdapter()}, m, ReconcileOptions{DoPurge: true, Confirmed: true})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Len(t, plan.Actions, 1)
	assert.Equal(t, []Key{vid("orphan.mp4")}, m.removed)
}

func TestSummarize(t *testing.T) {
	spec := &Spec{Adapter: sampleAdapter()}
	results, err := ReconcileAll(context.Background(), spec)
	require.NoError(t, err)

	assert.Equal(t, PlanSummary{TotalItems: 4, Referenced: 3, Stored: 3, Dangling: 1, Orphans: 1}, Summarize(spec, results))
}
