package reconcile

import (
	"strings"
	"time"

	"course-manager/core/storage"
)

// Config tunes the reference sweep.
type Config struct {
	// CacheTTLSeconds keeps built indices for targeted lookups. Zero disables caching.
	CacheTTLSeconds int `mapstructure:"cache_ttl_seconds" default:"60"`
	// OrphanGraceSeconds protects recently uploaded blobs from purge.
	OrphanGraceSeconds int `mapstructure:"orphan_grace_seconds" default:"3600"`
}

// CacheTTL returns the configured TTL.
func (c Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// OrphanGrace returns the configured grace period.
func (c Config) OrphanGrace() time.Duration {
	return time.Duration(c.OrphanGraceSeconds) * time.Second
}

// Key identifies a blob in one storage area.
type Key struct {
	Area storage.Area
	Name string
}

func (k Key) String() string {
	return string(k.Area) + "/" + k.Name
}

// ReconcileResult is the sweep output for a single blob.
type ReconcileResult struct {
	Area storage.Area `json:"area"`
	Name string       `json:"name"`

	// Referenced is true when at least one course points to the blob.
	Referenced bool `json:"referenced"`

	// Stored is true when the blob exists in its storage area.
	Stored bool `json:"stored"`

	// Owners lists the ids of the courses referencing the blob.
	Owners []string `json:"owners"`
}

// Key returns the result's blob key.
func (r ReconcileResult) Key() Key {
	return Key{Area: r.Area, Name: r.Name}
}

// Dangling reports a reference without a stored blob.
func (r ReconcileResult) Dangling() bool {
	return r.Referenced && !r.Stored
}

// Orphan reports a stored blob nothing references.
func (r ReconcileResult) Orphan() bool {
	return r.Stored && !r.Referenced
}

// Spec defines the configuration for a sweep.
type Spec struct {
	// Adapter provides the two indices.
	Adapter Adapter

	// CacheTTL is the time-to-live for cached indices.
	// If zero, caching is disabled.
	CacheTTL time.Duration

	// Areas limits the sweep. Empty means storage.Areas.
	Areas []storage.Area

	// OrphanGrace skips purge of orphans whose name embeds a creation time
	// newer than now minus OrphanGrace.
	OrphanGrace time.Duration

	// Now overrides the clock for tests.
	Now func() time.Time
}

func (s *Spec) areas() []storage.Area {
	if len(s.Areas) == 0 {
		return storage.Areas
	}
	return s.Areas
}

func (s *Spec) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// CacheKey returns a unique key for caching based on spec parameters.
func (s *Spec) CacheKey() string {
	parts := []string{s.Adapter.Name()}
	for _, a := range s.areas() {
		parts = append(parts, string(a))
	}
	return strings.Join(parts, "|")
}

// ActionType represents the type of mutation action.
type ActionType string

const (
	// ActionDeleteBlob removes an orphaned blob from storage.
	ActionDeleteBlob ActionType = "delete_blob"
)

// Action represents a planned mutation operation.
type Action struct {
	Type   ActionType   `json:"type"`
	Area   storage.Area `json:"area"`
	Name   string       `json:"name"`
	Reason string       `json:"reason"`
}

// ReconcilePlan contains sweep results and planned actions.
type ReconcilePlan struct {
	Results []ReconcileResult `json:"results"`
	Actions []Action          `json:"actions"`
	Summary PlanSummary       `json:"summary"`
}

// PlanSummary provides aggregate statistics for a plan.
type PlanSummary struct {
	// TotalItems is the number of distinct blobs seen in either source.
	TotalItems int `json:"total_items"`

	Referenced int `json:"referenced"`
	Stored     int `json:"stored"`

	// Dangling counts references whose blob is missing.
	Dangling int `json:"dangling"`

	// Orphans counts stored blobs nothing references.
	Orphans int `json:"orphans"`

	// Protected counts orphans kept because they are younger than the grace period.
	Protected int `json:"protected"`

	// PurgeActions counts planned deletions.
	PurgeActions int `json:"purge_actions"`
}

// ReconcileOptions controls the purge behaviour.
type ReconcileOptions struct {
	// DryRun prevents execution of any mutations if true.
	DryRun bool

	// DoPurge plans deletion of orphaned blobs.
	DoPurge bool

	// Confirmed indicates user has confirmed destructive actions.
	// If false, mutations will not execute regardless of DryRun.
	Confirmed bool
}
