package integrity

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"course-manager/core/reconcile"
	"course-manager/core/storage"
	"course-manager/core/store"
	"course-manager/feature/integrity/checks"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrNoDatabase is returned by schema checks when the collection is not kept in SQL.
var ErrNoDatabase = errors.New("no database configured")

// FilesReport summarizes the reference sweep and lists the problem blobs.
type FilesReport struct {
	Summary  reconcile.PlanSummary       `json:"summary"`
	Dangling []reconcile.ReconcileResult `json:"dangling"`
	Orphans  []reconcile.ReconcileResult `json:"orphans"`
}

// Service handles integrity checks.
type Service struct {
	blobs  storage.Blobs
	db     *gorm.DB
	spec   *reconcile.Spec
	logger *zap.Logger
}

// NewService creates a new integrity service. db may be nil.
func NewService(blobs storage.Blobs, repo *store.Repository, db *gorm.DB, cfg reconcile.Config, logger *zap.Logger) *Service {
	return &Service{
		blobs: blobs,
		db:    db,
		spec: &reconcile.Spec{
			Adapter:     NewAdapter(repo, blobs),
			CacheTTL:    cfg.CacheTTL(),
			OrphanGrace: cfg.OrphanGrace(),
		},
		logger: logger,
	}
}

// CheckStructure returns the storage areas that are missing.
func (s *Service) CheckStructure(ctx context.Context) ([]storage.Area, error) {
	return checks.CheckStructure(ctx, s.blobs)
}

// FixStructure creates the missing areas.
func (s *Service) FixStructure(ctx context.Context, missing []storage.Area) error {
	return checks.FixStructure(ctx, s.blobs, s.logger, missing)
}

// CheckSchema compares the database with the store tables.
func (s *Service) CheckSchema() (*checks.SchemaReport, error) {
	if s.db == nil {
		return nil, ErrNoDatabase
	}
	return checks.CheckSchema(s.db, store.Tables())
}

// Refresh drops the cached reference index so the next sweep reloads it.
func (s *Service) Refresh() {
	reconcile.InvalidateCache(s.spec)
}

// Files runs the reference sweep, served from the cache while it is fresh.
func (s *Service) Files(ctx context.Context) (*FilesReport, error) {
	results, err := reconcile.ReconcileCached(ctx, s.spec)
	if err != nil {
		return nil, err
	}
	report := &FilesReport{
		Summary:  reconcile.Summarize(s.spec, results),
		Dangling: []reconcile.ReconcileResult{},
		Orphans:  []reconcile.ReconcileResult{},
	}
	for _, r := range results {
		switch {
		case r.Dangling():
			report.Dangling = append(report.Dangling, r)
		case r.Orphan():
			report.Orphans = append(report.Orphans, r)
		}
	}
	return report, nil
}

// LookupFile reports on a single blob.
func (s *Service) LookupFile(ctx context.Context, area storage.Area, name string) (*reconcile.ReconcileResult, error) {
	if !slices.Contains(storage.Areas, area) {
		return nil, fmt.Errorf("%w: %s", storage.ErrUnknownArea, area)
	}
	if !storage.ValidName(name) {
		return nil, fmt.Errorf("%w: %q", storage.ErrInvalidName, name)
	}
	return reconcile.ReconcileOne(ctx, s.spec, reconcile.Key{Area: area, Name: name})
}

// Plan sweeps every area and plans orphan deletions when opts.DoPurge is set.
func (s *Service) Plan(ctx context.Context, opts reconcile.ReconcileOptions) (*reconcile.ReconcilePlan, error) {
	return reconcile.ReconcileWithPlan(ctx, s.spec, opts)
}

// Apply executes a plan against the blob storage.
func (s *Service) Apply(ctx context.Context, plan *reconcile.ReconcilePlan, opts reconcile.ReconcileOptions) (int, error) {
	executed, err := reconcile.ApplyPlan(ctx, s.spec, s.blobs, plan, opts)
	if err != nil {
		s.logger.Error("Purge stopped", zap.Int("executed", executed), zap.Error(err))
		return executed, err
	}
	if executed > 0 {
		s.logger.Info("Purged orphaned blobs", zap.Int("count", executed))
	}
	return executed, nil
}
