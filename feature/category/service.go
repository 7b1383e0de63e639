package category

import (
	"context"
	"errors"
	"strings"

	"course-manager/core/catalog"
	"course-manager/core/store"

	"go.uber.org/zap"
)

// ErrBlankName is returned when a category name is empty after trimming.
var ErrBlankName = errors.New("category name is required")

// errUnchanged aborts an update that would not change anything.
var errUnchanged = errors.New("categories unchanged")

// Service reads and extends the category set.
type Service struct {
	repo   *store.Repository
	logger *zap.Logger
}

// NewService creates a category service.
func NewService(repo *store.Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// List returns the stored categories.
func (s *Service) List(ctx context.Context) ([]string, error) {
	c, err := s.repo.Read(ctx)
	if err != nil {
		return nil, err
	}
	return c.Categories, nil
}

// Add registers name and returns the resulting set. The collection is only
// written when the name is new.
func (s *Service) Add(ctx context.Context, name string) ([]string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrBlankName
	}

	var out []string
	err := s.repo.Update(ctx, func(c *catalog.Collection) error {
		var added bool
		c.Categories, added = Register(c.Categories, name)
		out = c.Categories
		if !added {
			return errUnchanged
		}
		s.logger.Info("Category added", zap.String("name", name))
		return nil
	})
	if err != nil && !errors.Is(err, errUnchanged) {
		return nil, err
	}
	return out, nil
}
