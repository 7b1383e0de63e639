package media

import (
	"context"

	"course-manager/core/storage"

	"go.uber.org/zap"
)

// Service opens stored course files for download.
type Service struct {
	blobs  storage.Blobs
	logger *zap.Logger
}

// NewService creates a media service.
func NewService(blobs storage.Blobs, logger *zap.Logger) *Service {
	return &Service{blobs: blobs, logger: logger}
}

// Open returns the blob in area. Names that are not plain file names are
// reported as storage.ErrNotFound.
func (s *Service) Open(ctx context.Context, area storage.Area, name string) (storage.Blob, error) {
	if !storage.ValidName(name) {
		return nil, storage.ErrNotFound
	}
	return s.blobs.Open(ctx, area, name)
}
