package checks

import (
	"context"
	"fmt"

	"course-manager/core/storage"

	"go.uber.org/zap"
)

// CheckStructure returns the storage areas that have not been created yet.
func CheckStructure(ctx context.Context, blobs storage.Blobs) ([]storage.Area, error) {
	var missing []storage.Area
	for _, area := range storage.Areas {
		exists, err := blobs.AreaExists(ctx, area)
		if err != nil {
			return nil, fmt.Errorf("failed to check %s area: %w", area, err)
		}
		if !exists {
			missing = append(missing, area)
		}
	}
	return missing, nil
}

// FixStructure creates the missing areas.
func FixStructure(ctx context.Context, blobs storage.Blobs, logger *zap.Logger, missing []storage.Area) error {
	for _, area := range missing {
		if err := blobs.EnsureArea(ctx, area); err != nil {
			logger.Error("Failed to create area", zap.String("area", string(area)), zap.Error(err))
			return err
		}
		logger.Info("Created missing area", zap.String("area", string(area)))
	}
	return nil
}
