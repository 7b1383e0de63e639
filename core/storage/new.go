package storage

import (
	"context"
	"fmt"
)

// New builds the Blobs backend selected by cfg.Driver.
func New(ctx context.Context, cfg Config) (Blobs, error) {
	switch cfg.Driver {
	case "", DriverDisk:
		d := NewLocalDisk(cfg)
		for _, area := range Areas {
			if err := d.EnsureArea(ctx, area); err != nil {
				return nil, fmt.Errorf("failed to prepare %s area: %w", area, err)
			}
		}
		return d, nil
	case DriverS3:
		client, err := NewClient(cfg)
		if err != nil {
			return nil, err
		}
		o := NewObject(client, cfg.Bucket, cfg.Dirs())
		if err := o.EnsureBucket(ctx, cfg.Region); err != nil {
			return nil, err
		}
		return o, nil
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Driver)
	}
}
