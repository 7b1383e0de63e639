package cmd

import (
	"context"
	"fmt"

	"course-manager/core/config"
	"course-manager/core/database"
	"course-manager/core/logger"
	"course-manager/core/storage"
	"course-manager/core/store"

	"github.com/spf13/afero"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// app holds the shared infrastructure of every command.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	blobs  storage.Blobs
	db     *gorm.DB
	repo   *store.Repository
}

// newApp loads the configuration and connects storage, the collection store
// and the writer lock. The database is only opened for the sql store.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	blobs, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare storage: %w", err)
	}

	var db *gorm.DB
	if cfg.Store.Driver == store.DriverSQL {
		if db, err = database.Connect(cfg.Database); err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		logg.Info("Connected to database", zap.String("driver", cfg.Database.Driver))
	}

	fs := afero.NewBasePathFs(afero.NewOsFs(), cfg.Storage.Root)
	s, err := store.New(ctx, cfg.Store, fs, db)
	if err != nil {
		return nil, fmt.Errorf("failed to open collection store: %w", err)
	}

	locker, err := store.NewLocker(cfg.Lock)
	if err != nil {
		return nil, err
	}
	if rl, ok := locker.(*store.RedisLocker); ok {
		if err := rl.Ping(ctx); err != nil {
			return nil, fmt.Errorf("failed to reach redis: %w", err)
		}
	}

	logg.Info("Infrastructure ready",
		zap.String("storage", cfg.Storage.Driver),
		zap.String("store", cfg.Store.Driver),
		zap.String("lock", cfg.Lock.Driver),
	)

	return &app{
		cfg:    cfg,
		logger: logg,
		blobs:  blobs,
		db:     db,
		repo:   store.NewRepository(s, locker),
	}, nil
}
