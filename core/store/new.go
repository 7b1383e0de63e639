package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/spf13/afero"
)

// New builds the store selected by cfg. fs backs the json driver and db the sql one.
func New(ctx context.Context, cfg Config, fs afero.Fs, db *gorm.DB) (Store, error) {
	switch cfg.Driver {
	case "", DriverJSON:
		return NewFileStore(fs, cfg.Path), nil
	case DriverSQL:
		if db == nil {
			return nil, fmt.Errorf("sql store requires a database connection")
		}
		s := NewSQLStore(db)
		if err := s.Migrate(ctx); err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Driver)
	}
}
