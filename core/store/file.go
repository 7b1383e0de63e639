package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"course-manager/core/catalog"

	"github.com/spf13/afero"
)

// FileStore keeps the collection as one JSON document.
type FileStore struct {
	fs   afero.Fs
	path string
}

// NewFileStore stores the document at path on fs.
func NewFileStore(fs afero.Fs, path string) *FileStore {
	return &FileStore{fs: fs, path: path}
}

// Path returns the document path.
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Load(ctx context.Context) (*catalog.Collection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := afero.ReadFile(s.fs, s.path)
	if errors.Is(err, os.ErrNotExist) {
		return catalog.NewCollection(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	c := &catalog.Collection{}
	if len(data) > 0 {
		if err := json.Unmarshal(data, c); err != nil {
			return nil, fmt.Errorf("decode %s: %w", s.path, err)
		}
	}
	c.Normalize()
	return c, nil
}

func (s *FileStore) Save(ctx context.Context, c *catalog.Collection) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	current, err := s.Load(ctx)
	if err != nil {
		return err
	}
	if current.Version != c.Version {
		return ErrStaleSnapshot
	}

	next := *c
	next.Version = c.Version + 1
	data, err := json.MarshalIndent(&next, "", "  ")
	if err != nil {
		return fmt.Errorf("encode collection: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := s.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	tmp := s.path + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := s.fs.Rename(tmp, s.path); err != nil {
		_ = s.fs.Remove(tmp)
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	c.Version = next.Version
	return nil
}
