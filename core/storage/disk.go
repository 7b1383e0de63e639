package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/spf13/afero"
)

// Disk keeps each area in its own flat directory of an afero filesystem.
type Disk struct {
	fs   afero.Fs
	dirs map[Area]string
}

// NewDisk creates a disk backend rooted at fs. dirs maps areas to directories.
func NewDisk(fs afero.Fs, dirs map[Area]string) *Disk {
	return &Disk{fs: fs, dirs: dirs}
}

// NewLocalDisk roots a disk backend at a directory of the host filesystem.
func NewLocalDisk(cfg Config) *Disk {
	return NewDisk(afero.NewBasePathFs(afero.NewOsFs(), cfg.Root), cfg.Dirs())
}

func (d *Disk) path(area Area, name string) (string, error) {
	dir, ok := d.dirs[area]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownArea, area)
	}
	if !ValidName(name) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return filepath.Join(dir, name), nil
}

// Put writes the blob to a temporary file and renames it into place.
func (d *Disk) Put(ctx context.Context, area Area, name string, r io.Reader, size int64, contentType string) error {
	p, err := d.path(area, name)
	if err != nil {
		return err
	}
	if err := d.EnsureArea(ctx, area); err != nil {
		return err
	}

	tmp := p + ".part"
	f, err := d.fs.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = d.fs.Remove(tmp)
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		_ = d.fs.Remove(tmp)
		return fmt.Errorf("failed to close %s: %w", name, err)
	}
	if err := d.fs.Rename(tmp, p); err != nil {
		_ = d.fs.Remove(tmp)
		return fmt.Errorf("failed to move %s into place: %w", name, err)
	}
	return nil
}

// Open opens the blob for reading.
func (d *Disk) Open(ctx context.Context, area Area, name string) (Blob, error) {
	p, err := d.path(area, name)
	if err != nil {
		return nil, err
	}
	f, err := d.fs.Open(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to open %s: %w", name, err)
	}
	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to stat %s: %w", name, err)
	}
	if st.IsDir() {
		_ = f.Close()
		return nil, ErrNotFound
	}
	return &blob{ReadSeekCloser: f, info: BlobInfo{
		Name:        name,
		Size:        st.Size(),
		ModTime:     st.ModTime(),
		ContentType: mime.TypeByExtension(path.Ext(name)),
	}}, nil
}

// Exists reports whether the blob file is present.
func (d *Disk) Exists(ctx context.Context, area Area, name string) (bool, error) {
	p, err := d.path(area, name)
	if err != nil {
		return false, err
	}
	st, err := d.fs.Stat(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return !st.IsDir(), nil
}

// Remove deletes the blob file. Missing files are not an error.
func (d *Disk) Remove(ctx context.Context, area Area, name string) error {
	p, err := d.path(area, name)
	if err != nil {
		return err
	}
	if err := d.fs.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove %s: %w", name, err)
	}
	return nil
}

// List returns the regular files of the area directory, sorted.
func (d *Disk) List(ctx context.Context, area Area) ([]string, error) {
	dir, ok := d.dirs[area]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownArea, area)
	}
	infos, err := afero.ReadDir(d.fs, dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}
	names := make([]string, 0, len(infos))
	for _, info := range infos {
		if info.IsDir() || filepath.Ext(info.Name()) == ".part" {
			continue
		}
		names = append(names, info.Name())
	}
	sort.Strings(names)
	return names, nil
}

// AreaExists reports whether the area directory exists.
func (d *Disk) AreaExists(ctx context.Context, area Area) (bool, error) {
	dir, ok := d.dirs[area]
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownArea, area)
	}
	return afero.DirExists(d.fs, dir)
}

// EnsureArea creates the area directory.
func (d *Disk) EnsureArea(ctx context.Context, area Area) error {
	dir, ok := d.dirs[area]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownArea, area)
	}
	return d.fs.MkdirAll(dir, 0o755)
}
