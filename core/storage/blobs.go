package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"
)

// Area is one flat storage location for course files.
type Area string

const (
	// AreaVideos holds lesson videos and cover images.
	AreaVideos Area = "videos"
	// AreaMaterials holds supplementary materials.
	AreaMaterials Area = "materials"
)

// Areas lists every storage area in a stable order.
var Areas = []Area{AreaVideos, AreaMaterials}

var (
	// ErrNotFound is returned when a blob does not exist.
	ErrNotFound = errors.New("blob not found")
	// ErrInvalidName is returned for names that would escape their area.
	ErrInvalidName = errors.New("invalid blob name")
	// ErrUnknownArea is returned for areas the backend was not configured with.
	ErrUnknownArea = errors.New("unknown storage area")
)

// BlobInfo describes a stored blob.
type BlobInfo struct {
	Name        string
	Size        int64
	ModTime     time.Time
	ContentType string
}

// Blob is an open, seekable blob. The caller must close it.
type Blob interface {
	io.ReadSeekCloser
	Info() BlobInfo
}

// Blobs is the storage abstraction used by every feature. Implementations
// must be safe for concurrent use and treat removal of a missing blob as success.
type Blobs interface {
	// Put stores r under name in the given area, replacing any previous content.
	Put(ctx context.Context, area Area, name string, r io.Reader, size int64, contentType string) error
	// Open returns the blob, or ErrNotFound.
	Open(ctx context.Context, area Area, name string) (Blob, error)
	// Exists reports whether the blob is stored.
	Exists(ctx context.Context, area Area, name string) (bool, error)
	// Remove deletes the blob.
	Remove(ctx context.Context, area Area, name string) error
	// List returns the names of all blobs in the area.
	List(ctx context.Context, area Area) ([]string, error)
	// AreaExists reports whether the area has been created.
	AreaExists(ctx context.Context, area Area) (bool, error)
	// EnsureArea creates the area if it is missing.
	EnsureArea(ctx context.Context, area Area) error
}

// ValidName reports whether name is a plain file name usable inside an area.
func ValidName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`) && !strings.Contains(name, "\x00")
}

type blob struct {
	io.ReadSeekCloser
	info BlobInfo
}

func (b *blob) Info() BlobInfo { return b.info }
