package course

import (
	"context"
	"fmt"
	"io"

	"course-manager/core/catalog"
	"course-manager/core/storage"

	"go.uber.org/zap"
)

// Multipart field names carrying files.
const (
	FieldCover     = "imagemCapa"
	FieldMaterials = "materiais"
	FieldVideos    = "videos"
)

// FieldLimits caps the number of files per field.
var FieldLimits = map[string]int{
	FieldCover:     1,
	FieldMaterials: 20,
	FieldVideos:    20,
}

// fieldArea maps file fields to storage areas. Covers live with videos.
var fieldArea = map[string]storage.Area{
	FieldCover:     storage.AreaVideos,
	FieldMaterials: storage.AreaMaterials,
	FieldVideos:    storage.AreaVideos,
}

// File is one incoming file part.
type File struct {
	Field        string
	OriginalName string
	Size         int64
	ContentType  string
	Open         func() (io.ReadCloser, error)
}

// Upload is a file stored for the current request.
type Upload struct {
	Field        string
	Area         storage.Area
	OriginalName string
	StorageName  string
}

// Ref returns the upload as a document reference.
func (u Upload) Ref() catalog.BlobRef {
	return catalog.BlobRef{StorageName: u.StorageName, OriginalName: u.OriginalName}
}

// Batch holds everything stored for one submission, grouped by field.
type Batch struct {
	Cover     *Upload
	Materials []Upload
	Videos    []Upload
}

// All returns every upload of the batch.
func (b *Batch) All() []Upload {
	if b == nil {
		return nil
	}
	var out []Upload
	if b.Cover != nil {
		out = append(out, *b.Cover)
	}
	out = append(out, b.Materials...)
	return append(out, b.Videos...)
}

// Uploader stores incoming files under generated names.
type Uploader struct {
	blobs   storage.Blobs
	namer   storage.Namer
	maxSize int64
	logger  *zap.Logger
}

// NewUploader creates an uploader. maxSize <= 0 disables the size check.
func NewUploader(blobs storage.Blobs, namer storage.Namer, maxSize int64, logger *zap.Logger) *Uploader {
	return &Uploader{blobs: blobs, namer: namer, maxSize: maxSize, logger: logger}
}

// Store validates and writes files. On failure nothing stays stored.
func (u *Uploader) Store(ctx context.Context, files []File) (*Batch, error) {
	counts := map[string]int{}
	for _, f := range files {
		limit, ok := FieldLimits[f.Field]
		if !ok {
			return nil, validation(fmt.Sprintf("Campo de arquivo inesperado: %s.", f.Field))
		}
		counts[f.Field]++
		if counts[f.Field] > limit {
			return nil, validation(fmt.Sprintf("Arquivos demais em %s (max %d).", f.Field, limit))
		}
		if u.maxSize > 0 && f.Size > u.maxSize {
			return nil, fmt.Errorf("%w: %s", ErrTooLarge, f.OriginalName)
		}
	}

	batch := &Batch{}
	for _, f := range files {
		up, err := u.put(ctx, f)
		if err != nil {
			u.Discard(ctx, batch)
			return nil, err
		}
		switch f.Field {
		case FieldCover:
			batch.Cover = &up
		case FieldMaterials:
			batch.Materials = append(batch.Materials, up)
		case FieldVideos:
			batch.Videos = append(batch.Videos, up)
		}
	}
	return batch, nil
}

func (u *Uploader) put(ctx context.Context, f File) (Upload, error) {
	up := Upload{
		Field:        f.Field,
		Area:         fieldArea[f.Field],
		OriginalName: f.OriginalName,
		StorageName:  u.namer.Name(f.OriginalName),
	}
	r, err := f.Open()
	if err != nil {
		return Upload{}, fmt.Errorf("open %s: %w", f.OriginalName, err)
	}
	defer r.Close()
	if err := u.blobs.Put(ctx, up.Area, up.StorageName, r, f.Size, f.ContentType); err != nil {
		return Upload{}, fmt.Errorf("store %s: %w", f.OriginalName, err)
	}
	return up, nil
}

// Discard removes every blob of the batch. Failures are logged.
func (u *Uploader) Discard(ctx context.Context, batch *Batch) {
	for _, up := range batch.All() {
		if err := u.blobs.Remove(ctx, up.Area, up.StorageName); err != nil {
			u.logger.Warn("Failed to discard upload",
				zap.String("area", string(up.Area)),
				zap.String("name", up.StorageName),
				zap.Error(err))
		}
	}
}
