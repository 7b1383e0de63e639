package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/minio/minio-go/v7"
)

// Object keeps each area under its own prefix of a single bucket.
type Object struct {
	client   Client
	bucket   string
	prefixes map[Area]string
}

// NewObject creates an object storage backend. dirs maps areas to key prefixes.
func NewObject(client Client, bucket string, dirs map[Area]string) *Object {
	prefixes := make(map[Area]string, len(dirs))
	for area, dir := range dirs {
		prefixes[area] = strings.TrimSuffix(dir, "/") + "/"
	}
	return &Object{client: client, bucket: bucket, prefixes: prefixes}
}

func (o *Object) key(area Area, name string) (string, error) {
	prefix, ok := o.prefixes[area]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownArea, area)
	}
	if !ValidName(name) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return prefix + name, nil
}

func isNoSuchKey(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.Code == "NoSuchKey" || resp.StatusCode == http.StatusNotFound
}

// EnsureBucket creates the bucket when it does not exist yet.
func (o *Object) EnsureBucket(ctx context.Context, region string) error {
	exists, err := o.client.BucketExists(ctx, o.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if exists {
		return nil
	}
	if err := o.client.MakeBucket(ctx, o.bucket, minio.MakeBucketOptions{Region: region}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", o.bucket, err)
	}
	return nil
}

// Put uploads the blob.
func (o *Object) Put(ctx context.Context, area Area, name string, r io.Reader, size int64, contentType string) error {
	key, err := o.key(area, name)
	if err != nil {
		return err
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	if _, err := o.client.PutObject(ctx, o.bucket, key, r, size, minio.PutObjectOptions{ContentType: contentType}); err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return nil
}

// Open fetches the object metadata and returns a seekable body.
func (o *Object) Open(ctx context.Context, area Area, name string) (Blob, error) {
	key, err := o.key(area, name)
	if err != nil {
		return nil, err
	}
	obj, err := o.client.GetObject(ctx, o.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		if isNoSuchKey(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}
	info, err := obj.Stat()
	if err != nil {
		_ = obj.Close()
		if isNoSuchKey(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to stat %s: %w", key, err)
	}
	return &blob{ReadSeekCloser: obj, info: BlobInfo{
		Name:        name,
		Size:        info.Size,
		ModTime:     info.LastModified,
		ContentType: info.ContentType,
	}}, nil
}

// Exists issues a HEAD for the object.
func (o *Object) Exists(ctx context.Context, area Area, name string) (bool, error) {
	key, err := o.key(area, name)
	if err != nil {
		return false, err
	}
	if _, err := o.client.StatObject(ctx, o.bucket, key, minio.StatObjectOptions{}); err != nil {
		if isNoSuchKey(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat %s: %w", key, err)
	}
	return true, nil
}

// Remove deletes the object.
func (o *Object) Remove(ctx context.Context, area Area, name string) error {
	key, err := o.key(area, name)
	if err != nil {
		return err
	}
	if err := o.client.RemoveObject(ctx, o.bucket, key, minio.RemoveObjectOptions{}); err != nil && !isNoSuchKey(err) {
		return fmt.Errorf("failed to delete storage object %s: %w", key, err)
	}
	return nil
}

// RemoveBatch deletes many objects of one area with a single streaming call.
func (o *Object) RemoveBatch(ctx context.Context, area Area, names []string) error {
	keys := make([]string, 0, len(names))
	for _, name := range names {
		key, err := o.key(area, name)
		if err != nil {
			return err
		}
		keys = append(keys, key)
	}

	objectsCh := make(chan minio.ObjectInfo, len(keys))
	for _, key := range keys {
		objectsCh <- minio.ObjectInfo{Key: key}
	}
	close(objectsCh)

	var failed []string
	for rerr := range o.client.RemoveObjects(ctx, o.bucket, objectsCh, minio.RemoveObjectsOptions{}) {
		if rerr.Err != nil && !isNoSuchKey(rerr.Err) {
			failed = append(failed, rerr.ObjectName)
		}
	}
	if len(failed) > 0 {
		return fmt.Errorf("failed to delete %d objects: %v", len(failed), failed)
	}
	return nil
}

// List returns the object names directly under the area prefix.
func (o *Object) List(ctx context.Context, area Area) ([]string, error) {
	prefix, ok := o.prefixes[area]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownArea, area)
	}
	var names []string
	for obj := range o.client.ListObjects(ctx, o.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: false}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", prefix, obj.Err)
		}
		name := strings.TrimPrefix(obj.Key, prefix)
		if name == "" || strings.HasSuffix(name, "/") {
			continue
		}
		names = append(names, name)
	}
	return names, nil
}

// AreaExists checks for at least one key under the area prefix.
func (o *Object) AreaExists(ctx context.Context, area Area) (bool, error) {
	prefix, ok := o.prefixes[area]
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownArea, area)
	}
	for obj := range o.client.ListObjects(ctx, o.bucket, minio.ListObjectsOptions{Prefix: prefix, MaxKeys: 1}) {
		if obj.Err != nil {
			return false, obj.Err
		}
		return true, nil
	}
	return false, nil
}

// EnsureArea writes an empty folder marker for the area prefix.
func (o *Object) EnsureArea(ctx context.Context, area Area) error {
	prefix, ok := o.prefixes[area]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownArea, area)
	}
	exists, err := o.AreaExists(ctx, area)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	if _, err := o.client.PutObject(ctx, o.bucket, prefix, bytes.NewReader([]byte{}), 0, minio.PutObjectOptions{}); err != nil {
		return fmt.Errorf("failed to create folder %s: %w", prefix, err)
	}
	return nil
}
