// Package storage provides the blob areas that hold course files.
//
// Course documents reference files by storage name inside one of two flat areas:
// videos (lesson videos and cover images) and materials (supplementary files).
// The Blobs interface abstracts where those areas live.
//
// # Backends
//
//   - Disk: two directories on an afero filesystem (host disk in production,
//     in-memory in tests).
//   - Object: two key prefixes of a MinIO/S3 bucket, accessed through the Client
//     interface so it can be mocked (see core/storage/mocks).
//
// # Naming
//
// Namer produces unique names of the form <millis>-<random>-<original> so that
// stored files keep a readable suffix.
//
// # Usage
//
//	blobs, err := storage.New(ctx, cfg.Storage)
//	err = blobs.Put(ctx, storage.AreaVideos, name, file, size, "video/mp4")
package storage
