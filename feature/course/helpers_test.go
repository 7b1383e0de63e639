package course

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"course-manager/core/catalog"
	"course-manager/core/storage"
	"course-manager/core/store"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	svc   *Service
	disk  *storage.Disk
	repo  *store.Repository
	clock time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	fs := afero.NewMemMapFs()
	disk := storage.NewDisk(fs, map[storage.Area]string{
		storage.AreaVideos:    "videos",
		storage.AreaMaterials: "materiais",
	})
	for _, a := range storage.Areas {
		require.NoError(t, disk.EnsureArea(context.Background(), a))
	}

	var seq atomic.Int64
	namer := storage.Namer{
		Now:  func() time.Time { return time.UnixMilli(1000) },
		Rand: func() int64 { return seq.Add(1) },
	}
	repo := store.NewRepository(store.NewFileStore(fs, "data.json"), nil)
	uploader := NewUploader(disk, namer, 0, zap.NewNop())

	f := &fixture{disk: disk, repo: repo, clock: testNow}
	f.svc = NewService(repo, disk, uploader, zap.NewNop())
	f.svc.now = func() time.Time { return f.clock }
	return f
}

func memFile(field, name, content string) File {
	return File{
		Field:        field,
		OriginalName: name,
		Size:         int64(len(content)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader([]byte(content))), nil
		},
	}
}

func (f *fixture) upsert(t *testing.T, sub Submission, files ...File) (*Result, error) {
	t.Helper()
	batch, err := f.svc.Uploader().Store(context.Background(), files)
	require.NoError(t, err)
	return f.svc.Upsert(context.Background(), sub, batch)
}

func (f *fixture) mustUpsert(t *testing.T, sub Submission, files ...File) *Result {
	t.Helper()
	res, err := f.upsert(t, sub, files...)
	require.NoError(t, err)
	return res
}

func (f *fixture) exists(t *testing.T, area storage.Area, name string) bool {
	t.Helper()
	ok, err := f.disk.Exists(context.Background(), area, name)
	require.NoError(t, err)
	return ok
}

func (f *fixture) stored(t *testing.T, area storage.Area) []string {
	t.Helper()
	names, err := f.disk.List(context.Background(), area)
	require.NoError(t, err)
	return names
}

func (f *fixture) load(t *testing.T) *catalog.Collection {
	t.Helper()
	c, err := f.repo.Read(context.Background())
	require.NoError(t, err)
	return c
}

// modulesJSON builds a modulos payload with one module per entry; each entry
// lists lesson video file names, "" meaning no video.
func modulesJSON(modules ...[]string) string {
	var out []map[string]any
	for mi, lessons := range modules {
		var contents []map[string]any
		for li, video := range lessons {
			l := map[string]any{"tituloAula": fmt.Sprintf("Aula %d.%d", mi, li)}
			if video != "" {
				l["video"] = map[string]any{"filename": video}
			}
			contents = append(contents, l)
		}
		out = append(out, map[string]any{"titulo": fmt.Sprintf("Modulo %d", mi), "conteudos": contents})
	}
	data, _ := json.Marshal(out)
	return string(data)
}

// echo re-encodes a stored module tree the way a client resubmits it.
func echo(t *testing.T, modules []catalog.Module) string {
	t.Helper()
	data, err := json.Marshal(modules)
	require.NoError(t, err)
	return string(data)
}

func videoOf(c catalog.Course, m, l int) string {
	v := c.Modules[m].Lessons[l].Video
	if v == nil {
		return ""
	}
	return v.StorageName
}
