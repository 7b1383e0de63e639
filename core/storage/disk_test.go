package storage_test

import (
	"context"
	"io"
	"strings"
	"testing"

	"course-manager/core/storage"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDisk(t *testing.T) (*storage.Disk, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	d := storage.NewDisk(fs, map[storage.Area]string{
		storage.AreaVideos:    "videos",
		storage.AreaMaterials: "materiais",
	})
	return d, fs
}

func TestDisk_PutOpenRemove(t *testing.T) {
	ctx := context.Background()
	d, fs := newDisk(t)

	err := d.Put(ctx, storage.AreaVideos, "1-2-aula.mp4", strings.NewReader("video-bytes"), 11, "video/mp4")
	require.NoError(t, err)

	exists, err := afero.Exists(fs, "videos/1-2-aula.mp4")
	require.NoError(t, err)
	assert.True(t, exists)

	b, err := d.Open(ctx, storage.AreaVideos, "1-2-aula.mp4")
	require.NoError(t, err)
	body, err := io.ReadAll(b)
	require.NoError(t, err)
	require.NoError(t, b.Close())
	assert.Equal(t, "video-bytes", string(body))
	assert.Equal(t, int64(11), b.Info().Size)

	ok, err := d.Exists(ctx, storage.AreaVideos, "1-2-aula.mp4")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, d.Remove(ctx, storage.AreaVideos, "1-2-aula.mp4"))
	ok, err = d.Exists(ctx, storage.AreaVideos, "1-2-aula.mp4")
	require.NoError(t, err)
	assert.False(t, ok)

	// Removing twice is not an error.
	assert.NoError(t, d.Remove(ctx, storage.AreaVideos, "1-2-aula.mp4"))
}

func TestDisk_OpenMissing(t *testing.T) {
	d, _ := newDisk(t)
	_, err := d.Open(context.Background(), storage.AreaMaterials, "nope.pdf")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestDisk_RejectsTraversal(t *testing.T) {
	ctx := context.Background()
	d, _ := newDisk(t)

	for _, name := range []string{"../data.json", "a/b", "", "..", `a\b`} {
		err := d.Put(ctx, storage.AreaVideos, name, strings.NewReader("x"), 1, "")
		assert.ErrorIs(t, err, storage.ErrInvalidName, name)
	}
}

func TestDisk_ListAndAreas(t *testing.T) {
	ctx := context.Background()
	d, _ := newDisk(t)

	ok, err := d.AreaExists(ctx, storage.AreaMaterials)
	require.NoError(t, err)
	assert.False(t, ok)

	names, err := d.List(ctx, storage.AreaMaterials)
	require.NoError(t, err)
	assert.Empty(t, names)

	require.NoError(t, d.Put(ctx, storage.AreaMaterials, "b.pdf", strings.NewReader("b"), 1, ""))
	require.NoError(t, d.Put(ctx, storage.AreaMaterials, "a.pdf", strings.NewReader("a"), 1, ""))

	ok, err = d.AreaExists(ctx, storage.AreaMaterials)
	require.NoError(t, err)
	assert.True(t, ok)

	names, err = d.List(ctx, storage.AreaMaterials)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.pdf", "b.pdf"}, names)

	_, err = d.List(ctx, storage.Area("thumbs"))
	assert.ErrorIs(t, err, storage.ErrUnknownArea)
}
