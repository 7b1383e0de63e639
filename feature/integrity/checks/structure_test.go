package checks

import (
	"context"
	"testing"

	"course-manager/core/storage"
	"course-manager/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newDisk() *storage.Disk {
	return storage.NewDisk(afero.NewMemMapFs(), map[storage.Area]string{
		storage.AreaVideos:    "videos",
		storage.AreaMaterials: "materiais",
	})
}

func TestCheckStructure(t *testing.T) {
	ctx := context.Background()

	t.Run("All Missing", func(t *testing.T) {
		missing, err := CheckStructure(ctx, newDisk())
		require.NoError(t, err)
		assert.Equal(t, storage.Areas, missing)
	})

	t.Run("One Present", func(t *testing.T) {
		disk := newDisk()
		require.NoError(t, disk.EnsureArea(ctx, storage.AreaVideos))

		missing, err := CheckStructure(ctx, disk)
		require.NoError(t, err)
		assert.Equal(t, []storage.Area{storage.AreaMaterials}, missing)
	})

	t.Run("Object Prefixes", func(t *testing.T) {
		client := new(mocks.Client)
		found := make(chan minio.ObjectInfo, 1)
		found <- minio.ObjectInfo{Key: "videos/"}
		close(found)
		client.On("ListObjects", mock.Anything, "cursos", mock.MatchedBy(func(opts minio.ListObjectsOptions) bool {
			return opts.Prefix == "videos/"
		})).Return((<-chan minio.ObjectInfo)(found))
		client.On("ListObjects", mock.Anything, "cursos", mock.MatchedBy(func(opts minio.ListObjectsOptions) bool {
			return opts.Prefix == "materiais/"
		})).Return(nil)

		obj := storage.NewObject(client, "cursos", map[storage.Area]string{
			storage.AreaVideos:    "videos",
			storage.AreaMaterials: "materiais",
		})
		missing, err := CheckStructure(ctx, obj)
		require.NoError(t, err)
		assert.Equal(t, []storage.Area{storage.AreaMaterials}, missing)
	})
}

func TestFixStructure(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()

	t.Run("Disk", func(t *testing.T) {
		disk := newDisk()
		require.NoError(t, FixStructure(ctx, disk, logger, storage.Areas))

		missing, err := CheckStructure(ctx, disk)
		require.NoError(t, err)
		assert.Empty(t, missing)
	})

	t.Run("Object", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("ListObjects", mock.Anything, "cursos", mock.Anything).Return(nil)
		client.On("PutObject", mock.Anything, "cursos", "materiais/", mock.Anything, int64(0), mock.Anything).Return(minio.UploadInfo{}, nil)

		obj := storage.NewObject(client, "cursos", map[storage.Area]string{
			storage.AreaVideos:    "videos",
			storage.AreaMaterials: "materiais",
		})
		err := FixStructure(ctx, obj, logger, []storage.Area{storage.AreaMaterials})
		assert.NoError(t, err)
		client.AssertNumberOfCalls(t, "PutObject", 1)
	})

	t.Run("Unknown Area", func(t *testing.T) {
		err := FixStructure(ctx, newDisk(), logger, []storage.Area{"thumbs"})
		assert.ErrorIs(t, err, storage.ErrUnknownArea)
	})
}
