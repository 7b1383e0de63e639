package store

import (
	"context"
	"testing"

	"course-manager/core/catalog"
	"course-manager/core/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLStore(t *testing.T) *SQLStore {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	s := NewSQLStore(db)
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func TestSQLStoreRoundTrip(t *testing.T) {
	s := newSQLStore(t)
	ctx := context.Background()

	c, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, catalog.DefaultCategories, c.Categories)

	c.Courses = []catalog.Course{
		{ID: "b", OwnerEmail: "x@y.z", Title: "Second"},
		{ID: "a", OwnerEmail: "x@y.z", Title: "First", Materials: []catalog.BlobRef{{StorageName: "m.pdf"}}},
	}
	c.User("x@y.z", true).Favorites = []string{"a"}
	c.Categories = []string{"Vegano", "Doces"}
	require.NoError(t, s.Save(ctx, c))
	assert.Equal(t, int64(1), c.Version)

	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), loaded.Version)
	require.Len(t, loaded.Courses, 2)
	assert.Equal(t, "b", loaded.Courses[0].ID)
	assert.Equal(t, "m.pdf", loaded.Courses[1].Materials[0].StorageName)
	assert.Equal(t, []string{"a"}, loaded.Users["x@y.z"].Favorites)
	assert.Equal(t, []string{"Vegano", "Doces"}, loaded.Categories)
}

func TestSQLStoreRejectsStaleSnapshot(t *testing.T) {
	s := newSQLStore(t)
	ctx := context.Background()

	first, _ := s.Load(ctx)
	second, _ := s.Load(ctx)
	require.NoError(t, s.Save(ctx, first))
	assert.ErrorIs(t, s.Save(ctx, second), ErrStaleSnapshot)
}

func TestSQLStoreSchema(t *testing.T) {
	s := newSQLStore(t)
	missing, err := s.MissingColumns()
	require.NoError(t, err)
	assert.Empty(t, missing)
}
