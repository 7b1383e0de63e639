package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"course-manager/core/catalog"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLockerTimesOut(t *testing.T) {
	l := NewMemoryLocker()
	unlock, err := l.Lock(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = l.Lock(ctx)
	assert.ErrorIs(t, err, ErrLockTimeout)

	unlock()
	unlock2, err := l.Lock(context.Background())
	require.NoError(t, err)
	unlock2()
}

func TestRepositoryUpdatesSerialize(t *testing.T) {
	repo := NewRepository(NewFileStore(afero.NewMemMapFs(), "data.json"), nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, repo.Update(ctx, func(c *catalog.Collection) error {
				c.Categories = append(c.Categories, "x")
				return nil
			}))
		}()
	}
	wg.Wait()

	c, err := repo.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(20), c.Version)
	assert.Len(t, c.Categories, len(catalog.DefaultCategories)+20)
}

func TestRepositoryUpdateErrorSavesNothing(t *testing.T) {
	repo := NewRepository(NewFileStore(afero.NewMemMapFs(), "data.json"), NewMemoryLocker())
	ctx := context.Background()
	boom := errors.New("boom")

	err := repo.Update(ctx, func(c *catalog.Collection) error {
		c.Categories = nil
		return boom
	})
	assert.ErrorIs(t, err, boom)

	c, err := repo.Read(ctx)
	require.NoError(t, err)
	assert.Zero(t, c.Version)
}

func TestRepositoryUpdateThenHoldsLock(t *testing.T) {
	locker := NewMemoryLocker()
	repo := NewRepository(NewFileStore(afero.NewMemMapFs(), "data.json"), locker)
	ctx := context.Background()

	var version int64
	var lockErr error
	err := repo.UpdateThen(ctx, func(c *catalog.Collection) error {
		c.Categories = append(c.Categories, "x")
		return nil
	}, func(c *catalog.Collection) {
		version = c.Version
		tctx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
		defer cancel()
		_, lockErr = locker.Lock(tctx)
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)
	assert.ErrorIs(t, lockErr, ErrLockTimeout)

	called := false
	err = repo.UpdateThen(ctx, func(*catalog.Collection) error {
		return errors.New("boom")
	}, func(*catalog.Collection) { called = true })
	assert.Error(t, err)
	assert.False(t, called)
}

func TestNewLockerDrivers(t *testing.T) {
	l, err := NewLocker(LockConfig{Driver: LockMemory})
	require.NoError(t, err)
	assert.IsType(t, &MemoryLocker{}, l)

	_, err = NewLocker(LockConfig{Driver: "etcd"})
	assert.Error(t, err)
}

func TestRedisLocker(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skip("redis not available")
	}

	l := NewRedisLocker(client, "course-manager:test-lock", time.Second)
	unlock, err := l.Lock(context.Background())
	require.NoError(t, err)

	short, cancelShort := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancelShort()
	_, err = l.Lock(short)
	assert.ErrorIs(t, err, ErrLockTimeout)

	unlock()
	unlock2, err := l.Lock(context.Background())
	require.NoError(t, err)
	unlock2()
}
