package storage_test

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/niksmo/minizon/internal/adapter/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisStorage(t *testing.T) {
	mr := miniredis.RunT(t)

	rdb, err := storage.NewRedisClient(t.Context(), storage.RedisConfig{
		URL:         "redis://" + mr.Addr(),
		DialTimeout: time.Second,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })

	testKeyValueStorage(t, storage.NewRedisStorage(rdb, 0))

	t.Run("TTL", func(t *testing.T) {
		s := storage.NewRedisStorage(rdb, time.Hour)
		require.NoError(t, s.Set(t.Context(), "ttl-key", []byte("v")))
		assert.Equal(t, time.Hour, mr.TTL("ttl-key"))
	})

	t.Run("Unavailable", func(t *testing.T) {
		s := storage.NewRedisStorage(rdb, 0)
		mr.SetError("server is down")
		t.Cleanup(func() { mr.SetError("") })

		_, err := s.Get(t.Context(), "k")
		require.Error(t, err)
		assert.NotErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestNewRedisClient(t *testing.T) {
	t.Run("InvalidURL", func(t *testing.T) {
		_, err := storage.NewRedisClient(t.Context(), storage.RedisConfig{URL: "://"})
		require.Error(t, err)
	})

	t.Run("NoServer", func(t *testing.T) {
		mr := miniredis.RunT(t)
		addr := mr.Addr()
		mr.Close()

		_, err := storage.NewRedisClient(t.Context(), storage.RedisConfig{
			URL:         "redis://" + addr,
			DialTimeout: 100 * time.Millisecond,
		})
		require.Error(t, err)
	})
}
