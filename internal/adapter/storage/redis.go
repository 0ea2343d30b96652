package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/niksmo/minizon/internal/core/port"
	"github.com/redis/go-redis/v9"
)

var _ port.KeyValueStorage = (*RedisStorage)(nil)

type RedisConfig struct {
	URL          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	DialTimeout  time.Duration
}

// A RedisStorage keeps values as plain redis strings.
type RedisStorage struct {
	rdb redis.Cmdable
	ttl time.Duration
}

// NewRedisClient returns a connected client.
func NewRedisClient(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	const op = "NewRedisClient"
	log := slog.With("op", op)

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if cfg.ReadTimeout > 0 {
		opts.ReadTimeout = cfg.ReadTimeout
	}
	if cfg.WriteTimeout > 0 {
		opts.WriteTimeout = cfg.WriteTimeout
	}
	if cfg.DialTimeout > 0 {
		opts.DialTimeout = cfg.DialTimeout
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%s: redis is unavailable: %w", op, err)
	}

	log.Info("redis is available", "addr", opts.Addr)
	return client, nil
}

// NewRedisStorage extends ttl on every write. Zero ttl keeps keys forever.
func NewRedisStorage(rdb redis.Cmdable, ttl time.Duration) RedisStorage {
	return RedisStorage{rdb: rdb, ttl: ttl}
}

func (s RedisStorage) Get(ctx context.Context, key string) ([]byte, error) {
	const op = "RedisStorage.Get"

	v, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%s: %q: %w", op, key, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return v, nil
}

func (s RedisStorage) Set(ctx context.Context, key string, value []byte) error {
	const op = "RedisStorage.Set"

	if err := s.rdb.Set(ctx, key, value, s.ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s RedisStorage) Delete(ctx context.Context, key string) error {
	const op = "RedisStorage.Delete"

	if err := s.rdb.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
