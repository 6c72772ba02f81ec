package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/angelmondragon/packfinderz-storefront/pkg/config"
	"github.com/redis/go-redis/v9"
)

const keyNamespace = "storefront"

// RedisStore keeps blobs in Redis for server-rendered deployments where the
// client state must survive process restarts and be shared across instances.
type RedisStore struct {
	raw *redis.Client
}

// NewRedisStore bootstraps a Redis-backed blob store and verifies connectivity.
func NewRedisStore(ctx context.Context, cfg config.RedisConfig) (*RedisStore, error) {
	opts, err := optionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	raw := redis.NewClient(opts)
	if err := raw.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisStore{raw: raw}, nil
}

func optionsFromConfig(cfg config.RedisConfig) (*redis.Options, error) {
	if cfg.URL == "" && cfg.Address == "" {
		return nil, errors.New("redis url or address is required")
	}
	var opts *redis.Options
	if cfg.URL != "" {
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("parsing redis url: %w", err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{
			Addr:     cfg.Address,
			Password: cfg.Password,
			DB:       cfg.DB,
		}
	}
	opts.PoolSize = cfg.PoolSize
	opts.DialTimeout = cfg.DialTimeout
	opts.ReadTimeout = cfg.ReadTimeout
	opts.WriteTimeout = cfg.WriteTimeout
	return opts, nil
}

func (r *RedisStore) key(key string) string {
	return fmt.Sprintf("%s:%s", keyNamespace, key)
}

func (r *RedisStore) Load(ctx context.Context, key string) ([]byte, error) {
	data, err := r.raw.Get(ctx, r.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("loading blob %q: %w", key, err)
	}
	return data, nil
}

func (r *RedisStore) Store(ctx context.Context, key string, value []byte) error {
	if err := r.raw.Set(ctx, r.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("storing blob %q: %w", key, err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, key string) error {
	if err := r.raw.Del(ctx, r.key(key)).Err(); err != nil {
		return fmt.Errorf("removing blob %q: %w", key, err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (r *RedisStore) Close() error {
	return r.raw.Close()
}
