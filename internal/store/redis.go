package store

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/ricesearch/rank-eval/internal/pkg/errors"
)

// RedisStorage provides Redis-backed persistence for encoded results.
type RedisStorage struct {
	client *redis.Client
	prefix string
	ttl    time.Duration // 0 keeps results until deleted
}

// NewRedisStorage creates a new Redis storage backend.
// Returns error if connection fails.
func NewRedisStorage(url, prefix string, ttl time.Duration) (*RedisStorage, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, errors.Wrap(errors.CodeValidation, "parsing redis URL", err)
	}

	client := redis.NewClient(opts)

	// Test connection with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, errors.ServiceUnavailableError("redis").
			WithDetail("addr", opts.Addr).
			WithDetail("cause", err.Error())
	}

	if prefix == "" {
		prefix = "rankeval:result:"
	}

	return &RedisStorage{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}, nil
}

func (rs *RedisStorage) key(id string) string {
	return rs.prefix + id
}

// Save writes data under the prefixed id with the configured TTL.
func (rs *RedisStorage) Save(ctx context.Context, id string, data []byte) error {
	if err := rs.client.Set(ctx, rs.key(id), data, rs.ttl).Err(); err != nil {
		return errors.Wrap(errors.CodeUnavailable, "saving result", err)
	}
	return nil
}

// Load reads the bytes stored under id.
func (rs *RedisStorage) Load(ctx context.Context, id string) ([]byte, error) {
	data, err := rs.client.Get(ctx, rs.key(id)).Bytes()
	if err == redis.Nil {
		return nil, errors.NotFoundError("result " + id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.CodeUnavailable, "loading result", err)
	}
	return data, nil
}

// Delete removes id.
func (rs *RedisStorage) Delete(ctx context.Context, id string) error {
	if err := rs.client.Del(ctx, rs.key(id)).Err(); err != nil {
		return errors.Wrap(errors.CodeUnavailable, "deleting result", err)
	}
	return nil
}

// List returns all result ids stored under the prefix.
func (rs *RedisStorage) List(ctx context.Context) ([]string, error) {
	var ids []string
	iter := rs.client.Scan(ctx, 0, rs.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		ids = append(ids, strings.TrimPrefix(iter.Val(), rs.prefix))
	}
	if err := iter.Err(); err != nil {
		return nil, errors.Wrap(errors.CodeUnavailable, "listing results", err)
	}

	sort.Strings(ids)
	return ids, nil
}

// Close closes the Redis connection.
func (rs *RedisStorage) Close() error {
	return rs.client.Close()
}
