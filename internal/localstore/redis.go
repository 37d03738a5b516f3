package localstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis backs the device store with a redis hash space so saved posts and
// settings survive restarts. Seed markers expire on their own.
type Redis struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedis wires a redis client. Keys live under gist:local:.
func NewRedis(rdb *redis.Client) *Redis {
	return &Redis{rdb: rdb, ttl: 90 * 24 * time.Hour}
}

func redisKey(key string) string {
	return fmt.Sprintf("gist:local:%s", key)
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := r.rdb.Get(ctx, redisKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *Redis) Set(ctx context.Context, key string, value []byte) error {
	return r.rdb.Set(ctx, redisKey(key), value, r.ttl).Err()
}

func (r *Redis) Remove(ctx context.Context, key string) error {
	return r.rdb.Del(ctx, redisKey(key)).Err()
}
