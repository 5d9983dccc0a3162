package cache

import (
    "context"
    "time"

    redis "github.com/redis/go-redis/v9"
)

// Redis backs the cache with a shared Redis instance so multiple gateway
// replicas see the same invalidations.
type Redis struct {
    rdb *redis.Client
}

func NewRedis(url string) (*Redis, error) {
    opt, err := redis.ParseURL(url)
    if err != nil { return nil, err }
    return &Redis{rdb: redis.NewClient(opt)}, nil
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
    val, err := r.rdb.Get(ctx, key).Bytes()
    if err != nil { return nil, false }
    return val, true
}

func (r *Redis) Set(ctx context.Context, key string, val []byte, ttl time.Duration) {
    if ttl <= 0 { return }
    _ = r.rdb.Set(ctx, key, val, ttl).Err()
}

func (r *Redis) Delete(ctx context.Context, key string) {
    _ = r.rdb.Del(ctx, key).Err()
}
