package watch

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/wjyergin98/autonomous-auto-agent/pkg/store"
)

const redisKeyPrefix = "watch:"

// RedisKV persists watch specifications in Redis so they survive restarts.
// Uniqueness per content key is delegated to SETNX.
type RedisKV struct {
	client *redis.Client
}

func NewRedisKV(client *redis.Client) *RedisKV {
	return &RedisKV{client: client}
}

func (r *RedisKV) Get(ctx context.Context, key string) (*store.WatchSpec, bool, error) {
	raw, err := r.client.Get(ctx, redisKeyPrefix+key).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}
	var spec store.WatchSpec
	if err := json.Unmarshal([]byte(raw), &spec); err != nil {
		return nil, false, fmt.Errorf("decode watch spec: %w", err)
	}
	return &spec, true, nil
}

func (r *RedisKV) SetNX(ctx context.Context, key string, spec *store.WatchSpec) (bool, error) {
	payload, err := json.Marshal(spec)
	if err != nil {
		return false, fmt.Errorf("encode watch spec: %w", err)
	}
	stored, err := r.client.SetNX(ctx, redisKeyPrefix+key, payload, 0).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx: %w", err)
	}
	return stored, nil
}

func (r *RedisKV) Has(ctx context.Context, key string) (bool, error) {
	n, err := r.client.Exists(ctx, redisKeyPrefix+key).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists: %w", err)
	}
	return n > 0, nil
}

func (r *RedisKV) List(ctx context.Context) ([]*store.WatchSpec, error) {
	var specs []*store.WatchSpec
	iter := r.client.Scan(ctx, 0, redisKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		raw, err := r.client.Get(ctx, iter.Val()).Result()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("redis get: %w", err)
		}
		var spec store.WatchSpec
		if err := json.Unmarshal([]byte(raw), &spec); err != nil {
			return nil, fmt.Errorf("decode watch spec: %w", err)
		}
		specs = append(specs, &spec)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("redis scan: %w", err)
	}
	return specs, nil
}
