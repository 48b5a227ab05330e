package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rl1809/primo-pizza/internal/port"
)

const defaultTxRetries = 5

type RedisStore struct {
	client     *redis.Client
	prefix     string
	maxRetries int
}

func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix, maxRetries: defaultTxRetries}
}

func (r *RedisStore) Get(ctx context.Context, key string, dst any) (bool, error) {
	data, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get %s: %w", key, err)
	}
	return true, decode(key, data, dst)
}

func (r *RedisStore) Put(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return r.client.Set(ctx, r.prefix+key, data, 0).Err()
}

// Atomic uses WATCH/MULTI/EXEC on the declared keys. When another client
// writes a watched key before EXEC, the whole attempt is re-run.
func (r *RedisStore) Atomic(ctx context.Context, keys []string, fn func(ctx context.Context, tx port.Documents) error) error {
	watched := make([]string, len(keys))
	for i, k := range keys {
		watched[i] = r.prefix + k
	}

	for attempt := 0; attempt < r.maxRetries; attempt++ {
		err := r.client.Watch(ctx, func(rtx *redis.Tx) error {
			staged := newStagedTx(r.prefix, keys, func(ctx context.Context, fullKey string) ([]byte, bool, error) {
				data, err := rtx.Get(ctx, fullKey).Bytes()
				if errors.Is(err, redis.Nil) {
					return nil, false, nil
				}
				return data, err == nil, err
			})

			if err := fn(ctx, staged); err != nil {
				return err
			}
			if len(staged.order) == 0 {
				return nil
			}

			_, err := rtx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				return staged.each(func(fullKey string, data []byte) error {
					return pipe.Set(ctx, fullKey, data, 0).Err()
				})
			})
			return err
		}, watched...)

		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}

	return port.ErrConflict
}

func (r *RedisStore) Claim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := r.client.SetNX(ctx, r.prefix+key, 1, ttl).Result()
	if err != nil {
		return false, err
	}

	return ok, nil
}

func (r *RedisStore) Release(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.prefix+key).Err()
}

func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
