package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9" // Redis client
)

// maxUpdateRetries bounds optimistic retries when a watched key changes mid-update
const maxUpdateRetries = 5

// Redis keeps records as plain redis strings without expiry.
type Redis struct {
	rdb *redis.Client
}

// NewRedis connects to the server described by opts and verifies it answers.
func NewRedis(ctx context.Context, opts *redis.Options) (*Redis, error) {
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return &Redis{rdb: rdb}, nil
}

// NewRedisFromClient wraps an existing client.
func NewRedisFromClient(rdb *redis.Client) *Redis {
	return &Redis{rdb: rdb}
}

func (r *Redis) Close() error {
	return r.rdb.Close()
}

func (r *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := r.rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil // Key does not exist
	} else if err != nil {
		return "", false, unavailable("get", key, err)
	}
	return val, true, nil
}

func (r *Redis) Set(ctx context.Context, key, value string) error {
	if err := r.rdb.Set(ctx, key, value, 0).Err(); err != nil {
		return unavailable("set", key, err)
	}
	return nil
}

func (r *Redis) Remove(ctx context.Context, key string) error {
	if err := r.rdb.Del(ctx, key).Err(); err != nil {
		return unavailable("remove", key, err)
	}
	return nil
}

// Update watches key and commits fn's result with MULTI/EXEC, retrying when the key changed meanwhile.
func (r *Redis) Update(ctx context.Context, key string, fn UpdateFunc) error {
	var fnErr error
	txf := func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, key).Result()
		ok := true
		if err == redis.Nil {
			current, ok = "", false
		} else if err != nil {
			return err
		}
		next, err := fn(current, ok)
		if err != nil {
			fnErr = err
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, next, 0)
			return nil
		})
		return err
	}

	for i := 0; i < maxUpdateRetries; i++ {
		err := r.rdb.Watch(ctx, txf, key)
		if err == nil {
			return nil
		}
		if fnErr != nil {
			return fnErr // Caller's error, not a storage failure
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue // Key changed under us, read it again
		}
		return unavailable("update", key, err)
	}
	return unavailable("update", key, redis.TxFailedErr)
}
