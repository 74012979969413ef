// Package redisstore keeps client state as JSON blobs in redis. Entries
// never expire; this is durable state, not a cache.
package redisstore

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"center_catalog/internal/adapters/observability"
)

type Store struct{ c *redis.Client }

func New(addr, pass string, db int) *Store {
	return &Store{c: redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db})}
}

// NewFromClient wires an existing client; used by tests against miniredis.
func NewFromClient(c *redis.Client) *Store { return &Store{c: c} }

func (r *Store) Get(ctx context.Context, key string, dst any) (bool, error) {
	v, err := r.c.Get(ctx, key).Bytes()
	if err == redis.Nil {
		observability.ObserveStore("redis", "miss")
		return false, nil
	}
	if err != nil {
		return false, err
	}
	observability.ObserveStore("redis", "hit")
	return true, json.Unmarshal(v, dst)
}

func (r *Store) Set(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	observability.ObserveStore("redis", "set")
	return r.c.Set(ctx, key, b, 0).Err()
}

func (r *Store) Del(ctx context.Context, key string) error {
	observability.ObserveStore("redis", "del")
	return r.c.Del(ctx, key).Err()
}
