// Package drafts persists in-progress form state (evaluation sessions, order
// drafts) behind a small key/value interface.
package drafts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/godilite/procurement-server/pkg/cache"
)

var ErrNotFound = errors.New("draft not found")

// Store loads, saves and deletes drafts by key.
type Store interface {
	Load(ctx context.Context, key string, dest any) error
	Save(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, key string) error
}

// KV is the redis-backed cache surface RedisStore is built on.
type KV interface {
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
}

// RedisStore keeps drafts in redis with a sliding TTL.
type RedisStore struct {
	kv  KV
	ttl time.Duration
}

const keyPrefix = "draft:"

func NewRedisStore(kv KV, ttl time.Duration) *RedisStore {
	if kv == nil {
		panic("nil KV provided to NewRedisStore")
	}
	return &RedisStore{kv: kv, ttl: ttl}
}

func (s *RedisStore) Load(ctx context.Context, key string, dest any) error {
	err := s.kv.Get(ctx, keyPrefix+key, dest)
	if errors.Is(err, cache.Nil) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("load draft %q: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Save(ctx context.Context, key string, value any) error {
	if err := s.kv.Set(ctx, keyPrefix+key, value, s.ttl); err != nil {
		return fmt.Errorf("save draft %q: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.kv.Delete(ctx, keyPrefix+key); err != nil {
		return fmt.Errorf("delete draft %q: %w", key, err)
	}
	return nil
}
