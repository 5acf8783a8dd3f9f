package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/xavierca1/rewards-onboarding/internal/onboarding"
)

// StepStore keeps onboarding step state as JSON strings. Every write refreshes
// the key TTL.
type StepStore struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewStepStore(rdb redis.Cmdable, ttl time.Duration) *StepStore {
	return &StepStore{rdb: rdb, ttl: ttl}
}

func (s *StepStore) Put(ctx context.Context, visitor string, key onboarding.StepKey, value any) error {
	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.rdb.Set(ctx, onboarding.StorageKey(visitor, key), string(b), s.ttl).Err(); err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

func (s *StepStore) Get(ctx context.Context, visitor string, key onboarding.StepKey, dest any) (bool, error) {
	raw, err := s.rdb.Get(ctx, onboarding.StorageKey(visitor, key)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (s *StepStore) Delete(ctx context.Context, visitor string, keys ...onboarding.StepKey) error {
	if len(keys) == 0 {
		return nil
	}
	if err := s.rdb.Del(ctx, storageKeys(visitor, keys)...).Err(); err != nil {
		return fmt.Errorf("delete step state: %w", err)
	}
	return nil
}

// ClearAll removes the whole key set with a single DEL, which Redis applies atomically.
func (s *StepStore) ClearAll(ctx context.Context, visitor string) error {
	return s.Delete(ctx, visitor, onboarding.AllKeys...)
}

func storageKeys(visitor string, keys []onboarding.StepKey) []string {
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, onboarding.StorageKey(visitor, k))
	}
	return out
}
