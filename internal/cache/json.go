package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"eduassist/internal/domain"
)

// GetJSON loads key into dest. It returns domain.ErrCacheMiss untouched.
func GetJSON(ctx context.Context, c domain.Cache, key string, dest interface{}) error {
	raw, err := c.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return fmt.Errorf("decode cached %s: %w", key, err)
	}
	return nil
}

// SetJSON stores value as JSON under key.
func SetJSON(ctx context.Context, c domain.Cache, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s for cache: %w", key, err)
	}
	return c.Set(ctx, key, string(raw), ttl)
}
