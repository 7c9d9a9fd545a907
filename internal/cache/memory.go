package cache

import (
	"context"
	"time"

	"eduassist/internal/domain"

	"github.com/jellydator/ttlcache/v3"
)

// MemoryCache is a process-local domain.Cache used when Redis is not
// configured. A background janitor removes expired entries; call Close to
// stop it.
type MemoryCache struct {
	items *ttlcache.Cache[string, string]
}

func NewMemoryCache() *MemoryCache {
	items := ttlcache.New[string, string](
		ttlcache.WithDisableTouchOnHit[string, string](),
	)
	go items.Start()
	return &MemoryCache{items: items}
}

// Close stops the expiry janitor. The cache stays usable with lazy expiry.
func (m *MemoryCache) Close() {
	m.items.Stop()
}

// Len counts stored entries, including expired ones not yet swept.
func (m *MemoryCache) Len() int {
	return m.items.Len()
}

func (m *MemoryCache) Get(_ context.Context, key string) (string, error) {
	item := m.items.Get(key)
	if item == nil || item.IsExpired() {
		return "", domain.ErrCacheMiss
	}
	return item.Value(), nil
}

func (m *MemoryCache) Set(_ context.Context, key string, value string, expiration time.Duration) error {
	m.items.Set(key, value, ttlOf(expiration))
	return nil
}

func (m *MemoryCache) Delete(_ context.Context, key string) error {
	m.items.Delete(key)
	return nil
}

func (m *MemoryCache) Ping(context.Context) error {
	return nil
}

func (m *MemoryCache) Expire(_ context.Context, key string, expiration time.Duration) error {
	item := m.items.Get(key)
	if item == nil || item.IsExpired() {
		return domain.ErrCacheMiss
	}
	m.items.Set(key, item.Value(), ttlOf(expiration))
	return nil
}

// ttlOf maps a zero expiration to an entry that never expires.
func ttlOf(expiration time.Duration) time.Duration {
	if expiration <= 0 {
		return ttlcache.NoTTL
	}
	return expiration
}

var _ domain.Cache = (*MemoryCache)(nil)
