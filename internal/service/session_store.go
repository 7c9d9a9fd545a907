package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"eduassist/internal/cache"
	"eduassist/internal/domain"
	"eduassist/internal/logger"
	"eduassist/internal/player"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"
)

// SessionStore keeps player sessions between requests.
type SessionStore interface {
	Put(ctx context.Context, session *player.Session) error
	Get(ctx context.Context, sessionID string) (*player.Session, error)
	// Update applies fn to the stored session and saves the result as one
	// step; concurrent updates of the same session never interleave. fn may
	// run more than once and must not have side effects.
	Update(ctx context.Context, sessionID string, fn func(*player.Session) error) (*player.Session, error)
}

const sessionLockStripes = 64

// cacheSessionStore implements SessionStore on a domain.Cache with a sliding TTL.
type cacheSessionStore struct {
	cache domain.Cache
	ttl   time.Duration
	locks [sessionLockStripes]sync.Mutex
}

// NewSessionStore falls back to an in-process cache when c is nil.
func NewSessionStore(c domain.Cache, ttl time.Duration) SessionStore {
	if c == nil {
		logger.Get().Warn("SessionStore initialized without a shared cache; sessions are kept in memory")
		c = cache.NewMemoryCache()
	}
	return &cacheSessionStore{cache: c, ttl: ttl}
}

// Put stores the session and restarts its TTL.
func (s *cacheSessionStore) Put(ctx context.Context, session *player.Session) error {
	if session == nil {
		return domain.NewInvalidInputError("cannot store nil session")
	}
	key := cache.SessionKey(session.ID)
	if err := cache.SetJSON(ctx, s.cache, key, session, s.ttl); err != nil {
		logger.Get().Error("Failed to store player session", zap.Error(err), zap.String("key", key))
		return domain.NewStoreUnavailableError(err)
	}
	logger.Get().Debug("Stored player session", zap.String("key", key), zap.String("state", string(session.State)))
	return nil
}

// Get loads a session and extends its TTL. Unknown or expired ids are NOT_FOUND.
func (s *cacheSessionStore) Get(ctx context.Context, sessionID string) (*player.Session, error) {
	key := cache.SessionKey(sessionID)
	var session player.Session
	if err := cache.GetJSON(ctx, s.cache, key, &session); err != nil {
		if errors.Is(err, domain.ErrCacheMiss) {
			logger.Get().Debug("Player session not found", zap.String("key", key))
			return nil, domain.NewNotFoundError("Phiên làm bài không tồn tại hoặc đã hết hạn").
				WithContext("session_id", sessionID)
		}
		logger.Get().Error("Failed to load player session", zap.Error(err), zap.String("key", key))
		return nil, domain.NewStoreUnavailableError(err)
	}

	if err := s.cache.Expire(ctx, key, s.ttl); err != nil && !errors.Is(err, domain.ErrCacheMiss) {
		logger.Get().Warn("Failed to extend player session TTL", zap.Error(err), zap.String("key", key))
	}
	return &session, nil
}

// Update serializes writers of one session inside this process. When the
// cache is shared (Redis) the write is also guarded against other processes.
func (s *cacheSessionStore) Update(ctx context.Context, sessionID string, fn func(*player.Session) error) (*player.Session, error) {
	mu := &s.locks[xxhash.Sum64String(sessionID)%sessionLockStripes]
	mu.Lock()
	defer mu.Unlock()

	if ac, ok := s.cache.(domain.AtomicCache); ok {
		return s.updateAtomic(ctx, ac, sessionID, fn)
	}

	session, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := fn(session); err != nil {
		return nil, err
	}
	if err := s.Put(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *cacheSessionStore) updateAtomic(ctx context.Context, ac domain.AtomicCache, sessionID string, fn func(*player.Session) error) (*player.Session, error) {
	key := cache.SessionKey(sessionID)
	var session *player.Session
	var fnErr error
	err := ac.Update(ctx, key, s.ttl, func(current string) (string, error) {
		session = new(player.Session)
		if err := json.Unmarshal([]byte(current), session); err != nil {
			return "", fmt.Errorf("decode session %s: %w", key, err)
		}
		if fnErr = fn(session); fnErr != nil {
			return "", fnErr
		}
		data, err := json.Marshal(session)
		if err != nil {
			return "", fmt.Errorf("encode session %s: %w", key, err)
		}
		return string(data), nil
	})
	switch {
	case err == nil:
		logger.Get().Debug("Updated player session", zap.String("key", key), zap.String("state", string(session.State)))
		return session, nil
	case fnErr != nil && errors.Is(err, fnErr):
		return nil, fnErr
	case errors.Is(err, domain.ErrCacheMiss):
		return nil, domain.NewNotFoundError("Phiên làm bài không tồn tại hoặc đã hết hạn").
			WithContext("session_id", sessionID)
	default:
		logger.Get().Error("Failed to update player session", zap.Error(err), zap.String("key", key))
		return nil, domain.NewStoreUnavailableError(err)
	}
}
