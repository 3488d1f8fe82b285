package persistence

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/gramseva/portal/modules/admin/domain/session"
)

// CacheStore keeps sessions in process memory. Entries expire with the session.
type CacheStore struct {
	c *cache.Cache
}

func NewCacheStore(cleanupInterval time.Duration) *CacheStore {
	return &CacheStore{c: cache.New(cache.NoExpiration, cleanupInterval)}
}

func (s *CacheStore) Get(_ context.Context, token string) (session.Session, error) {
	v, ok := s.c.Get(token)
	if !ok {
		return session.Session{}, session.ErrNotFound
	}
	return v.(session.Session), nil
}

func (s *CacheStore) Save(_ context.Context, sess session.Session) error {
	ttl := time.Until(sess.ExpiresAt())
	if ttl <= 0 {
		return nil
	}
	s.c.Set(sess.Token(), sess, ttl)
	return nil
}

func (s *CacheStore) Delete(_ context.Context, token string) error {
	s.c.Delete(token)
	return nil
}
