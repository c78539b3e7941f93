package gate

import (
	"context"
	"sync"
	"time"
)

// CachedResolver keeps resolved roles for a TTL so a request does not hit
// the database for every permission check.
type CachedResolver[U comparable] struct {
	inner RoleResolver[U]
	ttl   time.Duration
	now   func() time.Time

	mu    sync.RWMutex
	cache map[U]cacheEntry
}

type cacheEntry struct {
	role      Role
	expiresAt time.Time
}

func NewCachedResolver[U comparable](inner RoleResolver[U], ttl time.Duration) *CachedResolver[U] {
	return &CachedResolver[U]{
		inner: inner,
		ttl:   ttl,
		now:   time.Now,
		cache: make(map[U]cacheEntry),
	}
}

func (r *CachedResolver[U]) Resolve(ctx context.Context, user U) (Role, error) {
	r.mu.RLock()
	e, ok := r.cache[user]
	r.mu.RUnlock()
	if ok && r.now().Before(e.expiresAt) {
		return e.role, nil
	}

	role, err := r.inner.Resolve(ctx, user)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	r.cache[user] = cacheEntry{role: role, expiresAt: r.now().Add(r.ttl)}
	r.mu.Unlock()
	return role, nil
}

// Invalidate drops one user, e.g. after a role change.
func (r *CachedResolver[U]) Invalidate(user U) {
	r.mu.Lock()
	delete(r.cache, user)
	r.mu.Unlock()
}

// InvalidateAll drops every entry, e.g. after role permissions changed.
func (r *CachedResolver[U]) InvalidateAll() {
	r.mu.Lock()
	r.cache = make(map[U]cacheEntry)
	r.mu.Unlock()
}
