package catalog

import (
	"context"
	"sync"
	"time"

	"github.com/diewo77/go-vertrieb/internal/pricing"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

// DefaultTTL is how long a snapshot is served before reloading.
const DefaultTTL = 5 * time.Minute

// SharedCache stores snapshots outside the process so several instances
// agree on the catalog. Get returns nil, nil on a miss.
type SharedCache interface {
	Get(ctx context.Context) (*pricing.Prices, error)
	Set(ctx context.Context, p *pricing.Prices, ttl time.Duration) error
	Delete(ctx context.Context) error
}

// Store hands out price snapshots with TTL caching.
type Store struct {
	db     *gorm.DB
	shared SharedCache
	log    *zap.Logger
	ttl    time.Duration
	now    func() time.Time

	mu        sync.RWMutex
	snapshot  *pricing.Prices
	expiresAt time.Time
	// gen is bumped by Invalidate. Loads started under an older gen are
	// handed to their callers but never cached.
	gen uint64

	group singleflight.Group
}

// Option configures a Store.
type Option func(*Store)

// WithSharedCache adds a second cache level, usually Redis.
func WithSharedCache(c SharedCache) Option {
	return func(s *Store) { s.shared = c }
}

// WithTTL overrides DefaultTTL.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func NewStore(db *gorm.DB, opts ...Option) *Store {
	s := &Store{
		db:  db,
		log: zap.NewNop(),
		ttl: DefaultTTL,
		now: time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Prices returns the current snapshot. Concurrent misses share one load,
// which runs detached from the caller's cancellation.
func (s *Store) Prices(ctx context.Context) (*pricing.Prices, error) {
	s.mu.RLock()
	p, exp, gen := s.snapshot, s.expiresAt, s.gen
	s.mu.RUnlock()
	if p != nil && s.now().Before(exp) {
		return p, nil
	}

	v, err, _ := s.group.Do("prices", func() (any, error) {
		return s.load(context.WithoutCancel(ctx), gen)
	})
	if err != nil {
		return nil, err
	}
	p = v.(*pricing.Prices)

	s.mu.Lock()
	if s.gen == gen {
		s.snapshot = p
		s.expiresAt = s.now().Add(s.ttl)
	}
	s.mu.Unlock()
	return p, nil
}

func (s *Store) current(gen uint64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gen == gen
}

func (s *Store) load(ctx context.Context, gen uint64) (*pricing.Prices, error) {
	if s.shared != nil {
		p, err := s.shared.Get(ctx)
		if err != nil {
			s.log.Warn("shared catalog cache read failed", zap.Error(err))
		} else if p != nil {
			return p, nil
		}
	}

	p, err := Load(ctx, s.db)
	if err != nil {
		return nil, err
	}
	s.log.Debug("catalog loaded",
		zap.Int("module", len(p.Module)),
		zap.Int("accessories", len(p.Accessories)),
		zap.Int("values", len(p.Values)))

	if s.shared != nil && s.current(gen) {
		if err := s.shared.Set(ctx, p, s.ttl); err != nil {
			s.log.Warn("shared catalog cache write failed", zap.Error(err))
		}
		// Invalidated while writing: take the stale snapshot back out.
		if !s.current(gen) {
			if err := s.shared.Delete(ctx); err != nil {
				s.log.Warn("shared catalog cache delete failed", zap.Error(err))
			}
		}
	}
	return p, nil
}

// Invalidate drops every cached snapshot. Call it after catalog writes.
func (s *Store) Invalidate(ctx context.Context) {
	s.mu.Lock()
	s.gen++
	s.snapshot = nil
	s.expiresAt = time.Time{}
	s.mu.Unlock()
	s.group.Forget("prices")

	if s.shared != nil {
		if err := s.shared.Delete(ctx); err != nil {
			s.log.Warn("shared catalog cache delete failed", zap.Error(err))
		}
	}
}
