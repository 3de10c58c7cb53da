package tokencache

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Refresher wraps a Cache so that concurrent misses on the same key call
// fetch once. Per-key locks are reference counted and dropped when idle.
type Refresher struct {
	cache Cache

	mu    sync.Mutex
	locks map[string]*lockEntry

	locker  Locker
	lockTTL time.Duration
	logger  *slog.Logger
}

// RefresherOption configures a Refresher.
type RefresherOption func(*Refresher)

// WithLocker also serializes refreshes across processes.
func WithLocker(locker Locker, ttl time.Duration) RefresherOption {
	return func(r *Refresher) {
		r.locker = locker
		r.lockTTL = ttl
	}
}

// WithLogger configures a logger for lock release failures.
func WithLogger(logger *slog.Logger) RefresherOption {
	return func(r *Refresher) {
		r.logger = logger
	}
}

// NewRefresher creates a Refresher over cache.
func NewRefresher(cache Cache, opts ...RefresherOption) *Refresher {
	r := &Refresher{
		cache:   cache,
		locks:   make(map[string]*lockEntry),
		lockTTL: 30 * time.Second,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller must lock entry.mu and call release after unlocking.
func (r *Refresher) acquire(key string) *lockEntry {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, exists := r.locks[key]
	if !exists {
		entry = &lockEntry{}
		r.locks[key] = entry
	}
	entry.refs++
	return entry
}

func (r *Refresher) release(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, exists := r.locks[key]
	if !exists {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(r.locks, key)
	}
}

// Token returns the cached token for key, refreshing it with fetch on a miss.
func (r *Refresher) Token(ctx context.Context, key string, fetch func(context.Context) (Token, error)) (Token, error) {
	if tok, err := r.cache.Get(ctx, key); err == nil {
		return tok, nil
	}

	var tok Token
	err := r.withLock(ctx, key, func(ctx context.Context) error {
		var err error
		tok, err = GetOrFetch(ctx, r.cache, key, fetch)
		return err
	})
	return tok, err
}

func (r *Refresher) withLock(ctx context.Context, key string, fn func(context.Context) error) error {
	entry := r.acquire(key)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		r.release(key)
	}()

	if r.locker != nil {
		unlock, err := r.locker.Lock(ctx, key, r.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire refresh lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				r.logger.Warn("failed to release refresh lock (will expire via TTL)", "key", key, "err", err)
			}
		}()
	}

	return fn(ctx)
}

// pending reports how many keys currently hold a lock entry.
func (r *Refresher) pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.locks)
}
