// Package cache implements the provider cache: a bounded LRU fronting
// external live-data calls (time, weather, market, crypto, fx) with
// per-category TTL, stale-while-revalidate, and in-flight request
// coalescing.
package cache

import (
	"context"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/dailyspark/practiceengine/internal/observability"
)

// Category names the kind of live data a key belongs to, selecting which
// configured TTL applies.
type Category string

const (
	CategoryTime    Category = "time"
	CategoryMarket  Category = "market"
	CategoryCrypto  Category = "crypto"
	CategoryWeather Category = "weather"
	CategoryFX      Category = "fx"
)

// Config carries the tunables: per-category TTL, the grace window during
// which a stale entry is still servable, and whether stale-while-revalidate
// is enabled at all.
type Config struct {
	MaxEntries           int
	TTL                  map[Category]time.Duration
	StaleGrace           time.Duration
	StaleWhileRevalidate bool
	CleanupInterval      time.Duration
}

// DefaultConfig returns the documented default capacity and TTL sweep settings.
func DefaultConfig() Config {
	return Config{
		MaxEntries: 10000,
		TTL: map[Category]time.Duration{
			CategoryTime:    1 * time.Second,
			CategoryMarket:  30 * time.Second,
			CategoryCrypto:  30 * time.Second,
			CategoryWeather: 5 * time.Minute,
			CategoryFX:      1 * time.Hour,
		},
		StaleGrace:           30 * time.Second,
		StaleWhileRevalidate: true,
		CleanupInterval:      60 * time.Second,
	}
}

type entry struct {
	value     any
	category  Category
	createdAt time.Time
	expiresAt time.Time
	hits      int64
}

func (e *entry) fresh(now time.Time) bool {
	return now.Before(e.expiresAt)
}

func (e *entry) expiredPastGrace(now time.Time, grace time.Duration) bool {
	return now.After(e.expiresAt.Add(grace))
}

// Stats is a point-in-time snapshot of cache activity.
type Stats struct {
	Hits         int64
	Misses       int64
	StaleHits    int64
	Evictions    int64
	Deduplicated int64
	InFlight     int64
}

// HitRate returns hits/(hits+misses), or 0 if no lookups have occurred.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// Fetcher produces a fresh value for key on a cache miss or stale read.
type Fetcher func(ctx context.Context) (any, error)

// inflight tracks one outstanding fetch so concurrent callers for the same
// key coalesce onto a single fetcher invocation — at most one outstanding
// fetcher per key globally.
type inflight struct {
	done  chan struct{}
	value any
	err   error
}

// TTLCache layers per-category TTL, staleness, and in-flight coalescing on
// top of an O(1) LRU store. The LRU itself only ever sees eviction by
// recency; expiry and staleness are TTLCache's own bookkeeping, since
// golang-lru/v2 has no TTL or SWR concept built in.
type TTLCache struct {
	cfg Config
	lru *lru.Cache[string, *entry]
	log *observability.Logger
	mtx *observability.MetricsCollector

	mu       sync.Mutex
	inflight map[string]*inflight

	statsMu sync.Mutex
	stats   Stats

	stopOnce sync.Once
	stopCh   chan struct{}
}

// New constructs a TTLCache. log and mtx may both be nil.
func New(cfg Config, log *observability.Logger, mtx *observability.MetricsCollector) *TTLCache {
	maxEntries := cfg.MaxEntries
	if maxEntries <= 0 {
		maxEntries = 1
	}
	backing, err := lru.New[string, *entry](maxEntries)
	if err != nil {
		// Only possible if maxEntries <= 0, guarded above.
		panic(err)
	}
	return &TTLCache{
		cfg:      cfg,
		lru:      backing,
		log:      log,
		mtx:      mtx,
		inflight: make(map[string]*inflight),
		stopCh:   make(chan struct{}),
	}
}

func (c *TTLCache) ttlFor(category Category) time.Duration {
	if ttl, ok := c.cfg.TTL[category]; ok {
		return ttl
	}
	return 0
}

// set records value under key with category's configured TTL, moving the
// entry to the LRU's most-recently-used position.
func (c *TTLCache) set(key string, category Category, value any, now time.Time) {
	e := &entry{
		value:     value,
		category:  category,
		createdAt: now,
		expiresAt: now.Add(c.ttlFor(category)),
	}
	c.lru.Add(key, e)
}

type lookupResult int

const (
	lookupMiss lookupResult = iota
	lookupFresh
	lookupStale
	lookupExpired
)

// lookup classifies the cached state of key without mutating in-flight
// bookkeeping. An expired-past-grace hit is evicted and reported as a miss.
func (c *TTLCache) lookup(key string, now time.Time) (*entry, lookupResult) {
	e, ok := c.lru.Get(key)
	if !ok {
		return nil, lookupMiss
	}
	if e.fresh(now) {
		return e, lookupFresh
	}
	if e.expiredPastGrace(now, c.cfg.StaleGrace) {
		c.lru.Remove(key)
		c.recordStat(func(s *Stats) { s.Evictions++ })
		return nil, lookupMiss
	}
	return e, lookupStale
}

func (c *TTLCache) recordStat(mutate func(*Stats)) {
	c.statsMu.Lock()
	mutate(&c.stats)
	c.statsMu.Unlock()
}

// Stats returns a snapshot of accumulated counters.
func (c *TTLCache) Stats() Stats {
	c.statsMu.Lock()
	defer c.statsMu.Unlock()
	return c.stats
}

func (c *TTLCache) logEvent(outcome string, category Category, key string) {
	if c.log != nil {
		c.log.CacheEvent(outcome, string(category), key)
	}
	if c.mtx != nil {
		switch outcome {
		case "hit":
			c.mtx.Increment("cache_hit")
		case "miss":
			c.mtx.Increment("cache_miss")
		case "stale_hit":
			c.mtx.Increment("cache_stale_hit")
		case "eviction":
			c.mtx.Increment("cache_eviction")
		case "dedup":
			c.mtx.Increment("cache_dedup")
		}
	}
}

// GetOrFetch implements the getOrFetch contract: fresh hit returns
// immediately; an in-flight fetch for key is awaited and its result
// shared; a stale hit under SWR returns immediately and triggers a
// background revalidation; otherwise the fetcher runs and its result is
// cached (or, on failure, stale data is returned if still within grace).
func (c *TTLCache) GetOrFetch(ctx context.Context, key string, category Category, fetch Fetcher) (any, error) {
	now := time.Now()

	e, res := c.lookup(key, now)
	switch res {
	case lookupFresh:
		e.hits++
		c.logEvent("hit", category, key)
		c.recordStat(func(s *Stats) { s.Hits++ })
		return e.value, nil
	case lookupStale:
		if c.cfg.StaleWhileRevalidate {
			e.hits++
			c.logEvent("stale_hit", category, key)
			c.recordStat(func(s *Stats) { s.StaleHits++ })
			c.revalidateInBackground(key, category, fetch)
			return e.value, nil
		}
	}

	c.logEvent("miss", category, key)
	c.recordStat(func(s *Stats) { s.Misses++ })

	value, err := c.joinOrFetch(ctx, key, category, fetch)
	if err != nil {
		if e != nil {
			// Stale value still available past fresh but within grace.
			return e.value, nil
		}
		return nil, err
	}
	return value, nil
}

// joinOrFetch coalesces concurrent fetch attempts for key onto one
// in-flight call.
func (c *TTLCache) joinOrFetch(ctx context.Context, key string, category Category, fetch Fetcher) (any, error) {
	c.mu.Lock()
	if inf, ok := c.inflight[key]; ok {
		c.mu.Unlock()
		c.logEvent("dedup", category, key)
		c.recordStat(func(s *Stats) { s.Deduplicated++ })
		<-inf.done
		return inf.value, inf.err
	}

	inf := &inflight{done: make(chan struct{})}
	c.inflight[key] = inf
	c.recordStat(func(s *Stats) { s.InFlight++ })
	c.mu.Unlock()

	value, err := fetch(ctx)

	c.mu.Lock()
	delete(c.inflight, key)
	c.mu.Unlock()
	c.recordStat(func(s *Stats) { s.InFlight-- })

	inf.value, inf.err = value, err
	close(inf.done)

	if err == nil {
		c.set(key, category, value, time.Now())
	}
	return value, err
}

// revalidateInBackground spawns a fetch if one is not already in flight
// for key, swallowing any error — a background revalidation must never
// surface through a caller's fresh-hit path.
func (c *TTLCache) revalidateInBackground(key string, category Category, fetch Fetcher) {
	c.mu.Lock()
	if _, ok := c.inflight[key]; ok {
		c.mu.Unlock()
		return
	}
	inf := &inflight{done: make(chan struct{})}
	c.inflight[key] = inf
	c.recordStat(func(s *Stats) { s.InFlight++ })
	c.mu.Unlock()

	go func() {
		value, err := fetch(context.Background())

		c.mu.Lock()
		delete(c.inflight, key)
		c.mu.Unlock()
		c.recordStat(func(s *Stats) { s.InFlight-- })

		inf.value, inf.err = value, err
		close(inf.done)

		if err == nil {
			c.set(key, category, value, time.Now())
		}
	}()
}

// Run starts the background cleanup task, walking from the LRU tail and
// evicting entries past full expiry (expiresAt + staleGrace), until ctx
// is cancelled or Stop is called.
func (c *TTLCache) Run(ctx context.Context) {
	interval := c.cfg.CleanupInterval
	if interval <= 0 {
		interval = 60 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-c.stopCh:
			return
		case <-ticker.C:
			c.cleanupPass()
		}
	}
}

// Stop halts a running cleanup loop started by Run in a goroutine without
// a cancellable context.
func (c *TTLCache) Stop() {
	c.stopOnce.Do(func() { close(c.stopCh) })
}

// cleanupPass walks every key from oldest to newest (Keys() returns in
// that order) and evicts entries past expiresAt+staleGrace.
func (c *TTLCache) cleanupPass() {
	now := time.Now()
	for _, key := range c.lru.Keys() {
		e, ok := c.lru.Peek(key)
		if !ok {
			continue
		}
		if e.expiredPastGrace(now, c.cfg.StaleGrace) {
			c.lru.Remove(key)
			c.logEvent("eviction", e.category, key)
			c.recordStat(func(s *Stats) { s.Evictions++ })
		}
	}
}

// Len returns the number of entries currently stored, including stale ones.
func (c *TTLCache) Len() int {
	return c.lru.Len()
}

// Purge removes every entry.
func (c *TTLCache) Purge() {
	c.lru.Purge()
}
