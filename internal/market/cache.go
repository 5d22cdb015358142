package market

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/kzhou/cryptobubbles/internal/model"
)

// ErrFetchFailed reports that the upstream feed was unavailable and no
// previous snapshot exists to fall back on.
var ErrFetchFailed = errors.New("market: fetch failed")

// Source fetches a fresh coin list from the upstream feed.
type Source interface {
	Fetch(ctx context.Context) ([]model.Coin, error)
}

// SourceFunc is a function adapter for Source.
type SourceFunc func(ctx context.Context) ([]model.Coin, error)

func (f SourceFunc) Fetch(ctx context.Context) ([]model.Coin, error) {
	return f(ctx)
}

// Config holds cache configuration.
type Config struct {
	TTL time.Duration // Freshness window (default: 60s)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{TTL: 60 * time.Second}
}

// Snapshot is the result of a cache read.
type Snapshot struct {
	Coins     []model.Coin
	FetchedAt time.Time
	Stale     bool // Set when the latest refresh failed and this is old data
}

// entry is the cached last-known-good fetch.
type entry struct {
	coins     []model.Coin
	fetchedAt time.Time
}

// Cache is a short-TTL cache over Source. Safe for concurrent use.
type Cache struct {
	cfg    Config
	source Source
	logger *slog.Logger

	mu    sync.RWMutex
	entry *entry

	group singleflight.Group
}

// NewCache creates a new market cache.
func NewCache(cfg Config, source Source, logger *slog.Logger) *Cache {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultConfig().TTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{
		cfg:    cfg,
		source: source,
		logger: logger,
	}
}

// Get returns the coin list. A fresh cached snapshot is served without
// touching the network unless force is set. When a refresh fails and a
// previous snapshot exists, that snapshot is returned with Stale set instead
// of an error; only a failure with nothing cached returns ErrFetchFailed.
func (c *Cache) Get(ctx context.Context, force bool) (Snapshot, error) {
	if !force {
		if snap, ok := c.fresh(); ok {
			return snap, nil
		}
	}

	// Coalesce concurrent refreshes: callers arriving during an in-flight
	// refresh wait for its result instead of issuing a duplicate fetch.
	v, err, _ := c.group.Do("refresh", func() (any, error) {
		return c.refresh(ctx)
	})
	if err != nil {
		c.mu.RLock()
		e := c.entry
		c.mu.RUnlock()

		if e != nil {
			c.logger.Warn("refresh failed, serving stale snapshot",
				"age", time.Since(e.fetchedAt),
				"err", err,
			)
			return Snapshot{Coins: e.coins, FetchedAt: e.fetchedAt, Stale: true}, nil
		}
		return Snapshot{}, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	return v.(Snapshot), nil
}

// Current returns the cached snapshot without refreshing, if any. Stale is
// set when the snapshot has outlived the TTL.
func (c *Cache) Current() (Snapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.entry == nil {
		return Snapshot{}, false
	}
	return Snapshot{
		Coins:     c.entry.coins,
		FetchedAt: c.entry.fetchedAt,
		Stale:     time.Since(c.entry.fetchedAt) >= c.cfg.TTL,
	}, true
}

// fresh returns the cached snapshot if it is within the TTL.
func (c *Cache) fresh() (Snapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.entry == nil || time.Since(c.entry.fetchedAt) >= c.cfg.TTL {
		return Snapshot{}, false
	}
	return Snapshot{Coins: c.entry.coins, FetchedAt: c.entry.fetchedAt}, true
}

// refresh fetches from the source and stores the result. The fetch start
// time stamps the entry; an older refresh completing after a newer one never
// replaces the newer data.
func (c *Cache) refresh(ctx context.Context) (Snapshot, error) {
	start := time.Now()

	coins, err := c.source.Fetch(ctx)
	if err != nil {
		return Snapshot{}, err
	}

	c.mu.Lock()
	if c.entry == nil || start.After(c.entry.fetchedAt) {
		c.entry = &entry{coins: coins, fetchedAt: start}
	}
	snap := Snapshot{Coins: c.entry.coins, FetchedAt: c.entry.fetchedAt}
	c.mu.Unlock()

	c.logger.Debug("market snapshot refreshed",
		"coins", len(coins),
		"duration", time.Since(start),
	)

	return snap, nil
}
