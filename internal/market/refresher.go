package market

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// SnapshotHandler receives successfully refreshed snapshots.
type SnapshotHandler interface {
	HandleSnapshot(snap Snapshot)
}

// SnapshotHandlerFunc is a function adapter for SnapshotHandler.
type SnapshotHandlerFunc func(Snapshot)

func (f SnapshotHandlerFunc) HandleSnapshot(s Snapshot) {
	f(s)
}

// RefresherConfig holds background refresh settings.
type RefresherConfig struct {
	Interval time.Duration // Refresh cadence (default: 60s)
}

// DefaultRefresherConfig returns sensible defaults.
func DefaultRefresherConfig() RefresherConfig {
	return RefresherConfig{Interval: 60 * time.Second}
}

// Refresher periodically forces a cache refresh and hands fresh snapshots to
// a handler. Stale results (refresh failed, old data served) are not
// delivered; subscribers only ever see successful fetches.
type Refresher struct {
	cfg     RefresherConfig
	cache   *Cache
	handler SnapshotHandler
	logger  *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewRefresher creates a new Refresher.
func NewRefresher(cfg RefresherConfig, cache *Cache, handler SnapshotHandler, logger *slog.Logger) *Refresher {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultRefresherConfig().Interval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Refresher{
		cfg:     cfg,
		cache:   cache,
		handler: handler,
		logger:  logger,
	}
}

// Start begins the refresh loop.
func (r *Refresher) Start(ctx context.Context) error {
	r.ctx, r.cancel = context.WithCancel(ctx)

	r.wg.Add(1)
	go r.run()

	r.logger.Info("market refresher started", "interval", r.cfg.Interval)
	return nil
}

// Stop gracefully shuts down the refresher.
func (r *Refresher) Stop(ctx context.Context) error {
	if r.cancel != nil {
		r.cancel()
	}

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		r.logger.Info("market refresher stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// run is the main refresh loop.
func (r *Refresher) run() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()

	// Refresh immediately on start.
	r.refreshOnce()

	for {
		select {
		case <-r.ctx.Done():
			return
		case <-ticker.C:
			r.refreshOnce()
		}
	}
}

// refreshOnce forces one refresh and delivers the snapshot if it is fresh.
func (r *Refresher) refreshOnce() {
	snap, err := r.cache.Get(r.ctx, true)
	if err != nil {
		r.logger.Warn("background refresh failed", "err", err)
		return
	}
	if snap.Stale {
		r.logger.Debug("background refresh returned stale data, not delivering")
		return
	}

	if r.handler != nil {
		r.handler.HandleSnapshot(snap)
	}
}
