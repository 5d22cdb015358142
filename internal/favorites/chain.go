package favorites

import (
	"context"
	"log/slog"

	"github.com/kzhou/cryptobubbles/internal/model"
)

// Chain tries each backend in order and falls through to the next when one
// fails. Order is decided once at startup; a failing backend is retried on
// every call rather than demoted.
type Chain struct {
	backends []Service
	logger   *slog.Logger
}

// NewChain builds a fallthrough chain over the given backends. At least one
// backend should be supplied; a Chain with none fails every operation with
// ErrRemoteUnavailable.
func NewChain(logger *slog.Logger, backends ...Service) *Chain {
	if logger == nil {
		logger = slog.Default()
	}
	return &Chain{backends: backends, logger: logger}
}

func (c *Chain) Name() string { return "chain" }

func (c *Chain) List(ctx context.Context) ([]model.Favorite, error) {
	for _, b := range c.backends {
		favs, err := b.List(ctx)
		if err != nil {
			c.logger.Warn("favorites backend list failed",
				"backend", b.Name(), "error", err)
			continue
		}
		return favs, nil
	}
	return nil, ErrRemoteUnavailable
}

func (c *Chain) Upsert(ctx context.Context, fav model.Favorite) error {
	for _, b := range c.backends {
		if err := b.Upsert(ctx, fav); err != nil {
			c.logger.Warn("favorites backend upsert failed",
				"backend", b.Name(), "symbol", fav.Symbol, "error", err)
			continue
		}
		return nil
	}
	return ErrRemoteUnavailable
}

func (c *Chain) Delete(ctx context.Context, symbol string) error {
	for _, b := range c.backends {
		if err := b.Delete(ctx, symbol); err != nil {
			c.logger.Warn("favorites backend delete failed",
				"backend", b.Name(), "symbol", symbol, "error", err)
			continue
		}
		return nil
	}
	return ErrRemoteUnavailable
}
