package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/kzhou/cryptobubbles/internal/api"
	"github.com/kzhou/cryptobubbles/internal/config"
	"github.com/kzhou/cryptobubbles/internal/database"
	"github.com/kzhou/cryptobubbles/internal/favorites"
	"github.com/kzhou/cryptobubbles/internal/market"
	"github.com/kzhou/cryptobubbles/internal/model"
	"github.com/kzhou/cryptobubbles/internal/server"
	"github.com/kzhou/cryptobubbles/internal/stream"
	"github.com/kzhou/cryptobubbles/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/server.yaml", "path to config file")
	flag.Parse()

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	logger.Info("starting server",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	// .env values feed the ${VAR} expansions in the config file.
	if err := godotenv.Load(); err == nil {
		logger.Debug("loaded .env file")
	}

	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("configuration loaded",
		"port", cfg.Server.Port,
		"rest_url", cfg.Market.RestURL,
		"ttl", cfg.Market.TTL,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Upstream market client and cache
	apiClient := api.NewClient(
		cfg.Market.RestURL,
		cfg.Market.APIKey,
		api.WithLogger(logger),
		api.WithTimeout(cfg.Market.Timeout),
		api.WithRetries(cfg.Market.MaxRetries, time.Second),
	)
	source := market.SourceFunc(func(ctx context.Context) ([]model.Coin, error) {
		return apiClient.GetCoins(ctx, api.GetCoinMarketsOptions{
			VsCurrency: cfg.Market.VsCurrency,
			PerPage:    cfg.Market.PerPage,
		})
	})
	cache := market.NewCache(market.Config{TTL: cfg.Market.TTL}, source, logger)

	// Favorites backends, most durable first, memory always last.
	var backends []favorites.Service

	if cfg.Favorites.Redis.Enabled() {
		rdb, err := favorites.NewRedis(ctx, cfg.Favorites.Redis)
		if err != nil {
			logger.Warn("redis backend unavailable", "addr", cfg.Favorites.Redis.Addr, "error", err)
		} else {
			defer rdb.Close()
			backends = append(backends, rdb)
			logger.Info("redis backend connected", "addr", cfg.Favorites.Redis.Addr)
		}
	}

	if cfg.Favorites.Postgres.Enabled() {
		pool, err := database.Connect(ctx, cfg.Favorites.Postgres)
		if err != nil {
			logger.Warn("postgres backend unavailable", "host", cfg.Favorites.Postgres.Host, "error", err)
		} else {
			defer pool.Close()
			backends = append(backends, favorites.NewPostgres(pool))
			logger.Info("postgres backend connected", "host", cfg.Favorites.Postgres.Host)
		}
	}

	backends = append(backends, favorites.NewMemory())
	chain := favorites.NewChain(logger, backends...)

	// Websocket hub fed by the background refresher
	hub := stream.NewHub(logger)
	defer hub.Close()

	var refresher *market.Refresher
	if cfg.Market.RefreshInterval > 0 {
		refresher = market.NewRefresher(
			market.RefresherConfig{Interval: cfg.Market.RefreshInterval},
			cache, hub, logger,
		)
		if err := refresher.Start(ctx); err != nil {
			logger.Error("failed to start refresher", "error", err)
			os.Exit(1)
		}
	}

	srv := server.New(cfg.Server, cfg.Layout, cache, chain, hub, logger)
	if err := srv.Start(); err != nil {
		logger.Error("failed to start http server", "error", err)
		os.Exit(1)
	}

	logger.Info("server running", "port", cfg.Server.Port)
	<-ctx.Done()

	logger.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if refresher != nil {
		if err := refresher.Stop(shutdownCtx); err != nil {
			logger.Warn("refresher shutdown", "error", err)
		}
	}
	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Warn("http server shutdown", "error", err)
	}

	logger.Info("shutdown complete")
}
