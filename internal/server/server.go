package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/kzhou/cryptobubbles/internal/config"
	"github.com/kzhou/cryptobubbles/internal/favorites"
	"github.com/kzhou/cryptobubbles/internal/market"
)

// Server wires the HTTP API over the market cache and the favorites chain.
type Server struct {
	cfg    config.ServerConfig
	layout config.LayoutConfig
	logger *slog.Logger

	cache *market.Cache
	favs  favorites.Service
	ws    http.Handler

	httpServer *http.Server
}

// New builds a server. ws may be nil, in which case /ws returns 404.
func New(cfg config.ServerConfig, layoutCfg config.LayoutConfig, cache *market.Cache, favs favorites.Service, ws http.Handler, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		cfg:    cfg,
		layout: layoutCfg,
		logger: logger,
		cache:  cache,
		favs:   favs,
		ws:     ws,
	}
}

// Router builds the route tree. Exposed separately so tests can drive
// handlers through httptest without binding a port.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	allowed := s.cfg.AllowOrigins
	if len(allowed) == 0 {
		allowed = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowed,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/market", s.handleMarket)
		r.Get("/layout", s.handleLayout)
		r.Get("/favorites", s.handleFavoritesList)
		r.Post("/favorites", s.handleFavoritesAdd)
		r.Delete("/favorites", s.handleFavoritesDelete)
	})
	if s.ws != nil {
		r.Get("/ws", s.ws.ServeHTTP)
	}

	return r
}

// Start begins serving in the background. It returns once the listener is
// running or fails to bind.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("starting http server: %w", err)
		}
		return nil
	case <-time.After(100 * time.Millisecond):
		s.logger.Info("http server listening", "port", s.cfg.Port)
		return nil
	}
}

// Stop shuts the server down gracefully within the context deadline.
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
