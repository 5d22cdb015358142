package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultRestURL         = "https://api.coingecko.com/api/v3"
	DefaultVsCurrency      = "usd"
	DefaultPerPage         = 100
	DefaultTTL             = 60 * time.Second
	DefaultRefreshInterval = 60 * time.Second
	DefaultAPITimeout      = 30 * time.Second
	DefaultMaxRetries      = 3
	DefaultPort            = 8080
	DefaultLocalPath       = "data/favorites.json"
	DefaultDBPort          = 5432
	DefaultDBSSLMode       = "prefer"
	DefaultMaxConns        = 10
	DefaultMinConns        = 2
	DefaultLayoutWidth     = 800
	DefaultLayoutHeight    = 600
	DefaultLayoutPadding   = 3
)

func (c *ServiceConfig) applyDefaults() {
	// Server defaults
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}

	// Market defaults
	if c.Market.RestURL == "" {
		c.Market.RestURL = DefaultRestURL
	}
	if c.Market.VsCurrency == "" {
		c.Market.VsCurrency = DefaultVsCurrency
	}
	if c.Market.PerPage == 0 {
		c.Market.PerPage = DefaultPerPage
	}
	if c.Market.TTL == 0 {
		c.Market.TTL = DefaultTTL
	}
	if c.Market.RefreshInterval == 0 {
		c.Market.RefreshInterval = DefaultRefreshInterval
	}
	if c.Market.Timeout == 0 {
		c.Market.Timeout = DefaultAPITimeout
	}
	if c.Market.MaxRetries == 0 {
		c.Market.MaxRetries = DefaultMaxRetries
	}

	// Favorites defaults
	if c.Favorites.LocalPath == "" {
		c.Favorites.LocalPath = DefaultLocalPath
	}
	if c.Favorites.Postgres.Enabled() {
		applyDBDefaults(&c.Favorites.Postgres)
	}

	// Layout defaults
	if c.Layout.Width == 0 {
		c.Layout.Width = DefaultLayoutWidth
	}
	if c.Layout.Height == 0 {
		c.Layout.Height = DefaultLayoutHeight
	}
	if c.Layout.Padding == 0 {
		c.Layout.Padding = DefaultLayoutPadding
	}
}

func applyDBDefaults(db *DBConfig) {
	if db.Port == 0 {
		db.Port = DefaultDBPort
	}
	if db.SSLMode == "" {
		db.SSLMode = DefaultDBSSLMode
	}
	if db.MaxConns == 0 {
		db.MaxConns = DefaultMaxConns
	}
	if db.MinConns == 0 {
		db.MinConns = DefaultMinConns
	}
}
