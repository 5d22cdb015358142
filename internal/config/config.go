// Package config loads and validates the service configuration from YAML,
// with ${VAR} environment expansion. Optional backends (Redis, Postgres) are
// configured here but selected at runtime by availability.
package config

import "time"

// ServiceConfig is the root configuration for the crypto bubbles service.
type ServiceConfig struct {
	Server    ServerConfig    `yaml:"server"`
	Market    MarketConfig    `yaml:"market"`
	Favorites FavoritesConfig `yaml:"favorites"`
	Layout    LayoutConfig    `yaml:"layout"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         int      `yaml:"port"`
	AllowOrigins []string `yaml:"allow_origins"`
}

// MarketConfig holds upstream feed and cache settings.
type MarketConfig struct {
	RestURL         string        `yaml:"rest_url"`
	APIKey          string        `yaml:"api_key"` // Optional CoinGecko demo key
	VsCurrency      string        `yaml:"vs_currency"`
	PerPage         int           `yaml:"per_page"`
	TTL             time.Duration `yaml:"ttl"`              // Cache freshness window
	RefreshInterval time.Duration `yaml:"refresh_interval"` // Background refresh cadence, 0 disables
	Timeout         time.Duration `yaml:"timeout"`
	MaxRetries      int           `yaml:"max_retries"`
}

// FavoritesConfig holds local storage and remote backend settings.
type FavoritesConfig struct {
	LocalPath string      `yaml:"local_path"` // JSON file for the durable local copy
	Redis     RedisConfig `yaml:"redis"`
	Postgres  DBConfig    `yaml:"postgres"`
}

// RedisConfig holds the key-value backend connection. Addr empty = disabled.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// DBConfig holds the relational backend connection. Host empty = disabled.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// Enabled reports whether the relational backend is configured.
func (db *DBConfig) Enabled() bool {
	return db.Host != ""
}

// Enabled reports whether the key-value backend is configured.
func (r *RedisConfig) Enabled() bool {
	return r.Addr != ""
}

// LayoutConfig holds default canvas settings for server-side packing.
type LayoutConfig struct {
	Width   float64 `yaml:"width"`
	Height  float64 `yaml:"height"`
	Padding float64 `yaml:"padding"`
}
