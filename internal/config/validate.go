package config

import (
	"errors"
	"fmt"
)

// Validate checks that all required fields are set and values are valid.
func (c *ServiceConfig) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}

	if c.Market.RestURL == "" {
		return errors.New("market.rest_url is required")
	}
	if c.Market.PerPage < 1 || c.Market.PerPage > 250 {
		return fmt.Errorf("market.per_page must be between 1 and 250, got %d", c.Market.PerPage)
	}
	if c.Market.TTL <= 0 {
		return errors.New("market.ttl must be positive")
	}
	if c.Market.RefreshInterval < 0 {
		return errors.New("market.refresh_interval cannot be negative")
	}

	if c.Favorites.LocalPath == "" {
		return errors.New("favorites.local_path is required")
	}
	if c.Favorites.Postgres.Enabled() {
		if err := c.Favorites.Postgres.validate("favorites.postgres"); err != nil {
			return err
		}
	}

	if c.Layout.Width <= 0 {
		return errors.New("layout.width must be positive")
	}
	if c.Layout.Height <= 0 {
		return errors.New("layout.height must be positive")
	}
	if c.Layout.Padding < 0 {
		return errors.New("layout.padding cannot be negative")
	}

	return nil
}

func (db *DBConfig) validate(prefix string) error {
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, db.MinConns, db.MaxConns)
	}
	return nil
}
