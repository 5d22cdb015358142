package database

import (
	"fmt"
	"net/url"

	"github.com/kzhou/cryptobubbles/internal/config"
)

// BuildConnString renders the favorites database config as a postgres:// URL
// for pgxpool. Credentials are URL-escaped; sslmode falls back to "prefer"
// when the config skipped the defaults pass.
func BuildConnString(cfg config.DBConfig) string {
	u := url.URL{
		Scheme: "postgres",
		Host:   fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Path:   "/" + cfg.Name,
	}

	if cfg.User != "" {
		if cfg.Password != "" {
			u.User = url.UserPassword(cfg.User, cfg.Password)
		} else {
			u.User = url.User(cfg.User)
		}
	}

	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "prefer"
	}
	u.RawQuery = url.Values{"sslmode": []string{sslMode}}.Encode()

	return u.String()
}
