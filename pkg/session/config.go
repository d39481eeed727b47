package session

import (
	"strings"
	"time"

	"github.com/Alijeyrad/founders_backend/config"
)

// Config holds session cookie and storage settings
type Config struct {
	CookieName     string
	TTL            time.Duration
	CookieSecure   bool
	CookieSameSite string
	KeyPrefix      string
}

// DefaultConfig returns sensible defaults for session configuration
func DefaultConfig() Config {
	return Config{
		CookieName:     "fm_session",
		TTL:            24 * time.Hour,
		CookieSameSite: "Lax",
		KeyPrefix:      "session:",
	}
}

// FromCentralConfig converts central config.SessionConfig to package Config
func FromCentralConfig(c config.SessionConfig) Config {
	cfg := DefaultConfig()
	if c.CookieName != "" {
		cfg.CookieName = c.CookieName
	}
	if c.TTLMinutes > 0 {
		cfg.TTL = time.Duration(c.TTLMinutes) * time.Minute
	}
	if c.CookieSameSite != "" {
		cfg.CookieSameSite = c.CookieSameSite
	}
	if c.KeyPrefix != "" {
		cfg.KeyPrefix = c.KeyPrefix
	}
	cfg.CookieSecure = c.CookieSecure
	return cfg
}

// SameSite normalises the configured value to one fiber accepts.
func (c Config) SameSite() string {
	switch strings.ToLower(c.CookieSameSite) {
	case "strict":
		return "Strict"
	case "none":
		return "None"
	default:
		return "Lax"
	}
}
