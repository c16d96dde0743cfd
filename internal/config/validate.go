package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if c.Auth.Enabled() && len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}

	if err := validateBaseURL(c.MLService.BaseURL); err != nil {
		return fmt.Errorf("ml_service.base_url: %w", err)
	}
	if c.MLService.TriggerTimeout <= 0 {
		return fmt.Errorf("ml_service.trigger_timeout must be > 0 (got %v)", c.MLService.TriggerTimeout)
	}

	if c.Cache.URL == "" {
		return fmt.Errorf("cache.url is required")
	}
	if !strings.HasPrefix(c.Cache.URL, "redis://") && !strings.HasPrefix(c.Cache.URL, "rediss://") {
		return fmt.Errorf("cache.url must be a redis:// or rediss:// URL (got %q)", c.Cache.URL)
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535 (got %d)", c.Server.Port)
	}

	return nil
}

func validateBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("missing host")
	}
	return nil
}
