package ratelimit

import (
	"net/http"
	"time"

	"github.com/jonathan/ai-jobs-tracker/internal/config"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // exact path, or a prefix when it ends with "/"
	Method string        // HTTP method
	Limit  int           // requests per Window
	Window time.Duration // refill window
	Burst  int           // bucket size; Limit when 0
}

// LoadConfig reads RATE_LIMIT_* variables.
func LoadConfig() *Config {
	if !config.GetEnvBool("RATE_LIMIT_ENABLED", true) {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    config.GetEnvInt("RATE_LIMIT_DEFAULT_LIMIT", 1000),
		DefaultWindow:   config.GetEnvDuration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: config.GetEnvDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		Whitelist:       toSet(config.GetEnvList("RATE_LIMIT_WHITELIST")),
		Blacklist:       toSet(config.GetEnvList("RATE_LIMIT_BLACKLIST")),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns the per-endpoint limits. Reads fall back to the default
// limit; GET /health is never limited.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// Scrapes hit third-party career sites.
		{Path: "/companies/", Method: http.MethodPost, Limit: 10, Window: time.Hour, Burst: 2},

		// Credential endpoints.
		{Path: "/auth/register", Method: http.MethodPost, Limit: 5, Window: time.Minute, Burst: 2},
		{Path: "/auth/login", Method: http.MethodPost, Limit: 10, Window: time.Minute, Burst: 5},
		{Path: "/auth/password", Method: http.MethodPut, Limit: 5, Window: time.Minute, Burst: 2},

		// Writes.
		{Path: "/companies/", Method: http.MethodDelete, Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/bookmarks", Method: http.MethodPost, Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/bookmarks/", Method: http.MethodDelete, Limit: 100, Window: time.Minute, Burst: 10},
	}
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[item] = true
	}
	return set
}
