package ratelimit

import (
	"net/http"
	"strings"
	"time"
)

// EndpointConfig is the limit for one route
type EndpointConfig struct {
	Path   string        // exact path, or a prefix when it ends with "/"
	Method string        // HTTP method
	Limit  int           // requests per window; 0 means unlimited
	Window time.Duration // refill window
	Burst  int           // bucket size, Limit when 0
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	// IdleTTL is how long an unused bucket survives cleanup
	IdleTTL         time.Duration
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// DefaultConfig returns an enabled limiter config with the default endpoint tiers
func DefaultConfig() *Config {
	return &Config{
		Enabled:         true,
		DefaultLimit:    1000,
		DefaultWindow:   time.Minute,
		CleanupInterval: 5 * time.Minute,
		IdleTTL:         time.Hour,
		Whitelist:       map[string]bool{},
		Blacklist:       map[string]bool{},
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// NewConfig builds a Config from flat settings, filling the endpoint tiers
func NewConfig(enabled bool, limit int, window, cleanup time.Duration, whitelist, blacklist []string) *Config {
	cfg := DefaultConfig()
	cfg.Enabled = enabled
	if limit > 0 {
		cfg.DefaultLimit = limit
	}
	if window > 0 {
		cfg.DefaultWindow = window
	}
	if cleanup > 0 {
		cfg.CleanupInterval = cleanup
	}
	cfg.Whitelist = ipSet(whitelist)
	cfg.Blacklist = ipSet(blacklist)
	return cfg
}

// DefaultEndpointConfigs returns the default endpoint-specific configurations.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// LLM-backed operations
		{Path: "/generate-jd", Method: http.MethodPost, Limit: 20, Window: time.Hour, Burst: 3},
		{Path: "/api/documents/", Method: http.MethodPost, Limit: 30, Window: time.Hour, Burst: 5},
		{Path: "/api/interview/start", Method: http.MethodPost, Limit: 60, Window: time.Hour, Burst: 10},
		{Path: "/api/interview/answer", Method: http.MethodPost, Limit: 600, Window: time.Hour, Burst: 30},

		// CPU-bound scoring of uploads
		{Path: "/rank", Method: http.MethodPost, Limit: 60, Window: time.Hour, Burst: 10},

		// everything else falls back to the default limit; /health is unlimited
	}
}

func ipSet(ips []string) map[string]bool {
	set := make(map[string]bool, len(ips))
	for _, entry := range ips {
		// viper may hand over "a,b" as a single element
		for _, ip := range strings.Split(entry, ",") {
			if ip = strings.TrimSpace(ip); ip != "" {
				set[ip] = true
			}
		}
	}
	return set
}
