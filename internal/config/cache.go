package config

import (
	"time"
)

// LookupCacheConfig defines settings for the Redis cache placed in front of
// the external movie metadata API.  When Enabled is false or no Redis client
// is configured, every unknown title goes to the API.  Only successful API
// lookups are cached, for TTL, under keys namespaced by Prefix.
type LookupCacheConfig struct {
	Enabled bool
	TTL     time.Duration
	Prefix  string
}

// LoadLookupCacheConfig reads environment variables to build a
// LookupCacheConfig.  Defaults are used when variables are not set.
func LoadLookupCacheConfig() LookupCacheConfig {
	return LookupCacheConfig{
		Enabled: envBool("LOOKUP_CACHE_ENABLED", true),
		TTL:     envDur("LOOKUP_CACHE_TTL", 24*time.Hour),
		Prefix:  envStr("LOOKUP_CACHE_PREFIX", "movies"),
	}
}
