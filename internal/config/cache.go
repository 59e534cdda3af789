package config

import (
	"strconv"
	"strings"
	"time"
)

// CacheConfig controls the redis response cache applied to read
// endpoints.  Caching is skipped entirely when Enabled is false or no
// redis client could be constructed at startup.
type CacheConfig struct {
	Enabled      bool            // master switch
	Methods      map[string]bool // HTTP methods eligible for caching
	TTL          time.Duration   // entry lifetime
	KeyStrategy  string          // which request parts form the key
	Prefix       string          // key namespace
	MaxBodyBytes int             // responses larger than this are not cached
}

// LoadCacheConfig builds a CacheConfig from environment variables,
// falling back to defaults suited to list/statistics endpoints.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled:      envOr("CACHE_ENABLED", "true") == "true",
		Methods:      parseMethods(envOr("CACHE_METHODS", "GET")),
		TTL:          parseDur(envOr("CACHE_TTL", "30s")),
		KeyStrategy:  envOr("CACHE_KEY_STRATEGY", "route_query"),
		Prefix:       envOr("CACHE_PREFIX", "expo"),
		MaxBodyBytes: atoiOr(envOr("CACHE_MAX_BODY_BYTES", "1048576"), 1<<20),
	}
}

func parseMethods(s string) map[string]bool {
	m := map[string]bool{}
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(strings.ToUpper(p)); p != "" {
			m[p] = true
		}
	}
	return m
}

func parseDur(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

func atoiOr(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
