package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Endpoint path pattern (supports prefix matching)
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// LoadConfig builds the limiter configuration. perMinute is the default per-client
// limit; zero or less disables limiting. RATE_LIMIT_* environment variables refine it.
func LoadConfig(perMinute int) *Config {
	enabled := getEnvBool("RATE_LIMIT_ENABLED", perMinute > 0)
	if !enabled || perMinute <= 0 {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    perMinute,
		DefaultWindow:   getEnvDuration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: getEnvDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		Whitelist:       parseIPList(getEnvString("RATE_LIMIT_WHITELIST", "")),
		Blacklist:       parseIPList(getEnvString("RATE_LIMIT_BLACKLIST", "")),
		EndpointConfigs: DefaultEndpointConfigs(perMinute),
	}
}

// DefaultEndpointConfigs returns the endpoint-specific limits derived from the default per-minute limit.
func DefaultEndpointConfigs(perMinute int) []EndpointConfig {
	bulk := max(perMinute/6, 1)
	return []EndpointConfig{
		// Bulk scoring fans out over many resumes
		{Path: "/bulk-analyze", Method: "POST", Limit: bulk, Window: time.Minute, Burst: max(bulk/5, 1)},

		// Single analyses and writes
		{Path: "/analyze-resume-job", Method: "POST", Limit: perMinute, Window: time.Minute, Burst: max(perMinute/6, 1)},
		{Path: "/match", Method: "POST", Limit: perMinute, Window: time.Minute, Burst: max(perMinute/6, 1)},
		{Path: "/jobs", Method: "POST", Limit: perMinute, Window: time.Minute, Burst: max(perMinute/6, 1)},
		{Path: "/resumes", Method: "POST", Limit: perMinute, Window: time.Minute, Burst: max(perMinute/6, 1)},
		{Path: "/resumes/", Method: "POST", Limit: perMinute, Window: time.Minute, Burst: max(perMinute/6, 1)},

		// Reads use the default limit; /health and /metrics are unlimited in MatchEndpoint
	}
}

// getEnvString gets an environment variable as a string with a default value.
func getEnvString(key string, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets an environment variable as a boolean with a default value.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvDuration gets an environment variable as a duration with a default value.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// parseIPList parses a comma-separated list of IP addresses into a set.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
