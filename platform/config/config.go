// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// CacheConfig provides settings for the durable geocode cache store.
type CacheConfig interface {
	GetRedisURL() string
	GetGeocodeCacheKey() string
	IsRedisEnabled() bool
}

// GeocodeConfig provides settings for the geocoding oracle client.
type GeocodeConfig interface {
	GetGeocodeEndpoint() string
	GetGeocodeUserAgent() string
	GetGeocodeInterval() time.Duration
}

// PortfolioSourceConfig provides settings for the upstream building source.
type PortfolioSourceConfig interface {
	GetPortfolioAPIURL() string
}

// SchemaConfig provides settings for the property schema source.
type SchemaConfig interface {
	GetSchemaAPIURL() string
	GetSchemaClassURI() string
	GetAccessRightsClassURI() string
	IsSchemaEnabled() bool
}

// FilterConfig provides fallback bounds for the construction year filter.
type FilterConfig interface {
	GetFallbackMinYear() int
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                  string
	HTTPAddr             string
	CORSAllowAll         bool
	CORSOrigins          []string
	CORSAllowCreds       bool
	RedisURL             string
	GeocodeCacheKey      string
	GeocodeEndpoint      string
	GeocodeUserAgent     string
	GeocodeInterval      time.Duration
	PortfolioAPIURL      string
	SchemaAPIURL         string
	SchemaClassURI       string
	AccessRightsClassURI string
	FallbackMinYear      int
}

// =============================================================================
// Interface Implementations
// =============================================================================

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }

// CacheConfig implementation
func (c *Config) GetRedisURL() string        { return c.RedisURL }
func (c *Config) GetGeocodeCacheKey() string { return c.GeocodeCacheKey }
func (c *Config) IsRedisEnabled() bool       { return c.RedisURL != "" }

// GeocodeConfig implementation
func (c *Config) GetGeocodeEndpoint() string        { return c.GeocodeEndpoint }
func (c *Config) GetGeocodeUserAgent() string       { return c.GeocodeUserAgent }
func (c *Config) GetGeocodeInterval() time.Duration { return c.GeocodeInterval }

// PortfolioSourceConfig implementation
func (c *Config) GetPortfolioAPIURL() string { return c.PortfolioAPIURL }

// SchemaConfig implementation
func (c *Config) GetSchemaAPIURL() string         { return c.SchemaAPIURL }
func (c *Config) GetSchemaClassURI() string       { return c.SchemaClassURI }
func (c *Config) GetAccessRightsClassURI() string { return c.AccessRightsClassURI }
func (c *Config) IsSchemaEnabled() bool           { return c.SchemaAPIURL != "" }

// FilterConfig implementation
func (c *Config) GetFallbackMinYear() int { return c.FallbackMinYear }

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:3000"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:                  getEnv("APP_ENV", "development"),
		HTTPAddr:             getEnv("HTTP_ADDR", ":8080"),
		CORSAllowAll:         corsAllowAll,
		CORSOrigins:          corsOrigins,
		CORSAllowCreds:       strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "true"), "true"),
		RedisURL:             getEnv("REDIS_URL", ""),
		GeocodeCacheKey:      getEnv("GEOCODE_CACHE_KEY", "cityCoordsCache"),
		GeocodeEndpoint:      getEnv("GEOCODE_ENDPOINT", "https://nominatim.openstreetmap.org/search"),
		GeocodeUserAgent:     getEnv("GEOCODE_USER_AGENT", "PortfolioBIM/1.0"),
		GeocodeInterval:      mustDuration(getEnv("GEOCODE_INTERVAL", "1s")),
		PortfolioAPIURL:      getEnv("PORTFOLIO_API_URL", "http://localhost:1111"),
		SchemaAPIURL:         getEnv("SCHEMA_API_URL", ""),
		SchemaClassURI:       getEnv("SCHEMA_CLASS_URI", "https://ibpdi.datacat.org/class/dfdb1a51-bd25-11eb-81e7-9735ef069f63"),
		AccessRightsClassURI: getEnv("ACCESS_RIGHTS_CLASS_URI", "https://ibpdi.datacat.org/class/Building"),
		FallbackMinYear:      mustInt(getEnv("FALLBACK_MIN_YEAR", "1900")),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.PortfolioAPIURL == "" {
		return fmt.Errorf("PORTFOLIO_API_URL must not be empty")
	}
	if c.GeocodeEndpoint == "" {
		return fmt.Errorf("GEOCODE_ENDPOINT must not be empty")
	}
	if c.GeocodeInterval <= 0 {
		return fmt.Errorf("GEOCODE_INTERVAL must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func splitCSV(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func containsWildcard(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}

func mustDuration(raw string) time.Duration {
	d, err := time.ParseDuration(raw)
	if err != nil {
		return time.Second
	}
	return d
}

func mustInt(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 1900
	}
	return n
}
