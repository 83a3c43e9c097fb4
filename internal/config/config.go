// Package config loads service configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds every runtime setting for the server.
type Config struct {
	// Server
	Port string

	// Mongo
	MongoURI string
	MongoDB  string

	// Tokens
	AccessTokenSecret string
	TokenTTL          time.Duration

	// Access policy. Defaults reproduce the historical behavior; both
	// switches exist so the gaps are a named decision, not an accident.
	//
	// PublicUserListing controls whether GET /saveUser exposes the full
	// user list without authentication.
	PublicUserListing bool
	// EnforceBookingOwnership, when set, overrides the email on a new
	// booking with the caller's verified identity.
	EnforceBookingOwnership bool

	// Monitoring
	EnableMetrics bool
}

// Load reads configuration from the environment, falling back to
// local-development defaults.
func Load() *Config {
	return &Config{
		Port: getEnv("PORT", "5000"),

		MongoURI: getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:  getEnv("MONGO_DB", "tixify"),

		AccessTokenSecret: getEnv("ACCESS_TOKEN_SECRET", ""),
		TokenTTL:          getEnvAsDuration("TOKEN_TTL", "24h"),

		PublicUserListing:       getEnvAsBool("PUBLIC_USER_LISTING", true),
		EnforceBookingOwnership: getEnvAsBool("ENFORCE_BOOKING_OWNERSHIP", false),

		EnableMetrics: getEnvAsBool("ENABLE_METRICS", true),
	}
}

// Validate reports settings the server cannot start without.
func (c *Config) Validate() error {
	if c.AccessTokenSecret == "" {
		return fmt.Errorf("ACCESS_TOKEN_SECRET is required")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive, got %s", c.TokenTTL)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key, defaultValue string) time.Duration {
	if d, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return d
	}
	d, _ := time.ParseDuration(defaultValue)
	return d
}
