// Package config loads application configuration from environment
// variables.
package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration values.  Each field
// corresponds to an environment variable.  The types reflect how the
// values are used: strings for identifiers, URLs and secrets,
// durations for timeouts and retention windows.
type Config struct {
	Env  string // application environment (e.g. "dev", "prod")
	Port string // HTTP port to listen on

	DBUser string // database username
	DBPass string // database password (optional)
	DBHost string // database host address
	DBPort string // database port number
	DBName string // database name

	JWTSecret string // secret used to verify access tokens issued by the auth service

	LockServiceURL    string // base URL of the external seat-lock service
	BookingServiceURL string // base URL of the booking backend

	SessionIdle    time.Duration // idle time before a session is swept and its holds released
	SweepInterval  time.Duration // how often the idle sweeper runs
	DraftRetention time.Duration // how long handoff drafts without a live TTL stay retrievable

	RateCapacity int           // token-bucket capacity for the submit endpoint
	RateRefill   time.Duration // refill interval (one token per interval)
	RateTTL      time.Duration // lifetime of idle rate-limit buckets in Redis
}

// Load reads configuration values from environment variables and
// returns a Config.  Required variables are enforced by must() and
// missing values cause the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:               must("APP_ENV"),
		Port:              must("APP_PORT"),
		DBUser:            must("DB_USER"),
		DBPass:            os.Getenv("DB_PASS"), // empty allowed
		DBHost:            must("DB_HOST"),
		DBPort:            must("DB_PORT"),
		DBName:            must("DB_NAME"),
		JWTSecret:         must("JWT_SECRET"),
		LockServiceURL:    must("LOCK_SERVICE_URL"),
		BookingServiceURL: must("BOOKING_SERVICE_URL"),
		SessionIdle:       parseDur(getenv("SESSION_IDLE", "20m")),
		SweepInterval:     parseDur(getenv("SESSION_SWEEP_INTERVAL", "1m")),
		DraftRetention:    parseDur(getenv("DRAFT_RETENTION", "30m")),
		RateCapacity:      atoi(getenv("SUBMIT_RATE_CAPACITY", "10")),
		RateRefill:        parseDur(getenv("SUBMIT_RATE_REFILL", "3s")),
		RateTTL:           parseDur(getenv("SUBMIT_RATE_TTL", "10m")),
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and
// exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// getenv returns the variable's value or a default when unset.
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// atoi converts loosely; invalid input yields zero, callers supply
// sane defaults.
func atoi(s string) int {
	i, _ := strconv.Atoi(s)
	return i
}

// parseDur parses a Go duration string, falling back to one second on
// invalid input.
func parseDur(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return time.Second
	}
	return d
}
