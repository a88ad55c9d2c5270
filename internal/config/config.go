package config // loads application configuration from environment variables

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration values. Each field maps to
// an environment variable. The booking knobs are service-wide
// defaults; per-restaurant policy (deposit, peak window) read from
// the catalog overrides them where set.
type Config struct {
	Env                   string        // application environment (e.g. "dev", "prod")
	Port                  string        // HTTP port to listen on
	DBUser                string        // database username
	DBPass                string        // database password (optional)
	DBHost                string        // database host address
	DBPort                string        // database port number
	DBName                string        // database name
	JWTSecret             string        // secret used to verify access tokens
	HoldTTL               time.Duration // regular hold time-to-live
	OfferTTL              time.Duration // waitlist-offer hold time-to-live
	SlotInterval          time.Duration // slot granularity
	DepositPerPersonCents uint32        // per-person deposit fallback in cents
	SweepInterval         time.Duration // period of the active expiry sweep
}

// Load reads configuration from environment variables. Required
// variables are enforced by must(); missing values exit the process
// with a fatal log message. Booking knobs all have defaults.
func Load() Config {
	return Config{
		Env:                   must("APP_ENV"),
		Port:                  must("APP_PORT"),
		DBUser:                must("DB_USER"),
		DBPass:                os.Getenv("DB_PASS"),
		DBHost:                must("DB_HOST"),
		DBPort:                must("DB_PORT"),
		DBName:                must("DB_NAME"),
		JWTSecret:             must("JWT_SECRET"),
		HoldTTL:               time.Duration(envInt("HOLD_TTL_MIN", 10)) * time.Minute,
		OfferTTL:              time.Duration(envInt("OFFER_TTL_MIN", 5)) * time.Minute,
		SlotInterval:          time.Duration(envInt("SLOT_INTERVAL_MIN", 30)) * time.Minute,
		DepositPerPersonCents: uint32(envInt("DEPOSIT_PER_PERSON_CENTS", 2500)),
		SweepInterval:         envDur("SWEEP_INTERVAL", 30*time.Second),
	}
}

// must retrieves a required environment variable or exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envBool(k string, d bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "True", "yes", "on":
		return true
	case "0", "false", "FALSE", "False", "no", "off":
		return false
	}
	return d
}

func envInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if dur, err := time.ParseDuration(v); err == nil {
		return dur
	}
	return d
}
