// Package config builds runtime configuration from the environment so main
// stays lean. A local .env file is honored when present.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	stringsutil "gatekeeper/pkg/platform/strings"
)

// Config captures everything the server needs to start.
type Config struct {
	Server   Server
	Database Database
	Redis    Redis
	Kafka    Kafka
	Photos   Photos
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr string
	// JWTSigningKey signs staff session tokens issued by /admin/login.
	JWTSigningKey string
	// AdminPasswordHash is the bcrypt hash the login endpoint verifies
	// against. Empty disables the staff endpoints entirely.
	AdminPasswordHash string
}

// Database configures the PostgreSQL connection. An empty URL selects the
// in-memory stores, which is the default for local development.
type Database struct {
	URL string
}

// Redis configures the dashboard cache client. Empty URL disables caching.
type Redis struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Kafka configures the gate entry event sink. No brokers means events stay
// in-process only.
type Kafka struct {
	Brokers []string
	Topic   string
}

// Photos configures submission storage on local disk.
type Photos struct {
	Dir string
}

// DashboardCacheTTL bounds staleness of the hourly photo dashboard.
const DashboardCacheTTL = 30 * time.Second

// FromEnv builds a Config from environment variables, loading .env first on
// a best-effort basis.
func FromEnv() Config {
	_ = godotenv.Load()

	return Config{
		Server: Server{
			Addr:              envOr("GATEKEEPER_ADDR", ":8080"),
			JWTSigningKey:     envOr("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
			AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
		},
		Database: Database{
			URL: os.Getenv("DATABASE_URL"),
		},
		Redis: Redis{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envIntOr("REDIS_POOL_SIZE", 10),
			MinIdleConns: envIntOr("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Kafka: Kafka{
			Brokers: splitNonEmpty(os.Getenv("KAFKA_BROKERS")),
			Topic:   envOr("KAFKA_ENTRY_TOPIC", "gatekeeper.gate-entries"),
		},
		Photos: Photos{
			Dir: envOr("PHOTO_DIR", "static/submissions"),
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func splitNonEmpty(raw string) []string {
	if raw == "" {
		return nil
	}
	return stringsutil.DedupeAndTrim(strings.Split(raw, ","))
}
