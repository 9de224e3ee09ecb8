// Package config loads runtime settings from the environment, with an
// optional .env file for local development.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	App struct {
		Port               string
		DefaultCountryCode string
	}
	Postgres struct {
		Host           string
		Port           string
		User           string
		Password       string
		DBName         string
		SSLMode        string
		ConnectTimeout time.Duration
		Required       bool
		MigrationsPath string
	}
	OTP struct {
		TTL         time.Duration
		MaxAttempts int
	}
}

// Load reads the configuration. A missing .env file is fine; the database
// section is optional and an empty DB_HOST means the server runs on the
// in-memory store alone.
func Load(path string) (*Config, error) {
	if path != "" {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config: failed to load %s: %w", path, err)
		}
	}

	cfg := &Config{}
	cfg.App.Port = getEnv("APP_PORT", "8080")
	cfg.App.DefaultCountryCode = getEnv("DEFAULT_COUNTRY_CODE", "+91")

	cfg.Postgres.Host = os.Getenv("DB_HOST")
	cfg.Postgres.Port = getEnv("DB_PORT", "5432")
	cfg.Postgres.User = getEnv("DB_USER", "postgres")
	cfg.Postgres.Password = os.Getenv("DB_PASSWORD")
	cfg.Postgres.DBName = getEnv("DB_NAME", "cafe")
	cfg.Postgres.SSLMode = getEnv("DB_SSLMODE", "disable")
	cfg.Postgres.ConnectTimeout = getDuration("DB_CONNECT_TIMEOUT", 10*time.Second)
	cfg.Postgres.Required = getBool("PERSISTENCE_REQUIRED", false)
	cfg.Postgres.MigrationsPath = getEnv("MIGRATIONS_PATH", "migrations")

	cfg.OTP.TTL = getDuration("OTP_TTL", 5*time.Minute)
	cfg.OTP.MaxAttempts = getInt("OTP_MAX_ATTEMPTS", 5)

	return cfg, nil
}

// PostgresEnabled reports whether a database host was configured.
func (c *Config) PostgresEnabled() bool {
	return c.Postgres.Host != ""
}

// PostgresDSN builds the pgx connection string.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Postgres.User,
		c.Postgres.Password,
		c.Postgres.Host,
		c.Postgres.Port,
		c.Postgres.DBName,
		c.Postgres.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Warn().Str("key", key).Str("value", raw).Msg("config: unparseable duration, using default")
		return fallback
	}
	return d
}

func getInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		log.Warn().Str("key", key).Str("value", raw).Msg("config: unparseable integer, using default")
		return fallback
	}
	return n
}

func getBool(key string, fallback bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		log.Warn().Str("key", key).Str("value", raw).Msg("config: unparseable boolean, using default")
		return fallback
	}
	return b
}
