// Package config provides application configuration loaded from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// DevSessionSecret signs sessions when SESSION_SECRET is unset. Validate
// rejects it outside dev mode.
const DevSessionSecret = "dev-secret-change-me"

// minSessionSecretLen is the shortest HS256 key accepted in production.
const minSessionSecretLen = 32

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	App       AppConfig
	Retention RetentionConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string
	ReadTimeout  int // seconds
	WriteTimeout int // seconds
	IdleTimeout  int // seconds
}

// DatabaseConfig holds PostgreSQL connection settings. RawDSN, when set
// through DATABASE_DSN, wins over the individual fields.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	RawDSN   string
}

// RedisConfig enables the shared catalog cache when URL is set.
type RedisConfig struct {
	URL string
	Key string
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Dev           bool
	Migrations    bool
	Seed          bool
	LogLevel      string
	CatalogTTL    time.Duration
	SessionSecret string
	SessionTTL    time.Duration
	SecureCookies bool
}

// RetentionConfig controls how long untouched quotes are kept.
type RetentionConfig struct {
	UnassignedAfter time.Duration
	StaleAfter      time.Duration
	AcceptedAfter   time.Duration

	// Interval of the in-process cleanup sweep; zero disables it.
	Interval time.Duration
}

// DSN returns the PostgreSQL connection string in key=value format.
func (d DatabaseConfig) DSN() string {
	if d.RawDSN != "" {
		return d.RawDSN
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// URL returns the PostgreSQL connection string in URL format.
func (d DatabaseConfig) URL() string {
	if strings.HasPrefix(d.RawDSN, "postgres://") || strings.HasPrefix(d.RawDSN, "postgresql://") {
		return d.RawDSN
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// Load reads configuration from environment variables.
// It uses sensible defaults for local development.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			ReadTimeout:  getEnvInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvInt("SERVER_WRITE_TIMEOUT", 15),
			IdleTimeout:  getEnvInt("SERVER_IDLE_TIMEOUT", 60),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "vertrieb"),
			Password: getEnv("DB_PASSWORD", "vertrieb123"),
			DBName:   getEnv("DB_NAME", "vertrieb"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			RawDSN:   getEnv("DATABASE_DSN", ""),
		},
		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", ""),
			Key: getEnv("REDIS_CATALOG_KEY", "vertrieb:catalog"),
		},
		App: AppConfig{
			Dev:           getEnvBool("DEV", false),
			Migrations:    getEnvBool("MIGRATIONS", false),
			Seed:          getEnvBool("DB_SEED", false),
			LogLevel:      getEnv("LOG_LEVEL", "info"),
			CatalogTTL:    getEnvDuration("CATALOG_TTL", time.Minute),
			SessionSecret: getEnv("SESSION_SECRET", DevSessionSecret),
			SessionTTL:    getEnvDuration("SESSION_TTL", 14*24*time.Hour),
			SecureCookies: getEnvBool("SECURE_COOKIES", false),
		},
		Retention: RetentionConfig{
			UnassignedAfter: getEnvDuration("RETENTION_UNASSIGNED", 7*24*time.Hour),
			StaleAfter:      getEnvDuration("RETENTION_STALE", 6*7*24*time.Hour),
			AcceptedAfter:   getEnvDuration("RETENTION_ACCEPTED", 60*24*time.Hour),
			Interval:        getEnvDuration("CLEANUP_INTERVAL", 0),
		},
	}
}

// Validate rejects settings that must not reach production.
func (c *Config) Validate() error {
	if c.App.Dev {
		return nil
	}
	if c.App.SessionSecret == DevSessionSecret {
		return errors.New("SESSION_SECRET must be set outside dev mode")
	}
	if len(c.App.SessionSecret) < minSessionSecretLen {
		return fmt.Errorf("SESSION_SECRET must be at least %d bytes", minSessionSecretLen)
	}
	return nil
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the integer value of an environment variable or a default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

// getEnvBool returns the boolean value of an environment variable or a default.
// Accepts "1", "true", "yes" as true; everything else is false.
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "1" || value == "true" || value == "yes"
}

// getEnvDuration parses values like "90s" or "336h".
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
