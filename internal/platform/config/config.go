package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Addr              string
	DatabaseURL       string
	Environment       string
	SessionTTL        time.Duration
	SeedAdminUser     string
	SeedAdminPassword string
	RunMigrations     bool
	RunSeed           bool
	MaxBodyBytes      int64
	MetricsEnabled    bool
}

func Load() Config {
	return Config{
		Addr:              getEnv("APP_ADDR", ":8080"),
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		Environment:       getEnv("APP_ENV", "development"),
		SessionTTL:        getEnvDuration("SESSION_TTL", 24*time.Hour),
		SeedAdminUser:     getEnv("SEED_ADMIN_USER", ""),
		SeedAdminPassword: getEnv("SEED_ADMIN_PASSWORD", ""),
		RunMigrations:     getEnvBool("RUN_MIGRATIONS", true),
		RunSeed:           getEnvBool("RUN_SEED", true),
		MaxBodyBytes:      int64(getEnvInt("MAX_BODY_BYTES", 1048576)),
		MetricsEnabled:    getEnvBool("METRICS_ENABLED", true),
	}
}

func (c Config) Production() bool {
	return c.Environment == "production"
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.SessionTTL < time.Minute {
		return fmt.Errorf("SESSION_TTL must be at least 1m")
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024")
	}
	if c.Production() && c.RunSeed && strings.TrimSpace(c.SeedAdminPassword) == "" {
		return fmt.Errorf("SEED_ADMIN_PASSWORD must be set or RUN_SEED disabled in production")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}
