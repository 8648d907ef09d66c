package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// Config is loaded once at startup from environment variables and treated as
// immutable afterwards.
type Config struct {
	Port string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	RedisAddr string

	// JWTSecret guards the admin grant endpoint; JobSecret is the bearer
	// secret the external scheduler presents to trigger maintenance runs.
	JWTSecret string
	JobSecret string

	// StreakSchedule is a cron expression; the default runs nightly shortly
	// after the Paris day rolls over.
	StreakSchedule string

	CORSOrigins []string
}

func LoadConfig() (*Config, error) {
	config := &Config{
		Port:           getEnvOrDefault("PORT", "8080"),
		DBHost:         getEnvOrDefault("POSTGRES_HOST", "localhost"),
		DBPort:         getEnvOrDefault("POSTGRES_PORT", "5432"),
		DBUser:         getEnvOrDefault("POSTGRES_USER", "postgres"),
		DBPassword:     getEnvOrDefault("POSTGRES_PASSWORD", "postgres"),
		DBName:         getEnvOrDefault("POSTGRES_DB", "nicolaspaye"),
		DBSSLMode:      getEnvOrDefault("POSTGRES_SSLMODE", "disable"),
		RedisAddr:      getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		JWTSecret:      getEnvOrDefault("JWT_SECRET", "dev"),
		JobSecret:      os.Getenv("JOB_SECRET"),
		StreakSchedule: getEnvOrDefault("STREAK_SCHEDULE", "10 0 * * *"),
		CORSOrigins:    strings.Split(getEnvOrDefault("CORS_ORIGINS", "http://localhost:3000"), ","),
	}
	if err := validateConfig(config); err != nil {
		return nil, err
	}
	return config, nil
}

func validateConfig(config *Config) error {
	if config.JobSecret == "" {
		return errors.New("JOB_SECRET must be set: the maintenance trigger endpoint cannot run unauthenticated")
	}
	return nil
}

// DSN builds the postgres connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
