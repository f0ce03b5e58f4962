package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Server
	Port           string
	Domain         string
	AllowedOrigins []string

	// Database
	DBDriver    string
	DatabaseURL string

	// Auth
	JWTSecret string
	JWTTTL    time.Duration

	// Redis (optional, enables rate limiting)
	RedisURL           string
	RateLimitPerMinute int

	// Announcements
	DiscordWebhookURL string
	SlackWebhookURL   string

	// Maintenance jobs
	ActivityRetention time.Duration
	ReminderWindow    time.Duration

	// Monitoring
	EnableMetrics bool
}

func Load() *Config {
	return &Config{
		Port:           getEnv("PORT", "3000"),
		Domain:         getEnv("DOMAIN", ""),
		AllowedOrigins: getEnvAsList("CLIENT_URL", "ALLOWED_ORIGINS"),

		DBDriver:    strings.ToLower(getEnv("DB_DRIVER", "postgres")),
		DatabaseURL: getEnv("DATABASE_URL", ""),

		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTTTL:    getEnvAsDuration("JWT_TTL", "168h"),

		RedisURL:           getEnv("REDIS_URL", ""),
		RateLimitPerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", 30),

		DiscordWebhookURL: getEnv("DISCORD_WEBHOOK_URL", ""),
		SlackWebhookURL:   getEnv("SLACK_WEBHOOK_URL", ""),

		ActivityRetention: getEnvAsDuration("ACTIVITY_RETENTION", "2160h"),
		ReminderWindow:    getEnvAsDuration("REMINDER_WINDOW", "24h"),

		EnableMetrics: getEnvAsBool("ENABLE_METRICS", true),
	}
}

// Validate reports settings the server cannot start without.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET environment variable is not set")
	}

	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	switch c.DBDriver {
	case "postgres", "mysql":
	default:
		return fmt.Errorf("unsupported DB_DRIVER: %s", c.DBDriver)
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsList collects the comma separated values of every key.
func getEnvAsList(keys ...string) []string {
	var values []string
	for _, key := range keys {
		for _, value := range strings.Split(os.Getenv(key), ",") {
			if value = strings.TrimSpace(value); value != "" {
				values = append(values, value)
			}
		}
	}
	return values
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key, defaultValue string) time.Duration {
	value := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
