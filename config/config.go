package config

import (
	"log/slog"
	"os"
	"strconv"
)

type Config struct {
	// MongoDB configuration
	MongoURI     string
	DatabaseName string

	// Authentication
	JWTSecret string

	// Rate limiting
	RedisAddr      string
	LoginRateLimit int

	// Server configuration
	Port       string
	Production bool
}

func LoadConfig() *Config {
	cfg := &Config{
		MongoURI:       getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DatabaseName:   getEnv("MONGO_DB_NAME", "placement_portal"),
		JWTSecret:      getEnv("JWT_SECRET", "dev-secret-change-me"),
		RedisAddr:      getEnv("REDIS_ADDR", ""),
		LoginRateLimit: getEnvInt("LOGIN_RATE_LIMIT", 10),
		Port:           getEnv("PORT", "8080"),
		Production:     getEnv("APP_ENV", "development") == "production",
	}

	// Validate required configuration
	if cfg.MongoURI == "" {
		slog.Error("MONGO_URI not set")
	}
	if cfg.Production && os.Getenv("JWT_SECRET") == "" {
		slog.Error("JWT_SECRET must be set in production")
		os.Exit(1)
	}

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
