package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all runtime configuration. Values come from environment
// variables (main loads .env first) with defaults for local development.
type Config struct {
	Port          string
	MongoURI      string
	Database      string
	JWTSecret     string
	JWTExpiration time.Duration
	LogFormat     string
	LogLevel      string
}

func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("PORT", "8080")
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DATABASE", "coreBits")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_EXPIRE", "24h")
	v.SetDefault("LOG_FORMAT", "console")
	v.SetDefault("LOG_LEVEL", "info")

	v.AutomaticEnv()

	expire, err := time.ParseDuration(v.GetString("JWT_EXPIRE"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRE %q: %w", v.GetString("JWT_EXPIRE"), err)
	}

	cfg := &Config{
		Port:          v.GetString("PORT"),
		MongoURI:      v.GetString("MONGO_URI"),
		Database:      v.GetString("MONGO_DATABASE"),
		JWTSecret:     v.GetString("JWT_SECRET"),
		JWTExpiration: expire,
		LogFormat:     v.GetString("LOG_FORMAT"),
		LogLevel:      v.GetString("LOG_LEVEL"),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}
