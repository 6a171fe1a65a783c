package mongodb

import (
	"errors"
	"os"
	"strconv"
	"time"
)

// Config represents document store configuration
type Config struct {
	URI             string        `mapstructure:"uri"`
	Database        string        `mapstructure:"database"`
	MaxPoolSize     uint64        `mapstructure:"maxPoolSize"`
	MinPoolSize     uint64        `mapstructure:"minPoolSize"`
	MaxConnIdleTime time.Duration `mapstructure:"maxConnIdleTime"`
	ConnectTimeout  time.Duration `mapstructure:"connectTimeout"`
}

// DefaultConfig returns a Config seeded from environment variables
func DefaultConfig() *Config {
	return &Config{
		URI:             os.Getenv("BK_MONGO_URI"),
		Database:        envOrDefault("BK_MONGO_DATABASE", "bookkeeper"),
		MaxPoolSize:     envAsUint("BK_MONGO_MAX_POOL_SIZE", 100),
		MinPoolSize:     envAsUint("BK_MONGO_MIN_POOL_SIZE", 5),
		MaxConnIdleTime: time.Duration(envAsUint("BK_MONGO_MAX_CONN_IDLE_MINUTES", 10)) * time.Minute,
		ConnectTimeout:  time.Duration(envAsUint("BK_MONGO_CONNECT_TIMEOUT_SECONDS", 10)) * time.Second,
	}
}

// Validate checks if the configuration is usable
func (c *Config) Validate() error {
	if c.URI == "" {
		return errors.New("mongo URI is required")
	}
	if c.Database == "" {
		return errors.New("mongo database name is required")
	}
	if c.MaxPoolSize == 0 {
		return errors.New("max pool size must be positive")
	}
	if c.MinPoolSize > c.MaxPoolSize {
		return errors.New("min pool size cannot exceed max pool size")
	}
	if c.ConnectTimeout <= 0 {
		return errors.New("connect timeout must be positive")
	}
	return nil
}

func envOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func envAsUint(key string, defaultValue uint64) uint64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseUint(valueStr, 10, 64)
	if err != nil {
		return defaultValue
	}
	return value
}
