package database

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config represents relational store configuration
type Config struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	SSLMode         string        `mapstructure:"sslMode"`
	MaxOpenConns    int           `mapstructure:"maxOpenConns"`
	MaxIdleConns    int           `mapstructure:"maxIdleConns"`
	ConnMaxLifetime time.Duration `mapstructure:"connMaxLifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"connMaxIdleTime"`
	QueryTimeout    time.Duration `mapstructure:"queryTimeout"`
	LogLevel        string        `mapstructure:"logLevel"`
}

// DefaultConfig returns a Config seeded from environment variables.
// Credentials are never hardcoded; they must come from the environment
// or the config file.
func DefaultConfig() *Config {
	return &Config{
		Host:            envOrDefault("BK_DB_HOST", ""),
		Port:            envAsInt("BK_DB_PORT", 5432),
		Username:        os.Getenv("BK_DB_USERNAME"),
		Password:        os.Getenv("BK_DB_PASSWORD"),
		Database:        os.Getenv("BK_DB_NAME"),
		SSLMode:         envOrDefault("BK_DB_SSL_MODE", "disable"),
		MaxOpenConns:    envAsInt("BK_DB_MAX_OPEN_CONNS", 25),
		MaxIdleConns:    envAsInt("BK_DB_MAX_IDLE_CONNS", 10),
		ConnMaxLifetime: time.Duration(envAsInt("BK_DB_CONN_MAX_LIFETIME_MINUTES", 30)) * time.Minute,
		ConnMaxIdleTime: time.Duration(envAsInt("BK_DB_CONN_MAX_IDLE_TIME_MINUTES", 15)) * time.Minute,
		QueryTimeout:    time.Duration(envAsInt("BK_DB_QUERY_TIMEOUT_SECONDS", 5)) * time.Second,
		LogLevel:        envOrDefault("BK_LOGGER_LEVEL", "info"),
	}
}

// Validate checks if the configuration is usable
func (c *Config) Validate() error {
	if c.Host == "" {
		return errors.New("database host is required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port number: %d", c.Port)
	}
	if c.Username == "" {
		return errors.New("database username is required")
	}
	if c.Database == "" {
		return errors.New("database name is required")
	}

	validSSLModes := map[string]bool{
		"disable":     true,
		"require":     true,
		"verify-ca":   true,
		"verify-full": true,
		"prefer":      true,
	}
	if !validSSLModes[c.SSLMode] {
		return fmt.Errorf("invalid SSL mode: %s", c.SSLMode)
	}

	if c.MaxOpenConns <= 0 {
		return fmt.Errorf("max open connections must be positive, got: %d", c.MaxOpenConns)
	}
	if c.MaxIdleConns <= 0 {
		return fmt.Errorf("max idle connections must be positive, got: %d", c.MaxIdleConns)
	}
	if c.QueryTimeout <= 0 {
		return errors.New("query timeout must be positive")
	}

	return nil
}

// DSN returns the connection string for the postgres driver
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.Username, c.Password, c.Database, c.SSLMode,
	)
}

func envOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func envAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
