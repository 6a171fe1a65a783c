package config

import "time"

// Store backend identifiers
const (
	BackendPostgres = "postgres"
	BackendMongo    = "mongo"
)

// Config holds all configuration for the application
type Config struct {
	Environment string            `mapstructure:"environment"`
	Server      ServerConfig      `mapstructure:"server"`
	Store       StoreConfig       `mapstructure:"store"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Mongo       MongoConfig       `mapstructure:"mongo"`
	Logger      LoggerConfig      `mapstructure:"logger"`
	Transaction TransactionConfig `mapstructure:"transaction"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host              string        `mapstructure:"host"`
	Port              int           `mapstructure:"port"`
	ReadTimeout       time.Duration `mapstructure:"readTimeout"`       // seconds
	WriteTimeout      time.Duration `mapstructure:"writeTimeout"`      // seconds
	IdleTimeout       time.Duration `mapstructure:"idleTimeout"`       // seconds
	ReadHeaderTimeout time.Duration `mapstructure:"readHeaderTimeout"` // seconds
	ShutdownTimeout   time.Duration `mapstructure:"shutdownTimeout"`   // seconds
}

// StoreConfig selects which backing store serves the ledger
type StoreConfig struct {
	Backend string `mapstructure:"backend"` // postgres or mongo
}

// DatabaseConfig contains relational database connection settings
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	SSLMode         string        `mapstructure:"sslMode"`
	MaxOpenConns    int           `mapstructure:"maxOpenConns"`
	MaxIdleConns    int           `mapstructure:"maxIdleConns"`
	ConnMaxLifetime time.Duration `mapstructure:"connMaxLifetime"` // minutes
	ConnMaxIdleTime time.Duration `mapstructure:"connMaxIdleTime"` // minutes
}

// MongoConfig contains document store connection settings
type MongoConfig struct {
	URI             string        `mapstructure:"uri"`
	Database        string        `mapstructure:"database"`
	MaxPoolSize     uint64        `mapstructure:"maxPoolSize"`
	MinPoolSize     uint64        `mapstructure:"minPoolSize"`
	MaxConnIdleTime time.Duration `mapstructure:"maxConnIdleTime"` // minutes
	ConnectTimeout  time.Duration `mapstructure:"connectTimeout"`  // seconds
}

// LoggerConfig contains logger settings
type LoggerConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// TransactionConfig contains unit-of-work execution settings
type TransactionConfig struct {
	MaxRetries int           `mapstructure:"maxRetries"`
	Timeout    time.Duration `mapstructure:"timeout"` // seconds
	Isolation  string        `mapstructure:"isolation"`
}
