package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config Application Configuration
type Config struct {
	App     AppConfig     `mapstructure:"app"`
	Server  ServerConfig  `mapstructure:"server"`
	Storage StorageConfig `mapstructure:"storage"`
	Session SessionConfig `mapstructure:"session"`
	Log     LogConfig     `mapstructure:"log"`
	CORS    CORSConfig    `mapstructure:"cors"`
}

// AppConfig Application Configuration
type AppConfig struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
	Env     string `mapstructure:"env"` // development, staging, production
}

// ServerConfig Server Configuration
type ServerConfig struct {
	Port            string          `mapstructure:"port"`
	ReadTimeout     time.Duration   `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration   `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration   `mapstructure:"shutdown_timeout"`
	RateLimit       RateLimitConfig `mapstructure:"rate_limit"`
}

// RateLimitConfig Rate Limiting Configuration
type RateLimitConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	Rate    float64 `mapstructure:"rate"`  // Requests per second
	Burst   int     `mapstructure:"burst"` // Burst capacity
}

// StorageConfig selects and configures the key-value store backing cart and order history.
type StorageConfig struct {
	Type   string       `mapstructure:"type"` // memory, sqlite, mysql, redis
	Memory MemoryConfig `mapstructure:"memory"`
	SQLite SQLiteConfig `mapstructure:"sqlite"`
	MySQL  MySQLConfig  `mapstructure:"mysql"`
	Redis  RedisConfig  `mapstructure:"redis"`
	Retry  RetryConfig  `mapstructure:"retry"`
}

// MemoryConfig In-process store configuration
type MemoryConfig struct {
	QuotaBytes int `mapstructure:"quota_bytes"` // 0 disables the quota
}

// SQLiteConfig SQLite store configuration
type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

// MySQLConfig MySQL store configuration
type MySQLConfig struct {
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	LogLevel        string        `mapstructure:"log_level"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

// RedisConfig Redis store configuration
type RedisConfig struct {
	Addr      string `mapstructure:"addr"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// RetryConfig Retry configuration for transient store failures
type RetryConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	MaxAttempts     int           `mapstructure:"max_attempts"`
	InitialDelay    time.Duration `mapstructure:"initial_delay"`
	MaxDelay        time.Duration `mapstructure:"max_delay"`
	BackoffFactor   float64       `mapstructure:"backoff_factor"`
	JitterEnabled   bool          `mapstructure:"jitter_enabled"`
	RetryOnDeadlock bool          `mapstructure:"retry_on_deadlock"`
	RetryOnBusy     bool          `mapstructure:"retry_on_busy"`
}

// SessionConfig Cart session configuration
type SessionConfig struct {
	CartKey           string `mapstructure:"cart_key"`
	OrdersKey         string `mapstructure:"orders_key"`
	KeyPrefix         string `mapstructure:"key_prefix"`
	PersistencePolicy string `mapstructure:"persistence_policy"` // keep, rollback
	DateLayout        string `mapstructure:"date_layout"`

	// open sessions kept in memory; 0 disables the bound
	MaxOpen     int           `mapstructure:"max_open"`
	IdleTimeout time.Duration `mapstructure:"idle_timeout"`
}

// LogConfig Log Configuration
type LogConfig struct {
	Level    string `mapstructure:"level"`  // debug, info, warn, error
	Format   string `mapstructure:"format"` // json, console
	Output   string `mapstructure:"output"` // stdout, stderr, file
	FilePath string `mapstructure:"file_path"`
}

// CORSConfig CORS Configuration
type CORSConfig struct {
	AllowOrigins     []string `mapstructure:"allow_origins"`
	AllowMethods     []string `mapstructure:"allow_methods"`
	AllowHeaders     []string `mapstructure:"allow_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

// IsDevelopment Whether it's development environment
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

// Load Load Configuration
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("SCANORDER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Use default values when config file doesn't exist
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

// setDefaults Set default configuration
func setDefaults(v *viper.Viper) {
	// App
	v.SetDefault("app.name", "scanorder")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.env", "development")

	// Server
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.rate_limit.enabled", true)
	v.SetDefault("server.rate_limit.rate", 100)
	v.SetDefault("server.rate_limit.burst", 200)

	// Storage
	v.SetDefault("storage.type", "sqlite")
	v.SetDefault("storage.memory.quota_bytes", 5*1024*1024)
	v.SetDefault("storage.sqlite.path", "data/scanorder.db")
	v.SetDefault("storage.mysql.host", "localhost")
	v.SetDefault("storage.mysql.port", "3306")
	v.SetDefault("storage.mysql.username", "root")
	v.SetDefault("storage.mysql.password", "")
	v.SetDefault("storage.mysql.database", "scanorder")
	v.SetDefault("storage.mysql.log_level", "warn")
	v.SetDefault("storage.mysql.max_open_conns", 25)
	v.SetDefault("storage.mysql.max_idle_conns", 5)
	v.SetDefault("storage.mysql.conn_max_lifetime", "5m")
	v.SetDefault("storage.mysql.auto_migrate", true)
	v.SetDefault("storage.redis.addr", "localhost:6379")
	v.SetDefault("storage.redis.db", 0)
	v.SetDefault("storage.redis.key_prefix", "scanorder:")

	// Retry configuration defaults
	v.SetDefault("storage.retry.enabled", true)
	v.SetDefault("storage.retry.max_attempts", 3)
	v.SetDefault("storage.retry.initial_delay", "50ms")
	v.SetDefault("storage.retry.max_delay", "1s")
	v.SetDefault("storage.retry.backoff_factor", 2.0)
	v.SetDefault("storage.retry.jitter_enabled", true)
	v.SetDefault("storage.retry.retry_on_deadlock", true)
	v.SetDefault("storage.retry.retry_on_busy", true)

	// Session
	v.SetDefault("session.cart_key", "cart")
	v.SetDefault("session.orders_key", "orderHistory")
	v.SetDefault("session.key_prefix", "session:")
	v.SetDefault("session.persistence_policy", "keep")
	v.SetDefault("session.date_layout", "2006-01-02 15:04:05")
	v.SetDefault("session.max_open", 1000)
	v.SetDefault("session.idle_timeout", "30m")

	// Log
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stdout")
	v.SetDefault("log.file_path", "logs/app.log")

	// CORS
	v.SetDefault("cors.allow_origins", []string{"http://localhost:3000"})
	v.SetDefault("cors.allow_methods", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allow_headers", []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"})
	v.SetDefault("cors.allow_credentials", true)
	v.SetDefault("cors.max_age", 86400)
}
