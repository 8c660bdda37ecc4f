// Package config handles service configuration from YAML files and
// environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	defaultServerHost     = "0.0.0.0"
	defaultServerPort     = 8000
	defaultServerTimeout  = 30 * time.Second
	defaultDatabasePath   = "keywords.db"
	defaultSettingsPath   = "control.json"
	defaultWorkerURL      = "http://localhost:9000"
	defaultRedisAddress   = "localhost:6379"
	defaultLogBufferSize  = 1000
	defaultShutdownGrace  = 10 * time.Second
	defaultAllowedOrigins = "http://localhost:3000"
)

// Config is the service configuration.
type Config struct {
	Debug    bool           `mapstructure:"debug"`
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Scraper  ScraperConfig  `mapstructure:"scraper"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Logs     LogsConfig     `mapstructure:"logs"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host          string        `mapstructure:"host"`
	Port          int           `mapstructure:"port"`
	ReadTimeout   time.Duration `mapstructure:"read_timeout"`
	WriteTimeout  time.Duration `mapstructure:"write_timeout"`
	ShutdownGrace time.Duration `mapstructure:"shutdown_grace"`
	CORSOrigins   []string      `mapstructure:"cors_origins"`
}

// Address returns the host:port listen address.
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig holds SQLite settings.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// ScraperConfig holds scraper engine settings.
type ScraperConfig struct {
	WorkerURL    string `mapstructure:"worker_url"`
	SettingsPath string `mapstructure:"settings_path"`
}

// RedisConfig holds Redis connection settings for event publishing.
type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Enabled  bool   `mapstructure:"enabled"`
}

// LogsConfig holds dashboard log buffer settings.
type LogsConfig struct {
	BufferSize int `mapstructure:"buffer_size"`
}

// Validate checks required fields.
func (c *Config) Validate() error {
	if c.Server.Host == "" {
		return errors.New("server.host is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return errors.New("server.port must be between 1 and 65535")
	}
	if c.Database.Path == "" {
		return errors.New("database.path is required")
	}
	if c.Logs.BufferSize <= 0 {
		return errors.New("logs.buffer_size must be positive")
	}
	return nil
}

// Load reads configuration from the given file (optional) merged over
// defaults, with environment variable overrides.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)
	bindEnv(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		_ = v.ReadInConfig()
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("debug", false)
	v.SetDefault("server.host", defaultServerHost)
	v.SetDefault("server.port", defaultServerPort)
	v.SetDefault("server.read_timeout", defaultServerTimeout)
	v.SetDefault("server.write_timeout", defaultServerTimeout)
	v.SetDefault("server.shutdown_grace", defaultShutdownGrace)
	v.SetDefault("server.cors_origins", []string{defaultAllowedOrigins})
	v.SetDefault("database.path", defaultDatabasePath)
	v.SetDefault("scraper.worker_url", defaultWorkerURL)
	v.SetDefault("scraper.settings_path", defaultSettingsPath)
	v.SetDefault("redis.address", defaultRedisAddress)
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.enabled", false)
	v.SetDefault("logs.buffer_size", defaultLogBufferSize)
}

func bindEnv(v *viper.Viper) {
	_ = v.BindEnv("debug", "APP_DEBUG")
	_ = v.BindEnv("server.host", "SERVER_HOST")
	_ = v.BindEnv("server.port", "SERVER_PORT")
	_ = v.BindEnv("server.cors_origins", "CORS_ORIGINS")
	_ = v.BindEnv("database.path", "DATABASE_PATH")
	_ = v.BindEnv("scraper.worker_url", "SCRAPER_WORKER_URL")
	_ = v.BindEnv("scraper.settings_path", "SCRAPER_SETTINGS_PATH")
	_ = v.BindEnv("redis.address", "REDIS_ADDRESS")
	_ = v.BindEnv("redis.password", "REDIS_PASSWORD")
	_ = v.BindEnv("redis.db", "REDIS_DB")
	_ = v.BindEnv("redis.enabled", "REDIS_EVENTS_ENABLED")
}
