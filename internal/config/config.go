// Package config loads worldcache server settings: struct defaults, then an
// optional YAML file, then environment variables.
package config

import (
	"time"

	"github.com/unkn0wn-root/worldcache"
)

// Config is the complete server configuration.
type Config struct {
	Cache    CacheConfig    `koanf:"cache"`
	Redis    RedisConfig    `koanf:"redis"`
	Local    LocalConfig    `koanf:"local"`
	Proxy    ProxyConfig    `koanf:"proxy"`
	Database DatabaseConfig `koanf:"database"`
	Server   ServerConfig   `koanf:"server"`
	Logging  LoggingConfig  `koanf:"logging"`
}

type CacheConfig struct {
	// Strategy has no default: it must be chosen explicitly.
	Strategy string `koanf:"strategy" validate:"required"` // resolved by worldcache.ParseKind
	Provider string `koanf:"provider" validate:"required,oneof=redis ristretto bigcache"`
	Prefix   string `koanf:"prefix" validate:"required"`
}

type RedisConfig struct {
	Addr         string        `koanf:"addr" validate:"required_if=Enabled true"`
	Username     string        `koanf:"username"`
	Password     string        `koanf:"password"`
	DB           int           `koanf:"db" validate:"gte=0"`
	PoolSize     int           `koanf:"pool_size" validate:"gte=1"`
	DialTimeout  time.Duration `koanf:"dial_timeout" validate:"gte=0"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`

	// Enabled is derived from Cache.Provider, not loaded.
	Enabled bool `koanf:"-"`
}

// LocalConfig sizes the in-process providers.
type LocalConfig struct {
	MaxCostMB int `koanf:"max_cost_mb" validate:"gte=1"`
	Shards    int `koanf:"shards" validate:"gte=1"`
}

type ProxyConfig struct {
	Namespace string `koanf:"namespace" validate:"required"`
	Codec     string `koanf:"codec" validate:"oneof=msgpack cbor json proto protobuf"`
	MaxDecode int    `koanf:"max_decode" validate:"gte=0"`
}

type DatabaseConfig struct {
	Path string `koanf:"path" validate:"required"`
}

type ServerConfig struct {
	Addr            string        `koanf:"addr" validate:"required"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
	Metrics         bool          `koanf:"metrics"`
}

type LoggingConfig struct {
	Level   string `koanf:"level" validate:"oneof=debug info warn error"`
	Backend string `koanf:"backend" validate:"oneof=zap logrus zerolog slog"`
}

func defaultConfig() *Config {
	return &Config{
		Cache: CacheConfig{
			Provider: "redis",
			Prefix:   worldcache.DefaultPrefix,
		},
		Redis: RedisConfig{
			Addr: "127.0.0.1:6379",
			// one shared connection; raise for concurrent benchmarks
			PoolSize:    1,
			DialTimeout: 5 * time.Second,
		},
		Local: LocalConfig{
			MaxCostMB: 64,
			Shards:    256,
		},
		Proxy: ProxyConfig{
			Namespace: worldcache.DefaultNamespace,
			Codec:     "msgpack",
		},
		Database: DatabaseConfig{
			Path: "world.db",
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 15 * time.Second,
			Metrics:         true,
		},
		Logging: LoggingConfig{
			Level:   "info",
			Backend: "zap",
		},
	}
}

// Kind resolves the configured strategy.
func (c *Config) Kind() (worldcache.Kind, error) {
	return worldcache.ParseKind(c.Cache.Strategy)
}
