package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/unkn0wn-root/worldcache"
)

// ConfigPathEnvVar names a YAML file to load when no path is passed to Load.
const ConfigPathEnvVar = "CONFIG_PATH"

// envMappings maps environment variables (lower-cased) to koanf paths.
// Variables not listed, or set to the empty string, are ignored.
var envMappings = map[string]string{
	"cache_strategy":      "cache.strategy",
	"cache_provider":      "cache.provider",
	"cache_prefix":        "cache.prefix",
	"redis_addr":          "redis.addr",
	"redis_username":      "redis.username",
	"redis_password":      "redis.password",
	"redis_db":            "redis.db",
	"redis_pool_size":     "redis.pool_size",
	"redis_dial_timeout":  "redis.dial_timeout",
	"redis_read_timeout":  "redis.read_timeout",
	"redis_write_timeout": "redis.write_timeout",
	"local_max_cost_mb":   "local.max_cost_mb",
	"local_shards":        "local.shards",
	"proxy_namespace":     "proxy.namespace",
	"proxy_codec":         "proxy.codec",
	"proxy_max_decode":    "proxy.max_decode",
	"db_path":             "database.path",
	"http_addr":           "server.addr",
	"shutdown_timeout":    "server.shutdown_timeout",
	"metrics_enabled":     "server.metrics",
	"log_level":           "logging.level",
	"log_backend":         "logging.backend",
}

func envTransformFunc(key, value string) (string, any) {
	if value == "" {
		return "", nil
	}
	return envMappings[strings.ToLower(key)], value
}

// Load layers defaults, the YAML file at path (or $CONFIG_PATH; none if both
// are empty) and environment variables, then validates the result.
// Every failure is a *worldcache.ConfigError.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, &worldcache.ConfigError{Key: "defaults", Err: err}
	}

	if path == "" {
		path = os.Getenv(ConfigPathEnvVar)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, &worldcache.ConfigError{Key: "file", Value: path, Err: err}
		}
	}

	if err := k.Load(env.ProviderWithValue("", ".", envTransformFunc), nil); err != nil {
		return nil, &worldcache.ConfigError{Key: "env", Err: err}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, &worldcache.ConfigError{Key: "unmarshal", Err: err}
	}
	cfg.Redis.Enabled = cfg.Cache.Provider == "redis"

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("koanf"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks the strategy first, for a descriptive error, then every
// field rule. The first violation is returned as a *worldcache.ConfigError.
func (c *Config) Validate() error {
	if _, err := c.Kind(); err != nil {
		return err
	}
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &worldcache.ConfigError{Key: "validate", Err: err}
	}
	fe := verrs[0]
	_, key, _ := strings.Cut(fe.Namespace(), ".")
	return &worldcache.ConfigError{
		Key:    key,
		Value:  fmt.Sprint(fe.Value()),
		Reason: "failed rule " + fe.Tag() + paramSuffix(fe.Param()),
	}
}

func paramSuffix(p string) string {
	if p == "" {
		return ""
	}
	return "=" + p
}
