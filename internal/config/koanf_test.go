package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unkn0wn-root/worldcache"
)

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func requireConfigError(t *testing.T, err error, key string) *worldcache.ConfigError {
	t.Helper()
	var ce *worldcache.ConfigError
	require.True(t, errors.As(err, &ce), "expected *ConfigError, got %T: %v", err, err)
	assert.Equal(t, key, ce.Key)
	return ce
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("CACHE_STRATEGY", "raw")

	cfg, err := Load("")
	require.NoError(t, err)

	kind, err := cfg.Kind()
	require.NoError(t, err)
	assert.Equal(t, worldcache.KindRaw, kind)
	assert.Equal(t, "redis", cfg.Cache.Provider)
	assert.Equal(t, "hello-world::", cfg.Cache.Prefix)
	assert.Equal(t, 1, cfg.Redis.PoolSize)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "msgpack", cfg.Proxy.Codec)
	assert.Equal(t, 15*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "zap", cfg.Logging.Backend)
}

func TestLoadMissingStrategy(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("CACHE_STRATEGY", "")

	_, err := Load("")
	requireConfigError(t, err, "cache.strategy")
}

func TestLoadUnknownStrategy(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("CACHE_STRATEGY", "memcached")

	_, err := Load("")
	ce := requireConfigError(t, err, "cache.strategy")
	assert.Equal(t, "memcached", ce.Value)
}

func TestLoadFileThenEnv(t *testing.T) {
	path := writeYAML(t, `
cache:
  strategy: proxy
  provider: ristretto
redis:
  pool_size: 8
proxy:
  codec: cbor
server:
  addr: ":9000"
  shutdown_timeout: 3s
logging:
  level: debug
`)
	t.Setenv("CACHE_STRATEGY", "")
	t.Setenv("REDIS_POOL_SIZE", "16")
	t.Setenv("LOG_BACKEND", "zerolog")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "proxy", cfg.Cache.Strategy, "empty env var must not clobber file value")
	assert.Equal(t, "ristretto", cfg.Cache.Provider)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, 16, cfg.Redis.PoolSize)
	assert.Equal(t, "cbor", cfg.Proxy.Codec)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "zerolog", cfg.Logging.Backend)
}

func TestLoadConfigPathEnv(t *testing.T) {
	path := writeYAML(t, "cache:\n  strategy: raw\ndatabase:\n  path: /tmp/bench.db\n")
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("CACHE_STRATEGY", "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/bench.db", cfg.Database.Path)
}

func TestLoadValidationErrors(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
		key  string
	}{
		{"codec", map[string]string{"PROXY_CODEC": "gob"}, "proxy.codec"},
		{"pool_size", map[string]string{"REDIS_POOL_SIZE": "0"}, "redis.pool_size"},
		{"provider", map[string]string{"CACHE_PROVIDER": "memcached"}, "cache.provider"},
		{"log_level", map[string]string{"LOG_LEVEL": "loud"}, "logging.level"},
		{"redis_addr", map[string]string{"REDIS_ADDR": ""}, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("CONFIG_PATH", "")
			t.Setenv("CACHE_STRATEGY", "raw")
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := Load("")
			if tc.key == "" {
				// an empty env var is skipped, the default address stays
				require.NoError(t, err)
				return
			}
			requireConfigError(t, err, tc.key)
		})
	}
}

func TestLoadAcceptsEveryWorldCodec(t *testing.T) {
	for _, name := range []string{"msgpack", "cbor", "json", "proto", "protobuf"} {
		t.Run(name, func(t *testing.T) {
			t.Setenv("CONFIG_PATH", "")
			t.Setenv("CACHE_STRATEGY", "proxy")
			t.Setenv("PROXY_CODEC", name)

			cfg, err := Load("")
			require.NoError(t, err)
			_, err = worldcache.NewWorldCodec(cfg.Proxy.Codec)
			require.NoError(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("CACHE_STRATEGY", "raw")
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	requireConfigError(t, err, "file")
}
