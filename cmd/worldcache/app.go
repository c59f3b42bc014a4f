package main

import (
	"context"
	stdslog "log/slog"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"
	"github.com/unkn0wn-root/worldcache"
	"github.com/unkn0wn-root/worldcache/codec"
	asynchook "github.com/unkn0wn-root/worldcache/hooks/async"
	"github.com/unkn0wn-root/worldcache/hooks/prom"
	"github.com/unkn0wn-root/worldcache/internal/config"
	"github.com/unkn0wn-root/worldcache/internal/server"
	logrusadapter "github.com/unkn0wn-root/worldcache/log/logrus"
	slogadapter "github.com/unkn0wn-root/worldcache/log/slog"
	zapadapter "github.com/unkn0wn-root/worldcache/log/zap"
	zerologadapter "github.com/unkn0wn-root/worldcache/log/zerolog"
	pr "github.com/unkn0wn-root/worldcache/provider"
	"github.com/unkn0wn-root/worldcache/provider/bigcache"
	"github.com/unkn0wn-root/worldcache/provider/redis"
	"github.com/unkn0wn-root/worldcache/provider/ristretto"
	"github.com/unkn0wn-root/worldcache/sloghooks"
	"github.com/unkn0wn-root/worldcache/store/sqlite"
)

type app struct {
	cfg     *config.Config
	log     worldcache.Logger
	store   *sqlite.Store
	svc     *worldcache.Service
	srv     *http.Server
	hooks   *asynchook.Hooks
	closers []func()
}

// build resolves every configuration choice before opening any resource,
// then constructs the store, cache provider, strategy and service.
func build(ctx context.Context, cfg *config.Config) (*app, error) {
	kind, err := cfg.Kind()
	if err != nil {
		return nil, err
	}
	wc, err := worldcache.NewWorldCodec(cfg.Proxy.Codec)
	if err != nil {
		return nil, err
	}
	log, flush, err := newLogger(cfg.Logging)
	if err != nil {
		return nil, &worldcache.ConfigError{Key: "logging.level", Value: cfg.Logging.Level, Err: err}
	}

	a := &app{cfg: cfg, log: log, closers: []func(){flush}}
	ok := false
	defer func() {
		if !ok {
			a.close()
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	a.hooks = asynchook.New(newSlogHooks(cfg.Logging.Level), 1, 1024)
	a.closers = append(a.closers, a.hooks.Close)
	hooks := worldcache.JoinHooks(prom.New(reg, kind.String()), a.hooks)

	a.store, err = sqlite.Open(cfg.Database.Path)
	if err != nil {
		return nil, &worldcache.InitError{Op: "open datastore", Err: err}
	}
	a.closers = append(a.closers, func() { _ = a.store.Close() })

	var statsReg prometheus.Registerer
	if cfg.Server.Metrics {
		statsReg = reg
	}
	p, err := newProvider(ctx, cfg, statsReg)
	if err != nil {
		return nil, err
	}

	var strat worldcache.Strategy
	switch kind {
	case worldcache.KindRaw:
		strat, err = worldcache.NewRaw(worldcache.RawOptions{
			Provider: p, Prefix: cfg.Cache.Prefix, Hooks: hooks, Logger: log,
		})
	case worldcache.KindProxy:
		strat, err = worldcache.NewProxy(worldcache.ProxyOptions{
			Provider: p, Namespace: cfg.Proxy.Namespace, Codec: wc, MaxDecode: cfg.Proxy.MaxDecode,
			Hooks: hooks, Logger: log,
		})
	}
	if err != nil {
		_ = p.Close(ctx)
		return nil, &worldcache.InitError{Op: "build strategy", Err: err}
	}

	a.svc, err = worldcache.New(worldcache.Options{Store: a.store, Strategy: strat, Logger: log, Hooks: hooks})
	if err != nil {
		_ = strat.Close(ctx)
		return nil, &worldcache.InitError{Op: "build service", Err: err}
	}
	a.closers = append(a.closers, func() { _ = a.svc.Close(context.Background()) })

	opts := server.Options{Backend: a.svc, Logger: log}
	if cfg.Server.Metrics {
		opts.Registry = reg
	}
	a.srv = &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      server.New(opts).Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ok = true
	return a, nil
}

// close releases resources in reverse order of acquisition.
func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func newLogger(cfg config.LoggingConfig) (worldcache.Logger, func(), error) {
	switch cfg.Backend {
	case "logrus":
		l, err := logrusadapter.New(os.Stderr, cfg.Level)
		return l, func() {}, err
	case "zerolog":
		l, err := zerologadapter.New(os.Stderr, cfg.Level)
		return l, func() {}, err
	case "slog":
		l, err := slogadapter.New(os.Stderr, cfg.Level)
		return l, func() {}, err
	default:
		l, err := zapadapter.New(cfg.Level)
		if err != nil {
			return nil, nil, err
		}
		return l, func() { _ = l.Sync() }, nil
	}
}

func newSlogHooks(level string) *sloghooks.Hooks {
	var lvl stdslog.Level
	_ = lvl.UnmarshalText([]byte(level))
	l := stdslog.New(stdslog.NewJSONHandler(os.Stderr, &stdslog.HandlerOptions{Level: lvl}))
	return sloghooks.New(l, sloghooks.Options{MissEvery: 100, SkippedEvery: 100})
}

// newProvider opens the configured cache provider. When reg is non-nil the
// in-process ristretto provider records hit/miss stats and exports them there.
func newProvider(ctx context.Context, cfg *config.Config, reg prometheus.Registerer) (pr.Provider, error) {
	switch cfg.Cache.Provider {
	case "ristretto":
		maxCost := int64(cfg.Local.MaxCostMB) << 20
		p, err := ristretto.New(ristretto.Config{
			NumCounters: 10 * worldcache.WorldCount,
			MaxCost:     maxCost,
			BufferItems: 64,
			Metrics:     reg != nil,
		})
		if err != nil {
			return nil, &worldcache.InitError{Op: "ristretto", Err: err}
		}
		if reg != nil {
			m := p.Metrics()
			prom.RegisterProviderStats(reg, "ristretto", m.Hits, m.Misses)
		}
		return p, nil
	case "bigcache":
		p, err := bigcache.New(bigcache.Config{
			Shards:             cfg.Local.Shards,
			MaxEntriesInWindow: worldcache.WorldCount,
			MaxEntrySize:       codec.Int32Size + 64,
			HardMaxCacheSizeMB: cfg.Local.MaxCostMB,
		})
		if err != nil {
			return nil, &worldcache.InitError{Op: "bigcache", Err: err}
		}
		return p, nil
	default:
		client := goredis.NewClient(&goredis.Options{
			Addr:         cfg.Redis.Addr,
			Username:     cfg.Redis.Username,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})
		p, err := redis.New(redis.Config{Client: client, CloseClient: true})
		if err != nil {
			_ = client.Close()
			return nil, &worldcache.InitError{Op: "redis", Err: err}
		}
		if err := p.Ping(ctx); err != nil {
			_ = p.Close(ctx)
			return nil, &worldcache.InitError{Op: "redis ping " + cfg.Redis.Addr, Err: err}
		}
		return p, nil
	}
}
