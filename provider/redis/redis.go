// Package redis adapts a go-redis client to provider.Provider.
//
// A go-redis client is safe for concurrent use. With Options.PoolSize = 1 every
// command from every request shares a single connection and is serialized on it.
package redis

import (
	"context"
	"errors"

	goredis "github.com/redis/go-redis/v9"

	pr "github.com/unkn0wn-root/worldcache/provider"
)

var ErrNilClient = errors.New("redis provider: nil client")

type Redis struct {
	rdb         goredis.UniversalClient
	closeClient bool
}

var (
	_ pr.Provider = (*Redis)(nil)
	_ pr.Batcher  = (*Redis)(nil)
)

type Config struct {
	Client      goredis.UniversalClient
	CloseClient bool // set true only if this provider exclusively owns the client
}

func New(cfg Config) (*Redis, error) {
	if cfg.Client == nil {
		return nil, ErrNilClient
	}
	return &Redis{rdb: cfg.Client, closeClient: cfg.CloseClient}, nil
}

// Ping checks connectivity. Used at startup so an unreachable server fails
// initialization instead of the first request.
func (p *Redis) Ping(ctx context.Context) error {
	return p.rdb.Ping(ctx).Err()
}

func (p *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := p.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err // transport/server error
	}
	return b, true, nil
}

func (p *Redis) Set(ctx context.Context, key string, value []byte) (bool, error) {
	if err := p.rdb.Set(ctx, key, value, 0).Err(); err != nil {
		return false, err
	}
	return true, nil
}

// SetIfExists issues SET key value XX. Redis replies nil when the key is absent.
func (p *Redis) SetIfExists(ctx context.Context, key string, value []byte) (bool, error) {
	ok, err := p.rdb.SetXX(ctx, key, value, 0).Result()
	if errors.Is(err, goredis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return ok, nil
}

// SetMany pipelines one SET per entry in a single round trip.
func (p *Redis) SetMany(ctx context.Context, entries []pr.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	_, err := p.rdb.Pipelined(ctx, func(pipe goredis.Pipeliner) error {
		for _, e := range entries {
			pipe.Set(ctx, e.Key, e.Value, 0)
		}
		return nil
	})
	return err
}

func (p *Redis) Del(ctx context.Context, key string) error {
	return p.rdb.Del(ctx, key).Err()
}

// Close releases the underlying redis client only when this provider owns it.
// Safe to call multiple times; repeated calls become no-ops.
func (p *Redis) Close(context.Context) error {
	if p.closeClient {
		if err := p.rdb.Close(); err != nil && !errors.Is(err, goredis.ErrClosed) {
			return err
		}
	}
	return nil
}
