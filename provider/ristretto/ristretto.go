// Package ristretto provides an in-process provider.Provider backed by
// dgraph-io/ristretto, for running the benchmark without a Redis server.
package ristretto

import (
	"context"
	"errors"
	"sync"

	rc "github.com/dgraph-io/ristretto"

	pr "github.com/unkn0wn-root/worldcache/provider"
)

type Provider struct {
	c *rc.Cache
	// wmu serializes writers so SetIfExists's check-then-set cannot race a Del.
	wmu sync.Mutex
}

var _ pr.Provider = (*Provider)(nil)

type Config struct {
	NumCounters int64
	MaxCost     int64 // total bytes admitted; size it for the whole warmed row set
	BufferItems int64
	Metrics     bool
}

func New(cfg Config) (*Provider, error) {
	if cfg.NumCounters <= 0 || cfg.MaxCost <= 0 || cfg.BufferItems <= 0 {
		return nil, errors.New("ristretto: invalid config")
	}
	c, err := rc.NewCache(&rc.Config{
		NumCounters: cfg.NumCounters,
		MaxCost:     cfg.MaxCost,
		BufferItems: cfg.BufferItems,
		Metrics:     cfg.Metrics,
	})
	if err != nil {
		return nil, err
	}
	return &Provider{c: c}, nil
}

func (p *Provider) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := p.c.Get(key)
	if !ok {
		return nil, false, nil
	}
	b, _ := v.([]byte)
	if b == nil {
		// self-heal: drop unexpected entry shape
		p.c.Del(key)
		return nil, false, nil
	}
	return b, true, nil
}

// Set admits value with cost len(value) and waits for the write buffer to
// drain so the entry is visible to the next Get.
func (p *Provider) Set(_ context.Context, key string, value []byte) (bool, error) {
	p.wmu.Lock()
	defer p.wmu.Unlock()
	return p.set(key, value), nil
}

func (p *Provider) SetIfExists(_ context.Context, key string, value []byte) (bool, error) {
	p.wmu.Lock()
	defer p.wmu.Unlock()
	if _, ok := p.c.Get(key); !ok {
		return false, nil
	}
	return p.set(key, value), nil
}

func (p *Provider) set(key string, value []byte) bool {
	buf := append([]byte(nil), value...)
	ok := p.c.Set(key, buf, int64(len(buf)))
	p.c.Wait()
	return ok
}

func (p *Provider) Del(_ context.Context, key string) error {
	p.wmu.Lock()
	p.c.Del(key)
	p.wmu.Unlock()
	return nil
}

func (p *Provider) Close(_ context.Context) error {
	p.c.Wait()
	p.c.Close()
	return nil
}

// Metrics exposes ristretto's counters. It is nil unless Config.Metrics is set;
// the nil value's accessors report zero.
func (p *Provider) Metrics() *rc.Metrics { return p.c.Metrics }
