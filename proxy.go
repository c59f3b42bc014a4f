package worldcache

import (
	"context"
	"fmt"

	c "github.com/unkn0wn-root/worldcache/codec"
	"github.com/unkn0wn-root/worldcache/liveobject"
	pr "github.com/unkn0wn-root/worldcache/provider"
)

type ProxyOptions struct {
	// Required
	Provider pr.Provider

	Namespace string         // "" => DefaultNamespace
	Codec     c.Codec[World] // nil => msgpack
	MaxDecode int            // payload limit in bytes; 0 => unlimited
	Hooks     Hooks          // if nil, NopHooks is used
	Logger    Logger         // if nil, NopLogger is used
}

// Proxy keeps each row as a live object holding the full World record.
// Absent records read as the empty state; writes update the number field of
// the current record, creating it when absent.
type Proxy struct {
	svc   *liveobject.Service[World]
	hooks Hooks
	log   Logger
}

var _ Strategy = (*Proxy)(nil)

func NewProxy(opts ProxyOptions) (*Proxy, error) {
	if opts.Provider == nil {
		return nil, fmt.Errorf("worldcache: proxy: provider is required")
	}
	codec := opts.Codec
	if codec == nil {
		codec = c.Msgpack[World]{}
	}
	if opts.MaxDecode > 0 {
		codec = c.LimitCodec[World]{Inner: codec, MaxDecode: opts.MaxDecode}
	}

	p := &Proxy{
		hooks: coalesce[Hooks](opts.Hooks, NopHooks{}),
		log:   coalesce[Logger](opts.Logger, NopLogger{}),
	}
	svc, err := liveobject.New(liveobject.Options[World]{
		Namespace: coalesce(opts.Namespace, DefaultNamespace),
		Provider:  opts.Provider,
		Codec:     codec,
		ID:        func(w World) int64 { return int64(w.ID) },
		OnSelfHeal: func(key, reason string) {
			p.log.Warn("self-healed live object", Fields{"key": key, "reason": reason})
			p.hooks.SelfHeal(key, reason)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("worldcache: proxy: %w", err)
	}
	p.svc = svc
	return p, nil
}

func (p *Proxy) Kind() Kind { return KindProxy }

func (p *Proxy) Warm(ctx context.Context, rows []World) error {
	if err := p.svc.Persist(ctx, rows...); err != nil {
		return fmt.Errorf("proxy warm: %w", err)
	}
	return nil
}

func (p *Proxy) Read(ctx context.Context, id int) (World, error) {
	w, found, err := p.svc.Get(int64(id)).Load(ctx)
	if err != nil {
		return World{}, fmt.Errorf("proxy load %d: %w", id, err)
	}
	if !found {
		return World{ID: id}, nil
	}
	return w, nil
}

// Write fetches the live object for w.ID and replaces its RandomNumber. An
// absent record is created from the empty state.
func (p *Proxy) Write(ctx context.Context, w World) error {
	_, err := p.svc.Get(int64(w.ID)).Update(ctx, func(cur World, found bool) World {
		if !found {
			cur = World{ID: w.ID}
		}
		cur.RandomNumber = w.RandomNumber
		return cur
	})
	if err != nil {
		return fmt.Errorf("proxy update %d: %w", w.ID, err)
	}
	return nil
}

func (p *Proxy) Close(ctx context.Context) error { return p.svc.Close(ctx) }
