package worldcache

import (
	"context"
	"fmt"

	c "github.com/unkn0wn-root/worldcache/codec"
	"github.com/unkn0wn-root/worldcache/internal/util"
	pr "github.com/unkn0wn-root/worldcache/provider"
)

type RawOptions struct {
	// Required
	Provider pr.Provider

	Prefix string // key prefix; "" => DefaultPrefix
	Hooks  Hooks  // if nil, NopHooks is used
	Logger Logger // if nil, NopLogger is used
}

// Raw keeps each RandomNumber as 4 big-endian bytes under prefix+id.
// Reads miss rather than fall back; writes only overwrite existing keys.
type Raw struct {
	p      pr.Provider
	prefix string
	codec  c.Int32
	hooks  Hooks
	log    Logger
}

var _ Strategy = (*Raw)(nil)

func NewRaw(opts RawOptions) (*Raw, error) {
	if opts.Provider == nil {
		return nil, fmt.Errorf("worldcache: raw: provider is required")
	}
	return &Raw{
		p:      opts.Provider,
		prefix: coalesce(opts.Prefix, DefaultPrefix),
		hooks:  coalesce[Hooks](opts.Hooks, NopHooks{}),
		log:    coalesce[Logger](opts.Logger, NopLogger{}),
	}, nil
}

func (r *Raw) Kind() Kind { return KindRaw }

func (r *Raw) key(id int) string { return util.RowKey(r.prefix, int64(id)) }

func (r *Raw) Warm(ctx context.Context, rows []World) error {
	for start := 0; start < len(rows); start += warmChunk {
		end := min(start+warmChunk, len(rows))
		entries := make([]pr.Entry, 0, end-start)
		for _, w := range rows[start:end] {
			b, _ := r.codec.Encode(w.RandomNumber)
			entries = append(entries, pr.Entry{Key: r.key(w.ID), Value: b})
		}
		if err := pr.SetAll(ctx, r.p, entries); err != nil {
			return fmt.Errorf("raw warm rows %d..%d: %w", start, end-1, err)
		}
	}
	return nil
}

func (r *Raw) Read(ctx context.Context, id int) (World, error) {
	key := r.key(id)
	b, ok, err := r.p.Get(ctx, key)
	if err != nil {
		return World{}, fmt.Errorf("raw get %s: %w", key, err)
	}
	if !ok {
		r.hooks.CacheMiss(key)
		return World{}, &MissError{Key: key}
	}
	n, err := r.codec.Decode(b)
	if err != nil {
		r.log.Warn("raw value undecodable", Fields{"key": key, "len": len(b)})
		return World{}, fmt.Errorf("%w: %s: %v", ErrCorrupt, key, err)
	}
	return World{ID: id, RandomNumber: n}, nil
}

// Write issues SET key value XX. An absent key is left absent.
func (r *Raw) Write(ctx context.Context, w World) error {
	key := r.key(w.ID)
	b, _ := r.codec.Encode(w.RandomNumber)
	updated, err := r.p.SetIfExists(ctx, key, b)
	if err != nil {
		return fmt.Errorf("raw set xx %s: %w", key, err)
	}
	if !updated {
		r.log.Debug("SET XX skipped (key absent)", Fields{"key": key})
		r.hooks.ConditionalWriteSkipped(key)
	}
	return nil
}

func (r *Raw) Close(ctx context.Context) error { return r.p.Close(ctx) }
