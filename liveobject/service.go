package liveobject

import (
	"context"
	"errors"
	"fmt"

	c "github.com/unkn0wn-root/worldcache/codec"
	"github.com/unkn0wn-root/worldcache/internal/util"
	"github.com/unkn0wn-root/worldcache/internal/wire"
	pr "github.com/unkn0wn-root/worldcache/provider"
)

// persistChunk bounds one batched write during Persist.
const persistChunk = 500

// ErrIDMismatch is returned when a value is stored through an Object bound to
// a different id.
var ErrIDMismatch = errors.New("liveobject: value id does not match bound id")

// Self-heal reasons passed to Options.OnSelfHeal.
const (
	ReasonCorrupt     = "corrupt"
	ReasonValueDecode = "value_decode"
)

type Options[V any] struct {
	// Required
	Namespace string // isolates keys: "live:<ns>:<id>"
	Provider  pr.Provider
	Codec     c.Codec[V]
	ID        func(V) int64 // identity of a record

	// OnSelfHeal is called after a corrupt entry was deleted on read.
	OnSelfHeal func(storageKey, reason string)
}

type Service[V any] struct {
	ns         string
	provider   pr.Provider
	codec      c.Codec[V]
	idOf       func(V) int64
	onSelfHeal func(storageKey, reason string)
}

func New[V any](opts Options[V]) (*Service[V], error) {
	if opts.Provider == nil {
		return nil, fmt.Errorf("liveobject: provider is required")
	}
	if opts.Codec == nil {
		return nil, fmt.Errorf("liveobject: codec is required")
	}
	if opts.Namespace == "" {
		return nil, fmt.Errorf("liveobject: namespace is required")
	}
	if opts.ID == nil {
		return nil, fmt.Errorf("liveobject: id func is required")
	}
	s := &Service[V]{
		ns:         opts.Namespace,
		provider:   opts.Provider,
		codec:      opts.Codec,
		idOf:       opts.ID,
		onSelfHeal: opts.OnSelfHeal,
	}
	if s.onSelfHeal == nil {
		s.onSelfHeal = func(string, string) {}
	}
	return s, nil
}

// Persist writes every item unconditionally, batching round trips when the
// provider supports it.
func (s *Service[V]) Persist(ctx context.Context, items ...V) error {
	for start := 0; start < len(items); start += persistChunk {
		end := min(start+persistChunk, len(items))
		entries := make([]pr.Entry, 0, end-start)
		for _, v := range items[start:end] {
			b, err := s.encode(v)
			if err != nil {
				return err
			}
			entries = append(entries, pr.Entry{Key: s.key(s.idOf(v)), Value: b})
		}
		if err := pr.SetAll(ctx, s.provider, entries); err != nil {
			return fmt.Errorf("liveobject: persist %d items: %w", len(entries), err)
		}
	}
	return nil
}

// Get binds an object to id. It performs no I/O; the record may not exist yet.
func (s *Service[V]) Get(id int64) *Object[V] {
	return &Object[V]{s: s, id: id, key: s.key(id)}
}

// Close closes the underlying provider.
func (s *Service[V]) Close(ctx context.Context) error {
	return s.provider.Close(ctx)
}

func (s *Service[V]) key(id int64) string {
	return util.RecordKey(s.ns, id)
}

func (s *Service[V]) encode(v V) ([]byte, error) {
	payload, err := s.codec.Encode(v)
	if err != nil {
		return nil, fmt.Errorf("liveobject: encode: %w", err)
	}
	return wire.EncodeRecord(payload), nil
}

func (s *Service[V]) load(ctx context.Context, key string) (V, bool, error) {
	var zero V
	raw, ok, err := s.provider.Get(ctx, key)
	if err != nil || !ok {
		return zero, false, err
	}
	payload, err := wire.DecodeRecord(raw)
	if err != nil {
		s.heal(ctx, key, ReasonCorrupt)
		return zero, false, nil
	}
	v, err := s.codec.Decode(payload)
	if err != nil {
		s.heal(ctx, key, ReasonValueDecode)
		return zero, false, nil
	}
	return v, true, nil
}

func (s *Service[V]) heal(ctx context.Context, key, reason string) {
	_ = s.provider.Del(ctx, key)
	s.onSelfHeal(key, reason)
}
