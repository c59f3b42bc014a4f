// Package provider defines the byte store that worldcache strategies write to.
//
// Implementations MUST be byte-for-byte transparent: Get must return exactly the
// same []byte that was previously passed to Set for a key (no prepended/appended
// metadata, no re-encoding, no mutation).
//
// Entries never expire on their own: warmed rows are expected to stay resident for
// the life of the process. Keys are owned by the strategy that wrote them and are
// isolated by its namespace prefix.
package provider

import (
	"context"
	"errors"
)

// ErrRejected is returned when a store refused a write (admission/pressure).
var ErrRejected = errors.New("provider: write rejected")

// Provider is a minimal byte store. Must be safe for concurrent use.
type Provider interface {
	// Get returns (value, true, nil) on hit; (nil, false, nil) on miss.
	// If an IO/remote error happens, return (nil, false, err).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value unconditionally (upsert).
	// Returns ok=false when the store rejected the write under pressure.
	Set(ctx context.Context, key string, value []byte) (ok bool, err error)

	// SetIfExists overwrites value only when key is already present.
	// Writing to an absent key is a no-op reported as (false, nil), not an error.
	SetIfExists(ctx context.Context, key string, value []byte) (updated bool, err error)

	// Del removes a key (best-effort; absent keys are not an error).
	Del(ctx context.Context, key string) error

	// Close releases resources.
	Close(ctx context.Context) error
}

// Entry is one key/value pair for a batched write.
type Entry struct {
	Key   string
	Value []byte
}

// Batcher is implemented by providers that can write many entries in one
// round trip. Warmers use it when available and fall back to Set otherwise.
type Batcher interface {
	SetMany(ctx context.Context, entries []Entry) error
}

// SetAll writes entries through Batcher when p supports it, else one Set per entry.
// A rejected write fails the whole call: callers warming a cache must not
// proceed with holes in it.
func SetAll(ctx context.Context, p Provider, entries []Entry) error {
	if b, ok := p.(Batcher); ok {
		return b.SetMany(ctx, entries)
	}
	for _, e := range entries {
		ok, err := p.Set(ctx, e.Key, e.Value)
		if err != nil {
			return err
		}
		if !ok {
			return ErrRejected
		}
	}
	return nil
}
