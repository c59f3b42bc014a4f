package worldcache

import "context"

// Strategy is the cache encoding and access rules for World rows. It is chosen
// once at startup and shared by all requests; implementations are safe for
// concurrent use.
type Strategy interface {
	Kind() Kind

	// Warm writes one cache entry per row, unconditionally.
	Warm(ctx context.Context, rows []World) error

	// Read resolves id from the cache only. It never consults the datastore.
	Read(ctx context.Context, id int) (World, error)

	// Write stores w.RandomNumber for w.ID according to the strategy's
	// update rule.
	Write(ctx context.Context, w World) error

	Close(ctx context.Context) error
}

// warmChunk bounds one batched write during Warm.
const warmChunk = 500
