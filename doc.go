// Package worldcache serves the World benchmark table out of an external
// cache, using one of two interchangeable strategies chosen at startup.
//
// Strategies:
//   - raw:   each row id maps to a 4-byte big-endian RandomNumber stored under
//     "hello-world::<id>". Reads never fall back to the datastore; updates use
//     SET ... XX so cold keys are never created.
//   - proxy: each row is a live object (see package liveobject) holding the full
//     World record under "live:<ns>:<id>". Absent records read as
//     World{ID: id, RandomNumber: 0}; updates are unconditional upserts.
//
// Components:
//   - Store: the relational datastore (source of truth).
//   - Strategy: the cache encoding and access rules (NewRaw, NewProxy).
//   - Service: warms the cache once, then serves point reads, random batch
//     reads, random batch mutations and the fortune listing.
//
// Typical wiring:
//
//	strat, _ := worldcache.NewRaw(worldcache.RawOptions{Provider: p})
//	svc, _ := worldcache.New(worldcache.Options{Store: db, Strategy: strat})
//	if err := svc.Warm(ctx); err != nil { ... } // *InitError
//	worlds, err := svc.ReadBatch(ctx, 20)
package worldcache
