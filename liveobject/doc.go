// Package liveobject is an explicit read/write-through object layer over a
// provider.Provider.
//
// A Service[V] maps records of type V to framed cache entries keyed by
// "live:<ns>:<id>". Service.Get binds an *Object[V] to one id without any I/O;
// Object.Load and Object.Set each perform exactly one cache round trip.
//
//	svc, _ := liveobject.New(liveobject.Options[World]{
//	    Namespace: "World",
//	    Provider:  provider,
//	    Codec:     codec.Msgpack[World]{},
//	    ID:        func(w World) int64 { return int64(w.ID) },
//	})
//	_ = svc.Persist(ctx, rows...)
//	obj := svc.Get(42)
//	w, found, err := obj.Load(ctx)
//	err = obj.Set(ctx, World{ID: 42, RandomNumber: 7})
//
// Sets are unconditional (upsert). Corrupt or undecodable entries are deleted
// on read and reported as absent.
package liveobject
