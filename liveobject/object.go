package liveobject

import (
	"context"
	"fmt"

	pr "github.com/unkn0wn-root/worldcache/provider"
)

// Object is a handle on one cached record. It holds no field state of its
// own: every Load reads the cache and every Set writes it.
type Object[V any] struct {
	s   *Service[V]
	id  int64
	key string
}

func (o *Object[V]) ID() int64   { return o.id }
func (o *Object[V]) Key() string { return o.key }

// Load returns the cached record. found is false when no (valid) record exists.
func (o *Object[V]) Load(ctx context.Context) (v V, found bool, err error) {
	return o.s.load(ctx, o.key)
}

// Set writes v unconditionally, creating the record if needed.
func (o *Object[V]) Set(ctx context.Context, v V) error {
	if got := o.s.idOf(v); got != o.id {
		return fmt.Errorf("%w: bound %d, value %d", ErrIDMismatch, o.id, got)
	}
	b, err := o.s.encode(v)
	if err != nil {
		return err
	}
	ok, err := o.s.provider.Set(ctx, o.key, b)
	if err != nil {
		return fmt.Errorf("liveobject: set %s: %w", o.key, err)
	}
	if !ok {
		return fmt.Errorf("liveobject: set %s: %w", o.key, pr.ErrRejected)
	}
	return nil
}

// Update loads the record, applies fn and writes the result back. fn receives
// found=false and the zero value when no record exists. The read and the
// write are separate round trips; concurrent updates to the same id race and
// the last write wins.
func (o *Object[V]) Update(ctx context.Context, fn func(cur V, found bool) V) (V, error) {
	cur, found, err := o.Load(ctx)
	if err != nil {
		var zero V
		return zero, err
	}
	next := fn(cur, found)
	if err := o.Set(ctx, next); err != nil {
		var zero V
		return zero, err
	}
	return next, nil
}
