// Package providertest holds the behavioral contract every provider.Provider
// implementation is checked against.
package providertest

import (
	"bytes"
	"context"
	"testing"

	pr "github.com/unkn0wn-root/worldcache/provider"
)

// Run exercises p against the provider contract. p must start empty.
func Run(t *testing.T, p pr.Provider) {
	t.Helper()
	ctx := context.Background()

	t.Run("miss", func(t *testing.T) {
		if v, ok, err := p.Get(ctx, "contract:absent"); err != nil || ok || v != nil {
			t.Fatalf("Get absent: v=%v ok=%v err=%v", v, ok, err)
		}
	})

	t.Run("set_get", func(t *testing.T) {
		if ok, err := p.Set(ctx, "contract:a", []byte{0, 0, 0, 5}); err != nil || !ok {
			t.Fatalf("Set: ok=%v err=%v", ok, err)
		}
		v, ok, err := p.Get(ctx, "contract:a")
		if err != nil || !ok || !bytes.Equal(v, []byte{0, 0, 0, 5}) {
			t.Fatalf("Get: v=%v ok=%v err=%v", v, ok, err)
		}
	})

	t.Run("set_if_exists_absent_is_noop", func(t *testing.T) {
		updated, err := p.SetIfExists(ctx, "contract:cold", []byte{1})
		if err != nil || updated {
			t.Fatalf("SetIfExists absent: updated=%v err=%v", updated, err)
		}
		if _, ok, _ := p.Get(ctx, "contract:cold"); ok {
			t.Fatalf("SetIfExists must not create absent keys")
		}
	})

	t.Run("set_if_exists_present_overwrites", func(t *testing.T) {
		if _, err := p.Set(ctx, "contract:b", []byte{1}); err != nil {
			t.Fatalf("Set: %v", err)
		}
		updated, err := p.SetIfExists(ctx, "contract:b", []byte{2})
		if err != nil || !updated {
			t.Fatalf("SetIfExists present: updated=%v err=%v", updated, err)
		}
		v, _, _ := p.Get(ctx, "contract:b")
		if !bytes.Equal(v, []byte{2}) {
			t.Fatalf("value after SetIfExists: %v", v)
		}
	})

	t.Run("set_all", func(t *testing.T) {
		entries := []pr.Entry{
			{Key: "contract:m1", Value: []byte("x")},
			{Key: "contract:m2", Value: []byte("y")},
		}
		if err := pr.SetAll(ctx, p, entries); err != nil {
			t.Fatalf("SetAll: %v", err)
		}
		for _, e := range entries {
			v, ok, err := p.Get(ctx, e.Key)
			if err != nil || !ok || !bytes.Equal(v, e.Value) {
				t.Fatalf("Get %s: v=%q ok=%v err=%v", e.Key, v, ok, err)
			}
		}
	})

	t.Run("del", func(t *testing.T) {
		if err := p.Del(ctx, "contract:a"); err != nil {
			t.Fatalf("Del: %v", err)
		}
		if _, ok, _ := p.Get(ctx, "contract:a"); ok {
			t.Fatalf("key still present after Del")
		}
		if err := p.Del(ctx, "contract:never"); err != nil {
			t.Fatalf("Del absent: %v", err)
		}
	})
}
