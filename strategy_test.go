package worldcache

import (
	"context"
	"errors"
	"testing"

	c "github.com/unkn0wn-root/worldcache/codec"
	"google.golang.org/protobuf/encoding/protowire"
)

func TestParseKind(t *testing.T) {
	cases := []struct {
		in   string
		want Kind
		ok   bool
	}{
		{"raw", KindRaw, true},
		{"PROXY", KindProxy, true},
		{" proxy ", KindProxy, true},
		{"", KindUnknown, false},
		{"redis", KindUnknown, false},
	}
	for _, tc := range cases {
		got, err := ParseKind(tc.in)
		if got != tc.want || (err == nil) != tc.ok {
			t.Fatalf("ParseKind(%q) = %v, %v", tc.in, got, err)
		}
		var ce *ConfigError
		if !tc.ok && !errors.As(err, &ce) {
			t.Fatalf("ParseKind(%q): expected *ConfigError, got %T", tc.in, err)
		}
	}
}

func TestRawKeyLayoutAndEncoding(t *testing.T) {
	ctx := context.Background()
	mp := newMemProvider()
	raw, err := NewRaw(RawOptions{Provider: mp})
	if err != nil {
		t.Fatalf("NewRaw: %v", err)
	}
	if err := raw.Warm(ctx, []World{{ID: 42, RandomNumber: -2}}); err != nil {
		t.Fatalf("Warm: %v", err)
	}
	b, ok := mp.m["hello-world::42"]
	if !ok {
		t.Fatalf("expected key hello-world::42, have %v", mp.m)
	}
	if want := []byte{0xff, 0xff, 0xff, 0xfe}; string(b) != string(want) {
		t.Fatalf("value bytes = %x, want %x", b, want)
	}
}

func TestRawCustomPrefix(t *testing.T) {
	mp := newMemProvider()
	raw, err := NewRaw(RawOptions{Provider: mp, Prefix: "bench:"})
	if err != nil {
		t.Fatalf("NewRaw: %v", err)
	}
	if err := raw.Warm(context.Background(), []World{{ID: 1, RandomNumber: 1}}); err != nil {
		t.Fatalf("Warm: %v", err)
	}
	if _, ok := mp.m["bench:1"]; !ok {
		t.Fatalf("prefix not applied: %v", mp.m)
	}
}

func TestRawCorruptValue(t *testing.T) {
	mp := newMemProvider()
	raw, _ := NewRaw(RawOptions{Provider: mp})
	mp.m["hello-world::9"] = []byte{1, 2, 3}

	if _, err := raw.Read(context.Background(), 9); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("expected ErrCorrupt, got %v", err)
	}
}

func TestProxySelfHealsCorruptRecord(t *testing.T) {
	ctx := context.Background()
	mp := newMemProvider()
	h := &recHooks{}
	px, err := NewProxy(ProxyOptions{Provider: mp, Hooks: h})
	if err != nil {
		t.Fatalf("NewProxy: %v", err)
	}
	// a raw-strategy value under a live-object key is not a valid frame
	mp.m["live:World:5"] = []byte{0, 0, 0, 5}

	got, err := px.Read(ctx, 5)
	if err != nil || got != (World{ID: 5}) {
		t.Fatalf("Read = %+v, %v; want empty state", got, err)
	}
	if _, ok := mp.m["live:World:5"]; ok {
		t.Fatalf("corrupt record not deleted")
	}
	if len(h.healed) != 1 || h.healed[0] != "live:World:5" {
		t.Fatalf("SelfHeal hook: %v", h.healed)
	}
}

func TestProxyWriteUpdatesCurrentRecord(t *testing.T) {
	ctx := context.Background()
	mp := newMemProvider()
	h := &recHooks{}
	px, err := NewProxy(ProxyOptions{Provider: mp, Hooks: h})
	if err != nil {
		t.Fatalf("NewProxy: %v", err)
	}
	if err := px.Warm(ctx, []World{{ID: 5, RandomNumber: 10}}); err != nil {
		t.Fatalf("Warm: %v", err)
	}

	if err := px.Write(ctx, World{ID: 5, RandomNumber: 99}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if got, _ := px.Read(ctx, 5); got != (World{ID: 5, RandomNumber: 99}) {
		t.Fatalf("Read(5) = %+v", got)
	}

	// absent record: created from the empty state
	if err := px.Write(ctx, World{ID: 7, RandomNumber: 3}); err != nil {
		t.Fatalf("Write absent: %v", err)
	}
	if got, _ := px.Read(ctx, 7); got != (World{ID: 7, RandomNumber: 3}) {
		t.Fatalf("Read(7) = %+v", got)
	}

	// the write reads first, so a corrupt record is healed then replaced
	mp.m["live:World:8"] = []byte{0, 0, 0, 8}
	if err := px.Write(ctx, World{ID: 8, RandomNumber: 4}); err != nil {
		t.Fatalf("Write corrupt: %v", err)
	}
	if len(h.healed) != 1 || h.healed[0] != "live:World:8" {
		t.Fatalf("SelfHeal hook: %v", h.healed)
	}
	if got, _ := px.Read(ctx, 8); got != (World{ID: 8, RandomNumber: 4}) {
		t.Fatalf("Read(8) = %+v", got)
	}
}

func TestProxyMaxDecode(t *testing.T) {
	ctx := context.Background()
	mp := newMemProvider()
	px, _ := NewProxy(ProxyOptions{Provider: mp, Codec: c.JSON[World]{}, MaxDecode: 8})

	if err := px.Write(ctx, World{ID: 10, RandomNumber: 1000}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	// the JSON payload exceeds 8 bytes so the read heals it away
	if got, err := px.Read(ctx, 10); err != nil || got != (World{ID: 10}) {
		t.Fatalf("Read = %+v, %v", got, err)
	}
}

func TestProxyCodecs(t *testing.T) {
	ctx := context.Background()
	for _, name := range []string{"", "msgpack", "cbor", "json", "proto", "protobuf"} {
		t.Run(name, func(t *testing.T) {
			cd, err := NewWorldCodec(name)
			if err != nil {
				t.Fatalf("NewWorldCodec: %v", err)
			}
			px, err := NewProxy(ProxyOptions{Provider: newMemProvider(), Codec: cd, Namespace: "w"})
			if err != nil {
				t.Fatalf("NewProxy: %v", err)
			}
			w := World{ID: WorldCount, RandomNumber: -7}
			if err := px.Write(ctx, w); err != nil {
				t.Fatalf("Write: %v", err)
			}
			if got, err := px.Read(ctx, w.ID); err != nil || got != w {
				t.Fatalf("Read = %+v, %v; want %+v", got, err, w)
			}
		})
	}

	var ce *ConfigError
	if _, err := NewWorldCodec("gob"); !errors.As(err, &ce) {
		t.Fatalf("unknown codec: expected *ConfigError, got %v", err)
	}
}

func TestProtoWorldSkipsUnknownFields(t *testing.T) {
	b, _ := ProtoWorld{}.Encode(World{ID: 3, RandomNumber: 33})
	b = protowire.AppendTag(b, 9, protowire.BytesType)
	b = protowire.AppendBytes(b, []byte("future"))

	got, err := ProtoWorld{}.Decode(b)
	if err != nil || got != (World{ID: 3, RandomNumber: 33}) {
		t.Fatalf("Decode = %+v, %v", got, err)
	}
	if _, err := (ProtoWorld{}).Decode([]byte{0x08}); err == nil {
		t.Fatalf("expected error for truncated varint")
	}
}

func TestJoinHooks(t *testing.T) {
	a, b := &recHooks{}, &recHooks{}
	h := JoinHooks(a, nil, b)
	h.CacheMiss("k1")
	h.SelfHeal("k2", "corrupt")
	h.WarmFailed(errors.New("x"))
	for _, r := range []*recHooks{a, b} {
		if len(r.misses) != 1 || len(r.healed) != 1 || r.warmErr == nil {
			t.Fatalf("event not fanned out: %+v", r)
		}
	}
}
