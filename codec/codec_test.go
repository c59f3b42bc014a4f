package codec

import (
	"strings"
	"testing"
)

type rec struct {
	ID           int   `json:"id" msgpack:"id" cbor:"id"`
	RandomNumber int32 `json:"randomNumber" msgpack:"randomNumber" cbor:"randomNumber"`
}

func TestInt32RoundTrip(t *testing.T) {
	for _, v := range []int32{0, 1, 9, 10000, -1, 1 << 30} {
		b, err := Int32{}.Encode(v)
		if err != nil {
			t.Fatalf("Encode(%d): %v", v, err)
		}
		if len(b) != Int32Size {
			t.Fatalf("Encode(%d) len=%d", v, len(b))
		}
		got, err := Int32{}.Decode(b)
		if err != nil || got != v {
			t.Fatalf("Decode: got %d err=%v want %d", got, err, v)
		}
	}
}

func TestInt32BigEndianLayout(t *testing.T) {
	b, _ := Int32{}.Encode(0x01020304)
	want := []byte{1, 2, 3, 4}
	for i := range want {
		if b[i] != want[i] {
			t.Fatalf("byte %d: got %x want %x", i, b[i], want[i])
		}
	}
}

func TestInt32RejectsWrongLength(t *testing.T) {
	for _, b := range [][]byte{nil, {1, 2, 3}, {1, 2, 3, 4, 5}} {
		if _, err := (Int32{}).Decode(b); err == nil {
			t.Fatalf("expected error for %d bytes", len(b))
		}
	}
}

func TestRecordCodecs(t *testing.T) {
	cases := map[string]Codec[rec]{
		"json":    JSON[rec]{},
		"msgpack": Msgpack[rec]{},
		"cbor":    MustCBOR[rec](true),
	}
	in := rec{ID: 42, RandomNumber: 7331}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			b, err := c.Encode(in)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			out, err := c.Decode(b)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if out != in {
				t.Fatalf("got %+v want %+v", out, in)
			}
		})
	}
}

func TestLimitCodec(t *testing.T) {
	lc := LimitCodec[rec]{Inner: JSON[rec]{}, MaxDecode: 16}
	if _, err := lc.Decode([]byte(strings.Repeat(" ", 17))); err == nil {
		t.Fatalf("expected size error")
	}
	b, _ := lc.Encode(rec{ID: 1, RandomNumber: 2})
	lc.MaxDecode = 0
	if got, err := lc.Decode(b); err != nil || got.ID != 1 {
		t.Fatalf("unlimited decode: got %+v err=%v", got, err)
	}
}
