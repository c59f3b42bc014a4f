package wire

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func mustDecode(t *testing.T, b []byte) []byte {
	t.Helper()
	p, err := DecodeRecord(b)
	if err != nil {
		t.Fatalf("DecodeRecord error: %v", err)
	}
	return p
}

func TestRecordRoundTrip(t *testing.T) {
	for _, payload := range [][]byte{nil, []byte("hello"), {0, 1, 2, 3, 4}} {
		enc := EncodeRecord(payload)
		if got := mustDecode(t, enc); !bytes.Equal(got, payload) {
			t.Fatalf("payload mismatch: got %x want %x", got, payload)
		}
	}
}

func TestRecordRejectsTrailingBytes(t *testing.T) {
	enc := append(EncodeRecord([]byte("x")), 0xDE, 0xAD)
	if _, err := DecodeRecord(enc); err == nil {
		t.Fatalf("expected error on trailing bytes")
	}
}

func TestRecordCorruptHeadersAndLengths(t *testing.T) {
	enc := EncodeRecord([]byte("abc"))

	badMagic := append([]byte(nil), enc...)
	badMagic[0] = 'X'
	if _, err := DecodeRecord(badMagic); err == nil {
		t.Fatalf("expected error on bad magic")
	}

	badVer := append([]byte(nil), enc...)
	badVer[4] = version + 1
	if _, err := DecodeRecord(badVer); err == nil {
		t.Fatalf("expected error on bad version")
	}

	badKind := append([]byte(nil), enc...)
	badKind[5] = kindRecord + 1
	if _, err := DecodeRecord(badKind); err == nil {
		t.Fatalf("expected error on bad kind")
	}

	// vlen is at offset 6..9 (4 magic +1 ver +1 kind)
	tooLong := append([]byte(nil), enc...)
	binary.BigEndian.PutUint32(tooLong[6:10], uint32(len("abc")+1))
	if _, err := DecodeRecord(tooLong); err == nil {
		t.Fatalf("expected error on vlen beyond buffer")
	}

	if _, err := DecodeRecord(enc[:len(enc)-1]); err == nil {
		t.Fatalf("expected error on truncated buffer")
	}

	// a raw-strategy int32 payload is not a record
	if _, err := DecodeRecord([]byte{0, 0, 0, 5}); err == nil {
		t.Fatalf("expected error on bare int32")
	}
}

func TestRecordZeroCopyPayload(t *testing.T) {
	enc := EncodeRecord([]byte("Z"))
	p := mustDecode(t, enc)
	p[0] = 'Q'
	if p2 := mustDecode(t, enc); p2[0] != 'Q' {
		t.Fatalf("expected zero-copy slice into enc buffer")
	}
}
