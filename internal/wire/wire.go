package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
)

const (
	version    byte = 1
	kindRecord byte = 1

	hdrLen = 4 + 1 + 1 + 4
)

var (
	ErrCorrupt = errors.New("wire: corrupt record")
	magic4     = [...]byte{'L', 'V', 'O', 'B'}
)

func hasMagic(b []byte) bool {
	return len(b) >= 4 && bytes.Equal(b[:4], magic4[:])
}

// Record: magic(4) | ver(1) | kind(1=record) | vlen(u32 be) | payload(vlen)
//
// Live objects are stored framed so a foreign value under a record key
// (another writer, a raw int32, a truncated write) is detected instead of being
// handed to the codec.
func EncodeRecord(payload []byte) []byte {
	var buf bytes.Buffer
	buf.Grow(hdrLen + len(payload))

	buf.Write(magic4[:])
	buf.WriteByte(version)
	buf.WriteByte(kindRecord)

	var u4 [4]byte
	binary.BigEndian.PutUint32(u4[:], uint32(len(payload)))
	buf.Write(u4[:])

	buf.Write(payload)
	return buf.Bytes()
}

// DecodeRecord returns the payload slice of a framed record (zero-copy).
// Trailing bytes after the declared payload are rejected.
func DecodeRecord(b []byte) ([]byte, error) {
	if len(b) < hdrLen || !hasMagic(b) || b[4] != version || b[5] != kindRecord {
		return nil, ErrCorrupt
	}
	off := 6
	vlen := int(binary.BigEndian.Uint32(b[off : off+4]))
	off += 4
	if vlen < 0 || vlen != len(b)-off {
		return nil, ErrCorrupt
	}
	return b[off : off+vlen], nil
}
