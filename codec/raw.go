package codec

import (
	"encoding/binary"
	"fmt"
)

// Int32Size is the encoded length of an Int32 payload.
const Int32Size = 4

// Int32 encodes an int32 as 4 big-endian two's-complement bytes, the layout
// the raw strategy keeps under each row key. There is no header: the row id
// lives in the key, not in the value.
type Int32 struct{}

var _ Codec[int32] = Int32{}

func (Int32) Encode(v int32) ([]byte, error) {
	var b [Int32Size]byte
	binary.BigEndian.PutUint32(b[:], uint32(v))
	return b[:], nil
}

func (Int32) Decode(b []byte) (int32, error) {
	if len(b) != Int32Size {
		return 0, fmt.Errorf("int32 payload: want %d bytes, got %d", Int32Size, len(b))
	}
	return int32(binary.BigEndian.Uint32(b)), nil
}
