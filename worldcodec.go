package worldcache

import (
	"fmt"
	"strings"

	c "github.com/unkn0wn-root/worldcache/codec"
	"google.golang.org/protobuf/encoding/protowire"
)

// NewWorldCodec returns the proxy payload codec registered under name:
// "msgpack" (default), "cbor", "json" or "proto".
func NewWorldCodec(name string) (c.Codec[World], error) {
	switch strings.ToLower(name) {
	case "", "msgpack":
		return c.Msgpack[World]{}, nil
	case "cbor":
		cb, err := c.NewCBOR[World](true)
		if err != nil {
			return nil, &ConfigError{Key: "proxy.codec", Value: name, Err: err}
		}
		return cb, nil
	case "json":
		return c.JSON[World]{}, nil
	case "proto", "protobuf":
		return ProtoWorld{}, nil
	default:
		return nil, &ConfigError{Key: "proxy.codec", Value: name, Reason: "unknown codec (msgpack|cbor|json|proto|protobuf)"}
	}
}

// ProtoWorld encodes a World as the protobuf message
//
//	message World { int64 id = 1; int32 random_number = 2; }
//
// Unknown fields are skipped on decode.
type ProtoWorld struct{}

var _ c.Codec[World] = ProtoWorld{}

const (
	protoFieldID           protowire.Number = 1
	protoFieldRandomNumber protowire.Number = 2
)

func (ProtoWorld) Encode(w World) ([]byte, error) {
	b := make([]byte, 0, 16)
	b = protowire.AppendTag(b, protoFieldID, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(int64(w.ID)))
	b = protowire.AppendTag(b, protoFieldRandomNumber, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(int64(w.RandomNumber)))
	return b, nil
}

func (ProtoWorld) Decode(b []byte) (World, error) {
	var w World
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return World{}, protowire.ParseError(n)
		}
		b = b[n:]
		switch {
		case num == protoFieldID && typ == protowire.VarintType:
			v, m := protowire.ConsumeVarint(b)
			if m < 0 {
				return World{}, protowire.ParseError(m)
			}
			w.ID = int(int64(v))
			b = b[m:]
		case num == protoFieldRandomNumber && typ == protowire.VarintType:
			v, m := protowire.ConsumeVarint(b)
			if m < 0 {
				return World{}, protowire.ParseError(m)
			}
			w.RandomNumber = int32(v)
			b = b[m:]
		default:
			m := protowire.ConsumeFieldValue(num, typ, b)
			if m < 0 {
				return World{}, fmt.Errorf("field %d: %w", num, protowire.ParseError(m))
			}
			b = b[m:]
		}
	}
	return w, nil
}
