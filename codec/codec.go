// Package codec holds the value encoders used by worldcache strategies.
//
// The raw strategy stores bare Int32 payloads. The live-object strategy stores
// whole records through one of JSON, Msgpack or CBOR (optionally wrapped in
// LimitCodec), or the protowire codec defined next to the World type.
package codec

// Codec encodes/decodes values V to []byte for storage.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}
