package worldcache

import (
	"context"
	"strings"
)

const (
	// WorldCount is the number of rows in the World table; ids are 1..WorldCount.
	WorldCount = 10000

	MinQueries = 1
	MaxQueries = 500

	// DefaultPrefix is the raw strategy key prefix.
	DefaultPrefix = "hello-world::"
	// DefaultNamespace is the proxy strategy live-object namespace.
	DefaultNamespace = "World"

	// SyntheticFortuneMessage is appended to every fortune listing.
	SyntheticFortuneMessage = "Additional fortune added at request time."
)

// World is one row of the World table.
type World struct {
	ID           int   `json:"id" msgpack:"id" cbor:"1,keyasint"`
	RandomNumber int32 `json:"randomNumber" msgpack:"randomNumber" cbor:"2,keyasint"`
}

// Fortune is one row of the Fortune table.
type Fortune struct {
	ID      int    `json:"id"`
	Message string `json:"message"`
}

// Store is the relational datastore. It is the source of truth for World rows.
type Store interface {
	ListWorlds(ctx context.Context) ([]World, error)
	GetWorld(ctx context.Context, id int) (World, error)
	ListFortunes(ctx context.Context) ([]Fortune, error)
}

// Kind selects a cache strategy.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindRaw
	KindProxy
)

func (k Kind) String() string {
	switch k {
	case KindRaw:
		return "raw"
	case KindProxy:
		return "proxy"
	default:
		return "unknown"
	}
}

// ParseKind resolves a configured strategy name. Matching is case-insensitive.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "raw":
		return KindRaw, nil
	case "proxy":
		return KindProxy, nil
	case "":
		return KindUnknown, &ConfigError{Key: "cache.strategy", Reason: "strategy is required (raw|proxy)"}
	default:
		return KindUnknown, &ConfigError{Key: "cache.strategy", Value: s, Reason: "unknown strategy (raw|proxy)"}
	}
}

// ValidID reports whether id addresses a World row.
func ValidID(id int) bool { return id >= 1 && id <= WorldCount }

// ClampQueries bounds a requested batch size to [MinQueries, MaxQueries].
func ClampQueries(n int) int {
	return max(MinQueries, min(n, MaxQueries))
}
