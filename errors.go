package worldcache

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidID is returned for ids outside [1, WorldCount].
	ErrInvalidID = errors.New("worldcache: id out of range")
	// ErrCacheMiss is returned by the raw strategy when a key is absent.
	ErrCacheMiss = errors.New("worldcache: cache miss")
	// ErrCorrupt is returned when a cached value cannot be decoded.
	ErrCorrupt = errors.New("worldcache: corrupt cache entry")
	// ErrNotWarmed is returned by cache reads and writes before Warm succeeded.
	ErrNotWarmed = errors.New("worldcache: cache not warmed")
)

// MissError carries the key that missed. errors.Is(err, ErrCacheMiss) holds.
type MissError struct {
	Key string
}

func (e *MissError) Error() string { return fmt.Sprintf("worldcache: cache miss for %q", e.Key) }
func (e *MissError) Unwrap() error { return ErrCacheMiss }

// ConfigError reports an invalid or missing configuration value. It is raised
// before any component is constructed.
type ConfigError struct {
	Key    string
	Value  string
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	msg := "config " + e.Key
	if e.Value != "" {
		msg += fmt.Sprintf("=%q", e.Value)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConfigError) Unwrap() error { return e.Err }

// InitError reports a startup failure: datastore unreachable, cache
// unreachable or a failed warm pass.
type InitError struct {
	Op  string
	Err error
}

func (e *InitError) Error() string {
	if e.Err == nil {
		return "init " + e.Op + " failed"
	}
	return fmt.Sprintf("init %s: %v", e.Op, e.Err)
}

func (e *InitError) Unwrap() error { return e.Err }
