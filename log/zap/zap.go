// Package zap adapts a *zap.Logger to worldcache.Logger.
package zap

import (
	"maps"
	"slices"

	"github.com/unkn0wn-root/worldcache"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var _ worldcache.Logger = Logger{}

type Logger struct{ L *zap.Logger }

// New builds a JSON production logger at the given level ("debug", "info", ...).
func New(level string) (Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return Logger{}, err
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	l, err := cfg.Build()
	if err != nil {
		return Logger{}, err
	}
	return Logger{L: l}, nil
}

func (z Logger) Debug(msg string, f worldcache.Fields) { z.L.Debug(msg, zf(f)...) }
func (z Logger) Info(msg string, f worldcache.Fields)  { z.L.Info(msg, zf(f)...) }
func (z Logger) Warn(msg string, f worldcache.Fields)  { z.L.Warn(msg, zf(f)...) }
func (z Logger) Error(msg string, f worldcache.Fields) { z.L.Error(msg, zf(f)...) }

// Sync flushes buffered entries.
func (z Logger) Sync() error { return z.L.Sync() }

func zf(f worldcache.Fields) []zap.Field {
	if len(f) == 0 {
		return nil
	}
	out := make([]zap.Field, 0, len(f))
	for _, k := range slices.Sorted(maps.Keys(f)) {
		if err, ok := f[k].(error); ok {
			out = append(out, zap.NamedError(k, err))
			continue
		}
		out = append(out, zap.Any(k, f[k]))
	}
	return out
}
