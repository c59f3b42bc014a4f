// Package slog adapts a *slog.Logger to worldcache.Logger.
package slog

import (
	"context"
	"io"
	stdslog "log/slog"
	"maps"
	"slices"

	"github.com/unkn0wn-root/worldcache"
)

var _ worldcache.Logger = Logger{}

type Logger struct{ L *stdslog.Logger }

// New returns a JSON handler logger writing to w at the given level.
func New(w io.Writer, level string) (Logger, error) {
	var lvl stdslog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return Logger{}, err
	}
	h := stdslog.NewJSONHandler(w, &stdslog.HandlerOptions{Level: lvl})
	return Logger{L: stdslog.New(h)}, nil
}

func (s Logger) Debug(msg string, f worldcache.Fields) { s.log(stdslog.LevelDebug, msg, f) }
func (s Logger) Info(msg string, f worldcache.Fields)  { s.log(stdslog.LevelInfo, msg, f) }
func (s Logger) Warn(msg string, f worldcache.Fields)  { s.log(stdslog.LevelWarn, msg, f) }
func (s Logger) Error(msg string, f worldcache.Fields) { s.log(stdslog.LevelError, msg, f) }

func (s Logger) log(lvl stdslog.Level, msg string, f worldcache.Fields) {
	s.L.LogAttrs(context.Background(), lvl, msg, attrs(f)...)
}

func attrs(f worldcache.Fields) []stdslog.Attr {
	if len(f) == 0 {
		return nil
	}
	out := make([]stdslog.Attr, 0, len(f))
	for _, k := range slices.Sorted(maps.Keys(f)) {
		out = append(out, stdslog.Any(k, f[k]))
	}
	return out
}
