// Package zerolog adapts a zerolog.Logger to worldcache.Logger.
package zerolog

import (
	"io"

	"github.com/rs/zerolog"
	"github.com/unkn0wn-root/worldcache"
)

var _ worldcache.Logger = Logger{}

type Logger struct{ L zerolog.Logger }

// New returns a JSON logger writing to w at the given level.
func New(w io.Writer, level string) (Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return Logger{}, err
	}
	return Logger{L: zerolog.New(w).Level(lvl).With().Timestamp().Logger()}, nil
}

func (z Logger) Debug(msg string, f worldcache.Fields) { emit(z.L.Debug(), msg, f) }
func (z Logger) Info(msg string, f worldcache.Fields)  { emit(z.L.Info(), msg, f) }
func (z Logger) Warn(msg string, f worldcache.Fields)  { emit(z.L.Warn(), msg, f) }
func (z Logger) Error(msg string, f worldcache.Fields) { emit(z.L.Error(), msg, f) }

// emit tolerates the nil event zerolog returns for disabled levels.
func emit(e *zerolog.Event, msg string, f worldcache.Fields) {
	if len(f) > 0 {
		e = e.Fields(map[string]any(f))
	}
	e.Msg(msg)
}
