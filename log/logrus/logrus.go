// Package logrus adapts a *logrus.Entry to worldcache.Logger.
package logrus

import (
	"io"

	"github.com/sirupsen/logrus"
	"github.com/unkn0wn-root/worldcache"
)

var _ worldcache.Logger = Logger{}

type Logger struct{ E *logrus.Entry }

// New returns a JSON logger writing to w at the given level.
func New(w io.Writer, level string) (Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return Logger{}, err
	}
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(lvl)
	l.SetFormatter(&logrus.JSONFormatter{})
	return Logger{E: logrus.NewEntry(l)}, nil
}

func (l Logger) Debug(msg string, f worldcache.Fields) { l.with(f).Debug(msg) }
func (l Logger) Info(msg string, f worldcache.Fields)  { l.with(f).Info(msg) }
func (l Logger) Warn(msg string, f worldcache.Fields)  { l.with(f).Warn(msg) }
func (l Logger) Error(msg string, f worldcache.Fields) { l.with(f).Error(msg) }

func (l Logger) with(f worldcache.Fields) *logrus.Entry {
	if len(f) == 0 {
		return l.E
	}
	return l.E.WithFields(logrus.Fields(f))
}
