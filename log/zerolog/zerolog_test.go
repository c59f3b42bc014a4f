package zerolog

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/unkn0wn-root/worldcache"
)

func TestJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(&buf, "info")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	l.Debug("dropped", worldcache.Fields{"k": 1})
	l.Error("warm failed", worldcache.Fields{"err": errors.New("redis down")})

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Fatalf("debug line emitted at info level: %s", out)
	}
	for _, want := range []string{`"level":"error"`, `"err":"redis down"`, `"message":"warm failed"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %s in %s", want, out)
		}
	}
}

func TestNewRejectsBadLevel(t *testing.T) {
	if _, err := New(&bytes.Buffer{}, "loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}
