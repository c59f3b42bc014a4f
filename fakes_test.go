package worldcache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	pr "github.com/unkn0wn-root/worldcache/provider"
)

type memProvider struct {
	mu sync.Mutex
	m  map[string][]byte
}

var _ pr.Provider = (*memProvider)(nil)

func newMemProvider() *memProvider { return &memProvider{m: make(map[string][]byte)} }

func (p *memProvider) Get(_ context.Context, key string) ([]byte, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	v, ok := p.m[key]
	return v, ok, nil
}

func (p *memProvider) Set(_ context.Context, key string, value []byte) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.m[key] = value
	return true, nil
}

func (p *memProvider) SetIfExists(_ context.Context, key string, value []byte) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.m[key]; !ok {
		return false, nil
	}
	p.m[key] = value
	return true, nil
}

func (p *memProvider) Del(_ context.Context, key string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.m, key)
	return nil
}

func (p *memProvider) Close(_ context.Context) error { return nil }

func (p *memProvider) len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.m)
}

// memStore is an in-memory Store that counts ListWorlds passes.
type memStore struct {
	worlds   map[int]World
	fortunes []Fortune
	listErr  error
	delay    time.Duration
	lists    atomic.Int32
}

var errNoRow = errors.New("no such world")

func newMemStore(rows ...World) *memStore {
	s := &memStore{worlds: make(map[int]World, len(rows))}
	for _, w := range rows {
		s.worlds[w.ID] = w
	}
	return s
}

func (s *memStore) ListWorlds(context.Context) ([]World, error) {
	s.lists.Add(1)
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]World, 0, len(s.worlds))
	for id := 1; id <= WorldCount; id++ {
		if w, ok := s.worlds[id]; ok {
			out = append(out, w)
		}
	}
	return out, nil
}

func (s *memStore) GetWorld(_ context.Context, id int) (World, error) {
	w, ok := s.worlds[id]
	if !ok {
		return World{}, errNoRow
	}
	return w, nil
}

func (s *memStore) ListFortunes(context.Context) ([]Fortune, error) {
	return s.fortunes, nil
}

// seqRand replays ids: each IntN returns the next value minus one, so the
// drawn World id equals the listed value. It wraps around when exhausted.
type seqRand struct {
	mu   sync.Mutex
	vals []int
	i    int
}

func newSeqRand(vals ...int) *seqRand { return &seqRand{vals: vals} }

func (r *seqRand) IntN(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	v := r.vals[r.i%len(r.vals)]
	r.i++
	return (v - 1) % n
}

type recHooks struct {
	NopHooks
	mu       sync.Mutex
	misses   []string
	skipped  []string
	healed   []string
	warmRows int
	warmErr  error
}

func (h *recHooks) CacheMiss(k string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.misses = append(h.misses, k)
}

func (h *recHooks) ConditionalWriteSkipped(k string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.skipped = append(h.skipped, k)
}

func (h *recHooks) SelfHeal(k, _ string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.healed = append(h.healed, k)
}

func (h *recHooks) WarmCompleted(rows int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.warmRows = rows
}

func (h *recHooks) WarmFailed(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.warmErr = err
}
