// Package asynchook moves worldcache hook delivery off the request path.
// Events are queued to a fixed worker pool and dropped when the queue is full.
//
//	raw := sloghooks.New(slog.Default(), sloghooks.Options{MissEvery: 100})
//	hooks := asynchook.New(raw, 1, 1000) // 1 worker; queue 1000 events
//	defer hooks.Close()
//
//	strat, _ := worldcache.NewRaw(worldcache.RawOptions{Provider: p, Hooks: hooks})
package asynchook

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/unkn0wn-root/worldcache"
)

type Hooks struct {
	inner   worldcache.Hooks
	q       chan func()
	wg      sync.WaitGroup
	once    sync.Once
	dropped atomic.Uint64
}

var _ worldcache.Hooks = (*Hooks)(nil)

func New(inner worldcache.Hooks, workers, qlen int) *Hooks {
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for range workers {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

// Close drains queued events and stops the workers. Events raised after
// Close are dropped.
func (h *Hooks) Close() {
	h.once.Do(func() {
		close(h.q)
		h.wg.Wait()
	})
}

// Dropped returns the number of events discarded on a full queue.
func (h *Hooks) Dropped() uint64 { return h.dropped.Load() }

func (h *Hooks) try(f func()) {
	defer func() {
		// send on closed channel after Close
		if recover() != nil {
			h.dropped.Add(1)
		}
	}()
	select {
	case h.q <- f:
	default:
		h.dropped.Add(1)
	}
}

func (h *Hooks) CacheMiss(k string) { h.try(func() { h.inner.CacheMiss(k) }) }
func (h *Hooks) ConditionalWriteSkipped(k string) {
	h.try(func() { h.inner.ConditionalWriteSkipped(k) })
}
func (h *Hooks) SelfHeal(k, r string) { h.try(func() { h.inner.SelfHeal(k, r) }) }
func (h *Hooks) WarmCompleted(n int, d time.Duration) {
	h.try(func() { h.inner.WarmCompleted(n, d) })
}
func (h *Hooks) WarmFailed(err error) { h.try(func() { h.inner.WarmFailed(err) }) }
