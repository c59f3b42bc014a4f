// Package sloghooks logs worldcache hook events through log/slog, sampling
// the per-request events.
package sloghooks

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/unkn0wn-root/worldcache"
)

type Options struct {
	// Sampling to avoid floods; 0/1 = log all.
	MissEvery     uint64
	SkippedEvery  uint64
	SelfHealEvery uint64
	// Optional key redactor. nil logs keys verbatim; use HashKey to hide them.
	Redact func(string) string
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	missCtr     atomic.Uint64
	skippedCtr  atomic.Uint64
	selfHealCtr atomic.Uint64
}

var _ worldcache.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

// HashKey is a redactor that logs a SHA-256 prefix instead of the key.
func HashKey(k string) string {
	sum := sha256.Sum256([]byte(k))
	return hex.EncodeToString(sum[:8])
}

func (h *Hooks) redact(k string) string {
	if h.opts.Redact != nil {
		return h.opts.Redact(k)
	}
	return k
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) CacheMiss(storageKey string) {
	if h.l == nil || !sample(h.opts.MissEvery, &h.missCtr) {
		return
	}
	h.l.Warn("worldcache.cache_miss", "key", h.redact(storageKey))
}

func (h *Hooks) ConditionalWriteSkipped(storageKey string) {
	if h.l == nil || !sample(h.opts.SkippedEvery, &h.skippedCtr) {
		return
	}
	h.l.Debug("worldcache.conditional_write_skipped", "key", h.redact(storageKey))
}

func (h *Hooks) SelfHeal(storageKey, reason string) {
	if h.l == nil || !sample(h.opts.SelfHealEvery, &h.selfHealCtr) {
		return
	}
	h.l.Warn("worldcache.self_heal",
		"key", h.redact(storageKey),
		"reason", reason)
}

func (h *Hooks) WarmCompleted(rows int, took time.Duration) {
	if h.l == nil {
		return
	}
	h.l.Info("worldcache.warm_completed",
		"rows", rows,
		"took", took)
}

func (h *Hooks) WarmFailed(err error) {
	if h.l == nil {
		return
	}
	h.l.Error("worldcache.warm_failed", "err", err)
}
