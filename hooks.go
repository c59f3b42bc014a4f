package worldcache

import "time"

// Hooks lightweight callbacks for high-signal cache events.
// Implementations MUST be cheap and non-blocking; strategies call them on
// request paths.
type Hooks interface {
	// A raw read found no entry under storageKey.
	CacheMiss(storageKey string)

	// A raw SET XX targeted an absent key; the write was dropped.
	ConditionalWriteSkipped(storageKey string)

	// A proxy record was deleted on read.
	// reason ∈ {"corrupt", "value_decode"}
	SelfHeal(storageKey, reason string)

	// The warm pass finished (rows written) or failed.
	WarmCompleted(rows int, took time.Duration)
	WarmFailed(err error)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) CacheMiss(string)                 {}
func (NopHooks) ConditionalWriteSkipped(string)   {}
func (NopHooks) SelfHeal(string, string)          {}
func (NopHooks) WarmCompleted(int, time.Duration) {}
func (NopHooks) WarmFailed(error)                 {}

// JoinHooks fans every event out to hs in order. nil entries are skipped.
func JoinHooks(hs ...Hooks) Hooks {
	out := make(multiHooks, 0, len(hs))
	for _, h := range hs {
		if h != nil {
			out = append(out, h)
		}
	}
	return out
}

type multiHooks []Hooks

func (m multiHooks) CacheMiss(k string) {
	for _, h := range m {
		h.CacheMiss(k)
	}
}

func (m multiHooks) ConditionalWriteSkipped(k string) {
	for _, h := range m {
		h.ConditionalWriteSkipped(k)
	}
}

func (m multiHooks) SelfHeal(k, reason string) {
	for _, h := range m {
		h.SelfHeal(k, reason)
	}
}

func (m multiHooks) WarmCompleted(rows int, took time.Duration) {
	for _, h := range m {
		h.WarmCompleted(rows, took)
	}
}

func (m multiHooks) WarmFailed(err error) {
	for _, h := range m {
		h.WarmFailed(err)
	}
}
