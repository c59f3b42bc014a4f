// Package prom exports worldcache hook events as Prometheus metrics.
package prom

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/unkn0wn-root/worldcache"
)

type Hooks struct {
	misses   prometheus.Counter
	skipped  prometheus.Counter
	healed   *prometheus.CounterVec
	warmRows prometheus.Gauge
	warmDur  prometheus.Histogram
	warmErrs prometheus.Counter
}

var _ worldcache.Hooks = (*Hooks)(nil)

// New registers the metrics with reg under the "worldcache" namespace.
// strategy is attached as a constant label.
func New(reg prometheus.Registerer, strategy string) *Hooks {
	f := promauto.With(reg)
	labels := prometheus.Labels{"strategy": strategy}
	return &Hooks{
		misses: f.NewCounter(prometheus.CounterOpts{
			Namespace: "worldcache", Name: "cache_misses_total",
			Help: "Raw reads that found no cache entry.", ConstLabels: labels,
		}),
		skipped: f.NewCounter(prometheus.CounterOpts{
			Namespace: "worldcache", Name: "conditional_writes_skipped_total",
			Help: "SET XX updates dropped because the key was absent.", ConstLabels: labels,
		}),
		healed: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "worldcache", Name: "self_heals_total",
			Help: "Live-object records deleted on read.", ConstLabels: labels,
		}, []string{"reason"}),
		warmRows: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "worldcache", Name: "warm_rows",
			Help: "Rows written by the last successful warm pass.", ConstLabels: labels,
		}),
		warmDur: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "worldcache", Name: "warm_duration_seconds",
			Help: "Duration of the warm pass.", ConstLabels: labels,
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
		warmErrs: f.NewCounter(prometheus.CounterOpts{
			Namespace: "worldcache", Name: "warm_failures_total",
			Help: "Failed warm passes.", ConstLabels: labels,
		}),
	}
}

func (h *Hooks) CacheMiss(string)               { h.misses.Inc() }
func (h *Hooks) ConditionalWriteSkipped(string) { h.skipped.Inc() }
func (h *Hooks) SelfHeal(_, reason string)      { h.healed.WithLabelValues(reason).Inc() }
func (h *Hooks) WarmFailed(error)               { h.warmErrs.Inc() }

func (h *Hooks) WarmCompleted(rows int, took time.Duration) {
	h.warmRows.Set(float64(rows))
	h.warmDur.Observe(took.Seconds())
}

// RegisterProviderStats exports a provider's own hit and miss counters,
// read from hits and misses at scrape time.
func RegisterProviderStats(reg prometheus.Registerer, provider string, hits, misses func() uint64) {
	f := promauto.With(reg)
	labels := prometheus.Labels{"provider": provider}
	f.NewCounterFunc(prometheus.CounterOpts{
		Namespace: "worldcache", Name: "provider_hits_total",
		Help: "Provider-side lookups that found an entry.", ConstLabels: labels,
	}, func() float64 { return float64(hits()) })
	f.NewCounterFunc(prometheus.CounterOpts{
		Namespace: "worldcache", Name: "provider_misses_total",
		Help: "Provider-side lookups that found no entry.", ConstLabels: labels,
	}, func() float64 { return float64(misses()) })
}
