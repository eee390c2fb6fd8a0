package sync

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricDrainTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fastnote",
		Subsystem: "sync",
		Name:      "drain_total",
		Help:      "Number of drain runs by trigger.",
	}, []string{"trigger"})

	metricEntriesApplied = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "fastnote",
		Subsystem: "sync",
		Name:      "entries_applied_total",
		Help:      "Queue entries successfully applied to the remote.",
	})

	metricEntriesFailed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "fastnote",
		Subsystem: "sync",
		Name:      "entries_failed_total",
		Help:      "Queue entry apply attempts that failed.",
	})

	metricEntriesDropped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "fastnote",
		Subsystem: "sync",
		Name:      "entries_dropped_total",
		Help:      "Queue entries dropped after reaching the retry cap.",
	})

	metricDrainDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "fastnote",
		Subsystem: "sync",
		Name:      "drain_duration_seconds",
		Help:      "Wall time of a drain run.",
		Buckets:   prometheus.DefBuckets,
	})

	metricQueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "fastnote",
		Subsystem: "sync",
		Name:      "queue_depth",
		Help:      "Outbound queue depth after the last drain.",
	})
)
