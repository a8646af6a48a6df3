package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	refreshTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "apptlens_refresh_total",
			Help: "Total number of committed refresh cycles.",
		},
	)
	refreshSupersededTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "apptlens_refresh_superseded_total",
			Help: "Total number of refresh results discarded because a newer filter change arrived first.",
		},
	)
	refreshDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "apptlens_refresh_duration_seconds",
			Help:    "Wall time of one full refresh cycle (filter pass plus all aggregations).",
			Buckets: prometheus.DefBuckets,
		},
	)
	filteredRecords = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "apptlens_filtered_records",
			Help: "Number of records passing the most recently committed filter.",
		},
	)
	overallNoShowRate = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "apptlens_overall_noshow_rate",
			Help: "Overall no-show rate of the most recently committed refresh.",
		},
	)
)
