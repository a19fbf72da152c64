package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	inspectorFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clusterenv_inspector_failures_total",
			Help: "Cluster reads that degraded to placeholder or empty values",
		},
		[]string{"source"},
	)

	inspectorLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "clusterenv_inspector_duration_seconds",
			Help:    "Time spent reading the cluster state",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)
)
