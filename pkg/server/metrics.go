package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "clusterenv_api_request_duration_seconds",
			Help:    "Time spent serving API requests",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 5.0, 30.0},
		},
	)

	rateLimited = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "clusterenv_api_rate_limited_total",
			Help: "Number of API requests rejected due to rate limiting",
		},
	)

	activeSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "clusterenv_api_sessions",
			Help: "Open environment sessions",
		},
	)
)
