package environment

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	stepsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clusterenv_steps_total",
			Help: "Environment steps by action",
		},
		[]string{"action"},
	)

	stepReward = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "clusterenv_step_reward",
			Help:    "Reward returned per step",
			Buckets: []float64{-50, -25, -10, -1, 0, 1, 5, 10, 25, 50, 100},
		},
	)

	resetsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clusterenv_resets_total",
			Help: "Episode resets by mode",
		},
		[]string{"mode"},
	)

	episodesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clusterenv_episodes_finished_total",
			Help: "Finished episodes by outcome",
		},
		[]string{"outcome"},
	)

	faultsInjected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clusterenv_faults_injected_total",
			Help: "Faults drawn at reset in simulation mode",
		},
		[]string{"fault"},
	)

	faultsResolved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clusterenv_faults_resolved_total",
			Help: "Faults cleared by remediation actions in simulation mode",
		},
		[]string{"fault"},
	)
)

// recordStep updates the step collectors. outcome is non-empty only on the
// step that first ends an episode.
func recordStep(action string, reward float64, outcome string) {
	stepsTotal.WithLabelValues(action).Inc()
	stepReward.Observe(reward)

	if outcome != "" {
		episodesTotal.WithLabelValues(outcome).Inc()
	}
}
