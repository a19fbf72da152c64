package reward

import (
	"k8s.io/klog/v2"

	apis "kubernetes-cluster-env/pkg/api/v1alpha1"
	"kubernetes-cluster-env/pkg/constants"
)

// Breakdown is the per-term decomposition of one reward.
type Breakdown struct {
	FailedPods    float64
	PendingPods   float64
	NotReadyNodes float64
	CPURelief     float64
	StepPenalty   float64
	HealthyBonus  float64
}

// Total sums every term.
func (b Breakdown) Total() float64 {
	return b.FailedPods + b.PendingPods + b.NotReadyNodes + b.CPURelief + b.StepPenalty + b.HealthyBonus
}

// Calculator scores state transitions.
type Calculator struct {
	config Config
}

func NewCalculator(config Config) *Calculator {
	return &Calculator{config: config}
}

// Calculate returns the reward for moving from prev to curr. A nil prev
// (the first step of an episode) always scores exactly 0.
//
// action and result are accepted for scoring extensions; the current weights
// only look at the states.
func (c *Calculator) Calculate(
	prev *apis.ClusterState,
	curr apis.ClusterState,
	action constants.Action,
	result apis.ActionResult,
) float64 {
	if prev == nil {
		return 0.0
	}
	b := c.Breakdown(*prev, curr)
	total := b.Total()

	klog.V(5).Infof(
		"Reward: action=%s success=%v failed=%.1f pending=%.1f nodes=%.1f cpu=%.1f step=%.1f healthy=%.1f total=%.2f",
		action, result.Success, b.FailedPods, b.PendingPods, b.NotReadyNodes,
		b.CPURelief, b.StepPenalty, b.HealthyBonus, total,
	)
	return total
}

// Breakdown scores every term of the prev→curr transition independently.
func (c *Calculator) Breakdown(prev, curr apis.ClusterState) Breakdown {
	cfg := c.config
	var b Breakdown

	if d := prev.PodsFailed - curr.PodsFailed; d > 0 {
		b.FailedPods += cfg.FailedPodDecrease * float64(d)
	} else if d < 0 {
		b.FailedPods -= cfg.FailedPodIncrease * float64(-d)
	}

	if d := prev.PodsPending - curr.PodsPending; d > 0 {
		b.PendingPods += cfg.PendingPodDecrease * float64(d)
	}

	if d := prev.NodesNotReady - curr.NodesNotReady; d > 0 {
		b.NotReadyNodes += cfg.NotReadyNodeDecrease * float64(d)
	} else if d < 0 {
		b.NotReadyNodes -= cfg.NotReadyNodeIncrease * float64(-d)
	}

	if curr.CPUUsagePercent < prev.CPUUsagePercent && prev.CPUUsagePercent > cfg.CPUReliefThreshold {
		b.CPURelief = cfg.CPUReliefBonus
	}

	b.StepPenalty = -cfg.StepPenalty

	if curr.Healthy() {
		b.HealthyBonus = cfg.HealthyBonus
	}
	return b
}
