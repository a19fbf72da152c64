package observation

import (
	apis "kubernetes-cluster-env/pkg/api/v1alpha1"
	"kubernetes-cluster-env/pkg/constants"
)

var slotNames = [constants.ObservationDim]string{
	constants.SlotNumNodes:               "num_nodes",
	constants.SlotNodesReady:             "nodes_ready_ratio",
	constants.SlotNodesNotReady:          "nodes_not_ready_ratio",
	constants.SlotNumPods:                "num_pods",
	constants.SlotPodsRunning:            "pods_running_ratio",
	constants.SlotPodsPending:            "pods_pending_ratio",
	constants.SlotPodsFailed:             "pods_failed_ratio",
	constants.SlotPodsUnknown:            "pods_unknown_ratio",
	constants.SlotNumDeployments:         "num_deployments",
	constants.SlotDeploymentsAvailable:   "deployments_available_ratio",
	constants.SlotDeploymentsUnavailable: "deployments_unavailable_ratio",
	constants.SlotCPUUsage:               "cpu_usage",
	constants.SlotMemoryUsage:            "memory_usage",
	constants.SlotEventsWarning:          "events_warning",
	constants.SlotEventsNormal:           "events_normal",
	constants.SlotPVCIssues:              "has_pvc_issues",
	constants.SlotNetworkIssues:          "has_network_issues",
	constants.SlotResourcePressure:       "has_resource_pressure",
}

// Encode converts a cluster snapshot into the fixed 18-slot observation.
//
// Ratios use max(total, 1) as denominator so an empty category encodes as 0.
// Absolute counts are scaled but not clamped; event counters are clamped to 1.
func Encode(s apis.ClusterState) apis.Observation {
	nodes := denom(s.NumNodes)
	pods := denom(s.NumPods)
	deployments := denom(s.NumDeployments)

	var obs apis.Observation
	obs[constants.SlotNumNodes] = float32(float64(s.NumNodes) / constants.NodeCountScale)
	obs[constants.SlotNodesReady] = float32(float64(s.NodesReady) / nodes)
	obs[constants.SlotNodesNotReady] = float32(float64(s.NodesNotReady) / nodes)

	obs[constants.SlotNumPods] = float32(float64(s.NumPods) / constants.PodCountScale)
	obs[constants.SlotPodsRunning] = float32(float64(s.PodsRunning) / pods)
	obs[constants.SlotPodsPending] = float32(float64(s.PodsPending) / pods)
	obs[constants.SlotPodsFailed] = float32(float64(s.PodsFailed) / pods)
	obs[constants.SlotPodsUnknown] = float32(float64(s.PodsUnknown) / pods)

	obs[constants.SlotNumDeployments] = float32(float64(s.NumDeployments) / constants.DeploymentCountScale)
	obs[constants.SlotDeploymentsAvailable] = float32(float64(s.DeploymentsAvailable) / deployments)
	obs[constants.SlotDeploymentsUnavailable] = float32(float64(s.DeploymentsUnavailable) / deployments)

	obs[constants.SlotCPUUsage] = float32(s.CPUUsagePercent / constants.PercentScale)
	obs[constants.SlotMemoryUsage] = float32(s.MemoryUsagePercent / constants.PercentScale)

	obs[constants.SlotEventsWarning] = float32(clampOne(float64(s.RecentEventsWarning) / constants.EventCountScale))
	obs[constants.SlotEventsNormal] = float32(clampOne(float64(s.RecentEventsNormal) / constants.EventCountScale))

	obs[constants.SlotPVCIssues] = flag(s.HasPVCIssues)
	obs[constants.SlotNetworkIssues] = flag(s.HasNetworkIssues)
	obs[constants.SlotResourcePressure] = flag(s.HasResourcePressure)

	return obs
}

// SlotNames returns the label of every observation slot in layout order.
func SlotNames() []string {
	out := make([]string, len(slotNames))
	copy(out, slotNames[:])
	return out
}

// Bounds returns the declared observation box. Absolute-count slots may
// exceed High on large clusters.
func Bounds() (low, high float32) {
	return 0, 1
}

func denom(total int) float64 {
	if total <= 0 {
		return 1
	}
	return float64(total)
}

func clampOne(v float64) float64 {
	if v > 1 {
		return 1
	}
	return v
}

func flag(b bool) float32 {
	if b {
		return 1
	}
	return 0
}
