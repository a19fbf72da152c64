package constants

// This file holds the observation layout and normalization constants.

const (
	// ObservationDim is the length of the encoded observation vector.
	ObservationDim = 18

	// NodeCountScale normalizes the absolute node count (not clamped).
	NodeCountScale = 100.0
	// PodCountScale normalizes the absolute pod count (not clamped).
	PodCountScale = 1000.0
	// DeploymentCountScale normalizes the absolute deployment count (not clamped).
	DeploymentCountScale = 100.0
	// EventCountScale normalizes event counters, which are clamped to 1.
	EventCountScale = 100.0
	// PercentScale maps a percentage gauge to [0,1].
	PercentScale = 100.0
)

// Slot indices into the observation vector.
const (
	SlotNumNodes = iota
	SlotNodesReady
	SlotNodesNotReady
	SlotNumPods
	SlotPodsRunning
	SlotPodsPending
	SlotPodsFailed
	SlotPodsUnknown
	SlotNumDeployments
	SlotDeploymentsAvailable
	SlotDeploymentsUnavailable
	SlotCPUUsage
	SlotMemoryUsage
	SlotEventsWarning
	SlotEventsNormal
	SlotPVCIssues
	SlotNetworkIssues
	SlotResourcePressure
)

// UnboundedSlots are the absolute-scale slots that may exceed 1 on clusters
// larger than the normalization constants.
var UnboundedSlots = map[int]bool{
	SlotNumNodes:       true,
	SlotNumPods:        true,
	SlotNumDeployments: true,
}
