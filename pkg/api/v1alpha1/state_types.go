package v1alpha1

import "kubernetes-cluster-env/pkg/constants"

// ClusterState is a point-in-time snapshot of cluster health. It is built
// fresh on every step and passed by value.
type ClusterState struct {
	NumNodes      int `json:"numNodes"`
	NodesReady    int `json:"nodesReady"`
	NodesNotReady int `json:"nodesNotReady"`

	NumPods     int `json:"numPods"`
	PodsRunning int `json:"podsRunning"`
	PodsPending int `json:"podsPending"`
	PodsFailed  int `json:"podsFailed"`
	PodsUnknown int `json:"podsUnknown"`

	NumDeployments         int `json:"numDeployments"`
	DeploymentsAvailable   int `json:"deploymentsAvailable"`
	DeploymentsUnavailable int `json:"deploymentsUnavailable"`

	CPUUsagePercent    float64 `json:"cpuUsagePercent"`
	MemoryUsagePercent float64 `json:"memoryUsagePercent"`

	RecentEventsWarning int `json:"recentEventsWarning"`
	RecentEventsNormal  int `json:"recentEventsNormal"`

	HasPVCIssues        bool `json:"hasPvcIssues"`
	HasNetworkIssues    bool `json:"hasNetworkIssues"`
	HasResourcePressure bool `json:"hasResourcePressure"`
}

// EmptyClusterState is the all-zero snapshot reported when the cluster
// cannot be read.
func EmptyClusterState() ClusterState {
	return ClusterState{}
}

// Healthy reports whether nothing is failing, pending or not ready.
func (s ClusterState) Healthy() bool {
	return s.PodsFailed == 0 && s.NodesNotReady == 0 && s.PodsPending == 0
}

// IssuesResolved reports whether every tracked issue is cleared.
func (s ClusterState) IssuesResolved() bool {
	return s.PodsFailed == 0 &&
		s.NodesNotReady == 0 &&
		!s.HasPVCIssues &&
		!s.HasNetworkIssues &&
		!s.HasResourcePressure
}

// Observation is the normalized feature vector handed to agents.
type Observation [constants.ObservationDim]float32
