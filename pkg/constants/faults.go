package constants

// This file defines the fault tags the simulator can inject.

// Fault is a named simulated cluster issue.
type Fault string

const (
	FaultPodFailure       Fault = "pod_failure"
	FaultNodeNotReady     Fault = "node_not_ready"
	FaultResourcePressure Fault = "resource_pressure"
	FaultPVCIssue         Fault = "pvc_issue"
	FaultNetworkIssue     Fault = "network_issue"
)

// Faults lists every fault tag in draw order. Issue lists and fault sets
// are reported in this order.
var Faults = []Fault{
	FaultPodFailure,
	FaultNodeNotReady,
	FaultResourcePressure,
	FaultPVCIssue,
	FaultNetworkIssue,
}

// FaultProbabilities are the independent per-episode injection probabilities.
var FaultProbabilities = map[Fault]float64{
	FaultPodFailure:       0.30,
	FaultNodeNotReady:     0.20,
	FaultResourcePressure: 0.20,
	FaultPVCIssue:         0.10,
	FaultNetworkIssue:     0.10,
}

// RemediationTarget returns the fault an action clears in simulation, if any.
func RemediationTarget(a Action) (Fault, bool) {
	switch a {
	case ActionRestartFailedPods:
		return FaultPodFailure, true
	case ActionUncordonNode:
		return FaultNodeNotReady, true
	case ActionScaleDownDeployment:
		return FaultResourcePressure, true
	}
	return "", false
}
