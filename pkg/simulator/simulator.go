package simulator

import (
	"fmt"
	"math/rand"
	"time"

	"k8s.io/klog/v2"

	apis "kubernetes-cluster-env/pkg/api/v1alpha1"
	"kubernetes-cluster-env/pkg/constants"
)

// Simulator injects faults into a fixed-size virtual cluster and lets
// remediation actions clear them.
//
// Thread-safety: NOT thread-safe. Each environment owns its own Simulator.
type Simulator struct {
	rng    *rand.Rand
	faults FaultSet
}

// NewSimulator creates a simulator with an empty fault set. A zero seed
// picks a time-based seed.
func NewSimulator(seed int64) *Simulator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Simulator{rng: rand.New(rand.NewSource(seed))}
}

// Seed reseeds the random source so the following Reset draws are reproducible.
func (s *Simulator) Seed(seed int64) {
	s.rng = rand.New(rand.NewSource(seed))
}

// Reset clears the fault set and draws every fault independently.
// Draw order is fixed so a given seed always yields the same set.
func (s *Simulator) Reset() FaultSet {
	s.faults = 0
	for _, f := range constants.Faults {
		if s.rng.Float64() < constants.FaultProbabilities[f] {
			s.faults = s.faults.With(f)
		}
	}
	klog.V(4).Infof("Simulation reset: faults=%s", s.faults)
	return s.faults
}

// Faults returns the active fault set.
func (s *Simulator) Faults() FaultSet {
	return s.faults
}

// Inject forces a fault on, regardless of the random draws.
func (s *Simulator) Inject(f constants.Fault) {
	s.faults = s.faults.With(f)
}

// State derives the cluster snapshot from the active faults.
func (s *Simulator) State() apis.ClusterState {
	return StateFor(s.faults)
}

// StateFor maps a fault set to concrete counts and gauges.
func StateFor(faults FaultSet) apis.ClusterState {
	notReady := 0
	if faults.Has(constants.FaultNodeNotReady) {
		notReady = constants.SimNotReadyNodes
	}
	failed := 0
	if faults.Has(constants.FaultPodFailure) {
		failed = constants.SimFailedPods
	}

	pressure := faults.Has(constants.FaultResourcePressure)
	pending := 0
	cpu, mem := constants.SimCPUPercentNominal, constants.SimMemoryPercentNominal
	if pressure {
		pending = constants.SimPendingPods
		cpu, mem = constants.SimCPUPercentPressure, constants.SimMemoryPercentPressure
	}

	unavailable := 0
	if failed > 0 {
		unavailable = constants.SimUnavailableDeployments
	}

	warnings := constants.SimWarningEventsHealthy
	if !faults.Empty() {
		warnings = constants.SimWarningEventsFaulty
	}

	return apis.ClusterState{
		NumNodes:               constants.SimNumNodes,
		NodesReady:             constants.SimNumNodes - notReady,
		NodesNotReady:          notReady,
		NumPods:                constants.SimNumPods,
		PodsRunning:            constants.SimNumPods - failed - pending,
		PodsPending:            pending,
		PodsFailed:             failed,
		PodsUnknown:            0,
		NumDeployments:         constants.SimNumDeployments,
		DeploymentsAvailable:   constants.SimNumDeployments - unavailable,
		DeploymentsUnavailable: unavailable,
		CPUUsagePercent:        cpu,
		MemoryUsagePercent:     mem,
		RecentEventsWarning:    warnings,
		RecentEventsNormal:     constants.SimNormalEvents,
		HasPVCIssues:           faults.Has(constants.FaultPVCIssue),
		HasNetworkIssues:       faults.Has(constants.FaultNetworkIssue),
		HasResourcePressure:    pressure,
	}
}

// Apply executes an action against the simulated cluster. Remediation
// actions clear their matching fault when present; nothing ever fails.
func (s *Simulator) Apply(action constants.Action) apis.ActionResult {
	result := apis.ActionResult{
		Success: true,
		Message: fmt.Sprintf("Executed %s", action),
	}

	target, ok := constants.RemediationTarget(action)
	if !ok {
		return result
	}

	if !s.faults.Has(target) {
		result.Message = noopMessages[action]
		klog.V(4).Infof("Simulation: %s is a no-op (no %s)", action, target)
		return result
	}

	s.faults = s.faults.Without(target)
	result.Message = resolvedMessages[action]
	klog.V(4).Infof("Simulation: %s resolved %s, remaining=%s", action, target, s.faults)
	return result
}

var resolvedMessages = map[constants.Action]string{
	constants.ActionRestartFailedPods:   "Restarted failed pods - issue resolved",
	constants.ActionUncordonNode:        "Uncordoned node - issue resolved",
	constants.ActionScaleDownDeployment: "Scaled down deployment - resource pressure relieved",
}

var noopMessages = map[constants.Action]string{
	constants.ActionRestartFailedPods:   "No failed pods to restart",
	constants.ActionUncordonNode:        "No not-ready node to uncordon",
	constants.ActionScaleDownDeployment: "No resource pressure to relieve",
}
