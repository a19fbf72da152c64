package environment

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"k8s.io/klog/v2"
	metricsv "k8s.io/metrics/pkg/client/clientset/versioned"

	apis "kubernetes-cluster-env/pkg/api/v1alpha1"
	"kubernetes-cluster-env/pkg/constants"
	"kubernetes-cluster-env/pkg/observation"
	"kubernetes-cluster-env/pkg/reward"
	"kubernetes-cluster-env/pkg/simulator"
	"kubernetes-cluster-env/pkg/telemetry"
)

// Env is a cluster-management environment for RL agents. It either runs the
// fault-injection simulator or reads a real cluster through telemetry.
//
// Env is not safe for concurrent use; callers must not overlap Reset/Step.
type Env struct {
	config  Config
	sim     *simulator.Simulator
	cluster telemetry.Cluster
	scorer  *reward.Calculator

	episodeID     string
	currentStep   int
	totalReward   float64
	state         *apis.ClusterState
	actionHistory []constants.Action
	// ended is set once the episode first reports terminated or truncated.
	ended bool
}

// New creates an environment. In real-cluster mode it builds Kubernetes
// clients from the configured kubeconfig and context.
func New(config Config) (*Env, error) {
	if config.SimulationMode {
		return NewWithCluster(config, nil)
	}

	clients, err := telemetry.NewKubeClients(config.Kubeconfig, config.Context)
	if err != nil {
		return nil, err
	}
	var metrics metricsv.Interface
	if config.UseMetricsServer {
		metrics = clients.Metrics
	}
	return NewWithCluster(config, telemetry.NewKubeInspector(clients.Kube, metrics, config.Namespace))
}

// NewWithCluster creates an environment backed by the given cluster adapter.
// cluster is ignored in simulation mode and required otherwise.
func NewWithCluster(config Config, cluster telemetry.Cluster) (*Env, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if !config.SimulationMode && cluster == nil {
		return nil, fmt.Errorf("real-cluster mode requires a cluster adapter")
	}

	e := &Env{
		config:  config,
		sim:     simulator.NewSimulator(config.Seed),
		cluster: cluster,
		scorer:  reward.NewCalculator(config.Reward),
	}

	klog.V(2).Infof("Created environment: simulation=%v context=%q namespace=%q maxSteps=%d",
		config.SimulationMode, config.Context, config.Namespace, config.MaxSteps)
	return e, nil
}

// Reset starts a new episode. A non-nil seed reseeds the fault draws;
// options are accepted for interface compatibility and ignored.
func (e *Env) Reset(ctx context.Context, seed *int64, options map[string]any) (apis.Observation, apis.StepInfo) {
	if seed != nil {
		e.sim.Seed(*seed)
	}
	if len(options) > 0 {
		klog.V(5).Infof("Ignoring reset options: %v", options)
	}

	e.episodeID = uuid.NewString()
	e.currentStep = 0
	e.totalReward = 0
	e.actionHistory = nil
	e.ended = false

	mode := "real"
	if e.config.SimulationMode {
		mode = "simulation"
		faults := e.sim.Reset()
		for _, f := range faults.List() {
			faultsInjected.WithLabelValues(string(f)).Inc()
		}
	}
	resetsTotal.WithLabelValues(mode).Inc()

	state := e.fetchState(ctx)
	e.state = &state

	info := apis.StepInfo{
		EpisodeID: e.episodeID,
		Step:      e.currentStep,
		Issues:    e.Issues(),
	}
	klog.V(3).Infof("Episode %s reset (%s): issues=%v", e.episodeID, mode, info.Issues)

	return observation.Encode(state), info
}

// Step executes one action and advances the episode.
func (e *Env) Step(ctx context.Context, action constants.Action) apis.StepResult {
	e.currentStep++
	e.actionHistory = append(e.actionHistory, action)

	result := e.execute(ctx, action)

	// The first step of an episode has no previous transition to score.
	var prev *apis.ClusterState
	if e.currentStep > 1 {
		prev = e.state
	}
	state := e.fetchState(ctx)
	e.state = &state

	r := e.scorer.Calculate(prev, state, action, result)
	e.totalReward += r

	terminated := e.terminated()
	truncated := e.currentStep >= e.config.MaxSteps

	outcome := ""
	if !e.ended && (terminated || truncated) {
		e.ended = true
		outcome = "truncated"
		if terminated {
			outcome = "terminated"
		}
	}
	recordStep(action.String(), r, outcome)
	klog.V(4).Infof("Episode %s step %d: action=%s reward=%.2f total=%.2f terminated=%v truncated=%v",
		e.episodeID, e.currentStep, action, r, e.totalReward, terminated, truncated)

	return apis.StepResult{
		Observation: observation.Encode(state),
		Reward:      r,
		Terminated:  terminated,
		Truncated:   truncated,
		Info: apis.StepInfo{
			EpisodeID:    e.episodeID,
			Step:         e.currentStep,
			Action:       action.String(),
			ActionResult: &result,
			TotalReward:  e.totalReward,
			Issues:       e.Issues(),
		},
	}
}

func (e *Env) execute(ctx context.Context, action constants.Action) apis.ActionResult {
	if !e.config.SimulationMode {
		return e.cluster.Execute(ctx, action)
	}

	before := e.sim.Faults()
	result := e.sim.Apply(action)
	for _, f := range before.List() {
		if !e.sim.Faults().Has(f) {
			faultsResolved.WithLabelValues(string(f)).Inc()
		}
	}
	return result
}

func (e *Env) fetchState(ctx context.Context) apis.ClusterState {
	if e.config.SimulationMode {
		return e.sim.State()
	}
	return e.cluster.FetchState(ctx)
}

// terminated is true on catastrophic failure (no ready node) or once every
// tracked issue is resolved.
func (e *Env) terminated() bool {
	if e.state == nil {
		return false
	}
	return e.state.NodesReady == 0 || e.state.IssuesResolved()
}

// Issues lists the current problems. In simulation mode these are the
// active fault tags; otherwise human-readable summaries of the state.
func (e *Env) Issues() []string {
	if e.config.SimulationMode {
		return e.sim.Faults().Strings()
	}

	issues := []string{}
	if e.state == nil {
		return issues
	}
	s := e.state
	if s.NodesNotReady > 0 {
		issues = append(issues, fmt.Sprintf("%d node(s) not ready", s.NodesNotReady))
	}
	if s.PodsFailed > 0 {
		issues = append(issues, fmt.Sprintf("%d pod(s) failed", s.PodsFailed))
	}
	if s.PodsPending > 0 {
		issues = append(issues, fmt.Sprintf("%d pod(s) pending", s.PodsPending))
	}
	if s.HasResourcePressure {
		issues = append(issues, "Resource pressure detected")
	}
	return issues
}

// State returns the current snapshot; ok is false before the first Reset.
func (e *Env) State() (apis.ClusterState, bool) {
	if e.state == nil {
		return apis.ClusterState{}, false
	}
	return *e.state, true
}

// Faults returns the simulator's active fault set.
func (e *Env) Faults() simulator.FaultSet {
	return e.sim.Faults()
}

// ActionHistory returns a copy of the actions taken this episode.
func (e *Env) ActionHistory() []constants.Action {
	out := make([]constants.Action, len(e.actionHistory))
	copy(out, e.actionHistory)
	return out
}

// EpisodeID identifies the current episode; it is empty before Reset.
func (e *Env) EpisodeID() string { return e.episodeID }

// CurrentStep is the number of steps taken since the last Reset.
func (e *Env) CurrentStep() int { return e.currentStep }

// TotalReward is the reward accumulated since the last Reset.
func (e *Env) TotalReward() float64 { return e.totalReward }

// Config returns the configuration the environment was built with.
func (e *Env) Config() Config { return e.config }

// Close releases the environment. It holds no external resources today.
func (e *Env) Close() error {
	klog.V(3).Infof("Closing environment (episode %s)", e.episodeID)
	return nil
}
