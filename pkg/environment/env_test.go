package environment

import (
	"bytes"
	"context"
	"math"
	"strings"
	"testing"

	dto "github.com/prometheus/client_model/go"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/kubernetes/fake"

	"kubernetes-cluster-env/pkg/constants"
	"kubernetes-cluster-env/pkg/simulator"
	"kubernetes-cluster-env/pkg/telemetry"
)

func simEnv(t *testing.T, mutate func(*Config)) *Env {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Seed = 1
	if mutate != nil {
		mutate(&cfg)
	}
	e, err := NewWithCluster(cfg, nil)
	if err != nil {
		t.Fatalf("NewWithCluster: %v", err)
	}
	return e
}

// seedFor finds a reset seed whose fault draw equals want.
func seedFor(t *testing.T, want simulator.FaultSet) int64 {
	t.Helper()
	for seed := int64(1); seed < 10000; seed++ {
		s := simulator.NewSimulator(seed)
		if s.Reset() == want {
			return seed
		}
	}
	t.Fatalf("no seed produces %s", want)
	return 0
}

func node(name string, ready bool) *corev1.Node {
	status := corev1.ConditionFalse
	if ready {
		status = corev1.ConditionTrue
	}
	return &corev1.Node{
		ObjectMeta: metav1.ObjectMeta{Name: name},
		Status: corev1.NodeStatus{Conditions: []corev1.NodeCondition{
			{Type: corev1.NodeReady, Status: status},
		}},
	}
}

func pod(name string, phase corev1.PodPhase) *corev1.Pod {
	return &corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{Namespace: "default", Name: name},
		Status:     corev1.PodStatus{Phase: phase},
	}
}

func realEnv(t *testing.T, maxSteps int, objects ...runtime.Object) *Env {
	t.Helper()
	cfg := DefaultConfig()
	cfg.SimulationMode = false
	cfg.MaxSteps = maxSteps
	insp := telemetry.NewKubeInspector(fake.NewSimpleClientset(objects...), nil, cfg.Namespace)
	e, err := NewWithCluster(cfg, insp)
	if err != nil {
		t.Fatalf("NewWithCluster: %v", err)
	}
	return e
}

func TestReset_DeterministicWithSeed(t *testing.T) {
	ctx := context.Background()
	for seed := int64(1); seed <= 30; seed++ {
		a, b := simEnv(t, nil), simEnv(t, nil)
		s1, s2 := seed, seed
		obsA, infoA := a.Reset(ctx, &s1, nil)
		obsB, infoB := b.Reset(ctx, &s2, nil)

		if obsA != obsB {
			t.Fatalf("seed %d: observations differ", seed)
		}
		if strings.Join(infoA.Issues, ",") != strings.Join(infoB.Issues, ",") {
			t.Fatalf("seed %d: issues differ: %v vs %v", seed, infoA.Issues, infoB.Issues)
		}
		stA, _ := a.State()
		stB, _ := b.State()
		if stA != stB {
			t.Fatalf("seed %d: states differ", seed)
		}
		if infoA.EpisodeID == "" || infoA.EpisodeID == infoB.EpisodeID {
			t.Errorf("episode IDs should be unique and set: %q %q", infoA.EpisodeID, infoB.EpisodeID)
		}
	}
}

func TestObservationShape(t *testing.T) {
	e := simEnv(t, nil)
	ctx := context.Background()
	obs, _ := e.Reset(ctx, nil, nil)
	if len(obs) != constants.ObservationDim {
		t.Fatalf("len(obs) = %d", len(obs))
	}

	for i := 0; i < 50; i++ {
		res := e.Step(ctx, constants.Action(i%constants.NumActions))
		for slot, v := range res.Observation {
			if v < 0 || math.IsNaN(float64(v)) {
				t.Fatalf("slot %d = %v", slot, v)
			}
			if !constants.UnboundedSlots[slot] && v > 1 {
				t.Fatalf("slot %d = %v > 1", slot, v)
			}
		}
	}
}

func TestFirstStepRewardIsZero(t *testing.T) {
	ctx := context.Background()
	for seed := int64(1); seed <= 100; seed++ {
		for _, a := range []constants.Action{constants.ActionRestartFailedPods, constants.ActionWait} {
			e := simEnv(t, nil)
			s := seed
			e.Reset(ctx, &s, nil)
			if res := e.Step(ctx, a); res.Reward != 0.0 {
				t.Fatalf("seed %d action %s: first reward = %v, want 0", seed, a, res.Reward)
			}
		}
	}
}

func TestRestartResolvesPodFailure(t *testing.T) {
	ctx := context.Background()
	seed := seedFor(t, simulator.NewFaultSet(constants.FaultPodFailure))

	e := simEnv(t, nil)
	_, info := e.Reset(ctx, &seed, nil)
	if len(info.Issues) != 1 || info.Issues[0] != string(constants.FaultPodFailure) {
		t.Fatalf("issues after reset = %v", info.Issues)
	}

	first := e.Step(ctx, constants.ActionWait)
	if first.Reward != 0 || first.Terminated {
		t.Fatalf("first step = %+v", first)
	}

	res := e.Step(ctx, constants.ActionRestartFailedPods)
	if math.Abs(res.Reward-54.9) > 1e-9 {
		t.Fatalf("reward = %v, want 54.9", res.Reward)
	}
	if !res.Terminated {
		t.Error("episode should terminate once every issue is resolved")
	}
	if len(res.Info.Issues) != 0 {
		t.Errorf("issues = %v, want none", res.Info.Issues)
	}
	if st, _ := e.State(); st.PodsFailed != 0 {
		t.Errorf("PodsFailed = %d", st.PodsFailed)
	}
	if res.Info.ActionResult == nil || res.Info.ActionResult.Message != "Restarted failed pods - issue resolved" {
		t.Errorf("action result = %+v", res.Info.ActionResult)
	}
	if math.Abs(res.Info.TotalReward-54.9) > 1e-9 || res.Info.Step != 2 || res.Info.Action != "RESTART_FAILED_PODS" {
		t.Errorf("info = %+v", res.Info)
	}

	// A second restart is a no-op.
	before := e.Faults()
	again := e.Step(ctx, constants.ActionRestartFailedPods)
	if e.Faults() != before || !again.Info.ActionResult.Success {
		t.Errorf("repeat restart changed faults or failed: %+v", again.Info.ActionResult)
	}
}

func TestIssuesEmptyIffNoFaults(t *testing.T) {
	ctx := context.Background()
	e := simEnv(t, nil)
	for seed := int64(1); seed <= 200; seed++ {
		s := seed
		_, info := e.Reset(ctx, &s, nil)
		if (len(info.Issues) == 0) != e.Faults().Empty() {
			t.Fatalf("seed %d: issues=%v faults=%s", seed, info.Issues, e.Faults())
		}
		if info.Issues == nil {
			t.Fatalf("seed %d: issues should be non-nil", seed)
		}
	}
}

func TestTerminatesWhenNoNodeReady(t *testing.T) {
	e := realEnv(t, 100,
		node("n1", false),
		node("n2", false),
		pod("a", corev1.PodRunning),
	)
	ctx := context.Background()
	e.Reset(ctx, nil, nil)

	res := e.Step(ctx, constants.ActionGetNodes)
	if !res.Terminated {
		t.Fatal("expected termination with zero ready nodes")
	}
	if res.Truncated {
		t.Error("should not be truncated at step 1")
	}
}

func TestTruncatesAtMaxSteps(t *testing.T) {
	e := realEnv(t, 3,
		node("n1", true),
		pod("a", corev1.PodRunning),
		pod("b", corev1.PodFailed),
	)
	ctx := context.Background()
	e.Reset(ctx, nil, nil)

	for step := 1; step <= 3; step++ {
		res := e.Step(ctx, constants.ActionWait)
		if res.Terminated {
			t.Fatalf("step %d: unexpected termination", step)
		}
		if res.Truncated != (step == 3) {
			t.Fatalf("step %d: truncated = %v", step, res.Truncated)
		}
	}
}

func episodesEnded(t *testing.T, outcome string) float64 {
	t.Helper()
	m := &dto.Metric{}
	if err := episodesTotal.WithLabelValues(outcome).Write(m); err != nil {
		t.Fatalf("read episodes counter: %v", err)
	}
	return m.GetCounter().GetValue()
}

func TestEpisodeEndCountedOnce(t *testing.T) {
	e := realEnv(t, 2,
		node("n1", true),
		pod("a", corev1.PodFailed),
	)
	ctx := context.Background()
	before := episodesEnded(t, "truncated")

	e.Reset(ctx, nil, nil)
	for i := 0; i < 5; i++ {
		e.Step(ctx, constants.ActionWait)
	}
	if got := episodesEnded(t, "truncated") - before; got != 1 {
		t.Fatalf("expected 1 finished episode after stepping past the end, got %v", got)
	}

	e.Reset(ctx, nil, nil)
	e.Step(ctx, constants.ActionWait)
	e.Step(ctx, constants.ActionWait)
	if got := episodesEnded(t, "truncated") - before; got != 2 {
		t.Errorf("expected a second finished episode after reset, got %v", got)
	}
}

func TestRealMode_IssuesAndDryRun(t *testing.T) {
	e := realEnv(t, 100,
		node("n1", true),
		node("n2", false),
		pod("a", corev1.PodFailed),
		pod("b", corev1.PodPending),
	)
	ctx := context.Background()
	_, info := e.Reset(ctx, nil, nil)

	want := []string{
		"1 node(s) not ready",
		"1 pod(s) failed",
		"1 pod(s) pending",
		"Resource pressure detected",
	}
	if strings.Join(info.Issues, "|") != strings.Join(want, "|") {
		t.Fatalf("issues = %v, want %v", info.Issues, want)
	}

	res := e.Step(ctx, constants.ActionDrainNode)
	if !res.Info.ActionResult.Success || !strings.Contains(res.Info.ActionResult.Message, "dry-run") {
		t.Errorf("drain result = %+v", res.Info.ActionResult)
	}
}

func TestActionHistoryAndReset(t *testing.T) {
	e := simEnv(t, nil)
	ctx := context.Background()
	e.Reset(ctx, nil, nil)
	e.Step(ctx, constants.ActionGetPods)
	e.Step(ctx, constants.ActionWait)

	h := e.ActionHistory()
	if len(h) != 2 || h[0] != constants.ActionGetPods || h[1] != constants.ActionWait {
		t.Fatalf("history = %v", h)
	}
	h[0] = constants.ActionDrainNode
	if e.ActionHistory()[0] != constants.ActionGetPods {
		t.Error("ActionHistory must return a copy")
	}

	e.Reset(ctx, nil, nil)
	if len(e.ActionHistory()) != 0 || e.CurrentStep() != 0 || e.TotalReward() != 0 {
		t.Errorf("reset did not clear episode context")
	}
}

func TestRender(t *testing.T) {
	seed := seedFor(t, simulator.NewFaultSet())
	e := simEnv(t, nil)
	ctx := context.Background()

	var buf bytes.Buffer
	if err := e.Render(&buf); err != nil || buf.Len() != 0 {
		t.Fatalf("render before reset wrote %q (err=%v)", buf.String(), err)
	}

	e.Reset(ctx, &seed, nil)
	e.Step(ctx, constants.ActionTopNodes)
	if err := e.Render(&buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"=== Cluster State (Step 1) ===",
		"Nodes: 5/5 ready",
		"Pods: 50 running, 0 pending, 0 failed",
		"Deployments: 10/10 available",
		"Resources: CPU 40.0%, Memory 35.0%",
		"Last Action: TOP_NODES",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("render output missing %q:\n%s", want, out)
		}
	}

	quiet := simEnv(t, func(c *Config) { c.RenderMode = constants.RenderModeRGBArray })
	quiet.Reset(ctx, nil, nil)
	buf.Reset()
	_ = quiet.Render(&buf)
	if buf.Len() != 0 {
		t.Errorf("rgb_array mode should not print, got %q", buf.String())
	}
}

func TestNewWithCluster_Validation(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SimulationMode = false
	if _, err := NewWithCluster(cfg, nil); err == nil {
		t.Error("expected error for real mode without cluster")
	}

	cfg = DefaultConfig()
	cfg.MaxSteps = 0
	if _, err := NewWithCluster(cfg, nil); err == nil {
		t.Error("expected error for maxSteps=0")
	}

	cfg = DefaultConfig()
	cfg.RenderMode = "ansi"
	if _, err := NewWithCluster(cfg, nil); err == nil {
		t.Error("expected error for unknown render mode")
	}
}
