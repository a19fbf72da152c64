package rollout

import (
	"bytes"
	"context"
	"math/rand"
	"strings"
	"testing"

	"kubernetes-cluster-env/pkg/constants"
	"kubernetes-cluster-env/pkg/environment"
)

func newEnv(t *testing.T, maxSteps int) *environment.Env {
	t.Helper()
	cfg := environment.DefaultConfig()
	cfg.Seed = 3
	cfg.MaxSteps = maxSteps
	env, err := environment.New(cfg)
	if err != nil {
		t.Fatalf("environment.New: %v", err)
	}
	return env
}

func TestRun_StopsAtEpisodeEnd(t *testing.T) {
	env := newEnv(t, 4)
	var buf bytes.Buffer

	summary, err := Run(context.Background(), env, 10, rand.New(rand.NewSource(1)), &buf)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Steps == 0 || summary.Steps > 4 {
		t.Fatalf("expected 1..4 steps, got %d", summary.Steps)
	}
	if !summary.Terminated && !summary.Truncated {
		t.Errorf("expected the episode to end within maxSteps")
	}
	if summary.Steps != len(summary.Actions) {
		t.Errorf("actions (%d) != steps (%d)", len(summary.Actions), summary.Steps)
	}
	for _, a := range summary.Actions {
		if !a.Valid() {
			t.Errorf("sampled invalid action %d", a)
		}
	}
	if summary.TotalReward != env.TotalReward() {
		t.Errorf("summary reward %.2f != env reward %.2f", summary.TotalReward, env.TotalReward())
	}

	out := buf.String()
	if !strings.Contains(out, "Initial Issues:") || !strings.Contains(out, "Episode finished after") {
		t.Errorf("unexpected output:\n%s", out)
	}
	if got := strings.Count(out, "=== Cluster State"); got != summary.Steps {
		t.Errorf("expected %d renders, got %d", summary.Steps, got)
	}
}

func TestRun_StepBudgetShorterThanEpisode(t *testing.T) {
	env := newEnv(t, constants.DefaultMaxSteps)
	var buf bytes.Buffer

	summary, err := Run(context.Background(), env, 1, rand.New(rand.NewSource(1)), &buf)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Steps != 1 {
		t.Errorf("expected 1 step, got %d", summary.Steps)
	}
}

func TestRun_Cancelled(t *testing.T) {
	env := newEnv(t, 10)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := Run(ctx, env, 10, rand.New(rand.NewSource(1)), &bytes.Buffer{})
	if err == nil {
		t.Fatalf("expected context error")
	}
	if summary.Steps != 0 {
		t.Errorf("expected no steps, got %d", summary.Steps)
	}
}
