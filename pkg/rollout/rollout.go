package rollout

import (
	"context"
	"fmt"
	"io"
	"math/rand"

	"k8s.io/klog/v2"

	apis "kubernetes-cluster-env/pkg/api/v1alpha1"
	"kubernetes-cluster-env/pkg/constants"
)

// Env is the subset of environment.Env a rollout drives.
type Env interface {
	Reset(ctx context.Context, seed *int64, options map[string]any) (apis.Observation, apis.StepInfo)
	Step(ctx context.Context, action constants.Action) apis.StepResult
	Render(w io.Writer) error
}

// Summary describes a finished rollout.
type Summary struct {
	EpisodeID   string
	Steps       int
	TotalReward float64
	Terminated  bool
	Truncated   bool
	Actions     []constants.Action
}

// Run resets env and plays up to maxSteps uniformly random actions drawn
// from rng, rendering to w after each step. It stops early when the
// episode ends or ctx is cancelled.
func Run(ctx context.Context, env Env, maxSteps int, rng *rand.Rand, w io.Writer) (Summary, error) {
	obs, info := env.Reset(ctx, nil, nil)
	summary := Summary{EpisodeID: info.EpisodeID}

	if _, err := fmt.Fprintf(w, "Initial Observation: %v\nInitial Issues: %v\n", obs, info.Issues); err != nil {
		return summary, err
	}

	for i := 0; i < maxSteps; i++ {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		action := constants.Action(rng.Intn(constants.NumActions))
		res := env.Step(ctx, action)

		summary.Steps++
		summary.TotalReward = res.Info.TotalReward
		summary.Actions = append(summary.Actions, action)

		klog.V(4).Infof("Rollout step %d: %s reward=%.2f", summary.Steps, action, res.Reward)
		if err := env.Render(w); err != nil {
			return summary, err
		}

		if res.Terminated || res.Truncated {
			summary.Terminated = res.Terminated
			summary.Truncated = res.Truncated
			if _, err := fmt.Fprintf(w, "\nEpisode finished after %d steps\n", summary.Steps); err != nil {
				return summary, err
			}
			break
		}
	}
	return summary, nil
}
