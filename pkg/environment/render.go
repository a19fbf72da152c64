package environment

import (
	"fmt"
	"io"

	"kubernetes-cluster-env/pkg/constants"
)

// Render writes a text summary of the current state to w in "human" mode.
// Other modes, and an env that has not been reset, render nothing.
func (e *Env) Render(w io.Writer) error {
	if e.config.RenderMode != constants.RenderModeHuman || e.state == nil {
		return nil
	}
	s := e.state

	lines := []string{
		fmt.Sprintf("\n=== Cluster State (Step %d) ===", e.currentStep),
		fmt.Sprintf("Nodes: %d/%d ready", s.NodesReady, s.NumNodes),
		fmt.Sprintf("Pods: %d running, %d pending, %d failed", s.PodsRunning, s.PodsPending, s.PodsFailed),
		fmt.Sprintf("Deployments: %d/%d available", s.DeploymentsAvailable, s.NumDeployments),
		fmt.Sprintf("Resources: CPU %.1f%%, Memory %.1f%%", s.CPUUsagePercent, s.MemoryUsagePercent),
		fmt.Sprintf("Total Reward: %.2f", e.totalReward),
	}
	if n := len(e.actionHistory); n > 0 {
		lines = append(lines, fmt.Sprintf("Last Action: %s", e.actionHistory[n-1]))
	}

	for _, l := range lines {
		if _, err := fmt.Fprintln(w, l); err != nil {
			return err
		}
	}
	return nil
}
