package constants

import (
	"fmt"
	"strconv"
	"strings"
)

// Action is a discrete cluster-management action an agent can take.
type Action int

const (
	// Diagnostic actions
	ActionGetNodes Action = iota
	ActionGetPods
	ActionGetEvents
	ActionGetDeployments
	ActionCheckLogs
	ActionDescribeUnhealthy

	// Remediation actions
	ActionRestartFailedPods
	ActionScaleUpDeployment
	ActionScaleDownDeployment
	ActionDrainNode
	ActionUncordonNode

	// Investigation actions
	ActionTopNodes
	ActionTopPods
	ActionGetResourceQuotas

	// No-op
	ActionWait

	// NumActions is the size of the discrete action space.
	NumActions = int(ActionWait) + 1
)

// ActionCategory groups actions by intent.
type ActionCategory string

const (
	CategoryDiagnostic    ActionCategory = "diagnostic"
	CategoryRemediation   ActionCategory = "remediation"
	CategoryInvestigation ActionCategory = "investigation"
	CategoryNoop          ActionCategory = "noop"
)

var actionNames = [NumActions]string{
	ActionGetNodes:            "GET_NODES",
	ActionGetPods:             "GET_PODS",
	ActionGetEvents:           "GET_EVENTS",
	ActionGetDeployments:      "GET_DEPLOYMENTS",
	ActionCheckLogs:           "CHECK_LOGS",
	ActionDescribeUnhealthy:   "DESCRIBE_UNHEALTHY",
	ActionRestartFailedPods:   "RESTART_FAILED_PODS",
	ActionScaleUpDeployment:   "SCALE_UP_DEPLOYMENT",
	ActionScaleDownDeployment: "SCALE_DOWN_DEPLOYMENT",
	ActionDrainNode:           "DRAIN_NODE",
	ActionUncordonNode:        "UNCORDON_NODE",
	ActionTopNodes:            "TOP_NODES",
	ActionTopPods:             "TOP_PODS",
	ActionGetResourceQuotas:   "GET_RESOURCE_QUOTAS",
	ActionWait:                "WAIT",
}

// Valid reports whether a is inside the declared action space.
func (a Action) Valid() bool {
	return a >= 0 && int(a) < NumActions
}

func (a Action) String() string {
	if !a.Valid() {
		return fmt.Sprintf("ACTION(%d)", int(a))
	}
	return actionNames[a]
}

// Category returns the action group; out-of-range actions have no category.
func (a Action) Category() ActionCategory {
	switch {
	case a >= ActionGetNodes && a <= ActionDescribeUnhealthy:
		return CategoryDiagnostic
	case a >= ActionRestartFailedPods && a <= ActionUncordonNode:
		return CategoryRemediation
	case a >= ActionTopNodes && a <= ActionGetResourceQuotas:
		return CategoryInvestigation
	case a == ActionWait:
		return CategoryNoop
	}
	return ""
}

// ActionNames lists action names in index order.
func ActionNames() []string {
	out := make([]string, NumActions)
	copy(out, actionNames[:])
	return out
}

// ParseAction accepts either an action index ("6") or a name
// ("RESTART_FAILED_PODS", case-insensitive).
func ParseAction(s string) (Action, error) {
	s = strings.TrimSpace(s)
	if i, err := strconv.Atoi(s); err == nil {
		a := Action(i)
		if !a.Valid() {
			return 0, fmt.Errorf("action index %d out of range [0,%d)", i, NumActions)
		}
		return a, nil
	}
	for i, name := range actionNames {
		if strings.EqualFold(name, s) {
			return Action(i), nil
		}
	}
	return 0, fmt.Errorf("unknown action %q", s)
}
