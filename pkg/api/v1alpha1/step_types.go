package v1alpha1

// ActionResult describes the outcome of executing one action.
type ActionResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    string `json:"data,omitempty"`
}

// StepInfo is the metadata returned alongside every reset and step.
type StepInfo struct {
	EpisodeID    string        `json:"episodeId"`
	Step         int           `json:"step"`
	Action       string        `json:"action,omitempty"`
	ActionResult *ActionResult `json:"actionResult,omitempty"`
	TotalReward  float64       `json:"totalReward"`
	Issues       []string      `json:"issues"`
}

// StepResult is the full outcome of Env.Step.
type StepResult struct {
	Observation Observation `json:"observation"`
	Reward      float64     `json:"reward"`
	Terminated  bool        `json:"terminated"`
	Truncated   bool        `json:"truncated"`
	Info        StepInfo    `json:"info"`
}
