package reward

// Config holds the reward weights. Decrease/increase weights are applied
// per unit of change; CPUReliefBonus, StepPenalty and HealthyBonus are flat.
type Config struct {
	FailedPodDecrease    float64 `yaml:"failedPodDecrease" json:"failedPodDecrease"`
	FailedPodIncrease    float64 `yaml:"failedPodIncrease" json:"failedPodIncrease"`
	PendingPodDecrease   float64 `yaml:"pendingPodDecrease" json:"pendingPodDecrease"`
	NotReadyNodeDecrease float64 `yaml:"notReadyNodeDecrease" json:"notReadyNodeDecrease"`
	NotReadyNodeIncrease float64 `yaml:"notReadyNodeIncrease" json:"notReadyNodeIncrease"`

	// CPUReliefBonus is paid when CPU usage drops from above CPUReliefThreshold.
	CPUReliefBonus     float64 `yaml:"cpuReliefBonus" json:"cpuReliefBonus"`
	CPUReliefThreshold float64 `yaml:"cpuReliefThreshold" json:"cpuReliefThreshold"`

	StepPenalty  float64 `yaml:"stepPenalty" json:"stepPenalty"`
	HealthyBonus float64 `yaml:"healthyBonus" json:"healthyBonus"`
}

// DefaultConfig returns the standard reward weights.
func DefaultConfig() Config {
	return Config{
		FailedPodDecrease:    10.0,
		FailedPodIncrease:    15.0,
		PendingPodDecrease:   5.0,
		NotReadyNodeDecrease: 20.0,
		NotReadyNodeIncrease: 25.0,
		CPUReliefBonus:       2.0,
		CPUReliefThreshold:   70.0,
		StepPenalty:          0.1,
		HealthyBonus:         5.0,
	}
}
