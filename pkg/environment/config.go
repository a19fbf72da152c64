package environment

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"kubernetes-cluster-env/pkg/constants"
	"kubernetes-cluster-env/pkg/reward"
)

// Config is the construction configuration of an Env.
type Config struct {
	// Context selects the kubeconfig context in real-cluster mode.
	Context string `yaml:"context" json:"context"`
	// Namespace is passed through to the cluster adapter.
	Namespace      string `yaml:"namespace" json:"namespace"`
	SimulationMode bool   `yaml:"simulationMode" json:"simulationMode"`
	MaxSteps       int    `yaml:"maxSteps" json:"maxSteps"`
	RenderMode     string `yaml:"renderMode" json:"renderMode"`

	Kubeconfig string `yaml:"kubeconfig" json:"kubeconfig"`
	// Seed initializes the fault draws; 0 picks a time-based seed.
	Seed int64 `yaml:"seed" json:"seed"`
	// UseMetricsServer reads CPU/memory from metrics.k8s.io instead of
	// reporting placeholders.
	UseMetricsServer bool `yaml:"useMetricsServer" json:"useMetricsServer"`

	Reward reward.Config `yaml:"reward" json:"reward"`
}

// DefaultConfig returns a simulation-mode configuration.
func DefaultConfig() Config {
	return Config{
		Namespace:      constants.DefaultNamespace,
		SimulationMode: true,
		MaxSteps:       constants.DefaultMaxSteps,
		RenderMode:     constants.DefaultRenderMode,
		Reward:         reward.DefaultConfig(),
	}
}

// Validate checks option values.
func (c Config) Validate() error {
	if c.MaxSteps <= 0 {
		return fmt.Errorf("maxSteps must be positive, got %d", c.MaxSteps)
	}
	if !constants.RenderModes[c.RenderMode] {
		return fmt.Errorf("unsupported render mode %q", c.RenderMode)
	}
	return nil
}

// LoadConfigFile reads a YAML file over DefaultConfig. Fields missing from
// the file keep their defaults.
func LoadConfigFile(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}
