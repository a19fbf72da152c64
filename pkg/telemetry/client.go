package telemetry

import (
	"fmt"

	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/tools/clientcmd"
	metricsv "k8s.io/metrics/pkg/client/clientset/versioned"
)

// KubeClients bundles the clientsets used by KubeInspector.
type KubeClients struct {
	Kube    kubernetes.Interface
	Metrics metricsv.Interface
}

// NewKubeClients builds clientsets from a kubeconfig path and an optional
// context name. An empty path follows the usual discovery: KUBECONFIG,
// ~/.kube/config, then in-cluster configuration.
func NewKubeClients(kubeconfig, kubeContext string) (*KubeClients, error) {
	rules := clientcmd.NewDefaultClientConfigLoadingRules()
	if kubeconfig != "" {
		rules.ExplicitPath = kubeconfig
	}
	overrides := &clientcmd.ConfigOverrides{}
	if kubeContext != "" {
		overrides.CurrentContext = kubeContext
	}

	cfg, err := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(rules, overrides).ClientConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to build kube config: %w", err)
	}

	kubeClient, err := kubernetes.NewForConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create kubernetes client: %w", err)
	}
	metricsClient, err := metricsv.NewForConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics client: %w", err)
	}

	return &KubeClients{Kube: kubeClient, Metrics: metricsClient}, nil
}
