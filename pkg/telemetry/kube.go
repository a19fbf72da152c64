package telemetry

import (
	"context"
	"fmt"
	"time"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/klog/v2"
	metricsv "k8s.io/metrics/pkg/client/clientset/versioned"

	apis "kubernetes-cluster-env/pkg/api/v1alpha1"
	"kubernetes-cluster-env/pkg/constants"
)

// KubeInspector reads cluster health through the Kubernetes API. It is
// read-only: write actions are reported as dry-runs.
type KubeInspector struct {
	kubeClient    kubernetes.Interface
	metricsClient metricsv.Interface
	namespace     string
	callTimeout   time.Duration
}

// NewKubeInspector creates an inspector. metrics may be nil, in which case
// CPU and memory usage are reported as placeholders.
func NewKubeInspector(kube kubernetes.Interface, metrics metricsv.Interface, namespace string) *KubeInspector {
	klog.V(2).Infof("Cluster inspector configured for namespace %q (metrics-server=%v); listings span all namespaces",
		namespace, metrics != nil)
	return &KubeInspector{
		kubeClient:    kube,
		metricsClient: metrics,
		namespace:     namespace,
		callTimeout:   constants.ClusterCallTimeout,
	}
}

// FetchState lists nodes, pods, deployments and events. Any failure yields
// the empty state; nothing is retried.
func (k *KubeInspector) FetchState(ctx context.Context) apis.ClusterState {
	start := time.Now()
	state, err := k.collect(ctx)
	inspectorLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		klog.Warningf("Failed to read cluster state for namespace %q, reporting empty state: %v", k.namespace, err)
		inspectorFailures.WithLabelValues("state").Inc()
		return apis.EmptyClusterState()
	}
	return state
}

func (k *KubeInspector) collect(ctx context.Context) (apis.ClusterState, error) {
	nodes, err := k.listNodes(ctx)
	if err != nil {
		return apis.ClusterState{}, fmt.Errorf("list nodes: %w", err)
	}
	pods, err := k.listPods(ctx)
	if err != nil {
		return apis.ClusterState{}, fmt.Errorf("list pods: %w", err)
	}
	deployments, err := k.listDeployments(ctx)
	if err != nil {
		return apis.ClusterState{}, fmt.Errorf("list deployments: %w", err)
	}
	events, err := k.listEvents(ctx)
	if err != nil {
		return apis.ClusterState{}, fmt.Errorf("list events: %w", err)
	}

	var state apis.ClusterState

	state.NumNodes = len(nodes.Items)
	for i := range nodes.Items {
		if nodeReady(&nodes.Items[i]) {
			state.NodesReady++
		}
	}
	state.NodesNotReady = state.NumNodes - state.NodesReady

	state.NumPods = len(pods.Items)
	for _, pod := range pods.Items {
		switch pod.Status.Phase {
		case corev1.PodRunning:
			state.PodsRunning++
		case corev1.PodPending:
			state.PodsPending++
		case corev1.PodFailed:
			state.PodsFailed++
		case corev1.PodUnknown:
			state.PodsUnknown++
		}
	}

	state.NumDeployments = len(deployments.Items)
	for i := range deployments.Items {
		if deploymentAvailable(&deployments.Items[i]) {
			state.DeploymentsAvailable++
		}
	}
	state.DeploymentsUnavailable = state.NumDeployments - state.DeploymentsAvailable

	for _, ev := range events.Items {
		switch ev.Type {
		case corev1.EventTypeWarning:
			state.RecentEventsWarning++
		case corev1.EventTypeNormal:
			state.RecentEventsNormal++
		}
	}

	state.CPUUsagePercent, state.MemoryUsagePercent = k.usage(ctx, nodes.Items)

	// PVC and network health are not inspected yet.
	state.HasPVCIssues = false
	state.HasNetworkIssues = false
	state.HasResourcePressure = state.PodsPending > 0

	klog.V(4).Infof("Cluster state: nodes=%d/%d pods=%d running=%d pending=%d failed=%d deployments=%d/%d",
		state.NodesReady, state.NumNodes, state.NumPods, state.PodsRunning, state.PodsPending,
		state.PodsFailed, state.DeploymentsAvailable, state.NumDeployments)

	return state, nil
}

func (k *KubeInspector) listNodes(ctx context.Context) (*corev1.NodeList, error) {
	ctx, cancel := context.WithTimeout(ctx, k.callTimeout)
	defer cancel()
	return k.kubeClient.CoreV1().Nodes().List(ctx, metav1.ListOptions{})
}

func (k *KubeInspector) listPods(ctx context.Context) (*corev1.PodList, error) {
	ctx, cancel := context.WithTimeout(ctx, k.callTimeout)
	defer cancel()
	return k.kubeClient.CoreV1().Pods(metav1.NamespaceAll).List(ctx, metav1.ListOptions{})
}

func (k *KubeInspector) listDeployments(ctx context.Context) (*appsv1.DeploymentList, error) {
	ctx, cancel := context.WithTimeout(ctx, k.callTimeout)
	defer cancel()
	return k.kubeClient.AppsV1().Deployments(metav1.NamespaceAll).List(ctx, metav1.ListOptions{})
}

func (k *KubeInspector) listEvents(ctx context.Context) (*corev1.EventList, error) {
	ctx, cancel := context.WithTimeout(ctx, k.callTimeout)
	defer cancel()
	return k.kubeClient.CoreV1().Events(metav1.NamespaceAll).List(ctx, metav1.ListOptions{})
}

// usage returns cluster-wide CPU and memory usage percentages from
// metrics-server, or the placeholders when it is not configured or fails.
func (k *KubeInspector) usage(ctx context.Context, nodes []corev1.Node) (float64, float64) {
	if k.metricsClient == nil {
		return constants.PlaceholderUsagePercent, constants.PlaceholderUsagePercent
	}

	ctx, cancel := context.WithTimeout(ctx, k.callTimeout)
	defer cancel()

	nodeMetrics, err := k.metricsClient.MetricsV1beta1().NodeMetricses().List(ctx, metav1.ListOptions{})
	if err != nil {
		klog.Warningf("Failed to fetch node metrics, using placeholders: %v", err)
		inspectorFailures.WithLabelValues("metrics").Inc()
		return constants.PlaceholderUsagePercent, constants.PlaceholderUsagePercent
	}

	var allocCPU, allocMem, usedCPU, usedMem int64
	for _, node := range nodes {
		allocCPU += node.Status.Allocatable.Cpu().MilliValue()
		allocMem += node.Status.Allocatable.Memory().Value()
	}
	for _, nm := range nodeMetrics.Items {
		usedCPU += nm.Usage.Cpu().MilliValue()
		usedMem += nm.Usage.Memory().Value()
	}

	if allocCPU == 0 || allocMem == 0 {
		klog.V(4).Info("Nodes report no allocatable resources, using placeholders")
		return constants.PlaceholderUsagePercent, constants.PlaceholderUsagePercent
	}
	return percent(usedCPU, allocCPU), percent(usedMem, allocMem)
}

func percent(used, total int64) float64 {
	p := float64(used) / float64(total) * 100
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

func nodeReady(node *corev1.Node) bool {
	for _, cond := range node.Status.Conditions {
		if cond.Type == corev1.NodeReady && cond.Status == corev1.ConditionTrue {
			return true
		}
	}
	return false
}

func deploymentAvailable(d *appsv1.Deployment) bool {
	want := int32(1)
	if d.Spec.Replicas != nil {
		want = *d.Spec.Replicas
	}
	return d.Status.AvailableReplicas >= want
}
