package telemetry

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"text/tabwriter"
	"time"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/klog/v2"

	apis "kubernetes-cluster-env/pkg/api/v1alpha1"
	"kubernetes-cluster-env/pkg/constants"
)

// Execute runs a read-only action. Listing actions return a text table in
// Data; write actions are never sent to the cluster.
func (k *KubeInspector) Execute(ctx context.Context, action constants.Action) apis.ActionResult {
	var (
		data string
		msg  string
		err  error
	)

	switch action {
	case constants.ActionGetNodes:
		data, err = k.describeNodes(ctx)
		msg = "Retrieved node information"
	case constants.ActionGetPods:
		data, err = k.describePods(ctx)
		msg = "Retrieved pod information"
	case constants.ActionGetEvents:
		data, err = k.describeEvents(ctx)
		msg = "Retrieved cluster events"
	case constants.ActionWait:
		return apis.ActionResult{Success: true, Message: "Waiting..."}
	default:
		klog.V(4).Infof("Dry-run: skipping %s against the cluster", action)
		return apis.ActionResult{
			Success: true,
			Message: fmt.Sprintf("Would execute: %s (dry-run mode for safety)", action),
		}
	}

	if err != nil {
		klog.Warningf("Action %s failed: %v", action, err)
		inspectorFailures.WithLabelValues("action").Inc()
		return apis.ActionResult{Success: false, Message: fmt.Sprintf("Error: %v", err)}
	}
	return apis.ActionResult{Success: true, Message: msg, Data: data}
}

func (k *KubeInspector) describeNodes(ctx context.Context) (string, error) {
	nodes, err := k.listNodes(ctx)
	if err != nil {
		return "", err
	}
	return table([]string{"NAME", "STATUS"}, func(row func(...string)) {
		for i := range nodes.Items {
			status := "NotReady"
			if nodeReady(&nodes.Items[i]) {
				status = "Ready"
			}
			if nodes.Items[i].Spec.Unschedulable {
				status += ",SchedulingDisabled"
			}
			row(nodes.Items[i].Name, status)
		}
	}), nil
}

func (k *KubeInspector) describePods(ctx context.Context) (string, error) {
	pods, err := k.listPods(ctx)
	if err != nil {
		return "", err
	}
	return table([]string{"NAMESPACE", "NAME", "STATUS"}, func(row func(...string)) {
		for _, pod := range pods.Items {
			row(pod.Namespace, pod.Name, string(pod.Status.Phase))
		}
	}), nil
}

func (k *KubeInspector) describeEvents(ctx context.Context) (string, error) {
	events, err := k.listEvents(ctx)
	if err != nil {
		return "", err
	}

	items := events.Items
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].LastTimestamp.Before(&items[j].LastTimestamp)
	})

	return table([]string{"NAMESPACE", "LAST SEEN", "TYPE", "REASON", "OBJECT", "MESSAGE"}, func(row func(...string)) {
		for _, ev := range items {
			row(ev.Namespace, lastSeen(ev), ev.Type, ev.Reason,
				fmt.Sprintf("%s/%s", ev.InvolvedObject.Kind, ev.InvolvedObject.Name), ev.Message)
		}
	}), nil
}

func lastSeen(ev corev1.Event) string {
	if ev.LastTimestamp.IsZero() {
		return "<unknown>"
	}
	return ev.LastTimestamp.UTC().Format(time.RFC3339)
}

func table(header []string, fill func(row func(...string))) string {
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 0, 3, ' ', 0)
	writeRow := func(cols ...string) {
		for i, c := range cols {
			if i > 0 {
				fmt.Fprint(w, "\t")
			}
			fmt.Fprint(w, c)
		}
		fmt.Fprintln(w)
	}
	writeRow(header...)
	fill(writeRow)
	_ = w.Flush()
	return buf.String()
}
