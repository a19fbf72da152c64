package telemetry

import (
	"context"

	apis "kubernetes-cluster-env/pkg/api/v1alpha1"
	"kubernetes-cluster-env/pkg/constants"
)

// Inspector reads the health of a cluster. Implementations never return an
// error: any failure degrades to apis.EmptyClusterState().
type Inspector interface {
	FetchState(ctx context.Context) apis.ClusterState
}

// ActionExecutor runs an agent action against a cluster.
type ActionExecutor interface {
	Execute(ctx context.Context, action constants.Action) apis.ActionResult
}

// Cluster is the full capability the environment needs in real-cluster mode.
type Cluster interface {
	Inspector
	ActionExecutor
}
