package constants

import "time"

// This file holds defaults shared by the environment, simulator and server.

const (
	// DefaultNamespace is passed through to the cluster adapter.
	DefaultNamespace = "default"
	// DefaultMaxSteps is the episode horizon used for truncation.
	DefaultMaxSteps = 100

	// RenderModeHuman prints a text summary on Render.
	RenderModeHuman = "human"
	// RenderModeRGBArray is accepted for compatibility; it renders nothing.
	RenderModeRGBArray = "rgb_array"
	// DefaultRenderMode is the render mode used when none is configured.
	DefaultRenderMode = RenderModeHuman

	// ClusterCallTimeout bounds every call to the real cluster.
	ClusterCallTimeout = 30 * time.Second

	// PlaceholderUsagePercent is reported for CPU and memory when real usage
	// is not collected.
	PlaceholderUsagePercent = 50.0
)

// RenderModes lists the accepted render modes.
var RenderModes = map[string]bool{
	RenderModeHuman:    true,
	RenderModeRGBArray: true,
}

// Simulated fleet shape and fault magnitudes.
const (
	SimNumNodes       = 5
	SimNumPods        = 50
	SimNumDeployments = 10

	SimNotReadyNodes          = 1
	SimFailedPods             = 5
	SimPendingPods            = 3
	SimUnavailableDeployments = 1

	SimCPUPercentNominal     = 40.0
	SimMemoryPercentNominal  = 35.0
	SimCPUPercentPressure    = 80.0
	SimMemoryPercentPressure = 75.0

	SimWarningEventsFaulty  = 10
	SimWarningEventsHealthy = 2
	SimNormalEvents         = 20
)
