package zonesizer

import "github.com/gardener/gardener-sub001/types"

// Re-export types from the internal types package.
//
// This file provides a stable, backward-compatible public API for the library's
// core types and interfaces. It uses type aliases to re-export definitions
// from the `types` subpackage, which contains the actual implementations.
//
// This pattern solves the "import cycle" problem by allowing internal packages
// to depend on `types` without depending on the root `zonesizer` package,
// while still providing a convenient `zonesizer.Logger`, `zonesizer.Hooks`,
// etc. for users.
type (
	StrategyName       = types.StrategyName
	WorkerPoolSpec     = types.WorkerPoolSpec
	ObservedZoneState  = types.ObservedZoneState
	NodeGroupState     = types.NodeGroupState
	ScanSnapshot       = types.ScanSnapshot
	RolloutObservation = types.RolloutObservation
	RolloutPhase       = types.RolloutPhase
)

// Re-export interfaces from the internal types package for convenience.
type (
	SizingStrategy   = types.SizingStrategy
	PoolSource       = types.PoolSource
	ZoneObserver     = types.ZoneObserver
	RolloutObserver  = types.RolloutObserver
	MetricsCollector = types.MetricsCollector
	Logger           = types.Logger
	Hooks            = types.Hooks
)

// Re-export strategy name constants from the internal types package.
const (
	StrategyAdaptive           = types.StrategyAdaptive
	StrategyBackwardCompatible = types.StrategyBackwardCompatible
)

// Re-export rollout phase constants from the internal types package.
const (
	RolloutIdle       = types.RolloutIdle
	RolloutInProgress = types.RolloutInProgress
	RolloutCompleted  = types.RolloutCompleted
)
