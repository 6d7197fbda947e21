package types

import "fmt"

// StrategyName identifies a node-group sizing strategy.
type StrategyName string

const (
	// StrategyAdaptive redistributes minimum guarantees away from backoff
	// zones and caps per-zone capacity against the observed launches of all
	// other zones. Recommended for new worker pools.
	StrategyAdaptive StrategyName = "Adaptive"

	// StrategyBackwardCompatible reproduces the legacy static distribution:
	// bounds are fixed at initialization time and backoff zones keep their
	// head-room. Use only for pools that depend on the legacy behavior.
	StrategyBackwardCompatible StrategyName = "BackwardCompatible"
)

// WorkerPoolSpec is the immutable-per-scan configuration of one zone-partitioned
// worker pool.
//
// The spec is supplied by the pool source and is not mutated by the sizing
// engine. A pool violating Validate() never reaches the engine.
type WorkerPoolSpec struct {
	// Name uniquely identifies the pool. Used as the KV key suffix when
	// publishing bounds.
	Name string `yaml:"name" json:"name"`

	// Minimum is the pool-wide floor of machines, distributed over zones.
	Minimum int `yaml:"minimum" json:"minimum"`

	// Maximum is the pool-wide ceiling of machines. Must be >= NumZones so
	// that no zone can be left with a zero static capacity share.
	Maximum int `yaml:"maximum" json:"maximum"`

	// MaxSurge is the number of machines allowed above the desired replica
	// count transiently during a rollout.
	MaxSurge int `yaml:"maxSurge" json:"maxSurge"`

	// MaxUnavailable is the number of machines that may be offline or
	// draining simultaneously during a rollout.
	MaxUnavailable int `yaml:"maxUnavailable" json:"maxUnavailable"`

	// NumZones is the number of availability zones the pool spans.
	NumZones int `yaml:"numZones" json:"numZones"`

	// Strategy selects the sizing algorithm. Empty selects StrategyAdaptive.
	Strategy StrategyName `yaml:"strategy" json:"strategy"`
}

// Validate checks the pool spec invariants enforced upstream of the sizing
// engine.
//
// Rules:
//   - Name must be non-empty
//   - Minimum, Maximum, MaxSurge, MaxUnavailable must be non-negative
//   - NumZones must be positive
//   - Maximum >= NumZones (forbids degenerate zero-capacity zone groups)
//   - Minimum <= Maximum
//   - Strategy must be empty or a known strategy name
//
// Returns:
//   - error: Wraps ErrInvalidPoolSpec with the violated rule, nil if valid
func (s *WorkerPoolSpec) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("%w: pool name is required", ErrInvalidPoolSpec)
	}
	if s.Minimum < 0 || s.Maximum < 0 || s.MaxSurge < 0 || s.MaxUnavailable < 0 {
		return fmt.Errorf("%w: pool %q has negative size fields", ErrInvalidPoolSpec, s.Name)
	}
	if s.NumZones <= 0 {
		return fmt.Errorf("%w: pool %q must span at least one zone, got %d", ErrInvalidPoolSpec, s.Name, s.NumZones)
	}
	if s.Maximum < s.NumZones {
		return fmt.Errorf(
			"%w: pool %q maximum (%d) must be >= number of zones (%d) to avoid zero-capacity groups",
			ErrInvalidPoolSpec, s.Name, s.Maximum, s.NumZones,
		)
	}
	if s.Minimum > s.Maximum {
		return fmt.Errorf("%w: pool %q minimum (%d) exceeds maximum (%d)", ErrInvalidPoolSpec, s.Name, s.Minimum, s.Maximum)
	}

	switch s.Strategy {
	case "", StrategyAdaptive, StrategyBackwardCompatible:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStrategy, s.Strategy)
	}
}

// EffectiveStrategy returns the configured strategy name, defaulting to
// StrategyAdaptive when the field is empty.
func (s *WorkerPoolSpec) EffectiveStrategy() StrategyName {
	if s.Strategy == "" {
		return StrategyAdaptive
	}

	return s.Strategy
}

// ObservedZoneState is the externally supplied view of one zone's node group,
// resolved by the provisioning backend before the scan tick is invoked.
type ObservedZoneState struct {
	// ZoneIndex is the zero-based zone index within the pool.
	ZoneIndex int `json:"zoneIndex"`

	// LaunchedCount is the number of machines currently launched in the zone.
	LaunchedCount int `json:"launchedCount"`

	// Backoff is true if the zone's last scale attempt failed and the zone is
	// temporarily excluded from receiving new launch attempts.
	Backoff bool `json:"backoff"`
}

// NodeGroupState is the per-zone sizing record owned by the sizing engine.
//
// MinSize and MaxSize are recomputed every scan. LaunchedCount and Backoff are
// read-only inputs copied from the observed state. InitialMinSize is the zone's
// share of the pool minimum as distributed at initialization time; the Adaptive
// strategy redistributes from this original value, never from the current one,
// so it is carried on the state instead of being re-derived from the spec.
type NodeGroupState struct {
	// ZoneIndex is the zero-based zone index within the pool.
	ZoneIndex int `json:"zoneIndex"`

	// LaunchedCount mirrors the observed launched machine count.
	LaunchedCount int `json:"launchedCount"`

	// Backoff mirrors the observed backoff flag.
	Backoff bool `json:"backoff"`

	// MinSize is the strategy-computed lower bound for the zone this scan.
	MinSize int `json:"minSize"`

	// MaxSize is the strategy-computed upper bound for the zone this scan.
	MaxSize int `json:"maxSize"`

	// InitialMinSize is the zone's distributed share of the pool minimum,
	// fixed at initialization.
	InitialMinSize int `json:"initialMinSize"`
}

// ScanSnapshot bundles everything a sizing strategy may read during one scan
// cycle: the pool spec and the initialized group baseline.
//
// Snapshots are passed by value; a Resize call must be a pure function of
// (snapshot, observed) so that any scan is independently re-derivable.
type ScanSnapshot struct {
	// Spec is the pool configuration, immutable for the duration of the scan.
	Spec WorkerPoolSpec

	// Groups is the ordered per-zone baseline produced by Initialize. Resize
	// reads InitialMinSize from it and never mutates it.
	Groups []NodeGroupState
}
