package strategy

import (
	"github.com/gardener/gardener-sub001/types"
)

// BackwardCompatible implements the legacy static zone distribution.
type BackwardCompatible struct{}

var _ types.SizingStrategy = (*BackwardCompatible)(nil)

// NewBackwardCompatible creates the legacy static sizing strategy.
//
// The strategy distributes the pool minimum and maximum over the zones once,
// at initialization, and holds the bounds there for the lifetime of the pool.
// Backoff zones keep their head-room: capacity is never reassigned to healthy
// zones, so progress stalls once the healthy zones hit their own static
// maxima. This is an accepted limitation of the legacy behavior; new pools
// should use NewAdaptive.
//
// Returns:
//   - *BackwardCompatible: Initialized strategy
//
// Example:
//
//	sizer := strategy.NewBackwardCompatible()
//	groups, err := sizer.Initialize(spec)
func NewBackwardCompatible() *BackwardCompatible {
	return &BackwardCompatible{}
}

// Initialize distributes the pool minimum and maximum over the zones.
//
// For each zone i:
//
//	minSize[i] = DistributeOverZones(i, spec.Minimum, spec.NumZones)
//	maxSize[i] = DistributeOverZones(i, spec.Maximum, spec.NumZones)
//
// The spec precondition Maximum >= NumZones guarantees every zone receives a
// positive maximum; a spec violating it is rejected here rather than silently
// producing a zero-capacity group.
//
// Parameters:
//   - spec: Pool configuration
//
// Returns:
//   - []types.NodeGroupState: One state per zone, ordered by zone index
//   - error: Wrapped types.ErrInvalidPoolSpec on configuration violations
func (bc *BackwardCompatible) Initialize(spec types.WorkerPoolSpec) ([]types.NodeGroupState, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	groups := make([]types.NodeGroupState, spec.NumZones)
	for i := range groups {
		minSize := DistributeOverZones(i, spec.Minimum, spec.NumZones)
		groups[i] = types.NodeGroupState{
			ZoneIndex:      i,
			MinSize:        minSize,
			MaxSize:        DistributeOverZones(i, spec.Maximum, spec.NumZones),
			InitialMinSize: minSize,
		}
	}

	return groups, nil
}

// Resize holds every zone's bounds at their initialized values.
//
// Only the observed launched counts and backoff flags are carried into the
// returned states; MinSize and MaxSize never move after Initialize. No
// redistribution occurs in response to backoff.
//
// Parameters:
//   - snapshot: Pool spec plus the initialized group baseline
//   - observed: Per-zone observations, ordered by zone index
//
// Returns:
//   - []types.NodeGroupState: Bounds identical to the baseline, observations applied
//   - error: Wrapped types.ErrZoneCountMismatch on a mismatched observation
func (bc *BackwardCompatible) Resize(snapshot types.ScanSnapshot, observed []types.ObservedZoneState) ([]types.NodeGroupState, error) {
	return mergeObserved(snapshot, observed)
}
