package strategy

import (
	"github.com/gardener/gardener-sub001/types"
)

// Adaptive implements fair redistribution of capacity and minimum guarantees
// away from backoff zones.
type Adaptive struct{}

var _ types.SizingStrategy = (*Adaptive)(nil)

// NewAdaptive creates the adaptive sizing strategy.
//
// The strategy reassigns a backoff zone's minimum guarantee to the zones that
// can currently accept it, and recomputes every zone's maximum against the
// launches observed in all other zones so the pool-wide ceiling is respected
// exactly regardless of how unevenly launches have landed.
//
// Returns:
//   - *Adaptive: Initialized strategy
//
// Example:
//
//	sizer := strategy.NewAdaptive()
//	groups, err := sizer.Initialize(spec)
func NewAdaptive() *Adaptive {
	return &Adaptive{}
}

// Initialize produces the adaptive baseline for a pool.
//
// Every zone starts with the full pool maximum as its MaxSize (per-zone
// capacity is uncapped, only the global ceiling binds) and its distributed
// share of the pool minimum as MinSize. The distributed share is also recorded
// as InitialMinSize, which later Resize calls redistribute from.
//
// Parameters:
//   - spec: Pool configuration
//
// Returns:
//   - []types.NodeGroupState: One state per zone, ordered by zone index
//   - error: Wrapped types.ErrInvalidPoolSpec on configuration violations
func (a *Adaptive) Initialize(spec types.WorkerPoolSpec) ([]types.NodeGroupState, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	groups := make([]types.NodeGroupState, spec.NumZones)
	for i := range groups {
		minSize := DistributeOverZones(i, spec.Minimum, spec.NumZones)
		groups[i] = types.NodeGroupState{
			ZoneIndex:      i,
			MinSize:        minSize,
			MaxSize:        spec.Maximum,
			InitialMinSize: minSize,
		}
	}

	return groups, nil
}

// Resize recomputes bounds as a pure function of the snapshot and observation.
//
// The algorithm, executed every scan:
//  1. Partition zones into good (not in backoff) and bad (backoff) sets,
//     preserving zone order within each set.
//  2. Sum the original distributed minimums of the bad zones.
//  3. Each good zone keeps its InitialMinSize plus its rank-distributed share
//     of that sum; each bad zone's MinSize drops to 0. With no good zones no
//     redistribution is possible and every MinSize is 0.
//  4. Every zone's MaxSize becomes spec.Maximum minus the launches of all
//     other zones, clamped at 0: a zone already at its fair share of total
//     launches is offered no further head-room this cycle.
//
// The result depends only on (snapshot, observed); calling Resize twice with
// the same inputs yields the same bounds.
//
// Parameters:
//   - snapshot: Pool spec plus the initialized group baseline
//   - observed: Per-zone observations, ordered by zone index
//
// Returns:
//   - []types.NodeGroupState: Recomputed bounds, ordered by zone index
//   - error: Wrapped types.ErrZoneCountMismatch on a mismatched observation
func (a *Adaptive) Resize(snapshot types.ScanSnapshot, observed []types.ObservedZoneState) ([]types.NodeGroupState, error) {
	groups, err := mergeObserved(snapshot, observed)
	if err != nil {
		return nil, err
	}

	good := make([]int, 0, len(groups))
	badMinSum := 0
	for i := range groups {
		if groups[i].Backoff {
			badMinSum += groups[i].InitialMinSize
		} else {
			good = append(good, i)
		}
	}

	// Minimum redistribution: bad zones surrender their original share to the
	// good zones, rank-distributed so earlier good zones absorb the remainder.
	if len(good) == 0 {
		for i := range groups {
			groups[i].MinSize = 0
		}
	} else {
		for rank, i := range good {
			groups[i].MinSize = groups[i].InitialMinSize + DistributeOverZones(rank, badMinSum, len(good))
		}
		for i := range groups {
			if groups[i].Backoff {
				groups[i].MinSize = 0
			}
		}
	}

	// Global ceiling: maxSize[i] + sum(launched[j], j != i) == spec.Maximum,
	// clamped at zero when other zones already consumed the whole budget.
	totalLaunched := 0
	for i := range groups {
		totalLaunched += groups[i].LaunchedCount
	}
	for i := range groups {
		maxSize := snapshot.Spec.Maximum - (totalLaunched - groups[i].LaunchedCount)
		if maxSize < 0 {
			maxSize = 0
		}
		groups[i].MaxSize = maxSize
	}

	return groups, nil
}
