package strategy

import (
	"fmt"

	"github.com/gardener/gardener-sub001/types"
)

// mergeObserved copies the snapshot baseline and overlays the observed
// launched counts and backoff flags.
//
// The observation must cover exactly the snapshot's zones, in zone-index
// order. The snapshot itself is never mutated; both strategies build their
// result on the returned copy.
func mergeObserved(snapshot types.ScanSnapshot, observed []types.ObservedZoneState) ([]types.NodeGroupState, error) {
	if len(snapshot.Groups) == 0 {
		return nil, ErrNilSnapshotGroups
	}
	if len(observed) != len(snapshot.Groups) {
		return nil, fmt.Errorf(
			"%w: pool %q has %d initialized zones but %d were observed",
			types.ErrZoneCountMismatch, snapshot.Spec.Name, len(snapshot.Groups), len(observed),
		)
	}

	groups := make([]types.NodeGroupState, len(snapshot.Groups))
	copy(groups, snapshot.Groups)

	for i := range groups {
		if observed[i].ZoneIndex != groups[i].ZoneIndex {
			return nil, fmt.Errorf(
				"%w: pool %q observation at position %d reports zone %d, expected zone %d",
				types.ErrZoneCountMismatch, snapshot.Spec.Name, i, observed[i].ZoneIndex, groups[i].ZoneIndex,
			)
		}
		groups[i].LaunchedCount = observed[i].LaunchedCount
		groups[i].Backoff = observed[i].Backoff
	}

	return groups, nil
}
