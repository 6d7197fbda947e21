package strategy

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDistributeOverZones_Exactness(t *testing.T) {
	// The partition must be exact for every size and zone count.
	for zoneCount := 1; zoneCount <= 10; zoneCount++ {
		for size := 0; size <= 50; size++ {
			sum := 0
			for index := 0; index < zoneCount; index++ {
				sum += DistributeOverZones(index, size, zoneCount)
			}
			require.Equal(t, size, sum, "size=%d zoneCount=%d", size, zoneCount)
		}
	}
}

func TestDistributeOverZones_TieBreak(t *testing.T) {
	// Remainder goes to the lowest indices first.
	require.Equal(t, 2, DistributeOverZones(0, 5, 3))
	require.Equal(t, 2, DistributeOverZones(1, 5, 3))
	require.Equal(t, 1, DistributeOverZones(2, 5, 3))
}

func TestDistributeOverZones_EvenSplit(t *testing.T) {
	for index := 0; index < 3; index++ {
		require.Equal(t, 2, DistributeOverZones(index, 6, 3))
	}
}

func TestDistributeOverZones_NoZeroShareWhenSizeCoversZones(t *testing.T) {
	// Whenever size >= zoneCount every zone receives a positive share. This
	// is what the maximum >= numZones precondition buys the static strategy.
	for zoneCount := 1; zoneCount <= 10; zoneCount++ {
		for size := zoneCount; size <= zoneCount*4; size++ {
			for index := 0; index < zoneCount; index++ {
				require.Positive(t, DistributeOverZones(index, size, zoneCount),
					"size=%d zoneCount=%d index=%d", size, zoneCount, index)
			}
		}
	}
}

func TestDistributeOverZones_PanicsOnProgrammingErrors(t *testing.T) {
	require.Panics(t, func() { DistributeOverZones(0, 5, 0) })
	require.Panics(t, func() { DistributeOverZones(0, 5, -1) })
	require.Panics(t, func() { DistributeOverZones(0, -1, 3) })
	require.Panics(t, func() { DistributeOverZones(-1, 5, 3) })
	require.Panics(t, func() { DistributeOverZones(3, 5, 3) })
}
