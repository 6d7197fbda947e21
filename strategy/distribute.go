package strategy

import "fmt"

// DistributeOverZones returns the share of size owed to the zone at index when
// size is partitioned exactly across zoneCount zones.
//
// The algorithm assigns each zone the integer quotient size/zoneCount and
// hands the remainder out one unit at a time to the lowest zone indices, so
// earlier zones are favored when the division is uneven. The partition is
// exact: summing the result over all indices always yields size.
//
// Invalid inputs (zoneCount <= 0, negative size, index outside
// [0, zoneCount)) are programming errors, not runtime failures to recover
// from, and panic.
//
// Parameters:
//   - index: Zero-based zone index in [0, zoneCount)
//   - size: Non-negative quantity to distribute
//   - zoneCount: Positive number of zones
//
// Returns:
//   - int: The zone's exact share of size
//
// Example:
//
//	DistributeOverZones(0, 5, 3) // 2
//	DistributeOverZones(1, 5, 3) // 2
//	DistributeOverZones(2, 5, 3) // 1
func DistributeOverZones(index, size, zoneCount int) int {
	if zoneCount <= 0 {
		panic(fmt.Sprintf("strategy: zone count must be positive, got %d", zoneCount))
	}
	if size < 0 {
		panic(fmt.Sprintf("strategy: size must be non-negative, got %d", size))
	}
	if index < 0 || index >= zoneCount {
		panic(fmt.Sprintf("strategy: zone index %d out of range [0,%d)", index, zoneCount))
	}

	share := size / zoneCount
	if index < size%zoneCount {
		share++
	}

	return share
}
