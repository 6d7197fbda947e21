package types

// SizingStrategy recomputes per-zone node-group bounds for a worker pool.
//
// Two strategies ship with the library:
//   - Adaptive: redistributes minimum guarantees away from backoff zones and
//     caps each zone's capacity against launches observed in all other zones
//     (recommended)
//   - BackwardCompatible: static distribution fixed at initialization, no
//     redistribution under backoff
//
// The scan loop calls Initialize once when a pool is first sized and Resize on
// every scan cycle.
//
// Strategy implementations must:
//   - Be deterministic (same snapshot and observation → same bounds)
//   - Be pure (no hidden per-scan state; inputs are never mutated)
//   - Be safe for concurrent use across independent pools
//   - Run quickly (called once per pool per scan interval)
type SizingStrategy interface {
	// Initialize produces the ordered per-zone baseline for a pool.
	//
	// The returned groups carry the distributed minimum shares (recorded as
	// InitialMinSize) and the strategy's initial maximums. Initialize fails
	// fast on a spec that violates WorkerPoolSpec.Validate rather than
	// producing a degenerate zero-capacity group.
	//
	// Parameters:
	//   - spec: Pool configuration
	//
	// Returns:
	//   - []NodeGroupState: One state per zone, ordered by zone index
	//   - error: Wrapped ErrInvalidPoolSpec on configuration violations
	Initialize(spec WorkerPoolSpec) ([]NodeGroupState, error)

	// Resize recomputes bounds as a pure function of the snapshot and the
	// observed zone states.
	//
	// Parameters:
	//   - snapshot: Pool spec plus the initialized group baseline
	//   - observed: Per-zone launched counts and backoff flags, ordered by
	//     zone index and matching the snapshot's zone set
	//
	// Returns:
	//   - []NodeGroupState: Recomputed bounds, ordered by zone index
	//   - error: Wrapped ErrZoneCountMismatch when the observation does not
	//     cover exactly the snapshot's zones
	Resize(snapshot ScanSnapshot, observed []ObservedZoneState) ([]NodeGroupState, error)
}
