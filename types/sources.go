package types

import "context"

// PoolSource discovers the worker pools the manager should size.
//
// Implementations can query various backends:
//   - Static: fixed list for tests and simple deployments
//   - Custom: CRD caches, cloud inventory APIs, config services
//
// The Manager calls ListPools during:
//   - Startup (initial discovery)
//   - RefreshPools() (manual refresh)
//   - Periodic refresh (if configured)
type PoolSource interface {
	// ListPools returns all worker pool specs to size.
	//
	// Implementations should:
	//   - Return consistent results for the same backend state
	//   - Handle context cancellation gracefully
	//   - Return errors for transient failures (will be retried)
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeout
	//
	// Returns:
	//   - []WorkerPoolSpec: Discovered pool specs
	//   - error: Discovery error (nil on success)
	ListPools(ctx context.Context) ([]WorkerPoolSpec, error)
}

// ZoneObserver resolves the current per-zone machine state of a pool.
//
// The observer runs before the sizing strategy each scan tick; any network or
// storage interaction needed to observe state happens here, never inside the
// strategy itself. Slow observation calls should be bounded by the context so
// the strategy always receives stale-but-consistent data.
type ZoneObserver interface {
	// ObserveZones returns the observed state of every zone of the pool,
	// ordered by zone index.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeout
	//   - pool: Pool name as listed by the PoolSource
	//
	// Returns:
	//   - []ObservedZoneState: One entry per zone, ordered by zone index
	//   - error: Observation error (the scan is skipped and retried next tick)
	ObserveZones(ctx context.Context, pool string) ([]ObservedZoneState, error)
}

// RolloutObserver resolves the replica counts of an in-progress generation
// swap for a pool.
//
// Optional: a Manager without a RolloutObserver sizes pools but does not drive
// surge/unavailable permit coordination.
type RolloutObserver interface {
	// ObserveRollout returns the rollout observation for the pool.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeout
	//   - pool: Pool name as listed by the PoolSource
	//
	// Returns:
	//   - RolloutObservation: Replica counts across generations
	//   - bool: true if a rollout is active for the pool
	//   - error: Observation error (rollout coordination skipped this tick)
	ObserveRollout(ctx context.Context, pool string) (RolloutObservation, bool, error)
}
