package types

// MetricsCollector defines methods for recording operational metrics.
//
// Implementations should be non-blocking and handle failures gracefully.
// All methods may be called from per-pool scan goroutines and must be
// thread-safe.
//
// This interface composes smaller, domain-focused interfaces for better
// modularity.
type MetricsCollector interface {
	ManagerMetrics
	SizingMetrics
	PublisherMetrics
	RolloutMetrics
}

// ManagerMetrics defines metrics for manager-level scan driving.
type ManagerMetrics interface {
	// RecordPoolCount sets the current number of managed pools (gauge metric).
	RecordPoolCount(count int)

	// RecordScanDuration records the time taken for one scan tick.
	//
	// Parameters:
	//   - duration: Time taken in seconds
	//   - strategy: Sizing strategy name ("Adaptive", "BackwardCompatible")
	RecordScanDuration(duration float64, strategy string)

	// RecordScanAttempt records a scan tick outcome (success or failure).
	//
	// Parameters:
	//   - pool: Pool name
	//   - success: true if the tick observed, resized, and published
	RecordScanAttempt(pool string, success bool)
}

// SizingMetrics defines metrics for the per-zone bound computation.
type SizingMetrics interface {
	// RecordBackoffZones sets the number of zones currently in backoff for
	// the pool (gauge metric).
	RecordBackoffZones(pool string, count int)

	// RecordZeroCapacityZones sets the number of zones whose computed
	// MaxSize was clamped to zero this scan (gauge metric).
	RecordZeroCapacityZones(pool string, count int)

	// RecordBoundsVersion sets the latest published bounds version for the
	// pool (gauge metric).
	RecordBoundsVersion(pool string, version int64)
}

// PublisherMetrics defines metrics for bounds publication to the KV store.
type PublisherMetrics interface {
	// RecordKVOperationDuration records KV operation latency.
	//
	// Parameters:
	//   - operation: Operation type ("get", "put", "delete", "keys")
	//   - duration: Time taken in seconds
	RecordKVOperationDuration(operation string, duration float64)

	// RecordPublishSuppressed records a publish skipped because the bounds
	// digest was unchanged since the last write.
	RecordPublishSuppressed(pool string)
}

// RolloutMetrics defines metrics for surge/unavailable permit coordination.
type RolloutMetrics interface {
	// RecordSurgePermitsGranted records permits granted for a scale-up tick.
	RecordSurgePermitsGranted(permits int)

	// RecordUnavailablePermitsGranted records permits granted for a
	// scale-down tick.
	RecordUnavailablePermitsGranted(permits int)

	// RecordRolloutCompleted records a rollout reaching the Completed phase.
	RecordRolloutCompleted(pool string)
}
