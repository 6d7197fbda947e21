// Package metrics provides metrics collector implementations for the
// zonesizer library.
package metrics

import "github.com/gardener/gardener-sub001/types"

// NopMetrics implements a no-op metrics collector.
//
// All metrics are discarded. Useful for testing or when external
// metrics collection is used.
type NopMetrics struct{}

// Compile-time assertion that NopMetrics implements MetricsCollector.
var _ types.MetricsCollector = (*NopMetrics)(nil)

// NewNop creates a new no-op metrics collector.
//
// Returns:
//   - *NopMetrics: A new no-op metrics collector instance
func NewNop() *NopMetrics {
	return &NopMetrics{}
}

// ManagerMetrics implementation

// RecordPoolCount discards the pool count metric.
func (n *NopMetrics) RecordPoolCount(_ /* count */ int) {
	// No-op
}

// RecordScanDuration discards the scan duration metric.
func (n *NopMetrics) RecordScanDuration(_ /* duration */ float64, _ /* strategy */ string) {
	// No-op
}

// RecordScanAttempt discards the scan attempt metric.
func (n *NopMetrics) RecordScanAttempt(_ /* pool */ string, _ /* success */ bool) {
	// No-op
}

// SizingMetrics implementation

// RecordBackoffZones discards the backoff zones metric.
func (n *NopMetrics) RecordBackoffZones(_ /* pool */ string, _ /* count */ int) {
	// No-op
}

// RecordZeroCapacityZones discards the zero-capacity zones metric.
func (n *NopMetrics) RecordZeroCapacityZones(_ /* pool */ string, _ /* count */ int) {
	// No-op
}

// RecordBoundsVersion discards the bounds version metric.
func (n *NopMetrics) RecordBoundsVersion(_ /* pool */ string, _ /* version */ int64) {
	// No-op
}

// PublisherMetrics implementation

// RecordKVOperationDuration discards the KV operation duration metric.
func (n *NopMetrics) RecordKVOperationDuration(_ /* operation */ string, _ /* duration */ float64) {
	// No-op
}

// RecordPublishSuppressed discards the publish suppression metric.
func (n *NopMetrics) RecordPublishSuppressed(_ /* pool */ string) {
	// No-op
}

// RolloutMetrics implementation

// RecordSurgePermitsGranted discards the surge grant metric.
func (n *NopMetrics) RecordSurgePermitsGranted(_ /* permits */ int) {
	// No-op
}

// RecordUnavailablePermitsGranted discards the unavailable grant metric.
func (n *NopMetrics) RecordUnavailablePermitsGranted(_ /* permits */ int) {
	// No-op
}

// RecordRolloutCompleted discards the rollout completion metric.
func (n *NopMetrics) RecordRolloutCompleted(_ /* pool */ string) {
	// No-op
}
