package metrics

import (
	"sync"

	"github.com/gardener/gardener-sub001/types"
	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusCollector implements types.MetricsCollector backed by Prometheus.
//
// It provides concrete instrumentation for the scan and sizing domains and
// defers the remaining areas to the embedded NopMetrics, ensuring full
// interface coverage without forcing immediate instrumentation of all domains.
type PrometheusCollector struct {
	*NopMetrics

	reg       prometheus.Registerer
	namespace string
	once      sync.Once

	// Manager/scan metrics
	poolsGauge   prometheus.Gauge
	scanDuration *prometheus.HistogramVec
	scanResults  *prometheus.CounterVec

	// Sizing metrics
	backoffZones  *prometheus.GaugeVec
	zeroCapZones  *prometheus.GaugeVec
	boundsVersion *prometheus.GaugeVec

	// Publisher metrics
	kvOpDuration      *prometheus.HistogramVec
	publishSuppressed *prometheus.CounterVec

	// Rollout metrics
	surgeGrants       prometheus.Counter
	unavailableGrants prometheus.Counter
	rolloutsCompleted *prometheus.CounterVec
}

// Compile-time assertion that PrometheusCollector implements MetricsCollector.
var _ types.MetricsCollector = (*PrometheusCollector)(nil)

// NewPrometheus creates a new Prometheus-backed metrics collector.
//
// Parameters:
//   - reg: Prometheus registerer interface (uses prometheus.DefaultRegisterer if nil)
//   - namespace: Prometheus metrics namespace (defaults to "zonesizer" if empty)
//
// Returns:
//   - *PrometheusCollector: A MetricsCollector implementation using Prometheus
func NewPrometheus(reg prometheus.Registerer, namespace string) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "zonesizer"
	}

	return &PrometheusCollector{NopMetrics: NewNop(), reg: reg, namespace: namespace}
}

func (p *PrometheusCollector) ensureRegistered() {
	p.once.Do(func() {
		p.poolsGauge = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "manager",
			Name:      "pools_current",
			Help:      "Current number of worker pools being sized.",
		})

		p.scanDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "manager",
			Name:      "scan_duration_seconds",
			Help:      "Duration of one pool scan tick in seconds by strategy.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms .. ~4s
		}, []string{"strategy"})

		p.scanResults = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "manager",
			Name:      "scan_results_total",
			Help:      "Total scan tick outcomes (success,failure) by pool.",
		}, []string{"pool", "result"})

		p.backoffZones = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "sizing",
			Name:      "backoff_zones",
			Help:      "Number of zones currently in backoff by pool.",
		}, []string{"pool"})

		p.zeroCapZones = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "sizing",
			Name:      "zero_capacity_zones",
			Help:      "Number of zones whose maximum was clamped to zero this scan by pool.",
		}, []string{"pool"})

		p.boundsVersion = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "sizing",
			Name:      "bounds_version",
			Help:      "Latest published bounds version by pool.",
		}, []string{"pool"})

		p.kvOpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "publisher",
			Name:      "kv_operation_duration_seconds",
			Help:      "NATS KV operation latency in seconds by operation.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"operation"})

		p.publishSuppressed = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "publisher",
			Name:      "publish_suppressed_total",
			Help:      "Publishes skipped because the bounds digest was unchanged, by pool.",
		}, []string{"pool"})

		p.surgeGrants = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "rollout",
			Name:      "surge_permits_granted_total",
			Help:      "Total surge permits granted across all rollouts.",
		})

		p.unavailableGrants = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "rollout",
			Name:      "unavailable_permits_granted_total",
			Help:      "Total unavailable permits granted across all rollouts.",
		})

		p.rolloutsCompleted = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "rollout",
			Name:      "completed_total",
			Help:      "Total rollouts that reached the Completed phase by pool.",
		}, []string{"pool"})

		p.reg.MustRegister(p.poolsGauge)
		p.reg.MustRegister(p.scanDuration)
		p.reg.MustRegister(p.scanResults)
		p.reg.MustRegister(p.backoffZones)
		p.reg.MustRegister(p.zeroCapZones)
		p.reg.MustRegister(p.boundsVersion)
		p.reg.MustRegister(p.kvOpDuration)
		p.reg.MustRegister(p.publishSuppressed)
		p.reg.MustRegister(p.surgeGrants)
		p.reg.MustRegister(p.unavailableGrants)
		p.reg.MustRegister(p.rolloutsCompleted)
	})
}

// ManagerMetrics implementation

// RecordPoolCount sets the current pool count gauge.
func (p *PrometheusCollector) RecordPoolCount(count int) {
	p.ensureRegistered()
	p.poolsGauge.Set(float64(count))
}

// RecordScanDuration observes the scan tick duration for the strategy.
func (p *PrometheusCollector) RecordScanDuration(duration float64, strategy string) {
	p.ensureRegistered()
	p.scanDuration.WithLabelValues(strategy).Observe(duration)
}

// RecordScanAttempt increments the scan outcome counter for the pool.
func (p *PrometheusCollector) RecordScanAttempt(pool string, success bool) {
	p.ensureRegistered()
	result := "failure"
	if success {
		result = "success"
	}
	p.scanResults.WithLabelValues(pool, result).Inc()
}

// SizingMetrics implementation

// RecordBackoffZones sets the backoff zone gauge for the pool.
func (p *PrometheusCollector) RecordBackoffZones(pool string, count int) {
	p.ensureRegistered()
	p.backoffZones.WithLabelValues(pool).Set(float64(count))
}

// RecordZeroCapacityZones sets the clamped zone gauge for the pool.
func (p *PrometheusCollector) RecordZeroCapacityZones(pool string, count int) {
	p.ensureRegistered()
	p.zeroCapZones.WithLabelValues(pool).Set(float64(count))
}

// RecordBoundsVersion sets the published bounds version gauge for the pool.
func (p *PrometheusCollector) RecordBoundsVersion(pool string, version int64) {
	p.ensureRegistered()
	p.boundsVersion.WithLabelValues(pool).Set(float64(version))
}

// PublisherMetrics implementation

// RecordKVOperationDuration observes KV operation latency.
func (p *PrometheusCollector) RecordKVOperationDuration(operation string, duration float64) {
	p.ensureRegistered()
	p.kvOpDuration.WithLabelValues(operation).Observe(duration)
}

// RecordPublishSuppressed increments the suppressed publish counter for the pool.
func (p *PrometheusCollector) RecordPublishSuppressed(pool string) {
	p.ensureRegistered()
	p.publishSuppressed.WithLabelValues(pool).Inc()
}

// RolloutMetrics implementation

// RecordSurgePermitsGranted adds granted surge permits to the counter.
func (p *PrometheusCollector) RecordSurgePermitsGranted(permits int) {
	p.ensureRegistered()
	p.surgeGrants.Add(float64(permits))
}

// RecordUnavailablePermitsGranted adds granted unavailable permits to the counter.
func (p *PrometheusCollector) RecordUnavailablePermitsGranted(permits int) {
	p.ensureRegistered()
	p.unavailableGrants.Add(float64(permits))
}

// RecordRolloutCompleted increments the completed rollout counter for the pool.
func (p *PrometheusCollector) RecordRolloutCompleted(pool string) {
	p.ensureRegistered()
	p.rolloutsCompleted.WithLabelValues(pool).Inc()
}
