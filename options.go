package zonesizer

import (
	"log/slog"

	"github.com/gardener/gardener-sub001/internal/logging"
	"github.com/gardener/gardener-sub001/internal/metrics"
	"github.com/gardener/gardener-sub001/types"
	"github.com/prometheus/client_golang/prometheus"
)

// Option configures a Manager with optional dependencies.
type Option func(*managerOptions)

// StrategyFactory resolves a sizing strategy implementation by name.
//
// The default factory provides the built-in Adaptive and BackwardCompatible
// strategies; a custom factory can substitute or extend them.
type StrategyFactory func(name types.StrategyName) (types.SizingStrategy, error)

// managerOptions holds optional Manager configuration.
type managerOptions struct {
	rolloutObserver types.RolloutObserver
	hooks           *Hooks
	metrics         MetricsCollector
	logger          Logger
	strategyFactory StrategyFactory
}

// WithRolloutObserver sets a rollout observer for surge/unavailable permit
// coordination.
//
// Without an observer the manager sizes pools but never drives rollout
// permits.
//
// Parameters:
//   - observer: RolloutObserver implementation
//
// Returns:
//   - Option: Functional option for NewManager
//
// Example:
//
//	mgr, err := zonesizer.NewManager(&cfg, conn, src, zones,
//	    zonesizer.WithRolloutObserver(rolloutBackend))
func WithRolloutObserver(observer types.RolloutObserver) Option {
	return func(o *managerOptions) {
		o.rolloutObserver = observer
	}
}

// WithHooks sets scan event hooks.
//
// Parameters:
//   - hooks: Hooks structure with callback functions
//
// Returns:
//   - Option: Functional option for NewManager
//
// Example:
//
//	hooks := &zonesizer.Hooks{
//	    OnBoundsChanged: func(ctx context.Context, pool string, groups []zonesizer.NodeGroupState) error {
//	        return applyBounds(pool, groups)
//	    },
//	}
//	mgr, err := zonesizer.NewManager(&cfg, conn, src, zones, zonesizer.WithHooks(hooks))
func WithHooks(hooks *Hooks) Option {
	return func(o *managerOptions) {
		o.hooks = hooks
	}
}

// WithMetrics sets a metrics collector.
//
// Parameters:
//   - metrics: MetricsCollector implementation
//
// Returns:
//   - Option: Functional option for NewManager
//
// Example:
//
//	collector := myMetricsCollector
//	mgr, err := zonesizer.NewManager(&cfg, conn, src, zones, zonesizer.WithMetrics(collector))
func WithMetrics(metrics MetricsCollector) Option {
	return func(o *managerOptions) {
		o.metrics = metrics
	}
}

// WithPrometheusMetrics sets the built-in Prometheus-backed metrics collector.
//
// Metric instruments register lazily on first use under the given namespace.
// A nil registerer selects prometheus.DefaultRegisterer.
//
// Parameters:
//   - reg: Prometheus registerer for the collector's instruments
//   - namespace: Metric name prefix (e.g., "zonesizer")
//
// Returns:
//   - Option: Functional option for NewManager
//
// Example:
//
//	mgr, err := zonesizer.NewManager(&cfg, conn, src, zones,
//	    zonesizer.WithPrometheusMetrics(prometheus.DefaultRegisterer, "zonesizer"))
func WithPrometheusMetrics(reg prometheus.Registerer, namespace string) Option {
	return func(o *managerOptions) {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		o.metrics = metrics.NewPrometheus(reg, namespace)
	}
}

// WithLogger sets a logger.
//
// Parameters:
//   - logger: Logger implementation (compatible with zap.SugaredLogger)
//
// Returns:
//   - Option: Functional option for NewManager
//
// Example:
//
//	logger := logging.NewSlogDefault()
//	mgr, err := zonesizer.NewManager(&cfg, conn, src, zones, zonesizer.WithLogger(logger))
func WithLogger(logger Logger) Option {
	return func(o *managerOptions) {
		o.logger = logger
	}
}

// WithSlogLogger sets a logger backed by the standard library's log/slog.
//
// A nil logger selects slog.Default().
//
// Parameters:
//   - logger: slog logger to adapt
//
// Returns:
//   - Option: Functional option for NewManager
//
// Example:
//
//	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
//	mgr, err := zonesizer.NewManager(&cfg, conn, src, zones, zonesizer.WithSlogLogger(logger))
func WithSlogLogger(logger *slog.Logger) Option {
	return func(o *managerOptions) {
		if logger == nil {
			o.logger = logging.NewSlogDefault()
			return
		}
		o.logger = logging.NewSlog(logger)
	}
}

// WithStrategyFactory sets a custom strategy factory.
//
// Parameters:
//   - factory: StrategyFactory resolving strategy names to implementations
//
// Returns:
//   - Option: Functional option for NewManager
//
// Example:
//
//	factory := func(name zonesizer.StrategyName) (zonesizer.SizingStrategy, error) {
//	    if name == "Custom" {
//	        return myStrategy, nil
//	    }
//	    return strategy.New(name)
//	}
//	mgr, err := zonesizer.NewManager(&cfg, conn, src, zones, zonesizer.WithStrategyFactory(factory))
func WithStrategyFactory(factory StrategyFactory) Option {
	return func(o *managerOptions) {
		o.strategyFactory = factory
	}
}
