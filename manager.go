package zonesizer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gardener/gardener-sub001/internal/boundspub"
	"github.com/gardener/gardener-sub001/internal/kvutil"
	"github.com/gardener/gardener-sub001/internal/logger"
	"github.com/gardener/gardener-sub001/internal/metrics"
	"github.com/gardener/gardener-sub001/rollout"
	"github.com/gardener/gardener-sub001/strategy"
	"github.com/gardener/gardener-sub001/types"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/puzpuzpuz/xsync/v4"
)

// poolRuntime is the per-pool scan state owned by the Manager.
//
// The baseline groups are produced once by the strategy's Initialize and
// never mutated afterwards; every scan derives fresh bounds from them. The
// mutex serializes one pool's scan tick against accessor reads; ticks of
// different pools never contend.
type poolRuntime struct {
	mu          sync.Mutex
	spec        types.WorkerPoolSpec
	strategy    types.SizingStrategy
	baseline    []types.NodeGroupState
	coordinator *rollout.Coordinator
	bounds      []types.NodeGroupState
	lastPhase   types.RolloutPhase
}

// Manager drives the zone sizing engine for a set of worker pools.
//
// Manager is the main entry point of the zonesizer library. It handles:
//   - Pool discovery through a PoolSource
//   - Periodic zone observation and per-zone bound recomputation
//   - Versioned bounds publication to NATS JetStream KV
//   - Surge/unavailable permit coordination during rollouts
//
// Thread Safety:
//   - All public methods are safe for concurrent use
//   - Pools are scanned independently; one slow pool never blocks another
//
// Lifecycle:
//   - Create with NewManager()
//   - Call Start() to discover pools and begin scanning
//   - Use hooks to react to bounds changes and scale grants
//   - Call Stop() for graceful shutdown
//
// Testing:
// Consumers can define minimal interfaces for mocking:
//
//	type PoolSizer interface {
//	    Start(ctx context.Context) error
//	    Bounds(pool string) ([]zonesizer.NodeGroupState, error)
//	}
type Manager struct {
	cfg      Config
	conn     *nats.Conn
	source   PoolSource
	observer ZoneObserver

	// Optional dependencies
	rolloutObserver RolloutObserver
	hooks           *Hooks
	metrics         MetricsCollector
	logger          Logger
	strategyFactory StrategyFactory

	// Internal components
	publisher *boundspub.Publisher
	boundsKV  jetstream.KeyValue

	pools *xsync.Map[string, *poolRuntime]

	// Lifecycle management
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewManager creates a new Manager instance with the provided configuration.
//
// The Manager sizes zone-partitioned worker pools using NATS for:
//   - Versioned bounds publication (via NATS KV)
//   - Version continuity across manager restarts
//
// Returns a concrete *Manager struct following the "accept interfaces, return
// structs" principle. Consumers can define their own interfaces for testing if
// needed.
//
// Parameters:
//   - cfg: Runtime configuration with parsed durations
//   - conn: NATS connection for bounds publication
//   - source: Pool source for discovering worker pools
//   - observer: Zone observer resolving per-zone machine state
//   - opts: Optional configuration (hooks, metrics, logger, rollout observer)
//
// Returns:
//   - *Manager: Initialized manager instance
//   - error: Validation error if configuration is invalid
//
// Example:
//
//	cfg := zonesizer.DefaultConfig()
//	src := source.NewStatic(pools)
//	mgr, err := zonesizer.NewManager(&cfg, natsConn, src, zoneBackend)
func NewManager(cfg *Config, conn *nats.Conn, source PoolSource, observer ZoneObserver, opts ...Option) (*Manager, error) {
	if cfg == nil {
		return nil, ErrInvalidConfig
	}
	if conn == nil {
		return nil, ErrNATSConnectionRequired
	}
	if source == nil {
		return nil, ErrPoolSourceRequired
	}
	if observer == nil {
		return nil, ErrZoneObserverRequired
	}

	// Fill in missing configuration values with defaults
	SetDefaults(cfg)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	// Apply options
	options := &managerOptions{}
	for _, opt := range opts {
		opt(options)
	}

	// Provide safe defaults for optional dependencies to avoid nil checks everywhere
	metricsCollector := options.metrics
	if metricsCollector == nil {
		metricsCollector = metrics.NewNop()
	}

	loggerInstance := options.logger
	if loggerInstance == nil {
		loggerInstance = logger.NewNop()
	}

	// Validate with warnings after logger is available
	cfg.ValidateWithWarnings(loggerInstance)

	hooksInstance := options.hooks
	if hooksInstance == nil {
		hooksInstance = &Hooks{}
	}

	factory := options.strategyFactory
	if factory == nil {
		factory = strategy.New
	}

	m := &Manager{
		cfg:             *cfg,
		conn:            conn,
		source:          source,
		observer:        observer,
		rolloutObserver: options.rolloutObserver,
		hooks:           hooksInstance,
		metrics:         metricsCollector,
		logger:          loggerInstance,
		strategyFactory: factory,
		pools:           xsync.NewMap[string, *poolRuntime](),
	}

	return m, nil
}

// Start initializes and runs the manager.
//
// Blocks until the bounds KV bucket is ready, existing bounds versions are
// discovered, and the initial pool set is sized once. Scanning continues in
// the background until Stop is called.
//
// Parameters:
//   - ctx: Context for cancellation and timeout
//
// Returns:
//   - error: Startup error or context cancellation
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.ctx != nil {
		m.mu.Unlock()

		return ErrAlreadyStarted
	}

	// Create manager context detached from the startup context
	m.ctx, m.cancel = context.WithCancel(context.Background())
	m.mu.Unlock()

	// Apply startup timeout from the provided context
	startupCtx := ctx
	if m.cfg.StartupTimeout > 0 {
		var cancel context.CancelFunc
		startupCtx, cancel = context.WithTimeout(ctx, m.cfg.StartupTimeout)
		defer cancel()
	}

	// Initialize NATS JetStream
	js, err := jetstream.New(m.conn)
	if err != nil {
		return fmt.Errorf("failed to create jetstream context: %w", err)
	}

	boundsKV, err := m.ensureKVBucket(startupCtx, js, m.cfg.KVBuckets.BoundsBucket, m.cfg.KVBuckets.BoundsTTL)
	if err != nil {
		return fmt.Errorf("failed to create bounds KV: %w", err)
	}
	m.boundsKV = boundsKV

	m.publisher = boundspub.New(boundsKV, m.cfg.KVBuckets.BoundsKeyPrefix, m.logger, m.metrics)

	// Continue the version sequence of a previous manager instance
	if err := m.publisher.DiscoverHighestVersion(startupCtx); err != nil && !types.IsNoKeysFoundError(err) {
		return fmt.Errorf("failed to discover bounds versions: %w", err)
	}

	// Discover and size the initial pool set
	if err := m.refreshPools(startupCtx); err != nil {
		return fmt.Errorf("failed to discover pools: %w", err)
	}
	m.scanAllPools()

	// Start background workers
	m.wg.Go(func() { m.scanLoop() })
	if m.cfg.PoolRefreshInterval > 0 {
		m.wg.Go(func() { m.refreshLoop() })
	}

	m.logger.Info("manager started",
		"pools", m.pools.Size(),
		"scan_interval", m.cfg.ScanInterval,
		"bounds_bucket", m.cfg.KVBuckets.BoundsBucket,
	)

	return nil
}

// Stop gracefully shuts down the manager.
//
// Published bounds are removed from KV so the provisioning backend stops
// applying them; a restarted manager re-discovers the version sequence from
// whatever survives.
//
// Safe to call multiple times - subsequent calls will return ErrNotStarted.
//
// Parameters:
//   - ctx: Context for shutdown timeout
//
// Returns:
//   - error: Shutdown error or timeout
func (m *Manager) Stop(ctx context.Context) error {
	m.mu.Lock()
	if m.ctx == nil || m.ctx.Err() != nil {
		m.mu.Unlock()

		return ErrNotStarted
	}

	// Cancel manager context to stop all background goroutines.
	// Keep m.ctx (even though cancelled) so the ErrNotStarted guard above
	// catches concurrent Stop calls.
	m.cancel()
	m.mu.Unlock()

	// Wait for scan goroutines with timeout
	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		m.logger.Error("shutdown timeout exceeded, some goroutines may still be running")

		return ctx.Err()
	}

	// Remove published bounds; non-fatal if it fails
	var shutdownErr error
	if m.publisher != nil {
		if err := m.publisher.CleanupAll(ctx); err != nil {
			m.logger.Error("failed to clean up bounds", "error", err)
			shutdownErr = fmt.Errorf("bounds cleanup failed: %w", err)
		}
	}

	m.logger.Info("manager stopped gracefully")

	return shutdownErr
}

// RefreshPools triggers pool discovery refresh.
//
// This method forces the pool source to be re-queried: new pools are
// initialized and begin scanning, removed pools stop scanning and their
// published bounds are deleted, and pools whose spec changed are
// re-initialized.
//
// Use this when:
//   - Pools are added/removed dynamically and periodic refresh is disabled
//   - A pool's configuration changed and you want it re-sized immediately
//
// Parameters:
//   - ctx: Context for operation timeout
//
// Returns:
//   - error: Refresh error, or ErrNotStarted if the manager isn't running
//
// Example:
//
//	// After adding a pool to your pool source
//	if err := mgr.RefreshPools(ctx); err != nil {
//	    log.Printf("Failed to refresh pools: %v", err)
//	}
func (m *Manager) RefreshPools(ctx context.Context) error {
	m.mu.Lock()
	started := m.ctx != nil && m.ctx.Err() == nil
	m.mu.Unlock()

	if !started {
		return ErrNotStarted
	}

	return m.refreshPools(ctx)
}

// Bounds returns the most recently computed per-zone bounds for the pool.
//
// Parameters:
//   - pool: Pool name as listed by the PoolSource
//
// Returns:
//   - []NodeGroupState: Copy of the latest bounds, ordered by zone index
//   - error: ErrPoolNotFound if the pool is not managed
func (m *Manager) Bounds(pool string) ([]NodeGroupState, error) {
	rt, ok := m.pools.Load(pool)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPoolNotFound, pool)
	}

	rt.mu.Lock()
	defer rt.mu.Unlock()

	bounds := make([]NodeGroupState, len(rt.bounds))
	copy(bounds, rt.bounds)

	return bounds, nil
}

// RolloutPhase returns the pool's current rollout coordination phase.
//
// Parameters:
//   - pool: Pool name as listed by the PoolSource
//
// Returns:
//   - RolloutPhase: Current phase (RolloutIdle before any rollout activity)
//   - error: ErrPoolNotFound if the pool is not managed
func (m *Manager) RolloutPhase(pool string) (RolloutPhase, error) {
	rt, ok := m.pools.Load(pool)
	if !ok {
		return RolloutIdle, fmt.Errorf("%w: %s", ErrPoolNotFound, pool)
	}

	return rt.coordinator.Phase(), nil
}

// Pools returns the names of all currently managed pools.
//
// Returns:
//   - []string: Managed pool names (order unspecified)
func (m *Manager) Pools() []string {
	names := make([]string, 0, m.pools.Size())
	m.pools.Range(func(name string, _ *poolRuntime) bool {
		names = append(names, name)

		return true
	})

	return names
}

// BoundsVersion returns the latest bounds version published by this manager.
//
// Returns:
//   - int64: Current version (0 if nothing published yet)
func (m *Manager) BoundsVersion() int64 {
	if m.publisher == nil {
		return 0
	}

	return m.publisher.CurrentVersion()
}

// ensureKVBucket creates or opens the bounds KV bucket with the specified TTL.
//
// Retries handle race conditions when multiple manager instances try to
// create the same bucket concurrently.
func (m *Manager) ensureKVBucket(ctx context.Context, js jetstream.JetStream, bucket string, ttl time.Duration) (jetstream.KeyValue, error) {
	const maxRetries = 5
	kv, err := kvutil.EnsureBoundsBucket(ctx, js, bucket, ttl, maxRetries)
	if err != nil {
		return nil, fmt.Errorf("failed to create/open KV bucket %s: %w", bucket, err)
	}

	return kv, nil
}

// refreshPools reconciles the managed pool set against the pool source.
func (m *Manager) refreshPools(ctx context.Context) error {
	specs, err := m.source.ListPools(ctx)
	if err != nil {
		return fmt.Errorf("failed to list pools: %w", err)
	}

	active := make(map[string]bool, len(specs))
	for _, spec := range specs {
		active[spec.Name] = true

		existing, ok := m.pools.Load(spec.Name)
		if ok {
			existing.mu.Lock()
			changed := existing.spec != spec
			existing.mu.Unlock()
			if !changed {
				continue
			}

			m.logger.Info("pool spec changed, reinitializing", "pool", spec.Name)
		}

		rt, err := m.newPoolRuntime(spec)
		if err != nil {
			// A pool that fails validation is skipped, not fatal: the
			// remaining pools keep being sized.
			m.logger.Error("skipping invalid pool", "pool", spec.Name, "error", err)
			m.notifyError(fmt.Errorf("pool %q: %w", spec.Name, err))
			delete(active, spec.Name)

			continue
		}

		m.pools.Store(spec.Name, rt)
	}

	// Drop pools no longer listed by the source
	var removed []string
	m.pools.Range(func(name string, _ *poolRuntime) bool {
		if !active[name] {
			removed = append(removed, name)
		}

		return true
	})
	for _, name := range removed {
		m.pools.Delete(name)
		m.logger.Info("pool removed", "pool", name)
	}

	if len(removed) > 0 || len(active) > 0 {
		if err := m.publisher.CleanupStale(ctx, active); err != nil {
			m.logger.Warn("failed to clean up stale bounds", "error", err)
		}
	}

	m.metrics.RecordPoolCount(m.pools.Size())

	return nil
}

// newPoolRuntime validates the spec and builds the scan state for one pool.
func (m *Manager) newPoolRuntime(spec types.WorkerPoolSpec) (*poolRuntime, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	strat, err := m.strategyFactory(spec.Strategy)
	if err != nil {
		return nil, err
	}

	baseline, err := strat.Initialize(spec)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize pool: %w", err)
	}

	coordinator, err := rollout.New(spec.MaxSurge, spec.MaxUnavailable)
	if err != nil {
		return nil, fmt.Errorf("failed to create rollout coordinator: %w", err)
	}

	bounds := make([]types.NodeGroupState, len(baseline))
	copy(bounds, baseline)

	m.logger.Info("pool initialized",
		"pool", spec.Name,
		"strategy", spec.EffectiveStrategy(),
		"zones", spec.NumZones,
		"minimum", spec.Minimum,
		"maximum", spec.Maximum,
	)

	return &poolRuntime{
		spec:        spec,
		strategy:    strat,
		baseline:    baseline,
		coordinator: coordinator,
		bounds:      bounds,
	}, nil
}

// scanLoop drives periodic scan ticks until the manager stops.
func (m *Manager) scanLoop() {
	ticker := time.NewTicker(m.cfg.ScanInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			return
		case <-ticker.C:
			m.scanAllPools()
		}
	}
}

// refreshLoop periodically reconciles the pool set against the source.
func (m *Manager) refreshLoop() {
	ticker := time.NewTicker(m.cfg.PoolRefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(m.ctx, m.cfg.OperationTimeout)
			if err := m.refreshPools(ctx); err != nil {
				m.logger.Error("pool refresh failed", "error", err)
				m.notifyError(err)
			}
			cancel()
		}
	}
}

// scanAllPools runs one scan tick for every managed pool concurrently.
func (m *Manager) scanAllPools() {
	var wg sync.WaitGroup
	m.pools.Range(func(name string, rt *poolRuntime) bool {
		wg.Go(func() {
			ctx, cancel := context.WithTimeout(m.ctx, m.cfg.OperationTimeout)
			defer cancel()

			if err := m.scanPool(ctx, rt); err != nil {
				m.logger.Error("scan tick failed", "pool", name, "error", err)
				m.metrics.RecordScanAttempt(name, false)
				m.notifyError(fmt.Errorf("pool %q: %w", name, err))

				return
			}

			m.metrics.RecordScanAttempt(name, true)
		})

		return true
	})
	wg.Wait()
}

// scanPool runs one scan tick for one pool: observe zones, recompute bounds,
// publish them, and drive rollout permits.
func (m *Manager) scanPool(ctx context.Context, rt *poolRuntime) error {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	start := time.Now()
	pool := rt.spec.Name

	observed, err := m.observer.ObserveZones(ctx, pool)
	if err != nil {
		return fmt.Errorf("failed to observe zones: %w", err)
	}

	snapshot := types.ScanSnapshot{Spec: rt.spec, Groups: rt.baseline}
	groups, err := rt.strategy.Resize(snapshot, observed)
	if err != nil {
		return fmt.Errorf("failed to resize: %w", err)
	}
	rt.bounds = groups

	backoffZones := 0
	zeroCapacityZones := 0
	for _, g := range groups {
		if g.Backoff {
			backoffZones++
		}
		if g.MaxSize == 0 {
			zeroCapacityZones++
		}
	}
	m.metrics.RecordBackoffZones(pool, backoffZones)
	m.metrics.RecordZeroCapacityZones(pool, zeroCapacityZones)

	version, published, err := m.publisher.Publish(ctx, pool, rt.spec.EffectiveStrategy(), groups)
	if err != nil {
		return err
	}

	if published {
		m.metrics.RecordBoundsVersion(pool, version)

		if m.hooks.OnBoundsChanged != nil {
			if hookErr := m.hooks.OnBoundsChanged(ctx, pool, groups); hookErr != nil {
				m.logger.Error("bounds change hook error", "pool", pool, "error", hookErr)
			}
		}
	}

	if m.rolloutObserver != nil {
		if err := m.tickRollout(ctx, rt); err != nil {
			m.logger.Error("rollout tick failed", "pool", pool, "error", err)
		}
	}

	m.metrics.RecordScanDuration(time.Since(start).Seconds(), string(rt.spec.EffectiveStrategy()))

	return nil
}

// tickRollout drives one surge/unavailable coordination step for the pool.
//
// Permits are granted, handed to the OnScaleGrant hook as the in-flight
// window, and released when the hook returns. The caller holds rt.mu.
func (m *Manager) tickRollout(ctx context.Context, rt *poolRuntime) error {
	pool := rt.spec.Name

	observation, active, err := m.rolloutObserver.ObserveRollout(ctx, pool)
	if err != nil {
		return fmt.Errorf("failed to observe rollout: %w", err)
	}
	if !active {
		return nil
	}

	scaleUp := rt.coordinator.TickScaleUp(observation)
	scaleDown := rt.coordinator.TickScaleDown(observation)

	if scaleUp > 0 {
		m.metrics.RecordSurgePermitsGranted(scaleUp)
	}
	if scaleDown > 0 {
		m.metrics.RecordUnavailablePermitsGranted(scaleDown)
	}

	if (scaleUp > 0 || scaleDown > 0) && m.hooks.OnScaleGrant != nil {
		if hookErr := m.hooks.OnScaleGrant(ctx, pool, scaleUp, scaleDown); hookErr != nil {
			m.logger.Error("scale grant hook error", "pool", pool, "error", hookErr)
		}
	}

	rt.coordinator.ReleaseScaleUp(scaleUp)
	rt.coordinator.ReleaseScaleDown(scaleDown)

	phase := rt.coordinator.Phase()
	if phase == types.RolloutCompleted && rt.lastPhase != types.RolloutCompleted {
		m.metrics.RecordRolloutCompleted(pool)
		m.logger.Info("rollout completed", "pool", pool)
	}
	rt.lastPhase = phase

	return nil
}

// notifyError invokes the OnError hook if configured.
func (m *Manager) notifyError(err error) {
	if m.hooks.OnError == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), m.cfg.OperationTimeout)
	defer cancel()

	if hookErr := m.hooks.OnError(ctx, err); hookErr != nil {
		m.logger.Error("error hook failed", "error", hookErr)
	}
}
