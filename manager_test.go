package zonesizer

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gardener/gardener-sub001/source"
	zstest "github.com/gardener/gardener-sub001/testing"
	"github.com/gardener/gardener-sub001/types"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/require"
)

func testPoolSpec() types.WorkerPoolSpec {
	return types.WorkerPoolSpec{
		Name:           "workers",
		Minimum:        3,
		Maximum:        12,
		MaxSurge:       1,
		MaxUnavailable: 1,
		NumZones:       3,
		Strategy:       types.StrategyAdaptive,
	}
}

// startTestManager spins up an embedded NATS server and a running manager
// sizing the given pools.
func startTestManager(t *testing.T, pools []types.WorkerPoolSpec, opts ...Option) (*Manager, *source.Static, *zstest.StaticObserver) {
	t.Helper()

	_, nc := zstest.StartEmbeddedNATS(t)

	src := source.NewStatic(pools)
	observer := zstest.NewStaticObserver()
	for _, spec := range pools {
		zones := make([]types.ObservedZoneState, spec.NumZones)
		for i := range spec.NumZones {
			zones[i] = types.ObservedZoneState{ZoneIndex: i}
		}
		observer.SetZones(spec.Name, zones)
	}

	cfg := TestConfig()
	opts = append(opts, WithLogger(zstest.NewTestLogger(t)))
	mgr, err := NewManager(&cfg, nc, src, observer, opts...)
	require.NoError(t, err)

	require.NoError(t, mgr.Start(context.Background()))
	t.Cleanup(func() {
		_ = mgr.Stop(context.Background())
	})

	return mgr, src, observer
}

type mockObserver struct{}

func (m *mockObserver) ObserveZones(_ context.Context, _ string) ([]types.ObservedZoneState, error) {
	return []types.ObservedZoneState{{ZoneIndex: 0}}, nil
}

func TestNewManager_RequiredParameters(t *testing.T) {
	cfg := DefaultConfig()
	conn := &nats.Conn{}
	src := source.NewStatic(nil)
	observer := &mockObserver{}

	t.Run("nil config", func(t *testing.T) {
		mgr, err := NewManager(nil, conn, src, observer)

		require.ErrorIs(t, err, ErrInvalidConfig)
		require.Nil(t, mgr)
	})

	t.Run("nil connection", func(t *testing.T) {
		mgr, err := NewManager(&cfg, nil, src, observer)

		require.ErrorIs(t, err, ErrNATSConnectionRequired)
		require.Nil(t, mgr)
	})

	t.Run("nil source", func(t *testing.T) {
		mgr, err := NewManager(&cfg, conn, nil, observer)

		require.ErrorIs(t, err, ErrPoolSourceRequired)
		require.Nil(t, mgr)
	})

	t.Run("nil observer", func(t *testing.T) {
		mgr, err := NewManager(&cfg, conn, src, nil)

		require.ErrorIs(t, err, ErrZoneObserverRequired)
		require.Nil(t, mgr)
	})

	t.Run("invalid configuration", func(t *testing.T) {
		bad := DefaultConfig()
		bad.OperationTimeout = bad.ScanInterval + time.Second
		mgr, err := NewManager(&bad, conn, src, observer)

		require.Error(t, err)
		require.Nil(t, mgr)
	})
}

func TestNewManager_NilSafety(t *testing.T) {
	cfg := DefaultConfig()
	conn := &nats.Conn{}
	src := source.NewStatic(nil)
	observer := &mockObserver{}

	t.Run("without optional dependencies", func(t *testing.T) {
		mgr, err := NewManager(&cfg, conn, src, observer)

		require.NoError(t, err)
		require.NotNil(t, mgr)

		// Verify optional fields get safe defaults (not nil)
		require.NotNil(t, mgr.hooks)
		require.NotNil(t, mgr.metrics)
		require.NotNil(t, mgr.logger)
		require.NotNil(t, mgr.strategyFactory)
		require.Nil(t, mgr.rolloutObserver) // rollout coordination stays optional
	})

	t.Run("accepts optional hooks", func(t *testing.T) {
		hooks := &Hooks{}
		mgr, err := NewManager(&cfg, conn, src, observer, WithHooks(hooks))

		require.NoError(t, err)
		require.NotNil(t, mgr)
	})
}

func TestManager_Lifecycle(t *testing.T) {
	mgr, _, _ := startTestManager(t, []types.WorkerPoolSpec{testPoolSpec()})

	// Initial scan ran during Start: bounds are available and published
	bounds, err := mgr.Bounds("workers")
	require.NoError(t, err)
	require.Len(t, bounds, 3)
	require.Equal(t, []int{1, 1, 1}, []int{bounds[0].MinSize, bounds[1].MinSize, bounds[2].MinSize})
	require.GreaterOrEqual(t, mgr.BoundsVersion(), int64(1))
	require.Equal(t, []string{"workers"}, mgr.Pools())

	// Second Start is rejected
	require.ErrorIs(t, mgr.Start(context.Background()), ErrAlreadyStarted)

	require.NoError(t, mgr.Stop(context.Background()))

	// Second Stop is rejected
	require.ErrorIs(t, mgr.Stop(context.Background()), ErrNotStarted)
}

func TestManager_Bounds_UnknownPool(t *testing.T) {
	mgr, _, _ := startTestManager(t, []types.WorkerPoolSpec{testPoolSpec()})

	_, err := mgr.Bounds("no-such-pool")
	require.ErrorIs(t, err, ErrPoolNotFound)

	_, err = mgr.RolloutPhase("no-such-pool")
	require.ErrorIs(t, err, ErrPoolNotFound)
}

func TestManager_BackoffRedistribution(t *testing.T) {
	mgr, _, observer := startTestManager(t, []types.WorkerPoolSpec{testPoolSpec()})

	// Zone 0 enters backoff: its minimum guarantee moves to the healthy zones
	observer.SetZones("workers", []types.ObservedZoneState{
		{ZoneIndex: 0, Backoff: true},
		{ZoneIndex: 1, LaunchedCount: 1},
		{ZoneIndex: 2, LaunchedCount: 1},
	})

	require.Eventually(t, func() bool {
		bounds, err := mgr.Bounds("workers")
		if err != nil || len(bounds) != 3 {
			return false
		}

		return bounds[0].MinSize == 0 && bounds[1].MinSize == 2 && bounds[2].MinSize == 1
	}, 5*time.Second, 20*time.Millisecond, "backoff zone minimum should redistribute to healthy zones")

	// Recovery restores the initial distribution
	observer.SetZones("workers", []types.ObservedZoneState{
		{ZoneIndex: 0, LaunchedCount: 1},
		{ZoneIndex: 1, LaunchedCount: 1},
		{ZoneIndex: 2, LaunchedCount: 1},
	})

	require.Eventually(t, func() bool {
		bounds, err := mgr.Bounds("workers")
		if err != nil {
			return false
		}

		return bounds[0].MinSize == 1 && bounds[1].MinSize == 1 && bounds[2].MinSize == 1
	}, 5*time.Second, 20*time.Millisecond, "recovered zone should regain its minimum share")
}

func TestManager_RefreshPools(t *testing.T) {
	mgr, src, observer := startTestManager(t, []types.WorkerPoolSpec{testPoolSpec()})

	second := types.WorkerPoolSpec{
		Name:     "workers-b",
		Minimum:  2,
		Maximum:  8,
		NumZones: 2,
	}
	observer.SetZones("workers-b", []types.ObservedZoneState{
		{ZoneIndex: 0},
		{ZoneIndex: 1},
	})
	src.Update([]types.WorkerPoolSpec{testPoolSpec(), second})

	require.NoError(t, mgr.RefreshPools(context.Background()))
	require.ElementsMatch(t, []string{"workers", "workers-b"}, mgr.Pools())

	require.Eventually(t, func() bool {
		bounds, err := mgr.Bounds("workers-b")

		return err == nil && len(bounds) == 2 && bounds[0].MinSize == 1
	}, 5*time.Second, 20*time.Millisecond)

	// Removing the pool drops it from management
	src.Update([]types.WorkerPoolSpec{testPoolSpec()})
	require.NoError(t, mgr.RefreshPools(context.Background()))
	require.Equal(t, []string{"workers"}, mgr.Pools())

	_, err := mgr.Bounds("workers-b")
	require.ErrorIs(t, err, ErrPoolNotFound)
}

func TestManager_RefreshPools_SkipsInvalidSpec(t *testing.T) {
	mgr, src, _ := startTestManager(t, []types.WorkerPoolSpec{testPoolSpec()})

	// Maximum below the zone count would produce a zero-capacity zone
	invalid := types.WorkerPoolSpec{Name: "broken", Minimum: 0, Maximum: 1, NumZones: 3}
	src.Update([]types.WorkerPoolSpec{testPoolSpec(), invalid})

	require.NoError(t, mgr.RefreshPools(context.Background()))
	require.Equal(t, []string{"workers"}, mgr.Pools())
}

func TestManager_RolloutCoordination(t *testing.T) {
	var grantedUp, grantedDown atomic.Int64

	hooks := &Hooks{
		OnScaleGrant: func(_ context.Context, pool string, scaleUp, scaleDown int) error {
			if pool == "workers" {
				grantedUp.Add(int64(scaleUp))
				grantedDown.Add(int64(scaleDown))
			}

			return nil
		},
	}

	observer := zstest.NewStaticObserver()
	mgr, _, _ := startTestManager(t, []types.WorkerPoolSpec{testPoolSpec()},
		WithRolloutObserver(observer),
		WithHooks(hooks),
	)

	phase, err := mgr.RolloutPhase("workers")
	require.NoError(t, err)
	require.Equal(t, RolloutIdle, phase)

	// A generation swap begins: newer set empty, older set holds everything
	observer.SetRollout("workers", types.RolloutObservation{
		DesiredReplicas:   3,
		NewerSetReplicas:  0,
		OlderSetsReplicas: 3,
	})

	require.Eventually(t, func() bool {
		return grantedUp.Load() > 0
	}, 5*time.Second, 20*time.Millisecond, "surge permits should be granted while the newer set grows")

	phase, err = mgr.RolloutPhase("workers")
	require.NoError(t, err)
	require.Equal(t, RolloutInProgress, phase)

	// Older sets hold surplus replicas beyond the availability target:
	// scale-down grants flow
	observer.SetRollout("workers", types.RolloutObservation{
		DesiredReplicas:       3,
		NewerSetReplicas:      3,
		OlderSetsReplicas:     3,
		UnavailableInNewerSet: 1,
	})

	require.Eventually(t, func() bool {
		return grantedDown.Load() > 0
	}, 5*time.Second, 20*time.Millisecond, "unavailable permits should be granted while older sets drain")

	// Rollout finishes: all replicas on the newer generation
	observer.SetRollout("workers", types.RolloutObservation{
		DesiredReplicas:  3,
		NewerSetReplicas: 3,
	})

	require.Eventually(t, func() bool {
		phase, err := mgr.RolloutPhase("workers")

		return err == nil && phase == RolloutCompleted
	}, 5*time.Second, 20*time.Millisecond, "rollout should complete once older sets are drained")
}

func TestManager_RefreshPools_NotStarted(t *testing.T) {
	cfg := DefaultConfig()
	mgr, err := NewManager(&cfg, &nats.Conn{}, source.NewStatic(nil), &mockObserver{})
	require.NoError(t, err)

	require.ErrorIs(t, mgr.RefreshPools(context.Background()), ErrNotStarted)
	require.ErrorIs(t, mgr.Stop(context.Background()), ErrNotStarted)
}
