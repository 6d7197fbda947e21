// Package zonesizer provides dynamic node-group sizing for zone-partitioned
// worker pools.
//
// A worker pool spans several availability zones, each backed by one node
// group. The library distributes the pool's minimum and maximum machine counts
// over those zones, recomputes the per-zone bounds every scan from observed
// launches and backoff signals, and publishes the results as versioned
// documents to NATS JetStream KV for the provisioning backend to apply.
//
// # Quick Start
//
// Basic usage with default settings:
//
//	import (
//	    zonesizer "github.com/gardener/gardener-sub001"
//	    "github.com/gardener/gardener-sub001/source"
//	)
//
//	cfg := zonesizer.DefaultConfig()
//	src := source.NewStatic([]zonesizer.WorkerPoolSpec{
//	    {Name: "workers", Minimum: 3, Maximum: 12, NumZones: 3},
//	})
//
//	mgr, err := zonesizer.NewManager(&cfg, natsConn, src, zoneBackend)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := mgr.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer mgr.Stop(context.Background())
//
// # Key Features
//
//   - Exact Zone Distribution: Minimum and maximum counts partition exactly
//     over zones, remainder machines going to the lowest zone indices
//   - Adaptive Sizing: Minimum guarantees move away from zones in backoff so
//     the pool floor stays reachable during zonal outages
//   - Versioned Bounds: Published documents carry a monotonic version that
//     survives manager restarts
//   - Rollout Coordination: Surge and unavailable permit budgets bound how
//     many machines a generation swap may add or drain per tick
//
// # Architecture
//
// The Manager discovers pools from a PoolSource and runs one scan tick per
// pool per ScanInterval:
//
//	observe zones → resize bounds → publish to KV → tick rollout permits
//
// Sizing strategies are pure functions of the scan snapshot and the observed
// zone states, so any published bounds document is independently re-derivable.
//
// # Advanced Usage
//
// Custom hooks and rollout coordination:
//
//	hooks := &zonesizer.Hooks{
//	    OnBoundsChanged: func(ctx context.Context, pool string, groups []zonesizer.NodeGroupState) error {
//	        // React to newly published bounds
//	        return nil
//	    },
//	    OnScaleGrant: func(ctx context.Context, pool string, scaleUp, scaleDown int) error {
//	        // Apply the granted machine movements
//	        return nil
//	    },
//	}
//
//	mgr, err := zonesizer.NewManager(&cfg, natsConn, src, zoneBackend,
//	    zonesizer.WithHooks(hooks),
//	    zonesizer.WithRolloutObserver(rolloutBackend),
//	)
//
// See the examples/ directory for complete working examples.
package zonesizer
