package types

import "context"

// Hooks defines callbacks for Manager scan events.
//
// All hooks are optional and called synchronously inside the pool's scan tick,
// so a hook for one pool never blocks another pool's scan. The context passed
// to hooks is bounded by the manager's operation timeout and cancelled during
// shutdown.
//
// Best practices for hook implementation:
//   - Complete quickly (well under the scan interval)
//   - Respect context cancellation
//   - Make hooks idempotent (a tick may republish identical bounds)
//   - Handle errors gracefully (returned errors are logged, never fatal)
type Hooks struct {
	// OnBoundsChanged is called after a scan publishes new bounds for a pool.
	// It is not called for suppressed (unchanged) publishes.
	OnBoundsChanged func(ctx context.Context, pool string, groups []NodeGroupState) error

	// OnScaleGrant is called when the rollout coordinator grants permits for
	// the pool this tick. scaleUp and scaleDown are the granted permit counts
	// (either may be zero, never both). Granted permits are released as soon
	// as the hook returns; the hook is the "in-flight" window.
	OnScaleGrant func(ctx context.Context, pool string, scaleUp, scaleDown int) error

	// OnError is called when a recoverable scan error occurs.
	OnError func(ctx context.Context, err error) error
}
