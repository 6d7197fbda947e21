package source

import (
	"context"
	"sync"

	"github.com/gardener/gardener-sub001/types"
)

// Static implements a pool source with a fixed list of worker pool specs.
type Static struct {
	mu    sync.RWMutex
	pools []types.WorkerPoolSpec
}

var _ types.PoolSource = (*Static)(nil)

// NewStatic creates a new static pool source.
//
// The source returns a fixed list of pool specs that never changes unless
// Update is called. Useful for testing and scenarios where pools are known at
// startup.
//
// Parameters:
//   - pools: Fixed list of worker pool specs
//
// Returns:
//   - *Static: Initialized static source
//
// Example:
//
//	pools := []types.WorkerPoolSpec{
//	    {Name: "workers", Minimum: 3, Maximum: 12, NumZones: 3},
//	}
//	src := source.NewStatic(pools)
//	mgr, err := zonesizer.NewManager(&cfg, nc, src, observer)
//	if err != nil { /* handle */ }
func NewStatic(pools []types.WorkerPoolSpec) *Static {
	return &Static{
		pools: pools,
	}
}

// ListPools returns the static list of pool specs.
//
// Returns:
//   - []types.WorkerPoolSpec: The fixed list of pool specs
//   - error: Always nil (never fails)
func (s *Static) ListPools(_ context.Context) ([]types.WorkerPoolSpec, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]types.WorkerPoolSpec, len(s.pools))
	copy(result, s.pools)

	return result, nil
}

// Update replaces the pool list.
//
// This allows the static source to simulate dynamic pool changes, which is
// useful for testing pool refresh scenarios.
//
// Parameters:
//   - pools: New list of worker pool specs
//
// Example:
//
//	src := source.NewStatic(initialPools)
//	// Later: add another pool
//	src.Update(expandedPools)
func (s *Static) Update(pools []types.WorkerPoolSpec) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pools = make([]types.WorkerPoolSpec, len(pools))
	copy(s.pools, pools)
}
