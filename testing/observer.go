package testing

import (
	"context"
	"fmt"
	"sync"

	"github.com/gardener/gardener-sub001/types"
)

// StaticObserver is an in-memory zone and rollout observer for tests.
//
// Observations are set per pool and returned verbatim; updating an observation
// takes effect on the next ObserveZones / ObserveRollout call. All methods are
// safe for concurrent use, so tests can mutate observations while a manager
// scan loop is running.
type StaticObserver struct {
	mu       sync.RWMutex
	zones    map[string][]types.ObservedZoneState
	rollouts map[string]types.RolloutObservation
}

var (
	_ types.ZoneObserver    = (*StaticObserver)(nil)
	_ types.RolloutObserver = (*StaticObserver)(nil)
)

// NewStaticObserver creates an observer with no observations set.
//
// Returns:
//   - *StaticObserver: A new observer instance
func NewStaticObserver() *StaticObserver {
	return &StaticObserver{
		zones:    make(map[string][]types.ObservedZoneState),
		rollouts: make(map[string]types.RolloutObservation),
	}
}

// SetZones sets the zone observation returned for the pool.
//
// Parameters:
//   - pool: Pool name
//   - zones: Per-zone states, ordered by zone index
func (o *StaticObserver) SetZones(pool string, zones []types.ObservedZoneState) {
	o.mu.Lock()
	defer o.mu.Unlock()

	copied := make([]types.ObservedZoneState, len(zones))
	copy(copied, zones)
	o.zones[pool] = copied
}

// SetRollout sets the rollout observation returned for the pool.
//
// Parameters:
//   - pool: Pool name
//   - obs: Rollout replica counts
func (o *StaticObserver) SetRollout(pool string, obs types.RolloutObservation) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.rollouts[pool] = obs
}

// ClearRollout removes the rollout observation for the pool, so subsequent
// ObserveRollout calls report no active rollout.
//
// Parameters:
//   - pool: Pool name
func (o *StaticObserver) ClearRollout(pool string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	delete(o.rollouts, pool)
}

// ObserveZones implements types.ZoneObserver.
func (o *StaticObserver) ObserveZones(_ context.Context, pool string) ([]types.ObservedZoneState, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	zones, ok := o.zones[pool]
	if !ok {
		return nil, fmt.Errorf("%w: %s", types.ErrPoolNotFound, pool)
	}

	copied := make([]types.ObservedZoneState, len(zones))
	copy(copied, zones)

	return copied, nil
}

// ObserveRollout implements types.RolloutObserver.
func (o *StaticObserver) ObserveRollout(_ context.Context, pool string) (types.RolloutObservation, bool, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	obs, ok := o.rollouts[pool]

	return obs, ok, nil
}
