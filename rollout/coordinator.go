package rollout

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gardener/gardener-sub001/types"
)

// ErrNegativeBudget is returned when a coordinator is created with a negative
// surge or unavailable budget.
var ErrNegativeBudget = errors.New("permit budgets must be non-negative")

// Coordinator manages the surge and unavailable permit budgets of one rollout.
//
// The two counters are guarded by a single mutex so that older- and
// newer-generation reconcilers may tick the same rollout concurrently. A tick
// never awaits the other counter, so no deadlock is possible.
//
// Lifecycle: create the coordinator when a pool configuration change triggers
// a generation swap, tick it once per reconcile cycle for the duration of the
// rollout, and drop it once Phase() reports RolloutCompleted.
type Coordinator struct {
	mu sync.Mutex

	maxSurgePermits       int
	maxUnavailablePermits int

	surgeInFlight       int
	unavailableInFlight int

	phase types.RolloutPhase
}

// New creates a coordinator for one rollout.
//
// Parameters:
//   - maxSurge: Number of machines allowed above the desired replica count
//   - maxUnavailable: Number of machines allowed offline simultaneously
//
// Returns:
//   - *Coordinator: Coordinator in the Idle phase
//   - error: ErrNegativeBudget if either budget is negative
//
// Example:
//
//	coord, err := rollout.New(spec.MaxSurge, spec.MaxUnavailable)
//	if err != nil { /* handle */ }
//	granted := coord.TickScaleUp(observation)
func New(maxSurge, maxUnavailable int) (*Coordinator, error) {
	if maxSurge < 0 || maxUnavailable < 0 {
		return nil, fmt.Errorf("%w: maxSurge=%d maxUnavailable=%d", ErrNegativeBudget, maxSurge, maxUnavailable)
	}

	return &Coordinator{
		maxSurgePermits:       maxSurge,
		maxUnavailablePermits: maxUnavailable,
		phase:                 types.RolloutIdle,
	}, nil
}

// TickScaleUp attempts to acquire surge permits for scaling up the newer
// generation this tick.
//
// The grant is bounded by the replicas the newer generation still needs
// (desired - newer) and by the surge permits not currently in flight. A zero
// grant forbids scale-up this tick; the caller must not scale up the newer
// generation without a non-zero grant. Granted permits must be returned with
// ReleaseScaleUp once the scale-up has been applied.
//
// Parameters:
//   - observation: Replica counts resolved by the rollout controller
//
// Returns:
//   - int: Permits granted (0 when exhausted, completed, or nothing to do)
func (c *Coordinator) TickScaleUp(observation types.RolloutObservation) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.observe(observation)
	if c.phase == types.RolloutCompleted {
		return 0
	}

	needed := observation.DesiredReplicas - observation.NewerSetReplicas
	if needed <= 0 {
		return 0
	}

	available := c.maxSurgePermits - c.surgeInFlight
	if available <= 0 {
		return 0
	}

	granted := min(needed, available)
	c.surgeInFlight += granted

	return granted
}

// ReleaseScaleUp returns surge permits acquired by TickScaleUp.
//
// Permits represent in-flight headroom; the caller releases them immediately
// after the scale-up they guarded has been applied. Releasing more permits
// than are in flight is a programming error and panics.
//
// Parameters:
//   - permits: Number of permits to return (as granted by TickScaleUp)
func (c *Coordinator) ReleaseScaleUp(permits int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if permits < 0 || permits > c.surgeInFlight {
		panic(fmt.Sprintf("rollout: released %d surge permits with %d in flight", permits, c.surgeInFlight))
	}
	c.surgeInFlight -= permits
}

// TickScaleDown attempts to acquire unavailable permits for scaling down the
// older generations this tick.
//
// The grant is bounded by the replicas the older generations can shed without
// dropping the pool below its availability target
// (older - (desired - unavailableInNewer)) and by the unavailable permits not
// currently in flight. A zero grant forbids scale-down this tick. Granted
// permits must be returned with ReleaseScaleDown once the scale-down has been
// applied.
//
// Parameters:
//   - observation: Replica counts resolved by the rollout controller
//
// Returns:
//   - int: Permits granted (0 when exhausted, completed, or nothing to do)
func (c *Coordinator) TickScaleDown(observation types.RolloutObservation) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.observe(observation)
	if c.phase == types.RolloutCompleted {
		return 0
	}

	shrinkable := observation.OlderSetsReplicas - (observation.DesiredReplicas - observation.UnavailableInNewerSet)
	if shrinkable <= 0 {
		return 0
	}

	available := c.maxUnavailablePermits - c.unavailableInFlight
	if available <= 0 {
		return 0
	}

	granted := min(shrinkable, available)
	c.unavailableInFlight += granted

	return granted
}

// ReleaseScaleDown returns unavailable permits acquired by TickScaleDown.
//
// Releasing more permits than are in flight is a programming error and panics.
//
// Parameters:
//   - permits: Number of permits to return (as granted by TickScaleDown)
func (c *Coordinator) ReleaseScaleDown(permits int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if permits < 0 || permits > c.unavailableInFlight {
		panic(fmt.Sprintf("rollout: released %d unavailable permits with %d in flight", permits, c.unavailableInFlight))
	}
	c.unavailableInFlight -= permits
}

// Phase returns the current rollout phase.
//
// This method is thread-safe and can be called concurrently with ticks.
func (c *Coordinator) Phase() types.RolloutPhase {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.phase
}

// SurgeAvailable returns the surge permits not currently in flight.
func (c *Coordinator) SurgeAvailable() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.maxSurgePermits - c.surgeInFlight
}

// UnavailableAvailable returns the unavailable permits not currently in flight.
func (c *Coordinator) UnavailableAvailable() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.maxUnavailablePermits - c.unavailableInFlight
}

// observe advances the phase machine from the tick observation.
//
// Idle -> InProgress when replicas still need to transfer between
// generations; InProgress -> Completed when all older generations are drained
// and the newer generation reached the desired count. The transition is one
// way: a completed rollout grants no further permits. Caller must hold c.mu.
func (c *Coordinator) observe(observation types.RolloutObservation) {
	switch c.phase {
	case types.RolloutIdle, types.RolloutInProgress:
		if observation.OlderSetsReplicas == 0 && observation.NewerSetReplicas >= observation.DesiredReplicas {
			c.phase = types.RolloutCompleted
			return
		}
		c.phase = types.RolloutInProgress
	case types.RolloutCompleted:
		// Terminal.
	}
}
