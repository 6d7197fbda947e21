package zonesizer

import "github.com/gardener/gardener-sub001/types"

// Sentinel errors returned by the Manager.
//
// These alias the definitions in the types subpackage so that errors.Is works
// identically whether callers import the root package or types directly.
var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = types.ErrInvalidConfig

	// ErrNATSConnectionRequired is returned when NATS connection is nil.
	ErrNATSConnectionRequired = types.ErrNATSConnectionRequired

	// ErrPoolSourceRequired is returned when the pool source is nil.
	ErrPoolSourceRequired = types.ErrPoolSourceRequired

	// ErrZoneObserverRequired is returned when the zone observer is nil.
	ErrZoneObserverRequired = types.ErrZoneObserverRequired

	// ErrAlreadyStarted is returned when Start is called on an already running manager.
	ErrAlreadyStarted = types.ErrAlreadyStarted

	// ErrNotStarted is returned when an operation requires a started manager.
	ErrNotStarted = types.ErrNotStarted

	// ErrPoolNotFound is returned when an operation names an unmanaged pool.
	ErrPoolNotFound = types.ErrPoolNotFound

	// ErrInvalidPoolSpec is returned when a worker pool spec fails validation.
	ErrInvalidPoolSpec = types.ErrInvalidPoolSpec

	// ErrUnknownStrategy is returned when a pool names an unknown sizing strategy.
	ErrUnknownStrategy = types.ErrUnknownStrategy
)
