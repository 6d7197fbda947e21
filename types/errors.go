package types

import (
	"errors"
	"strings"
)

// Sentinel errors for the zonesizer library.
//
// These errors provide type-safe error checking using errors.Is() and
// errors.As(). All components should use these sentinel errors for known error
// conditions and wrap external errors with context using
// fmt.Errorf("%s: %w", msg, err).

// Pool spec and strategy errors - configuration-violation class, rejected
// before the engine would produce degenerate bounds.
var (
	// ErrInvalidPoolSpec is returned when a worker pool spec violates the
	// validation rules (negative fields, zero zones, maximum < zones).
	ErrInvalidPoolSpec = errors.New("invalid worker pool spec")

	// ErrUnknownStrategy is returned when a pool names a sizing strategy the
	// library does not provide.
	ErrUnknownStrategy = errors.New("unknown sizing strategy")

	// ErrZoneCountMismatch is returned when an observation does not cover
	// exactly the zones of the snapshot it is resizing.
	ErrZoneCountMismatch = errors.New("observed zones do not match snapshot zones")
)

// Manager errors - public API errors returned by the Manager component.
var (
	// ErrInvalidConfig is returned when the manager configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrNATSConnectionRequired is returned when the NATS connection is nil.
	ErrNATSConnectionRequired = errors.New("NATS connection is required")

	// ErrPoolSourceRequired is returned when the pool source is nil.
	ErrPoolSourceRequired = errors.New("pool source is required")

	// ErrZoneObserverRequired is returned when the zone observer is nil.
	ErrZoneObserverRequired = errors.New("zone observer is required")

	// ErrAlreadyStarted is returned when Start is called on a running manager.
	ErrAlreadyStarted = errors.New("manager already started")

	// ErrNotStarted is returned when operations require a started manager.
	ErrNotStarted = errors.New("manager not started")

	// ErrPoolNotFound is returned when an operation names an unmanaged pool.
	ErrPoolNotFound = errors.New("pool not found")
)

// Bounds publisher errors - internal bounds publishing component errors.
var (
	// ErrPublishFailed is returned when publishing bounds to NATS KV fails.
	ErrPublishFailed = errors.New("failed to publish bounds")

	// ErrDeleteFailed is returned when deleting bounds from NATS KV fails.
	ErrDeleteFailed = errors.New("failed to delete bounds")
)

// Common errors - Shared errors used across multiple components.
var (
	// ErrNoKeysFound is returned when NATS KV returns no keys (expected condition).
	ErrNoKeysFound = errors.New("no keys found")
)

// IsNoKeysFoundError checks if an error indicates that no keys were found in NATS KV.
//
// This function handles NATS-specific "no keys found" errors which may come as:
//   - Direct error: "nats: no keys found"
//   - Wrapped error: "failed to list KV keys: nats: no keys found"
//
// Parameters:
//   - err: The error to check
//
// Returns:
//   - bool: true if the error indicates no keys were found, false otherwise
func IsNoKeysFoundError(err error) bool {
	if err == nil {
		return false
	}
	// Check against our sentinel error first
	if errors.Is(err, ErrNoKeysFound) {
		return true
	}
	// Check for NATS-specific error message (handles both direct and wrapped errors)
	return strings.Contains(err.Error(), "no keys found")
}
