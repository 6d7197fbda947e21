// Package source provides built-in worker pool source implementations.
//
// Pool sources discover the worker pools the sizing manager operates on.
// The package includes:
//
//   - Static: Fixed list of pool specs
//
// Custom sources can be implemented by satisfying the types.PoolSource interface.
package source
