// Package strategy provides the built-in node-group sizing strategies.
//
// A sizing strategy recomputes the per-zone {MinSize, MaxSize} bounds of a
// zone-partitioned worker pool on every scan cycle. The package includes two
// built-in strategies:
//
//   - Adaptive: redistributes minimum guarantees away from backoff zones and
//     caps per-zone capacity against the launches observed in all other zones
//     (recommended)
//   - BackwardCompatible: legacy static distribution, fixed at initialization
//
// # Strategy Selection Guide
//
// Adaptive:
//   - Use for pools that must keep making progress under partial zone failure
//   - A backoff zone's minimum guarantee is reassigned to healthy zones
//   - The pool-wide maximum is always respected exactly: a zone's MaxSize plus
//     the launches of every other zone never exceeds the configured maximum
//
// BackwardCompatible:
//   - Use only for pools that depend on the legacy fixed distribution
//   - Bounds never move after initialization; a backoff zone keeps its
//     head-room and progress stalls once healthy zones hit their own maxima
//
// Both strategies are stateless and safe for concurrent use across independent
// pools. Custom strategies can be implemented by satisfying the
// types.SizingStrategy interface.
package strategy
