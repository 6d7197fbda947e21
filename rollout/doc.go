// Package rollout provides the surge/unavailable permit coordinator used
// during rolling replacement of machine generations.
//
// A rollout replaces an older machine generation with a newer one under two
// independent capacity budgets: surge (machines allowed above the desired
// replica count) and unavailable (machines allowed offline simultaneously).
// The Coordinator manages both budgets as counting permits shared across the
// competing generations and admits scale operations purely at tick time; no
// post-hoc correction ever occurs.
//
// Permits represent in-flight headroom, not persistent allocations: the caller
// acquires permits with TickScaleUp/TickScaleDown, applies the scale
// operation, and releases the permits immediately afterwards. A zero grant is
// a normal outcome meaning "no action this tick", never an error.
package rollout
