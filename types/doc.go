// Package types defines the public value types and interfaces shared across
// the zonesizer library.
//
// It exists as a separate package so that internal packages (bounds publishing,
// metrics, logging) can depend on these definitions without importing the root
// package, avoiding import cycles. The root package re-exports the commonly
// used names for convenience.
package types
