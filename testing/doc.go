// Package testing provides test utilities for the zonesizer library.
//
// This package offers helpers for setting up test environments, particularly
// embedded NATS servers for verifying bounds publishing. It follows Go's
// convention of providing testing utilities in a dedicated package (similar to
// net/http/httptest).
//
// Key utilities:
//   - StartEmbeddedNATS: Single NATS server with JetStream
//   - CreateJetStreamKV: Convenience wrapper for KV bucket creation
//   - NewTestLogger: Logger that writes to testing.T
//   - StaticObserver: Configurable zone and rollout observations
//
// Example usage:
//
//	import (
//	    "testing"
//	    zstest "github.com/gardener/gardener-sub001/testing"
//	)
//
//	func TestMyComponent(t *testing.T) {
//	    _, nc := zstest.StartEmbeddedNATS(t)
//	    // Use nc for your tests
//	}
package testing
