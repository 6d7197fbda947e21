// Package boundspub publishes computed node-group bounds to NATS JetStream KV.
package boundspub

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gardener/gardener-sub001/types"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/zeebo/xxh3"
)

// Document is the versioned bounds record written to KV for one pool.
//
// The provisioning backend watches the bucket and applies the bounds; the
// version lets it detect stale reads across manager restarts.
type Document struct {
	// Version is a monotonically increasing bounds version, shared across all
	// pools of one manager instance.
	Version int64 `json:"version"`

	// Strategy is the sizing strategy that produced the bounds.
	Strategy string `json:"strategy"`

	// Groups is the ordered per-zone bounds for the pool.
	Groups []types.NodeGroupState `json:"groups"`
}

// Publisher writes per-pool bounds documents to a NATS KV bucket.
//
// Keys are formatted as "prefix.poolName". Version monotonicity is maintained
// across manager restarts by discovering the highest existing version on
// startup. Publishes whose bounds digest is unchanged since the last write are
// suppressed, so steady-state scan ticks cause no KV traffic.
type Publisher struct {
	boundsKV  jetstream.KeyValue
	prefix    string
	keyPrefix string // cached "prefix."

	mu             sync.Mutex
	currentVersion int64
	lastDigest     map[string]uint64 // pool -> digest of last published bounds

	logger  types.Logger
	metrics types.PublisherMetrics
}

// New creates a bounds publisher.
//
// Parameters:
//   - boundsKV: NATS KV bucket for bounds documents
//   - prefix: Prefix for bounds keys (e.g., "bounds")
//   - logger: Logger for publishing events
//   - metrics: Metrics collector for publisher operations
//
// Returns:
//   - *Publisher: A new publisher instance
func New(
	boundsKV jetstream.KeyValue,
	prefix string,
	logger types.Logger,
	metrics types.PublisherMetrics,
) *Publisher {
	return &Publisher{
		boundsKV:   boundsKV,
		prefix:     prefix,
		keyPrefix:  fmt.Sprintf("%s.", prefix),
		lastDigest: make(map[string]uint64),
		logger:     logger,
		metrics:    metrics,
	}
}

// DiscoverHighestVersion scans KV for the highest existing bounds version.
//
// This ensures version monotonicity across manager restarts by finding the
// maximum version number from existing documents.
//
// Parameters:
//   - ctx: Context for cancellation
//
// Returns:
//   - error: Nil on success, error on KV access failure
func (p *Publisher) DiscoverHighestVersion(ctx context.Context) error {
	start := time.Now()
	keys, err := p.boundsKV.Keys(ctx)
	p.metrics.RecordKVOperationDuration("keys", time.Since(start).Seconds())
	if err != nil {
		if types.IsNoKeysFoundError(err) {
			return nil
		}

		return fmt.Errorf("failed to list KV keys: %w", err)
	}

	highestVersion := int64(0)
	for _, key := range keys {
		if !strings.HasPrefix(key, p.keyPrefix) {
			continue
		}

		entry, err := p.boundsKV.Get(ctx, key)
		if err != nil {
			p.logger.Debug("failed to read bounds key", "key", key, "error", err)
			continue // Skip entries we can't read
		}

		var doc Document
		if err := json.Unmarshal(entry.Value(), &doc); err != nil {
			p.logger.Debug("failed to unmarshal bounds document", "key", key, "error", err)
			continue // Skip malformed entries
		}

		if doc.Version > highestVersion {
			highestVersion = doc.Version
		}
	}

	p.mu.Lock()
	p.currentVersion = highestVersion
	p.mu.Unlock()

	if highestVersion > 0 {
		p.logger.Info("discovered existing bounds documents", "highest_version", highestVersion)
	}

	return nil
}

// Publish writes the pool's bounds to KV unless they are unchanged.
//
// The bounds are digested with xxh3; when the digest matches the last write
// for the pool the publish is suppressed and no KV operation happens.
//
// Parameters:
//   - ctx: Context for cancellation
//   - pool: Pool name (key suffix)
//   - strategy: Sizing strategy that produced the bounds
//   - groups: Ordered per-zone bounds
//
// Returns:
//   - int64: The version the bounds carry (current version when suppressed)
//   - bool: true if a KV write happened, false when suppressed
//   - error: Wrapped types.ErrPublishFailed on marshal or KV failure
func (p *Publisher) Publish(
	ctx context.Context,
	pool string,
	strategy types.StrategyName,
	groups []types.NodeGroupState,
) (int64, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	payload, err := json.Marshal(groups)
	if err != nil {
		return 0, false, fmt.Errorf("%w: marshal groups for pool %q: %w", types.ErrPublishFailed, pool, err)
	}

	digest := xxh3.Hash(payload)
	if last, ok := p.lastDigest[pool]; ok && last == digest {
		p.metrics.RecordPublishSuppressed(pool)

		return p.currentVersion, false, nil
	}

	p.currentVersion++
	doc := Document{
		Version:  p.currentVersion,
		Strategy: string(strategy),
		Groups:   groups,
	}

	data, err := json.Marshal(doc)
	if err != nil {
		p.currentVersion--

		return 0, false, fmt.Errorf("%w: marshal document for pool %q: %w", types.ErrPublishFailed, pool, err)
	}

	key := p.keyPrefix + pool
	start := time.Now()
	_, err = p.boundsKV.Put(ctx, key, data)
	p.metrics.RecordKVOperationDuration("put", time.Since(start).Seconds())
	if err != nil {
		p.currentVersion--

		return 0, false, fmt.Errorf("%w: put %q: %w", types.ErrPublishFailed, key, err)
	}

	p.lastDigest[pool] = digest

	p.logger.Debug("bounds published",
		"pool", pool,
		"version", doc.Version,
		"strategy", doc.Strategy,
		"zones", len(groups))

	return doc.Version, true, nil
}

// CleanupStale removes bounds keys for pools not in the active set.
//
// Called when pools disappear from the source so the provisioning backend
// stops seeing bounds for removed pools.
//
// Parameters:
//   - ctx: Context for cancellation
//   - activePools: Set of pool names that should retain bounds (nil = delete all)
//
// Returns:
//   - error: Nil on success, error on KV operation failure
func (p *Publisher) CleanupStale(ctx context.Context, activePools map[string]bool) error {
	start := time.Now()
	existingKeys, err := p.boundsKV.Keys(ctx)
	p.metrics.RecordKVOperationDuration("keys", time.Since(start).Seconds())
	if err != nil {
		if types.IsNoKeysFoundError(err) {
			return nil
		}

		return fmt.Errorf("failed to list keys: %w", err)
	}

	deletedCount := 0
	for _, key := range existingKeys {
		if !strings.HasPrefix(key, p.keyPrefix) {
			continue
		}

		pool := strings.TrimPrefix(key, p.keyPrefix)
		if activePools != nil && activePools[pool] {
			continue
		}

		delStart := time.Now()
		err := p.boundsKV.Delete(ctx, key)
		p.metrics.RecordKVOperationDuration("delete", time.Since(delStart).Seconds())
		if err != nil {
			p.logger.Warn("failed to delete stale bounds", "key", key, "error", err)
			// Continue with other deletions even if one fails
			continue
		}

		p.mu.Lock()
		delete(p.lastDigest, pool)
		p.mu.Unlock()
		deletedCount++
	}

	if deletedCount > 0 {
		p.logger.Info("cleaned up stale bounds", "deleted_count", deletedCount)
	}

	return nil
}

// CleanupAll removes all bounds keys from KV.
//
// Called when the manager stops. Safe to call even if cleanup fails - a
// restarted manager will discover existing versions and maintain monotonicity.
//
// Parameters:
//   - ctx: Context for cancellation (recommend a short timeout)
//
// Returns:
//   - error: Nil on success, error on KV operation failure (non-fatal)
func (p *Publisher) CleanupAll(ctx context.Context) error {
	p.logger.Info("cleaning up all bounds from KV")

	return p.CleanupStale(ctx, nil) // nil = delete all
}

// CurrentVersion returns the current bounds version.
//
// This method is thread-safe and can be called concurrently.
//
// Returns:
//   - int64: Current version number (0 if nothing published yet)
func (p *Publisher) CurrentVersion() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.currentVersion
}
