package boundspub

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/gardener/gardener-sub001/internal/logger"
	"github.com/gardener/gardener-sub001/internal/metrics"
	zstest "github.com/gardener/gardener-sub001/testing"
	"github.com/gardener/gardener-sub001/types"
	"github.com/stretchr/testify/require"
)

func testGroups(minSizes, maxSizes []int) []types.NodeGroupState {
	groups := make([]types.NodeGroupState, len(minSizes))
	for i := range minSizes {
		groups[i] = types.NodeGroupState{
			ZoneIndex:      i,
			MinSize:        minSizes[i],
			MaxSize:        maxSizes[i],
			InitialMinSize: minSizes[i],
		}
	}

	return groups
}

func TestPublisher_DiscoverHighestVersion(t *testing.T) {
	_, nc := zstest.StartEmbeddedNATS(t)
	boundsKV := zstest.CreateJetStreamKV(t, nc, "test-publisher-discover")

	publisher := New(boundsKV, "bounds", logger.NewNop(), metrics.NewNop())

	ctx := context.Background()

	// Initially should be 0 - DiscoverHighestVersion handles empty KV gracefully
	err := publisher.DiscoverHighestVersion(ctx)
	// Empty KV may return "no keys found" error - this is acceptable
	if err != nil && !types.IsNoKeysFoundError(err) {
		require.NoError(t, err)
	}
	require.Equal(t, int64(0), publisher.CurrentVersion())

	// Add some bounds documents with different versions
	doc1 := Document{Version: 5, Strategy: "Adaptive", Groups: testGroups([]int{1}, []int{3})}
	data1, _ := json.Marshal(doc1)
	_, err = boundsKV.Put(ctx, "bounds.pool-a", data1)
	require.NoError(t, err)

	doc2 := Document{Version: 10, Strategy: "Adaptive", Groups: testGroups([]int{2}, []int{4})}
	data2, _ := json.Marshal(doc2)
	_, err = boundsKV.Put(ctx, "bounds.pool-b", data2)
	require.NoError(t, err)

	// Should discover version 10
	err = publisher.DiscoverHighestVersion(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(10), publisher.CurrentVersion())
}

func TestPublisher_DiscoverHighestVersion_IgnoresOtherKeys(t *testing.T) {
	_, nc := zstest.StartEmbeddedNATS(t)
	boundsKV := zstest.CreateJetStreamKV(t, nc, "test-publisher-ignore")

	publisher := New(boundsKV, "bounds", logger.NewNop(), metrics.NewNop())

	ctx := context.Background()

	// Add key with a different prefix
	_, err := boundsKV.Put(ctx, "status.pool-a", []byte("ready"))
	require.NoError(t, err)

	// Add bounds document with version 3
	doc := Document{Version: 3, Strategy: "Adaptive", Groups: testGroups([]int{1}, []int{3})}
	data, _ := json.Marshal(doc)
	_, err = boundsKV.Put(ctx, "bounds.pool-a", data)
	require.NoError(t, err)

	// Should only find version 3 (ignoring the status key)
	err = publisher.DiscoverHighestVersion(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(3), publisher.CurrentVersion())
}

func TestPublisher_Publish(t *testing.T) {
	_, nc := zstest.StartEmbeddedNATS(t)
	boundsKV := zstest.CreateJetStreamKV(t, nc, "test-publisher-publish")

	publisher := New(boundsKV, "bounds", logger.NewNop(), metrics.NewNop())

	ctx := context.Background()

	groups := testGroups([]int{2, 1, 1}, []int{4, 4, 4})
	version, published, err := publisher.Publish(ctx, "pool-a", types.StrategyAdaptive, groups)
	require.NoError(t, err)
	require.True(t, published)
	require.Equal(t, int64(1), version)
	require.Equal(t, int64(1), publisher.CurrentVersion())

	// Verify the bounds were written to KV
	entry, err := boundsKV.Get(ctx, "bounds.pool-a")
	require.NoError(t, err)

	var doc Document
	err = json.Unmarshal(entry.Value(), &doc)
	require.NoError(t, err)
	require.Equal(t, int64(1), doc.Version)
	require.Equal(t, "Adaptive", doc.Strategy)
	require.Len(t, doc.Groups, 3)
	require.Equal(t, 2, doc.Groups[0].MinSize)
	require.Equal(t, 4, doc.Groups[2].MaxSize)
}

func TestPublisher_Publish_SuppressesUnchangedBounds(t *testing.T) {
	_, nc := zstest.StartEmbeddedNATS(t)
	boundsKV := zstest.CreateJetStreamKV(t, nc, "test-publisher-suppress")

	publisher := New(boundsKV, "bounds", logger.NewNop(), metrics.NewNop())

	ctx := context.Background()

	groups := testGroups([]int{1, 1}, []int{3, 3})
	version, published, err := publisher.Publish(ctx, "pool-a", types.StrategyAdaptive, groups)
	require.NoError(t, err)
	require.True(t, published)
	require.Equal(t, int64(1), version)

	// Publishing identical bounds again is a no-op
	version, published, err = publisher.Publish(ctx, "pool-a", types.StrategyAdaptive, groups)
	require.NoError(t, err)
	require.False(t, published)
	require.Equal(t, int64(1), version)
	require.Equal(t, int64(1), publisher.CurrentVersion())

	// Changed bounds publish a new version
	changed := testGroups([]int{0, 2}, []int{3, 3})
	version, published, err = publisher.Publish(ctx, "pool-a", types.StrategyAdaptive, changed)
	require.NoError(t, err)
	require.True(t, published)
	require.Equal(t, int64(2), version)
}

func TestPublisher_Publish_IncrementsVersionPerPool(t *testing.T) {
	_, nc := zstest.StartEmbeddedNATS(t)
	boundsKV := zstest.CreateJetStreamKV(t, nc, "test-publisher-increment")

	publisher := New(boundsKV, "bounds", logger.NewNop(), metrics.NewNop())

	ctx := context.Background()

	groups := testGroups([]int{1}, []int{3})
	_, _, err := publisher.Publish(ctx, "pool-a", types.StrategyAdaptive, groups)
	require.NoError(t, err)
	require.Equal(t, int64(1), publisher.CurrentVersion())

	// A different pool gets the next version from the shared counter
	_, _, err = publisher.Publish(ctx, "pool-b", types.StrategyBackwardCompatible, groups)
	require.NoError(t, err)
	require.Equal(t, int64(2), publisher.CurrentVersion())

	entry, err := boundsKV.Get(ctx, "bounds.pool-b")
	require.NoError(t, err)

	var doc Document
	err = json.Unmarshal(entry.Value(), &doc)
	require.NoError(t, err)
	require.Equal(t, int64(2), doc.Version)
	require.Equal(t, "BackwardCompatible", doc.Strategy)
}

func TestPublisher_VersionMonotonicity(t *testing.T) {
	_, nc := zstest.StartEmbeddedNATS(t)
	boundsKV := zstest.CreateJetStreamKV(t, nc, "test-publisher-monotonic")

	// Simulate existing bounds from a previous manager instance
	ctx := context.Background()
	doc := Document{Version: 100, Strategy: "Adaptive", Groups: testGroups([]int{1}, []int{3})}
	data, _ := json.Marshal(doc)
	_, err := boundsKV.Put(ctx, "bounds.pool-a", data)
	require.NoError(t, err)

	// New publisher (restarted manager) discovers the existing version
	publisher := New(boundsKV, "bounds", logger.NewNop(), metrics.NewNop())

	err = publisher.DiscoverHighestVersion(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(100), publisher.CurrentVersion())

	// Next publish should be 101
	version, published, err := publisher.Publish(ctx, "pool-a", types.StrategyAdaptive, testGroups([]int{2}, []int{3}))
	require.NoError(t, err)
	require.True(t, published)
	require.Equal(t, int64(101), version)
}

func TestPublisher_CleanupStale_Selective(t *testing.T) {
	_, nc := zstest.StartEmbeddedNATS(t)
	boundsKV := zstest.CreateJetStreamKV(t, nc, "test-publisher-cleanup-selective")

	publisher := New(boundsKV, "bounds", logger.NewNop(), metrics.NewNop())

	ctx := context.Background()

	groups := testGroups([]int{1}, []int{3})
	for _, pool := range []string{"pool-a", "pool-b", "pool-c"} {
		_, _, err := publisher.Publish(ctx, pool, types.StrategyAdaptive, groups)
		require.NoError(t, err)
	}

	// Key with another prefix must survive cleanup
	_, err := boundsKV.Put(ctx, "status.pool-a", []byte("ready"))
	require.NoError(t, err)

	// pool-c disappeared from the source
	err = publisher.CleanupStale(ctx, map[string]bool{"pool-a": true, "pool-b": true})
	require.NoError(t, err)

	_, err = boundsKV.Get(ctx, "bounds.pool-a")
	require.NoError(t, err)
	_, err = boundsKV.Get(ctx, "bounds.pool-b")
	require.NoError(t, err)
	_, err = boundsKV.Get(ctx, "bounds.pool-c")
	require.Error(t, err, "stale pool bounds should be deleted")
	_, err = boundsKV.Get(ctx, "status.pool-a")
	require.NoError(t, err, "keys outside the bounds prefix must be untouched")

	// Digest state for the removed pool is dropped, so a re-added pool
	// publishes again even with identical bounds.
	version, published, err := publisher.Publish(ctx, "pool-c", types.StrategyAdaptive, groups)
	require.NoError(t, err)
	require.True(t, published)
	require.Equal(t, int64(4), version)
}

func TestPublisher_CleanupAll(t *testing.T) {
	_, nc := zstest.StartEmbeddedNATS(t)
	boundsKV := zstest.CreateJetStreamKV(t, nc, "test-publisher-cleanup-all")

	publisher := New(boundsKV, "bounds", logger.NewNop(), metrics.NewNop())

	ctx := context.Background()

	groups := testGroups([]int{1}, []int{3})
	for _, pool := range []string{"pool-a", "pool-b"} {
		_, _, err := publisher.Publish(ctx, pool, types.StrategyAdaptive, groups)
		require.NoError(t, err)
	}

	err := publisher.CleanupAll(ctx)
	require.NoError(t, err)

	_, err = boundsKV.Get(ctx, "bounds.pool-a")
	require.Error(t, err, "pool-a bounds should be deleted")
	_, err = boundsKV.Get(ctx, "bounds.pool-b")
	require.Error(t, err, "pool-b bounds should be deleted")
}

func TestPublisher_CurrentVersion(t *testing.T) {
	_, nc := zstest.StartEmbeddedNATS(t)
	boundsKV := zstest.CreateJetStreamKV(t, nc, "test-publisher-version")

	publisher := New(boundsKV, "bounds", logger.NewNop(), metrics.NewNop())

	// Should start at 0
	require.Equal(t, int64(0), publisher.CurrentVersion())
}
