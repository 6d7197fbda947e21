package zonesizer

import (
	"fmt"
	"time"
)

// KVBucketConfig configures the NATS JetStream KV bucket for published bounds.
type KVBucketConfig struct {
	// BoundsBucket is the bucket name for published node-group bounds.
	BoundsBucket string `yaml:"boundsBucket"`

	// BoundsKeyPrefix is the key prefix for bounds documents. Keys are
	// formatted as "<prefix>.<poolName>".
	BoundsKeyPrefix string `yaml:"boundsKeyPrefix"`

	// BoundsTTL is how long bounds documents remain in KV (0 = no expiration).
	// Bounds should persist across manager restarts for version continuity.
	// Recommended: 0 (no TTL) or very long (e.g., 1 hour).
	BoundsTTL time.Duration `yaml:"boundsTtl"`
}

// Config is the configuration for the Manager.
//
// All duration fields accept standard Go duration strings like "30s", "5m", "1h".
type Config struct {
	// ScanInterval is how often each pool's zones are observed and its
	// bounds recomputed. Shorter intervals react faster to backoff changes
	// but increase load on the zone observer backend.
	// Recommended: 10 seconds.
	ScanInterval time.Duration `yaml:"scanInterval"`

	// PoolRefreshInterval is how often the pool source is re-queried for
	// added or removed pools. Zero disables periodic refresh; pools are then
	// refreshed only at startup and via RefreshPools().
	PoolRefreshInterval time.Duration `yaml:"poolRefreshInterval"`

	// OperationTimeout is the timeout for one scan tick of one pool,
	// covering observation, resize, and KV publication.
	// Recommended: 10 seconds.
	OperationTimeout time.Duration `yaml:"operationTimeout"`

	// StartupTimeout is the maximum time to wait for the manager to fully
	// start. Includes KV bucket creation, version discovery, and initial
	// pool discovery.
	// Recommended: 30 seconds.
	StartupTimeout time.Duration `yaml:"startupTimeout"`

	// ShutdownTimeout is the maximum time to wait for graceful shutdown.
	// Includes stopping scan goroutines and bounds cleanup.
	// Recommended: 10 seconds.
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`

	// KVBuckets controls NATS JetStream KV bucket configuration.
	KVBuckets KVBucketConfig `yaml:"kvBuckets"`
}

// DefaultConfig returns a Config with sensible defaults.
//
// Returns:
//   - Config: Configuration with default values
func DefaultConfig() Config {
	return Config{
		ScanInterval:        10 * time.Second,
		PoolRefreshInterval: 1 * time.Minute,
		OperationTimeout:    10 * time.Second,
		StartupTimeout:      30 * time.Second,
		ShutdownTimeout:     10 * time.Second,
		KVBuckets: KVBucketConfig{
			BoundsBucket:    "zonesizer-bounds",
			BoundsKeyPrefix: "bounds",
			BoundsTTL:       0, // No TTL - bounds persist for version continuity
		},
	}
}

// SetDefaults fills in missing configuration values with production defaults.
//
// Parameters:
//   - cfg: Config to apply defaults to (modified in place)
func SetDefaults(cfg *Config) {
	defaults := DefaultConfig()

	if cfg.ScanInterval == 0 {
		cfg.ScanInterval = defaults.ScanInterval
	}
	if cfg.OperationTimeout == 0 {
		cfg.OperationTimeout = defaults.OperationTimeout
	}
	if cfg.StartupTimeout == 0 {
		cfg.StartupTimeout = defaults.StartupTimeout
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = defaults.ShutdownTimeout
	}
	if cfg.KVBuckets.BoundsBucket == "" {
		cfg.KVBuckets.BoundsBucket = defaults.KVBuckets.BoundsBucket
	}
	if cfg.KVBuckets.BoundsKeyPrefix == "" {
		cfg.KVBuckets.BoundsKeyPrefix = defaults.KVBuckets.BoundsKeyPrefix
	}
	// Note: PoolRefreshInterval of 0 is valid (periodic refresh disabled) and
	// BoundsTTL of 0 is valid (no expiration), so we don't apply defaults.
}

// Validate checks configuration constraints and returns error for invalid values.
//
// Hard Validation Rules:
//   - ScanInterval > 0 (scan loop must tick)
//   - PoolRefreshInterval >= 0 (0 disables periodic refresh)
//   - OperationTimeout > 0 and <= ScanInterval (a tick must finish before the next)
//   - BoundsBucket non-empty
//
// Returns:
//   - error: Validation error with clear explanation, nil if valid
func (cfg *Config) Validate() error {
	if cfg.ScanInterval <= 0 {
		return fmt.Errorf("ScanInterval must be > 0, got %v", cfg.ScanInterval)
	}

	if cfg.PoolRefreshInterval < 0 {
		return fmt.Errorf("PoolRefreshInterval must be >= 0, got %v", cfg.PoolRefreshInterval)
	}

	if cfg.OperationTimeout <= 0 {
		return fmt.Errorf("OperationTimeout must be > 0, got %v", cfg.OperationTimeout)
	}

	if cfg.OperationTimeout > cfg.ScanInterval {
		return fmt.Errorf(
			"OperationTimeout (%v) must be <= ScanInterval (%v) so a tick finishes before the next begins",
			cfg.OperationTimeout, cfg.ScanInterval,
		)
	}

	if cfg.KVBuckets.BoundsBucket == "" {
		return fmt.Errorf("KVBuckets.BoundsBucket must not be empty")
	}

	return nil
}

// ValidateWithWarnings checks configuration and logs warnings for non-recommended values.
//
// This is called after Validate() in NewManager() to provide operator guidance.
//
// Parameters:
//   - logger: Logger instance for warning output
func (cfg *Config) ValidateWithWarnings(logger Logger) {
	// Warn if ScanInterval is very short
	if cfg.ScanInterval < time.Second {
		logger.Warn(
			"ScanInterval is very short, may overload the zone observer backend",
			"scanInterval", cfg.ScanInterval,
			"recommended", "10s or higher",
		)
	}

	// Warn if pool refresh runs more often than scanning
	if cfg.PoolRefreshInterval > 0 && cfg.PoolRefreshInterval < cfg.ScanInterval {
		logger.Warn(
			"PoolRefreshInterval is shorter than ScanInterval, pool churn may outpace sizing",
			"poolRefreshInterval", cfg.PoolRefreshInterval,
			"scanInterval", cfg.ScanInterval,
		)
	}
}

// TestConfig returns a configuration optimized for fast test execution.
//
// Test timings are 10-100x faster than production defaults to enable
// rapid iteration without sacrificing test coverage. Use DefaultConfig()
// for production deployments.
//
// Returns:
//   - Config: Configuration with fast timings for tests
//
// Example:
//
//	cfg := zonesizer.TestConfig()
//	cfg.KVBuckets.BoundsBucket = "test-bounds"
//	mgr, err := zonesizer.NewManager(&cfg, nc, src, observer)
func TestConfig() Config {
	cfg := DefaultConfig()

	// Fast timings for test execution (10-100x faster)
	cfg.ScanInterval = 100 * time.Millisecond        // 100x faster
	cfg.PoolRefreshInterval = 200 * time.Millisecond // 300x faster
	cfg.OperationTimeout = 100 * time.Millisecond    // 100x faster
	cfg.StartupTimeout = 5 * time.Second             // 6x faster
	cfg.ShutdownTimeout = 2 * time.Second            // 5x faster

	return cfg
}
