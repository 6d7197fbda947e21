package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func validSpec() WorkerPoolSpec {
	return WorkerPoolSpec{
		Name:           "pool-a",
		Minimum:        3,
		Maximum:        6,
		MaxSurge:       1,
		MaxUnavailable: 0,
		NumZones:       3,
		Strategy:       StrategyAdaptive,
	}
}

func TestWorkerPoolSpec_Validate(t *testing.T) {
	t.Run("accepts a valid spec", func(t *testing.T) {
		spec := validSpec()
		require.NoError(t, spec.Validate())
	})

	t.Run("accepts empty strategy as default", func(t *testing.T) {
		spec := validSpec()
		spec.Strategy = ""
		require.NoError(t, spec.Validate())
		require.Equal(t, StrategyAdaptive, spec.EffectiveStrategy())
	})

	t.Run("rejects empty name", func(t *testing.T) {
		spec := validSpec()
		spec.Name = ""
		require.ErrorIs(t, spec.Validate(), ErrInvalidPoolSpec)
	})

	t.Run("rejects negative fields", func(t *testing.T) {
		for _, mutate := range []func(*WorkerPoolSpec){
			func(s *WorkerPoolSpec) { s.Minimum = -1 },
			func(s *WorkerPoolSpec) { s.Maximum = -1 },
			func(s *WorkerPoolSpec) { s.MaxSurge = -1 },
			func(s *WorkerPoolSpec) { s.MaxUnavailable = -1 },
		} {
			spec := validSpec()
			mutate(&spec)
			require.ErrorIs(t, spec.Validate(), ErrInvalidPoolSpec)
		}
	})

	t.Run("rejects non-positive zone count", func(t *testing.T) {
		spec := validSpec()
		spec.NumZones = 0
		require.ErrorIs(t, spec.Validate(), ErrInvalidPoolSpec)
	})

	t.Run("rejects maximum below zone count", func(t *testing.T) {
		spec := validSpec()
		spec.Minimum = 0
		spec.Maximum = 1
		spec.NumZones = 2
		require.ErrorIs(t, spec.Validate(), ErrInvalidPoolSpec)
	})

	t.Run("rejects minimum above maximum", func(t *testing.T) {
		spec := validSpec()
		spec.Minimum = 7
		require.ErrorIs(t, spec.Validate(), ErrInvalidPoolSpec)
	})

	t.Run("rejects unknown strategy", func(t *testing.T) {
		spec := validSpec()
		spec.Strategy = "Greedy"
		require.ErrorIs(t, spec.Validate(), ErrUnknownStrategy)
	})
}

func TestRolloutPhase_String(t *testing.T) {
	require.Equal(t, "Idle", RolloutIdle.String())
	require.Equal(t, "InProgress", RolloutInProgress.String())
	require.Equal(t, "Completed", RolloutCompleted.String())
	require.Equal(t, "Unknown", RolloutPhase(99).String())
}
