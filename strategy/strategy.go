package strategy

import (
	"fmt"

	"github.com/gardener/gardener-sub001/types"
)

// New returns the built-in sizing strategy for the given name.
//
// An empty name selects the Adaptive strategy, matching
// types.WorkerPoolSpec.EffectiveStrategy.
//
// Parameters:
//   - name: Strategy name from the pool spec
//
// Returns:
//   - types.SizingStrategy: The matching strategy implementation
//   - error: Wrapped types.ErrUnknownStrategy for unrecognized names
func New(name types.StrategyName) (types.SizingStrategy, error) {
	switch name {
	case "", types.StrategyAdaptive:
		return NewAdaptive(), nil
	case types.StrategyBackwardCompatible:
		return NewBackwardCompatible(), nil
	default:
		return nil, fmt.Errorf("%w: %q", types.ErrUnknownStrategy, name)
	}
}
