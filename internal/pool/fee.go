package pool

import (
	"fmt"

	"github.com/holiman/uint256"
)

// FeeTier is a UniswapV3 pool fee in hundredths of a basis point.
type FeeTier uint32

const (
	// FeeLowest is 0.01%.
	FeeLowest FeeTier = 100
	// FeeLow is 0.05%.
	FeeLow FeeTier = 500
	// FeeMedium is 0.3%.
	FeeMedium FeeTier = 3000
	// FeeHigh is 1%.
	FeeHigh FeeTier = 10000
)

// FeeTiers returns the documented fee tiers in ascending order.
func FeeTiers() []FeeTier {
	return []FeeTier{FeeLowest, FeeLow, FeeMedium, FeeHigh}
}

// Valid reports whether f is one of the documented tiers.
func (f FeeTier) Valid() bool {
	switch f {
	case FeeLowest, FeeLow, FeeMedium, FeeHigh:
		return true
	default:
		return false
	}
}

// Word returns the fee as a 256-bit ABI word.
func (f FeeTier) Word() *uint256.Int {
	return uint256.NewInt(uint64(f))
}

// ParseFeeTier validates a raw fee value against the documented tiers.
func ParseFeeTier(raw uint64) (FeeTier, error) {
	tier := FeeTier(raw)
	if uint64(tier) != raw || !tier.Valid() {
		return 0, fmt.Errorf("unsupported fee tier: %d", raw)
	}
	return tier, nil
}
