package order

import (
	"math"
	"math/big"
)

// bpsDenom is the basis-point denominator: 10000 bps = 100%.
const bpsDenom = 10_000

// BpsFromPercent converts a percentage slippage tolerance to basis
// points, e.g. 0.5 -> 50. Clamped to [0, 10000].
func BpsFromPercent(pct float64) int64 {
	bps := int64(math.Round(pct * 100))
	if bps < 0 {
		return 0
	}
	if bps > bpsDenom {
		return bpsDenom
	}
	return bps
}

// MinAmountOut applies a slippage tolerance to a live quote:
// quote * (10000 - slippageBps) / 10000.
func MinAmountOut(quote *big.Int, slippageBps int64) *big.Int {
	if slippageBps < 0 {
		slippageBps = 0
	}
	if slippageBps > bpsDenom {
		slippageBps = bpsDenom
	}
	out := new(big.Int).Mul(quote, big.NewInt(bpsDenom-slippageBps))
	return out.Div(out, big.NewInt(bpsDenom))
}
