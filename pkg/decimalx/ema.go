package decimalx

import (
	"github.com/shopspring/decimal"
)

// Mean returns the arithmetic mean of ds, or zero for an empty slice.
func Mean(ds []decimal.Decimal) decimal.Decimal {
	if len(ds) == 0 {
		return decimal.Zero
	}
	sum := decimal.Zero
	for _, d := range ds {
		sum = sum.Add(d)
	}
	return sum.Div(decimal.NewFromInt(int64(len(ds))))
}

// EmaSeries computes an exponential moving average over prices, one output
// value per input index. Indices 0..period-1 carry the simple average of the
// first period prices (the seed, not yet meaningful on its own); from there
// ema[i] = price[i]*k + ema[i-1]*(1-k) with k = 2/(period+1).
// Callers must supply at least period prices; shorter input returns nil.
func EmaSeries(prices []decimal.Decimal, period int) []decimal.Decimal {
	if period <= 0 || len(prices) < period {
		return nil
	}

	ema := make([]decimal.Decimal, len(prices))
	seed := Mean(prices[:period])
	for i := 0; i < period; i++ {
		ema[i] = seed
	}

	k := decimal.NewFromInt(2).Div(decimal.NewFromInt(int64(period) + 1))
	oneMinusK := decimal.NewFromInt(1).Sub(k)
	for i := period; i < len(prices); i++ {
		ema[i] = prices[i].Mul(k).Add(ema[i-1].Mul(oneMinusK))
	}
	return ema
}
