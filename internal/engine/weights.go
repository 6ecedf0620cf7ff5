package engine

import (
	"math"

	"stocklab/types"
)

// allocateWeights produces normalized target weights for the given stocks.
// Market-cap weighting drops stocks without a usable market value and
// renormalizes over the rest; if no stock has one, it falls back to equal
// weighting.
func allocateWeights(stocks []string, marketValues map[string]float64, method types.WeightMethod) map[string]float64 {
	if len(stocks) == 0 {
		return map[string]float64{}
	}

	if method == types.WeightMarketCap && marketValues != nil {
		total := 0.0
		usable := make(map[string]float64, len(stocks))
		for _, s := range stocks {
			mv, ok := marketValues[s]
			if !ok || math.IsNaN(mv) || mv <= 0 {
				continue
			}
			usable[s] = mv
			total += mv
		}
		if total > 0 {
			weights := make(map[string]float64, len(usable))
			for s, mv := range usable {
				weights[s] = mv / total
			}
			return weights
		}
	}

	weights := make(map[string]float64, len(stocks))
	for _, s := range stocks {
		weights[s] = 1.0 / float64(len(stocks))
	}
	return weights
}
