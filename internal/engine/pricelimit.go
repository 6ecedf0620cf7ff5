package engine

import "math"

// LimitFilter models a daily circuit-breaker band. A stock pinned at the up
// limit cannot be bought (no seller at that price) and one pinned at the down
// limit cannot be sold.
type LimitFilter struct {
	enabled   bool
	upLimit   float64 // e.g. 0.10
	downLimit float64 // e.g. -0.10
}

func NewLimitFilter(enabled bool, upLimit, downLimit float64) LimitFilter {
	return LimitFilter{enabled: enabled, upLimit: upLimit, downLimit: downLimit}
}

// Check decides whether a buy/sell is permitted at the current price given
// the previous close, and which execution price applies. An unknown or
// non-positive previous close disables the check for that stock.
func (f LimitFilter) Check(current, prevClose float64) (canBuy, canSell bool, adjusted float64) {
	if !f.enabled || math.IsNaN(prevClose) || prevClose <= 0 {
		return true, true, current
	}

	change := (current - prevClose) / prevClose

	if change >= f.upLimit {
		return false, true, prevClose * (1 + f.upLimit)
	}
	if change <= f.downLimit {
		return true, false, prevClose * (1 + f.downLimit)
	}
	return true, true, current
}
