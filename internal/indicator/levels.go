package indicator

import (
	"sort"

	"gonum.org/v1/gonum/floats"
)

// SupportResistance finds local extrema in the trailing period window.
// A bar counts as a local high or low only when it dominates its two
// neighbors on each side. Returns at most three support levels
// (ascending) and three resistance levels (descending). A series
// shorter than twice the period returns empty slices.
func SupportResistance(closes []float64, period int) (support, resistance []float64) {
	if period <= 0 || len(closes) < period*2 {
		return nil, nil
	}
	recent := closes[len(closes)-period:]

	var highs, lows []float64
	for i := 2; i < len(recent)-2; i++ {
		v := recent[i]
		if v > recent[i-1] && v > recent[i-2] && v > recent[i+1] && v > recent[i+2] {
			highs = append(highs, v)
		}
		if v < recent[i-1] && v < recent[i-2] && v < recent[i+1] && v < recent[i+2] {
			lows = append(lows, v)
		}
	}

	sort.Sort(sort.Reverse(sort.Float64Slice(highs)))
	sort.Float64s(lows)
	if len(highs) > 3 {
		highs = highs[:3]
	}
	if len(lows) > 3 {
		lows = lows[:3]
	}
	return lows, highs
}

// Range52W returns the high and low close over the trailing 252
// trading days, or over the whole series when shorter.
func Range52W(closes []float64) (high, low float64) {
	if len(closes) == 0 {
		return 0, 0
	}
	window := closes
	if len(window) > 252 {
		window = window[len(window)-252:]
	}
	return floats.Max(window), floats.Min(window)
}

// RangePosition places price within [low, high] as a 0..100 percent.
// A flat range reads as the midpoint.
func RangePosition(price, high, low float64) float64 {
	if high-low <= 0 {
		return 50.0
	}
	return (price - low) / (high - low) * 100
}
