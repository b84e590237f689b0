// Package indicator computes technical indicators from daily OHLCV
// series. All functions are pure and total: short or degenerate input
// yields a documented neutral value rather than an error.
package indicator

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// SMA computes the simple moving average of the last period values.
// A series shorter than the period averages everything it has.
func SMA(values []float64, period int) float64 {
	if len(values) == 0 || period <= 0 {
		return 0
	}
	if len(values) < period {
		return stat.Mean(values, nil)
	}
	return stat.Mean(values[len(values)-period:], nil)
}

// EMA seeds from the first value of the trailing 2*period window and
// walks forward with alpha = 2/(period+1). A series shorter than the
// period degrades to the plain mean.
func EMA(values []float64, period int) float64 {
	if len(values) == 0 || period <= 0 {
		return 0
	}
	if len(values) < period {
		return stat.Mean(values, nil)
	}
	window := values
	if len(window) > period*2 {
		window = window[len(window)-period*2:]
	}
	alpha := 2.0 / float64(period+1)
	ema := window[0]
	for _, v := range window[1:] {
		ema = alpha*v + (1-alpha)*ema
	}
	return ema
}

// RSI averages gains and losses over the last period price changes.
// Returns 50 with fewer than period+1 closes and 100 when there are
// no losses in the window.
func RSI(closes []float64, period int) float64 {
	if period <= 0 || len(closes) < period+1 {
		return 50.0
	}
	window := closes[len(closes)-period-1:]
	var avgGain, avgLoss float64
	for i := 1; i < len(window); i++ {
		change := window[i] - window[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss -= change
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	if avgLoss == 0 {
		return 100.0
	}
	rs := avgGain / avgLoss
	return 100.0 - 100.0/(1.0+rs)
}

// MACD returns the MACD line, signal line and histogram using
// EMA(12)-EMA(26). The signal line is approximated as 0.9 of the MACD
// line because a single snapshot carries no MACD history to smooth.
// Fewer than 26 closes yields all zeros.
func MACD(closes []float64) (line, signal, histogram float64) {
	if len(closes) < 26 {
		return 0, 0, 0
	}
	line = EMA(closes, 12) - EMA(closes, 26)
	signal = line * 0.9
	histogram = line - signal
	return line, signal, histogram
}

// Bollinger returns the upper, middle and lower bands over the period
// at stdDev standard deviations. Fewer closes than the period yields
// all zeros.
func Bollinger(closes []float64, period int, stdDev float64) (upper, middle, lower float64) {
	if period <= 0 || len(closes) < period {
		return 0, 0, 0
	}
	middle = SMA(closes, period)
	sigma := popStdDev(closes[len(closes)-period:])
	upper = middle + stdDev*sigma
	lower = middle - stdDev*sigma
	return upper, middle, lower
}

// ATR averages the true range over the last period bars. Requires
// period+1 bars for the previous-close component, else returns 0.
func ATR(highs, lows, closes []float64, period int) float64 {
	if period <= 0 || len(closes) < period+1 {
		return 0
	}
	h := highs[len(highs)-period-1:]
	l := lows[len(lows)-period-1:]
	c := closes[len(closes)-period-1:]

	var sum float64
	for i := 1; i < len(h); i++ {
		tr := h[i] - l[i]
		if hc := math.Abs(h[i] - c[i-1]); hc > tr {
			tr = hc
		}
		if lc := math.Abs(l[i] - c[i-1]); lc > tr {
			tr = lc
		}
		sum += tr
	}
	return sum / float64(period)
}

// Volatility annualizes the standard deviation of daily returns over
// the trailing period, as a percentage. Fewer closes than the period
// yields 0.
func Volatility(closes []float64, period int) float64 {
	if period <= 0 || len(closes) < period {
		return 0
	}
	window := closes[len(closes)-period:]
	returns := make([]float64, 0, len(window)-1)
	for i := 1; i < len(window); i++ {
		if window[i-1] == 0 {
			continue
		}
		returns = append(returns, (window[i]-window[i-1])/window[i-1])
	}
	if len(returns) == 0 {
		return 0
	}
	return popStdDev(returns) * math.Sqrt(252) * 100
}

// Momentum measures the percent change from period bars back to the
// latest close. Fewer closes than the period yields 0.
func Momentum(closes []float64, period int) float64 {
	if period <= 0 || len(closes) < period {
		return 0
	}
	base := closes[len(closes)-period]
	if base == 0 {
		return 0
	}
	return (closes[len(closes)-1] - base) / base * 100
}

// Stochastic places the latest close within the high/low range of the
// last period bars. %D is reported equal to %K since one snapshot has
// no %K history to smooth. Short input or a flat range yields (50, 50).
func Stochastic(highs, lows, closes []float64, period int) (k, d float64) {
	if period <= 0 || len(closes) < period {
		return 50.0, 50.0
	}
	hh := floats.Max(highs[len(highs)-period:])
	ll := floats.Min(lows[len(lows)-period:])
	if hh == ll {
		return 50.0, 50.0
	}
	k = 100 * (closes[len(closes)-1] - ll) / (hh - ll)
	return k, k
}

// WilliamsR places the latest close within the high/low range of the
// last period bars on the -100..0 scale. Short input or a flat range
// yields -50.
func WilliamsR(highs, lows, closes []float64, period int) float64 {
	if period <= 0 || len(closes) < period {
		return -50.0
	}
	hh := floats.Max(highs[len(highs)-period:])
	ll := floats.Min(lows[len(lows)-period:])
	if hh == ll {
		return -50.0
	}
	return -100 * (hh - closes[len(closes)-1]) / (hh - ll)
}

// popStdDev is the population standard deviation. stat.StdDev divides
// by n-1, which overstates spread for these fixed windows.
func popStdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := stat.Mean(values, nil)
	var sum float64
	for _, v := range values {
		d := v - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)))
}
