package indicator

import (
	"math"
	"testing"

	"github.com/yyyfor/stock-master/internal/model"
)

func almost(t *testing.T, got, want, tol float64, name string) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func TestSMA(t *testing.T) {
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = float64(i + 1) // 1..20
	}
	almost(t, SMA(closes, 20), 10.5, 1e-9, "SMA(1..20, 20)")
	almost(t, SMA(closes, 5), 18, 1e-9, "SMA(1..20, 5)")
}

func TestSMAShortSeriesAveragesEverything(t *testing.T) {
	almost(t, SMA([]float64{1, 2, 3}, 5), 2, 1e-9, "SMA short")
}

func TestEMAConstantSeries(t *testing.T) {
	closes := []float64{50, 50, 50, 50, 50, 50}
	almost(t, EMA(closes, 3), 50, 1e-9, "EMA constant")
}

func TestEMAShortSeriesDegradesToMean(t *testing.T) {
	almost(t, EMA([]float64{10, 20}, 5), 15, 1e-9, "EMA short")
}

func TestRSIBalancedGainsAndLosses(t *testing.T) {
	// 14 diffs alternating +2 and -1: avg gain 1, avg loss 0.5, RS 2.
	closes := []float64{100}
	for i := 0; i < 7; i++ {
		closes = append(closes, closes[len(closes)-1]+2)
		closes = append(closes, closes[len(closes)-1]-1)
	}
	almost(t, RSI(closes, 14), 100-100.0/3, 1e-9, "RSI")
}

func TestRSIEdgeCases(t *testing.T) {
	short := []float64{100, 101, 102}
	almost(t, RSI(short, 14), 50, 1e-9, "RSI short series")

	rising := make([]float64, 20)
	for i := range rising {
		rising[i] = 100 + float64(i)
	}
	almost(t, RSI(rising, 14), 100, 1e-9, "RSI all gains")
}

func TestMACDSignalIsNineTenthsOfLine(t *testing.T) {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 100 + float64(i)*0.5
	}
	line, signal, histogram := MACD(closes)
	if line <= 0 {
		t.Fatalf("rising series should give positive MACD line, got %v", line)
	}
	almost(t, signal, line*0.9, 1e-9, "signal")
	almost(t, histogram, line-signal, 1e-9, "histogram")
}

func TestMACDShortSeries(t *testing.T) {
	line, signal, histogram := MACD(make([]float64, 20))
	if line != 0 || signal != 0 || histogram != 0 {
		t.Errorf("expected zeros, got %v %v %v", line, signal, histogram)
	}
}

func TestBollingerConstantSeries(t *testing.T) {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 200
	}
	upper, middle, lower := Bollinger(closes, 20, 2)
	almost(t, upper, 200, 1e-9, "upper")
	almost(t, middle, 200, 1e-9, "middle")
	almost(t, lower, 200, 1e-9, "lower")
}

func TestATRInsufficientData(t *testing.T) {
	bars := make([]float64, 10)
	almost(t, ATR(bars, bars, bars, 14), 0, 1e-9, "ATR short")
}

func TestATRConstantRange(t *testing.T) {
	n := 20
	highs := make([]float64, n)
	lows := make([]float64, n)
	closes := make([]float64, n)
	for i := 0; i < n; i++ {
		highs[i] = 105
		lows[i] = 95
		closes[i] = 100
	}
	almost(t, ATR(highs, lows, closes, 14), 10, 1e-9, "ATR flat bars")
}

func TestVolatilityConstantSeries(t *testing.T) {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 400
	}
	almost(t, Volatility(closes, 20), 0, 1e-9, "volatility flat")
}

func TestMomentum(t *testing.T) {
	closes := []float64{100, 101, 102, 103, 104, 105, 106, 107, 108, 110}
	almost(t, Momentum(closes, 10), 10, 1e-9, "momentum")
	almost(t, Momentum(closes[:5], 10), 0, 1e-9, "momentum short")
}

func TestStochastic(t *testing.T) {
	n := 14
	highs := make([]float64, n)
	lows := make([]float64, n)
	closes := make([]float64, n)
	for i := 0; i < n; i++ {
		highs[i] = 110
		lows[i] = 90
		closes[i] = 100
	}
	closes[n-1] = 105
	k, d := Stochastic(highs, lows, closes, 14)
	almost(t, k, 75, 1e-9, "stoch %K")
	almost(t, d, k, 1e-9, "stoch %D equals %K")
}

func TestStochasticFlatRange(t *testing.T) {
	flat := make([]float64, 14)
	for i := range flat {
		flat[i] = 100
	}
	k, d := Stochastic(flat, flat, flat, 14)
	almost(t, k, 50, 1e-9, "flat %K")
	almost(t, d, 50, 1e-9, "flat %D")
}

func TestWilliamsR(t *testing.T) {
	n := 14
	highs := make([]float64, n)
	lows := make([]float64, n)
	closes := make([]float64, n)
	for i := 0; i < n; i++ {
		highs[i] = 110
		lows[i] = 90
		closes[i] = 100
	}
	almost(t, WilliamsR(highs, lows, closes, 14), -50, 1e-9, "williams mid-range")
	almost(t, WilliamsR(closes[:5], closes[:5], closes[:5], 14), -50, 1e-9, "williams short")
}

func TestSupportResistanceMonotonicSeries(t *testing.T) {
	closes := make([]float64, 40)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	support, resistance := SupportResistance(closes, 20)
	if len(support) != 0 || len(resistance) != 0 {
		t.Errorf("monotonic series has no local extrema, got %v / %v", support, resistance)
	}
}

func TestSupportResistanceFindsExtrema(t *testing.T) {
	// Flat tail with one clear peak and one clear trough inside the window.
	closes := make([]float64, 40)
	for i := range closes {
		closes[i] = 100
	}
	recentStart := len(closes) - 20
	closes[recentStart+5] = 120 // local high
	closes[recentStart+12] = 80 // local low
	support, resistance := SupportResistance(closes, 20)
	if len(resistance) != 1 || resistance[0] != 120 {
		t.Errorf("resistance = %v, want [120]", resistance)
	}
	if len(support) != 1 || support[0] != 80 {
		t.Errorf("support = %v, want [80]", support)
	}
}

func TestRange52W(t *testing.T) {
	closes := make([]float64, 300)
	for i := range closes {
		closes[i] = 100
	}
	closes[10] = 500 // outside the trailing 252
	closes[290] = 150
	closes[295] = 90
	high, low := Range52W(closes)
	almost(t, high, 150, 1e-9, "52w high ignores bars older than 252")
	almost(t, low, 90, 1e-9, "52w low")
}

func TestRangePosition(t *testing.T) {
	almost(t, RangePosition(100, 150, 50), 50, 1e-9, "mid range")
	almost(t, RangePosition(100, 100, 100), 50, 1e-9, "flat range reads as midpoint")
}

func TestComputeConsistency(t *testing.T) {
	points := make([]model.OHLCVPoint, 60)
	for i := range points {
		c := 100 + float64(i)*0.5
		points[i] = model.OHLCVPoint{
			Open:   c - 0.5,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: 1000,
		}
	}
	set := Compute(&model.OHLCV{Symbol: "0700.HK", Points: points})

	if set.StochK != set.StochD {
		t.Errorf("StochD must equal StochK, got %v / %v", set.StochK, set.StochD)
	}
	almost(t, set.MACDSignal, set.MACD*0.9, 1e-9, "signal approximation")
	almost(t, set.Volatility, set.HistoricalVol20, 1e-9, "volatility aliases 20d historical vol")
	almost(t, set.VolumeRatio, 1, 1e-9, "uniform volume")
	wantBBWidth := (set.BBUpper - set.BBLower) / set.BBMiddle * 100
	almost(t, set.BBWidth, wantBBWidth, 1e-9, "bb width")
	almost(t, set.High52W, points[59].Close, 1e-9, "52w high is the last close of a rising series")
}

func TestComputeEmptySeries(t *testing.T) {
	set := Compute(nil)
	if set == nil {
		t.Fatal("expected empty set, got nil")
	}
	if set.RSI14 != 0 && set.RSI14 != 50 {
		t.Errorf("unexpected RSI for empty input: %v", set.RSI14)
	}
}
