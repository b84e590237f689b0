package indicator

import (
	"gonum.org/v1/gonum/stat"

	"github.com/yyyfor/stock-master/internal/model"
)

// Compute derives the full indicator set from a daily OHLCV series.
// The input is never mutated.
func Compute(series *model.OHLCV) *model.IndicatorSet {
	if series == nil || len(series.Points) == 0 {
		return &model.IndicatorSet{}
	}

	n := len(series.Points)
	closes := make([]float64, n)
	highs := make([]float64, n)
	lows := make([]float64, n)
	volumes := make([]float64, n)
	for i, p := range series.Points {
		closes[i] = p.Close
		highs[i] = p.High
		lows[i] = p.Low
		volumes[i] = float64(p.Volume)
	}
	price := closes[n-1]

	set := &model.IndicatorSet{
		MA5:   SMA(closes, 5),
		MA10:  SMA(closes, 10),
		MA20:  SMA(closes, 20),
		MA50:  SMA(closes, 50),
		MA200: SMA(closes, 200),
		EMA12: EMA(closes, 12),
		EMA26: EMA(closes, 26),

		RSI6:  RSI(closes, 6),
		RSI14: RSI(closes, 14),

		ATR:             ATR(highs, lows, closes, 14),
		Volatility:      Volatility(closes, 20),
		HistoricalVol20: Volatility(closes, 20),
		HistoricalVol60: Volatility(closes, 60),

		Momentum10: Momentum(closes, 10),
		WilliamsR:  WilliamsR(highs, lows, closes, 14),
	}

	set.MACD, set.MACDSignal, set.MACDHistogram = MACD(closes)
	set.BBUpper, set.BBMiddle, set.BBLower = Bollinger(closes, 20, 2)
	if set.BBMiddle > 0 {
		set.BBWidth = (set.BBUpper - set.BBLower) / set.BBMiddle * 100
	}
	set.StochK, set.StochD = Stochastic(highs, lows, closes, 14)
	set.SupportLevels, set.ResistanceLevels = SupportResistance(closes, 20)

	set.High52W, set.Low52W = Range52W(closes)
	set.Position52W = RangePosition(price, set.High52W, set.Low52W)

	volWindow := volumes
	if len(volWindow) > 20 {
		volWindow = volWindow[len(volWindow)-20:]
	}
	set.AvgVolume20 = stat.Mean(volWindow, nil)
	if set.AvgVolume20 > 0 {
		set.VolumeRatio = volumes[n-1] / set.AvgVolume20
	} else {
		set.VolumeRatio = 1
	}

	return set
}
