package strategy

import (
	"math"

	"github.com/yyyfor/stock-master/internal/model"
)

// Derivative computes expected daily move, stop levels and targets
// from the indicator set. Missing support or resistance levels fall
// back to 5 percent bands around the price.
func Derivative(set *model.IndicatorSet, price float64) model.DerivativeSummary {
	dailyMove := price * (set.Volatility / 100) / math.Sqrt(252)

	supportLevel := price * 0.95
	supportDistance := 0.0
	if len(set.SupportLevels) > 0 {
		supportLevel = minOf(set.SupportLevels)
		if price > 0 {
			supportDistance = (price - supportLevel) / price * 100
		}
	}
	resistanceLevel := price * 1.05
	resistanceDistance := 0.0
	if len(set.ResistanceLevels) > 0 {
		resistanceLevel = maxOf(set.ResistanceLevels)
		if price > 0 {
			resistanceDistance = (resistanceLevel - price) / price * 100
		}
	}

	tightStop := price - set.ATR*1.5
	wideStop := price - set.ATR*2.5
	risk := price - tightStop

	atrPct := 0.0
	if price > 0 {
		atrPct = set.ATR / price * 100
	}
	riskReward := "1:1"
	if resistanceDistance > supportDistance*2 {
		riskReward = "1:2"
	}

	return model.DerivativeSummary{
		DailyExpectedMove: dailyMove,
		ATRPercent:        atrPct,
		SupportLevel:      supportLevel,
		ResistanceLevel:   resistanceLevel,
		TightStopLoss:     tightStop,
		WideStopLoss:      wideStop,
		Target1R:          price + risk,
		Target2R:          price + risk*2,
		RiskReward:        riskReward,
	}
}

func minOf(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func maxOf(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}
