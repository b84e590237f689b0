package strategy

import (
	"math"
	"testing"

	"github.com/yyyfor/stock-master/internal/model"
)

func TestDerivativeLevels(t *testing.T) {
	set := &model.IndicatorSet{
		Volatility:       31.5,
		ATR:              4,
		SupportLevels:    []float64{92, 95, 96},
		ResistanceLevels: []float64{110, 108, 106},
	}
	d := Derivative(set, 100)

	wantMove := 100 * (31.5 / 100) / math.Sqrt(252)
	if math.Abs(d.DailyExpectedMove-wantMove) > 1e-9 {
		t.Errorf("daily move = %v, want %v", d.DailyExpectedMove, wantMove)
	}
	if d.ATRPercent != 4 {
		t.Errorf("atr percent = %v, want 4", d.ATRPercent)
	}
	if d.SupportLevel != 92 {
		t.Errorf("support = %v, want lowest level 92", d.SupportLevel)
	}
	if d.ResistanceLevel != 110 {
		t.Errorf("resistance = %v, want highest level 110", d.ResistanceLevel)
	}
	if d.TightStopLoss != 94 {
		t.Errorf("tight stop = %v, want 94", d.TightStopLoss)
	}
	if d.WideStopLoss != 90 {
		t.Errorf("wide stop = %v, want 90", d.WideStopLoss)
	}
	if d.Target1R != 106 {
		t.Errorf("1R target = %v, want 106", d.Target1R)
	}
	if d.Target2R != 112 {
		t.Errorf("2R target = %v, want 112", d.Target2R)
	}
}

func TestDerivativeFallbackLevels(t *testing.T) {
	d := Derivative(&model.IndicatorSet{}, 200)

	if d.SupportLevel != 190 {
		t.Errorf("support fallback = %v, want 190", d.SupportLevel)
	}
	if d.ResistanceLevel != 210 {
		t.Errorf("resistance fallback = %v, want 210", d.ResistanceLevel)
	}
	if d.RiskReward != "1:1" {
		t.Errorf("risk/reward = %q, want 1:1", d.RiskReward)
	}
}

func TestDerivativeRiskRewardUpgrade(t *testing.T) {
	// Resistance 30% away, support 5% away: upside dominates.
	set := &model.IndicatorSet{
		SupportLevels:    []float64{95},
		ResistanceLevels: []float64{130},
	}
	d := Derivative(set, 100)

	if d.RiskReward != "1:2" {
		t.Errorf("risk/reward = %q, want 1:2", d.RiskReward)
	}
}
