package model

// IndicatorSet holds every technical metric derived from one OHLCV series.
// JSON field names match the downstream templating contract.
type IndicatorSet struct {
	MA5   float64 `json:"ma_5"`
	MA10  float64 `json:"ma_10"`
	MA20  float64 `json:"ma_20"`
	MA50  float64 `json:"ma_50"`
	MA200 float64 `json:"ma_200"`
	EMA12 float64 `json:"ema_12"`
	EMA26 float64 `json:"ema_26"`

	RSI6  float64 `json:"rsi_6"`
	RSI14 float64 `json:"rsi_14"`

	MACD          float64 `json:"macd"`
	MACDSignal    float64 `json:"macd_signal"`
	MACDHistogram float64 `json:"macd_histogram"`

	BBUpper  float64 `json:"bb_upper"`
	BBMiddle float64 `json:"bb_middle"`
	BBLower  float64 `json:"bb_lower"`
	BBWidth  float64 `json:"bb_width"`

	ATR              float64   `json:"atr"`
	Volatility       float64   `json:"volatility"`
	HistoricalVol20  float64   `json:"historical_vol_20"`
	HistoricalVol60  float64   `json:"historical_vol_60"`
	Momentum10       float64   `json:"momentum_10"`
	StochK           float64   `json:"stoch_k"`
	StochD           float64   `json:"stoch_d"`
	WilliamsR        float64   `json:"williams_r"`
	SupportLevels    []float64 `json:"support_levels"`
	ResistanceLevels []float64 `json:"resistance_levels"`

	High52W     float64 `json:"52w_high"`
	Low52W      float64 `json:"52w_low"`
	Position52W float64 `json:"52w_position"`

	AvgVolume20 float64 `json:"avg_volume_20"`
	VolumeRatio float64 `json:"volume_ratio"`
}

// TechnicalRating is the deterministic buy/hold/sell classification.
type TechnicalRating struct {
	Score   int      `json:"score"`
	Rating  string   `json:"rating"`
	Color   string   `json:"color"`
	Signals []string `json:"signals"`
}

// DerivativeSummary carries the derivative-trading levels computed from the
// indicator outputs.
type DerivativeSummary struct {
	DailyExpectedMove float64 `json:"daily_expected_move"`
	ATRPercent        float64 `json:"atr_percent"`
	SupportLevel      float64 `json:"support_level"`
	ResistanceLevel   float64 `json:"resistance_level"`
	TightStopLoss     float64 `json:"tight_stop_loss"`
	WideStopLoss      float64 `json:"wide_stop_loss"`
	Target1R          float64 `json:"target_1r"`
	Target2R          float64 `json:"target_2r"`
	RiskReward        string  `json:"risk_reward_ratio"`
}
