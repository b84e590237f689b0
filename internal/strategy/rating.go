// Package strategy turns an indicator set into a deterministic
// technical rating and derivative trading levels.
package strategy

import "github.com/yyyfor/stock-master/internal/model"

// Rate scores the indicator set against a fixed signal table and maps
// the total to a five-step rating. The same inputs always produce the
// same score, rating, color and signal list.
func Rate(set *model.IndicatorSet, price float64) model.TechnicalRating {
	score := 0
	var signals []string

	rsi := set.RSI14
	switch {
	case rsi < 30:
		score += 2
		signals = append(signals, "RSI oversold (<30) - Bullish")
	case rsi > 70:
		score -= 2
		signals = append(signals, "RSI overbought (>70) - Bearish")
	case rsi >= 40 && rsi <= 60:
		score++
		signals = append(signals, "RSI neutral - Stable")
	}

	switch {
	case price > set.MA20 && set.MA20 > set.MA50:
		score += 2
		signals = append(signals, "Price above 20D and 50D MA - Bullish trend")
	case price < set.MA20 && set.MA20 < set.MA50:
		score -= 2
		signals = append(signals, "Price below 20D and 50D MA - Bearish trend")
	case price > set.MA20:
		score++
		signals = append(signals, "Price recovering above 20D MA")
	}

	switch {
	case set.MACD > set.MACDSignal && set.MACD > 0:
		score += 2
		signals = append(signals, "MACD bullish crossover")
	case set.MACD < set.MACDSignal && set.MACD < 0:
		score -= 2
		signals = append(signals, "MACD bearish crossover")
	}

	if set.Volatility < 30 {
		score++
		signals = append(signals, "Low volatility - Stable")
	}

	switch {
	case set.StochK < 20:
		score++
		signals = append(signals, "Stochastic oversold")
	case set.StochK > 80:
		score--
		signals = append(signals, "Stochastic overbought")
	}

	rating, color := classify(score)
	return model.TechnicalRating{
		Score:   score,
		Rating:  rating,
		Color:   color,
		Signals: signals,
	}
}

func classify(score int) (rating, color string) {
	switch {
	case score >= 5:
		return "Strong Buy", "#00C853"
	case score >= 2:
		return "Buy", "#4CAF50"
	case score >= -1:
		return "Hold", "#FF9800"
	case score >= -4:
		return "Sell", "#F44336"
	default:
		return "Strong Sell", "#D32F2F"
	}
}
