package model

// ProviderMeta describes where a datum came from and how much we trust it.
// Confidence is a static per-provider weight, not derived from the payload.
type ProviderMeta struct {
	Provider        string         `json:"provider"`
	Confidence      float64        `json:"confidence"`
	SourceTimestamp string         `json:"source_timestamp,omitempty"`
	IsEstimated     bool           `json:"is_estimated"`
	Details         map[string]any `json:"details,omitempty"`
}

// Quote is a point-in-time price snapshot. Built fresh on every fetch and
// never mutated afterwards.
type Quote struct {
	Symbol    string  `json:"symbol"`
	Price     float64 `json:"price"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Volume    int64   `json:"volume"`
	Change    float64 `json:"change"`
	ChangePct float64 `json:"change_pct"`
	MarketCap float64 `json:"market_cap"`
	Timestamp string  `json:"timestamp"`
}

// OHLCVPoint is one daily bar.
type OHLCVPoint struct {
	Date      string  `json:"date"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    int64   `json:"volume"`
	Turnover  float64 `json:"turnover,omitempty"`
	ChangePct float64 `json:"change_pct,omitempty"`
}

// OHLCV is a daily bar series ordered oldest to newest.
type OHLCV struct {
	Symbol string       `json:"symbol"`
	Points []OHLCVPoint `json:"points"`
}

// Fundamentals holds company financial metrics. Every field is optional;
// partial data is expected and valid.
type Fundamentals struct {
	Symbol            string   `json:"-"`
	PERatio           *float64 `json:"pe_ratio,omitempty"`
	PBRatio           *float64 `json:"pb_ratio,omitempty"`
	PSRatio           *float64 `json:"ps_ratio,omitempty"`
	PEGRatio          *float64 `json:"peg_ratio,omitempty"`
	EVEbitda          *float64 `json:"ev_ebitda,omitempty"`
	ROE               *float64 `json:"roe,omitempty"`
	ROA               *float64 `json:"roa,omitempty"`
	GrossMargin       *float64 `json:"gross_margin,omitempty"`
	OpMargin          *float64 `json:"op_margin,omitempty"`
	NetMargin         *float64 `json:"net_margin,omitempty"`
	RevenueGrowth     *float64 `json:"revenue_growth,omitempty"`
	EarningsGrowth    *float64 `json:"earnings_growth,omitempty"`
	DebtEquity        *float64 `json:"debt_equity,omitempty"`
	RevenueBillion    *float64 `json:"revenue_billion,omitempty"`
	CashBillion       *float64 `json:"cash_billion,omitempty"`
	NetCashBillion    *float64 `json:"net_cash_billion,omitempty"`
	FCFBillion        *float64 `json:"fcf_billion,omitempty"`
	DividendYield     *float64 `json:"dividend_yield,omitempty"`
	Beta              *float64 `json:"beta,omitempty"`
	EPS               *float64 `json:"eps,omitempty"`
	SharesOutstanding *float64 `json:"shares_outstanding,omitempty"`
}

// NewsItem is one normalized headline.
type NewsItem struct {
	Symbol              string         `json:"symbol"`
	Title               string         `json:"title"`
	Publisher           string         `json:"publisher"`
	Link                string         `json:"link"`
	ProviderPublishTime int64          `json:"providerPublishTime"`
	Summary             string         `json:"summary,omitempty"`
	Raw                 map[string]any `json:"-"`
}

// Float returns a pointer to v. Convenience for building Fundamentals.
func Float(v float64) *float64 { return &v }
