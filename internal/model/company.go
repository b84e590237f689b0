package model

// CompanyRecord is the fully-attributed normalized record for one instrument.
// It is constructed once per update cycle and never mutated; the next cycle
// supersedes it with a fresh record.
//
// Embedded structs flatten into the JSON payload consumed by templating.
type CompanyRecord struct {
	Company  string `json:"company"`
	Name     string `json:"company_name"`
	Symbol   string `json:"symbol"`
	Sector   string `json:"sector"`
	Industry string `json:"industry"`

	Price     float64 `json:"price"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Volume    int64   `json:"volume"`
	Change    float64 `json:"change"`
	ChangePct float64 `json:"change_pct"`
	MarketCap float64 `json:"market_cap"`

	IndicatorSet
	Fundamentals

	// Provenance. Source maps data kind to provider name; Confidence maps
	// data kind to that provider's static trust weight.
	Source          map[string]string  `json:"source"`
	Confidence      map[string]float64 `json:"confidence"`
	IsEstimated     bool               `json:"is_estimated"`
	EstimatedFields []string           `json:"estimated_fields"`
	LastVerifiedAt  string             `json:"last_verified_at"`

	TechnicalRating    TechnicalRating   `json:"technical_rating"`
	DerivativeAnalysis DerivativeSummary `json:"derivative_analysis"`
}
