package provider

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/yyyfor/stock-master/internal/httpx"
	"github.com/yyyfor/stock-master/internal/model"
)

// Finnhub wraps the finnhub.io REST API (API key required). HK listings are
// tried under the exchange-prefixed form first, then the raw symbol.
type Finnhub struct {
	unsupported
	name    string
	apiKey  string
	http    *httpx.Client
	baseURL string
}

func NewFinnhub(apiKey string, client *httpx.Client) *Finnhub {
	return &Finnhub{
		unsupported: unsupported{name: "finnhub"},
		name:        "finnhub",
		apiKey:      apiKey,
		http:        client,
		baseURL:     "https://finnhub.io/api/v1",
	}
}

func (f *Finnhub) Name() string    { return f.name }
func (f *Finnhub) Available() bool { return f.apiKey != "" }

func finnhubCandidates(symbol string) []string {
	if isHK(symbol) {
		code := strings.TrimLeft(strings.TrimSuffix(strings.ToUpper(symbol), ".HK"), "0")
		return []string{"HKEX:" + code, symbol}
	}
	return []string{symbol}
}

type finnhubQuote struct {
	Current   float64 `json:"c"`
	Open      float64 `json:"o"`
	High      float64 `json:"h"`
	Low       float64 `json:"l"`
	Change    float64 `json:"d"`
	ChangePct float64 `json:"dp"`
}

func (f *Finnhub) FetchQuote(ctx context.Context, symbol string) (*model.Quote, *model.ProviderMeta, error) {
	if f.apiKey == "" {
		return nil, nil, failure(f.name, KindUnavailable, nil)
	}

	var lastErr error
	for _, candidate := range finnhubCandidates(symbol) {
		params := url.Values{"symbol": {candidate}, "token": {f.apiKey}}
		var q finnhubQuote
		if err := f.http.GetJSON(ctx, f.baseURL+"/quote", params, nil, &q); err != nil {
			lastErr = err
			continue
		}
		if q.Current <= 0 {
			lastErr = fmt.Errorf("zero price for %s", candidate)
			continue
		}
		quote := &model.Quote{
			Symbol:    symbol,
			Price:     q.Current,
			Open:      q.Open,
			High:      q.High,
			Low:       q.Low,
			Change:    q.Change,
			ChangePct: q.ChangePct,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		}
		return quote, &model.ProviderMeta{Provider: f.name, Confidence: 0.75}, nil
	}
	return nil, nil, failure(f.name, KindValidation, lastErr)
}

type finnhubMetrics struct {
	Metric map[string]any `json:"metric"`
}

func (f *Finnhub) FetchFundamentals(ctx context.Context, symbol string) (*model.Fundamentals, *model.ProviderMeta, error) {
	if f.apiKey == "" {
		return nil, nil, failure(f.name, KindUnavailable, nil)
	}

	var lastErr error
	for _, candidate := range finnhubCandidates(symbol) {
		params := url.Values{"symbol": {candidate}, "metric": {"all"}, "token": {f.apiKey}}
		var m finnhubMetrics
		if err := f.http.GetJSON(ctx, f.baseURL+"/stock/metric", params, nil, &m); err != nil {
			lastErr = err
			continue
		}
		if len(m.Metric) == 0 {
			lastErr = fmt.Errorf("empty metrics for %s", candidate)
			continue
		}

		metric := func(key string) *float64 { return anyFloat(m.Metric[key]) }
		data := &model.Fundamentals{
			Symbol:         symbol,
			PERatio:        metric("peBasicExclExtraTTM"),
			PBRatio:        metric("pbAnnual"),
			PSRatio:        metric("psTTM"),
			PEGRatio:       metric("pegRatio"),
			EVEbitda:       metric("evToEbitdaTTM"),
			ROE:            metric("roeTTM"),
			ROA:            metric("roaTTM"),
			GrossMargin:    metric("grossMarginTTM"),
			OpMargin:       metric("operatingMarginTTM"),
			NetMargin:      metric("netMarginTTM"),
			RevenueGrowth:  metric("revenueGrowthTTMYoy"),
			EPS:            metric("epsInclExtraItemsTTM"),
			Beta:           metric("beta"),
			DividendYield:  metric("currentDividendYieldTTM"),
		}
		return data, &model.ProviderMeta{Provider: f.name, Confidence: 0.7}, nil
	}
	return nil, nil, failure(f.name, KindValidation, lastErr)
}

func anyFloat(v any) *float64 {
	switch n := v.(type) {
	case float64:
		return &n
	case string:
		if f, err := strconv.ParseFloat(n, 64); err == nil {
			return &f
		}
	}
	return nil
}
