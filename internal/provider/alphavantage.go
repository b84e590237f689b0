package provider

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"strings"
	"time"

	"github.com/yyyfor/stock-master/internal/httpx"
	"github.com/yyyfor/stock-master/internal/model"
)

// AlphaVantage wraps the alphavantage.co query API (API key required).
type AlphaVantage struct {
	unsupported
	name    string
	apiKey  string
	http    *httpx.Client
	baseURL string
}

func NewAlphaVantage(apiKey string, client *httpx.Client) *AlphaVantage {
	return &AlphaVantage{
		unsupported: unsupported{name: "alpha_vantage"},
		name:        "alpha_vantage",
		apiKey:      apiKey,
		http:        client,
		baseURL:     "https://www.alphavantage.co/query",
	}
}

func (a *AlphaVantage) Name() string    { return a.name }
func (a *AlphaVantage) Available() bool { return a.apiKey != "" }

// avSymbol pads HK codes to four digits, the form Alpha Vantage indexes:
// "700.HK" -> "0700.HK".
func avSymbol(symbol string) string {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	if strings.HasSuffix(s, ".HK") {
		code := strings.TrimSuffix(s, ".HK")
		for len(code) < 4 {
			code = "0" + code
		}
		return code + ".HK"
	}
	return s
}

type avGlobalQuote struct {
	GlobalQuote map[string]string `json:"Global Quote"`
}

func (a *AlphaVantage) FetchQuote(ctx context.Context, symbol string) (*model.Quote, *model.ProviderMeta, error) {
	if a.apiKey == "" {
		return nil, nil, failure(a.name, KindUnavailable, nil)
	}
	params := url.Values{
		"function": {"GLOBAL_QUOTE"},
		"symbol":   {avSymbol(symbol)},
		"apikey":   {a.apiKey},
	}
	var payload avGlobalQuote
	if err := a.http.GetJSON(ctx, a.baseURL, params, nil, &payload); err != nil {
		return nil, nil, classify(a.name, err)
	}

	q := payload.GlobalQuote
	price := parseFloat(q["05. price"])
	if price <= 0 {
		return nil, nil, failure(a.name, KindValidation, fmt.Errorf("no quote for %s", symbol))
	}
	quote := &model.Quote{
		Symbol:    symbol,
		Price:     price,
		Open:      parseFloat(q["02. open"]),
		High:      parseFloat(q["03. high"]),
		Low:       parseFloat(q["04. low"]),
		Volume:    int64(parseFloat(q["06. volume"])),
		Change:    parseFloat(q["09. change"]),
		ChangePct: parseFloat(strings.TrimSuffix(q["10. change percent"], "%")),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	return quote, &model.ProviderMeta{Provider: a.name, Confidence: 0.65}, nil
}

func (a *AlphaVantage) FetchFundamentals(ctx context.Context, symbol string) (*model.Fundamentals, *model.ProviderMeta, error) {
	if a.apiKey == "" {
		return nil, nil, failure(a.name, KindUnavailable, nil)
	}
	params := url.Values{
		"function": {"OVERVIEW"},
		"symbol":   {avSymbol(symbol)},
		"apikey":   {a.apiKey},
	}
	var overview map[string]any
	if err := a.http.GetJSON(ctx, a.baseURL, params, nil, &overview); err != nil {
		return nil, nil, classify(a.name, err)
	}
	if _, ok := overview["Symbol"]; !ok {
		return nil, nil, failure(a.name, KindValidation, fmt.Errorf("no overview for %s", symbol))
	}

	field := func(key string) *float64 { return anyFloat(overview[key]) }
	data := &model.Fundamentals{
		Symbol:         symbol,
		PERatio:        field("PERatio"),
		PBRatio:        field("PriceToBookRatio"),
		PSRatio:        field("PriceToSalesRatioTTM"),
		PEGRatio:       field("PEGRatio"),
		EVEbitda:       field("EVToEBITDA"),
		ROE:            field("ReturnOnEquityTTM"),
		ROA:            field("ReturnOnAssetsTTM"),
		NetMargin:      field("ProfitMargin"),
		RevenueGrowth:  field("QuarterlyRevenueGrowthYOY"),
		EarningsGrowth: field("QuarterlyEarningsGrowthYOY"),
		Beta:           field("Beta"),
		DividendYield:  field("DividendYield"),
		EPS:            field("EPS"),
	}
	// Overview reports margins, growth and yield as decimals; scale the ones
	// that are clearly fractional to percent.
	for _, p := range []**float64{&data.ROE, &data.ROA, &data.NetMargin, &data.RevenueGrowth, &data.EarningsGrowth, &data.DividendYield} {
		if v := *p; v != nil && math.Abs(*v) <= 2 {
			scaled := *v * 100
			*p = &scaled
		}
	}
	return data, &model.ProviderMeta{Provider: a.name, Confidence: 0.65}, nil
}
