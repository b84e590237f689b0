package provider

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"time"

	"github.com/yyyfor/stock-master/internal/httpx"
	"github.com/yyyfor/stock-master/internal/model"
)

// FMP wraps the Financial Modeling Prep v3 API (API key required).
type FMP struct {
	unsupported
	name    string
	apiKey  string
	http    *httpx.Client
	baseURL string
}

func NewFMP(apiKey string, client *httpx.Client) *FMP {
	return &FMP{
		unsupported: unsupported{name: "fmp"},
		name:        "fmp",
		apiKey:      apiKey,
		http:        client,
		baseURL:     "https://financialmodelingprep.com/api/v3",
	}
}

func (f *FMP) Name() string    { return f.name }
func (f *FMP) Available() bool { return f.apiKey != "" }

func (f *FMP) getJSON(ctx context.Context, path string, extra url.Values, out any) error {
	params := url.Values{"apikey": {f.apiKey}}
	for k, vs := range extra {
		params[k] = vs
	}
	return f.http.GetJSON(ctx, f.baseURL+path, params, nil, out)
}

func (f *FMP) FetchQuote(ctx context.Context, symbol string) (*model.Quote, *model.ProviderMeta, error) {
	if f.apiKey == "" {
		return nil, nil, failure(f.name, KindUnavailable, nil)
	}
	var rows []map[string]any
	if err := f.getJSON(ctx, "/quote/"+url.PathEscape(symbol), nil, &rows); err != nil {
		return nil, nil, classify(f.name, err)
	}
	if len(rows) == 0 {
		return nil, nil, failure(f.name, KindValidation, fmt.Errorf("no quote for %s", symbol))
	}

	row := rows[0]
	num := func(key string) float64 {
		if v := anyFloat(row[key]); v != nil {
			return *v
		}
		return 0
	}
	price := num("price")
	if price <= 0 {
		return nil, nil, failure(f.name, KindValidation, fmt.Errorf("zero price for %s", symbol))
	}
	quote := &model.Quote{
		Symbol:    symbol,
		Price:     price,
		Open:      num("open"),
		High:      num("dayHigh"),
		Low:       num("dayLow"),
		Volume:    int64(num("volume")),
		Change:    num("change"),
		ChangePct: num("changesPercentage"),
		MarketCap: num("marketCap"),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	return quote, &model.ProviderMeta{Provider: f.name, Confidence: 0.75}, nil
}

type fmpHistorical struct {
	Historical []struct {
		Date   string   `json:"date"`
		Open   *float64 `json:"open"`
		High   *float64 `json:"high"`
		Low    *float64 `json:"low"`
		Close  *float64 `json:"close"`
		Volume *float64 `json:"volume"`
	} `json:"historical"`
}

func (f *FMP) FetchOHLCV(ctx context.Context, symbol, period string) (*model.OHLCV, *model.ProviderMeta, error) {
	if f.apiKey == "" {
		return nil, nil, failure(f.name, KindUnavailable, nil)
	}
	extra := url.Values{"timeseries": {strconv.Itoa(periodDays(period))}}
	var payload fmpHistorical
	if err := f.getJSON(ctx, "/historical-price-full/"+url.PathEscape(symbol), extra, &payload); err != nil {
		return nil, nil, classify(f.name, err)
	}
	if len(payload.Historical) == 0 {
		return nil, nil, failure(f.name, KindValidation, fmt.Errorf("no history for %s", symbol))
	}

	// FMP returns newest first.
	points := make([]model.OHLCVPoint, 0, len(payload.Historical))
	for i := len(payload.Historical) - 1; i >= 0; i-- {
		item := payload.Historical[i]
		if item.Close == nil || *item.Close <= 0 {
			continue
		}
		closePrice := *item.Close
		points = append(points, model.OHLCVPoint{
			Date:   item.Date,
			Open:   orDefault(deref(item.Open, 0), closePrice),
			High:   orDefault(deref(item.High, 0), closePrice),
			Low:    orDefault(deref(item.Low, 0), closePrice),
			Close:  closePrice,
			Volume: int64(deref(item.Volume, 0)),
		})
	}
	if len(points) < 30 {
		return nil, nil, failure(f.name, KindValidation, fmt.Errorf("series too short: %d points", len(points)))
	}
	return &model.OHLCV{Symbol: symbol, Points: points},
		&model.ProviderMeta{Provider: f.name, Confidence: 0.7}, nil
}

func (f *FMP) FetchFundamentals(ctx context.Context, symbol string) (*model.Fundamentals, *model.ProviderMeta, error) {
	if f.apiKey == "" {
		return nil, nil, failure(f.name, KindUnavailable, nil)
	}
	ratios, rErr := f.firstRow(ctx, "/ratios-ttm/"+url.PathEscape(symbol))
	metrics, mErr := f.firstRow(ctx, "/key-metrics-ttm/"+url.PathEscape(symbol))
	if ratios == nil && metrics == nil {
		if rErr != nil {
			return nil, nil, classify(f.name, rErr)
		}
		return nil, nil, failure(f.name, KindValidation, mErr)
	}

	pick := func(row map[string]any, key string) *float64 {
		if row == nil {
			return nil
		}
		return anyFloat(row[key])
	}
	data := &model.Fundamentals{
		Symbol:         symbol,
		PERatio:        pick(ratios, "peRatioTTM"),
		PBRatio:        pick(ratios, "priceToBookRatioTTM"),
		PSRatio:        pick(ratios, "priceToSalesRatioTTM"),
		PEGRatio:       pick(ratios, "pegRatioTTM"),
		EVEbitda:       pick(ratios, "enterpriseValueOverEBITDATTM"),
		ROE:            fracPct(pick(ratios, "returnOnEquityTTM")),
		ROA:            fracPct(pick(ratios, "returnOnAssetsTTM")),
		GrossMargin:    fracPct(pick(ratios, "grossProfitMarginTTM")),
		OpMargin:       fracPct(pick(ratios, "operatingProfitMarginTTM")),
		NetMargin:      fracPct(pick(ratios, "netProfitMarginTTM")),
		RevenueGrowth:  fracPct(pick(metrics, "revenuePerShareTTMGrowth")),
		EarningsGrowth: fracPct(pick(metrics, "netIncomePerShareTTMGrowth")),
		DebtEquity:     pick(ratios, "debtEquityRatioTTM"),
		DividendYield:  fracPct(pick(ratios, "dividendYieldTTM")),
	}
	return data, &model.ProviderMeta{Provider: f.name, Confidence: 0.7}, nil
}

func (f *FMP) firstRow(ctx context.Context, path string) (map[string]any, error) {
	var rows []map[string]any
	if err := f.getJSON(ctx, path, nil, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("empty result for %s", path)
	}
	return rows[0], nil
}

// fracPct scales fractional ratios to percent, leaving already-percent
// values alone.
func fracPct(v *float64) *float64 {
	if v == nil {
		return nil
	}
	p := *v
	if math.Abs(p) <= 2 {
		p *= 100
	}
	return &p
}
