package provider

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/yyyfor/stock-master/internal/httpx"
	"github.com/yyyfor/stock-master/internal/model"
)

// YFinance wraps the public Yahoo Finance chart / quoteSummary / search APIs.
// It needs no API key and supports all four capabilities.
type YFinance struct {
	name    string
	http    *httpx.Client
	baseURL string
}

func NewYFinance(client *httpx.Client) *YFinance {
	return &YFinance{
		name:    "yfinance",
		http:    client,
		baseURL: "https://query1.finance.yahoo.com",
	}
}

func (f *YFinance) Name() string    { return f.name }
func (f *YFinance) Available() bool { return true }

// yahooChart is the response shape of the v8 chart API. Bar arrays carry
// nulls for holidays, hence interface{} elements.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []any `json:"open"`
					High   []any `json:"high"`
					Low    []any `json:"low"`
					Close  []any `json:"close"`
					Volume []any `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return 0
	}
}

func (f *YFinance) fetchChart(ctx context.Context, symbol, interval, rng string) ([]model.OHLCVPoint, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s", f.baseURL, url.PathEscape(symbol))
	params := url.Values{"interval": {interval}, "range": {rng}}

	var chart yahooChart
	if err := f.http.GetJSON(ctx, u, params, nil, &chart); err != nil {
		return nil, err
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 ||
		len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("no chart data for %s", symbol)
	}

	result := chart.Chart.Result[0]
	quote := result.Indicators.Quote[0]
	if len(quote.Open) != len(quote.Close) || len(quote.High) != len(quote.Close) ||
		len(quote.Low) != len(quote.Close) || len(quote.Volume) != len(quote.Close) {
		return nil, failure(f.name, KindParse, fmt.Errorf("ragged bar arrays for %s", symbol))
	}
	points := make([]model.OHLCVPoint, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(quote.Close) {
			break
		}
		o, h, l, c := toFloat(quote.Open[i]), toFloat(quote.High[i]), toFloat(quote.Low[i]), toFloat(quote.Close[i])
		if o == 0 && h == 0 && l == 0 && c == 0 {
			continue // null bar (holiday)
		}
		points = append(points, model.OHLCVPoint{
			Date:   time.Unix(ts, 0).UTC().Format("2006-01-02"),
			Open:   o,
			High:   h,
			Low:    l,
			Close:  c,
			Volume: int64(toFloat(quote.Volume[i])),
		})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date < points[j].Date })
	return points, nil
}

func (f *YFinance) FetchQuote(ctx context.Context, symbol string) (*model.Quote, *model.ProviderMeta, error) {
	points, err := f.fetchChart(ctx, symbol, "1d", "5d")
	if err != nil {
		return nil, nil, classify(f.name, err)
	}
	if len(points) == 0 {
		return nil, nil, failure(f.name, KindValidation, fmt.Errorf("empty series for %s", symbol))
	}

	latest := points[len(points)-1]
	prevClose := latest.Close
	if len(points) > 1 {
		prevClose = points[len(points)-2].Close
	}
	change := latest.Close - prevClose
	changePct := 0.0
	if prevClose != 0 {
		changePct = change / prevClose * 100
	}

	quote := &model.Quote{
		Symbol:    symbol,
		Price:     latest.Close,
		Open:      latest.Open,
		High:      latest.High,
		Low:       latest.Low,
		Volume:    latest.Volume,
		Change:    change,
		ChangePct: changePct,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	// Market cap rides along when quoteSummary answers; its absence is not a
	// quote failure.
	if s, err := f.fetchSummary(ctx, symbol); err == nil {
		if v := s.value("summaryDetail", "marketCap"); v != nil {
			quote.MarketCap = *v
		}
	}
	return quote, &model.ProviderMeta{Provider: f.name, Confidence: 0.85}, nil
}

func (f *YFinance) FetchOHLCV(ctx context.Context, symbol, period string) (*model.OHLCV, *model.ProviderMeta, error) {
	points, err := f.fetchChart(ctx, symbol, "1d", periodRange(period))
	if err != nil {
		return nil, nil, classify(f.name, err)
	}
	if len(points) == 0 {
		return nil, nil, failure(f.name, KindValidation, fmt.Errorf("empty series for %s", symbol))
	}
	if max := periodPoints(period); len(points) > max {
		points = points[len(points)-max:]
	}
	return &model.OHLCV{Symbol: symbol, Points: points},
		&model.ProviderMeta{Provider: f.name, Confidence: 0.85}, nil
}

// yahooSummary is the raw/fmt-wrapped quoteSummary response.
type yahooSummary struct {
	QuoteSummary struct {
		Result []map[string]map[string]struct {
			Raw *float64 `json:"raw"`
		} `json:"result"`
	} `json:"quoteSummary"`
}

func (s *yahooSummary) value(module, field string) *float64 {
	if len(s.QuoteSummary.Result) == 0 {
		return nil
	}
	m, ok := s.QuoteSummary.Result[0][module]
	if !ok {
		return nil
	}
	v, ok := m[field]
	if !ok {
		return nil
	}
	return v.Raw
}

func (s *yahooSummary) firstOf(module string, fields ...string) *float64 {
	for _, field := range fields {
		if v := s.value(module, field); v != nil {
			return v
		}
	}
	return nil
}

func (f *YFinance) fetchSummary(ctx context.Context, symbol string) (*yahooSummary, error) {
	u := fmt.Sprintf("%s/v10/finance/quoteSummary/%s", f.baseURL, url.PathEscape(symbol))
	params := url.Values{"modules": {"summaryDetail,defaultKeyStatistics,financialData"}}
	var summary yahooSummary
	if err := f.http.GetJSON(ctx, u, params, nil, &summary); err != nil {
		return nil, err
	}
	if len(summary.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("no summary for %s", symbol)
	}
	return &summary, nil
}

func (f *YFinance) FetchFundamentals(ctx context.Context, symbol string) (*model.Fundamentals, *model.ProviderMeta, error) {
	s, err := f.fetchSummary(ctx, symbol)
	if err != nil {
		return nil, nil, classify(f.name, err)
	}

	data := &model.Fundamentals{
		Symbol:            symbol,
		PERatio:           s.firstOf("summaryDetail", "forwardPE", "trailingPE"),
		PBRatio:           s.value("defaultKeyStatistics", "priceToBook"),
		PSRatio:           s.value("summaryDetail", "priceToSalesTrailing12Months"),
		PEGRatio:          s.value("defaultKeyStatistics", "pegRatio"),
		EVEbitda:          s.value("defaultKeyStatistics", "enterpriseToEbitda"),
		ROE:               asPct(s.value("financialData", "returnOnEquity")),
		ROA:               asPct(s.value("financialData", "returnOnAssets")),
		GrossMargin:       asPct(s.value("financialData", "grossMargins")),
		OpMargin:          asPct(s.value("financialData", "operatingMargins")),
		NetMargin:         asPct(s.value("financialData", "profitMargins")),
		RevenueGrowth:     asPct(s.value("financialData", "revenueGrowth")),
		EarningsGrowth:    asPct(s.value("financialData", "earningsGrowth")),
		DebtEquity:        deRatio(s.value("financialData", "debtToEquity")),
		RevenueBillion:    asBillion(s.value("financialData", "totalRevenue")),
		CashBillion:       asBillion(s.value("financialData", "totalCash")),
		FCFBillion:        asBillion(s.value("financialData", "freeCashflow")),
		DividendYield:     asPct(s.value("summaryDetail", "dividendYield")),
		Beta:              s.value("summaryDetail", "beta"),
		EPS:               s.firstOf("defaultKeyStatistics", "trailingEps", "forwardEps"),
		SharesOutstanding: s.value("defaultKeyStatistics", "sharesOutstanding"),
	}
	if cash, debt := s.value("financialData", "totalCash"), s.value("financialData", "totalDebt"); cash != nil {
		net := *cash
		if debt != nil {
			net -= *debt
		}
		data.NetCashBillion = asBillion(&net)
	}
	return data, &model.ProviderMeta{Provider: f.name, Confidence: 0.8}, nil
}

// yahooSearch is the search endpoint response; only news entries are used.
type yahooSearch struct {
	News []struct {
		Title               string `json:"title"`
		Publisher           string `json:"publisher"`
		Link                string `json:"link"`
		ProviderPublishTime int64  `json:"providerPublishTime"`
		Summary             string `json:"summary"`
	} `json:"news"`
}

func (f *YFinance) FetchNews(ctx context.Context, symbol string, limit int) ([]model.NewsItem, *model.ProviderMeta, error) {
	u := f.baseURL + "/v1/finance/search"
	params := url.Values{
		"q":           {symbol},
		"newsCount":   {strconv.Itoa(limit)},
		"quotesCount": {"0"},
	}
	var search yahooSearch
	if err := f.http.GetJSON(ctx, u, params, nil, &search); err != nil {
		return nil, nil, classify(f.name, err)
	}

	items := make([]model.NewsItem, 0, limit)
	for _, n := range search.News {
		if n.Title == "" || n.Link == "" {
			continue
		}
		publisher := n.Publisher
		if publisher == "" {
			publisher = "Unknown"
		}
		items = append(items, model.NewsItem{
			Symbol:              symbol,
			Title:               n.Title,
			Publisher:           publisher,
			Link:                n.Link,
			ProviderPublishTime: n.ProviderPublishTime,
			Summary:             n.Summary,
		})
		if len(items) >= limit {
			break
		}
	}
	return items, &model.ProviderMeta{Provider: f.name, Confidence: 0.75}, nil
}

// periodRange maps a lookback period to a Yahoo range token.
func periodRange(period string) string {
	switch period {
	case "1mo", "3mo", "6mo", "1y":
		return period
	default:
		return "3mo"
	}
}

func asPct(v *float64) *float64 {
	if v == nil {
		return nil
	}
	p := *v * 100
	return &p
}

func asBillion(v *float64) *float64 {
	if v == nil {
		return nil
	}
	b := *v / 1e9
	return &b
}

// deRatio normalizes Yahoo's debt/equity, which arrives as a percentage for
// most listings.
func deRatio(v *float64) *float64 {
	if v == nil {
		return nil
	}
	d := *v
	if d > 10 {
		d /= 100
	}
	return &d
}
