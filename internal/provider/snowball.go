package provider

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/yyyfor/stock-master/internal/httpx"
	"github.com/yyyfor/stock-master/internal/model"
	"github.com/yyyfor/stock-master/internal/provider/ratelimit"
)

// Snowball wraps the Xueqiu REST API. It requires a session token and keeps
// a polite spacing between requests through a shared limiter.
type Snowball struct {
	unsupported
	name    string
	token   string
	http    *httpx.Client
	limiter *ratelimit.MinInterval
	baseURL string
}

// SnowballMinInterval spaces requests to stay under Xueqiu's soft limit.
const SnowballMinInterval = 2200 * time.Millisecond

func NewSnowball(token string, client *httpx.Client, limiter *ratelimit.MinInterval) *Snowball {
	return &Snowball{
		unsupported: unsupported{name: "snowball"},
		name:        "snowball",
		token:       token,
		http:        client,
		limiter:     limiter,
		baseURL:     "https://stock.xueqiu.com",
	}
}

func (s *Snowball) Name() string    { return s.name }
func (s *Snowball) Available() bool { return s.token != "" }

func (s *Snowball) headers() map[string]string {
	return map[string]string{"Cookie": "xq_a_token=" + s.token}
}

type snowballQuote struct {
	Data []struct {
		Current       *float64 `json:"current"`
		Open          *float64 `json:"open"`
		High          *float64 `json:"high"`
		Low           *float64 `json:"low"`
		Volume        *float64 `json:"volume"`
		Chg           *float64 `json:"chg"`
		Percent       *float64 `json:"percent"`
		MarketCapital *float64 `json:"market_capital"`
	} `json:"data"`
}

func (s *Snowball) FetchQuote(ctx context.Context, symbol string) (*model.Quote, *model.ProviderMeta, error) {
	if s.token == "" {
		return nil, nil, failure(s.name, KindUnavailable, nil)
	}
	s.limiter.Wait()

	params := url.Values{"symbol": {hkCode(symbol)}}
	var payload snowballQuote
	if err := s.http.GetJSON(ctx, s.baseURL+"/v5/stock/realtime/quotec.json", params, s.headers(), &payload); err != nil {
		return nil, nil, classify(s.name, err)
	}
	if len(payload.Data) == 0 || payload.Data[0].Current == nil || *payload.Data[0].Current <= 0 {
		return nil, nil, failure(s.name, KindValidation, fmt.Errorf("no usable quote for %s", symbol))
	}

	d := payload.Data[0]
	price := *d.Current
	quote := &model.Quote{
		Symbol:    symbol,
		Price:     price,
		Open:      deref(d.Open, price),
		High:      deref(d.High, price),
		Low:       deref(d.Low, price),
		Volume:    int64(deref(d.Volume, 0)),
		Change:    deref(d.Chg, 0),
		ChangePct: deref(d.Percent, 0),
		MarketCap: deref(d.MarketCapital, 0),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	return quote, &model.ProviderMeta{Provider: s.name, Confidence: 0.76}, nil
}

// snowballKline carries both payload shapes the kline endpoint returns:
// a column-indexed bar matrix, or a list of bar objects.
type snowballKline struct {
	Data *struct {
		Column    []string      `json:"column"`
		Item      [][]float64   `json:"item"`
		Kline     []snowballBar `json:"kline"`
		KlineList []snowballBar `json:"kline_list"`
	} `json:"data"`
}

type snowballBar struct {
	Timestamp float64 `json:"timestamp"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
}

func (s *Snowball) FetchOHLCV(ctx context.Context, symbol, period string) (*model.OHLCV, *model.ProviderMeta, error) {
	if s.token == "" {
		return nil, nil, failure(s.name, KindUnavailable, nil)
	}
	s.limiter.Wait()

	count := periodPoints(period)
	params := url.Values{
		"symbol":    {hkCode(symbol)},
		"begin":     {strconv.FormatInt(time.Now().UnixMilli(), 10)},
		"period":    {"day"},
		"type":      {"before"},
		"count":     {strconv.Itoa(-count)},
		"indicator": {"kline"},
	}
	var payload snowballKline
	if err := s.http.GetJSON(ctx, s.baseURL+"/v5/stock/chart/kline.json", params, s.headers(), &payload); err != nil {
		return nil, nil, classify(s.name, err)
	}
	if payload.Data == nil {
		return nil, nil, failure(s.name, KindValidation, fmt.Errorf("no kline data for %s", symbol))
	}

	var points []model.OHLCVPoint
	if len(payload.Data.Item) > 0 {
		points = snowballMatrixPoints(payload.Data.Column, payload.Data.Item)
	} else {
		bars := payload.Data.Kline
		if len(bars) == 0 {
			bars = payload.Data.KlineList
		}
		points = snowballBarPoints(bars)
	}
	if len(points) < 20 {
		return nil, nil, failure(s.name, KindValidation, fmt.Errorf("series too short: %d points", len(points)))
	}
	return &model.OHLCV{Symbol: symbol, Points: points},
		&model.ProviderMeta{Provider: s.name, Confidence: 0.74}, nil
}

func snowballMatrixPoints(columns []string, rows [][]float64) []model.OHLCVPoint {
	idx := map[string]int{}
	for i, name := range columns {
		idx[name] = i
	}
	col := func(row []float64, names ...string) (float64, bool) {
		for _, name := range names {
			if i, ok := idx[name]; ok && i < len(row) {
				return row[i], true
			}
		}
		return 0, false
	}

	points := make([]model.OHLCVPoint, 0, len(rows))
	for _, row := range rows {
		closePrice, ok := col(row, "close")
		if !ok || closePrice <= 0 {
			continue
		}
		date := ""
		if ts, ok := col(row, "timestamp", "time"); ok {
			date = snowballDate(ts)
		}
		open, _ := col(row, "open")
		high, _ := col(row, "high")
		low, _ := col(row, "low")
		volume, _ := col(row, "volume")
		points = append(points, model.OHLCVPoint{
			Date:   date,
			Open:   orDefault(open, closePrice),
			High:   orDefault(high, closePrice),
			Low:    orDefault(low, closePrice),
			Close:  closePrice,
			Volume: int64(volume),
		})
	}
	return points
}

func snowballBarPoints(bars []snowballBar) []model.OHLCVPoint {
	points := make([]model.OHLCVPoint, 0, len(bars))
	for _, bar := range bars {
		if bar.Close <= 0 {
			continue
		}
		points = append(points, model.OHLCVPoint{
			Date:   snowballDate(bar.Timestamp),
			Open:   orDefault(bar.Open, bar.Close),
			High:   orDefault(bar.High, bar.Close),
			Low:    orDefault(bar.Low, bar.Close),
			Close:  bar.Close,
			Volume: int64(bar.Volume),
		})
	}
	return points
}

// snowballDate renders a unix timestamp in seconds or milliseconds
// as the canonical bar date.
func snowballDate(ts float64) string {
	if ts <= 0 {
		return ""
	}
	t := int64(ts)
	if t > 1e12 {
		t /= 1000
	}
	return time.Unix(t, 0).UTC().Format("2006-01-02")
}

func deref(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}
