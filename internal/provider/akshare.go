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

// Akshare serves HK spot quotes and daily history from the East Money
// endpoints that the akshare library fronts. No API key required, and it is
// the most trusted source for HK listings.
type Akshare struct {
	unsupported
	name    string
	http    *httpx.Client
	spotURL string
	histURL string
}

func NewAkshare(client *httpx.Client) *Akshare {
	return &Akshare{
		unsupported: unsupported{name: "akshare"},
		name:        "akshare",
		http:        client,
		spotURL:     "https://push2.eastmoney.com/api/qt/stock/get",
		histURL:     "https://push2his.eastmoney.com/api/qt/stock/kline/get",
	}
}

func (a *Akshare) Name() string    { return a.name }
func (a *Akshare) Available() bool { return true }

// secid builds the East Money security id for an HK listing, e.g.
// "0700.HK" -> "116.00700".
func secid(symbol string) string {
	return "116." + hkCode(symbol)
}

type eastmoneySpot struct {
	Data *struct {
		Price     float64 `json:"f43"`
		High      float64 `json:"f44"`
		Low       float64 `json:"f45"`
		Open      float64 `json:"f46"`
		Volume    float64 `json:"f47"`
		Turnover  float64 `json:"f48"`
		PrevClose float64 `json:"f60"`
		MarketCap float64 `json:"f116"`
		Change    float64 `json:"f169"`
		ChangePct float64 `json:"f170"`
	} `json:"data"`
}

func (a *Akshare) FetchQuote(ctx context.Context, symbol string) (*model.Quote, *model.ProviderMeta, error) {
	if !isHK(symbol) {
		return nil, nil, failure(a.name, KindValidation, fmt.Errorf("unsupported market for %s", symbol))
	}
	params := url.Values{
		"secid":  {secid(symbol)},
		"fields": {"f43,f44,f45,f46,f47,f48,f60,f116,f169,f170"},
		"invt":   {"2"},
		"fltt":   {"2"},
	}
	var spot eastmoneySpot
	if err := a.http.GetJSON(ctx, a.spotURL, params, nil, &spot); err != nil {
		return nil, nil, classify(a.name, err)
	}
	if spot.Data == nil || spot.Data.Price <= 0 {
		return nil, nil, failure(a.name, KindValidation, fmt.Errorf("no spot data for %s", symbol))
	}

	d := spot.Data
	quote := &model.Quote{
		Symbol:    symbol,
		Price:     d.Price,
		Open:      d.Open,
		High:      d.High,
		Low:       d.Low,
		Volume:    int64(d.Volume),
		Change:    d.Change,
		ChangePct: d.ChangePct,
		MarketCap: d.MarketCap,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	return quote, &model.ProviderMeta{Provider: a.name, Confidence: 0.95}, nil
}

type eastmoneyKline struct {
	Data *struct {
		Klines []string `json:"klines"`
	} `json:"data"`
}

func (a *Akshare) FetchOHLCV(ctx context.Context, symbol, period string) (*model.OHLCV, *model.ProviderMeta, error) {
	if !isHK(symbol) {
		return nil, nil, failure(a.name, KindValidation, fmt.Errorf("unsupported market for %s", symbol))
	}
	params := url.Values{
		"secid":   {secid(symbol)},
		"klt":     {"101"}, // daily bars
		"fqt":     {"1"},   // forward adjusted
		"beg":     {"0"},
		"end":     {"20500101"},
		"fields1": {"f1,f2,f3,f4,f5,f6"},
		"fields2": {"f51,f52,f53,f54,f55,f56,f57,f58,f59,f60,f61"},
	}
	var kline eastmoneyKline
	if err := a.http.GetJSON(ctx, a.histURL, params, nil, &kline); err != nil {
		return nil, nil, classify(a.name, err)
	}
	if kline.Data == nil || len(kline.Data.Klines) == 0 {
		return nil, nil, failure(a.name, KindValidation, fmt.Errorf("no history for %s", symbol))
	}

	points := make([]model.OHLCVPoint, 0, len(kline.Data.Klines))
	for _, row := range kline.Data.Klines {
		// date,open,close,high,low,volume,turnover,amplitude,change_pct,change,turnover_rate
		f := strings.Split(row, ",")
		if len(f) < 9 {
			continue
		}
		closePrice := parseFloat(f[2])
		if closePrice <= 0 {
			continue
		}
		points = append(points, model.OHLCVPoint{
			Date:      f[0],
			Open:      parseFloat(f[1]),
			High:      parseFloat(f[3]),
			Low:       parseFloat(f[4]),
			Close:     closePrice,
			Volume:    int64(parseFloat(f[5])),
			Turnover:  parseFloat(f[6]),
			ChangePct: parseFloat(f[8]),
		})
	}
	if len(points) == 0 {
		return nil, nil, failure(a.name, KindParse, fmt.Errorf("unparseable klines for %s", symbol))
	}
	if max := periodPoints(period); len(points) > max {
		points = points[len(points)-max:]
	}
	return &model.OHLCV{Symbol: symbol, Points: points},
		&model.ProviderMeta{Provider: a.name, Confidence: 0.95}, nil
}

func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}
