package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/yyyfor/stock-master/internal/httpx"
	"github.com/yyyfor/stock-master/internal/model"
	"github.com/yyyfor/stock-master/internal/provider/ratelimit"
)

// AllTick wraps the AllTick kline REST API. The free tier enforces a hard
// per-token quota, so every request goes through a shared minimum-interval
// limiter handed in at construction.
type AllTick struct {
	unsupported
	name    string
	apiKey  string
	http    *httpx.Client
	limiter *ratelimit.MinInterval
	baseURL string
	sleep   func(time.Duration)
}

// AllTickMinInterval is the observed safe spacing for the free quota.
const AllTickMinInterval = 6300 * time.Millisecond

func NewAllTick(apiKey string, client *httpx.Client, limiter *ratelimit.MinInterval) *AllTick {
	return &AllTick{
		unsupported: unsupported{name: "alltick"},
		name:        "alltick",
		apiKey:      apiKey,
		http:        client,
		limiter:     limiter,
		baseURL:     "https://quote.alltick.io/quote-stock-b-api/kline",
		sleep:       time.Sleep,
	}
}

func (t *AllTick) Name() string    { return t.name }
func (t *AllTick) Available() bool { return t.apiKey != "" }

// allTickSymbol strips the HK zero padding: "0700.HK" -> "700.HK".
func allTickSymbol(symbol string) string {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	if strings.HasSuffix(s, ".HK") {
		code := strings.TrimSuffix(s, ".HK")
		if n, err := strconv.Atoi(code); err == nil {
			return fmt.Sprintf("%d.HK", n)
		}
	}
	return s
}

type allTickResponse struct {
	Ret  int `json:"ret"`
	Data struct {
		KlineList []struct {
			Timestamp  string `json:"timestamp"`
			OpenPrice  string `json:"open_price"`
			ClosePrice string `json:"close_price"`
			HighPrice  string `json:"high_price"`
			LowPrice   string `json:"low_price"`
			Volume     string `json:"volume"`
		} `json:"kline_list"`
	} `json:"data"`
}

func (t *AllTick) fetchKline(ctx context.Context, symbol string, queryNum int) ([]model.OHLCVPoint, *FetchError) {
	query := map[string]any{
		"trace": "stock-master",
		"data": map[string]string{
			"code":                strings.ToUpper(allTickSymbol(symbol)),
			"kline_type":          "8", // day kline
			"kline_timestamp_end": "0",
			"query_kline_num":     strconv.Itoa(queryNum),
			"adjust_type":         "0",
		},
	}
	queryJSON, _ := json.Marshal(query)
	params := url.Values{"token": {t.apiKey}, "query": {string(queryJSON)}}

	for attempt := 0; attempt < 2; attempt++ {
		t.limiter.Wait()

		var payload allTickResponse
		err := t.http.GetJSON(ctx, t.baseURL, params, nil, &payload)
		if err != nil {
			var se *httpx.StatusError
			if errors.As(err, &se) && se.Code == 429 {
				if attempt == 0 {
					t.sleep(10 * time.Second)
					continue
				}
				return nil, failure(t.name, KindRateLimited, err)
			}
			if attempt == 0 {
				t.sleep(5 * time.Second)
				continue
			}
			return nil, classify(t.name, err)
		}
		if payload.Ret != 200 {
			return nil, failure(t.name, KindValidation, fmt.Errorf("ret=%d for %s", payload.Ret, symbol))
		}

		points := make([]model.OHLCVPoint, 0, len(payload.Data.KlineList))
		for _, row := range payload.Data.KlineList {
			closePrice := parseFloat(row.ClosePrice)
			if closePrice <= 0 {
				continue
			}
			date := ""
			if ts := int64(parseFloat(row.Timestamp)); ts > 0 {
				date = time.Unix(ts, 0).UTC().Format("2006-01-02")
			}
			points = append(points, model.OHLCVPoint{
				Date:   date,
				Open:   orDefault(parseFloat(row.OpenPrice), closePrice),
				High:   orDefault(parseFloat(row.HighPrice), closePrice),
				Low:    orDefault(parseFloat(row.LowPrice), closePrice),
				Close:  closePrice,
				Volume: int64(parseFloat(row.Volume)),
			})
		}
		return points, nil
	}
	return nil, failure(t.name, KindNetwork, fmt.Errorf("exhausted attempts for %s", symbol))
}

func (t *AllTick) FetchQuote(ctx context.Context, symbol string) (*model.Quote, *model.ProviderMeta, error) {
	if t.apiKey == "" {
		return nil, nil, failure(t.name, KindUnavailable, nil)
	}
	points, ferr := t.fetchKline(ctx, symbol, 2)
	if ferr != nil {
		return nil, nil, ferr
	}
	if len(points) == 0 {
		return nil, nil, failure(t.name, KindValidation, fmt.Errorf("empty kline for %s", symbol))
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
	return quote, &model.ProviderMeta{Provider: t.name, Confidence: 0.8}, nil
}

func (t *AllTick) FetchOHLCV(ctx context.Context, symbol, period string) (*model.OHLCV, *model.ProviderMeta, error) {
	if t.apiKey == "" {
		return nil, nil, failure(t.name, KindUnavailable, nil)
	}
	points, ferr := t.fetchKline(ctx, symbol, periodPoints(period))
	if ferr != nil {
		return nil, nil, ferr
	}
	// Provider-declared minimum: a shorter series is a failure, never a
	// short result.
	if len(points) < 20 {
		return nil, nil, failure(t.name, KindValidation, fmt.Errorf("series too short: %d points", len(points)))
	}
	return &model.OHLCV{Symbol: symbol, Points: points},
		&model.ProviderMeta{Provider: t.name, Confidence: 0.78}, nil
}

func orDefault(v, fallback float64) float64 {
	if v == 0 {
		return fallback
	}
	return v
}
