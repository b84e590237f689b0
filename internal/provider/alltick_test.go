package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yyyfor/stock-master/internal/httpx"
	"github.com/yyyfor/stock-master/internal/provider/ratelimit"
)

func allTickFor(t *testing.T, handler http.HandlerFunc) *AllTick {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	p := NewAllTick("test-token", httpx.New(5*time.Second, ""), ratelimit.New(0))
	p.baseURL = server.URL
	p.sleep = func(time.Duration) {}
	return p
}

func klineRow(ts time.Time, closePrice float64) map[string]string {
	return map[string]string{
		"timestamp":   fmt.Sprint(ts.Unix()),
		"open_price":  fmt.Sprint(closePrice - 1),
		"close_price": fmt.Sprint(closePrice),
		"high_price":  fmt.Sprint(closePrice + 2),
		"low_price":   fmt.Sprint(closePrice - 2),
		"volume":      "1000",
	}
}

func allTickBody(n int) []byte {
	rows := make([]map[string]string, 0, n)
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		rows = append(rows, klineRow(base.AddDate(0, 0, i), 300+float64(i)))
	}
	body, _ := json.Marshal(map[string]any{
		"ret":  200,
		"data": map[string]any{"kline_list": rows},
	})
	return body
}

func TestAllTickSymbol(t *testing.T) {
	require.Equal(t, "700.HK", allTickSymbol("0700.HK"))
	require.Equal(t, "9988.HK", allTickSymbol("09988.HK"))
	require.Equal(t, "AAPL", allTickSymbol("aapl"))
}

func TestAllTickUnavailableWithoutKey(t *testing.T) {
	p := NewAllTick("", nil, nil)
	require.False(t, p.Available())

	_, _, err := p.FetchQuote(context.Background(), "0700.HK")
	require.Error(t, err)
}

func TestAllTickFetchQuoteFromLastTwoBars(t *testing.T) {
	p := allTickFor(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(allTickBody(2))
	})

	quote, meta, err := p.FetchQuote(context.Background(), "0700.HK")
	require.NoError(t, err)
	require.Equal(t, 0.8, meta.Confidence)
	require.Equal(t, 301.0, quote.Price)
	require.InDelta(t, 1.0, quote.Change, 1e-9)
	require.InDelta(t, 100.0/300, quote.ChangePct, 1e-9)
}

func TestAllTickFetchOHLCVRequiresTwentyPoints(t *testing.T) {
	p := allTickFor(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(allTickBody(5))
	})

	_, _, err := p.FetchOHLCV(context.Background(), "0700.HK", "3mo")
	require.Error(t, err, "a short series is a failure, never a short result")
}

func TestAllTickRetriesOn429(t *testing.T) {
	calls := 0
	p := allTickFor(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write(allTickBody(2))
	})

	quote, _, err := p.FetchQuote(context.Background(), "0700.HK")
	require.NoError(t, err)
	require.Equal(t, 2, calls, "one retry after the throttle response")
	require.Equal(t, 301.0, quote.Price)
}

func TestAllTickBadRetCode(t *testing.T) {
	p := allTickFor(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ret":604,"data":{}}`))
	})

	_, _, err := p.FetchQuote(context.Background(), "0700.HK")
	require.Error(t, err)
}
