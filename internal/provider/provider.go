package provider

import (
	"context"
	"strings"

	"github.com/yyyfor/stock-master/internal/model"
)

// DataProvider wraps one external market-data source behind four optional
// capabilities. Implementations translate between the canonical symbol form
// (e.g. "0700.HK") and whatever the source expects; that mapping never leaks
// into the normalized model.
//
// Contract: capabilities never panic. Any network error, malformed payload or
// quota rejection comes back as a *FetchError; sources that do not implement
// a capability return a KindUnsupported failure via the embedded unsupported
// base, mirroring how the registry skips them.
type DataProvider interface {
	Name() string

	// Available reports whether the provider is configured, without touching
	// the network. A missing API key means unavailable.
	Available() bool

	FetchQuote(ctx context.Context, symbol string) (*model.Quote, *model.ProviderMeta, error)
	FetchOHLCV(ctx context.Context, symbol, period string) (*model.OHLCV, *model.ProviderMeta, error)
	FetchFundamentals(ctx context.Context, symbol string) (*model.Fundamentals, *model.ProviderMeta, error)
	FetchNews(ctx context.Context, symbol string, limit int) ([]model.NewsItem, *model.ProviderMeta, error)
}

// unsupported supplies the "capability not implemented" sentinel for every
// method, so concrete providers only override what their source supports.
type unsupported struct{ name string }

func (u unsupported) FetchQuote(context.Context, string) (*model.Quote, *model.ProviderMeta, error) {
	return nil, nil, failure(u.name, KindUnsupported, nil)
}

func (u unsupported) FetchOHLCV(context.Context, string, string) (*model.OHLCV, *model.ProviderMeta, error) {
	return nil, nil, failure(u.name, KindUnsupported, nil)
}

func (u unsupported) FetchFundamentals(context.Context, string) (*model.Fundamentals, *model.ProviderMeta, error) {
	return nil, nil, failure(u.name, KindUnsupported, nil)
}

func (u unsupported) FetchNews(context.Context, string, int) ([]model.NewsItem, *model.ProviderMeta, error) {
	return nil, nil, failure(u.name, KindUnsupported, nil)
}

// periodPoints maps a lookback period string to a daily bar count.
func periodPoints(period string) int {
	switch strings.ToLower(period) {
	case "1mo":
		return 22
	case "3mo":
		return 66
	case "6mo":
		return 132
	case "1y":
		return 252
	default:
		return 66
	}
}

// periodDays maps a lookback period string to calendar days, for sources
// that take a day window rather than a bar count.
func periodDays(period string) int {
	switch strings.ToLower(period) {
	case "1mo":
		return 30
	case "3mo":
		return 90
	case "6mo":
		return 180
	case "1y":
		return 365
	default:
		return 90
	}
}

// hkCode pads an HK symbol to the 5-digit exchange code: "0700.HK" -> "00700".
func hkCode(symbol string) string {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	s = strings.TrimSuffix(s, ".HK")
	for len(s) < 5 {
		s = "0" + s
	}
	return s
}

// isHK reports whether the canonical symbol is Hong Kong listed.
func isHK(symbol string) bool {
	return strings.HasSuffix(strings.ToUpper(symbol), ".HK")
}
