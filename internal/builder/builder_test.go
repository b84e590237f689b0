package builder

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/yyyfor/stock-master/internal/model"
)

// fakeMarket scripts registry responses per capability.
type fakeMarket struct {
	quote    *model.Quote
	quoteErr error
	// quoteFailures makes the first N quote calls fail, then succeed.
	quoteFailures int

	series    *model.OHLCV
	seriesErr error

	fundamentals *model.Fundamentals
	fundErr      error

	news    []model.NewsItem
	newsErr error

	quoteCalls int
	newsQuery  string
}

func (f *fakeMarket) GetQuote(_ context.Context, symbol string) (*model.Quote, *model.ProviderMeta, error) {
	f.quoteCalls++
	if f.quoteFailures > 0 {
		f.quoteFailures--
		return nil, nil, errors.New("transient failure")
	}
	if f.quoteErr != nil {
		return nil, nil, f.quoteErr
	}
	return f.quote, &model.ProviderMeta{Provider: "akshare", Confidence: 0.95}, nil
}

func (f *fakeMarket) GetOHLCV(_ context.Context, _, _ string) (*model.OHLCV, *model.ProviderMeta, error) {
	if f.seriesErr != nil {
		return nil, nil, f.seriesErr
	}
	return f.series, &model.ProviderMeta{Provider: "yfinance", Confidence: 0.85}, nil
}

func (f *fakeMarket) GetFundamentals(_ context.Context, _ string) (*model.Fundamentals, *model.ProviderMeta, error) {
	if f.fundErr != nil {
		return nil, nil, f.fundErr
	}
	return f.fundamentals, &model.ProviderMeta{Provider: "yfinance", Confidence: 0.8}, nil
}

func (f *fakeMarket) GetNews(_ context.Context, company, _ string, _ int) ([]model.NewsItem, *model.ProviderMeta, error) {
	f.newsQuery = company
	if f.newsErr != nil {
		return nil, nil, f.newsErr
	}
	return f.news, &model.ProviderMeta{Provider: "newsapi", Confidence: 0.7}, nil
}

func testSeries(n int) *model.OHLCV {
	points := make([]model.OHLCVPoint, n)
	for i := range points {
		c := 300 + float64(i)
		points[i] = model.OHLCVPoint{Open: c - 1, High: c + 2, Low: c - 2, Close: c, Volume: 1000}
	}
	return &model.OHLCV{Symbol: "0700.HK", Points: points}
}

func tencent() Company {
	return Catalog()[0]
}

func testBuilder(market MarketData) *Builder {
	b := New(zerolog.Nop(), market, Options{MaxRetries: 3, Backoff: time.Second})
	b.sleep = func(time.Duration) {}
	return b
}

func TestBuildAssemblesRecord(t *testing.T) {
	market := &fakeMarket{
		quote:  &model.Quote{Symbol: "0700.HK", Price: 365.5, ChangePct: 1.2, MarketCap: 3.4e12},
		series: testSeries(66),
		fundamentals: &model.Fundamentals{
			ROA: model.Float(6.0),
		},
	}
	b := testBuilder(market)

	record, err := b.Build(context.Background(), tencent())
	require.NoError(t, err)

	require.Equal(t, "tencent", record.Company)
	require.Equal(t, "0700.HK", record.Symbol)
	require.Equal(t, 365.5, record.Price)
	require.Equal(t, "akshare", record.Source["quote"])
	require.Equal(t, 0.95, record.Confidence["quote"])
	require.Equal(t, "yfinance", record.Source["ohlcv"])
	require.Equal(t, "yfinance", record.Source["fundamentals"])

	// Live ROA wins; ROE comes from the fallback table and is flagged.
	require.Equal(t, 6.0, *record.ROA)
	require.Equal(t, 13.8, *record.ROE)
	require.Contains(t, record.EstimatedFields, "roe")
	require.NotContains(t, record.EstimatedFields, "roa")
	require.True(t, record.IsEstimated)

	require.NotEmpty(t, record.TechnicalRating.Rating)
	require.NotZero(t, record.DerivativeAnalysis.TightStopLoss)
	require.NotEmpty(t, record.LastVerifiedAt)
	_, err = time.Parse(time.RFC3339, record.LastVerifiedAt)
	require.NoError(t, err)
}

func TestBuildFailsWithoutQuote(t *testing.T) {
	market := &fakeMarket{
		quoteErr: errors.New("no data"),
		series:   testSeries(66),
	}
	b := testBuilder(market)

	_, err := b.Build(context.Background(), tencent())
	require.Error(t, err)
}

func TestBuildFailsWithoutSeries(t *testing.T) {
	market := &fakeMarket{
		quote:     &model.Quote{Symbol: "0700.HK", Price: 365.5},
		seriesErr: errors.New("no data"),
	}
	b := testBuilder(market)

	_, err := b.Build(context.Background(), tencent())
	require.Error(t, err)
}

func TestBuildSurvivesMissingFundamentals(t *testing.T) {
	market := &fakeMarket{
		quote:   &model.Quote{Symbol: "0700.HK", Price: 365.5},
		series:  testSeries(66),
		fundErr: errors.New("no data"),
	}
	b := testBuilder(market)

	record, err := b.Build(context.Background(), tencent())
	require.NoError(t, err)

	require.Equal(t, "fallback", record.Source["fundamentals"])
	require.Equal(t, fallbackConfidence, record.Confidence["fundamentals"])
	require.True(t, record.IsEstimated)
	require.NotEmpty(t, record.EstimatedFields)
}

func TestBuildEstimatesMarketCap(t *testing.T) {
	market := &fakeMarket{
		quote:  &model.Quote{Symbol: "0700.HK", Price: 400}, // no market cap
		series: testSeries(66),
	}
	b := testBuilder(market)

	record, err := b.Build(context.Background(), tencent())
	require.NoError(t, err)

	// 400 HKD x 9.35B shares.
	require.InDelta(t, 400*9.35*1e9, record.MarketCap, 1)
	require.Contains(t, record.EstimatedFields, "market_cap")
	require.True(t, sort.StringsAreSorted(record.EstimatedFields),
		"estimated field list stays sorted after the market cap entry")
}

func TestBuildWithRetryRecovers(t *testing.T) {
	market := &fakeMarket{
		quote:         &model.Quote{Symbol: "0700.HK", Price: 365.5},
		series:        testSeries(66),
		quoteFailures: 2,
	}
	b := testBuilder(market)

	var slept []time.Duration
	b.sleep = func(d time.Duration) { slept = append(slept, d) }

	record, err := b.buildWithRetry(context.Background(), tencent())
	require.NoError(t, err)
	require.NotNil(t, record)
	require.Equal(t, 3, market.quoteCalls)
	// Backoff grows with the attempt number.
	require.Equal(t, []time.Duration{time.Second, 2 * time.Second}, slept)
}

func TestBuildWithRetryGivesUp(t *testing.T) {
	market := &fakeMarket{
		quoteErr: errors.New("permanently down"),
		series:   testSeries(66),
	}
	b := testBuilder(market)

	_, err := b.buildWithRetry(context.Background(), tencent())
	require.Error(t, err)
	require.Equal(t, 3, market.quoteCalls)
}

func TestBuildAllSkipsFailedCompanies(t *testing.T) {
	market := &fakeMarket{
		quote:  &model.Quote{Symbol: "any", Price: 100},
		series: testSeries(66),
	}
	b := testBuilder(market)

	records, err := b.BuildAll(context.Background())
	require.NoError(t, err)
	require.Len(t, records, len(Catalog()))
}

func TestBuildAllEmptyCycleIsError(t *testing.T) {
	market := &fakeMarket{quoteErr: errors.New("everything down")}
	b := testBuilder(market)

	_, err := b.BuildAll(context.Background())
	require.Error(t, err)
}

func TestNewsNeverFails(t *testing.T) {
	market := &fakeMarket{newsErr: errors.New("news backend down")}
	b := testBuilder(market)

	items := b.News(context.Background(), tencent())
	require.Empty(t, items)
}

func TestNewsPassesDisplayName(t *testing.T) {
	market := &fakeMarket{news: []model.NewsItem{{Title: "headline"}}}
	b := testBuilder(market)

	items := b.News(context.Background(), tencent())
	require.Len(t, items, 1)
	require.Equal(t, "Tencent Holdings", market.newsQuery)
}
