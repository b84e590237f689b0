package builder

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/yyyfor/stock-master/internal/indicator"
	"github.com/yyyfor/stock-master/internal/model"
	"github.com/yyyfor/stock-master/internal/strategy"
)

// MarketData is the slice of the provider registry the builder needs.
type MarketData interface {
	GetQuote(ctx context.Context, symbol string) (*model.Quote, *model.ProviderMeta, error)
	GetOHLCV(ctx context.Context, symbol, period string) (*model.OHLCV, *model.ProviderMeta, error)
	GetFundamentals(ctx context.Context, symbol string) (*model.Fundamentals, *model.ProviderMeta, error)
	GetNews(ctx context.Context, company, symbol string, limit int) ([]model.NewsItem, *model.ProviderMeta, error)
}

// Options tunes a build cycle. Zero values fall back to defaults.
type Options struct {
	Period     string
	MaxRetries int
	Backoff    time.Duration
	Pause      time.Duration
	NewsLimit  int
}

// Builder assembles one CompanyRecord per tracked instrument. A build
// needs both a quote and an OHLCV series; fundamentals and news are
// best-effort.
type Builder struct {
	log       zerolog.Logger
	market    MarketData
	companies []Company

	period     string
	maxRetries int
	backoff    time.Duration
	pause      time.Duration
	newsLimit  int

	sleep func(time.Duration)
	now   func() time.Time
}

func New(log zerolog.Logger, market MarketData, opts Options) *Builder {
	b := &Builder{
		log:        log,
		market:     market,
		companies:  Catalog(),
		period:     opts.Period,
		maxRetries: opts.MaxRetries,
		backoff:    opts.Backoff,
		pause:      opts.Pause,
		newsLimit:  opts.NewsLimit,
		sleep:      time.Sleep,
		now:        time.Now,
	}
	if b.period == "" {
		b.period = "3mo"
	}
	if b.maxRetries <= 0 {
		b.maxRetries = 3
	}
	if b.backoff <= 0 {
		b.backoff = 2 * time.Second
	}
	if b.newsLimit <= 0 {
		b.newsLimit = 10
	}
	return b
}

// Build assembles the record for one company. It fails only when no
// provider can supply a quote or a price history.
func (b *Builder) Build(ctx context.Context, company Company) (*model.CompanyRecord, error) {
	quote, quoteMeta, err := b.market.GetQuote(ctx, company.Symbol)
	if err != nil {
		return nil, fmt.Errorf("quote for %s: %w", company.Symbol, err)
	}
	series, seriesMeta, err := b.market.GetOHLCV(ctx, company.Symbol, b.period)
	if err != nil {
		return nil, fmt.Errorf("ohlcv for %s: %w", company.Symbol, err)
	}

	set := indicator.Compute(series)

	record := &model.CompanyRecord{
		Company:  company.Key,
		Name:     company.Name,
		Symbol:   company.Symbol,
		Sector:   company.Sector,
		Industry: company.Industry,

		Price:     quote.Price,
		Open:      quote.Open,
		High:      quote.High,
		Low:       quote.Low,
		Volume:    quote.Volume,
		Change:    quote.Change,
		ChangePct: quote.ChangePct,
		MarketCap: quote.MarketCap,

		IndicatorSet: *set,

		Source:     map[string]string{"quote": quoteMeta.Provider, "ohlcv": seriesMeta.Provider},
		Confidence: map[string]float64{"quote": quoteMeta.Confidence, "ohlcv": seriesMeta.Confidence},
	}

	// Fundamentals are best-effort; the curated fallback table and the
	// share-count valuation estimate fill whatever the providers miss.
	live, fundMeta, err := b.market.GetFundamentals(ctx, company.Symbol)
	if err != nil {
		b.log.Warn().Str("symbol", company.Symbol).Err(err).Msg("no live fundamentals, using fallback table")
	}

	base := fallbackFundamentals[company.Key]
	mcapHKD, _, valuation := estimateValuation(quote.Price, company)
	fallback := mergeValuation(base, valuation)

	merged, estimated := mergeFundamentals(&fallback, live)
	record.Fundamentals = *merged
	record.EstimatedFields = estimated

	if fundMeta != nil {
		record.Source["fundamentals"] = fundMeta.Provider
		record.Confidence["fundamentals"] = fundMeta.Confidence
	} else {
		record.Source["fundamentals"] = "fallback"
		record.Confidence["fundamentals"] = fallbackConfidence
	}

	if record.MarketCap <= 0 {
		record.MarketCap = mcapHKD * 1e9
		record.EstimatedFields = append(record.EstimatedFields, "market_cap")
		sort.Strings(record.EstimatedFields)
	}
	record.IsEstimated = len(record.EstimatedFields) > 0
	record.LastVerifiedAt = b.now().UTC().Format(time.RFC3339)

	record.TechnicalRating = strategy.Rate(set, quote.Price)
	record.DerivativeAnalysis = strategy.Derivative(set, quote.Price)
	return record, nil
}

// fallbackConfidence is the trust weight attached to curated table
// values, well below every live provider.
const fallbackConfidence = 0.3

// mergeValuation overlays the derived valuation ratios onto the
// curated table, preferring the table where both exist.
func mergeValuation(base, valuation model.Fundamentals) model.Fundamentals {
	out := base
	if out.PERatio == nil {
		out.PERatio = valuation.PERatio
	}
	if out.PBRatio == nil {
		out.PBRatio = valuation.PBRatio
	}
	if out.PSRatio == nil {
		out.PSRatio = valuation.PSRatio
	}
	if out.PEGRatio == nil {
		out.PEGRatio = valuation.PEGRatio
	}
	if out.EVEbitda == nil {
		out.EVEbitda = valuation.EVEbitda
	}
	return out
}

// BuildAll runs a full cycle over the catalog with bounded retries per
// company. Companies that fail every attempt are skipped, not fatal;
// an empty cycle is an error.
func (b *Builder) BuildAll(ctx context.Context) (map[string]*model.CompanyRecord, error) {
	records := make(map[string]*model.CompanyRecord, len(b.companies))

	for i, company := range b.companies {
		record, err := b.buildWithRetry(ctx, company)
		if err != nil {
			b.log.Error().Str("company", company.Key).Err(err).Msg("giving up on company this cycle")
			continue
		}
		records[company.Key] = record
		b.log.Info().
			Str("company", company.Key).
			Float64("price", record.Price).
			Str("rating", record.TechnicalRating.Rating).
			Bool("estimated", record.IsEstimated).
			Msg("company record built")

		if b.pause > 0 && i < len(b.companies)-1 {
			b.sleep(b.pause)
		}
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("no company could be built this cycle")
	}
	return records, nil
}

func (b *Builder) buildWithRetry(ctx context.Context, company Company) (*model.CompanyRecord, error) {
	var lastErr error
	for attempt := 1; attempt <= b.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record, err := b.Build(ctx, company)
		if err == nil {
			return record, nil
		}
		lastErr = err
		b.log.Warn().
			Str("company", company.Key).
			Int("attempt", attempt).
			Err(err).
			Msg("build attempt failed")
		if attempt < b.maxRetries {
			b.sleep(time.Duration(attempt) * b.backoff)
		}
	}
	return nil, lastErr
}

// News fetches headlines for one company. Failures surface as an
// empty slice; news never blocks or fails a build cycle.
func (b *Builder) News(ctx context.Context, company Company) []model.NewsItem {
	items, meta, err := b.market.GetNews(ctx, company.NewsQuery, company.Symbol, b.newsLimit)
	if err != nil {
		b.log.Warn().Str("company", company.Key).Err(err).Msg("no news this cycle")
		return nil
	}
	b.log.Debug().
		Str("company", company.Key).
		Str("provider", meta.Provider).
		Int("items", len(items)).
		Msg("news fetched")
	return items
}

// Companies exposes the catalog the builder iterates.
func (b *Builder) Companies() []Company { return b.companies }
