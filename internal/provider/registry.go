package provider

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/yyyfor/stock-master/internal/config"
	"github.com/yyyfor/stock-master/internal/httpx"
	"github.com/yyyfor/stock-master/internal/model"
	"github.com/yyyfor/stock-master/internal/provider/ratelimit"
)

// Priorities lists provider names per capability, highest priority first.
type Priorities struct {
	Quote        []string
	OHLCV        []string
	Fundamentals []string
	News         []string
}

// Registry routes each fetch to the first provider in the capability's
// priority list that returns usable data. Provider failures never
// propagate; a capability with no surviving provider yields ErrNoData.
type Registry struct {
	log       zerolog.Logger
	providers map[string]DataProvider
	priority  Priorities
	minPoints int
}

func NewRegistry(log zerolog.Logger, priority Priorities, minPoints int, providers ...DataProvider) *Registry {
	byName := make(map[string]DataProvider, len(providers))
	for _, p := range providers {
		byName[p.Name()] = p
	}
	if minPoints <= 0 {
		minPoints = 30
	}
	return &Registry{
		log:       log,
		providers: byName,
		priority:  priority,
		minPoints: minPoints,
	}
}

// FromConfig wires the full provider set with per-provider rate limiters.
func FromConfig(cfg *config.Config, log zerolog.Logger) *Registry {
	client := httpx.New(cfg.Timeout(), cfg.Fetch.Proxy)
	providers := []DataProvider{
		NewAkshare(client),
		NewYFinance(client),
		NewAllTick(cfg.Keys.AllTick, client, ratelimit.New(AllTickMinInterval)),
		NewSnowball(cfg.Keys.Snowball, client, ratelimit.New(SnowballMinInterval)),
		NewAlphaVantage(cfg.Keys.AlphaVantage, client),
		NewFinnhub(cfg.Keys.Finnhub, client),
		NewFMP(cfg.Keys.FMP, client),
		NewNewsAPI(cfg.Keys.NewsAPI, client),
	}
	priority := Priorities{
		Quote:        cfg.Providers.Quote,
		OHLCV:        cfg.Providers.OHLCV,
		Fundamentals: cfg.Providers.Fundamentals,
		News:         cfg.Providers.News,
	}
	return NewRegistry(log, priority, cfg.Fetch.MinPoints, providers...)
}

// candidates resolves a priority list to live providers, skipping
// unknown names and providers without credentials.
func (r *Registry) candidates(names []string) []DataProvider {
	out := make([]DataProvider, 0, len(names))
	for _, name := range names {
		p, ok := r.providers[name]
		if !ok {
			r.log.Warn().Str("provider", name).Msg("unknown provider in priority list")
			continue
		}
		if !p.Available() {
			r.log.Debug().Str("provider", name).Msg("provider unavailable, skipping")
			continue
		}
		out = append(out, p)
	}
	return out
}

func (r *Registry) skip(provider, capability, symbol string, err error) {
	r.log.Debug().
		Str("provider", provider).
		Str("capability", capability).
		Str("symbol", symbol).
		Err(err).
		Msg("provider yielded no data")
}

func (r *Registry) GetQuote(ctx context.Context, symbol string) (*model.Quote, *model.ProviderMeta, error) {
	for _, p := range r.candidates(r.priority.Quote) {
		quote, meta, err := p.FetchQuote(ctx, symbol)
		if err != nil {
			r.skip(p.Name(), "quote", symbol, err)
			continue
		}
		if quote == nil || meta == nil || quote.Price <= 0 {
			r.skip(p.Name(), "quote", symbol, ErrNoData)
			continue
		}
		return quote, meta, nil
	}
	return nil, nil, ErrNoData
}

func (r *Registry) GetOHLCV(ctx context.Context, symbol, period string) (*model.OHLCV, *model.ProviderMeta, error) {
	for _, p := range r.candidates(r.priority.OHLCV) {
		series, meta, err := p.FetchOHLCV(ctx, symbol, period)
		if err != nil {
			r.skip(p.Name(), "ohlcv", symbol, err)
			continue
		}
		if series == nil || meta == nil || len(series.Points) < r.minPoints {
			r.skip(p.Name(), "ohlcv", symbol, ErrNoData)
			continue
		}
		return series, meta, nil
	}
	return nil, nil, ErrNoData
}

func (r *Registry) GetFundamentals(ctx context.Context, symbol string) (*model.Fundamentals, *model.ProviderMeta, error) {
	for _, p := range r.candidates(r.priority.Fundamentals) {
		data, meta, err := p.FetchFundamentals(ctx, symbol)
		if err != nil {
			r.skip(p.Name(), "fundamentals", symbol, err)
			continue
		}
		if data == nil || meta == nil {
			r.skip(p.Name(), "fundamentals", symbol, ErrNoData)
			continue
		}
		return data, meta, nil
	}
	return nil, nil, ErrNoData
}

// GetNews takes the company display name as well as the symbol because
// the keyword-search backend matches articles by name, not by ticker.
func (r *Registry) GetNews(ctx context.Context, company, symbol string, limit int) ([]model.NewsItem, *model.ProviderMeta, error) {
	for _, p := range r.candidates(r.priority.News) {
		var (
			items []model.NewsItem
			meta  *model.ProviderMeta
			err   error
		)
		if byName, ok := p.(*NewsAPI); ok {
			items, meta, err = byName.FetchCompanyNews(ctx, company, symbol, limit)
		} else {
			items, meta, err = p.FetchNews(ctx, symbol, limit)
		}
		if err != nil {
			r.skip(p.Name(), "news", symbol, err)
			continue
		}
		if len(items) == 0 {
			r.skip(p.Name(), "news", symbol, ErrNoData)
			continue
		}
		return items, meta, nil
	}
	return nil, nil, ErrNoData
}
