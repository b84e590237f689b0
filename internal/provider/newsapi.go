package provider

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/yyyfor/stock-master/internal/httpx"
	"github.com/yyyfor/stock-master/internal/model"
)

// NewsAPI searches newsapi.org by company name rather than by ticker,
// so it only serves the news capability and needs the display name of
// the company being looked up.
type NewsAPI struct {
	unsupported
	name    string
	apiKey  string
	http    *httpx.Client
	baseURL string
}

func NewNewsAPI(apiKey string, client *httpx.Client) *NewsAPI {
	return &NewsAPI{
		unsupported: unsupported{name: "newsapi"},
		name:        "newsapi",
		apiKey:      apiKey,
		http:        client,
		baseURL:     "https://newsapi.org/v2",
	}
}

func (n *NewsAPI) Name() string    { return n.name }
func (n *NewsAPI) Available() bool { return n.apiKey != "" }

type newsAPIResponse struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Articles []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		PublishedAt string `json:"publishedAt"`
		Source      struct {
			Name string `json:"name"`
		} `json:"source"`
	} `json:"articles"`
}

// FetchNews treats the symbol as a search keyword. The registry calls
// FetchCompanyNews instead when it knows the display name.
func (n *NewsAPI) FetchNews(ctx context.Context, symbol string, limit int) ([]model.NewsItem, *model.ProviderMeta, error) {
	return n.FetchCompanyNews(ctx, symbol, symbol, limit)
}

func (n *NewsAPI) FetchCompanyNews(ctx context.Context, query, symbol string, limit int) ([]model.NewsItem, *model.ProviderMeta, error) {
	if n.apiKey == "" {
		return nil, nil, failure(n.name, KindUnavailable, nil)
	}
	if limit <= 0 {
		limit = 10
	}
	params := url.Values{
		"q":        {query},
		"sortBy":   {"publishedAt"},
		"language": {"en"},
		"pageSize": {fmt.Sprint(limit)},
		"apiKey":   {n.apiKey},
	}
	var payload newsAPIResponse
	if err := n.http.GetJSON(ctx, n.baseURL+"/everything", params, nil, &payload); err != nil {
		return nil, nil, classify(n.name, err)
	}
	if payload.Status != "ok" {
		return nil, nil, failure(n.name, KindValidation, fmt.Errorf("newsapi status %q: %s", payload.Status, payload.Message))
	}
	if len(payload.Articles) == 0 {
		return nil, nil, failure(n.name, KindValidation, fmt.Errorf("no articles for %q", query))
	}

	items := make([]model.NewsItem, 0, len(payload.Articles))
	for _, a := range payload.Articles {
		if a.Title == "" {
			continue
		}
		var published int64
		if ts, err := time.Parse(time.RFC3339, a.PublishedAt); err == nil {
			published = ts.Unix()
		}
		items = append(items, model.NewsItem{
			Symbol:              symbol,
			Title:               a.Title,
			Publisher:           a.Source.Name,
			Link:                a.URL,
			ProviderPublishTime: published,
			Summary:             a.Description,
		})
		if len(items) >= limit {
			break
		}
	}
	return items, &model.ProviderMeta{Provider: n.name, Confidence: 0.7}, nil
}
