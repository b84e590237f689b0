package exporter

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yyyfor/stock-master/internal/model"
)

func TestWriteAndReadComprehensive(t *testing.T) {
	e := New(t.TempDir())

	records := map[string]*model.CompanyRecord{
		"tencent": {
			Company:        "tencent",
			Symbol:         "0700.HK",
			Price:          365.5,
			Source:         map[string]string{"quote": "akshare"},
			Confidence:     map[string]float64{"quote": 0.95},
			LastVerifiedAt: "2025-06-01T10:00:00Z",
		},
	}
	require.NoError(t, e.WriteComprehensive(records))

	payload, err := e.ReadComprehensive()
	require.NoError(t, err)
	require.NotEmpty(t, payload.Timestamp)
	require.Len(t, payload.Companies, 1)
	require.Equal(t, 365.5, payload.Companies["tencent"].Price)
	require.Equal(t, "akshare", payload.Companies["tencent"].Source["quote"])
}

func TestCompanyRecordFlattensInJSON(t *testing.T) {
	e := New(t.TempDir())

	rec := &model.CompanyRecord{
		Company: "tencent",
		Symbol:  "0700.HK",
		Price:   365.5,
		IndicatorSet: model.IndicatorSet{
			RSI14: 55.2,
			MA20:  360.1,
		},
		Fundamentals: model.Fundamentals{
			ROE: model.Float(13.8),
		},
	}
	require.NoError(t, e.WriteComprehensive(map[string]*model.CompanyRecord{"tencent": rec}))

	raw, err := os.ReadFile(filepath.Join(e.Dir(), "comprehensive_stock_data.json"))
	require.NoError(t, err)

	var decoded struct {
		Companies map[string]map[string]any `json:"companies"`
	}
	require.NoError(t, json.Unmarshal(raw, &decoded))

	company := decoded.Companies["tencent"]
	require.Equal(t, 55.2, company["rsi_14"], "indicators flatten to the top level")
	require.Equal(t, 13.8, company["roe"], "fundamentals flatten to the top level")
	require.Equal(t, "0700.HK", company["symbol"])
	require.NotContains(t, company, "indicator_set")
}

func TestWriteNewsNilBecomesEmptyArray(t *testing.T) {
	e := New(t.TempDir())

	require.NoError(t, e.WriteNews("tencent", nil))

	raw, err := os.ReadFile(filepath.Join(e.Dir(), "news_tencent.json"))
	require.NoError(t, err)
	require.JSONEq(t, "[]", string(raw), "consumers expect a list, never null")
}

func TestWriteNewsMetadata(t *testing.T) {
	e := New(t.TempDir())

	require.NoError(t, e.WriteNewsMetadata(map[string]int{"tencent": 10, "baidu": 0}))

	raw, err := os.ReadFile(filepath.Join(e.Dir(), "news_metadata.json"))
	require.NoError(t, err)

	var meta NewsMetadata
	require.NoError(t, json.Unmarshal(raw, &meta))
	require.NotEmpty(t, meta.LastUpdate)
	require.Equal(t, 10, meta.Counts["tencent"])
}

func TestWriteCreatesDataDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	e := New(dir)

	require.NoError(t, e.WriteNews("tencent", []model.NewsItem{{Title: "t", Link: "l", Publisher: "p"}}))
	_, err := os.Stat(filepath.Join(dir, "news_tencent.json"))
	require.NoError(t, err)
}
