// Package exporter writes the per-cycle JSON artifacts consumed by
// the downstream site: the comprehensive stock payload, one news file
// per company and a news metadata file.
package exporter

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/yyyfor/stock-master/internal/model"
)

const (
	comprehensiveFile = "comprehensive_stock_data.json"
	newsMetadataFile  = "news_metadata.json"
)

// Payload is the top-level comprehensive dataset, keyed by company.
type Payload struct {
	Timestamp string                          `json:"timestamp"`
	Companies map[string]*model.CompanyRecord `json:"companies"`
}

// NewsMetadata records when the last news cycle ran and what it produced.
type NewsMetadata struct {
	LastUpdate string         `json:"last_update"`
	Counts     map[string]int `json:"counts"`
}

// Exporter writes artifacts under a single data directory.
type Exporter struct {
	dir string
}

func New(dir string) *Exporter {
	return &Exporter{dir: dir}
}

// Dir returns the data directory artifacts are written to.
func (e *Exporter) Dir() string { return e.dir }

// WriteComprehensive replaces the comprehensive stock dataset.
func (e *Exporter) WriteComprehensive(records map[string]*model.CompanyRecord) error {
	payload := Payload{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Companies: records,
	}
	return e.writeJSON(comprehensiveFile, payload)
}

// WriteNews replaces one company's news file.
func (e *Exporter) WriteNews(company string, items []model.NewsItem) error {
	if items == nil {
		items = []model.NewsItem{}
	}
	return e.writeJSON(fmt.Sprintf("news_%s.json", company), items)
}

// WriteNewsMetadata replaces the news metadata file.
func (e *Exporter) WriteNewsMetadata(counts map[string]int) error {
	meta := NewsMetadata{
		LastUpdate: time.Now().UTC().Format(time.RFC3339),
		Counts:     counts,
	}
	return e.writeJSON(newsMetadataFile, meta)
}

// ReadComprehensive loads the current comprehensive dataset, if any.
func (e *Exporter) ReadComprehensive() (*Payload, error) {
	data, err := os.ReadFile(filepath.Join(e.dir, comprehensiveFile))
	if err != nil {
		return nil, err
	}
	var payload Payload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("parse %s: %w", comprehensiveFile, err)
	}
	return &payload, nil
}

func (e *Exporter) writeJSON(name string, v any) error {
	if err := os.MkdirAll(e.dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(e.dir, name), data, 0644)
}
