// Package quality validates exported datasets for completeness and
// freshness before they are considered publishable.
package quality

import (
	"fmt"
	"time"

	"github.com/yyyfor/stock-master/internal/exporter"
	"github.com/yyyfor/stock-master/internal/model"
)

// estimatedRatioLimit is the share of estimated companies above which
// a cycle is flagged as degraded.
const estimatedRatioLimit = 0.3

// Report is the outcome of one quality pass. Errors make the dataset
// unpublishable; warnings are advisory.
type Report struct {
	Errors   []string
	Warnings []string
}

// OK reports whether the dataset passed every hard check.
func (r *Report) OK() bool { return len(r.Errors) == 0 }

func (r *Report) errorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *Report) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Checker validates comprehensive payloads against a freshness window.
type Checker struct {
	maxAge time.Duration
	now    func() time.Time
}

func New(maxAge time.Duration) *Checker {
	if maxAge <= 0 {
		maxAge = 24 * time.Hour
	}
	return &Checker{maxAge: maxAge, now: time.Now}
}

// Check validates schema and freshness of a comprehensive payload.
func (c *Checker) Check(payload *exporter.Payload) *Report {
	report := &Report{}
	if payload == nil {
		report.errorf("payload is missing")
		return report
	}
	if len(payload.Companies) == 0 {
		report.errorf("payload has no companies")
		return report
	}

	ts, err := time.Parse(time.RFC3339, payload.Timestamp)
	if err != nil {
		report.errorf("unparseable timestamp %q", payload.Timestamp)
	} else if age := c.now().Sub(ts); age > c.maxAge {
		report.errorf("dataset stale: %.1fh old", age.Hours())
	}

	estimated := 0
	for company, record := range payload.Companies {
		c.checkRecord(report, company, record)
		if record != nil && record.IsEstimated {
			estimated++
		}
	}

	ratio := float64(estimated) / float64(len(payload.Companies))
	if ratio > estimatedRatioLimit {
		report.warnf("high estimated ratio: %.0f%%", ratio*100)
	}
	return report
}

func (c *Checker) checkRecord(report *Report, company string, record *model.CompanyRecord) {
	if record == nil {
		report.errorf("%s: record is nil", company)
		return
	}
	if record.Price <= 0 {
		report.errorf("%s: missing price", company)
	}
	if len(record.Source) == 0 {
		report.errorf("%s: missing source attribution", company)
	}
	if len(record.Confidence) == 0 {
		report.errorf("%s: missing confidence attribution", company)
	}
	if record.LastVerifiedAt == "" {
		report.errorf("%s: missing last_verified_at", company)
	} else if _, err := time.Parse(time.RFC3339, record.LastVerifiedAt); err != nil {
		report.errorf("%s: unparseable last_verified_at %q", company, record.LastVerifiedAt)
	}
	if record.IsEstimated != (len(record.EstimatedFields) > 0) {
		report.errorf("%s: is_estimated disagrees with estimated_fields", company)
	}
}
