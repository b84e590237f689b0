// Package scheduler drives the periodic update cycle: build records,
// export artifacts, fetch news and run the quality gate.
package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/yyyfor/stock-master/internal/builder"
	"github.com/yyyfor/stock-master/internal/exporter"
	"github.com/yyyfor/stock-master/internal/quality"
	"github.com/yyyfor/stock-master/internal/recorder"
)

// Scheduler manages the cron-driven update task.
type Scheduler struct {
	Cron     *cron.Cron
	Builder  *builder.Builder
	Exporter *exporter.Exporter
	Checker  *quality.Checker
	Recorder recorder.Recorder
	Ctx      context.Context

	log zerolog.Logger
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, log zerolog.Logger, b *builder.Builder, e *exporter.Exporter, q *quality.Checker, rec recorder.Recorder) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Builder:  b,
		Exporter: e,
		Checker:  q,
		Recorder: rec,
		Ctx:      ctx,
		log:      log,
	}
}

// RegisterAll registers the update task under the given cron spec.
func (s *Scheduler) RegisterAll(updateCron string) error {
	if _, err := s.Cron.AddFunc(updateCron, s.updateTask); err != nil {
		return fmt.Errorf("register update task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.log.Info().Msg("scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	s.log.Info().Msg("scheduler stopped")
}

// RunUpdateNow executes the update task immediately (manual trigger / RUN_ON_START).
func (s *Scheduler) RunUpdateNow() {
	s.updateTask()
}

func (s *Scheduler) updateTask() {
	s.log.Info().Msg("running update cycle")

	records, err := s.Builder.BuildAll(s.Ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("update cycle produced no records")
		return
	}

	if err := s.Exporter.WriteComprehensive(records); err != nil {
		s.log.Error().Err(err).Msg("write comprehensive dataset")
		return
	}

	counts := make(map[string]int)
	for _, company := range s.Builder.Companies() {
		items := s.Builder.News(s.Ctx, company)
		if err := s.Exporter.WriteNews(company.Key, items); err != nil {
			s.log.Error().Str("company", company.Key).Err(err).Msg("write news file")
			continue
		}
		counts[company.Key] = len(items)
	}
	if err := s.Exporter.WriteNewsMetadata(counts); err != nil {
		s.log.Error().Err(err).Msg("write news metadata")
	}

	if err := s.Recorder.RecordCycle(records); err != nil {
		s.log.Error().Err(err).Msg("record cycle")
	}

	payload, err := s.Exporter.ReadComprehensive()
	if err != nil {
		s.log.Error().Err(err).Msg("reload dataset for quality check")
		return
	}
	report := s.Checker.Check(payload)
	for _, w := range report.Warnings {
		s.log.Warn().Str("check", "quality").Msg(w)
		if err := s.Recorder.RecordQuality("warn", w); err != nil {
			s.log.Error().Err(err).Msg("record quality warning")
		}
	}
	for _, e := range report.Errors {
		s.log.Error().Str("check", "quality").Msg(e)
		if err := s.Recorder.RecordQuality("error", e); err != nil {
			s.log.Error().Err(err).Msg("record quality error")
		}
	}
	if report.OK() {
		s.log.Info().Int("companies", len(records)).Msg("update cycle completed, quality checks passed")
	}
}
