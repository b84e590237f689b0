package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/yyyfor/stock-master/internal/builder"
	"github.com/yyyfor/stock-master/internal/config"
	"github.com/yyyfor/stock-master/internal/exporter"
	"github.com/yyyfor/stock-master/internal/provider"
	"github.com/yyyfor/stock-master/internal/quality"
	"github.com/yyyfor/stock-master/internal/recorder"
	"github.com/yyyfor/stock-master/internal/scheduler"
)

func main() {
	// .env is optional; real deployments use environment variables.
	_ = godotenv.Load()

	log := newLogger()
	log.Info().Msg("stock-master starting")

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("config validation")
	}

	mode := "daemon"
	if len(os.Args) > 1 {
		mode = os.Args[1]
	}

	registry := provider.FromConfig(cfg, log)
	b := builder.New(log, registry, builder.Options{
		Period:     cfg.Fetch.OHLCVPeriod,
		MaxRetries: cfg.Fetch.MaxRetries,
		Backoff:    cfg.Backoff(),
		Pause:      cfg.Pause(),
		NewsLimit:  cfg.Fetch.NewsLimit,
	})
	exp := exporter.New(cfg.Output.DataDir)
	checker := quality.New(time.Duration(cfg.Quality.MaxAgeHours) * time.Hour)

	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, log)
		if err != nil {
			log.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched := scheduler.NewScheduler(ctx, log, b, exp, checker, rec)

	switch mode {
	case "run":
		sched.RunUpdateNow()
		return
	case "check":
		payload, err := exp.ReadComprehensive()
		if err != nil {
			log.Fatal().Err(err).Msg("read dataset")
		}
		report := checker.Check(payload)
		for _, w := range report.Warnings {
			log.Warn().Msg(w)
		}
		for _, e := range report.Errors {
			log.Error().Msg(e)
		}
		if !report.OK() {
			os.Exit(1)
		}
		log.Info().Msg("quality checks passed")
		return
	case "daemon":
	default:
		log.Fatal().Str("mode", mode).Msg("unknown mode, expected run, check or daemon")
	}

	if err := sched.RegisterAll(cfg.Schedule.UpdateCron); err != nil {
		log.Fatal().Err(err).Msg("register cron tasks")
	}
	sched.Start()
	defer sched.Stop()

	if cfg.Schedule.RunOnStart {
		log.Info().Msg("run_on_start enabled, executing update cycle now")
		go sched.RunUpdateNow()
	}

	log.Info().Str("cron", cfg.Schedule.UpdateCron).Msg("stock-master is running")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info().Msg("shutdown signal received, stopping")
	cancel()
	log.Info().Msg("stock-master stopped")
}

func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		if parsed, err := zerolog.ParseLevel(v); err == nil {
			level = parsed
		}
	}
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "2006-01-02 15:04:05"}
	return zerolog.New(output).Level(level).With().Timestamp().Logger()
}
