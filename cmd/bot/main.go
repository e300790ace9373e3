package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"DistressSentinel/internal/aggregator"
	"DistressSentinel/internal/analysis"
	"DistressSentinel/internal/collector"
	"DistressSentinel/internal/config"
	"DistressSentinel/internal/logger"
	"DistressSentinel/internal/notifier"
	"DistressSentinel/internal/reconciler"
	"DistressSentinel/internal/recorder"
	"DistressSentinel/internal/scheduler"
	"DistressSentinel/internal/scoring"
	"DistressSentinel/internal/server"
)

func main() {
	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	lg := logger.Setup(cfg.LogLevel, cfg.LogPretty)
	lg.Info().Str("config", cfgPath).Msg("DistressSentinel starting")

	if err := cfg.Validate(); err != nil {
		lg.Fatal().Err(err).Msg("config validation")
	}

	// Init collectors
	opts := collector.HTTPOptions{
		ProxyURL:   cfg.Proxy,
		Timeout:    cfg.Providers.RequestTimeout,
		MaxRetries: cfg.Providers.MaxRetries,
		RetryWait:  time.Second,
	}
	rc := reconciler.NewDefault()
	collectors := []*collector.Collector{
		collector.NewCollector(collector.NewYahooFetcher(opts), rc, lg),
		collector.NewCollector(&collector.MockFetcher{}, rc, lg),
	}
	if cfg.Providers.AlphaVantageAPIKey != "" {
		avOpts := opts
		avOpts.MinSpacing = cfg.Providers.AlphaVantageInterval
		av := collector.NewAlphaVantageFetcher(cfg.Providers.AlphaVantageAPIKey, avOpts)
		collectors = append(collectors, collector.NewCollector(av, rc, lg))
	}

	// Init recorder
	rec := openRecorder(cfg.Database.SQLitePath, lg)
	defer rec.Close()

	// Init analysis service
	analyzer := analysis.NewAnalyzer(scoring.NewDefaultEngine(), aggregator.New(), cfg.Scoring.Parallel)
	svc := analysis.NewService(analyzer, rec, cfg.Providers.Default, lg, collectors...)
	lg.Info().Strs("sources", svc.Sources()).Str("default", svc.DefaultSource()).Msg("data sources ready")

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init Telegram notifier and scheduler
	var tn *notifier.TelegramNotifier
	var sender scheduler.Sender
	if cfg.TelegramEnabled() {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, lg)
		sender = tn
	}
	sched := scheduler.NewScheduler(ctx, svc, sender, cfg.Watchlist.Symbols, cfg.Watchlist.Source, lg)
	if err := sched.Register(cfg.Watchlist.Cron); err != nil {
		lg.Fatal().Err(err).Msg("register cron tasks")
	}
	sched.Start()
	defer sched.Stop()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		lg.Info().Msg("telegram polling started")
	}

	// Init HTTP API
	var srv *server.Server
	if cfg.Server.ListenAddr != "" {
		srv = server.New(server.Config{Addr: cfg.Server.ListenAddr, Service: svc, Log: lg})
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				lg.Error().Err(err).Msg("HTTP server stopped")
				cancel()
			}
		}()
	}

	// Optional: run immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		lg.Info().Msg("RUN_ON_START enabled, analysing watchlist now")
		go sched.RunWatchlistNow()
	}

	lg.Info().Msg("DistressSentinel is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
		lg.Info().Msg("shutdown signal received, stopping...")
	case <-ctx.Done():
	}
	cancel()

	if srv != nil {
		shutdownCtx, done := context.WithTimeout(context.Background(), 10*time.Second)
		defer done()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			lg.Error().Err(err).Msg("HTTP server shutdown")
		}
	}
	lg.Info().Msg("DistressSentinel stopped")
}

func openRecorder(path string, lg zerolog.Logger) recorder.Recorder {
	if path == "" {
		return recorder.NewNoopRecorder()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		lg.Warn().Err(err).Msg("create database directory failed, using noop recorder")
		return recorder.NewNoopRecorder()
	}
	sr, err := recorder.NewSQLiteRecorder(path, lg)
	if err != nil {
		lg.Warn().Err(err).Msg("init sqlite recorder failed, using noop recorder")
		return recorder.NewNoopRecorder()
	}
	return sr
}
