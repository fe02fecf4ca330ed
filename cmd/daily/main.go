package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/mohamedkhairy/market-sentry/internal/config"
	"github.com/mohamedkhairy/market-sentry/internal/data"
	"github.com/mohamedkhairy/market-sentry/internal/metrics"
	"github.com/mohamedkhairy/market-sentry/internal/models"
	"github.com/mohamedkhairy/market-sentry/internal/notify"
	"github.com/mohamedkhairy/market-sentry/internal/regime"
	"github.com/mohamedkhairy/market-sentry/internal/render"
	"github.com/mohamedkhairy/market-sentry/internal/rules"
	"github.com/mohamedkhairy/market-sentry/pkg/logger"
)

func main() {
	cfg, cfgErr := config.Load()

	if err := logger.Init(cfg.LogLevel, cfg.Environment); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if cfgErr != nil {
		logger.Warn("Threshold document not loaded, using defaults",
			logger.ErrorField(cfgErr),
		)
	}

	ctx := context.Background()
	provider := data.NewYahooProvider(30 * time.Second)

	logger.Info("Fetching market data")
	snapshot, err := provider.FetchSnapshot(ctx)
	if err == nil && snapshot.Len() == 0 {
		err = models.ErrEmptySnapshot
	}
	if err != nil {
		logger.Error("No market data fetched",
			logger.ErrorField(err),
		)
		os.Exit(1)
	}
	logger.Info("Market data fetched",
		logger.Int("symbols", snapshot.Len()),
	)

	classifier := regime.NewClassifier(cfg.Regime, provider)
	assessment := classifier.Assess(ctx, snapshot)
	logger.Info("Regime assessed",
		logger.String("regime", string(assessment.Regime)),
		logger.Int("triggers", len(assessment.Triggers)),
	)

	// The daily summary reports every triggered rule; cooldowns are
	// not consulted on this path.
	registry := rules.NewRegistry(cfg.Rules)
	triggered := registry.Evaluate(snapshot)
	logger.Info("Rules evaluated",
		logger.Int("triggered", len(triggered)),
	)

	report := render.DailyReport(snapshot, assessment, triggered, cfg.Rules.RateShockBps)

	notifier := notify.NewTelegramClient(cfg.Telegram)
	if !notifier.SendSafe(ctx, report) {
		logger.Error("Failed to send daily report")
		pushMetrics(cfg)
		os.Exit(1)
	}
	metrics.AlertsSent.Inc()
	logger.Info("Daily report sent")

	pushMetrics(cfg)
}

func pushMetrics(cfg *config.Config) {
	if err := metrics.Push(cfg.PushgatewayURL, "market-sentry-daily"); err != nil {
		logger.Warn("Metrics push failed",
			logger.ErrorField(err),
		)
	}
}
