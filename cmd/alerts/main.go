package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/mohamedkhairy/market-sentry/internal/config"
	"github.com/mohamedkhairy/market-sentry/internal/data"
	"github.com/mohamedkhairy/market-sentry/internal/metrics"
	"github.com/mohamedkhairy/market-sentry/internal/models"
	"github.com/mohamedkhairy/market-sentry/internal/notify"
	"github.com/mohamedkhairy/market-sentry/internal/render"
	"github.com/mohamedkhairy/market-sentry/internal/rules"
	"github.com/mohamedkhairy/market-sentry/internal/state"
	"github.com/mohamedkhairy/market-sentry/pkg/logger"
)

// combineAbove is the alert count beyond which a single combined
// message is sent instead of individual alerts.
const combineAbove = 3

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

	registry := rules.NewRegistry(cfg.Rules)
	triggered := registry.Evaluate(snapshot)
	if len(triggered) == 0 {
		logger.Info("No rules triggered")
		pushMetrics(cfg)
		return
	}
	logger.Info("Rules triggered before cooldown check",
		logger.Int("count", len(triggered)),
	)

	store := state.NewStore(cfg)

	toSend := make([]*rules.TriggeredRule, 0, len(triggered))
	for _, tr := range triggered {
		if store.ShouldFire(tr.Rule.Name, tr.Rule.Severity) {
			toSend = append(toSend, tr)
			logger.Info("Firing alert",
				logger.String("rule", tr.Rule.Name),
				logger.String("severity", string(tr.Rule.Severity)),
			)
		} else {
			metrics.AlertsSuppressed.Inc()
			logger.Info("Suppressed by cooldown",
				logger.String("rule", tr.Rule.Name),
			)
		}
	}
	if len(toSend) == 0 {
		logger.Info("All triggered rules are in cooldown")
		pushMetrics(cfg)
		return
	}

	sort.SliceStable(toSend, func(i, j int) bool {
		return toSend[i].Rule.Severity.Rank() < toSend[j].Rule.Severity.Rank()
	})

	notifier := notify.NewTelegramClient(cfg.Telegram)
	now := time.Now()

	if len(toSend) <= combineAbove {
		for _, tr := range toSend {
			if notifier.SendSafe(ctx, render.Alert(tr, now)) {
				store.RecordFire(tr.Rule.Name)
				metrics.AlertsSent.Inc()
				logger.Info("Alert sent",
					logger.String("rule", tr.Rule.Name),
				)
			} else {
				logger.Error("Alert delivery failed",
					logger.String("rule", tr.Rule.Name),
				)
			}
		}
	} else {
		// Combine into a single message to avoid spam
		if notifier.SendSafe(ctx, render.MultiAlert(toSend, now)) {
			for _, tr := range toSend {
				store.RecordFire(tr.Rule.Name)
				metrics.AlertsSent.Inc()
			}
			logger.Info("Combined alert sent",
				logger.Int("signals", len(toSend)),
			)
		} else {
			logger.Error("Combined alert delivery failed")
		}
	}

	pushMetrics(cfg)
}

func pushMetrics(cfg *config.Config) {
	if err := metrics.Push(cfg.PushgatewayURL, "market-sentry-alerts"); err != nil {
		logger.Warn("Metrics push failed",
			logger.ErrorField(err),
		)
	}
}
