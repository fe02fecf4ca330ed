// Package regime classifies the market posture as NORMAL or DEFENSIVE
// from a fixed trigger set over the snapshot, independent of the alert
// rule registry.
package regime

import (
	"context"
	"fmt"

	"github.com/mohamedkhairy/market-sentry/internal/config"
	"github.com/mohamedkhairy/market-sentry/internal/data"
	"github.com/mohamedkhairy/market-sentry/internal/models"
	"github.com/mohamedkhairy/market-sentry/pkg/indicator"
	"github.com/mohamedkhairy/market-sentry/pkg/logger"
)

// Regime is the coarse market-stress classification.
type Regime string

const (
	RegimeNormal    Regime = "NORMAL"
	RegimeDefensive Regime = "DEFENSIVE"
)

// Assessment is the classification result with its reasoning.
type Assessment struct {
	Regime   Regime
	Triggers []string
	Summary  string
}

// Classifier evaluates the fixed regime trigger set. It is constructed
// with explicit thresholds and a provider for the one auxiliary lookup
// (prior trading day's VIX close).
type Classifier struct {
	thresholds config.RegimeThresholds
	provider   data.Provider
}

// NewClassifier creates a classifier bound to the given thresholds and
// history provider.
func NewClassifier(thresholds config.RegimeThresholds, provider data.Provider) *Classifier {
	return &Classifier{
		thresholds: thresholds,
		provider:   provider,
	}
}

// Assess classifies the current regime. Every applicable trigger is
// collected, not short-circuited, so the summary can enumerate all
// active reasons. Any one trigger makes the regime DEFENSIVE.
func (c *Classifier) Assess(ctx context.Context, snapshot *models.Snapshot) *Assessment {
	triggers := make([]string, 0)

	// Credit stress over 5 days
	hyg := snapshot.Get(models.SymbolHYG)
	if change, ok := indicator.FiveDayReturn(hyg); ok && change <= c.thresholds.HYG5D {
		triggers = append(triggers, fmt.Sprintf("Credit stress: HYG 5D return %.1f%%", change))
	}

	// Sustained dollar strength
	dxy := snapshot.Get(models.SymbolDXY)
	if change, ok := indicator.FiveDayReturn(dxy); ok && change >= c.thresholds.DXY5D {
		triggers = append(triggers, fmt.Sprintf("Liquidity tightening: DXY 5D return +%.1f%%", change))
	}

	// Elevated and rising volatility. When the previous close cannot
	// be obtained the level alone still triggers, with a
	// distinguishable message.
	if vix := snapshot.Get(models.SymbolVIX); vix != nil && vix.CurrentPrice >= c.thresholds.VIXLevel {
		prev, ok := c.previousVIXClose(ctx)
		switch {
		case ok && vix.CurrentPrice > prev:
			triggers = append(triggers, fmt.Sprintf("Elevated and rising volatility: VIX %.1f (prev: %.1f)", vix.CurrentPrice, prev))
		case !ok:
			triggers = append(triggers, fmt.Sprintf("Elevated volatility: VIX %.1f", vix.CurrentPrice))
		}
	}

	// Combined equity + bond selloff
	spy := snapshot.Get(models.SymbolSPY)
	tlt := snapshot.Get(models.SymbolTLT)
	if spy != nil && tlt != nil &&
		spy.IntradayChangePct <= c.thresholds.CombinedEquity && tlt.IntradayChangePct < 0 {
		triggers = append(triggers, fmt.Sprintf("Combined stress: SPY %.1f%% and TLT %.1f%%", spy.IntradayChangePct, tlt.IntradayChangePct))
	}

	// Structural weakness: below trend with rates rising
	if indicator.IsBelowSMA200(spy) {
		if tnx := snapshot.Get(models.SymbolTNX); tnx != nil && tnx.IntradayChangePct > 0 {
			triggers = append(triggers, "Structural weakness: SPY below 200dma with rates rising")
		}
	}

	if len(triggers) > 0 {
		return &Assessment{
			Regime:   RegimeDefensive,
			Triggers: triggers,
			Summary:  fmt.Sprintf("DEFENSIVE regime - %d warning signal(s) active", len(triggers)),
		}
	}
	return &Assessment{
		Regime:   RegimeNormal,
		Triggers: triggers,
		Summary:  "NORMAL regime - no significant stress signals detected",
	}
}

// previousVIXClose fetches the prior trading day's VIX close from a
// short history window.
func (c *Classifier) previousVIXClose(ctx context.Context) (float64, bool) {
	closes, err := c.provider.FetchRecentClose(ctx, models.SymbolVIX, 5)
	if err != nil {
		logger.Warn("Could not fetch VIX history, degrading to level-only check",
			logger.ErrorField(err),
		)
		return 0, false
	}
	if len(closes) < 2 {
		return 0, false
	}
	return closes[len(closes)-2], true
}

// Emoji returns the display marker for a regime.
func Emoji(r Regime) string {
	if r == RegimeNormal {
		return "🟢"
	}
	return "🔴"
}

// ActionGuidance returns the posture guidance line for a regime.
func ActionGuidance(r Regime) string {
	if r == RegimeNormal {
		return "Standard operations - follow normal position sizing rules"
	}
	return "Defensive posture - reduce risk, tighten stops, avoid new longs"
}
