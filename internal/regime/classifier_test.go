package regime

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohamedkhairy/market-sentry/internal/config"
	"github.com/mohamedkhairy/market-sentry/internal/data"
	"github.com/mohamedkhairy/market-sentry/internal/models"
)

func fptr(v float64) *float64 {
	return &v
}

func newSnapshot(symbols map[string]*models.SymbolMetrics) *models.Snapshot {
	return &models.Snapshot{
		Timestamp: time.Now(),
		Symbols:   symbols,
	}
}

func newTestClassifier(provider data.Provider) *Classifier {
	return NewClassifier(config.DefaultRegime(), provider)
}

func TestAssess_Normal(t *testing.T) {
	c := newTestClassifier(&data.MockProvider{})
	snapshot := newSnapshot(map[string]*models.SymbolMetrics{
		models.SymbolSPY: {Symbol: models.SymbolSPY, CurrentPrice: 450, IntradayChangePct: 0.3},
		models.SymbolVIX: {Symbol: models.SymbolVIX, CurrentPrice: 14, IntradayChangePct: -1.0},
	})

	a := c.Assess(context.Background(), snapshot)

	assert.Equal(t, RegimeNormal, a.Regime)
	assert.Empty(t, a.Triggers)
	assert.Equal(t, "NORMAL regime - no significant stress signals detected", a.Summary)
}

func TestAssess_CreditStressOnly(t *testing.T) {
	c := newTestClassifier(&data.MockProvider{})
	snapshot := newSnapshot(map[string]*models.SymbolMetrics{
		models.SymbolHYG: {
			Symbol:            models.SymbolHYG,
			CurrentPrice:      74,
			IntradayChangePct: -2.0,
			Change5DPct:       fptr(-3.5),
		},
	})

	a := c.Assess(context.Background(), snapshot)

	assert.Equal(t, RegimeDefensive, a.Regime)
	require.Len(t, a.Triggers, 1)
	assert.Contains(t, a.Triggers[0], "Credit stress")
	assert.Equal(t, "Credit stress: HYG 5D return -3.5%", a.Triggers[0])
	assert.Equal(t, "DEFENSIVE regime - 1 warning signal(s) active", a.Summary)
}

func TestAssess_IntradayStressAloneIsNotDefensive(t *testing.T) {
	// The classifier looks at 5-day credit history; a sharp intraday
	// move without sustained weakness stays NORMAL.
	c := newTestClassifier(&data.MockProvider{})
	snapshot := newSnapshot(map[string]*models.SymbolMetrics{
		models.SymbolHYG: {Symbol: models.SymbolHYG, IntradayChangePct: -2.0},
	})

	a := c.Assess(context.Background(), snapshot)
	assert.Equal(t, RegimeNormal, a.Regime)
}

func TestAssess_LiquidityTightening(t *testing.T) {
	c := newTestClassifier(&data.MockProvider{})
	snapshot := newSnapshot(map[string]*models.SymbolMetrics{
		models.SymbolDXY: {Symbol: models.SymbolDXY, Change5DPct: fptr(2.4)},
	})

	a := c.Assess(context.Background(), snapshot)

	assert.Equal(t, RegimeDefensive, a.Regime)
	require.Len(t, a.Triggers, 1)
	assert.Equal(t, "Liquidity tightening: DXY 5D return +2.4%", a.Triggers[0])
}

func TestAssess_VolatilityRising(t *testing.T) {
	provider := &data.MockProvider{
		RecentCloses: map[string][]float64{
			models.SymbolVIX: {25, 28, 30, 32},
		},
	}
	c := newTestClassifier(provider)
	snapshot := newSnapshot(map[string]*models.SymbolMetrics{
		models.SymbolVIX: {Symbol: models.SymbolVIX, CurrentPrice: 32, IntradayChangePct: 4.0},
	})

	a := c.Assess(context.Background(), snapshot)

	assert.Equal(t, RegimeDefensive, a.Regime)
	require.Len(t, a.Triggers, 1)
	assert.Equal(t, "Elevated and rising volatility: VIX 32.0 (prev: 30.0)", a.Triggers[0])
}

func TestAssess_VolatilityElevatedButFalling(t *testing.T) {
	provider := &data.MockProvider{
		RecentCloses: map[string][]float64{
			models.SymbolVIX: {30, 36, 33, 31},
		},
	}
	c := newTestClassifier(provider)
	snapshot := newSnapshot(map[string]*models.SymbolMetrics{
		models.SymbolVIX: {Symbol: models.SymbolVIX, CurrentPrice: 31, IntradayChangePct: -6.0},
	})

	a := c.Assess(context.Background(), snapshot)
	assert.Equal(t, RegimeNormal, a.Regime)
}

func TestAssess_VolatilityHistoryUnavailableDegrades(t *testing.T) {
	provider := &data.MockProvider{RecentErr: errors.New("timeout")}
	c := newTestClassifier(provider)
	snapshot := newSnapshot(map[string]*models.SymbolMetrics{
		models.SymbolVIX: {Symbol: models.SymbolVIX, CurrentPrice: 33, IntradayChangePct: 5.0},
	})

	a := c.Assess(context.Background(), snapshot)

	assert.Equal(t, RegimeDefensive, a.Regime)
	require.Len(t, a.Triggers, 1)
	assert.Equal(t, "Elevated volatility: VIX 33.0", a.Triggers[0])
}

func TestAssess_CombinedStress(t *testing.T) {
	c := newTestClassifier(&data.MockProvider{})
	snapshot := newSnapshot(map[string]*models.SymbolMetrics{
		models.SymbolSPY: {Symbol: models.SymbolSPY, IntradayChangePct: -2.8},
		models.SymbolTLT: {Symbol: models.SymbolTLT, IntradayChangePct: -0.6},
	})

	a := c.Assess(context.Background(), snapshot)

	assert.Equal(t, RegimeDefensive, a.Regime)
	require.Len(t, a.Triggers, 1)
	assert.Equal(t, "Combined stress: SPY -2.8% and TLT -0.6%", a.Triggers[0])
}

func TestAssess_StructuralWeakness(t *testing.T) {
	c := newTestClassifier(&data.MockProvider{})
	snapshot := newSnapshot(map[string]*models.SymbolMetrics{
		models.SymbolSPY: {
			Symbol:            models.SymbolSPY,
			CurrentPrice:      390,
			IntradayChangePct: -0.4,
			SMA200:            fptr(410),
		},
		models.SymbolTNX: {Symbol: models.SymbolTNX, CurrentPrice: 4.5, IntradayChangePct: 1.2},
	})

	a := c.Assess(context.Background(), snapshot)

	assert.Equal(t, RegimeDefensive, a.Regime)
	require.Len(t, a.Triggers, 1)
	assert.Equal(t, "Structural weakness: SPY below 200dma with rates rising", a.Triggers[0])
}

func TestAssess_AllTriggersCollected(t *testing.T) {
	provider := &data.MockProvider{
		RecentCloses: map[string][]float64{
			models.SymbolVIX: {28, 30, 34},
		},
	}
	c := newTestClassifier(provider)
	snapshot := newSnapshot(map[string]*models.SymbolMetrics{
		models.SymbolHYG: {Symbol: models.SymbolHYG, IntradayChangePct: -2.0, Change5DPct: fptr(-4.0)},
		models.SymbolDXY: {Symbol: models.SymbolDXY, IntradayChangePct: 0.8, Change5DPct: fptr(2.5)},
		models.SymbolVIX: {Symbol: models.SymbolVIX, CurrentPrice: 34, IntradayChangePct: 10.0},
		models.SymbolSPY: {
			Symbol:            models.SymbolSPY,
			CurrentPrice:      380,
			IntradayChangePct: -3.0,
			SMA200:            fptr(410),
		},
		models.SymbolTLT: {Symbol: models.SymbolTLT, IntradayChangePct: -1.0},
		models.SymbolTNX: {Symbol: models.SymbolTNX, CurrentPrice: 4.6, IntradayChangePct: 2.0},
	})

	a := c.Assess(context.Background(), snapshot)

	assert.Equal(t, RegimeDefensive, a.Regime)
	assert.Len(t, a.Triggers, 5)
	assert.Equal(t, "DEFENSIVE regime - 5 warning signal(s) active", a.Summary)
}

func TestEmojiAndActionGuidance(t *testing.T) {
	assert.Equal(t, "🟢", Emoji(RegimeNormal))
	assert.Equal(t, "🔴", Emoji(RegimeDefensive))
	assert.Contains(t, ActionGuidance(RegimeNormal), "Standard operations")
	assert.Contains(t, ActionGuidance(RegimeDefensive), "Defensive posture")
}
