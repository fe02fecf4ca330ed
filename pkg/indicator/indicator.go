// Package indicator provides pure derived-metric functions over a
// market snapshot. Every function is total over valid inputs: missing
// data yields a false ok flag, never an error or a panic.
package indicator

import (
	"github.com/mohamedkhairy/market-sentry/internal/models"
)

// DrawdownFromHigh calculates the drawdown from the 52-week high as a
// percentage. The result is <= 0 whenever the current price is at or
// below the high. Returns ok=false when the high is absent or zero.
func DrawdownFromHigh(m *models.SymbolMetrics) (float64, bool) {
	if m == nil || m.High52W == nil || *m.High52W == 0 {
		return 0, false
	}
	return ((m.CurrentPrice - *m.High52W) / *m.High52W) * 100, true
}

// FiveDayReturn returns the 5-day return percentage.
func FiveDayReturn(m *models.SymbolMetrics) (float64, bool) {
	if m == nil || m.Change5DPct == nil {
		return 0, false
	}
	return *m.Change5DPct, true
}

// IsBelowSMA200 reports whether the price is below the 200-session
// moving average. An absent average returns false, so absence only
// ever suppresses a rule, never triggers one.
func IsBelowSMA200(m *models.SymbolMetrics) bool {
	if m == nil || m.SMA200 == nil {
		return false
	}
	return m.CurrentPrice < *m.SMA200
}

// RelativePerformance returns the intraday performance of a relative
// to b in percentage points. Both instruments must be present.
func RelativePerformance(a, b *models.SymbolMetrics) (float64, bool) {
	if a == nil || b == nil {
		return 0, false
	}
	return a.IntradayChangePct - b.IntradayChangePct, true
}

// YieldChangeBps returns the 10Y yield daily change in basis points.
// TNX is quoted in percentage points; the x10 scaling is an
// approximate conversion kept for continuity with existing consumers.
func YieldChangeBps(snapshot *models.Snapshot) (float64, bool) {
	tnx := snapshot.Get(models.SymbolTNX)
	if tnx == nil {
		return 0, false
	}
	return tnx.IntradayChangePct * 10, true
}

// SpreadIndicator returns the credit spread indicator based on HYG vs
// TLT relative performance. Negative means spreads widening (risk-off).
func SpreadIndicator(snapshot *models.Snapshot) (float64, bool) {
	hyg := snapshot.Get(models.SymbolHYG)
	tlt := snapshot.Get(models.SymbolTLT)
	if hyg == nil || tlt == nil {
		return 0, false
	}
	return hyg.IntradayChangePct - tlt.IntradayChangePct, true
}

// RiskAppetite calculates risk appetite indicators from whatever parts
// of the basket are present.
func RiskAppetite(snapshot *models.Snapshot) map[string]float64 {
	metrics := make(map[string]float64)

	qqq := snapshot.Get(models.SymbolQQQ)
	spy := snapshot.Get(models.SymbolSPY)
	if qqq != nil && spy != nil {
		metrics["growth_vs_broad"] = qqq.IntradayChangePct - spy.IntradayChangePct
	}

	iwm := snapshot.Get(models.SymbolIWM)
	if iwm != nil && spy != nil {
		metrics["smallcap_vs_large"] = iwm.IntradayChangePct - spy.IntradayChangePct
	}

	if gld := snapshot.Get(models.SymbolGLD); gld != nil {
		metrics["gold_bid"] = gld.IntradayChangePct
	}

	if dxy := snapshot.Get(models.SymbolDXY); dxy != nil {
		metrics["dollar_strength"] = dxy.IntradayChangePct
	}

	return metrics
}
