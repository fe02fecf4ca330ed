package rules

import (
	"math"

	"github.com/mohamedkhairy/market-sentry/internal/config"
	"github.com/mohamedkhairy/market-sentry/internal/models"
	"github.com/mohamedkhairy/market-sentry/pkg/indicator"
)

func checkCreditStressIntraday(snapshot *models.Snapshot, th *config.Thresholds) models.CheckResult {
	hyg := snapshot.Get(models.SymbolHYG)
	if hyg == nil {
		return models.NotTriggered()
	}
	if hyg.IntradayChangePct <= th.CreditStressIntraday {
		return models.TriggeredWithValue(hyg.IntradayChangePct, "HYG")
	}
	return models.NotTriggered()
}

func checkCreditStress5D(snapshot *models.Snapshot, th *config.Thresholds) models.CheckResult {
	hyg := snapshot.Get(models.SymbolHYG)
	change, ok := indicator.FiveDayReturn(hyg)
	if !ok {
		return models.NotTriggered()
	}
	if change <= th.CreditStress5D {
		return models.TriggeredWithValue(change, "HYG")
	}
	return models.NotTriggered()
}

func checkLiquidityStressIntraday(snapshot *models.Snapshot, th *config.Thresholds) models.CheckResult {
	dxy := snapshot.Get(models.SymbolDXY)
	if dxy == nil {
		return models.NotTriggered()
	}
	if dxy.IntradayChangePct >= th.LiquidityStressIntraday {
		return models.TriggeredWithValue(dxy.IntradayChangePct, "DXY")
	}
	return models.NotTriggered()
}

func checkLiquidityStress5D(snapshot *models.Snapshot, th *config.Thresholds) models.CheckResult {
	dxy := snapshot.Get(models.SymbolDXY)
	change, ok := indicator.FiveDayReturn(dxy)
	if !ok {
		return models.NotTriggered()
	}
	if change >= th.LiquidityStress5D {
		return models.TriggeredWithValue(change, "DXY")
	}
	return models.NotTriggered()
}

func checkVolatilityElevated(snapshot *models.Snapshot, th *config.Thresholds) models.CheckResult {
	vix := snapshot.Get(models.SymbolVIX)
	if vix == nil {
		return models.NotTriggered()
	}
	if vix.CurrentPrice >= th.VolatilityLevel {
		return models.TriggeredWithValue(vix.CurrentPrice, "VIX")
	}
	return models.NotTriggered()
}

func checkVolatilitySpike(snapshot *models.Snapshot, th *config.Thresholds) models.CheckResult {
	vix := snapshot.Get(models.SymbolVIX)
	if vix == nil {
		return models.NotTriggered()
	}
	if vix.IntradayChangePct >= th.VolatilitySpike {
		return models.TriggeredWithValue(vix.IntradayChangePct, "VIX")
	}
	return models.NotTriggered()
}

func checkGrowthWeakness(snapshot *models.Snapshot, th *config.Thresholds) models.CheckResult {
	qqq := snapshot.Get(models.SymbolQQQ)
	spy := snapshot.Get(models.SymbolSPY)
	relative, ok := indicator.RelativePerformance(qqq, spy)
	if !ok {
		return models.NotTriggered()
	}
	if relative <= th.GrowthWeakness {
		result := models.TriggeredWithValue(relative, "")
		result.Extra = map[string]float64{
			"qqq": qqq.IntradayChangePct,
			"spy": spy.IntradayChangePct,
		}
		return result
	}
	return models.NotTriggered()
}

func checkSmallcapWeakness(snapshot *models.Snapshot, th *config.Thresholds) models.CheckResult {
	iwm := snapshot.Get(models.SymbolIWM)
	spy := snapshot.Get(models.SymbolSPY)
	relative, ok := indicator.RelativePerformance(iwm, spy)
	if !ok {
		return models.NotTriggered()
	}
	if relative <= th.SmallcapWeakness {
		result := models.TriggeredWithValue(relative, "")
		result.Extra = map[string]float64{
			"iwm": iwm.IntradayChangePct,
			"spy": spy.IntradayChangePct,
		}
		return result
	}
	return models.NotTriggered()
}

func checkDefensiveHedgeBid(snapshot *models.Snapshot, th *config.Thresholds) models.CheckResult {
	gld := snapshot.Get(models.SymbolGLD)
	tlt := snapshot.Get(models.SymbolTLT)
	if gld == nil || tlt == nil {
		return models.NotTriggered()
	}
	if gld.IntradayChangePct >= th.DefensiveHedgeBid && tlt.IntradayChangePct >= th.DefensiveHedgeBid {
		return models.TriggeredWithExtra(map[string]float64{
			"gld": gld.IntradayChangePct,
			"tlt": tlt.IntradayChangePct,
		})
	}
	return models.NotTriggered()
}

func checkCombinedStress(snapshot *models.Snapshot, th *config.Thresholds) models.CheckResult {
	spy := snapshot.Get(models.SymbolSPY)
	tlt := snapshot.Get(models.SymbolTLT)
	if spy == nil || tlt == nil {
		return models.NotTriggered()
	}
	if spy.IntradayChangePct <= th.CombinedStressEquity && tlt.IntradayChangePct < 0 {
		return models.TriggeredWithExtra(map[string]float64{
			"spy": spy.IntradayChangePct,
			"tlt": tlt.IntradayChangePct,
		})
	}
	return models.NotTriggered()
}

func checkRiskAppetitePositive(snapshot *models.Snapshot, th *config.Thresholds) models.CheckResult {
	spy := snapshot.Get(models.SymbolSPY)
	qqq := snapshot.Get(models.SymbolQQQ)
	if spy == nil || qqq == nil {
		return models.NotTriggered()
	}
	if spy.IntradayChangePct >= th.RiskAppetiteEquity && qqq.IntradayChangePct >= spy.IntradayChangePct {
		return models.TriggeredWithExtra(map[string]float64{
			"spy": spy.IntradayChangePct,
			"qqq": qqq.IntradayChangePct,
		})
	}
	return models.NotTriggered()
}

func checkBTCMajorMove(snapshot *models.Snapshot, th *config.Thresholds) models.CheckResult {
	btc := snapshot.Get(models.SymbolBTC)
	if btc == nil {
		return models.NotTriggered()
	}
	if math.Abs(btc.IntradayChangePct) >= th.BTCMajorMove {
		return models.TriggeredWithValue(btc.IntradayChangePct, "BTC")
	}
	return models.NotTriggered()
}

// checkSPYDrawdown triggers whenever the actual drawdown is at or
// beyond the rule's own level.
func checkSPYDrawdown(snapshot *models.Snapshot, level float64) models.CheckResult {
	spy := snapshot.Get(models.SymbolSPY)
	drawdown, ok := indicator.DrawdownFromHigh(spy)
	if !ok {
		return models.NotTriggered()
	}
	if drawdown <= level {
		return models.TriggeredWithValue(drawdown, "SPY")
	}
	return models.NotTriggered()
}
