// Package rules holds the declarative alert rule registry and its
// evaluator. Rules are data: a stable name (the join key to cooldown
// state), a severity, a condition predicate, and a message template.
package rules

import (
	"math"
	"strconv"

	"github.com/mohamedkhairy/market-sentry/internal/config"
	"github.com/mohamedkhairy/market-sentry/internal/models"
)

// CheckFunc is a rule condition predicate. It must treat missing
// instruments or fields as "not triggered", never as an error.
type CheckFunc func(snapshot *models.Snapshot, th *config.Thresholds) models.CheckResult

// Rule is a static alert rule definition. Names are globally unique
// and stable across releases; renaming a rule resets its cooldown
// history.
type Rule struct {
	Name            string
	Severity        models.Severity
	Category        string
	Description     string
	Check           CheckFunc
	MessageTemplate string
}

// TriggeredRule is the ephemeral result of one evaluation pass.
type TriggeredRule struct {
	Rule   *Rule
	Value  *float64
	Symbol string
	Extra  map[string]float64
}

// Registry holds the process-lifetime rule set, bound to an explicit
// threshold configuration at construction time.
type Registry struct {
	thresholds config.Thresholds
	rules      []*Rule
}

// NewRegistry builds the full rule set from the given thresholds.
// Registration order is the evaluation order.
func NewRegistry(thresholds config.Thresholds) *Registry {
	r := &Registry{thresholds: thresholds}

	r.rules = []*Rule{
		// Critical stress rules
		{
			Name:            "CREDIT_STRESS_INTRADAY",
			Severity:        models.SeverityCritical,
			Category:        "Stress",
			Description:     "High yield bonds dropping sharply intraday",
			Check:           checkCreditStressIntraday,
			MessageTemplate: "Credit Stress: HYG {value}% intraday - credit spreads widening",
		},
		{
			Name:            "COMBINED_STRESS",
			Severity:        models.SeverityCritical,
			Category:        "Stress",
			Description:     "Both equities and bonds selling off together",
			Check:           checkCombinedStress,
			MessageTemplate: "Combined Stress: SPY {spy}% and TLT {tlt}% - nowhere to hide",
		},

		// High severity rules
		{
			Name:            "CREDIT_STRESS_5D",
			Severity:        models.SeverityHigh,
			Category:        "Stress",
			Description:     "Sustained high yield weakness over 5 days",
			Check:           checkCreditStress5D,
			MessageTemplate: "Credit Stress (5D): HYG {value}% over 5 days - sustained spread widening",
		},
		{
			Name:            "LIQUIDITY_STRESS_INTRADAY",
			Severity:        models.SeverityHigh,
			Category:        "Stress",
			Description:     "Dollar spiking sharply (liquidity tightening)",
			Check:           checkLiquidityStressIntraday,
			MessageTemplate: "Liquidity Stress: DXY +{value}% intraday - dollar squeeze",
		},
		{
			Name:            "LIQUIDITY_STRESS_5D",
			Severity:        models.SeverityHigh,
			Category:        "Stress",
			Description:     "Sustained dollar strength over 5 days",
			Check:           checkLiquidityStress5D,
			MessageTemplate: "Liquidity Stress (5D): DXY +{value}% over 5 days - sustained tightening",
		},
		{
			Name:            "VOLATILITY_ELEVATED",
			Severity:        models.SeverityHigh,
			Category:        "Stress",
			Description:     "VIX at elevated fear levels",
			Check:           checkVolatilityElevated,
			MessageTemplate: "Volatility Elevated: VIX at {value} - fear gauge elevated",
		},
		{
			Name:            "VOLATILITY_SPIKE",
			Severity:        models.SeverityHigh,
			Category:        "Stress",
			Description:     "VIX spiking sharply intraday",
			Check:           checkVolatilitySpike,
			MessageTemplate: "Volatility Spike: VIX +{value}% intraday - sudden fear",
		},

		// Medium severity - Opportunity/Leadership
		{
			Name:            "GROWTH_WEAKNESS",
			Severity:        models.SeverityMedium,
			Category:        "Leadership",
			Description:     "Growth/tech underperforming broad market",
			Check:           checkGrowthWeakness,
			MessageTemplate: "Growth Weakness: QQQ underperforming SPY by {value}%",
		},
		{
			Name:            "SMALLCAP_WEAKNESS",
			Severity:        models.SeverityMedium,
			Category:        "Leadership",
			Description:     "Small caps underperforming (risk-off signal)",
			Check:           checkSmallcapWeakness,
			MessageTemplate: "Small Cap Weakness: IWM underperforming SPY by {value}%",
		},
		{
			Name:            "DEFENSIVE_HEDGE_BID",
			Severity:        models.SeverityMedium,
			Category:        "Sentiment",
			Description:     "Flight to safety into gold and treasuries",
			Check:           checkDefensiveHedgeBid,
			MessageTemplate: "Defensive Bid: GLD +{gld}% and TLT +{tlt}% - flight to safety",
		},

		// Low severity - Informational
		{
			Name:            "RISK_APPETITE_POSITIVE",
			Severity:        models.SeverityLow,
			Category:        "Sentiment",
			Description:     "Positive risk appetite with growth leading",
			Check:           checkRiskAppetitePositive,
			MessageTemplate: "Risk-On: SPY +{spy}% with QQQ +{qqq}% - growth leading",
		},
		{
			Name:            "BTC_MAJOR_MOVE",
			Severity:        models.SeverityLow,
			Category:        "Sentiment",
			Description:     "Major Bitcoin move (risk sentiment proxy)",
			Check:           checkBTCMajorMove,
			MessageTemplate: "Crypto Signal: BTC {value:+}% - major move in risk sentiment proxy",
		},
	}

	// SPY drawdown family: one rule record per configured level.
	// Bands are non-exclusive; every level at or above the actual
	// drawdown triggers independently.
	for _, level := range thresholds.SPYDrawdownLevels {
		level := level
		absLevel := math.Abs(level)
		severity := models.SeverityMedium
		if absLevel > 6 {
			severity = models.SeverityHigh
		}
		levelLabel := strconv.FormatFloat(absLevel, 'f', -1, 64)

		r.rules = append(r.rules, &Rule{
			Name:        "SPY_DRAWDOWN_" + levelLabel + "PCT",
			Severity:    severity,
			Category:    "Opportunity",
			Description: "SPY drawdown at " + levelLabel + "% from 52-week high",
			Check: func(snapshot *models.Snapshot, th *config.Thresholds) models.CheckResult {
				return checkSPYDrawdown(snapshot, level)
			},
			MessageTemplate: "Drawdown Alert: SPY {value}% from high - " + levelLabel + "% threshold",
		})
	}

	return r
}

// Rules returns the registered rules in registration order.
func (r *Registry) Rules() []*Rule {
	return r.rules
}

// GetByName returns a rule by its name, or nil if unknown.
func (r *Registry) GetByName(name string) *Rule {
	for _, rule := range r.rules {
		if rule.Name == name {
			return rule
		}
	}
	return nil
}
