// Package render composes Telegram messages: single alerts, combined
// alert batches, and the daily market report. Formatting only; no
// evaluation logic lives here.
package render

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/mohamedkhairy/market-sentry/internal/models"
	"github.com/mohamedkhairy/market-sentry/internal/regime"
	"github.com/mohamedkhairy/market-sentry/internal/rules"
	"github.com/mohamedkhairy/market-sentry/pkg/indicator"
)

// placeholderPattern matches {name} and {name:+} template slots.
var placeholderPattern = regexp.MustCompile(`\{(\w+)(:\+)?\}`)

// SeverityEmoji returns the marker for a severity level.
func SeverityEmoji(severity models.Severity) string {
	switch severity {
	case models.SeverityCritical:
		return "🚨"
	case models.SeverityHigh:
		return "⚠️"
	case models.SeverityMedium:
		return "📊"
	case models.SeverityLow:
		return "ℹ️"
	default:
		return "📌"
	}
}

// templateArgs collects the named values available to a triggered
// rule's message template.
func templateArgs(tr *rules.TriggeredRule) map[string]float64 {
	args := make(map[string]float64, len(tr.Extra)+1)
	if tr.Value != nil {
		args["value"] = *tr.Value
	}
	for k, v := range tr.Extra {
		args[k] = v
	}
	return args
}

// renderTemplate substitutes the named placeholders of a message
// template. {name} renders to one decimal, {name:+} always carries a
// sign. ok is false when any placeholder had no value.
func renderTemplate(template string, args map[string]float64) (string, bool) {
	ok := true
	rendered := placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		groups := placeholderPattern.FindStringSubmatch(match)
		value, exists := args[groups[1]]
		if !exists {
			ok = false
			return match
		}
		if groups[2] == ":+" {
			return fmt.Sprintf("%+.1f", value)
		}
		return fmt.Sprintf("%.1f", value)
	})
	return rendered, ok
}

// Alert renders a single alert message. An unresolvable template falls
// back to the raw template text.
func Alert(tr *rules.TriggeredRule, now time.Time) string {
	rule := tr.Rule

	body, ok := renderTemplate(rule.MessageTemplate, templateArgs(tr))
	if !ok {
		body = rule.MessageTemplate
	}

	lines := []string{
		fmt.Sprintf("%s *%s* - %s", SeverityEmoji(rule.Severity), strings.ToUpper(string(rule.Severity)), rule.Category),
		"",
		body,
		"",
		fmt.Sprintf("_%s ET_", now.Format("15:04:05")),
	}

	return strings.Join(lines, "\n")
}

// MultiAlert renders several alerts in a single combined message.
// Unresolvable templates fall back to the rule description.
func MultiAlert(triggered []*rules.TriggeredRule, now time.Time) string {
	if len(triggered) == 1 {
		return Alert(triggered[0], now)
	}

	lines := []string{
		fmt.Sprintf("*🔔 %d Alerts Triggered*", len(triggered)),
		fmt.Sprintf("_%s ET_", now.Format("15:04:05")),
		"",
	}

	for _, tr := range triggered {
		body, ok := renderTemplate(tr.Rule.MessageTemplate, templateArgs(tr))
		if !ok {
			body = tr.Rule.Description
		}
		lines = append(lines, fmt.Sprintf("%s *%s*: %s", SeverityEmoji(tr.Rule.Severity), strings.ToUpper(string(tr.Rule.Severity)), body))
	}

	return strings.Join(lines, "\n")
}

// DailyReport renders the full daily market report.
func DailyReport(snapshot *models.Snapshot, assessment *regime.Assessment, triggered []*rules.TriggeredRule, rateShockBps float64) string {
	var lines []string

	lines = append(lines,
		"*📊 Daily Market Report*",
		fmt.Sprintf("_%s ET_", snapshot.Timestamp.Format("2006-01-02 15:04")),
		"",
		"*TL;DR*",
		tldr(snapshot, assessment, triggered),
		"",
	)

	// Regime block
	lines = append(lines, fmt.Sprintf("*Regime: %s %s*", regime.Emoji(assessment.Regime), assessment.Regime))
	for i, trigger := range assessment.Triggers {
		if i >= 3 {
			break
		}
		lines = append(lines, fmt.Sprintf("  • %s", trigger))
	}
	lines = append(lines, fmt.Sprintf("_%s_", regime.ActionGuidance(assessment.Regime)), "")

	// Snapshot table
	lines = append(lines, "*Market Snapshot*", "```")

	lines = append(lines, "Equities:")
	for _, sym := range []string{models.SymbolSPY, models.SymbolQQQ, models.SymbolIWM} {
		if m := snapshot.Get(sym); m != nil {
			lines = append(lines, snapshotRow(sym, sym, m, true))
		}
	}

	lines = append(lines, "Rates & Bonds:")
	for _, row := range []struct{ sym, label string }{
		{models.SymbolTNX, "10Y"},
		{models.SymbolTLT, "TLT"},
		{models.SymbolHYG, "HYG"},
	} {
		if m := snapshot.Get(row.sym); m != nil {
			lines = append(lines, snapshotRow(row.sym, row.label, m, true))
		}
	}

	lines = append(lines, "Risk Indicators:")
	for _, row := range []struct{ sym, label string }{
		{models.SymbolVIX, "VIX"},
		{models.SymbolDXY, "DXY"},
	} {
		if m := snapshot.Get(row.sym); m != nil {
			lines = append(lines, snapshotRow(row.sym, row.label, m, false))
		}
	}

	lines = append(lines, "Alternatives:")
	for _, row := range []struct{ sym, label string }{
		{models.SymbolGLD, "GLD"},
		{models.SymbolBTC, "BTC"},
	} {
		if m := snapshot.Get(row.sym); m != nil {
			lines = append(lines, snapshotRow(row.sym, row.label, m, true))
		}
	}

	lines = append(lines, "```", "")

	// SPY drawdown status
	if drawdown, ok := indicator.DrawdownFromHigh(snapshot.Get(models.SymbolSPY)); ok {
		lines = append(lines, fmt.Sprintf("*SPY Drawdown:* %.1f%% from 52w high", drawdown), "")
	}

	// 10Y yield move
	if bps, ok := indicator.YieldChangeBps(snapshot); ok {
		row := fmt.Sprintf("*10Y Yield Move:* %+.1f bps", bps)
		if bps >= rateShockBps || bps <= -rateShockBps {
			row += " - rate shock"
		}
		lines = append(lines, row, "")
	}

	// Triggered signals grouped by severity
	if len(triggered) > 0 {
		lines = append(lines, "*Signals Triggered*")
		for _, severity := range []models.Severity{
			models.SeverityCritical,
			models.SeverityHigh,
			models.SeverityMedium,
			models.SeverityLow,
		} {
			for _, tr := range triggered {
				if tr.Rule.Severity == severity {
					lines = append(lines, fmt.Sprintf("  %s %s", SeverityEmoji(severity), tr.Rule.Name))
				}
			}
		}
	} else {
		lines = append(lines, "_No alert signals triggered_")
	}

	return strings.Join(lines, "\n")
}

// snapshotRow renders one table row with symbol-aware price formatting.
func snapshotRow(sym, label string, m *models.SymbolMetrics, withFiveDay bool) string {
	oneDay := indicator.FormatPct(m.IntradayChangePct, 2)
	if !withFiveDay {
		return fmt.Sprintf("  %-6s %10s  1D:%7s", label, indicator.FormatPrice(m.CurrentPrice, sym), oneDay)
	}
	fiveDay := indicator.FormatPctOpt(m.Change5DPct, 2)
	return fmt.Sprintf("  %-6s %10s  1D:%7s  5D:%7s", label, indicator.FormatPrice(m.CurrentPrice, sym), oneDay, fiveDay)
}

// tldr builds the one-to-two sentence market summary.
func tldr(snapshot *models.Snapshot, assessment *regime.Assessment, triggered []*rules.TriggeredRule) string {
	spy := snapshot.Get(models.SymbolSPY)
	vix := snapshot.Get(models.SymbolVIX)

	var parts []string

	if spy != nil {
		switch {
		case spy.IntradayChangePct >= 1.0:
			parts = append(parts, "Strong risk-on day")
		case spy.IntradayChangePct >= 0.3:
			parts = append(parts, "Modest gains")
		case spy.IntradayChangePct >= -0.3:
			parts = append(parts, "Flat session")
		case spy.IntradayChangePct >= -1.0:
			parts = append(parts, "Modest weakness")
		default:
			parts = append(parts, "Significant selling")
		}
	}

	if vix != nil {
		if vix.CurrentPrice >= 30 {
			parts = append(parts, "elevated fear")
		} else if vix.CurrentPrice <= 15 {
			parts = append(parts, "low volatility")
		}
	}

	if assessment.Regime == regime.RegimeDefensive {
		criticalCount := 0
		for _, tr := range triggered {
			if tr.Rule.Severity == models.SeverityCritical {
				criticalCount++
			}
		}
		if criticalCount > 0 {
			parts = append(parts, fmt.Sprintf("%d critical signal(s)", criticalCount))
		} else {
			parts = append(parts, "defensive posture warranted")
		}
	}

	switch {
	case len(parts) >= 2:
		return fmt.Sprintf("%s with %s.", parts[0], strings.Join(parts[1:], ", "))
	case len(parts) == 1:
		return parts[0] + "."
	default:
		return "Market conditions normal."
	}
}
