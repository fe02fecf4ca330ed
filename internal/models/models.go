package models

import (
	"time"
)

// Severity classifies how urgent an alert is. Severities are ordered:
// critical > high > medium > low.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// Rank returns the delivery sort rank for a severity.
// Lower rank sorts first. Unknown severities rank last.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityHigh:
		return 1
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 3
	default:
		return 99
	}
}

// SymbolMetrics holds the point-in-time metrics bundle for a single
// tracked instrument. Optional fields are nil when not enough history
// exists, so absence can never be mistaken for a real zero value.
// A SymbolMetrics is constructed once per fetch cycle and never mutated.
type SymbolMetrics struct {
	Symbol            string   `json:"symbol"`
	Name              string   `json:"name"`
	CurrentPrice      float64  `json:"current_price"`
	PreviousClose     float64  `json:"previous_close"`
	IntradayChangePct float64  `json:"intraday_change_pct"`
	Change5DPct       *float64 `json:"change_5d_pct,omitempty"`
	High52W           *float64 `json:"high_52w,omitempty"`
	Low52W            *float64 `json:"low_52w,omitempty"`
	SMA200            *float64 `json:"sma_200,omitempty"`
}

// Validate validates a SymbolMetrics
func (m *SymbolMetrics) Validate() error {
	if m.Symbol == "" {
		return ErrInvalidSymbol
	}
	if m.CurrentPrice <= 0 {
		return ErrInvalidPrice
	}
	if m.PreviousClose <= 0 {
		return ErrInvalidPrice
	}
	return nil
}

// Snapshot is an immutable point-in-time view of the whole tracked
// basket, keyed by instrument symbol.
type Snapshot struct {
	Timestamp time.Time                 `json:"timestamp"`
	Symbols   map[string]*SymbolMetrics `json:"symbols"`
}

// Get returns the metrics for a symbol, or nil when the instrument
// was absent from this fetch cycle.
func (s *Snapshot) Get(symbol string) *SymbolMetrics {
	if s == nil {
		return nil
	}
	return s.Symbols[symbol]
}

// Len returns the number of instruments present in the snapshot.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Symbols)
}

// CheckResult is the tagged outcome of a single rule predicate.
// Predicates report their headline value, symbol label, and any extra
// template values here instead of mutating shared state.
type CheckResult struct {
	Triggered bool
	Value     *float64
	Symbol    string
	Extra     map[string]float64
}

// NotTriggered is the zero outcome. Missing instruments or fields
// always map to this, never to an error.
func NotTriggered() CheckResult {
	return CheckResult{}
}

// TriggeredWithValue builds a triggered result carrying a headline
// value and symbol label.
func TriggeredWithValue(value float64, symbol string) CheckResult {
	v := value
	return CheckResult{Triggered: true, Value: &v, Symbol: symbol}
}

// TriggeredWithExtra builds a triggered result carrying extra named
// values for message rendering.
func TriggeredWithExtra(extra map[string]float64) CheckResult {
	return CheckResult{Triggered: true, Extra: extra}
}
