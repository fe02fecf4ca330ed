// Package state persists last-fire timestamps per rule name and
// enforces severity-tiered re-fire cooldowns against them. The store
// fails open: anything unreadable means "never fired", preferring a
// possible duplicate alert over a missed one.
package state

import (
	"time"

	"github.com/mohamedkhairy/market-sentry/internal/models"
)

// schemaVersion tags the persisted cooldown document.
const schemaVersion = 1

// Store is the cooldown state contract. A single writer per run is
// assumed; last-writer-wins across processes.
type Store interface {
	// ShouldFire reports whether a rule may fire: true when it never
	// recorded a fire, or when the elapsed time since the last fire
	// is at least the cooldown window for the severity.
	ShouldFire(ruleName string, severity models.Severity) bool

	// RecordFire stores the current time as the rule's last fire.
	RecordFire(ruleName string)
}

// parseLastFire parses a persisted timestamp. Both RFC3339 and naive
// local timestamps are accepted; ok is false for anything else.
func parseLastFire(value string) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, true
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04:05", value, time.Local); err == nil {
		return t, true
	}
	return time.Time{}, false
}
