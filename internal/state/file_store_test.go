package state

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohamedkhairy/market-sentry/internal/config"
	"github.com/mohamedkhairy/market-sentry/internal/models"
)

func newTestFileStore(t *testing.T) (*FileStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "state.json")
	return NewFileStore(path, config.DefaultCooldowns()), path
}

func TestFileStore_NeverFired(t *testing.T) {
	s, _ := newTestFileStore(t)
	assert.True(t, s.ShouldFire("CREDIT_STRESS_INTRADAY", models.SeverityCritical))
}

func TestFileStore_RecordSuppressesWithinWindow(t *testing.T) {
	s, _ := newTestFileStore(t)

	s.RecordFire("CREDIT_STRESS_INTRADAY")
	assert.False(t, s.ShouldFire("CREDIT_STRESS_INTRADAY", models.SeverityCritical))

	// Other rules are unaffected
	assert.True(t, s.ShouldFire("VOLATILITY_SPIKE", models.SeverityHigh))
}

func TestFileStore_FiresAgainAfterWindow(t *testing.T) {
	s, _ := newTestFileStore(t)

	base := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return base }
	s.RecordFire("CREDIT_STRESS_INTRADAY")

	// Critical window is 45 minutes
	s.now = func() time.Time { return base.Add(44 * time.Minute) }
	assert.False(t, s.ShouldFire("CREDIT_STRESS_INTRADAY", models.SeverityCritical))

	s.now = func() time.Time { return base.Add(45 * time.Minute) }
	assert.True(t, s.ShouldFire("CREDIT_STRESS_INTRADAY", models.SeverityCritical))
}

func TestFileStore_SeverityTiersWindows(t *testing.T) {
	s, _ := newTestFileStore(t)

	base := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return base }
	s.RecordFire("SOME_RULE")

	s.now = func() time.Time { return base.Add(2 * time.Hour) }
	assert.True(t, s.ShouldFire("SOME_RULE", models.SeverityCritical))
	assert.True(t, s.ShouldFire("SOME_RULE", models.SeverityHigh))
	assert.False(t, s.ShouldFire("SOME_RULE", models.SeverityMedium))
	assert.False(t, s.ShouldFire("SOME_RULE", models.SeverityLow))
}

func TestFileStore_RoundTrip(t *testing.T) {
	s, path := newTestFileStore(t)
	s.RecordFire("CREDIT_STRESS_INTRADAY")

	reloaded := NewFileStore(path, config.DefaultCooldowns())
	assert.False(t, reloaded.ShouldFire("CREDIT_STRESS_INTRADAY", models.SeverityCritical))

	lastFire, ok := reloaded.LastFire("CREDIT_STRESS_INTRADAY")
	require.True(t, ok)
	assert.WithinDuration(t, time.Now(), lastFire, time.Minute)
}

func TestFileStore_CorruptFileFailsOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	s := NewFileStore(path, config.DefaultCooldowns())
	assert.True(t, s.ShouldFire("CREDIT_STRESS_INTRADAY", models.SeverityCritical))
	assert.True(t, s.ShouldFire("VOLATILITY_SPIKE", models.SeverityHigh))
}

func TestFileStore_MalformedTimestampFailsOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	doc := `{"version":1,"last_alerts":{"CREDIT_STRESS_INTRADAY":"not-a-time"}}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	s := NewFileStore(path, config.DefaultCooldowns())
	assert.True(t, s.ShouldFire("CREDIT_STRESS_INTRADAY", models.SeverityCritical))
}

func TestFileStore_AcceptsNaiveLocalTimestamp(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	recent := time.Now().Add(-5 * time.Minute).Format("2006-01-02T15:04:05")
	doc := `{"version":1,"last_alerts":{"CREDIT_STRESS_INTRADAY":"` + recent + `"}}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	s := NewFileStore(path, config.DefaultCooldowns())
	assert.False(t, s.ShouldFire("CREDIT_STRESS_INTRADAY", models.SeverityCritical))
}

func TestFileStore_UnwritablePathStillDecides(t *testing.T) {
	// RecordFire against an unwritable path warns and keeps the
	// in-memory record, so the current run stays consistent.
	path := filepath.Join(t.TempDir(), "missing", "state.json")
	s := NewFileStore(path, config.DefaultCooldowns())

	s.RecordFire("CREDIT_STRESS_INTRADAY")
	assert.False(t, s.ShouldFire("CREDIT_STRESS_INTRADAY", models.SeverityCritical))
}

func TestParseLastFire(t *testing.T) {
	_, ok := parseLastFire("2026-03-02T12:00:00Z")
	assert.True(t, ok)

	_, ok = parseLastFire("2026-03-02T12:00:00")
	assert.True(t, ok)

	_, ok = parseLastFire("yesterday")
	assert.False(t, ok)

	_, ok = parseLastFire("")
	assert.False(t, ok)
}
