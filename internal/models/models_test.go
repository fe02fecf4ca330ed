package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeverityRank(t *testing.T) {
	assert.Equal(t, 0, SeverityCritical.Rank())
	assert.Equal(t, 1, SeverityHigh.Rank())
	assert.Equal(t, 2, SeverityMedium.Rank())
	assert.Equal(t, 3, SeverityLow.Rank())
	assert.Equal(t, 99, Severity("bogus").Rank())
}

func TestSymbolMetricsValidate(t *testing.T) {
	valid := &SymbolMetrics{Symbol: SymbolSPY, CurrentPrice: 440, PreviousClose: 438}
	assert.NoError(t, valid.Validate())

	noSymbol := &SymbolMetrics{CurrentPrice: 440, PreviousClose: 438}
	assert.ErrorIs(t, noSymbol.Validate(), ErrInvalidSymbol)

	badPrice := &SymbolMetrics{Symbol: SymbolSPY, CurrentPrice: 0, PreviousClose: 438}
	assert.ErrorIs(t, badPrice.Validate(), ErrInvalidPrice)

	badClose := &SymbolMetrics{Symbol: SymbolSPY, CurrentPrice: 440, PreviousClose: -1}
	assert.ErrorIs(t, badClose.Validate(), ErrInvalidPrice)
}

func TestSnapshotNilSafety(t *testing.T) {
	var s *Snapshot
	assert.Nil(t, s.Get(SymbolSPY))
	assert.Equal(t, 0, s.Len())

	empty := &Snapshot{}
	assert.Nil(t, empty.Get(SymbolSPY))
	assert.Equal(t, 0, empty.Len())
}

func TestCheckResultConstructors(t *testing.T) {
	assert.False(t, NotTriggered().Triggered)

	r := TriggeredWithValue(-2.5, "HYG")
	assert.True(t, r.Triggered)
	require.NotNil(t, r.Value)
	assert.Equal(t, -2.5, *r.Value)
	assert.Equal(t, "HYG", r.Symbol)

	e := TriggeredWithExtra(map[string]float64{"spy": -3.0, "tlt": -0.5})
	assert.True(t, e.Triggered)
	assert.Nil(t, e.Value)
	assert.Equal(t, -3.0, e.Extra["spy"])
}

func TestTrackedSymbolsComplete(t *testing.T) {
	assert.Len(t, TrackedSymbols, 10)
	for _, symbol := range []string{
		SymbolSPY, SymbolQQQ, SymbolIWM, SymbolTNX, SymbolTLT,
		SymbolHYG, SymbolVIX, SymbolDXY, SymbolGLD, SymbolBTC,
	} {
		assert.Contains(t, TrackedSymbols, symbol)
	}
}
