package data

import (
	"context"
	"errors"

	"github.com/mohamedkhairy/market-sentry/internal/models"
)

var (
	// ErrNoData is returned when a provider has no candles for a symbol
	ErrNoData = errors.New("no data for symbol")
	// ErrSymbolNotFound is returned by the mock provider for unknown symbols
	ErrSymbolNotFound = errors.New("symbol not found")
)

// Provider defines the interface for market data providers.
type Provider interface {
	// FetchSnapshot fetches the point-in-time snapshot for the whole
	// tracked basket. Failure for one instrument must not fail the
	// snapshot; the instrument is simply absent.
	FetchSnapshot(ctx context.Context) (*models.Snapshot, error)

	// FetchRecentClose returns the most recent daily closes for a
	// symbol, oldest first, over a short lookback window.
	FetchRecentClose(ctx context.Context, symbol string, lookbackDays int) ([]float64, error)
}
