package data

import (
	"context"

	"github.com/mohamedkhairy/market-sentry/internal/models"
)

// MockProvider is a canned-data implementation of Provider for testing.
type MockProvider struct {
	Snapshot     *models.Snapshot
	RecentCloses map[string][]float64
	SnapshotErr  error
	RecentErr    error
}

func (m *MockProvider) FetchSnapshot(ctx context.Context) (*models.Snapshot, error) {
	if m.SnapshotErr != nil {
		return nil, m.SnapshotErr
	}
	return m.Snapshot, nil
}

func (m *MockProvider) FetchRecentClose(ctx context.Context, symbol string, lookbackDays int) ([]float64, error) {
	if m.RecentErr != nil {
		return nil, m.RecentErr
	}
	closes, ok := m.RecentCloses[symbol]
	if !ok {
		return nil, ErrSymbolNotFound
	}
	return closes, nil
}
