package data

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/mohamedkhairy/market-sentry/internal/models"
	"github.com/mohamedkhairy/market-sentry/pkg/logger"
)

const defaultChartBaseURL = "https://query1.finance.yahoo.com/v8/finance/chart"

// YahooProvider fetches daily candles from the Yahoo Finance chart API.
type YahooProvider struct {
	baseURL string
	client  *http.Client
}

// NewYahooProvider creates a provider with the given request timeout.
func NewYahooProvider(timeout time.Duration) *YahooProvider {
	return &YahooProvider{
		baseURL: defaultChartBaseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// NewYahooProviderWithBaseURL creates a provider against a custom
// endpoint. Used by tests.
func NewYahooProviderWithBaseURL(baseURL string, timeout time.Duration) *YahooProvider {
	return &YahooProvider{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// FetchSnapshot fetches a year of daily history for every tracked
// symbol and derives its metrics bundle. A failed symbol is logged and
// left out of the snapshot.
func (p *YahooProvider) FetchSnapshot(ctx context.Context) (*models.Snapshot, error) {
	symbols := make(map[string]*models.SymbolMetrics, len(models.TrackedSymbols))

	for symbol, name := range models.TrackedSymbols {
		candles, err := p.fetchDaily(ctx, symbol, "1y")
		if err != nil {
			logger.Warn("Failed to fetch symbol, leaving it out of the snapshot",
				logger.String("symbol", symbol),
				logger.ErrorField(err),
			)
			continue
		}

		metrics, err := buildMetrics(symbol, name, candles)
		if err != nil {
			logger.Warn("Failed to derive metrics, leaving symbol out of the snapshot",
				logger.String("symbol", symbol),
				logger.ErrorField(err),
			)
			continue
		}
		symbols[symbol] = metrics
	}

	return &models.Snapshot{
		Timestamp: time.Now(),
		Symbols:   symbols,
	}, nil
}

// FetchRecentClose returns the most recent daily closes for a symbol,
// oldest first.
func (p *YahooProvider) FetchRecentClose(ctx context.Context, symbol string, lookbackDays int) ([]float64, error) {
	candles, err := p.fetchDaily(ctx, symbol, fmt.Sprintf("%dd", lookbackDays))
	if err != nil {
		return nil, err
	}

	closes := make([]float64, 0, len(candles))
	for _, c := range candles {
		closes = append(closes, c.Close)
	}
	return closes, nil
}

// chartResponse mirrors the subset of the Yahoo v8 chart payload we
// consume. Quote arrays use pointers because Yahoo emits nulls for
// sessions with no trade.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					High  []*float64 `json:"high"`
					Low   []*float64 `json:"low"`
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func (p *YahooProvider) fetchDaily(ctx context.Context, symbol, window string) ([]Candle, error) {
	endpoint := fmt.Sprintf("%s/%s?range=%s&interval=1d", p.baseURL, url.PathEscape(symbol), window)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", "market-sentry/1.0")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("chart request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("chart request returned status %d", resp.StatusCode)
	}

	var payload chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode chart payload: %w", err)
	}

	if payload.Chart.Error != nil {
		return nil, fmt.Errorf("chart API error: %s (%s)", payload.Chart.Error.Description, payload.Chart.Error.Code)
	}
	if len(payload.Chart.Result) == 0 || len(payload.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, ErrNoData
	}

	result := payload.Chart.Result[0]
	quote := result.Indicators.Quote[0]

	candles := make([]Candle, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(quote.Close) || quote.Close[i] == nil {
			continue
		}
		c := Candle{
			Time:  time.Unix(ts, 0),
			Close: *quote.Close[i],
		}
		// High/low fall back to the close on null sessions.
		c.High = c.Close
		c.Low = c.Close
		if i < len(quote.High) && quote.High[i] != nil {
			c.High = *quote.High[i]
		}
		if i < len(quote.Low) && quote.Low[i] != nil {
			c.Low = *quote.Low[i]
		}
		candles = append(candles, c)
	}

	if len(candles) == 0 {
		return nil, ErrNoData
	}
	return candles, nil
}
