package data

import (
	"time"

	"github.com/sdcoffey/big"
	"github.com/sdcoffey/techan"

	"github.com/mohamedkhairy/market-sentry/internal/models"
)

const sma200Period = 200

// Candle is one daily bar of raw provider data.
type Candle struct {
	Time  time.Time
	High  float64
	Low   float64
	Close float64
}

// buildMetrics derives a SymbolMetrics from up to a year of daily
// candles. The moving average and 5-day return are set only when
// enough history exists. Percentages are computed from the same price
// fields they ship with, so the bundle is internally consistent.
func buildMetrics(symbol, name string, candles []Candle) (*models.SymbolMetrics, error) {
	if len(candles) == 0 {
		return nil, ErrNoData
	}

	series := techan.NewTimeSeries()
	for _, c := range candles {
		candle := techan.NewCandle(techan.NewTimePeriod(c.Time, 24*time.Hour))
		candle.MaxPrice = big.NewDecimal(c.High)
		candle.MinPrice = big.NewDecimal(c.Low)
		candle.ClosePrice = big.NewDecimal(c.Close)
		series.AddCandle(candle)
	}
	last := series.LastIndex()

	current := candles[len(candles)-1].Close
	previous := current
	if len(candles) >= 2 {
		previous = candles[len(candles)-2].Close
	}

	metrics := &models.SymbolMetrics{
		Symbol:            symbol,
		Name:              name,
		CurrentPrice:      current,
		PreviousClose:     previous,
		IntradayChangePct: ((current - previous) / previous) * 100,
	}

	if len(candles) >= 6 {
		ago := candles[len(candles)-6].Close
		change := ((current - ago) / ago) * 100
		metrics.Change5DPct = &change
	}

	high := techan.NewMaximumValueIndicator(techan.NewHighPriceIndicator(series), len(candles)).Calculate(last).Float()
	low := techan.NewMinimumValueIndicator(techan.NewLowPriceIndicator(series), len(candles)).Calculate(last).Float()
	metrics.High52W = &high
	metrics.Low52W = &low

	if len(candles) >= sma200Period {
		sma := techan.NewSimpleMovingAverage(techan.NewClosePriceIndicator(series), sma200Period).Calculate(last).Float()
		metrics.SMA200 = &sma
	}

	return metrics, nil
}
