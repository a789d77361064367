// Package db
package db

import (
	"context"
	"time"

	"github.com/KMashiane/engulf-trader/internal/candle"
)

// Storage is the candle cache interface. The simulation input is the only data
// this project persists.
type Storage interface {
	SaveCandles(ctx context.Context, candles []candle.Candle) error
	GetCandles(ctx context.Context, symbol, timeframe string, start, end time.Time) ([]candle.Candle, error)
	Close() error
}
