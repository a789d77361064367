// Package exchange
package exchange

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/KMashiane/engulf-trader/internal/candle"
	"github.com/KMashiane/engulf-trader/internal/utils"
)

// Source fetches historical candles from a market-data provider. The core
// never touches a Source; it consumes a pre-materialized series.
type Source interface {
	Name() string
	FetchCandles(ctx context.Context, symbol, timeframe string, start, end time.Time) ([]candle.Candle, error)
}

// NormalizeSymbol converts a symbol like "pol-usdt" to the exchange form "POLUSDT".
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.ReplaceAll(symbol, "-", ""))
}

// retry wraps a function with retry logic for transient errors, using exponential backoff and error logging.
func retry(ctx context.Context, attempts int, delay time.Duration, name string, fn func() error) error {
	backoff := delay
	var lastErr error
	for i := 1; i <= attempts; i++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		utils.GetLogger().Printf("Exchange | %s retry attempt %d/%d failed: %v. Backing off for %v", name, i, attempts, lastErr, backoff)
		if i == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		// Exponential backoff, capped at 5 minutes
		if backoff < 5*time.Minute {
			backoff *= 2
			if backoff > 5*time.Minute {
				backoff = 5 * time.Minute
			}
		}
	}
	return errors.Join(errors.New("all retry attempts failed"), lastErr)
}
