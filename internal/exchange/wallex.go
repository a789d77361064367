package exchange

import (
	"context"
	"fmt"
	"strconv"
	"time"

	wallex "github.com/wallexchange/wallex-go"

	"github.com/KMashiane/engulf-trader/internal/candle"
	"github.com/KMashiane/engulf-trader/internal/tfutils"
)

// WallexSource fetches candles from the Wallex exchange.
type WallexSource struct {
	client *wallex.Client
}

func NewWallexSource(apiKey string) *WallexSource {
	return &WallexSource{
		client: wallex.New(wallex.ClientOptions{APIKey: apiKey}),
	}
}

func (w *WallexSource) Name() string { return "wallex" }

func (w *WallexSource) FetchCandles(ctx context.Context, symbol, timeframe string, start, end time.Time) ([]candle.Candle, error) {
	if !tfutils.IsValidTimeframe(timeframe) {
		return nil, fmt.Errorf("unsupported timeframe: %s", timeframe)
	}

	resolution := normalizeWallexResolution(timeframe)
	apiSymbol := NormalizeSymbol(symbol)

	var wallexCandles []*wallex.Candle
	err := retry(ctx, 3, 2*time.Second, w.Name(), func() error {
		var err error
		wallexCandles, err = w.client.Candles(apiSymbol, resolution, start, end)
		if err != nil {
			return fmt.Errorf("fetching candles: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("FetchCandles failed for %s: %w", apiSymbol, err)
	}

	dur := tfutils.GetTimeframeDuration(timeframe)

	var candles []candle.Candle
	for _, wc := range wallexCandles {
		open, _ := strconv.ParseFloat(string(wc.Open), 64)
		high, _ := strconv.ParseFloat(string(wc.High), 64)
		low, _ := strconv.ParseFloat(string(wc.Low), 64)
		closePrice, _ := strconv.ParseFloat(string(wc.Close), 64)
		volume, _ := strconv.ParseFloat(string(wc.Volume), 64)

		c := candle.Candle{
			Timestamp: wc.Timestamp.UTC().Truncate(dur),
			Open:      open,
			High:      high,
			Low:       low,
			Close:     closePrice,
			Volume:    volume,
			Symbol:    symbol,
			Timeframe: timeframe,
			Source:    w.Name(),
		}

		if err := c.Validate(); err != nil {
			continue // Skip invalid candles
		}

		candles = append(candles, c)
	}

	return candles, nil
}

// normalizeWallexResolution maps timeframes to Wallex resolution strings.
func normalizeWallexResolution(timeframe string) string {
	switch timeframe {
	case "1h":
		return "60"
	case "4h":
		return "240"
	case "1d":
		return "D"
	default:
		// Minute timeframes use the bare minute count.
		return strconv.Itoa(int(tfutils.GetTimeframeDuration(timeframe) / time.Minute))
	}
}
