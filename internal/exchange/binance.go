package exchange

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	binance "github.com/adshao/go-binance/v2"

	"github.com/KMashiane/engulf-trader/internal/candle"
	"github.com/KMashiane/engulf-trader/internal/tfutils"
	"github.com/KMashiane/engulf-trader/internal/utils"
)

const binanceKlineLimit = 1000

// BinanceSource fetches klines from the Binance spot API. Historical klines are
// public, so no API key is required.
type BinanceSource struct {
	client *binance.Client
}

func NewBinanceSource(apiKey, apiSecret, proxyURL string) (*BinanceSource, error) {
	client := binance.NewClient(apiKey, apiSecret)

	if proxyURL != "" {
		parsed, err := url.Parse(proxyURL)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy URL: %w", err)
		}
		client.HTTPClient = &http.Client{
			Timeout:   30 * time.Second,
			Transport: &http.Transport{Proxy: http.ProxyURL(parsed)},
		}
	}

	return &BinanceSource{client: client}, nil
}

func (b *BinanceSource) Name() string { return "binance" }

// FetchCandles pages through klines from start to end, binanceKlineLimit per
// request.
func (b *BinanceSource) FetchCandles(ctx context.Context, symbol, timeframe string, start, end time.Time) ([]candle.Candle, error) {
	if !tfutils.IsValidTimeframe(timeframe) {
		return nil, fmt.Errorf("unsupported timeframe: %s", timeframe)
	}

	apiSymbol := NormalizeSymbol(symbol)
	dur := tfutils.GetTimeframeDuration(timeframe)

	var candles []candle.Candle
	cursor := start

	for cursor.Before(end) {
		var klines []*binance.Kline
		err := retry(ctx, 3, 2*time.Second, b.Name(), func() error {
			var err error
			klines, err = b.client.NewKlinesService().
				Symbol(apiSymbol).
				Interval(timeframe).
				StartTime(cursor.UnixMilli()).
				EndTime(end.UnixMilli()).
				Limit(binanceKlineLimit).
				Do(ctx)
			if err != nil {
				return fmt.Errorf("fetching klines: %w", err)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("FetchCandles failed for %s: %w", apiSymbol, err)
		}

		if len(klines) == 0 {
			break
		}

		candles = append(candles, klinesToCandles(klines, symbol, timeframe, b.Name())...)

		last := time.UnixMilli(klines[len(klines)-1].OpenTime).UTC()
		cursor = last.Add(dur)

		if len(klines) < binanceKlineLimit {
			break
		}
	}

	utils.GetLogger().Printf("Exchange | %s fetched %d candles for %s %s", b.Name(), len(candles), apiSymbol, timeframe)
	return candles, nil
}

// klinesToCandles converts Binance klines, skipping entries that fail candle
// validation.
func klinesToCandles(klines []*binance.Kline, symbol, timeframe, source string) []candle.Candle {
	candles := make([]candle.Candle, 0, len(klines))
	for _, k := range klines {
		open, err1 := strconv.ParseFloat(k.Open, 64)
		high, err2 := strconv.ParseFloat(k.High, 64)
		low, err3 := strconv.ParseFloat(k.Low, 64)
		closePrice, err4 := strconv.ParseFloat(k.Close, 64)
		volume, err5 := strconv.ParseFloat(k.Volume, 64)
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil || err5 != nil {
			utils.GetLogger().Printf("Exchange | %s skipping kline with non-numeric fields at %d", source, k.OpenTime)
			continue
		}

		c := candle.Candle{
			Timestamp: time.UnixMilli(k.OpenTime).UTC(),
			Open:      open,
			High:      high,
			Low:       low,
			Close:     closePrice,
			Volume:    volume,
			Symbol:    symbol,
			Timeframe: timeframe,
			Source:    source,
		}
		if err := c.Validate(); err != nil {
			continue
		}
		candles = append(candles, c)
	}
	return candles
}
