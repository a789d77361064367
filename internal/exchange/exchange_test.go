package exchange

import (
	"testing"
	"time"

	binance "github.com/adshao/go-binance/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeSymbol(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"POL-USDT", "POLUSDT"},
		{"pol-usdt", "POLUSDT"},
		{"BTCUSDT", "BTCUSDT"},
		{"matic-usdt", "MATICUSDT"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeSymbol(tt.in))
	}
}

func TestKlinesToCandles(t *testing.T) {
	openTime := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	klines := []*binance.Kline{
		{
			OpenTime: openTime.UnixMilli(),
			Open:     "0.8910", High: "0.9021", Low: "0.8855", Close: "0.8999", Volume: "125000.5",
		},
		{
			OpenTime: openTime.Add(time.Hour).UnixMilli(),
			Open:     "not-a-number", High: "0.91", Low: "0.89", Close: "0.90", Volume: "1000",
		},
		{
			// high below low, fails candle validation
			OpenTime: openTime.Add(2 * time.Hour).UnixMilli(),
			Open:     "0.90", High: "0.88", Low: "0.89", Close: "0.90", Volume: "1000",
		},
		{
			OpenTime: openTime.Add(3 * time.Hour).UnixMilli(),
			Open:     "0.8999", High: "0.9100", Low: "0.8950", Close: "0.9050", Volume: "98000",
		},
	}

	candles := klinesToCandles(klines, "POL-USDT", "1h", "binance")
	require.Len(t, candles, 2)

	first := candles[0]
	assert.Equal(t, openTime, first.Timestamp)
	assert.InDelta(t, 0.8910, first.Open, 1e-9)
	assert.InDelta(t, 0.9021, first.High, 1e-9)
	assert.InDelta(t, 0.8855, first.Low, 1e-9)
	assert.InDelta(t, 0.8999, first.Close, 1e-9)
	assert.InDelta(t, 125000.5, first.Volume, 1e-9)
	assert.Equal(t, "POL-USDT", first.Symbol)
	assert.Equal(t, "1h", first.Timeframe)
	assert.Equal(t, "binance", first.Source)

	assert.Equal(t, openTime.Add(3*time.Hour), candles[1].Timestamp)
}

func TestNormalizeWallexResolution(t *testing.T) {
	tests := []struct {
		timeframe, want string
	}{
		{"1m", "1"},
		{"5m", "5"},
		{"15m", "15"},
		{"30m", "30"},
		{"1h", "60"},
		{"4h", "240"},
		{"1d", "D"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, normalizeWallexResolution(tt.timeframe), "timeframe %s", tt.timeframe)
	}
}
