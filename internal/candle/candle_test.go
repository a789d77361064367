package candle

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var seriesStart = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func hourly(i int, open, high, low, closePrice, volume float64) Candle {
	return Candle{
		Timestamp: seriesStart.Add(time.Duration(i) * time.Hour),
		Open:      open,
		High:      high,
		Low:       low,
		Close:     closePrice,
		Volume:    volume,
		Symbol:    "POL-USDT",
		Timeframe: "1h",
	}
}

func TestCandle_Validate(t *testing.T) {
	valid := hourly(0, 100, 101, 99, 100.5, 1000)

	tests := []struct {
		name    string
		mutate  func(c *Candle)
		wantErr bool
	}{
		{
			name:   "valid candle",
			mutate: func(c *Candle) {},
		},
		{
			name:   "doji with equal open and close",
			mutate: func(c *Candle) { c.Close = c.Open },
		},
		{
			name:   "zero volume",
			mutate: func(c *Candle) { c.Volume = 0 },
		},
		{
			name:    "zero timestamp",
			mutate:  func(c *Candle) { c.Timestamp = time.Time{} },
			wantErr: true,
		},
		{
			name:    "high below low",
			mutate:  func(c *Candle) { c.High = 98 },
			wantErr: true,
		},
		{
			name:    "open above high",
			mutate:  func(c *Candle) { c.Open = 102 },
			wantErr: true,
		},
		{
			name:    "close below low",
			mutate:  func(c *Candle) { c.Close = 98.5 },
			wantErr: true,
		},
		{
			name:    "negative volume",
			mutate:  func(c *Candle) { c.Volume = -1 },
			wantErr: true,
		},
		{
			name:    "NaN close",
			mutate:  func(c *Candle) { c.Close = math.NaN() },
			wantErr: true,
		},
		{
			name:    "infinite high",
			mutate:  func(c *Candle) { c.High = math.Inf(1) },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCandle_Direction(t *testing.T) {
	bullish := hourly(0, 100, 101, 99, 100.5, 1000)
	assert.True(t, bullish.IsBullish())
	assert.False(t, bullish.IsBearish())

	bearish := hourly(0, 100.5, 101, 99, 100, 1000)
	assert.False(t, bearish.IsBullish())
	assert.True(t, bearish.IsBearish())

	doji := hourly(0, 100, 101, 99, 100, 1000)
	assert.False(t, doji.IsBullish())
	assert.False(t, doji.IsBearish())

	assert.InDelta(t, 0.5, bullish.BodySize(), 1e-9)
	assert.InDelta(t, 0.5, bearish.BodySize(), 1e-9)
}

func TestNewSeries_Valid(t *testing.T) {
	candles := []Candle{
		hourly(0, 100, 101, 99, 100.5, 1000),
		hourly(1, 100.5, 102, 100, 101.5, 1100),
		hourly(2, 101.5, 102, 100.5, 101, 900),
	}

	series, err := NewSeries("POL-USDT", "1h", candles)
	require.NoError(t, err)

	assert.Equal(t, "POL-USDT", series.Symbol())
	assert.Equal(t, "1h", series.Timeframe())
	assert.Equal(t, 3, series.Len())
	assert.Equal(t, candles[1], series.At(1))
	assert.Equal(t, []float64{100.5, 101.5, 101}, series.Closes())
	assert.Equal(t, []float64{1000, 1100, 900}, series.Volumes())
}

// The series owns its candles; mutating the caller's slice after construction
// must not leak through.
func TestNewSeries_CopiesInput(t *testing.T) {
	candles := []Candle{
		hourly(0, 100, 101, 99, 100.5, 1000),
		hourly(1, 100.5, 102, 100, 101.5, 1100),
	}

	series, err := NewSeries("POL-USDT", "1h", candles)
	require.NoError(t, err)

	candles[0].Close = 42
	assert.InDelta(t, 100.5, series.At(0).Close, 1e-9)
	assert.InDelta(t, 100.5, series.Closes()[0], 1e-9)
}

func TestNewSeries_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		timeframe string
		candles   []Candle
	}{
		{
			name:      "empty",
			timeframe: "1h",
			candles:   nil,
		},
		{
			name:      "unknown timeframe",
			timeframe: "7m",
			candles:   []Candle{hourly(0, 100, 101, 99, 100.5, 1000)},
		},
		{
			name:      "invalid candle",
			timeframe: "1h",
			candles: []Candle{
				hourly(0, 100, 101, 99, 100.5, 1000),
				hourly(1, 100.5, 100, 100.2, 101.5, 1100), // high below low
			},
		},
		{
			name:      "duplicate timestamp",
			timeframe: "1h",
			candles: []Candle{
				hourly(0, 100, 101, 99, 100.5, 1000),
				hourly(0, 100.5, 102, 100, 101.5, 1100),
			},
		},
		{
			name:      "out of order",
			timeframe: "1h",
			candles: []Candle{
				hourly(1, 100, 101, 99, 100.5, 1000),
				hourly(0, 100.5, 102, 100, 101.5, 1100),
			},
		},
		{
			name:      "gap in spacing",
			timeframe: "1h",
			candles: []Candle{
				hourly(0, 100, 101, 99, 100.5, 1000),
				hourly(2, 100.5, 102, 100, 101.5, 1100),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSeries("POL-USDT", tt.timeframe, tt.candles)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidSeries)
		})
	}
}
