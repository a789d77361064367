// Package candle
package candle

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/KMashiane/engulf-trader/internal/tfutils"
)

type Candle struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    float64   `json:"volume"`
	Symbol    string    `json:"symbol"`
	Timeframe string    `json:"timeframe"`
	Source    string    `json:"source"`
}

// Validate checks if a candle has valid data
func (c *Candle) Validate() error {
	if c.Timestamp.IsZero() {
		return errors.New("candle timestamp is zero")
	}
	if c.High < c.Low {
		return errors.New("candle high cannot be less than low")
	}
	if c.Open < c.Low || c.Open > c.High {
		return errors.New("candle open price must be between high and low")
	}
	if c.Close < c.Low || c.Close > c.High {
		return errors.New("candle close price must be between high and low")
	}
	if c.Volume < 0 {
		return errors.New("candle volume cannot be negative")
	}
	for _, v := range []float64{c.Open, c.High, c.Low, c.Close, c.Volume} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.New("candle values must be finite")
		}
	}
	return nil
}

// IsBullish returns true if the candle closed above its open
func (c *Candle) IsBullish() bool {
	return c.Close > c.Open
}

// IsBearish returns true if the candle closed below its open
func (c *Candle) IsBearish() bool {
	return c.Close < c.Open
}

// BodySize returns the absolute size of the candle body
func (c *Candle) BodySize() float64 {
	return math.Abs(c.Close - c.Open)
}

// ErrInvalidSeries is wrapped by every series construction failure.
var ErrInvalidSeries = errors.New("invalid candle series")

// Series is an ordered, fixed-interval candle sequence. It is validated once at
// construction and read-only afterwards.
type Series struct {
	symbol    string
	timeframe string
	candles   []Candle
	closes    []float64
	volumes   []float64
}

// NewSeries validates candles and builds a Series. The candles must be non-empty,
// individually valid, strictly increasing in time, and spaced exactly one
// timeframe apart.
func NewSeries(symbol, timeframe string, candles []Candle) (*Series, error) {
	if len(candles) == 0 {
		return nil, fmt.Errorf("%w: empty series for %s", ErrInvalidSeries, symbol)
	}

	dur, err := tfutils.ParseTimeframe(timeframe)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSeries, err)
	}

	owned := make([]Candle, len(candles))
	copy(owned, candles)

	closes := make([]float64, len(owned))
	volumes := make([]float64, len(owned))

	for i := range owned {
		c := &owned[i]
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("%w: candle at index %d: %v", ErrInvalidSeries, i, err)
		}
		if i > 0 {
			prev := owned[i-1].Timestamp
			if !c.Timestamp.After(prev) {
				return nil, fmt.Errorf("%w: timestamps not strictly increasing at index %d (%s then %s)",
					ErrInvalidSeries, i, prev.Format(time.RFC3339), c.Timestamp.Format(time.RFC3339))
			}
			if c.Timestamp.Sub(prev) != dur {
				return nil, fmt.Errorf("%w: gap at index %d, expected %s spacing, got %s",
					ErrInvalidSeries, i, dur, c.Timestamp.Sub(prev))
			}
		}
		closes[i] = c.Close
		volumes[i] = c.Volume
	}

	return &Series{
		symbol:    symbol,
		timeframe: timeframe,
		candles:   owned,
		closes:    closes,
		volumes:   volumes,
	}, nil
}

func (s *Series) Symbol() string    { return s.symbol }
func (s *Series) Timeframe() string { return s.timeframe }
func (s *Series) Len() int          { return len(s.candles) }

// At returns the candle at index i. Panics on out-of-range, like slice indexing.
func (s *Series) At(i int) Candle {
	return s.candles[i]
}

// Closes returns the close prices of the series. The slice is shared; callers
// must not modify it.
func (s *Series) Closes() []float64 {
	return s.closes
}

// Volumes returns the volumes of the series. The slice is shared; callers must
// not modify it.
func (s *Series) Volumes() []float64 {
	return s.volumes
}
