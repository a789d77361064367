package pattern

import (
	talib "github.com/markcheno/go-talib"

	"github.com/KMashiane/engulf-trader/internal/candle"
)

const (
	DefaultTrendPeriod  = 20
	DefaultVolumePeriod = 10
)

// EngulfingDetector detects engulfing reversal patterns confirmed by volume and
// a simple-moving-average trend filter.
//
// The trend filter is deliberately contrarian: a bullish signal requires the
// close to sit below its SMA and a bearish signal above it. The pattern is read
// as a reversal out of a stretched move, not as trend continuation.
type EngulfingDetector struct {
	TrendPeriod  int // SMA window over closes, ending at the evaluated index
	VolumePeriod int // mean-volume window over the candles preceding the evaluated index
}

// NewEngulfingDetector creates a detector with the standard 20/10 windows.
func NewEngulfingDetector() *EngulfingDetector {
	return &EngulfingDetector{
		TrendPeriod:  DefaultTrendPeriod,
		VolumePeriod: DefaultVolumePeriod,
	}
}

func (d *EngulfingDetector) Name() string { return "Filtered Engulfing" }

// MinIndex returns the first index with enough history to evaluate. Indices
// below it are not errors; Detect simply returns None for them.
func (d *EngulfingDetector) MinIndex() int {
	if d.TrendPeriod >= d.VolumePeriod {
		return d.TrendPeriod
	}
	return d.VolumePeriod
}

// Detect evaluates the candle at index against the one before it and returns
// Bullish, Bearish, or None. The two directions are mutually exclusive because
// they require opposite body directions.
func (d *EngulfingDetector) Detect(s *candle.Series, index int) Signal {
	if index < d.MinIndex() || index >= s.Len() {
		return None
	}

	current := s.At(index)
	previous := s.At(index - 1)

	bodyLarger := current.BodySize() > previous.BodySize()

	// Volume confirmation: current volume above the mean of the VolumePeriod
	// volumes immediately preceding index (index itself excluded).
	avgVolume := talib.Sma(s.Volumes()[:index], d.VolumePeriod)[index-1]
	volumeConfirmed := current.Volume > avgVolume

	// Trend position: close relative to the TrendPeriod SMA ending at index.
	sma := talib.Sma(s.Closes()[:index+1], d.TrendPeriod)[index]
	belowTrend := current.Close < sma
	aboveTrend := current.Close > sma

	bullishEngulfs := current.Close > previous.Open && current.Open < previous.Close
	if previous.IsBearish() && current.IsBullish() && bullishEngulfs &&
		bodyLarger && volumeConfirmed && belowTrend {
		return Bullish
	}

	bearishEngulfs := current.Close < previous.Open && current.Open > previous.Close
	if previous.IsBullish() && current.IsBearish() && bearishEngulfs &&
		bodyLarger && volumeConfirmed && aboveTrend {
		return Bearish
	}

	return None
}
