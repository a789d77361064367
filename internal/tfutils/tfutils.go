// Package tfutils
package tfutils

import (
	"fmt"
	"time"
)

var timeframes = map[string]time.Duration{
	"1m":  time.Minute,
	"5m":  5 * time.Minute,
	"15m": 15 * time.Minute,
	"30m": 30 * time.Minute,
	"1h":  time.Hour,
	"4h":  4 * time.Hour,
	"1d":  24 * time.Hour,
}

// ParseTimeframe parses a timeframe string (e.g., "5m", "1h") to time.Duration
func ParseTimeframe(timeframe string) (time.Duration, error) {
	dur, ok := timeframes[timeframe]
	if !ok {
		return 0, fmt.Errorf("unsupported timeframe: %s", timeframe)
	}
	return dur, nil
}

// GetTimeframeDuration returns the duration for a given timeframe, 0 if unsupported
func GetTimeframeDuration(timeframe string) time.Duration {
	return timeframes[timeframe]
}

// IsValidTimeframe checks if a timeframe is supported
func IsValidTimeframe(timeframe string) bool {
	return GetTimeframeDuration(timeframe) > 0
}
