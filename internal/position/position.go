// Package position
package position

import (
	"time"

	"github.com/KMashiane/engulf-trader/internal/candle"
)

type Side int8

const (
	Long  Side = 1
	Short Side = -1
)

func (s Side) String() string {
	switch s {
	case Long:
		return "long"
	case Short:
		return "short"
	default:
		return "unknown"
	}
}

// Position holds the per-trade fields for one open trade. A Position exists
// only between entry and exit; "no open trade" is a nil *Position.
type Position struct {
	Side       Side
	EntryPrice float64
	StopLoss   float64
	TakeProfit float64
	Size       float64 // units of base asset
	OpenedAt   time.Time
}

// New sizes a position off the signal candle pair: entry at the current close,
// stop beyond the two-candle extreme, size so that hitting the stop loses
// capital*riskPct. Returns nil when the stop distance is not positive (nothing
// to risk against, and a zero distance would divide by zero).
func New(side Side, current, previous candle.Candle, capital, riskPct, targetPct float64) *Position {
	entry := current.Close
	riskAmount := capital * riskPct

	var stop, target, distance float64
	switch side {
	case Long:
		stop = min(current.Low, previous.Low)
		distance = entry - stop
		target = entry * (1 + targetPct)
	case Short:
		stop = max(current.High, previous.High)
		distance = stop - entry
		target = entry * (1 - targetPct)
	default:
		return nil
	}

	if distance <= 0 {
		return nil
	}

	return &Position{
		Side:       side,
		EntryPrice: entry,
		StopLoss:   stop,
		TakeProfit: target,
		Size:       riskAmount / distance,
		OpenedAt:   current.Timestamp,
	}
}
