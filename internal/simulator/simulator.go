// Package simulator
package simulator

import (
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/KMashiane/engulf-trader/internal/candle"
	"github.com/KMashiane/engulf-trader/internal/journal"
	"github.com/KMashiane/engulf-trader/internal/pattern"
	"github.com/KMashiane/engulf-trader/internal/position"
)

// State of the position lifecycle.
type State int8

const (
	Flat State = iota
	LongOpen
	ShortOpen
)

func (s State) String() string {
	switch s {
	case LongOpen:
		return "long-open"
	case ShortOpen:
		return "short-open"
	default:
		return "flat"
	}
}

// ExitOrder controls which threshold wins when a single candle crosses both the
// take-profit and the stop-loss. OHLC data does not reveal the intrabar path,
// so either choice is an assumption; TakeProfitFirst preserves the behavior of
// the reference strategy.
type ExitOrder int8

const (
	TakeProfitFirst ExitOrder = iota
	StopLossFirst
)

type Config struct {
	InitialCapital float64
	RiskPerTrade   float64 // fraction of capital risked per trade, in (0, 1)
	ProfitTarget   float64 // fractional target move for exit, in (0, 1)
	ExitOrder      ExitOrder
}

// ErrNonFinite is returned when position sizing produces a NaN or infinite
// value. Prices and capital are validated at the series boundary, so this only
// fires on arithmetic blow-ups; surfacing it beats reporting garbage capital.
var ErrNonFinite = errors.New("non-finite value in simulation")

// Result summarizes a finished run.
type Result struct {
	RunID        uuid.UUID
	FinalCapital float64
	OpenPosition *position.Position // non-nil if the series ended mid-trade
	Trades       int
	TakeProfits  int
	StopLosses   int
}

// Simulator walks a candle series once, asks the detector for a signal whenever
// it is flat, and manages the open position otherwise. It owns the capital
// balance; capital changes only when a position closes.
type Simulator struct {
	cfg      Config
	detector *pattern.EngulfingDetector
	recorder journal.Recorder

	runID   uuid.UUID
	state   State
	capital float64
	pos     *position.Position
}

func New(cfg Config, detector *pattern.EngulfingDetector, recorder journal.Recorder) *Simulator {
	return &Simulator{
		cfg:      cfg,
		detector: detector,
		recorder: recorder,
		runID:    uuid.New(),
		state:    Flat,
		capital:  cfg.InitialCapital,
	}
}

func (s *Simulator) RunID() uuid.UUID { return s.runID }

// Run executes the simulation over the whole series. A position still open when
// the series ends is reported open, not force-closed.
func (s *Simulator) Run(series *candle.Series) (Result, error) {
	var result Result
	result.RunID = s.runID

	for i := 0; i < series.Len(); i++ {
		if err := s.step(series, i, &result); err != nil {
			return result, err
		}
	}

	result.FinalCapital = s.capital
	result.OpenPosition = s.pos

	s.recorder.Record(journal.Event{
		Time:     series.At(series.Len() - 1).Timestamp,
		Type:     journal.SimulationEnded,
		RunID:    s.runID,
		Capital:  s.capital,
		Position: s.pos,
	})

	return result, nil
}

// step advances the state machine by one candle. At most one transition happens
// per candle: an open position can close, or a flat simulator can open one.
func (s *Simulator) step(series *candle.Series, i int, result *Result) error {
	c := series.At(i)

	switch s.state {
	case LongOpen:
		s.checkLongExit(c, result)
	case ShortOpen:
		s.checkShortExit(c, result)
	case Flat:
		return s.checkEntry(series, i, result)
	}
	return nil
}

func (s *Simulator) checkLongExit(c candle.Candle, result *Result) {
	tpHit := c.High >= s.pos.TakeProfit
	slHit := c.Low <= s.pos.StopLoss

	if s.cfg.ExitOrder == StopLossFirst && slHit {
		tpHit = false
	}

	switch {
	case tpHit:
		s.capital += s.pos.Size * s.cfg.ProfitTarget
		s.close(c, journal.TakeProfitHit)
		result.TakeProfits++
	case slHit:
		s.capital -= (s.pos.EntryPrice - s.pos.StopLoss) / s.pos.EntryPrice * s.pos.Size
		s.close(c, journal.StopLossHit)
		result.StopLosses++
	}
}

func (s *Simulator) checkShortExit(c candle.Candle, result *Result) {
	tpHit := c.Low <= s.pos.TakeProfit
	slHit := c.High >= s.pos.StopLoss

	if s.cfg.ExitOrder == StopLossFirst && slHit {
		tpHit = false
	}

	switch {
	case tpHit:
		s.capital += (s.pos.EntryPrice - s.pos.TakeProfit) / s.pos.EntryPrice * s.pos.Size
		s.close(c, journal.TakeProfitHit)
		result.TakeProfits++
	case slHit:
		s.capital -= (s.pos.StopLoss - s.pos.EntryPrice) / s.pos.EntryPrice * s.pos.Size
		s.close(c, journal.StopLossHit)
		result.StopLosses++
	}
}

func (s *Simulator) close(c candle.Candle, kind journal.EventType) {
	s.recorder.Record(journal.Event{
		Time:    c.Timestamp,
		Type:    kind,
		RunID:   s.runID,
		Capital: s.capital,
	})
	s.pos = nil
	s.state = Flat
}

func (s *Simulator) checkEntry(series *candle.Series, i int, result *Result) error {
	sig := s.detector.Detect(series, i)
	if sig == pattern.None {
		return nil
	}

	c := series.At(i)
	s.recorder.Record(journal.Event{
		Time:      c.Timestamp,
		Type:      journal.SignalDetected,
		RunID:     s.runID,
		Direction: sig,
	})

	var side position.Side
	var next State
	if sig == pattern.Bullish {
		side, next = position.Long, LongOpen
	} else {
		side, next = position.Short, ShortOpen
	}

	pos := position.New(side, c, series.At(i-1), s.capital, s.cfg.RiskPerTrade, s.cfg.ProfitTarget)
	if pos == nil {
		// Degenerate setup: stop distance not positive, stay flat.
		return nil
	}

	for _, v := range []float64{pos.Size, pos.StopLoss, pos.TakeProfit} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: sizing at %s produced size=%v stop=%v target=%v",
				ErrNonFinite, c.Timestamp.Format("2006-01-02T15:04:05Z"), pos.Size, pos.StopLoss, pos.TakeProfit)
		}
	}

	s.pos = pos
	s.state = next
	result.Trades++

	posCopy := *pos
	s.recorder.Record(journal.Event{
		Time:     c.Timestamp,
		Type:     journal.PositionOpened,
		RunID:    s.runID,
		Position: &posCopy,
	})

	return nil
}
