package db

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/KMashiane/engulf-trader/internal/candle"
)

// Memory is an in-memory Storage used for tests and for runs without a
// configured database.
type Memory struct {
	mu      sync.RWMutex
	candles map[string]map[time.Time]candle.Candle // symbol|timeframe -> timestamp -> candle
}

func NewMemory() *Memory {
	return &Memory{candles: make(map[string]map[time.Time]candle.Candle)}
}

func key(symbol, timeframe string) string {
	return symbol + "|" + timeframe
}

func (m *Memory) SaveCandles(_ context.Context, candles []candle.Candle) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, c := range candles {
		k := key(c.Symbol, c.Timeframe)
		if m.candles[k] == nil {
			m.candles[k] = make(map[time.Time]candle.Candle)
		}
		m.candles[k][c.Timestamp.UTC()] = c
	}
	return nil
}

func (m *Memory) GetCandles(_ context.Context, symbol, timeframe string, start, end time.Time) ([]candle.Candle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []candle.Candle
	for ts, c := range m.candles[key(symbol, timeframe)] {
		if !ts.Before(start.UTC()) && ts.Before(end.UTC()) {
			out = append(out, c)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out, nil
}

func (m *Memory) Close() error { return nil }
