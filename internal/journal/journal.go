// Package journal
package journal

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/KMashiane/engulf-trader/internal/pattern"
	"github.com/KMashiane/engulf-trader/internal/position"
)

type EventType string

const (
	SignalDetected  EventType = "signal_detected"
	PositionOpened  EventType = "position_opened"
	TakeProfitHit   EventType = "take_profit_hit"
	StopLossHit     EventType = "stop_loss_hit"
	SimulationEnded EventType = "simulation_ended"
)

// Event is one entry of the simulation event stream. Time is the timestamp of
// the candle that produced the event. Only the fields relevant to the event
// type are set.
type Event struct {
	Time  time.Time `json:"time"`
	Type  EventType `json:"type"`
	RunID uuid.UUID `json:"run_id"`

	Direction pattern.Signal     `json:"direction,omitempty"` // SignalDetected
	Position  *position.Position `json:"position,omitempty"`  // PositionOpened, SimulationEnded (if still open)
	Capital   float64            `json:"capital,omitempty"`   // TakeProfitHit, StopLossHit, SimulationEnded
}

// Recorder receives events as the simulation emits them.
type Recorder interface {
	Record(event Event)
}

// Memory is an in-memory event log.
type Memory struct {
	mu     sync.Mutex
	events []Event
}

func NewMemory() *Memory { return &Memory{} }

func (m *Memory) Record(event Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
}

// Events returns a copy of the recorded events in emission order.
func (m *Memory) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Event, len(m.events))
	copy(out, m.events)
	return out
}

type multi []Recorder

func (m multi) Record(event Event) {
	for _, r := range m {
		r.Record(event)
	}
}

// Multi fans out events to several recorders in order.
func Multi(recorders ...Recorder) Recorder {
	return multi(recorders)
}
