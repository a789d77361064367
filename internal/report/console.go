// Package report
package report

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/KMashiane/engulf-trader/internal/journal"
	"github.com/KMashiane/engulf-trader/internal/simulator"
)

// Console renders simulation events to the standard logger as they happen. It
// implements journal.Recorder so it can be fanned out next to the in-memory log.
type Console struct {
	logger *log.Logger
}

func NewConsole(logger *log.Logger) *Console {
	if logger == nil {
		logger = log.Default()
	}
	return &Console{logger: logger}
}

func (c *Console) Record(ev journal.Event) {
	ts := ev.Time.Format(time.RFC3339)

	switch ev.Type {
	case journal.SignalDetected:
		c.logger.Printf("Report | %s: Valid %s engulfing pattern detected", ts, strings.ToUpper(ev.Direction.String()))
	case journal.PositionOpened:
		p := ev.Position
		c.logger.Printf("Report | %s: Opening %s position. Entry: $%.4f, Stop-Loss: $%.4f, Take-Profit: $%.4f, Size: %.4f",
			ts, strings.ToUpper(p.Side.String()), p.EntryPrice, p.StopLoss, p.TakeProfit, p.Size)
	case journal.TakeProfitHit:
		c.logger.Printf("Report | %s: TAKE-PROFIT HIT! New capital: $%.2f", ts, ev.Capital)
	case journal.StopLossHit:
		c.logger.Printf("Report | %s: STOP-LOSS HIT! New capital: $%.2f", ts, ev.Capital)
	case journal.SimulationEnded:
		if ev.Position != nil {
			c.logger.Printf("Report | %s: Simulation ended with an open %s position (not force-closed)",
				ts, ev.Position.Side)
		}
		c.logger.Printf("Report | %s: Simulation finished. Final capital: $%.2f", ts, ev.Capital)
	}
}

// Summary builds the final one-message report used for console and Telegram.
func Summary(symbol, timeframe string, res simulator.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Simulation %s finished for %s %s\n", res.RunID, symbol, timeframe)
	fmt.Fprintf(&b, "Trades: %d (take-profits: %d, stop-losses: %d)\n", res.Trades, res.TakeProfits, res.StopLosses)
	fmt.Fprintf(&b, "Final capital: $%.2f", res.FinalCapital)
	if res.OpenPosition != nil {
		fmt.Fprintf(&b, "\nOpen %s position left unresolved (entry $%.4f)",
			res.OpenPosition.Side, res.OpenPosition.EntryPrice)
	}
	return b.String()
}
