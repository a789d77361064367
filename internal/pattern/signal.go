// Package pattern
package pattern

// Signal is the directional outcome of a pattern evaluation.
type Signal int8

const (
	None    Signal = 0
	Bullish Signal = 1
	Bearish Signal = -1
)

func (s Signal) String() string {
	switch s {
	case Bullish:
		return "bullish"
	case Bearish:
		return "bearish"
	default:
		return "none"
	}
}
