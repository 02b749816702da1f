package domain

import "fmt"

// Timeframe represents a fixed candle duration.
type Timeframe struct {
	// Label human-readable interval, e.g. "15m".
	Label string
	// Minutes interval length used as a query parameter.
	Minutes int
}

var (
	Timeframe5m  = Timeframe{Label: "5m", Minutes: 5}
	Timeframe15m = Timeframe{Label: "15m", Minutes: 15}
	Timeframe30m = Timeframe{Label: "30m", Minutes: 30}
	Timeframe1h  = Timeframe{Label: "1h", Minutes: 60}
)

// String returns the label.
func (t Timeframe) String() string {
	return t.Label
}

// DefaultTimeframes returns the scanned timeframes in scan order.
func DefaultTimeframes() []Timeframe {
	return []Timeframe{Timeframe5m, Timeframe15m, Timeframe30m, Timeframe1h}
}

// ParseTimeframe resolves a label into a supported timeframe.
func ParseTimeframe(label string) (Timeframe, error) {
	for _, tf := range DefaultTimeframes() {
		if tf.Label == label {
			return tf, nil
		}
	}
	return Timeframe{}, fmt.Errorf("unsupported timeframe %q", label)
}
