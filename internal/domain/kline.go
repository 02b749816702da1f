package domain

import "time"

// Candle represents a single OHLCV candlestick.
type Candle struct {
	// Timestamp is the candle open time in epoch milliseconds.
	Timestamp int64
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
}

// IsGreen reports whether the candle closed above its open.
func (c Candle) IsGreen() bool {
	return c.Close > c.Open
}

// BodyLow returns the lower edge of the candle body.
func (c Candle) BodyLow() float64 {
	return min(c.Open, c.Close)
}

// BodyHigh returns the upper edge of the candle body.
func (c Candle) BodyHigh() float64 {
	return max(c.Open, c.Close)
}

// Time returns the candle timestamp as time.Time.
func (c Candle) Time() time.Time {
	return time.UnixMilli(c.Timestamp)
}

// Closes extracts close prices in candle order.
func Closes(candles []Candle) []float64 {
	closes := make([]float64, len(candles))
	for i, c := range candles {
		closes[i] = c.Close
	}
	return closes
}
