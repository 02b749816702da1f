// Package indicators provides exponential moving averages over close prices.
//
// The series are seeded with the first price instead of an SMA warm-up, so the
// output is aligned index by index with the input.
package indicators

import (
	"github.com/pkg/errors"
)

// EMA periods evaluated by the pattern detector.
const (
	PeriodFast   = 9
	PeriodSignal = 15
	PeriodMedium = 50
	PeriodSlow   = 200
)

var (
	ErrNoPrices      = errors.New("no prices to average")
	ErrInvalidPeriod = errors.New("EMA period must be positive")
)

// EMASet holds the four EMA series aligned with the candle sequence they were computed from.
type EMASet struct {
	EMA9   []float64
	EMA15  []float64
	EMA50  []float64
	EMA200 []float64
}

// Len returns the length of the shortest series.
func (s EMASet) Len() int {
	return min(len(s.EMA9), len(s.EMA15), len(s.EMA50), len(s.EMA200))
}

// EMA computes the exponential moving average with smoothing factor 2/(period+1).
// out[0] equals prices[0]; callers must pass a non-empty slice and a positive period.
func EMA(prices []float64, period int) []float64 {
	if len(prices) == 0 {
		return nil
	}

	k := 2 / float64(period+1)
	out := make([]float64, len(prices))
	out[0] = prices[0]
	for i := 1; i < len(prices); i++ {
		out[i] = prices[i]*k + out[i-1]*(1-k)
	}

	return out
}

// CalculateEMA validates input and returns the EMA series for the given period.
func CalculateEMA(prices []float64, period int) ([]float64, error) {
	if len(prices) == 0 {
		return nil, ErrNoPrices
	}
	if period < 1 {
		return nil, errors.Wrapf(ErrInvalidPeriod, "got %d", period)
	}

	return EMA(prices, period), nil
}

// CalculateEMASet computes EMA9, EMA15, EMA50 and EMA200 over closes.
func CalculateEMASet(closes []float64) (EMASet, error) {
	var set EMASet
	for _, target := range []struct {
		period int
		out    *[]float64
	}{
		{PeriodFast, &set.EMA9},
		{PeriodSignal, &set.EMA15},
		{PeriodMedium, &set.EMA50},
		{PeriodSlow, &set.EMA200},
	} {
		series, err := CalculateEMA(closes, target.period)
		if err != nil {
			return EMASet{}, errors.Wrapf(err, "EMA%d", target.period)
		}
		*target.out = series
	}

	return set, nil
}
