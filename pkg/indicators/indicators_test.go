package indicators

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEMA_LengthAndSeed(t *testing.T) {
	series := [][]float64{
		{42},
		{1, 2, 3},
		{100.5, 99.2, 101.7, 103.1, 98.4, 97.9, 102.3},
	}

	for _, prices := range series {
		for _, period := range []int{1, 9, 15, 50, 200} {
			out := EMA(prices, period)
			require.Len(t, out, len(prices))
			assert.Equal(t, prices[0], out[0])
		}
	}
}

func TestEMA_HandComputed(t *testing.T) {
	closes := []float64{10, 11, 12, 11, 13}
	k := 2.0 / 10.0

	expected := make([]float64, len(closes))
	expected[0] = 10
	expected[1] = 11*k + expected[0]*(1-k) // 10.2
	expected[2] = 12*k + expected[1]*(1-k) // 10.56
	expected[3] = 11*k + expected[2]*(1-k) // 10.648
	expected[4] = 13*k + expected[3]*(1-k) // 11.1184

	out := EMA(closes, 9)
	require.Len(t, out, 5)
	for i := range expected {
		assert.InDelta(t, expected[i], out[i], 1e-9, "index %d", i)
	}
	assert.InDelta(t, 11.1184, out[4], 1e-9)
}

func TestEMA_BoundedByPreviousAndPrice(t *testing.T) {
	prices := []float64{100, 105, 95, 95, 130, 80, 81.5, 81.4, 200, 1}

	for _, period := range []int{9, 15, 50, 200} {
		out := EMA(prices, period)
		for i := 1; i < len(prices); i++ {
			lo := math.Min(out[i-1], prices[i])
			hi := math.Max(out[i-1], prices[i])
			assert.GreaterOrEqual(t, out[i], lo-1e-9, "period %d index %d", period, i)
			assert.LessOrEqual(t, out[i], hi+1e-9, "period %d index %d", period, i)
		}
	}
}

func TestEMA_Empty(t *testing.T) {
	assert.Nil(t, EMA(nil, 9))
}

func TestCalculateEMA_Validation(t *testing.T) {
	_, err := CalculateEMA(nil, 9)
	assert.ErrorIs(t, err, ErrNoPrices)

	_, err = CalculateEMA([]float64{1, 2}, 0)
	assert.ErrorIs(t, err, ErrInvalidPeriod)

	out, err := CalculateEMA([]float64{1, 2}, 1)
	require.NoError(t, err)
	// period 1 gives k = 1, the EMA tracks the price
	assert.Equal(t, []float64{1, 2}, out)
}

func TestCalculateEMASet(t *testing.T) {
	closes := []float64{5, 6, 7, 8}

	set, err := CalculateEMASet(closes)
	require.NoError(t, err)
	assert.Equal(t, 4, set.Len())
	assert.Equal(t, EMA(closes, 9), set.EMA9)
	assert.Equal(t, EMA(closes, 15), set.EMA15)
	assert.Equal(t, EMA(closes, 50), set.EMA50)
	assert.Equal(t, EMA(closes, 200), set.EMA200)

	// slower averages lag further behind a rising series
	assert.Greater(t, set.EMA9[3], set.EMA15[3])
	assert.Greater(t, set.EMA15[3], set.EMA50[3])
	assert.Greater(t, set.EMA50[3], set.EMA200[3])

	_, err = CalculateEMASet(nil)
	assert.ErrorIs(t, err, ErrNoPrices)
	assert.Contains(t, err.Error(), "EMA9")
}
