// Package collector fetches market listings and candles from exchanges.
package collector

import (
	"context"

	"github.com/pkg/errors"
	"github.com/vadiminshakov/emascan/internal/domain"
)

// ErrNoData is returned when an exchange answers with an empty candle series.
var ErrNoData = errors.New("no candle data")

// MarketProvider defines the exchange operations the scanner needs.
type MarketProvider interface {
	// Name returns the exchange display name.
	Name() string
	// GetMarkets returns markets quoted in quote, excluding quote as base, in exchange order.
	GetMarkets(ctx context.Context, quote string) ([]domain.Market, error)
	// GetCandles returns candles for symbol on timeframe, oldest first.
	GetCandles(ctx context.Context, symbol string, tf domain.Timeframe) ([]domain.Candle, error)
}
