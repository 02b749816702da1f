package collector

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	bybit "github.com/hirokisan/bybit/v2"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/emascan/internal/domain"
)

const bybitMaxKlineLimit = 1000

var _ MarketProvider = (*BybitProvider)(nil)

// BybitProvider implements MarketProvider for Bybit spot via the V5 market API.
type BybitProvider struct {
	client *bybit.Client
	limit  int
}

// NewBybitProvider creates a Bybit provider. limit <= 0 uses the exchange default,
// larger values are capped at the single request maximum.
func NewBybitProvider(client *bybit.Client, limit int) *BybitProvider {
	if limit > bybitMaxKlineLimit {
		limit = bybitMaxKlineLimit
	}
	return &BybitProvider{client: client, limit: limit}
}

// Name returns the exchange display name.
func (p *BybitProvider) Name() string {
	return "Bybit"
}

// GetMarkets lists spot tickers and keeps symbols quoted in quote.
func (p *BybitProvider) GetMarkets(_ context.Context, quote string) ([]domain.Market, error) {
	result, err := p.client.V5().Market().GetTickers(bybit.V5GetTickersParam{
		Category: bybit.CategoryV5Spot,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch tickers from Bybit")
	}

	if result == nil || result.Result.Spot == nil {
		return nil, errors.New("empty spot tickers result from Bybit")
	}

	markets := make([]domain.Market, 0, len(result.Result.Spot.List))
	for _, t := range result.Result.Spot.List {
		markets = append(markets, splitBybitSymbol(string(t.Symbol), quote))
	}

	return domain.FilterQuoted(markets, quote), nil
}

// GetCandles fetches spot klines and returns them oldest first.
func (p *BybitProvider) GetCandles(_ context.Context, symbol string, tf domain.Timeframe) ([]domain.Candle, error) {
	interval, err := convertIntervalToBybit(tf)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid timeframe %s", tf)
	}

	param := bybit.V5GetKlineParam{
		Category: bybit.CategoryV5Spot,
		Symbol:   bybit.SymbolV5(symbol),
		Interval: interval,
	}
	if p.limit > 0 {
		limit := p.limit
		param.Limit = &limit
	}

	result, err := p.client.V5().Market().GetKline(param)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch klines from Bybit for %s %s", symbol, tf)
	}

	if result == nil || len(result.Result.List) == 0 {
		return nil, ErrNoData
	}

	candles := make([]domain.Candle, len(result.Result.List))
	for i, k := range result.Result.List {
		ts, err := parseTimestamp(k.StartTime)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse start time at index %d", i)
		}

		var values [5]float64
		for j, field := range []struct{ name, raw string }{
			{"open", k.Open}, {"high", k.High}, {"low", k.Low}, {"close", k.Close}, {"volume", k.Volume},
		} {
			d, err := decimal.NewFromString(field.raw)
			if err != nil {
				return nil, errors.Wrapf(err, "failed to parse %s price at index %d", field.name, i)
			}
			values[j], _ = d.Float64()
		}

		candles[i] = domain.Candle{
			Timestamp: ts,
			Open:      values[0],
			High:      values[1],
			Low:       values[2],
			Close:     values[3],
			Volume:    values[4],
		}
	}

	// Bybit lists klines newest first
	sort.SliceStable(candles, func(i, j int) bool {
		return candles[i].Timestamp < candles[j].Timestamp
	})

	return candles, nil
}

// splitBybitSymbol derives base and quote from a concatenated ticker symbol.
// Symbols not ending in quote get an empty quote and are dropped by the filter.
func splitBybitSymbol(symbol, quote string) domain.Market {
	base, ok := strings.CutSuffix(symbol, quote)
	if !ok || base == "" {
		return domain.Market{Symbol: symbol}
	}
	return domain.Market{Symbol: symbol, Base: base, Quote: quote}
}

// convertIntervalToBybit maps a timeframe to the Bybit kline interval in minutes.
func convertIntervalToBybit(tf domain.Timeframe) (bybit.Interval, error) {
	switch tf.Minutes {
	case 1, 3, 5, 15, 30, 60, 120, 240, 360, 720:
		return bybit.Interval(strconv.Itoa(tf.Minutes)), nil
	default:
		return "", fmt.Errorf("unsupported bybit interval: %d minutes", tf.Minutes)
	}
}

// parseTimestamp parses a Bybit millisecond timestamp string.
func parseTimestamp(ts string) (int64, error) {
	if ts == "" {
		return 0, errors.New("empty timestamp")
	}

	msec, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to parse timestamp: %s", ts)
	}

	return msec, nil
}
