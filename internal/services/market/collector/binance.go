package collector

import (
	"context"

	"github.com/adshao/go-binance/v2"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/emascan/internal/domain"
)

const binanceStatusTrading = "TRADING"

var _ MarketProvider = (*BinanceProvider)(nil)

// BinanceProvider implements MarketProvider for Binance spot.
type BinanceProvider struct {
	client *binance.Client
	limit  int
}

// NewBinanceProvider creates a Binance provider. limit <= 0 uses the exchange default.
func NewBinanceProvider(client *binance.Client, limit int) *BinanceProvider {
	return &BinanceProvider{client: client, limit: limit}
}

// Name returns the exchange display name.
func (p *BinanceProvider) Name() string {
	return "Binance"
}

// GetMarkets returns trading symbols quoted in quote.
func (p *BinanceProvider) GetMarkets(ctx context.Context, quote string) ([]domain.Market, error) {
	info, err := p.client.NewExchangeInfoService().Do(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch exchange info from Binance")
	}

	markets := make([]domain.Market, 0, len(info.Symbols))
	for _, s := range info.Symbols {
		if s.Status != binanceStatusTrading {
			continue
		}
		markets = append(markets, domain.Market{
			Symbol: s.Symbol,
			Base:   s.BaseAsset,
			Quote:  s.QuoteAsset,
		})
	}

	return domain.FilterQuoted(markets, quote), nil
}

// GetCandles fetches klines using the timeframe label as Binance interval.
func (p *BinanceProvider) GetCandles(ctx context.Context, symbol string, tf domain.Timeframe) ([]domain.Candle, error) {
	svc := p.client.NewKlinesService().
		Symbol(symbol).
		Interval(tf.Label)
	if p.limit > 0 {
		svc = svc.Limit(p.limit)
	}

	klines, err := svc.Do(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch klines from Binance for %s %s", symbol, tf)
	}

	if len(klines) == 0 {
		return nil, ErrNoData
	}

	result := make([]domain.Candle, len(klines))
	for i, k := range klines {
		values := make([]float64, 0, 5)
		for _, field := range []struct{ name, raw string }{
			{"open", k.Open}, {"high", k.High}, {"low", k.Low}, {"close", k.Close}, {"volume", k.Volume},
		} {
			d, err := decimal.NewFromString(field.raw)
			if err != nil {
				return nil, errors.Wrapf(err, "failed to parse %s price at index %d", field.name, i)
			}
			f, _ := d.Float64()
			values = append(values, f)
		}

		result[i] = domain.Candle{
			Timestamp: k.OpenTime,
			Open:      values[0],
			High:      values[1],
			Low:       values[2],
			Close:     values[3],
			Volume:    values[4],
		}
	}

	return result, nil
}
