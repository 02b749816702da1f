package collector

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
	"github.com/vadiminshakov/emascan/internal/clients"
	"github.com/vadiminshakov/emascan/internal/domain"
)

const (
	DefaultCoinDCXAPIBase    = "https://api.coindcx.com/exchange/v1"
	DefaultCoinDCXCandlesURL = "https://public.coindcx.com/market_data/candles"
)

var _ MarketProvider = (*CoinDCXProvider)(nil)

// CoinDCXProvider implements MarketProvider against the CoinDCX public API.
type CoinDCXProvider struct {
	http       *clients.HTTPClient
	apiBase    string
	candlesURL string
	limit      int
}

// NewCoinDCXProvider creates a CoinDCX provider. limit <= 0 leaves the candle
// count to the exchange default.
func NewCoinDCXProvider(httpClient *clients.HTTPClient, apiBase, candlesURL string, limit int) *CoinDCXProvider {
	if apiBase == "" {
		apiBase = DefaultCoinDCXAPIBase
	}
	if candlesURL == "" {
		candlesURL = DefaultCoinDCXCandlesURL
	}

	return &CoinDCXProvider{
		http:       httpClient,
		apiBase:    strings.TrimRight(apiBase, "/"),
		candlesURL: candlesURL,
		limit:      limit,
	}
}

// Name returns the exchange display name.
func (p *CoinDCXProvider) Name() string {
	return "CoinDCX"
}

// GetMarkets fetches the market listing and keeps markets quoted in quote.
func (p *CoinDCXProvider) GetMarkets(ctx context.Context, quote string) ([]domain.Market, error) {
	body, err := p.http.Get(ctx, p.apiBase+"/markets", nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch markets from CoinDCX")
	}

	markets, err := parseMarkets(body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse CoinDCX markets")
	}

	return domain.FilterQuoted(markets, quote), nil
}

// GetCandles fetches candles for symbol with the timeframe length in minutes as interval.
func (p *CoinDCXProvider) GetCandles(ctx context.Context, symbol string, tf domain.Timeframe) ([]domain.Candle, error) {
	query := map[string]string{
		"pair":     symbol,
		"interval": strconv.Itoa(tf.Minutes),
	}
	if p.limit > 0 {
		query["limit"] = strconv.Itoa(p.limit)
	}

	body, err := p.http.Get(ctx, p.candlesURL, query)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch candles from CoinDCX for %s %s", symbol, tf)
	}

	candles, err := parseCandles(body)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse CoinDCX candles for %s %s", symbol, tf)
	}

	if len(candles) == 0 {
		return nil, ErrNoData
	}

	return candles, nil
}

// parseMarkets accepts either an array of market objects or an object keyed by symbol.
func parseMarkets(body []byte) ([]domain.Market, error) {
	if !gjson.ValidBytes(body) {
		return nil, errors.New("malformed JSON")
	}

	root := gjson.ParseBytes(body)
	var markets []domain.Market

	switch {
	case root.IsArray():
		for _, m := range root.Array() {
			if !m.IsObject() {
				continue
			}
			symbol := m.Get("market").String()
			if symbol == "" {
				symbol = m.Get("symbol").String()
			}
			if symbol == "" {
				continue
			}
			markets = append(markets, marketFromJSON(symbol, m))
		}
	case root.IsObject():
		root.ForEach(func(key, m gjson.Result) bool {
			if m.IsObject() {
				markets = append(markets, marketFromJSON(key.String(), m))
			}
			return true
		})
	default:
		return nil, errors.Errorf("unexpected markets payload type %s", root.Type)
	}

	return markets, nil
}

func marketFromJSON(symbol string, m gjson.Result) domain.Market {
	return domain.Market{
		Symbol: symbol,
		Base:   m.Get("base_currency").String(),
		Quote:  m.Get("quote_currency").String(),
	}
}

// parseCandles accepts rows as [ts, o, h, l, c, v] arrays or as objects and
// returns them sorted oldest first.
func parseCandles(body []byte) ([]domain.Candle, error) {
	if !gjson.ValidBytes(body) {
		return nil, errors.New("malformed JSON")
	}

	root := gjson.ParseBytes(body)
	if !root.IsArray() {
		return nil, errors.Errorf("unexpected candles payload type %s", root.Type)
	}

	rows := root.Array()
	candles := make([]domain.Candle, 0, len(rows))
	for i, row := range rows {
		c, err := parseCandleRow(row)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse candle at index %d", i)
		}
		candles = append(candles, c)
	}

	sort.SliceStable(candles, func(i, j int) bool {
		return candles[i].Timestamp < candles[j].Timestamp
	})

	return candles, nil
}

func parseCandleRow(row gjson.Result) (domain.Candle, error) {
	var fields [6]gjson.Result

	switch {
	case row.IsArray():
		values := row.Array()
		if len(values) < 6 {
			return domain.Candle{}, errors.Errorf("expected 6 fields, got %d", len(values))
		}
		copy(fields[:], values[:6])
	case row.IsObject():
		for i, name := range []string{"time", "open", "high", "low", "close", "volume"} {
			fields[i] = row.Get(name)
		}
	default:
		return domain.Candle{}, errors.Errorf("unexpected row type %s", row.Type)
	}

	ts, err := parseNumber(fields[0])
	if err != nil {
		return domain.Candle{}, errors.Wrap(err, "timestamp")
	}

	var prices [5]float64
	for i, name := range []string{"open", "high", "low", "close", "volume"} {
		v, err := parseNumber(fields[i+1])
		if err != nil {
			return domain.Candle{}, errors.Wrap(err, name)
		}
		prices[i], _ = v.Float64()
	}

	return domain.Candle{
		Timestamp: ts.IntPart(),
		Open:      prices[0],
		High:      prices[1],
		Low:       prices[2],
		Close:     prices[3],
		Volume:    prices[4],
	}, nil
}

// parseNumber reads a JSON number or a numeric string.
func parseNumber(v gjson.Result) (decimal.Decimal, error) {
	switch v.Type {
	case gjson.Number:
		return decimal.NewFromString(v.Raw)
	case gjson.String:
		return decimal.NewFromString(strings.TrimSpace(v.Str))
	default:
		return decimal.Decimal{}, errors.Errorf("expected number, got %s", v.Type)
	}
}
