package internal

import (
	"fmt"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/vadiminshakov/emascan/config"
	"github.com/vadiminshakov/emascan/internal/clients"
	"github.com/vadiminshakov/emascan/internal/services/market/collector"
	"github.com/vadiminshakov/emascan/internal/services/notifier"
)

// NewMarketProvider is the single point of dispatch to platform-specific market data providers.
func NewMarketProvider(conf config.Config, httpClient *clients.HTTPClient) (MarketProvider, error) {
	switch conf.Platform {
	case config.PlatformCoinDCX:
		return collector.NewCoinDCXProvider(httpClient, conf.ExchangeAPIBase, conf.CandlesURL, conf.CandleLimit), nil
	case config.PlatformBinance:
		return collector.NewBinanceProvider(clients.NewBinanceClient(conf.ExchangeAPIBase), conf.CandleLimit), nil
	case config.PlatformBybit:
		return collector.NewBybitProvider(clients.NewBybitClient(conf.ExchangeAPIBase), conf.CandleLimit), nil
	default:
		return nil, fmt.Errorf("unsupported platform: %s", conf.Platform)
	}
}

// NewScanBotFromConfig wires the provider, the Telegram notifier and the detector settings.
func NewScanBotFromConfig(conf config.Config, logger *zap.Logger, opts ...ScanBotOption) (*ScanBot, error) {
	httpClient := clients.NewHTTPClient(conf.RequestTimeout)

	provider, err := NewMarketProvider(conf, httpClient)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create market provider")
	}

	telegram, err := notifier.NewTelegramNotifier(httpClient, notifier.TelegramConfig{
		APIBase:   conf.Telegram.APIBase,
		Token:     conf.Telegram.Token,
		ChatID:    conf.Telegram.ChatID,
		ParseMode: conf.Telegram.ParseMode,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create telegram notifier")
	}

	return NewScanBot(conf, provider, telegram, logger, opts...), nil
}
