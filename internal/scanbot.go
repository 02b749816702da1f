package internal

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/vadiminshakov/emascan/config"
	"github.com/vadiminshakov/emascan/internal/domain"
	"github.com/vadiminshakov/emascan/internal/services/detector"
	"github.com/vadiminshakov/emascan/internal/services/market/collector"
	"github.com/vadiminshakov/emascan/internal/services/notifier"
)

// ErrNoMarkets is logged when a cycle has nothing to scan.
var ErrNoMarkets = errors.New("no pairs found")

// MarketProvider lists markets and fetches candles from one exchange.
type MarketProvider = collector.MarketProvider

// Notifier delivers a text message.
type Notifier interface {
	Send(ctx context.Context, text string) error
}

// Sleeper blocks for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// CycleReport summarises one pass over all markets and timeframes.
type CycleReport struct {
	CycleID string
	Markets int
	// Evaluated combinations whose candles reached the detector.
	Evaluated int
	// Skipped combinations with an empty candle series.
	Skipped int
	// Failed combinations whose fetch or evaluation returned an error.
	Failed         int
	Detections     []domain.Detection
	NotifyFailures int
}

// ScanBot polls the exchange, runs the detector and notifies about matches.
type ScanBot struct {
	conf     config.Config
	provider MarketProvider
	notifier Notifier
	detector *detector.Detector
	logger   *zap.Logger
	sleep    Sleeper
	now      func() time.Time
	loc      *time.Location
}

// ScanBotOption configures ScanBot.
type ScanBotOption func(*ScanBot)

// WithSleeper replaces the wait between cycles.
func WithSleeper(s Sleeper) ScanBotOption {
	return func(b *ScanBot) {
		b.sleep = s
	}
}

// WithClock replaces the clock used for cycle log timestamps.
func WithClock(now func() time.Time) ScanBotOption {
	return func(b *ScanBot) {
		b.now = now
	}
}

// WithLocation sets the timezone used in notification timestamps.
func WithLocation(loc *time.Location) ScanBotOption {
	return func(b *ScanBot) {
		b.loc = loc
	}
}

// NewScanBot creates a scan bot instance.
func NewScanBot(conf config.Config, provider MarketProvider, n Notifier, logger *zap.Logger, opts ...ScanBotOption) *ScanBot {
	near, _ := conf.NearThresholdPercent.Float64()
	touch, _ := conf.TouchThresholdPercent.Float64()

	b := &ScanBot{
		conf:     conf,
		provider: provider,
		notifier: n,
		detector: detector.New(
			detector.WithNearThreshold(near),
			detector.WithTouchThreshold(touch),
			detector.WithLookback(conf.Lookback),
		),
		logger: logger,
		sleep:  sleepContext,
		now:    time.Now,
		loc:    conf.Location,
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Run sends the startup message and scans every ScanInterval until ctx is cancelled.
func (b *ScanBot) Run(ctx context.Context) error {
	b.logger.Info("Starting scan loop",
		zap.String("exchange", b.provider.Name()),
		zap.Duration("scan_interval", b.conf.ScanInterval))

	if err := b.notifier.Send(ctx, notifier.FormatStartup(b.provider.Name())); err != nil {
		b.logger.Error("Failed to send startup message", zap.Error(err))
	}

	for {
		b.RunCycle(ctx)

		b.logger.Debug("Waiting for next cycle", zap.Duration("interval", b.conf.ScanInterval))
		if err := b.sleep(ctx, b.conf.ScanInterval); err != nil {
			b.logger.Info("Context done, stopping scan loop")
			return err
		}
	}
}

// RunCycle scans every market and timeframe once. Errors are logged and never stop the cycle.
func (b *ScanBot) RunCycle(ctx context.Context) CycleReport {
	report := CycleReport{CycleID: uuid.NewString()}
	logger := b.logger.With(zap.String("cycle_id", report.CycleID))

	logger.Info("Starting new scan cycle", zap.Time("at", b.now().UTC()))

	markets, err := b.provider.GetMarkets(ctx, b.conf.QuoteCurrency)
	if err != nil {
		logger.Error("Failed to fetch markets", zap.Error(err))
	}
	if len(markets) == 0 {
		logger.Warn("No pairs found, skipping scan", zap.Error(ErrNoMarkets))
		return report
	}

	report.Markets = len(markets)
	logger.Info("Scanning markets", zap.Int("markets", len(markets)), zap.Int("timeframes", len(b.conf.Timeframes)))

	for _, market := range markets {
		for _, tf := range b.conf.Timeframes {
			if ctx.Err() != nil {
				logger.Info("Context done, interrupting scan cycle")
				return report
			}
			b.scanOne(ctx, logger, market, tf, &report)
		}
	}

	logger.Info("Scan cycle finished",
		zap.Time("at", b.now().UTC()),
		zap.Int("evaluated", report.Evaluated),
		zap.Int("skipped", report.Skipped),
		zap.Int("failed", report.Failed),
		zap.Int("detections", len(report.Detections)),
		zap.Int("notify_failures", report.NotifyFailures))

	return report
}

func (b *ScanBot) scanOne(ctx context.Context, logger *zap.Logger, market domain.Market, tf domain.Timeframe, report *CycleReport) {
	logger = logger.With(zap.String("pair", market.Symbol), zap.String("timeframe", tf.Label))

	candles, err := b.provider.GetCandles(ctx, market.Symbol, tf)
	if err != nil {
		if errors.Is(err, collector.ErrNoData) {
			logger.Debug("No candle data, skipping")
			report.Skipped++
		} else {
			logger.Error("Failed to fetch candles", zap.Error(err))
			report.Failed++
		}
		return
	}

	match, found, err := b.detector.Scan(candles)
	if err != nil {
		logger.Error("Failed to evaluate candles", zap.Error(err))
		report.Failed++
		return
	}
	report.Evaluated++

	if !found {
		return
	}

	detection := domain.Detection{
		Market:    market,
		Timeframe: tf,
		Candle:    candles[match.Index],
		Index:     match.Index,
		Rule:      match.Rule.String(),
	}
	report.Detections = append(report.Detections, detection)

	logger.Info("Pattern detected",
		zap.String("rule", detection.Rule),
		zap.Int("index", match.Index),
		zap.Time("candle_time", detection.Candle.Time().UTC()))

	if err := b.notifier.Send(ctx, notifier.FormatDetection(detection, b.loc)); err != nil {
		logger.Error("Failed to send notification", zap.Error(err))
		report.NotifyFailures++
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
