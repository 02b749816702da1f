package config

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/emascan/internal/domain"
	"gopkg.in/yaml.v3"
)

const (
	PlatformCoinDCX = "coindcx"
	PlatformBinance = "binance"
	PlatformBybit   = "bybit"

	envTelegramToken  = "TELEGRAM_BOT_TOKEN"
	envTelegramChatID = "TELEGRAM_CHAT_ID"
)

type Config struct {
	Platform              string
	ExchangeAPIBase       string
	CandlesURL            string
	QuoteCurrency         string
	Timeframes            []domain.Timeframe
	CandleLimit           int
	ScanInterval          time.Duration
	RequestTimeout        time.Duration
	Lookback              int
	NearThresholdPercent  decimal.Decimal
	TouchThresholdPercent decimal.Decimal
	Telegram              TelegramConfig
	Location              *time.Location
	Log                   LogConfig
}

type TelegramConfig struct {
	APIBase   string `yaml:"api_base"`
	Token     string `yaml:"token"`
	ChatID    string `yaml:"chat_id"`
	ParseMode string `yaml:"parse_mode"`
}

// LogConfig controls log level, console encoding and the optional rotated file output.
type LogConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"`
	OutputFile string `yaml:"output_file"`
}

type ConfigTmp struct {
	Platform                 string         `yaml:"platform"`
	ExchangeAPIBase          string         `yaml:"exchange_api_base"`
	CandlesURL               string         `yaml:"candles_url"`
	QuoteCurrency            string         `yaml:"quote_currency"`
	Timeframes               []string       `yaml:"timeframes"`
	CandleLimit              int            `yaml:"candle_limit"`
	ScanInterval             time.Duration  `yaml:"scan_interval"`
	RequestTimeout           time.Duration  `yaml:"request_timeout"`
	Lookback                 int            `yaml:"lookback"`
	NearThresholdPercentStr  string         `yaml:"near_threshold_percent,omitempty"`
	TouchThresholdPercentStr string         `yaml:"touch_threshold_percent,omitempty"`
	Telegram                 TelegramConfig `yaml:"telegram"`
	Timezone                 string         `yaml:"timezone"`
	Log                      LogConfig      `yaml:"log"`
}

// Default returns the configuration the scanner runs with when no file is given.
func Default() Config {
	return Config{
		Platform:              PlatformCoinDCX,
		QuoteCurrency:         "USDT",
		Timeframes:            domain.DefaultTimeframes(),
		ScanInterval:          2 * time.Minute,
		RequestTimeout:        15 * time.Second,
		Lookback:              4,
		NearThresholdPercent:  decimal.RequireFromString("0.15"),
		TouchThresholdPercent: decimal.RequireFromString("0.15"),
		Telegram: TelegramConfig{
			APIBase:   "https://api.telegram.org",
			ParseMode: "Markdown",
		},
		Location: time.Local,
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Get reads --config, applies environment overrides and validates the result.
func Get() (Config, error) {
	path := flag.String("config", "", "path to yaml config")
	flag.Parse()

	conf := Default()
	if *path != "" {
		var err error
		if conf, err = Load(*path); err != nil {
			return Config{}, err
		}
	}

	conf.applyEnv()

	if err := conf.Validate(); err != nil {
		return Config{}, err
	}

	return conf, nil
}

// Load reads a YAML file. Fields missing from the file keep their defaults.
func Load(path string) (Config, error) {
	f, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	return parse(f)
}

func parse(data []byte) (Config, error) {
	var c ConfigTmp
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("failed to decode yaml config: %w", err)
	}

	conf := Default()

	if c.Platform != "" {
		conf.Platform = strings.ToLower(c.Platform)
	}
	conf.ExchangeAPIBase = c.ExchangeAPIBase
	conf.CandlesURL = c.CandlesURL
	if c.QuoteCurrency != "" {
		conf.QuoteCurrency = strings.ToUpper(c.QuoteCurrency)
	}

	if len(c.Timeframes) > 0 {
		conf.Timeframes = make([]domain.Timeframe, 0, len(c.Timeframes))
		for _, label := range c.Timeframes {
			tf, err := domain.ParseTimeframe(label)
			if err != nil {
				return Config{}, fmt.Errorf("incorrect 'timeframes' param in yaml config: %w", err)
			}
			conf.Timeframes = append(conf.Timeframes, tf)
		}
	}

	conf.CandleLimit = c.CandleLimit
	if c.ScanInterval != 0 {
		conf.ScanInterval = c.ScanInterval
	}
	if c.RequestTimeout != 0 {
		conf.RequestTimeout = c.RequestTimeout
	}
	if c.Lookback != 0 {
		conf.Lookback = c.Lookback
	}

	if c.NearThresholdPercentStr != "" {
		v, err := decimal.NewFromString(c.NearThresholdPercentStr)
		if err != nil {
			return Config{}, fmt.Errorf("incorrect 'near_threshold_percent' param in yaml config (correct format is 0.15), error: %w", err)
		}
		conf.NearThresholdPercent = v
	}
	if c.TouchThresholdPercentStr != "" {
		v, err := decimal.NewFromString(c.TouchThresholdPercentStr)
		if err != nil {
			return Config{}, fmt.Errorf("incorrect 'touch_threshold_percent' param in yaml config (correct format is 0.15), error: %w", err)
		}
		conf.TouchThresholdPercent = v
	}

	if c.Telegram.APIBase != "" {
		conf.Telegram.APIBase = c.Telegram.APIBase
	}
	conf.Telegram.Token = c.Telegram.Token
	conf.Telegram.ChatID = c.Telegram.ChatID
	if c.Telegram.ParseMode != "" {
		conf.Telegram.ParseMode = c.Telegram.ParseMode
	}

	if c.Timezone != "" {
		loc, err := time.LoadLocation(c.Timezone)
		if err != nil {
			return Config{}, fmt.Errorf("incorrect 'timezone' param in yaml config: %w", err)
		}
		conf.Location = loc
	}

	if c.Log.Level != "" {
		conf.Log.Level = c.Log.Level
	}
	if c.Log.Format != "" {
		conf.Log.Format = c.Log.Format
	}
	conf.Log.OutputFile = c.Log.OutputFile

	return conf, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(envTelegramToken); v != "" {
		c.Telegram.Token = v
	}
	if v := os.Getenv(envTelegramChatID); v != "" {
		c.Telegram.ChatID = v
	}
}

// Validate checks values that would make the scanner misbehave.
func (c Config) Validate() error {
	switch c.Platform {
	case PlatformCoinDCX, PlatformBinance, PlatformBybit:
	default:
		return fmt.Errorf("unsupported platform %q", c.Platform)
	}

	if c.QuoteCurrency == "" {
		return fmt.Errorf("quote currency must not be empty")
	}
	if len(c.Timeframes) == 0 {
		return fmt.Errorf("at least one timeframe is required")
	}
	for _, tf := range c.Timeframes {
		if _, err := domain.ParseTimeframe(tf.Label); err != nil {
			return err
		}
	}
	if c.ScanInterval <= 0 {
		return fmt.Errorf("scan interval must be positive, got %s", c.ScanInterval)
	}
	if c.Lookback <= 0 {
		return fmt.Errorf("lookback must be positive, got %d", c.Lookback)
	}
	if c.CandleLimit < 0 {
		return fmt.Errorf("candle limit must not be negative, got %d", c.CandleLimit)
	}
	if c.NearThresholdPercent.IsNegative() {
		return fmt.Errorf("near threshold must not be negative, got %s", c.NearThresholdPercent)
	}
	if c.TouchThresholdPercent.IsNegative() {
		return fmt.Errorf("touch threshold must not be negative, got %s", c.TouchThresholdPercent)
	}

	return nil
}
