package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vadiminshakov/emascan/internal/domain"
)

func TestDefault(t *testing.T) {
	conf := Default()

	require.NoError(t, conf.Validate())
	assert.Equal(t, PlatformCoinDCX, conf.Platform)
	assert.Equal(t, "USDT", conf.QuoteCurrency)
	assert.Equal(t, domain.DefaultTimeframes(), conf.Timeframes)
	assert.Equal(t, 2*time.Minute, conf.ScanInterval)
	assert.Equal(t, 4, conf.Lookback)
	assert.True(t, conf.NearThresholdPercent.Equal(decimal.RequireFromString("0.15")))
	assert.True(t, conf.TouchThresholdPercent.Equal(decimal.RequireFromString("0.15")))
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
platform: Binance
quote_currency: usdt
timeframes: ["1h", "5m"]
candle_limit: 500
scan_interval: 5m
request_timeout: 3s
lookback: 6
near_threshold_percent: "0.2"
touch_threshold_percent: "0.1"
timezone: Asia/Kolkata
telegram:
  token: abc
  chat_id: "42"
log:
  level: debug
  output_file: /tmp/emascan/scan.log
`), 0o600))

	conf, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, conf.Validate())

	assert.Equal(t, PlatformBinance, conf.Platform)
	assert.Equal(t, "USDT", conf.QuoteCurrency)
	assert.Equal(t, []domain.Timeframe{domain.Timeframe1h, domain.Timeframe5m}, conf.Timeframes)
	assert.Equal(t, 500, conf.CandleLimit)
	assert.Equal(t, 5*time.Minute, conf.ScanInterval)
	assert.Equal(t, 3*time.Second, conf.RequestTimeout)
	assert.Equal(t, 6, conf.Lookback)
	assert.True(t, conf.NearThresholdPercent.Equal(decimal.RequireFromString("0.2")))
	assert.True(t, conf.TouchThresholdPercent.Equal(decimal.RequireFromString("0.1")))
	assert.Equal(t, "Asia/Kolkata", conf.Location.String())
	assert.Equal(t, "abc", conf.Telegram.Token)
	assert.Equal(t, "42", conf.Telegram.ChatID)
	assert.Equal(t, "Markdown", conf.Telegram.ParseMode)
	assert.Equal(t, "debug", conf.Log.Level)
	assert.Equal(t, "console", conf.Log.Format)
	assert.Equal(t, "/tmp/emascan/scan.log", conf.Log.OutputFile)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "unknown timeframe", body: "timeframes: [\"4h\"]"},
		{name: "bad threshold", body: "near_threshold_percent: \"abc\""},
		{name: "bad timezone", body: "timezone: Mars/Olympus"},
		{name: "invalid yaml", body: "platform: [coindcx"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parse([]byte(tt.body))
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Config)
	}{
		{name: "unknown platform", modify: func(c *Config) { c.Platform = "kraken" }},
		{name: "empty quote", modify: func(c *Config) { c.QuoteCurrency = "" }},
		{name: "no timeframes", modify: func(c *Config) { c.Timeframes = nil }},
		{name: "unsupported timeframe", modify: func(c *Config) { c.Timeframes = []domain.Timeframe{{Label: "4h", Minutes: 240}} }},
		{name: "zero interval", modify: func(c *Config) { c.ScanInterval = 0 }},
		{name: "zero lookback", modify: func(c *Config) { c.Lookback = 0 }},
		{name: "negative limit", modify: func(c *Config) { c.CandleLimit = -1 }},
		{name: "negative near threshold", modify: func(c *Config) { c.NearThresholdPercent = decimal.NewFromInt(-1) }},
		{name: "negative touch threshold", modify: func(c *Config) { c.TouchThresholdPercent = decimal.NewFromInt(-1) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conf := Default()
			tt.modify(&conf)
			assert.Error(t, conf.Validate())
		})
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(envTelegramToken, "from-env")
	t.Setenv(envTelegramChatID, "7")

	conf := Default()
	conf.Telegram.Token = "from-file"
	conf.applyEnv()

	assert.Equal(t, "from-env", conf.Telegram.Token)
	assert.Equal(t, "7", conf.Telegram.ChatID)
}

func TestValidate_Platforms(t *testing.T) {
	for _, platform := range []string{PlatformCoinDCX, PlatformBinance, PlatformBybit} {
		t.Run(platform, func(t *testing.T) {
			conf := Default()
			conf.Platform = platform
			assert.NoError(t, conf.Validate())
		})
	}
}
