// Command emascan scans exchange markets for green candles meeting EMA 9/15/50/200
// and reports every match to a Telegram chat.
//
// Usage:
//
//	emascan --config config.yaml
//	emascan (uses built-in CoinDCX defaults)
//
// Required environment variables unless set in the config file:
//
//	TELEGRAM_BOT_TOKEN, TELEGRAM_CHAT_ID
package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/vadiminshakov/emascan/config"
	"github.com/vadiminshakov/emascan/internal"
	"github.com/vadiminshakov/emascan/internal/logger"
)

func main() {
	conf, err := config.Get()
	if err != nil {
		log.Fatal(err)
	}

	l, err := logger.New(conf.Log)
	if err != nil {
		log.Fatal(err)
	}
	defer l.Sync() //nolint:errcheck
	zap.ReplaceGlobals(l)

	bot, err := internal.NewScanBotFromConfig(conf, l)
	if err != nil {
		l.Fatal("failed to create scan bot", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := bot.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		l.Error("scan bot stopped", zap.Error(err))
		return
	}

	l.Info("scan bot stopped")
}
