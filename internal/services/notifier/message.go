// Package notifier formats scan results and delivers them to a Telegram chat.
package notifier

import (
	"fmt"
	"strings"
	"time"

	"github.com/vadiminshakov/emascan/internal/domain"
)

const timeLayout = "2006-01-02 15:04:05"

// FormatDetection renders the alert for a matched candle. The candle time is shown in loc,
// nil means time.Local.
func FormatDetection(d domain.Detection, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}

	var b strings.Builder
	b.WriteString("🎯 Pattern detected!\n")
	fmt.Fprintf(&b, "Pair: %s\n", d.Market.Symbol)
	fmt.Fprintf(&b, "Timeframe: %s\n", d.Timeframe.Label)
	fmt.Fprintf(&b, "Time: %s", d.Candle.Time().In(loc).Format(timeLayout))

	return b.String()
}

// FormatStartup renders the message sent once before the first scan.
func FormatStartup(exchange string) string {
	return fmt.Sprintf("🚀 %s Scanner Bot is starting up!", exchange)
}
