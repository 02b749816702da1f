package notifier

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
	"github.com/vadiminshakov/emascan/internal/clients"
)

const (
	DefaultTelegramAPIBase = "https://api.telegram.org"
	DefaultParseMode       = "Markdown"
)

// TelegramConfig holds bot credentials and the target chat.
type TelegramConfig struct {
	APIBase   string
	Token     string
	ChatID    string
	ParseMode string
}

// TelegramNotifier sends text messages through the Telegram Bot API.
type TelegramNotifier struct {
	http      *clients.HTTPClient
	url       string
	token     string
	chatID    string
	parseMode string
}

type sendMessageRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode,omitempty"`
}

// NewTelegramNotifier creates a notifier bound to one chat.
func NewTelegramNotifier(httpClient *clients.HTTPClient, cfg TelegramConfig) (*TelegramNotifier, error) {
	if cfg.Token == "" {
		return nil, errors.New("telegram bot token is required")
	}
	if cfg.ChatID == "" {
		return nil, errors.New("telegram chat id is required")
	}

	apiBase := strings.TrimRight(cfg.APIBase, "/")
	if apiBase == "" {
		apiBase = DefaultTelegramAPIBase
	}

	return &TelegramNotifier{
		http:      httpClient,
		url:       apiBase + "/bot" + cfg.Token + "/sendMessage",
		token:     cfg.Token,
		chatID:    cfg.ChatID,
		parseMode: cfg.ParseMode,
	}, nil
}

// Send posts text to the configured chat. A non-2xx status or "ok": false is an error.
func (n *TelegramNotifier) Send(ctx context.Context, text string) error {
	body, err := n.http.PostJSON(ctx, n.url, sendMessageRequest{
		ChatID:    n.chatID,
		Text:      text,
		ParseMode: n.parseMode,
	})
	if err != nil {
		var statusErr *clients.StatusError
		if errors.As(err, &statusErr) {
			if desc := gjson.GetBytes(body, "description").String(); desc != "" {
				return errors.Errorf("telegram API returned %d: %s", statusErr.Code, desc)
			}
		}
		// the URL carries the bot token, keep it out of the error
		return errors.New("failed to send telegram message: " + strings.ReplaceAll(err.Error(), n.token, "<redacted>"))
	}

	if ok := gjson.GetBytes(body, "ok"); ok.Exists() && !ok.Bool() {
		return errors.Errorf("telegram API rejected message: %s", gjson.GetBytes(body, "description").String())
	}

	return nil
}
