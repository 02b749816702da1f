package clients

import (
	"github.com/adshao/go-binance/v2"
)

// NewBinanceClient returns a Binance client for public market data.
// An empty baseURL keeps the library default endpoint.
func NewBinanceClient(baseURL string) *binance.Client {
	client := binance.NewClient("", "")
	if baseURL != "" {
		client.BaseURL = baseURL
	}
	return client
}
