package clients

import (
	"github.com/hirokisan/bybit/v2"
)

// NewBybitClient returns an unauthenticated Bybit client for V5 market data.
// An empty baseURL keeps the library default endpoint.
func NewBybitClient(baseURL string) *bybit.Client {
	client := bybit.NewClient()
	if baseURL != "" {
		client = client.WithBaseURL(baseURL)
	}

	return client
}
