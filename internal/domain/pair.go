// Package domain defines core data structures used throughout the scanner.
package domain

import "fmt"

// Market represents a tradable pair as listed by an exchange.
type Market struct {
	// Symbol exchange identifier passed to the candle endpoint.
	Symbol string
	// Base base currency symbol.
	Base string
	// Quote quote currency symbol.
	Quote string
}

// String returns the string representation.
func (m Market) String() string {
	return fmt.Sprintf("%s (%s/%s)", m.Symbol, m.Base, m.Quote)
}

// QuotedIn reports whether the market is quoted in the reference currency
// and does not use it as base.
func (m Market) QuotedIn(reference string) bool {
	return m.Quote == reference && m.Base != reference
}

// FilterQuoted keeps markets quoted in the reference currency, preserving order.
func FilterQuoted(markets []Market, reference string) []Market {
	result := make([]Market, 0, len(markets))
	for _, m := range markets {
		if m.QuotedIn(reference) {
			result = append(result, m)
		}
	}
	return result
}
