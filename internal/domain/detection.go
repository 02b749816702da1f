package domain

// Detection represents the candle that matched the EMA pattern for one market and timeframe.
type Detection struct {
	Market    Market
	Timeframe Timeframe
	Candle    Candle
	// Index position of the candle in the fetched series.
	Index int
	// Rule name of the rule that fired.
	Rule string
}
