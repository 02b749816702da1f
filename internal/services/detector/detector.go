// Package detector decides whether a candle sits on the short EMAs in the
// bullish shape the scanner alerts on.
package detector

import (
	"math"

	"github.com/pkg/errors"
	"github.com/vadiminshakov/emascan/internal/domain"
	"github.com/vadiminshakov/emascan/pkg/indicators"
)

const (
	// DefaultThresholdPercent band half-width around an EMA, in percent of the EMA value.
	DefaultThresholdPercent = 0.15
	// DefaultLookback number of most recent candles examined per scan.
	DefaultLookback = 4
)

// Rule identifies which branch of the predicate matched.
type Rule int

const (
	RuleNone Rule = iota
	// RuleConfluence body near EMA9, EMA15 and EMA50.
	RuleConfluence
	// RuleRejection200 body near EMA9 and EMA15 while the wick touches EMA200 and the body stays off it.
	RuleRejection200
)

// String returns a human-readable representation.
func (r Rule) String() string {
	switch r {
	case RuleConfluence:
		return "ema_confluence"
	case RuleRejection200:
		return "ema200_rejection"
	default:
		return "none"
	}
}

// Series holds candles together with their EMA series, aligned by index.
type Series struct {
	Candles []domain.Candle
	indicators.EMASet
}

// NewSeries computes the EMA series from candle closes.
func NewSeries(candles []domain.Candle) (Series, error) {
	set, err := indicators.CalculateEMASet(domain.Closes(candles))
	if err != nil {
		return Series{}, errors.Wrap(err, "failed to calculate EMAs")
	}
	return Series{Candles: candles, EMASet: set}, nil
}

// Len returns the number of indexes usable by the predicate.
func (s Series) Len() int {
	return min(len(s.Candles), s.EMASet.Len())
}

// Match describes the candle found by a scan over the most recent candles.
type Match struct {
	Index int
	Rule  Rule
}

// Detector evaluates the EMA pattern.
type Detector struct {
	nearPercent  float64
	touchPercent float64
	lookback     int
}

// Option configures the Detector.
type Option func(*Detector)

// WithNearThreshold sets the body-near band in percent.
func WithNearThreshold(percent float64) Option {
	return func(d *Detector) {
		d.nearPercent = percent
	}
}

// WithTouchThreshold sets the EMA200 wick-touch tolerance in percent.
func WithTouchThreshold(percent float64) Option {
	return func(d *Detector) {
		d.touchPercent = percent
	}
}

// WithLookback sets how many recent candles Scan examines.
func WithLookback(n int) Option {
	return func(d *Detector) {
		d.lookback = n
	}
}

// New creates a Detector with default thresholds and optional overrides.
func New(opts ...Option) *Detector {
	d := &Detector{
		nearPercent:  DefaultThresholdPercent,
		touchPercent: DefaultThresholdPercent,
		lookback:     DefaultLookback,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Check reports whether the candle at index qualifies. Out-of-range indexes never qualify.
func (d *Detector) Check(s Series, index int) bool {
	_, ok := d.Evaluate(s, index)
	return ok
}

// Evaluate is Check that also reports the matched rule.
func (d *Detector) Evaluate(s Series, index int) (Rule, bool) {
	if index < 0 || index >= s.Len() {
		return RuleNone, false
	}

	candle := s.Candles[index]
	if !candle.IsGreen() {
		return RuleNone, false
	}

	near9 := d.bodyNear(candle, s.EMA9[index])
	near15 := d.bodyNear(candle, s.EMA15[index])
	if !near9 || !near15 {
		return RuleNone, false
	}

	if d.bodyNear(candle, s.EMA50[index]) {
		return RuleConfluence, true
	}

	ema200 := s.EMA200[index]
	if d.touches(candle, ema200) && !d.bodyNear(candle, ema200) {
		return RuleRejection200, true
	}

	return RuleNone, false
}

// Scan computes EMAs over candles and walks the last lookback candles newest
// first, returning the first match.
func (d *Detector) Scan(candles []domain.Candle) (Match, bool, error) {
	series, err := NewSeries(candles)
	if err != nil {
		return Match{}, false, err
	}

	last := series.Len() - 1
	for i := last; i > last-d.lookback && i >= 0; i-- {
		if rule, ok := d.Evaluate(series, i); ok {
			return Match{Index: i, Rule: rule}, true, nil
		}
	}

	return Match{}, false, nil
}

// bodyNear reports whether [bodyLow, bodyHigh] overlaps the band around ema.
func (d *Detector) bodyNear(c domain.Candle, ema float64) bool {
	threshold := ema * (d.nearPercent / 100)
	return c.BodyLow() <= ema+threshold && c.BodyHigh() >= ema-threshold
}

// touches reports whether the low or the high lies within the tolerance of ema.
func (d *Detector) touches(c domain.Candle, ema float64) bool {
	tolerance := ema * d.touchPercent / 100
	return math.Abs(c.Low-ema) <= tolerance || math.Abs(c.High-ema) <= tolerance
}
