// Package anomaly flags unusual date ranges in a price series. Day-over-day
// changes are compared against an exponentially weighted volatility
// estimate; dates whose change exceeds the normal critical value for the
// requested confidence level are unusual, and consecutive unusual dates are
// grouped into ranges.
package anomaly

import (
	"errors"
	"math"
	"time"
)

// DefaultConfidence is the two-sided significance level used when the
// caller does not specify one.
const DefaultConfidence = 0.05

// ewmaLambda is the RiskMetrics decay factor for the volatility estimate.
const ewmaLambda = 0.94

// ErrTooFewPoints is returned when fewer than two prices are supplied.
var ErrTooFewPoints = errors.New("not enough price data to compute daily changes")

// ErrNoUnusualDates is returned when no change clears the critical
// threshold.
var ErrNoUnusualDates = errors.New("no unusual dates found with the specified threshold")

// Range is one flagged sub-interval.
type Range struct {
	Start time.Time
	End   time.Time
}

// DetectRanges finds unusual date ranges in a series of prices observed at
// the given times. times and prices must be equal length and time-ordered.
func DetectRanges(times []time.Time, prices []float64, confidence float64) ([]Range, error) {
	if len(times) != len(prices) {
		return nil, errors.New("times and prices must have equal length")
	}
	if len(prices) < 2 {
		return nil, ErrTooFewPoints
	}
	if confidence <= 0 || confidence >= 1 {
		confidence = DefaultConfidence
	}

	changes := make([]float64, len(prices)-1)
	for i := range changes {
		changes[i] = prices[i+1] - prices[i]
	}
	dates := times[1:]

	sigma := ewmaVolatility(changes)
	crit := math.Sqrt2 * math.Erfinv(1-confidence)

	var unusual []time.Time
	for i, c := range changes {
		if math.Abs(c) > crit*sigma[i] {
			unusual = append(unusual, dates[i])
		}
	}
	if len(unusual) == 0 {
		return nil, ErrNoUnusualDates
	}

	ranges := groupByGaps(unusual)
	return widenSingleDays(ranges, times[len(times)-1]), nil
}

// ewmaVolatility returns the per-step volatility estimate, seeded with the
// overall standard deviation of the changes.
func ewmaVolatility(changes []float64) []float64 {
	mean := 0.0
	for _, c := range changes {
		mean += c
	}
	mean /= float64(len(changes))

	variance := 0.0
	for _, c := range changes {
		d := c - mean
		variance += d * d
	}
	variance /= float64(len(changes))

	sigma := make([]float64, len(changes))
	v := variance
	for i, c := range changes {
		sigma[i] = math.Sqrt(v)
		v = ewmaLambda*v + (1-ewmaLambda)*c*c
	}
	return sigma
}

// groupByGaps splits sorted unusual dates into ranges wherever the gap
// between consecutive dates exceeds mean+std of all gaps. When every gap is
// ordinary the whole set collapses into one range; otherwise single-date
// groups are dropped.
func groupByGaps(dates []time.Time) []Range {
	if len(dates) == 1 {
		return []Range{{Start: dates[0], End: dates[0]}}
	}

	gaps := make([]float64, len(dates)-1)
	for i := range gaps {
		gaps[i] = dates[i+1].Sub(dates[i]).Hours() / 24
	}

	mean := 0.0
	for _, g := range gaps {
		mean += g
	}
	mean /= float64(len(gaps))
	variance := 0.0
	for _, g := range gaps {
		d := g - mean
		variance += d * d
	}
	variance /= float64(len(gaps))
	threshold := mean + math.Sqrt(variance)

	var cuts []int
	for i, g := range gaps {
		if g > threshold {
			cuts = append(cuts, i)
		}
	}
	if len(cuts) == 0 {
		return []Range{{Start: dates[0], End: dates[len(dates)-1]}}
	}

	var ranges []Range
	start := 0
	for _, cut := range cuts {
		if start != cut {
			ranges = append(ranges, Range{Start: dates[start], End: dates[cut]})
		}
		start = cut + 1
	}
	if start != len(dates)-1 {
		ranges = append(ranges, Range{Start: dates[start], End: dates[len(dates)-1]})
	}
	return ranges
}

// widenSingleDays pads zero-length ranges to two days so the caller always
// receives a usable interval, extending backwards when the range sits on
// the last observed date.
func widenSingleDays(ranges []Range, maxDate time.Time) []Range {
	out := make([]Range, 0, len(ranges))
	for _, r := range ranges {
		if r.Start.Equal(r.End) {
			if r.Start.Before(maxDate) {
				r.End = r.Start.AddDate(0, 0, 2)
			} else {
				r.Start = r.Start.AddDate(0, 0, -2)
			}
		}
		out = append(out, r)
	}
	return out
}
