package series

import "time"

// Trend labels the direction of price movement inside an event range.
type Trend string

const (
	TrendUp      Trend = "up"
	TrendDown    Trend = "down"
	TrendNeutral Trend = "neutral"
)

// ClassifyTrend compares the first and last close price of the points
// falling inside [start, end] (inclusive). Fewer than two in-range points,
// or equal first and last prices, classify as neutral.
func ClassifyTrend(points []Point, start, end time.Time) Trend {
	var first, last float64
	n := 0
	for _, p := range points {
		if p.Time.Before(start) || p.Time.After(end) {
			continue
		}
		if n == 0 {
			first = p.Close
		}
		last = p.Close
		n++
	}
	if n < 2 {
		return TrendNeutral
	}
	switch {
	case last > first:
		return TrendUp
	case last < first:
		return TrendDown
	default:
		return TrendNeutral
	}
}
