// Package series provides the price series domain for the dashboard: merged
// time series, visible-window computation driven by a duration preset and a
// slider position, event-range trend classification, and the derived summary
// metrics shown in the info strip.
package series

import (
	"fmt"
	"sort"
	"time"
)

// Point is a single price observation. Earnings carries the per-share
// earnings attributed to the point's year when fundamentals are available;
// zero means unknown.
type Point struct {
	Time     time.Time
	Close    float64
	Volume   int64
	Earnings float64
}

// Merge combines two fetched ranges of the same ticker into one series,
// deduplicated by exact timestamp and sorted ascending. When both ranges
// carry a point for the same timestamp the second range wins.
func Merge(a, b []Point) []Point {
	seen := make(map[int64]Point, len(a)+len(b))
	for _, p := range a {
		seen[p.Time.UnixMilli()] = p
	}
	for _, p := range b {
		seen[p.Time.UnixMilli()] = p
	}

	merged := make([]Point, 0, len(seen))
	for _, p := range seen {
		merged = append(merged, p)
	}
	sort.Slice(merged, func(i, j int) bool {
		return merged[i].Time.Before(merged[j].Time)
	})
	return merged
}

// ParseDate parses an ISO-8601 date string (YYYY-MM-DD) in UTC. Timestamps
// from the collaborator services are normalized through this before any
// range comparison.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	return t, nil
}

// FormatDate renders a timestamp as an ISO-8601 date string.
func FormatDate(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
