package anomaly

import (
	"errors"
	"testing"
	"time"
)

func buildSeries(n int, shockAt map[int]float64) ([]time.Time, []float64) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	times := make([]time.Time, n)
	prices := make([]float64, n)
	price := 100.0
	for i := 0; i < n; i++ {
		times[i] = start.AddDate(0, 0, i)
		// Small alternating drift so the volatility estimate is nonzero.
		if i%2 == 0 {
			price += 0.1
		} else {
			price -= 0.1
		}
		if shock, ok := shockAt[i]; ok {
			price += shock
		}
		prices[i] = price
	}
	return times, prices
}

func TestDetectRangesFindsShock(t *testing.T) {
	times, prices := buildSeries(120, map[int]float64{60: 25.0})

	ranges, err := DetectRanges(times, prices, DefaultConfidence)
	if err != nil {
		t.Fatalf("DetectRanges: %v", err)
	}
	if len(ranges) == 0 {
		t.Fatal("DetectRanges returned no ranges for a shocked series")
	}

	shockDay := times[60]
	found := false
	for _, r := range ranges {
		if !shockDay.Before(r.Start) && !shockDay.After(r.End) {
			found = true
		}
		if r.End.Before(r.Start) {
			t.Errorf("range end %v before start %v", r.End, r.Start)
		}
	}
	if !found {
		t.Errorf("no range covers the shock day %v: %v", shockDay, ranges)
	}
}

func TestDetectRangesWidensSingleDay(t *testing.T) {
	times, prices := buildSeries(120, map[int]float64{60: 25.0})

	ranges, err := DetectRanges(times, prices, DefaultConfidence)
	if err != nil {
		t.Fatalf("DetectRanges: %v", err)
	}
	for _, r := range ranges {
		if r.Start.Equal(r.End) {
			t.Errorf("zero-length range survived: %v", r)
		}
	}
}

func TestDetectRangesTooFewPoints(t *testing.T) {
	times, prices := buildSeries(1, nil)
	if _, err := DetectRanges(times, prices, DefaultConfidence); !errors.Is(err, ErrTooFewPoints) {
		t.Fatalf("err = %v, want ErrTooFewPoints", err)
	}
}

func TestDetectRangesNoUnusualDates(t *testing.T) {
	// The alternating drift stays well inside the critical band.
	times, prices := buildSeries(60, nil)
	if _, err := DetectRanges(times, prices, DefaultConfidence); !errors.Is(err, ErrNoUnusualDates) {
		t.Fatalf("err = %v, want ErrNoUnusualDates", err)
	}
}

func TestDetectRangesLengthMismatch(t *testing.T) {
	times, prices := buildSeries(10, nil)
	if _, err := DetectRanges(times[:5], prices, DefaultConfidence); err == nil {
		t.Fatal("DetectRanges accepted mismatched lengths")
	}
}
