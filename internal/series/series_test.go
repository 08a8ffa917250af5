package series

import (
	"testing"
)

func TestMergeDeduplicatesAndSorts(t *testing.T) {
	recent := dailySeries("2024-06-01", 30)
	full := dailySeries("2024-01-01", 200) // overlaps the recent range entirely

	merged := Merge(recent, full)
	if len(merged) != 200 {
		t.Fatalf("merged series has %d points, want 200", len(merged))
	}
	for i := 1; i < len(merged); i++ {
		if !merged[i-1].Time.Before(merged[i].Time) {
			t.Fatalf("merged series not strictly ascending at %d: %v >= %v",
				i, merged[i-1].Time, merged[i].Time)
		}
	}
}

func TestMergeSecondRangeWins(t *testing.T) {
	a := []Point{{Time: day("2024-03-01"), Close: 10}}
	b := []Point{{Time: day("2024-03-01"), Close: 20}}

	merged := Merge(a, b)
	if len(merged) != 1 {
		t.Fatalf("merged series has %d points, want 1", len(merged))
	}
	if merged[0].Close != 20 {
		t.Errorf("merged close = %v, want 20 (second range wins)", merged[0].Close)
	}
}

func TestMergeDisjointRanges(t *testing.T) {
	a := dailySeries("2024-01-01", 5)
	b := dailySeries("2024-02-01", 5)

	merged := Merge(a, b)
	if len(merged) != 10 {
		t.Fatalf("merged series has %d points, want 10", len(merged))
	}
	if !merged[0].Time.Equal(day("2024-01-01")) || !merged[9].Time.Equal(day("2024-02-05")) {
		t.Errorf("merged bounds = [%v, %v]", merged[0].Time, merged[9].Time)
	}
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2024-06-15")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if FormatDate(got) != "2024-06-15" {
		t.Errorf("round trip = %q, want 2024-06-15", FormatDate(got))
	}

	if _, err := ParseDate("06/15/2024"); err == nil {
		t.Error("ParseDate accepted a non-ISO date")
	}
}
