package series

import "testing"

func TestPrevCloseChangeNotAvailable(t *testing.T) {
	if _, ok := PrevCloseChange(nil); ok {
		t.Error("PrevCloseChange(nil) reported available")
	}
	if _, ok := PrevCloseChange([]Point{{Close: 100}}); ok {
		t.Error("PrevCloseChange with one point reported available")
	}
	if _, ok := PrevCloseChange([]Point{{Close: 0}, {Close: 100}}); ok {
		t.Error("PrevCloseChange with zero previous close reported available")
	}
}

func TestMarketCap(t *testing.T) {
	points := []Point{{Close: 128.68, Volume: 226_819_205}}
	got, ok := MarketCap(points)
	if !ok {
		t.Fatal("MarketCap: not available")
	}
	want := 128.68 * 226_819_205
	if got != want {
		t.Errorf("MarketCap = %v, want %v", got, want)
	}

	if _, ok := MarketCap([]Point{{Close: 100, Volume: 0}}); ok {
		t.Error("MarketCap with zero volume reported available")
	}
}

func TestTrailingEPSAndPE(t *testing.T) {
	// 300 points, earnings only on the last 252 should count.
	points := dailySeries("2020-01-01", 300)
	for i := range points {
		points[i].Earnings = 0.01
	}
	eps, ok := TrailingEPS(points)
	if !ok {
		t.Fatal("TrailingEPS: not available")
	}
	want := 0.01 * 252
	if diff := eps - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("TrailingEPS = %v, want %v", eps, want)
	}

	pe, ok := PERatio(points)
	if !ok {
		t.Fatal("PERatio: not available")
	}
	wantPE := points[len(points)-1].Close / want
	if diff := pe - wantPE; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("PERatio = %v, want %v", pe, wantPE)
	}
}

func TestTrailingEPSMissingEarnings(t *testing.T) {
	points := dailySeries("2024-01-01", 50) // Earnings all zero
	if _, ok := TrailingEPS(points); ok {
		t.Error("TrailingEPS with no earnings reported available")
	}
	if _, ok := PERatio(points); ok {
		t.Error("PERatio with no earnings reported available")
	}
}

func TestFormatInt(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{226819205, "226,819,205"},
		{-45000, "-45,000"},
	}
	for _, tc := range cases {
		if got := FormatInt(tc.in); got != tc.want {
			t.Errorf("FormatInt(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatCap(t *testing.T) {
	if got := FormatCap(3.18e12); got != "3.18T" {
		t.Errorf("FormatCap(3.18e12) = %q, want 3.18T", got)
	}
	if got := FormatCap(5.5e9); got != "5.50B" {
		t.Errorf("FormatCap(5.5e9) = %q, want 5.50B", got)
	}
}
