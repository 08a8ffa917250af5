package series

// trailingPoints is the number of points treated as one trading year when
// approximating trailing-twelve-month figures.
const trailingPoints = 252

// PrevCloseChange returns the percent change between the last two points of
// the slice. ok is false when fewer than two points are available or the
// previous close is zero.
func PrevCloseChange(points []Point) (pct float64, ok bool) {
	if len(points) < 2 {
		return 0, false
	}
	prev := points[len(points)-2].Close
	if prev == 0 {
		return 0, false
	}
	last := points[len(points)-1].Close
	return (last - prev) / prev * 100, true
}

// LastVolume returns the share volume of the last point.
func LastVolume(points []Point) (int64, bool) {
	if len(points) == 0 {
		return 0, false
	}
	return points[len(points)-1].Volume, true
}

// MarketCap approximates market capitalization as lastClose * lastVolume.
// The upstream data carries no share count, so this mirrors the snapshot
// field computed by the data service.
func MarketCap(points []Point) (float64, bool) {
	if len(points) == 0 {
		return 0, false
	}
	last := points[len(points)-1]
	if last.Volume == 0 {
		return 0, false
	}
	return last.Close * float64(last.Volume), true
}

// TrailingEPS sums per-point earnings over the trailing 252 points. ok is
// false when the sum is zero, which covers both missing fundamentals and a
// genuine zero that would make P/E undefined.
func TrailingEPS(points []Point) (float64, bool) {
	if len(points) == 0 {
		return 0, false
	}
	start := len(points) - trailingPoints
	if start < 0 {
		start = 0
	}
	sum := 0.0
	for _, p := range points[start:] {
		sum += p.Earnings
	}
	if sum == 0 {
		return 0, false
	}
	return sum, true
}

// PERatio divides the last close by the trailing EPS approximation.
func PERatio(points []Point) (float64, bool) {
	eps, ok := TrailingEPS(points)
	if !ok {
		return 0, false
	}
	return points[len(points)-1].Close / eps, true
}
