package llm

import (
	"fmt"
	"math"
	"strings"

	"stockcompass/internal/series"
)

// ChartPoint is the chart slice the frontend sends along with a question.
type ChartPoint struct {
	Time   string  `json:"time"`
	Price  float64 `json:"price"`
	Volume int64   `json:"volume"`
}

// AverageVolume returns the mean volume rounded to the nearest integer and
// grouped with thousands separators.
func AverageVolume(points []ChartPoint) string {
	if len(points) == 0 {
		return series.NotAvailable
	}
	sum := 0.0
	for _, p := range points {
		sum += float64(p.Volume)
	}
	return series.FormatInt(int64(math.Round(sum / float64(len(points)))))
}

// PriceRange returns "min - max" over the price field, two decimals each.
func PriceRange(points []ChartPoint) string {
	if len(points) == 0 {
		return series.NotAvailable
	}
	min, max := points[0].Price, points[0].Price
	for _, p := range points[1:] {
		if p.Price < min {
			min = p.Price
		}
		if p.Price > max {
			max = p.Price
		}
	}
	return fmt.Sprintf("%.2f - %.2f", min, max)
}

// VolumeTrend compares mean volume of the first half against the second
// half (floor split, the extra point of an odd-length series lands in the
// second half) and reports the percent change. A zero or empty first half
// yields "not available".
func VolumeTrend(points []ChartPoint) string {
	half := len(points) / 2
	first, second := points[:half], points[half:]
	if len(first) == 0 || len(second) == 0 {
		return "not available"
	}

	firstAvg := meanVolume(first)
	if firstAvg == 0 {
		return "not available"
	}
	secondAvg := meanVolume(second)

	pct := (secondAvg - firstAvg) / firstAvg * 100
	direction := "decrease"
	if pct > 0 {
		direction = "increase"
	}
	return fmt.Sprintf("%.2f%% %s", pct, direction)
}

func meanVolume(points []ChartPoint) float64 {
	sum := 0.0
	for _, p := range points {
		sum += float64(p.Volume)
	}
	return sum / float64(len(points))
}

// Compose builds the full user prompt: the question, a technical-data block
// when chart data is supplied, and an optional real-time context section.
func Compose(prompt string, points []ChartPoint, context string) string {
	var b strings.Builder
	b.WriteString(prompt)

	if len(points) > 0 {
		fmt.Fprintf(&b, "\n\nAdditional Technical Data:\n")
		fmt.Fprintf(&b, "- Average Volume: %s\n", AverageVolume(points))
		fmt.Fprintf(&b, "- Price Range: $%s\n", PriceRange(points))
		fmt.Fprintf(&b, "- Volume Trend: %s in average volume", VolumeTrend(points))
	}

	if context != "" {
		b.WriteString("\n\nReal-time context:\n")
		b.WriteString(context)
	}
	return b.String()
}
