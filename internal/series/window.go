package series

import (
	"errors"
	"time"
)

// ErrInsufficientData is returned when a series spans less time than the
// requested preset, in which case no valid window exists.
var ErrInsufficientData = errors.New("series shorter than requested duration")

// Preset is a named fixed window duration.
type Preset int

const (
	PresetSixMonths Preset = iota
	PresetOneYear
	PresetThreeYears
)

// addTo returns t advanced by the preset's calendar span.
func (p Preset) addTo(t time.Time) time.Time {
	switch p {
	case PresetSixMonths:
		return t.AddDate(0, 6, 0)
	case PresetThreeYears:
		return t.AddDate(3, 0, 0)
	default:
		return t.AddDate(1, 0, 0)
	}
}

// subFrom returns t moved back by the preset's calendar span.
func (p Preset) subFrom(t time.Time) time.Time {
	switch p {
	case PresetSixMonths:
		return t.AddDate(0, -6, 0)
	case PresetThreeYears:
		return t.AddDate(-3, 0, 0)
	default:
		return t.AddDate(-1, 0, 0)
	}
}

func (p Preset) String() string {
	switch p {
	case PresetSixMonths:
		return "6M"
	case PresetThreeYears:
		return "3Y"
	default:
		return "1Y"
	}
}

// ParsePreset maps a preset label (6M, 1Y, 3Y) to its Preset. Unrecognised
// labels fall back to one year.
func ParsePreset(s string) Preset {
	switch s {
	case "6M", "6m":
		return PresetSixMonths
	case "3Y", "3y":
		return PresetThreeYears
	default:
		return PresetOneYear
	}
}

// Window is the visible sub-range of a series.
type Window struct {
	Start time.Time
	End   time.Time
}

// ComputeWindow derives the visible window for a merged series from a preset
// and a slider position in [0,100]. The slider places the window's right
// edge between the earliest possible end (first point + preset span) and the
// last point: 0 yields the earliest valid window, 100 a window ending at the
// last available point. The window is one calendar span wide, so a one-year
// window over a leap year still runs anniversary to anniversary. The series
// must be sorted ascending with unique timestamps. Returns
// ErrInsufficientData when the series span is shorter than the preset.
func ComputeWindow(points []Point, preset Preset, sliderPct int) (Window, error) {
	if len(points) == 0 {
		return Window{}, ErrInsufficientData
	}
	if sliderPct < 0 {
		sliderPct = 0
	}
	if sliderPct > 100 {
		sliderPct = 100
	}

	minEnd := preset.addTo(points[0].Time)
	last := points[len(points)-1].Time
	if last.Before(minEnd) {
		return Window{}, ErrInsufficientData
	}

	span := last.UnixMilli() - minEnd.UnixMilli()
	end := time.UnixMilli(minEnd.UnixMilli() + int64(float64(sliderPct)/100*float64(span))).UTC()
	if end.Equal(minEnd) {
		// AddDate normalisation around month ends could otherwise push
		// the earliest window's start past the first point.
		return Window{Start: points[0].Time, End: end}, nil
	}
	return Window{Start: preset.subFrom(end), End: end}, nil
}

// Slice returns the points falling inside the window, inclusive on both
// ends.
func Slice(points []Point, w Window) []Point {
	var out []Point
	for _, p := range points {
		if p.Time.Before(w.Start) || p.Time.After(w.End) {
			continue
		}
		out = append(out, p)
	}
	return out
}
