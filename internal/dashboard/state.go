// Package dashboard holds the dashboard's UI state as a single explicit
// state tree with pure reducer-style transitions. Every interaction (ticker
// search, preset toggle, slider drag, fetch completion) is an Event applied
// through Apply; fetch completions carry the request sequence they were
// issued under so stale responses can be discarded at commit time.
package dashboard

import (
	"stockcompass/internal/series"
)

// State is the complete dashboard state. It is a value type: Apply returns
// a new State and never mutates its input.
type State struct {
	Ticker    string
	Preset    series.Preset
	SliderPct int
	Series    []series.Point
	Loading   bool
	ErrMsg    string

	// Seq is the sequence number of the most recently issued series fetch.
	// A SeriesLoaded or SeriesFailed event commits only when its Seq and
	// Ticker both match.
	Seq uint64
}

// NewState returns the initial state for a freshly opened dashboard.
func NewState() State {
	return State{
		Preset:    series.PresetOneYear,
		SliderPct: 100,
	}
}

// Event is a dashboard state transition trigger.
type Event interface{ isEvent() }

// TickerChanged starts loading a new ticker. It resets the preset and
// slider to their defaults and invalidates all in-flight fetches.
type TickerChanged struct{ Ticker string }

// SeriesLoaded commits a merged series fetched for Ticker under Seq.
type SeriesLoaded struct {
	Ticker string
	Seq    uint64
	Points []series.Point
}

// SeriesFailed records a failed series fetch issued under Seq.
type SeriesFailed struct {
	Ticker string
	Seq    uint64
	ErrMsg string
}

// PresetChanged selects a new duration preset. The slider fraction is kept
// and reapplied to the new end-time range, so the visible window shifts.
type PresetChanged struct{ Preset series.Preset }

// SliderMoved places the window's right edge. Pct is clamped to [0,100].
type SliderMoved struct{ Pct int }

func (TickerChanged) isEvent() {}
func (SeriesLoaded) isEvent()  {}
func (SeriesFailed) isEvent()  {}
func (PresetChanged) isEvent() {}
func (SliderMoved) isEvent()   {}

// Apply computes the next state for an event. Control events are ignored
// while a series load is in flight; fetch completions for a superseded
// sequence or a different ticker are dropped.
func Apply(s State, e Event) State {
	switch e := e.(type) {
	case TickerChanged:
		s.Ticker = e.Ticker
		s.Preset = series.PresetOneYear
		s.SliderPct = 100
		s.Series = nil
		s.Loading = true
		s.ErrMsg = ""
		s.Seq++

	case SeriesLoaded:
		if e.Seq != s.Seq || e.Ticker != s.Ticker {
			return s
		}
		s.Series = e.Points
		s.Loading = false
		s.ErrMsg = ""

	case SeriesFailed:
		if e.Seq != s.Seq || e.Ticker != s.Ticker {
			return s
		}
		s.Loading = false
		s.ErrMsg = e.ErrMsg

	case PresetChanged:
		if s.Loading {
			return s
		}
		s.Preset = e.Preset

	case SliderMoved:
		if s.Loading {
			return s
		}
		pct := e.Pct
		if pct < 0 {
			pct = 0
		}
		if pct > 100 {
			pct = 100
		}
		s.SliderPct = pct
	}
	return s
}

// Window derives the visible window from the current series, preset, and
// slider position.
func (s State) Window() (series.Window, error) {
	return series.ComputeWindow(s.Series, s.Preset, s.SliderPct)
}

// VisibleSlice returns the points inside the current window, or nil when no
// valid window exists.
func (s State) VisibleSlice() []series.Point {
	w, err := s.Window()
	if err != nil {
		return nil
	}
	return series.Slice(s.Series, w)
}
