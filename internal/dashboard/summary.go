package dashboard

import (
	"fmt"

	"stockcompass/internal/series"
)

// Summary is the info strip under the chart. Every field is a display
// string; metrics that cannot be computed render as series.NotAvailable
// instead of NaN or Infinity.
type Summary struct {
	PrevClosePct string
	LastClose    string
	MarketCap    string
	Volume       string
	PERatio      string
	EPS          string
}

// Summarize computes the info strip for the currently visible slice.
func Summarize(visible []series.Point) Summary {
	sum := Summary{
		PrevClosePct: series.NotAvailable,
		LastClose:    series.NotAvailable,
		MarketCap:    series.NotAvailable,
		Volume:       series.NotAvailable,
		PERatio:      series.NotAvailable,
		EPS:          series.NotAvailable,
	}

	if pct, ok := series.PrevCloseChange(visible); ok {
		sum.PrevClosePct = series.FormatPct(pct)
	}
	if len(visible) > 0 {
		sum.LastClose = series.FormatPrice(visible[len(visible)-1].Close)
	}
	if cap, ok := series.MarketCap(visible); ok {
		sum.MarketCap = series.FormatCap(cap)
	}
	if vol, ok := series.LastVolume(visible); ok {
		sum.Volume = series.FormatInt(vol)
	}
	if pe, ok := series.PERatio(visible); ok {
		sum.PERatio = fmt.Sprintf("%.2f", pe)
	}
	if eps, ok := series.TrailingEPS(visible); ok {
		sum.EPS = fmt.Sprintf("%.2f", eps)
	}
	return sum
}
