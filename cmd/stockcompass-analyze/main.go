// Headless dashboard: fetches a ticker through a running
// stockcompass-server, drives the same state machine as the UI, and prints
// the visible window, summary metrics, and optionally a narrative analysis.
//
// Usage:
//
//	go build -o bin/stockcompass-analyze ./cmd/stockcompass-analyze/
//	bin/stockcompass-analyze -ticker AAPL [-preset 1y] [-slider 100] [-ask "Why did it drop?"]
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"stockcompass/internal/dashboard"
	"stockcompass/internal/httpapi"
	"stockcompass/internal/llm"
	"stockcompass/internal/series"
	"stockcompass/pkg/stockcompass"
)

func main() {
	_ = godotenv.Load()

	server := flag.String("server", "http://localhost:8080", "stockcompass-server base URL")
	ticker := flag.String("ticker", "", "ticker symbol (required)")
	presetArg := flag.String("preset", "1y", "visible window preset: 6m, 1y, 3y")
	slider := flag.Int("slider", 100, "slider position 0-100")
	ask := flag.String("ask", "", "optional question for the analysis proxy")
	useContext := flag.Bool("context", false, "include real-time context in the analysis")
	flag.Parse()

	if *ticker == "" {
		flag.Usage()
		os.Exit(2)
	}
	preset := series.ParsePreset(*presetArg)

	ctx := context.Background()
	client := stockcompass.NewClient(*server)

	// Drive the same event transitions as the UI.
	state := dashboard.NewState()
	state = dashboard.Apply(state, dashboard.TickerChanged{Ticker: *ticker})

	points, err := client.LoadSeries(ctx, *ticker)
	if err != nil {
		state = dashboard.Apply(state, dashboard.SeriesFailed{Ticker: *ticker, Seq: state.Seq, ErrMsg: err.Error()})
		log.Fatalf("loading %s: %s", *ticker, state.ErrMsg)
	}
	state = dashboard.Apply(state, dashboard.SeriesLoaded{Ticker: *ticker, Seq: state.Seq, Points: points})
	state = dashboard.Apply(state, dashboard.PresetChanged{Preset: preset})
	state = dashboard.Apply(state, dashboard.SliderMoved{Pct: *slider})

	window, err := state.Window()
	if err != nil {
		log.Fatalf("computing window: %v", err)
	}
	visible := state.VisibleSlice()
	summary := dashboard.Summarize(visible)

	fmt.Printf("%s  %s  [%s .. %s]  %d of %d points\n",
		*ticker, preset,
		series.FormatDate(window.Start), series.FormatDate(window.End),
		len(visible), len(points))
	fmt.Printf("  prev close: %s  last: %s  mkt cap: %s  volume: %s  P/E: %s  EPS: %s\n",
		summary.PrevClosePct, summary.LastClose, summary.MarketCap,
		summary.Volume, summary.PERatio, summary.EPS)
	fmt.Printf("  trend: %s\n", series.ClassifyTrend(visible, window.Start, window.End))

	if *ask == "" {
		return
	}

	chart := make([]llm.ChartPoint, len(visible))
	for i, p := range visible {
		chart[i] = llm.ChartPoint{
			Time:   series.FormatDate(p.Time),
			Price:  p.Close,
			Volume: p.Volume,
		}
	}
	answer, err := client.Analyze(ctx, httpapi.AnalysisRequest{
		Prompt:        *ask,
		ChartData:     chart,
		UseFileSearch: *useContext,
	})
	if err != nil {
		log.Fatalf("analysis: %v", err)
	}
	fmt.Printf("\n%s\n", answer)
}
