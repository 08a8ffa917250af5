package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strings"
	"time"

	"stockcompass/internal/anomaly"
	"stockcompass/internal/llm"
	"stockcompass/internal/marketdata"
	"stockcompass/internal/series"
)

func (s *Server) handleStockData(w http.ResponseWriter, r *http.Request) {
	symbol := r.URL.Query().Get("stockname")
	if symbol == "" {
		writeError(w, http.StatusBadRequest, "stockname is required", "")
		return
	}
	period := r.URL.Query().Get("period")
	if period == "" {
		period = "1y"
	}
	interval := r.URL.Query().Get("interval")
	if interval == "" {
		interval = "1d"
	}

	ctx := r.Context()
	points, err := s.market.FetchChart(ctx, symbol, period, interval)
	if err != nil {
		s.log.Error("fetching chart data", "symbol", symbol, "error", err)
		writeError(w, http.StatusBadGateway, "failed to fetch stock data", err.Error())
		return
	}

	// Fundamentals enrich the series but never fail the request.
	fundamentals, err := s.market.FetchFundamentals(ctx, symbol)
	if err != nil {
		s.log.Warn("fundamentals unavailable", "symbol", symbol, "error", err)
	}
	for i := range points {
		if fy, ok := fundamentals[points[i].Time.Year()]; ok {
			points[i].Earnings = fy.EPS
		}
	}

	// Each fetch replaces the stored snapshot wholesale.
	if err := s.snapshots.ReplaceSnapshot(ctx, symbol, points); err != nil {
		s.log.Warn("replacing price snapshot", "symbol", symbol, "error", err)
	}

	writeJSON(w, StockDataResponse{
		StatusCode: http.StatusOK,
		TimeSeries: buildTimeSeries(points),
		FinData:    buildFinData(fundamentals),
	})
}

// buildTimeSeries derives per-point display fields. pct_change compares each
// close against the next point, matching the series the frontend charts.
func buildTimeSeries(points []series.Point) []PricePointJSON {
	out := make([]PricePointJSON, len(points))
	for i, p := range points {
		pct := 0.0
		if i+1 < len(points) && points[i+1].Close != 0 {
			pct = (p.Close/points[i+1].Close - 1) * 100
		}
		pe := 0.0
		if p.Earnings != 0 {
			pe = p.Close / p.Earnings
		}
		out[i] = PricePointJSON{
			Time:      series.FormatDate(p.Time),
			Close:     p.Close,
			Volume:    p.Volume,
			PctChange: pct,
			Earnings:  p.Earnings,
			MarketCap: p.Close * float64(p.Volume),
			PE:        pe,
		}
	}
	return out
}

func buildFinData(fundamentals map[int]marketdata.FinYear) []FinPointJSON {
	if len(fundamentals) == 0 {
		return nil
	}
	out := make([]FinPointJSON, 0, len(fundamentals))
	for _, fy := range fundamentals {
		out = append(out, FinPointJSON{
			Year:         fy.Year,
			EPS:          fy.EPS,
			FreeCashFlow: fy.FreeCashFlow,
			ProfitMargin: fy.ProfitMargin,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}

func (s *Server) handleMetadata(w http.ResponseWriter, r *http.Request) {
	symbol := r.URL.Query().Get("stockname")
	if symbol == "" {
		writeError(w, http.StatusBadRequest, "stockname is required", "")
		return
	}

	md, err := s.market.FetchMetadata(r.Context(), symbol)
	if err != nil {
		s.log.Error("fetching metadata", "symbol", symbol, "error", err)
		writeError(w, http.StatusBadGateway, "failed to fetch stock metadata", err.Error())
		return
	}

	writeJSON(w, MetadataResponse{
		StatusCode: http.StatusOK,
		Metadata: MetadataJSON{
			LongName:         md.LongName,
			ExchangeName:     md.ExchangeName,
			Currency:         md.Currency,
			LastClose:        md.LastClose,
			MonthlyPctChange: md.MonthlyPctChange,
			YearlyPctChange:  md.YearlyPctChange,
		},
	})
}

func (s *Server) handleUnusualRange(w http.ResponseWriter, r *http.Request) {
	var req UnusualRangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if len(req.Data.Time) == 0 || len(req.Data.Time) != len(req.Data.Price) {
		writeError(w, http.StatusBadRequest, "data must contain matching time and price arrays", "")
		return
	}

	times := make([]time.Time, len(req.Data.Time))
	for i, ts := range req.Data.Time {
		t, err := series.ParseDate(ts)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid timestamp", ts)
			return
		}
		times[i] = t
	}

	ranges, err := anomaly.DetectRanges(times, req.Data.Price, anomaly.DefaultConfidence)
	if err != nil {
		if errors.Is(err, anomaly.ErrTooFewPoints) || errors.Is(err, anomaly.ErrNoUnusualDates) {
			writeError(w, http.StatusBadRequest, err.Error(), "")
			return
		}
		s.log.Error("detecting unusual ranges", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to detect unusual ranges", err.Error())
		return
	}

	pairs := make([][2]string, len(ranges))
	for i, rg := range ranges {
		pairs[i] = [2]string{series.FormatDate(rg.Start), series.FormatDate(rg.End)}
	}
	writeJSON(w, UnusualRangeResponse{UnusualRanges: pairs})
}

func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	if s.analyzer == nil {
		writeError(w, http.StatusInternalServerError, "Server configuration error: OpenAI API key not set.", "")
		return
	}

	var req AnalysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	answer, err := s.analyzer.Analyze(r.Context(), req.Prompt, req.ChartData, req.UseFileSearch)
	if err != nil {
		var upstream *llm.UpstreamError
		switch {
		case errors.Is(err, llm.ErrInvalidRequest):
			writeError(w, http.StatusBadRequest, "Missing prompt in the request body", "")
		case errors.As(err, &upstream):
			s.log.Error("completion upstream failed", "status", upstream.StatusCode)
			status := upstream.StatusCode
			if status == 0 {
				status = http.StatusBadGateway
			}
			writeError(w, status, "Failed to fetch data from OpenAI", upstream.Details)
		default:
			s.log.Error("analysis failed", "error", err)
			writeError(w, http.StatusInternalServerError, "Internal Server Error", err.Error())
		}
		return
	}

	writeJSON(w, AnalysisResponse{Answer: answer})
}

func (s *Server) handleNews(w http.ResponseWriter, r *http.Request) {
	symbol := strings.ToUpper(r.PathValue("symbol"))
	date := r.URL.Query().Get("date")
	if date == "" {
		date = time.Now().UTC().Format("2006-01-02")
	}
	day, err := series.ParseDate(date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date", date)
		return
	}
	start, end := day, day.AddDate(0, 0, 1).Add(-time.Millisecond)
	ctx := r.Context()

	if s.newsStore == nil {
		writeJSON(w, NewsResponse{Symbol: symbol, Date: date, Articles: []NewsArticleJSON{}})
		return
	}

	articles, err := s.newsStore.ReadArticles(ctx, symbol, start, end)
	if err != nil {
		s.log.Error("reading news history", "symbol", symbol, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to read news", err.Error())
		return
	}

	// Nothing on disk: fetch live and persist for next time.
	if len(articles) == 0 && s.fetcher != nil {
		fetched, err := s.fetcher.FetchAll(ctx, symbol, start, end)
		if err != nil {
			s.log.Warn("news source failed", "symbol", symbol, "error", err)
		}
		if len(fetched) > 0 {
			if err := s.newsStore.WriteArticles(ctx, symbol, fetched); err != nil {
				s.log.Warn("persisting news", "symbol", symbol, "error", err)
			}
			articles = fetched
		}
	}

	out := make([]NewsArticleJSON, 0, len(articles))
	for _, a := range articles {
		out = append(out, NewsArticleJSON{
			Time:     a.Time.UnixMilli(),
			Source:   a.Source,
			Headline: a.Headline,
			Content:  a.Content,
		})
	}
	writeJSON(w, NewsResponse{Symbol: symbol, Date: date, Articles: out})
}
