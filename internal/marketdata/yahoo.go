// Package marketdata fetches price history, metadata, and yearly
// fundamentals from the Yahoo Finance public API.
package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"time"

	"stockcompass/internal/series"
)

// Client fetches from the Yahoo Finance chart and quoteSummary endpoints.
type Client struct {
	httpc   *http.Client
	baseURL string
	log     *slog.Logger
}

// NewClient creates a Yahoo Finance client.
func NewClient(log *slog.Logger) *Client {
	return &Client{
		httpc:   &http.Client{Timeout: 30 * time.Second},
		baseURL: "https://query1.finance.yahoo.com",
		log:     log,
	}
}

// NewClientWithBaseURL creates a client against a non-default endpoint.
// Used by tests to point at a local fake.
func NewClientWithBaseURL(baseURL string, log *slog.Logger) *Client {
	c := NewClient(log)
	c.baseURL = baseURL
	return c
}

// ---------------------------------------------------------------------------
// Chart endpoint
// ---------------------------------------------------------------------------

// yahooChart is the response structure from the chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Currency         string `json:"currency"`
				ExchangeName     string `json:"exchangeName"`
				FullExchangeName string `json:"fullExchangeName"`
				LongName         string `json:"longName"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close  []any `json:"close"`
					Volume []any `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func toFloat(v any) float64 {
	if n, ok := v.(float64); ok {
		return n
	}
	return 0
}

func (c *Client) fetchChart(ctx context.Context, symbol, rng, interval string) (yahooChart, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=%s&range=%s",
		c.baseURL, url.PathEscape(symbol), url.QueryEscape(interval), url.QueryEscape(rng))

	var chart yahooChart
	body, err := c.get(ctx, u)
	if err != nil {
		return chart, err
	}
	if err := json.Unmarshal(body, &chart); err != nil {
		return chart, fmt.Errorf("yahoo decode: %w", err)
	}
	if chart.Chart.Error != nil {
		return chart, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 {
		return chart, fmt.Errorf("yahoo: no data returned for %s", symbol)
	}
	return chart, nil
}

// FetchChart fetches the price series for a symbol. period is a Yahoo range
// label (1d, 1mo, 6mo, 1y, max, ...) and interval a bar size (1d, 60m).
// Null bars (holidays) are skipped and the result is sorted ascending.
func (c *Client) FetchChart(ctx context.Context, symbol, period, interval string) ([]series.Point, error) {
	chart, err := c.fetchChart(ctx, symbol, period, interval)
	if err != nil {
		return nil, err
	}

	result := chart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("yahoo: no quote data for %s", symbol)
	}
	quote := result.Indicators.Quote[0]

	points := make([]series.Point, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(quote.Close) || i >= len(quote.Volume) {
			break
		}
		close := toFloat(quote.Close[i])
		if close == 0 {
			continue
		}
		points = append(points, series.Point{
			Time:   time.Unix(ts, 0).UTC(),
			Close:  close,
			Volume: int64(toFloat(quote.Volume[i])),
		})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Time.Before(points[j].Time) })
	return points, nil
}

// ---------------------------------------------------------------------------
// Metadata
// ---------------------------------------------------------------------------

// Metadata is the header information shown above the chart. The percent
// changes are nil when not enough history is available.
type Metadata struct {
	LongName         string
	ExchangeName     string
	Currency         string
	LastClose        string // date of the most recent close, YYYY-MM-DD
	MonthlyPctChange *float64
	YearlyPctChange  *float64
}

// FetchMetadata fetches name, exchange, currency, last close date, and the
// one-month and one-year percent changes for a symbol.
func (c *Client) FetchMetadata(ctx context.Context, symbol string) (Metadata, error) {
	chart, err := c.fetchChart(ctx, symbol, "1d", "1d")
	if err != nil {
		return Metadata{}, err
	}
	result := chart.Chart.Result[0]

	md := Metadata{
		LongName:     result.Meta.LongName,
		ExchangeName: result.Meta.FullExchangeName,
		Currency:     result.Meta.Currency,
	}
	if md.ExchangeName == "" {
		md.ExchangeName = result.Meta.ExchangeName
	}
	if n := len(result.Timestamp); n > 0 {
		md.LastClose = series.FormatDate(time.Unix(result.Timestamp[n-1], 0))
	}

	md.MonthlyPctChange = c.pctChangeOver(ctx, symbol, "1mo")
	md.YearlyPctChange = c.pctChangeOver(ctx, symbol, "1y")
	return md, nil
}

// pctChangeOver returns first-to-last close change over the given range, or
// nil when the history is empty or too short. Failures are logged and
// degrade to nil rather than failing the metadata fetch.
func (c *Client) pctChangeOver(ctx context.Context, symbol, rng string) *float64 {
	points, err := c.FetchChart(ctx, symbol, rng, "1d")
	if err != nil {
		c.log.Warn("fetching history for pct change", "symbol", symbol, "range", rng, "error", err)
		return nil
	}
	if len(points) < 2 || points[0].Close == 0 {
		return nil
	}
	pct := points[len(points)-1].Close/points[0].Close - 1
	return &pct
}

// ---------------------------------------------------------------------------
// Fundamentals
// ---------------------------------------------------------------------------

// FinYear holds the yearly fundamentals used for the per-point earnings
// mapping and the fin_data payload.
type FinYear struct {
	Year         int
	EPS          float64
	FreeCashFlow float64
	ProfitMargin float64
}

type rawValue struct {
	Raw float64 `json:"raw"`
	Fmt string  `json:"fmt"`
}

type quoteSummary struct {
	QuoteSummary struct {
		Result []struct {
			IncomeStatementHistory struct {
				IncomeStatementHistory []struct {
					EndDate      rawValue `json:"endDate"`
					TotalRevenue rawValue `json:"totalRevenue"`
					GrossProfit  rawValue `json:"grossProfit"`
					NetIncome    rawValue `json:"netIncome"`
				} `json:"incomeStatementHistory"`
			} `json:"incomeStatementHistory"`
			CashflowStatementHistory struct {
				CashflowStatements []struct {
					EndDate             rawValue `json:"endDate"`
					TotalCashFromOps    rawValue `json:"totalCashFromOperatingActivities"`
					CapitalExpenditures rawValue `json:"capitalExpenditures"`
				} `json:"cashflowStatements"`
			} `json:"cashflowStatementHistory"`
			DefaultKeyStatistics struct {
				SharesOutstanding rawValue `json:"sharesOutstanding"`
			} `json:"defaultKeyStatistics"`
		} `json:"result"`
		Error *struct {
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

// FetchFundamentals fetches yearly EPS, free cash flow, and profit margin
// approximations, keyed by fiscal year. EPS is net income over current
// shares outstanding; the chart data carries no per-share figures.
func (c *Client) FetchFundamentals(ctx context.Context, symbol string) (map[int]FinYear, error) {
	u := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=incomeStatementHistory,cashflowStatementHistory,defaultKeyStatistics",
		c.baseURL, url.PathEscape(symbol))

	body, err := c.get(ctx, u)
	if err != nil {
		return nil, err
	}
	var qs quoteSummary
	if err := json.Unmarshal(body, &qs); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if qs.QuoteSummary.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", qs.QuoteSummary.Error.Description)
	}
	if len(qs.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("yahoo: no fundamentals for %s", symbol)
	}
	result := qs.QuoteSummary.Result[0]
	shares := result.DefaultKeyStatistics.SharesOutstanding.Raw

	years := make(map[int]FinYear)
	for _, stmt := range result.IncomeStatementHistory.IncomeStatementHistory {
		year := time.Unix(int64(stmt.EndDate.Raw), 0).UTC().Year()
		fy := years[year]
		fy.Year = year
		if shares > 0 {
			fy.EPS = stmt.NetIncome.Raw / shares
		}
		if stmt.TotalRevenue.Raw != 0 {
			fy.ProfitMargin = stmt.GrossProfit.Raw / stmt.TotalRevenue.Raw
		}
		years[year] = fy
	}
	for _, stmt := range result.CashflowStatementHistory.CashflowStatements {
		year := time.Unix(int64(stmt.EndDate.Raw), 0).UTC().Year()
		fy := years[year]
		fy.Year = year
		fy.FreeCashFlow = stmt.TotalCashFromOps.Raw + stmt.CapitalExpenditures.Raw
		years[year] = fy
	}
	return years, nil
}

// ---------------------------------------------------------------------------
// HTTP helper
// ---------------------------------------------------------------------------

func (c *Client) get(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, string(body))
	}
	return body, nil
}
