// Package stockcompass provides a Go SDK for the stockcompass-server API.
package stockcompass

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"stockcompass/internal/httpapi"
	"stockcompass/internal/series"
)

// Client talks to a running stockcompass-server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates an API client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// StockData retrieves the time series for a symbol.
func (c *Client) StockData(ctx context.Context, symbol, period, interval string) (*httpapi.StockDataResponse, error) {
	u := fmt.Sprintf("%s/api/stockdata/?stockname=%s&period=%s&interval=%s",
		c.baseURL, url.QueryEscape(symbol), url.QueryEscape(period), url.QueryEscape(interval))

	var resp httpapi.StockDataResponse
	if err := c.getJSON(ctx, u, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Metadata retrieves the header metadata for a symbol.
func (c *Client) Metadata(ctx context.Context, symbol string) (*httpapi.MetadataResponse, error) {
	u := fmt.Sprintf("%s/api/stock_metadata/?stockname=%s", c.baseURL, url.QueryEscape(symbol))

	var resp httpapi.MetadataResponse
	if err := c.getJSON(ctx, u, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UnusualRanges asks the server to flag unusual date ranges in the given
// visible slice.
func (c *Client) UnusualRanges(ctx context.Context, times []string, prices []float64) ([][2]string, error) {
	var req httpapi.UnusualRangeRequest
	req.Data.Time = times
	req.Data.Price = prices

	var resp httpapi.UnusualRangeResponse
	if err := c.postJSON(ctx, c.baseURL+"/api/unusual_range/", req, &resp); err != nil {
		return nil, err
	}
	return resp.UnusualRanges, nil
}

// Analyze submits a question, optionally with chart data and a real-time
// context lookup, and returns the narrative answer.
func (c *Client) Analyze(ctx context.Context, req httpapi.AnalysisRequest) (string, error) {
	var resp httpapi.AnalysisResponse
	if err := c.postJSON(ctx, c.baseURL+"/api/openai_analysis", req, &resp); err != nil {
		return "", err
	}
	return resp.Answer, nil
}

// News retrieves articles for a symbol on a date (YYYY-MM-DD, empty for
// today).
func (c *Client) News(ctx context.Context, symbol, date string) (*httpapi.NewsResponse, error) {
	u := fmt.Sprintf("%s/api/news/%s", c.baseURL, url.PathEscape(symbol))
	if date != "" {
		u += "?date=" + url.QueryEscape(date)
	}

	var resp httpapi.NewsResponse
	if err := c.getJSON(ctx, u, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// LoadSeries performs the dashboard's two-phase fetch for a ticker: a
// recent one-year window for fast first paint, then full history, merged
// and deduplicated by timestamp.
func (c *Client) LoadSeries(ctx context.Context, symbol string) ([]series.Point, error) {
	recent, err := c.StockData(ctx, symbol, "1y", "1d")
	if err != nil {
		return nil, fmt.Errorf("fetching recent window: %w", err)
	}
	full, err := c.StockData(ctx, symbol, "max", "1d")
	if err != nil {
		return nil, fmt.Errorf("fetching full history: %w", err)
	}

	a, err := toPoints(recent.TimeSeries)
	if err != nil {
		return nil, err
	}
	b, err := toPoints(full.TimeSeries)
	if err != nil {
		return nil, err
	}
	return series.Merge(a, b), nil
}

func toPoints(ts []httpapi.PricePointJSON) ([]series.Point, error) {
	points := make([]series.Point, len(ts))
	for i, p := range ts {
		t, err := series.ParseDate(p.Time)
		if err != nil {
			return nil, fmt.Errorf("bad timestamp %q: %w", p.Time, err)
		}
		points[i] = series.Point{
			Time:     t,
			Close:    p.Close,
			Volume:   p.Volume,
			Earnings: p.Earnings,
		}
	}
	return points, nil
}

func (c *Client) getJSON(ctx context.Context, u string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) postJSON(ctx context.Context, u string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr httpapi.ErrorResponse
		body, _ := io.ReadAll(resp.Body)
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("server returned %d: %s", resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("server returned %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
