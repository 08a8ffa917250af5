// Package httpapi serves the dashboard HTTP API: stock data, metadata,
// unusual ranges, news, and the analysis proxy.
package httpapi

import (
	"stockcompass/internal/llm"
)

// PricePointJSON is one bar of the time_series payload.
type PricePointJSON struct {
	Time      string  `json:"time"`
	Close     float64 `json:"close_price"`
	Volume    int64   `json:"volume"`
	PctChange float64 `json:"pct_change"`
	Earnings  float64 `json:"earnings,omitempty"`
	MarketCap float64 `json:"market_cap"`
	PE        float64 `json:"pe"`
}

// FinPointJSON is one fiscal year of fundamentals.
type FinPointJSON struct {
	Year         int     `json:"year"`
	EPS          float64 `json:"eps"`
	FreeCashFlow float64 `json:"free_cash_flow"`
	ProfitMargin float64 `json:"profit_margin"`
}

// StockDataResponse is the stockdata endpoint payload.
type StockDataResponse struct {
	StatusCode int              `json:"status_code"`
	TimeSeries []PricePointJSON `json:"time_series"`
	FinData    []FinPointJSON   `json:"fin_data,omitempty"`
}

// MetadataJSON is the header information for a symbol. The misspelled
// monthly field name is part of the wire contract consumed by existing
// clients.
type MetadataJSON struct {
	LongName         string   `json:"longName"`
	ExchangeName     string   `json:"exchangeName"`
	Currency         string   `json:"currency"`
	LastClose        string   `json:"lastClose"`
	MonthlyPctChange *float64 `json:"montly_pct_change"`
	YearlyPctChange  *float64 `json:"yearly_pct_change"`
}

// MetadataResponse is the stock_metadata endpoint payload.
type MetadataResponse struct {
	StatusCode int          `json:"status_code"`
	Metadata   MetadataJSON `json:"metadata"`
}

// UnusualRangeRequest carries the visible chart slice as parallel arrays.
type UnusualRangeRequest struct {
	Data struct {
		Time   []string  `json:"time"`
		Price  []float64 `json:"price"`
		Volume []float64 `json:"volume"`
	} `json:"data"`
}

// UnusualRangeResponse lists flagged [start, end] date pairs.
type UnusualRangeResponse struct {
	UnusualRanges [][2]string `json:"unusual_ranges"`
}

// AnalysisRequest is the openai_analysis endpoint request body.
type AnalysisRequest struct {
	Prompt        string           `json:"prompt"`
	ChartData     []llm.ChartPoint `json:"chartData,omitempty"`
	UseFileSearch bool             `json:"useFileSearch,omitempty"`
}

// AnalysisResponse carries the normalized completion answer.
type AnalysisResponse struct {
	Answer string `json:"answer"`
}

// ErrorResponse is the error payload shape for every endpoint.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// NewsArticleJSON is a single news article.
type NewsArticleJSON struct {
	Time     int64  `json:"time"`
	Source   string `json:"source"`
	Headline string `json:"headline"`
	Content  string `json:"content,omitempty"`
}

// NewsResponse holds news articles for a symbol on one date.
type NewsResponse struct {
	Symbol   string            `json:"symbol"`
	Date     string            `json:"date"`
	Articles []NewsArticleJSON `json:"articles"`
}
