package marketdata

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestFetchChartSkipsNullBars(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		// Middle bar is a holiday: null close and volume.
		io.WriteString(w, `{"chart":{"result":[{
			"meta":{"currency":"USD","exchangeName":"NMS","fullExchangeName":"NasdaqGS","longName":"Apple Inc."},
			"timestamp":[1704326400,1704240000,1704412800],
			"indicators":{"quote":[{"close":[101.5,null,103.25],"volume":[2000,null,3000]}]}
		}],"error":null}}`)
	}))
	defer srv.Close()

	c := NewClientWithBaseURL(srv.URL, testLogger())
	points, err := c.FetchChart(context.Background(), "AAPL", "1y", "1d")
	if err != nil {
		t.Fatalf("FetchChart: %v", err)
	}

	if len(points) != 2 {
		t.Fatalf("got %d points, want 2 (null bar skipped)", len(points))
	}
	if !points[0].Time.Before(points[1].Time) {
		t.Error("points not sorted ascending")
	}
	if points[0].Close != 101.5 || points[0].Volume != 2000 {
		t.Errorf("first point = %+v", points[0])
	}
}

func TestFetchChartAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`)
	}))
	defer srv.Close()

	c := NewClientWithBaseURL(srv.URL, testLogger())
	_, err := c.FetchChart(context.Background(), "NOPE", "1y", "1d")
	if err == nil {
		t.Fatal("expected error for delisted symbol")
	}
	if !strings.Contains(err.Error(), "delisted") {
		t.Errorf("error %q does not carry the upstream description", err)
	}
}

func TestFetchMetadata(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Query().Get("range") {
		case "1mo":
			// 100 -> 110 over the month.
			io.WriteString(w, `{"chart":{"result":[{
				"timestamp":[1715644800,1718323200],
				"indicators":{"quote":[{"close":[100,110],"volume":[1000,1000]}]}
			}],"error":null}}`)
		case "1y":
			// Single bar: too short, yearly change degrades to nil.
			io.WriteString(w, `{"chart":{"result":[{
				"timestamp":[1718323200],
				"indicators":{"quote":[{"close":[110],"volume":[1000]}]}
			}],"error":null}}`)
		default:
			// 1718371800 is 2024-06-14 13:30 UTC, a mid-session bar.
			io.WriteString(w, `{"chart":{"result":[{
				"meta":{"currency":"USD","exchangeName":"NMS","fullExchangeName":"NasdaqGS","longName":"Apple Inc."},
				"timestamp":[1718371800],
				"indicators":{"quote":[{"close":[110],"volume":[1000]}]}
			}],"error":null}}`)
		}
	}))
	defer srv.Close()

	c := NewClientWithBaseURL(srv.URL, testLogger())
	md, err := c.FetchMetadata(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("FetchMetadata: %v", err)
	}

	if md.LongName != "Apple Inc." {
		t.Errorf("LongName = %q", md.LongName)
	}
	if md.ExchangeName != "NasdaqGS" {
		t.Errorf("ExchangeName = %q, want full exchange name", md.ExchangeName)
	}
	if md.Currency != "USD" {
		t.Errorf("Currency = %q", md.Currency)
	}
	if md.LastClose != "2024-06-14" {
		t.Errorf("LastClose = %q", md.LastClose)
	}
	if md.MonthlyPctChange == nil {
		t.Fatal("MonthlyPctChange is nil")
	}
	if got := *md.MonthlyPctChange; got < 0.0999 || got > 0.1001 {
		t.Errorf("MonthlyPctChange = %v, want 0.1", got)
	}
	if md.YearlyPctChange != nil {
		t.Errorf("YearlyPctChange = %v, want nil for single-bar history", *md.YearlyPctChange)
	}
}

func TestFetchFundamentals(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/v10/finance/quoteSummary/") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		// endDate 1703980800 is 2023-12-31.
		io.WriteString(w, `{"quoteSummary":{"result":[{
			"incomeStatementHistory":{"incomeStatementHistory":[
				{"endDate":{"raw":1703980800},"totalRevenue":{"raw":1000},"grossProfit":{"raw":400},"netIncome":{"raw":200}}
			]},
			"cashflowStatementHistory":{"cashflowStatements":[
				{"endDate":{"raw":1703980800},"totalCashFromOperatingActivities":{"raw":300},"capitalExpenditures":{"raw":-100}}
			]},
			"defaultKeyStatistics":{"sharesOutstanding":{"raw":100}}
		}],"error":null}}`)
	}))
	defer srv.Close()

	c := NewClientWithBaseURL(srv.URL, testLogger())
	years, err := c.FetchFundamentals(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("FetchFundamentals: %v", err)
	}

	fy, ok := years[2023]
	if !ok {
		t.Fatalf("no fundamentals for 2023, got %v", years)
	}
	if fy.EPS != 2 {
		t.Errorf("EPS = %v, want 2 (net income 200 / shares 100)", fy.EPS)
	}
	if fy.FreeCashFlow != 200 {
		t.Errorf("FreeCashFlow = %v, want 200 (ops 300 + capex -100)", fy.FreeCashFlow)
	}
	if fy.ProfitMargin != 0.4 {
		t.Errorf("ProfitMargin = %v, want 0.4", fy.ProfitMargin)
	}
}
