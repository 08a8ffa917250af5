// Package news fetches articles for a symbol from Google News RSS,
// GlobeNewswire RSS, and optionally the Alpaca marketdata API.
package news

import (
	"context"
	"encoding/xml"
	"fmt"
	"html"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"

	"stockcompass/internal/util"
)

// Article is a single news article from any source.
type Article struct {
	Time     time.Time
	Source   string
	Headline string
	Content  string
}

// Fetcher pulls articles from the configured sources. Alpaca is used only
// when a marketdata client is supplied.
type Fetcher struct {
	httpc   *http.Client
	limiter *util.RateLimiter
	alpaca  *marketdata.Client

	googleBase string
	globeBase  string
}

// NewFetcher creates a Fetcher. alpaca may be nil.
func NewFetcher(alpaca *marketdata.Client) *Fetcher {
	return &Fetcher{
		httpc:      &http.Client{Timeout: 10 * time.Second},
		limiter:    util.NewRateLimiter(30),
		alpaca:     alpaca,
		googleBase: "https://news.google.com",
		globeBase:  "https://www.globenewswire.com",
	}
}

// NewFetcherWithBaseURLs creates a Fetcher against non-default RSS
// endpoints. Used by tests to point at local fakes.
func NewFetcherWithBaseURLs(googleBase, globeBase string) *Fetcher {
	f := NewFetcher(nil)
	f.googleBase = googleBase
	f.globeBase = globeBase
	return f
}

// FetchAll fetches from every configured source, sorted ascending by time.
// A source failing does not fail the whole fetch; the first error is
// returned alongside whatever the other sources produced.
func (f *Fetcher) FetchAll(ctx context.Context, symbol string, start, end time.Time) ([]Article, error) {
	var all []Article
	var firstErr error

	collect := func(articles []Article, err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
		all = append(all, articles...)
	}

	collect(f.FetchGoogleNews(ctx, symbol, start, end))
	collect(f.FetchGlobeNewswire(ctx, symbol, start, end))
	if f.alpaca != nil {
		collect(f.FetchAlpacaNews(symbol, start, end))
	}

	sortArticles(all)
	return all, firstErr
}

// --- Alpaca ---

// FetchAlpacaNews fetches news from the Alpaca marketdata API.
func (f *Fetcher) FetchAlpacaNews(symbol string, start, end time.Time) ([]Article, error) {
	alpacaNews, err := f.alpaca.GetNews(marketdata.GetNewsRequest{
		Symbols:            []string{symbol},
		Start:              start,
		End:                end,
		TotalLimit:         50,
		IncludeContent:     true,
		ExcludeContentless: true,
		Sort:               marketdata.SortAsc,
	})
	if err != nil {
		return nil, err
	}

	articles := make([]Article, 0, len(alpacaNews))
	for _, a := range alpacaNews {
		body := a.Summary
		if a.Content != "" {
			body = ExtractSymbolContent(a.Content, symbol)
		}
		articles = append(articles, Article{
			Time:     a.CreatedAt,
			Source:   "alpaca",
			Headline: a.Headline,
			Content:  body,
		})
	}
	return articles, nil
}

// --- RSS sources ---

type rssResponse struct {
	Channel struct {
		Items []rssItem `xml:"item"`
	} `xml:"channel"`
}

type rssItem struct {
	Title   string `xml:"title"`
	PubDate string `xml:"pubDate"`
	Desc    string `xml:"description"`
}

// FetchGoogleNews fetches news from Google News RSS.
func (f *Fetcher) FetchGoogleNews(ctx context.Context, symbol string, start, end time.Time) ([]Article, error) {
	q := url.QueryEscape(symbol + " stock")
	u := f.googleBase + "/rss/search?q=" + q + "&hl=en-US&gl=US&ceid=US:en"

	rss, err := f.fetchRSS(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("google news: %w", err)
	}

	var articles []Article
	for _, item := range rss.Channel.Items {
		t, ok := parsePubDate(item.PubDate, time.RFC1123Z, time.RFC1123)
		if !ok || t.Before(start) || t.After(end) {
			continue
		}
		// Google appends " - Publisher" to the title.
		headline := item.Title
		if idx := strings.LastIndex(headline, " - "); idx > 0 {
			headline = headline[:idx]
		}
		articles = append(articles, Article{
			Time:     t,
			Source:   "google",
			Headline: headline,
			Content:  StripHTML(item.Desc),
		})
	}
	return articles, nil
}

// FetchGlobeNewswire fetches news from GlobeNewswire RSS.
func (f *Fetcher) FetchGlobeNewswire(ctx context.Context, symbol string, start, end time.Time) ([]Article, error) {
	u := f.globeBase + "/RssFeed/keyword/" + url.PathEscape(symbol) + "/feedTitle/GlobeNewswire.xml"

	rss, err := f.fetchRSS(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("globenewswire: %w", err)
	}

	var articles []Article
	for _, item := range rss.Channel.Items {
		t, ok := parsePubDate(item.PubDate, "Mon, 02 Jan 2006 15:04 MST", time.RFC1123Z, time.RFC1123)
		if !ok || t.Before(start) || t.After(end) {
			continue
		}
		articles = append(articles, Article{
			Time:     t,
			Source:   "globenewswire",
			Headline: item.Title,
			Content:  StripHTML(item.Desc),
		})
	}
	return articles, nil
}

func (f *Fetcher) fetchRSS(ctx context.Context, u string) (rssResponse, error) {
	var rss rssResponse

	if err := f.limiter.Wait(ctx); err != nil {
		return rss, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return rss, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.httpc.Do(req)
	if err != nil {
		return rss, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return rss, fmt.Errorf("status %d", resp.StatusCode)
	}
	if err := xml.NewDecoder(resp.Body).Decode(&rss); err != nil {
		return rss, err
	}
	return rss, nil
}

func parsePubDate(s string, layouts ...string) (time.Time, bool) {
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func sortArticles(articles []Article) {
	sort.Slice(articles, func(i, j int) bool { return articles[i].Time.Before(articles[j].Time) })
}

// --- HTML helpers ---

var htmlTagRe = regexp.MustCompile(`<[^>]*>`)
var htmlParaRe = regexp.MustCompile(`(?i)</?(p|br|div|li|h[1-6])\b[^>]*>`)

// StripHTML removes HTML tags and normalizes whitespace.
func StripHTML(s string) string {
	s = htmlTagRe.ReplaceAllString(s, " ")
	s = html.UnescapeString(s)
	fields := strings.Fields(s)
	return strings.Join(fields, " ")
}

// ExtractSymbolContent extracts paragraphs mentioning the symbol from HTML
// content, falling back to the full stripped HTML when none match.
func ExtractSymbolContent(rawHTML, symbol string) string {
	chunks := htmlParaRe.Split(rawHTML, -1)
	var matched []string
	upper := strings.ToUpper(symbol)
	for _, chunk := range chunks {
		plain := StripHTML(chunk)
		if plain == "" {
			continue
		}
		if strings.Contains(strings.ToUpper(plain), upper) {
			matched = append(matched, plain)
		}
	}
	if len(matched) > 0 {
		return strings.Join(matched, " ")
	}
	return StripHTML(rawHTML)
}
