package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/parquet-go/parquet-go"

	"stockcompass/internal/news"
)

// Compile-time interface check.
var _ NewsStore = (*ParquetStore)(nil)

// ParquetStore implements NewsStore using Parquet files on disk, one file
// per symbol and publication date.
type ParquetStore struct {
	DataDir string
}

// NewParquetStore creates a ParquetStore rooted at the given data directory.
func NewParquetStore(dataDir string) *ParquetStore {
	return &ParquetStore{DataDir: dataDir}
}

// ArticleRecord is the Parquet schema for stored news articles.
type ArticleRecord struct {
	Symbol    string `parquet:"symbol"`
	Timestamp int64  `parquet:"timestamp,timestamp(millisecond)"` // Unix ms
	Source    string `parquet:"source"`
	Headline  string `parquet:"headline"`
	Content   string `parquet:"content"`
}

// WriteArticles writes articles to Parquet files grouped by publication
// date, merging with existing records. Layout:
//
//	<DataDir>/news/<SYMBOL>/<YYYY-MM-DD>.parquet
func (s *ParquetStore) WriteArticles(_ context.Context, symbol string, articles []news.Article) error {
	if len(articles) == 0 {
		return nil
	}

	groups := make(map[string][]ArticleRecord)
	for _, a := range articles {
		date := a.Time.UTC().Format("2006-01-02")
		groups[date] = append(groups[date], ArticleRecord{
			Symbol:    strings.ToUpper(symbol),
			Timestamp: a.Time.UnixMilli(),
			Source:    a.Source,
			Headline:  a.Headline,
			Content:   a.Content,
		})
	}

	for date, records := range groups {
		path := s.articlePath(symbol, date)

		existing, _ := readParquetFile[ArticleRecord](path)
		merged := mergeArticleRecords(existing, records)

		if err := writeParquetFile(path, merged); err != nil {
			return fmt.Errorf("writing news for %s/%s: %w", symbol, date, err)
		}
	}
	return nil
}

// ReadArticles reads stored articles for a symbol within [start, end].
func (s *ParquetStore) ReadArticles(_ context.Context, symbol string, start, end time.Time) ([]news.Article, error) {
	var articles []news.Article
	for d := start.UTC().Truncate(24 * time.Hour); !d.After(end); d = d.AddDate(0, 0, 1) {
		path := s.articlePath(symbol, d.Format("2006-01-02"))
		records, err := readParquetFile[ArticleRecord](path)
		if err != nil {
			// No file for this date.
			continue
		}
		for _, r := range records {
			ts := time.UnixMilli(r.Timestamp).UTC()
			if ts.Before(start) || ts.After(end) {
				continue
			}
			articles = append(articles, news.Article{
				Time:     ts,
				Source:   r.Source,
				Headline: r.Headline,
				Content:  r.Content,
			})
		}
	}
	sort.Slice(articles, func(i, j int) bool { return articles[i].Time.Before(articles[j].Time) })
	return articles, nil
}

// articlePath returns the filesystem path for a news Parquet file.
func (s *ParquetStore) articlePath(symbol, date string) string {
	return filepath.Join(s.DataDir, "news", strings.ToUpper(symbol), date+".parquet")
}

func writeParquetFile[T any](path string, records []T) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return parquet.WriteFile(path, records)
}

func readParquetFile[T any](path string) ([]T, error) {
	rows, err := parquet.ReadFile[T](path)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// mergeArticleRecords deduplicates records by (source, timestamp, headline),
// preferring incoming over existing. Results are sorted by timestamp.
func mergeArticleRecords(existing, incoming []ArticleRecord) []ArticleRecord {
	type key struct {
		source   string
		ts       int64
		headline string
	}
	seen := make(map[key]ArticleRecord, len(existing)+len(incoming))
	for _, r := range existing {
		seen[key{r.Source, r.Timestamp, r.Headline}] = r
	}
	for _, r := range incoming {
		seen[key{r.Source, r.Timestamp, r.Headline}] = r
	}

	merged := make([]ArticleRecord, 0, len(seen))
	for _, r := range seen {
		merged = append(merged, r)
	}
	sort.Slice(merged, func(i, j int) bool {
		if merged[i].Timestamp != merged[j].Timestamp {
			return merged[i].Timestamp < merged[j].Timestamp
		}
		return merged[i].Headline < merged[j].Headline
	})
	return merged
}
