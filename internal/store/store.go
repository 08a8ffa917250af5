// Package store persists fetched market data: price snapshots in SQLite
// and news history in Parquet files.
package store

import (
	"context"
	"time"

	"stockcompass/internal/news"
	"stockcompass/internal/series"
)

// SnapshotStore holds the most recently fetched price series per symbol.
// Each fetch replaces the previous snapshot wholesale.
type SnapshotStore interface {
	// ReplaceSnapshot atomically swaps the stored series for a symbol.
	ReplaceSnapshot(ctx context.Context, symbol string, points []series.Point) error

	// ReadSnapshot returns the stored series for a symbol in time order.
	ReadSnapshot(ctx context.Context, symbol string) ([]series.Point, error)

	// Close releases the underlying database.
	Close() error
}

// NewsStore persists and retrieves news articles.
type NewsStore interface {
	// WriteArticles persists a batch of articles for a symbol, merging with
	// any already on disk.
	WriteArticles(ctx context.Context, symbol string, articles []news.Article) error

	// ReadArticles returns stored articles for a symbol within [start, end].
	ReadArticles(ctx context.Context, symbol string, start, end time.Time) ([]news.Article, error)
}
