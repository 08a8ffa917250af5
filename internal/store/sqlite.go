package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"stockcompass/internal/series"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.
)

// Compile-time interface check.
var _ SnapshotStore = (*SQLiteStore)(nil)

// SQLiteStore implements SnapshotStore backed by a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and ensures
// the snapshot table exists.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	const schema = `
		CREATE TABLE IF NOT EXISTS price_snapshot (
			symbol    TEXT    NOT NULL,
			timestamp INTEGER NOT NULL,
			close     REAL    NOT NULL,
			volume    INTEGER NOT NULL,
			earnings  REAL    NOT NULL,
			PRIMARY KEY (symbol, timestamp)
		)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating snapshot table: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ReplaceSnapshot deletes the previous snapshot for the symbol and inserts
// the new series in a single transaction.
func (s *SQLiteStore) ReplaceSnapshot(ctx context.Context, symbol string, points []series.Point) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM price_snapshot WHERE symbol = ?`, symbol); err != nil {
		return fmt.Errorf("clearing snapshot for %s: %w", symbol, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO price_snapshot (symbol, timestamp, close, volume, earnings) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, p := range points {
		if _, err := stmt.ExecContext(ctx, symbol, p.Time.UnixMilli(), p.Close, p.Volume, p.Earnings); err != nil {
			return fmt.Errorf("inserting snapshot row for %s: %w", symbol, err)
		}
	}
	return tx.Commit()
}

// ReadSnapshot returns the stored series for a symbol ordered by timestamp.
func (s *SQLiteStore) ReadSnapshot(ctx context.Context, symbol string) ([]series.Point, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT timestamp, close, volume, earnings FROM price_snapshot WHERE symbol = ? ORDER BY timestamp`,
		symbol)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []series.Point
	for rows.Next() {
		var ts int64
		var p series.Point
		if err := rows.Scan(&ts, &p.Close, &p.Volume, &p.Earnings); err != nil {
			return nil, err
		}
		p.Time = time.UnixMilli(ts).UTC()
		points = append(points, p)
	}
	return points, rows.Err()
}
