package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"momentum/internal/domain"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.
)

// Compile-time interface check.
var _ ConstituentStore = (*SQLiteStore)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS constituents (
	snapshot   TEXT    NOT NULL,
	position   INTEGER NOT NULL,
	symbol     TEXT    NOT NULL,
	name       TEXT    NOT NULL DEFAULT '',
	industry   TEXT    NOT NULL DEFAULT '',
	market_cap TEXT,
	PRIMARY KEY (snapshot, symbol)
);`

const dateLayout = "2006-01-02"

// SQLiteStore implements ConstituentStore backed by a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath, creates the
// schema if needed, and returns a ready-to-use SQLiteStore.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveConstituents replaces the snapshot for date inside one transaction.
// Market caps are stored as decimal strings so they round-trip exactly; an
// unknown cap is NULL.
func (s *SQLiteStore) SaveConstituents(ctx context.Context, date time.Time, cons []domain.Constituent) error {
	snapshot := date.Format(dateLayout)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM constituents WHERE snapshot = ?`, snapshot); err != nil {
		return fmt.Errorf("clearing snapshot %s: %w", snapshot, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO constituents (snapshot, position, symbol, name, industry, market_cap)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, c := range cons {
		if _, err := stmt.ExecContext(ctx, snapshot, i, c.Symbol, c.Name, c.Industry, c.MarketCap); err != nil {
			return fmt.Errorf("inserting %s: %w", c.Symbol, err)
		}
	}
	return tx.Commit()
}

// LoadConstituents returns the snapshot for date in saved order.
func (s *SQLiteStore) LoadConstituents(ctx context.Context, date time.Time) ([]domain.Constituent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT symbol, name, industry, market_cap
		FROM constituents
		WHERE snapshot = ?
		ORDER BY position`, date.Format(dateLayout))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cons []domain.Constituent
	for rows.Next() {
		var c domain.Constituent
		if err := rows.Scan(&c.Symbol, &c.Name, &c.Industry, &c.MarketCap); err != nil {
			return nil, fmt.Errorf("scanning constituent: %w", err)
		}
		cons = append(cons, c)
	}
	return cons, rows.Err()
}

// LatestSnapshot returns the most recent snapshot date.
func (s *SQLiteStore) LatestSnapshot(ctx context.Context) (time.Time, bool, error) {
	var snapshot sql.NullString
	if err := s.db.QueryRowContext(ctx, `SELECT MAX(snapshot) FROM constituents`).Scan(&snapshot); err != nil {
		return time.Time{}, false, err
	}
	if !snapshot.Valid {
		return time.Time{}, false, nil
	}
	t, err := time.Parse(dateLayout, snapshot.String)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("parsing snapshot date %q: %w", snapshot.String, err)
	}
	return t, true, nil
}
