package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"review-digest/models"
)

// SQLiteWriter stores the digest in the top_products table of a SQLite file.
// The table is recreated on every write.
type SQLiteWriter struct {
	db *sql.DB
}

func NewSQLiteWriter(path string) (*SQLiteWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("sqlite: create dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	return &SQLiteWriter{db: db}, nil
}

func (s *SQLiteWriter) Name() string { return "sqlite" }

func (s *SQLiteWriter) Write(ctx context.Context, rows []models.DigestRow) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		`DROP TABLE IF EXISTS top_products`,
		`CREATE TABLE top_products (
			position            INTEGER PRIMARY KEY,
			category_cluster    TEXT    NOT NULL,
			name                TEXT    NOT NULL,
			positive_count      INTEGER NOT NULL,
			summary             TEXT    NOT NULL DEFAULT '',
			image_url           TEXT    NOT NULL,
			avg_positive_rating REAL
		)`,
		`CREATE INDEX idx_top_products_cluster ON top_products(category_cluster)`,
	} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("sqlite: migrate: %w", err)
		}
	}

	ins, err := tx.PrepareContext(ctx, `INSERT INTO top_products
		(position, category_cluster, name, positive_count, summary, image_url, avg_positive_rating)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("sqlite: prepare: %w", err)
	}
	defer ins.Close()

	for i, r := range rows {
		if _, err := ins.ExecContext(ctx, i+1, r.Cluster, r.Name, r.PositiveCount, r.Summary, r.ImageURL, nullFloat(r.AvgPositiveRating)); err != nil {
			return fmt.Errorf("sqlite: insert %q: %w", r.Name, err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteWriter) Close() error {
	return s.db.Close()
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
