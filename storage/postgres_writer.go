package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"review-digest/models"
)

// PostgresWriter persists the digest to the top_products table in PostgreSQL.
type PostgresWriter struct {
	db *sql.DB
}

// NewPostgresWriter opens a connection to PostgreSQL, runs the schema
// migration and returns a ready-to-use PostgresWriter.
func NewPostgresWriter(ctx context.Context, dsn string) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 5; i++ {
		if err = db.PingContext(ctx); err == nil {
			break
		}
		select {
		case <-time.After(2 * time.Second):
		case <-ctx.Done():
			db.Close()
			return nil, ctx.Err()
		}
	}
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	pw := &PostgresWriter{db: db}
	if err := pw.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}
	return pw, nil
}

func (pw *PostgresWriter) migrate(ctx context.Context) error {
	_, err := pw.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS top_products (
			id                  SERIAL PRIMARY KEY,
			position            INTEGER      NOT NULL,
			category_cluster    TEXT         NOT NULL,
			name                TEXT         NOT NULL,
			positive_count      INTEGER      NOT NULL,
			summary             TEXT         NOT NULL DEFAULT '',
			image_url           TEXT         NOT NULL,
			avg_positive_rating NUMERIC(4,2),
			created_at          TIMESTAMPTZ  NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_top_products_cluster ON top_products(category_cluster);
	`)
	return err
}

func (pw *PostgresWriter) Name() string { return "postgres" }

// Write replaces the table contents in one transaction.
func (pw *PostgresWriter) Write(ctx context.Context, rows []models.DigestRow) error {
	tx, err := pw.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("postgres: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM top_products"); err != nil {
		return fmt.Errorf("postgres: clear: %w", err)
	}

	const batchSize = 50
	for i := 0; i < len(rows); i += batchSize {
		end := min(i+batchSize, len(rows))
		if err := insertBatch(ctx, tx, i, rows[i:end]); err != nil {
			return fmt.Errorf("postgres: insert: %w", err)
		}
	}
	return tx.Commit()
}

func insertBatch(ctx context.Context, tx *sql.Tx, offset int, batch []models.DigestRow) error {
	const cols = 7
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]any, 0, len(batch)*cols)

	for idx, r := range batch {
		base := idx * cols
		valueStrings = append(valueStrings,
			fmt.Sprintf("($%d,$%d,$%d,$%d,$%d,$%d,$%d)",
				base+1, base+2, base+3, base+4, base+5, base+6, base+7))
		valueArgs = append(valueArgs,
			offset+idx+1, r.Cluster, r.Name, r.PositiveCount, r.Summary, r.ImageURL, nullFloat(r.AvgPositiveRating))
	}

	query := fmt.Sprintf(`
		INSERT INTO top_products (position, category_cluster, name, positive_count, summary, image_url, avg_positive_rating)
		VALUES %s
	`, strings.Join(valueStrings, ","))

	_, err := tx.ExecContext(ctx, query, valueArgs...)
	return err
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}
