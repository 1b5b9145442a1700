package storage

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"review-digest/models"
)

// CSVWriter writes the digest table to a single CSV file. The file is
// replaced atomically: rows go to a temp file in the same directory which is
// then renamed over the target.
type CSVWriter struct {
	path string
}

func NewCSVWriter(path string) *CSVWriter {
	return &CSVWriter{path: path}
}

func (c *CSVWriter) Name() string { return "csv" }

func (c *CSVWriter) Path() string { return c.path }

func (c *CSVWriter) Write(ctx context.Context, rows []models.DigestRow) error {
	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return models.OutputError("create output dir", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(c.path)+".*.tmp")
	if err != nil {
		return models.OutputError("create temp file", err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpPath)
		}
	}()

	if err := writeRows(ctx, tmp, rows); err != nil {
		_ = tmp.Close()
		return models.OutputError("write "+c.path, err)
	}
	if err := tmp.Close(); err != nil {
		return models.OutputError("close temp file", err)
	}
	if err := os.Rename(tmpPath, c.path); err != nil {
		return models.OutputError("replace "+c.path, err)
	}
	committed = true
	return nil
}

func (c *CSVWriter) Close() error { return nil }

func writeRows(ctx context.Context, w io.Writer, rows []models.DigestRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(models.DigestColumns); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}
	for _, r := range rows {
		if err := ctx.Err(); err != nil {
			return err
		}
		record := []string{
			r.Cluster,
			r.Name,
			strconv.Itoa(r.PositiveCount),
			r.Summary,
			r.ImageURL,
			formatRating(r.AvgPositiveRating),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// formatRating renders a rating the way a float column is written to CSV:
// whole numbers keep one decimal ("5.0"), null is an empty cell.
func formatRating(v *float64) string {
	if v == nil {
		return ""
	}
	if *v == float64(int64(*v)) {
		return strconv.FormatFloat(*v, 'f', 1, 64)
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// ReadCSV parses a digest file written by CSVWriter.
func ReadCSV(path string) ([]models.DigestRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv: read %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("csv: %s has no header", path)
	}
	header := records[0]
	if len(header) != len(models.DigestColumns) {
		return nil, fmt.Errorf("csv: %s has %d columns, want %d", path, len(header), len(models.DigestColumns))
	}
	for i, col := range models.DigestColumns {
		if header[i] != col {
			return nil, fmt.Errorf("csv: %s column %d is %q, want %q", path, i, header[i], col)
		}
	}

	rows := make([]models.DigestRow, 0, len(records)-1)
	for line, rec := range records[1:] {
		count, err := strconv.Atoi(rec[2])
		if err != nil {
			return nil, fmt.Errorf("csv: %s row %d: positive_count: %w", path, line+1, err)
		}
		row := models.DigestRow{
			Cluster:       rec[0],
			Name:          rec[1],
			PositiveCount: count,
			Summary:       rec[3],
			ImageURL:      rec[4],
		}
		if rec[5] != "" {
			v, err := strconv.ParseFloat(rec[5], 64)
			if err != nil {
				return nil, fmt.Errorf("csv: %s row %d: avg_positive_rating: %w", path, line+1, err)
			}
			row.AvgPositiveRating = &v
		}
		rows = append(rows, row)
	}
	return rows, nil
}
