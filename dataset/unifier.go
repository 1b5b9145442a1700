package dataset

import (
	"fmt"
	"strconv"
	"strings"

	"review-digest/config"
	"review-digest/models"
)

// Source is one input dataset.
type Source struct {
	Name string
	Path string
}

// Columns maps logical review fields to CSV header names.
type Columns struct {
	Name      string
	Category  string
	Text      string
	Rating    string
	ImageURLs string
}

// ColumnsFromConfig converts the configured header names.
func ColumnsFromConfig(c config.ColumnsConfig) Columns {
	return Columns{
		Name:      c.Name,
		Category:  c.Category,
		Text:      c.Text,
		Rating:    c.Rating,
		ImageURLs: c.ImageURLs,
	}
}

// SourcesFromConfig converts the configured dataset list. A source without a
// name is named after its path.
func SourcesFromConfig(cs []config.SourceConfig) []Source {
	out := make([]Source, 0, len(cs))
	for _, c := range cs {
		name := c.Name
		if name == "" {
			name = c.Path
		}
		out = append(out, Source{Name: name, Path: c.Path})
	}
	return out
}

// Result is the unified review table plus per-source statistics.
type Result struct {
	Reviews []models.Review
	Stats   []models.SourceStats
}

// Unify loads every source in order, reconciles the optional image column and
// drops rows whose review text is missing.
//
// A required column absent from any source is a fatal schema error; nothing
// from the other sources is returned in that case.
func Unify(sources []Source, cols Columns) (*Result, error) {
	res := &Result{}
	for _, src := range sources {
		table, err := loadCSV(src.Path)
		if err != nil {
			return nil, models.SchemaError(fmt.Sprintf("read source %s", src.Name), err)
		}

		idx, err := resolveColumns(table, cols)
		if err != nil {
			return nil, models.SchemaError(fmt.Sprintf("source %s (%s)", src.Name, src.Path), err)
		}

		stats := models.SourceStats{
			Name:           src.Name,
			Path:           src.Path,
			RowsRead:       len(table.Rows),
			HasImageColumn: idx.image >= 0,
		}
		if !stats.HasImageColumn {
			config.Logger.Infof("source %s has no %q column, image urls set to null", src.Name, cols.ImageURLs)
		}

		for i, rec := range table.Rows {
			text := cell(rec, idx.text)
			if IsNull(text) {
				stats.RowsDropped++
				continue
			}
			res.Reviews = append(res.Reviews, models.Review{
				Name:      nullToEmpty(cell(rec, idx.name)),
				Category:  nullToEmpty(cell(rec, idx.category)),
				Text:      text,
				Rating:    parseRating(cell(rec, idx.rating), src.Name, i+1),
				ImageURLs: nullable(cell(rec, idx.image), idx.image),
				Source:    src.Name,
				SourceRow: i + 1,
			})
		}
		res.Stats = append(res.Stats, stats)
		config.Logger.Debugf("source %s: %d rows read, %d dropped for missing text", src.Name, stats.RowsRead, stats.RowsDropped)
	}
	return res, nil
}

type columnIndex struct {
	name, category, text, rating, image int
}

func resolveColumns(t csvTable, cols Columns) (columnIndex, error) {
	idx := columnIndex{
		name:     t.index(cols.Name),
		category: t.index(cols.Category),
		text:     t.index(cols.Text),
		rating:   t.index(cols.Rating),
		image:    t.index(cols.ImageURLs),
	}
	var missing []string
	for _, c := range []struct {
		header string
		pos    int
	}{
		{cols.Name, idx.name},
		{cols.Category, idx.category},
		{cols.Text, idx.text},
		{cols.Rating, idx.rating},
	} {
		if c.pos < 0 {
			missing = append(missing, c.header)
		}
	}
	if len(missing) > 0 {
		return idx, fmt.Errorf("missing required column(s): %s", strings.Join(missing, ", "))
	}
	return idx, nil
}

func nullToEmpty(v string) string {
	if IsNull(v) {
		return ""
	}
	return v
}

func nullable(v string, idx int) *string {
	if idx < 0 || IsNull(v) {
		return nil
	}
	return &v
}

func parseRating(v, source string, row int) *float64 {
	if IsNull(v) {
		return nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		config.Logger.Warnf("source %s row %d: unparseable rating %q treated as null", source, row, v)
		return nil
	}
	return &f
}
