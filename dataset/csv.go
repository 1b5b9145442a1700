package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"os"
)

type csvTable struct {
	Path    string
	Headers []string
	Rows    [][]string
}

// loadCSV reads a delimited file with a header row. A UTF-8 BOM is trimmed and
// ragged rows are tolerated (missing trailing cells read as empty).
func loadCSV(path string) (csvTable, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return csvTable{}, err
	}
	b = bytes.TrimPrefix(b, []byte{0xEF, 0xBB, 0xBF})
	r := csv.NewReader(bytes.NewReader(b))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	headers, err := r.Read()
	if err != nil {
		return csvTable{}, err
	}
	var rows [][]string
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return csvTable{}, err
		}
		rows = append(rows, rec)
	}
	return csvTable{Path: path, Headers: headers, Rows: rows}, nil
}

// index returns the position of the named column, or -1.
func (t csvTable) index(name string) int {
	for i, h := range t.Headers {
		if h == name {
			return i
		}
	}
	return -1
}

func cell(rec []string, idx int) string {
	if idx < 0 || idx >= len(rec) {
		return ""
	}
	return rec[idx]
}
