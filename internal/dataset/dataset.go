// Package dataset loads the agency's tabular snapshots (CSV or XLSX) into
// flat, read-only tables with optional-column access. Files are re-read on
// every query; the snapshots are refreshed out-of-band and never mutated
// here.
package dataset

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
)

// Dataset is a named flat table. Columns are untyped strings; rows are
// identified by position and duplicates are legal.
type Dataset struct {
	Name    string
	Columns []string
	index   map[string]int
	records [][]string
}

// Row is one record of a Dataset with column-by-name access.
type Row struct {
	ds     *Dataset
	values []string
}

// Load reads a tabular file into a Dataset. CSV content is decoded as
// UTF-8 (an optional byte-order mark is dropped) and falls back to Latin-1
// when the bytes are not valid UTF-8, so legacy exports are never skipped
// over encoding alone. XLSX files are read from their first sheet.
func Load(path string) (*Dataset, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return loadCSV(path)
	case ".xlsx":
		return loadXLSX(path)
	default:
		return nil, fmt.Errorf("dataset %s: unsupported file type", path)
	}
}

func loadCSV(path string) (*Dataset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if utf8.Valid(raw) {
		raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))
	} else {
		decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
		if err != nil {
			return nil, fmt.Errorf("dataset %s: decode: %w", path, err)
		}
		raw = decoded
	}
	r := csv.NewReader(bytes.NewReader(raw))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("dataset %s: parse: %w", path, err)
	}
	return fromRecords(filepath.Base(path), records), nil
}

func loadXLSX(path string) (*Dataset, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return fromRecords(filepath.Base(path), nil), nil
	}
	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("dataset %s: read sheet: %w", path, err)
	}
	return fromRecords(filepath.Base(path), records), nil
}

func fromRecords(name string, records [][]string) *Dataset {
	d := &Dataset{Name: name, index: map[string]int{}}
	if len(records) == 0 {
		return d
	}
	d.Columns = records[0]
	for i, col := range d.Columns {
		col = strings.TrimSpace(col)
		d.Columns[i] = col
		if _, dup := d.index[col]; !dup {
			d.index[col] = i
		}
	}
	for _, rec := range records[1:] {
		// Pad short records so every row spans the full header.
		if len(rec) < len(d.Columns) {
			padded := make([]string, len(d.Columns))
			copy(padded, rec)
			rec = padded
		}
		d.records = append(d.records, rec)
	}
	return d
}

// Len returns the number of data rows.
func (d *Dataset) Len() int { return len(d.records) }

// Row returns the record at position i.
func (d *Dataset) Row(i int) Row { return Row{ds: d, values: d.records[i]} }

// HasColumn reports whether the named column exists in the header.
func (d *Dataset) HasColumn(col string) bool {
	_, ok := d.index[col]
	return ok
}

// Label returns the human-readable source label used in context blocks:
// the file name with the decoder suffix stripped and underscores turned
// into spaces.
func (d *Dataset) Label() string {
	name := strings.ReplaceAll(d.Name, "_decodificado.csv", "")
	name = strings.ReplaceAll(name, "_decodificado.xlsx", "")
	return strings.ReplaceAll(name, "_", " ")
}

// Get returns the trimmed value of the named column. The second return is
// false when the column is absent from this dataset, which callers must
// treat as "skip this signal", never as an error.
func (r Row) Get(col string) (string, bool) {
	i, ok := r.ds.index[col]
	if !ok {
		return "", false
	}
	if i >= len(r.values) {
		return "", true
	}
	return strings.TrimSpace(r.values[i]), true
}

// Columns returns the dataset header, in file order.
func (r Row) Columns() []string { return r.ds.Columns }

// Value returns the trimmed value at header position i.
func (r Row) Value(i int) string {
	if i >= len(r.values) {
		return ""
	}
	return strings.TrimSpace(r.values[i])
}
