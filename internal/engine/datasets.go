package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"allison/internal/dataset"
	"allison/internal/normtext"
)

// load opens a named snapshot, trying the CSV form first and then XLSX.
func (e *Engine) load(base string) (*dataset.Dataset, error) {
	for _, ext := range []string{".csv", ".xlsx"} {
		path := filepath.Join(e.dir, base+ext)
		if _, err := os.Stat(path); err == nil {
			return dataset.Load(path)
		}
	}
	return nil, fmt.Errorf("dataset %s: %w", base, os.ErrNotExist)
}

// filterRows returns the rows whose entity column normalizes equal to the
// bound entity name. Exact equality only; fuzzy matching never applies to
// entity filters.
func filterRows(ds *dataset.Dataset, column, normalizedTarget string) []dataset.Row {
	var out []dataset.Row
	for i := 0; i < ds.Len(); i++ {
		row := ds.Row(i)
		if v, ok := row.Get(column); ok && normtext.Normalize(v) == normalizedTarget {
			out = append(out, row)
		}
	}
	return out
}

// candidateFiles lists the snapshots searched by the free-text scorer:
// road-network and base-registry tables. When none match the naming
// convention, every tabular file in the directory is searched.
func (e *Engine) candidateFiles() []string {
	entries, err := os.ReadDir(e.dir)
	if err != nil {
		return nil
	}
	var preferred, all []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if ext != ".csv" && ext != ".xlsx" {
			continue
		}
		path := filepath.Join(e.dir, name)
		all = append(all, path)
		if strings.HasPrefix(name, "Red_vial") || strings.HasPrefix(name, "Base_") {
			preferred = append(preferred, path)
		}
	}
	if len(preferred) > 0 {
		return preferred
	}
	return all
}
