package engine

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"go.uber.org/zap"

	"allison/internal/dataset"
	"allison/internal/normtext"
)

// Column precedence per signal role. The first column present in a
// dataset fills the role, even when its value turns out empty; column
// presence, not value, decides precedence.
var (
	nameColumns     = []string{"NOMBRE_VIA", "MPIO_NOMBRE", "VERE_NOMBRE", "PROYECTOS", "NECESIDAD"}
	codeColumns     = []string{"CODIGO_VIA", "RADICADO", "ID_RADICADOS", "RADICADOS ASOCIADOS"}
	locationColumns = []string{"MUNICIPIO", "SUBREGION"}
)

// Per-dataset cap before the global merge.
const perFileTop = 5

// scoreRows is the default retrieval path: every row of every candidate
// snapshot is scored against the query with weighted exact, substring,
// fuzzy and location signals. The top rows per file are rendered and
// pooled; the caller applies the global ordering and cap.
func (e *Engine) scoreRows(query string, keywords []string) []ScoredMatch {
	queryNorm := normtext.Normalize(query)
	var out []ScoredMatch
	for _, path := range e.candidateFiles() {
		ds, err := dataset.Load(path)
		if err != nil {
			e.warnSkip(filepath.Base(path), err)
			continue
		}
		type scoredRow struct {
			row   dataset.Row
			score float64
		}
		var kept []scoredRow
		for i := 0; i < ds.Len(); i++ {
			row := ds.Row(i)
			if s := e.scoreRow(row, queryNorm, keywords); s > 0 {
				kept = append(kept, scoredRow{row: row, score: s})
			}
		}
		if len(kept) == 0 {
			continue
		}
		sort.SliceStable(kept, func(i, j int) bool { return kept[i].score > kept[j].score })
		if len(kept) > perFileTop {
			kept = kept[:perFileTop]
		}
		for _, sr := range kept {
			out = append(out, ScoredMatch{Text: renderRowBlock(ds, sr.row, sr.score), Score: sr.score})
		}
		e.log.Debug("scored dataset",
			zap.String("dataset", ds.Name),
			zap.Int("kept", len(kept)))
	}
	return out
}

// scoreRow computes the weighted relevance of one row. The name and code
// fields carry the identification signals; the location field carries a
// weaker secondary signal.
func (e *Engine) scoreRow(row dataset.Row, queryNorm string, keywords []string) float64 {
	var score float64

	var targets []string
	if v := firstPresent(row, nameColumns); usable(v) {
		targets = append(targets, v)
	}
	if v := firstPresent(row, codeColumns); usable(v) {
		targets = append(targets, v)
	}

	for _, target := range targets {
		tn := normtext.Normalize(target)

		// Identification chain, strongest applicable signal only. The
		// exact-keyword hit is the single highest reward: a query that
		// names a filing number or road code must surface that row first.
		switch {
		case tn == queryNorm:
			score += 200
		case keywordEquals(keywords, tn):
			score += 500
		case len(queryNorm) > 5 && strings.Contains(tn, queryNorm):
			score += 150
		}

		if sim := similarityRatio(queryNorm, tn); sim > 0.6 {
			score += sim * 100
		}
		if strings.Contains(tn, queryNorm) || strings.Contains(queryNorm, tn) {
			score += 50
		}
		score += float64(countContained(keywords, tn)) * 10
	}

	if loc := firstPresent(row, locationColumns); usable(loc) {
		ln := normtext.Normalize(loc)
		if strings.Contains(ln, queryNorm) || strings.Contains(queryNorm, ln) {
			score += 30
		}
		score += float64(countContained(keywords, ln)) * 5
	}
	return score
}

// similarityRatio is the Ratcliff-Obershelp ratio over the two strings'
// characters: 2*M/T, with M the matched characters across recursively
// found longest common substrings and T the total length.
func similarityRatio(a, b string) float64 {
	return difflib.NewMatcher(splitChars(a), splitChars(b)).Ratio()
}

func splitChars(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}

// firstPresent returns the value of the first column the row actually
// carries. An empty value in a present column does not fall through to
// the next candidate.
func firstPresent(row dataset.Row, columns []string) string {
	for _, c := range columns {
		if v, ok := row.Get(c); ok {
			return v
		}
	}
	return ""
}

// usable filters the empty cells and the literal "nan" markers that the
// upstream export writes for missing values.
func usable(v string) bool {
	return v != "" && !strings.EqualFold(v, "nan")
}

func keywordEquals(keywords []string, target string) bool {
	for _, k := range keywords {
		if k == target {
			return true
		}
	}
	return false
}

func countContained(keywords []string, target string) int {
	n := 0
	for _, k := range keywords {
		if strings.Contains(target, k) {
			n++
		}
	}
	return n
}
