// Package engine decides, for a free-text query, which rows of which
// tabular snapshots are relevant, whether the query asks for a count, a
// sum or a listing, and formats the matched data into a context block for
// the downstream language model.
package engine

import (
	"errors"
	"os"
	"sort"
	"strings"

	"go.uber.org/zap"

	"allison/internal/normtext"
)

// Base names of the reference snapshots inside the tabular directory.
// Each may exist as .csv or .xlsx; the loader tries both.
const (
	municipalitiesFile = "Municipios_decodificado"
	needsFile          = "Base_Necesidades"
	filingsFile        = "Base_Radicados"
	tertiaryRoadsFile  = "Red_vial_terciaria_decodificado"
)

// Reserved score bands. Statistic and listing results outrank every
// free-text relevance score by construction.
const (
	scoreStatistic = 999
	scoreListing   = 998
)

// The merged context block carries at most this many entries.
const maxResults = 7

// ScoredMatch is a formatted text fragment with its relevance score.
type ScoredMatch struct {
	Text  string
	Score float64
}

// Engine answers data questions against the tabular snapshot directory.
// It holds no per-query state; files are re-read on every call.
type Engine struct {
	dir   string
	vocab normtext.Vocabulary
	log   *zap.Logger
}

// New creates an Engine over the given snapshot directory.
func New(dir string, vocab normtext.Vocabulary, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{dir: dir, vocab: vocab, log: log}
}

// Search runs the full pipeline for one query and returns the formatted
// context block, or the empty string when nothing relevant was found.
// Recovery is always local: a missing or unreadable file only narrows the
// result, it never fails the query.
func (e *Engine) Search(query string) string {
	if _, err := os.Stat(e.dir); err != nil {
		return ""
	}
	keywords := e.vocab.Keywords(query)
	if len(keywords) == 0 {
		return ""
	}

	var matches []ScoredMatch
	switch Classify(query, e.vocab) {
	case IntentStatistic:
		if m := e.aggregate(query, e.Resolve(query)); m != nil {
			matches = append(matches, *m)
		}
	case IntentListing:
		if b := e.Resolve(query); b != nil {
			if m := e.listRows(query, *b); m != nil {
				matches = append(matches, *m)
			}
		}
	}

	matches = append(matches, e.scoreRows(query, keywords)...)
	if len(matches) == 0 {
		return ""
	}

	// Descending by score; ties keep discovery order.
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })
	if len(matches) > maxResults {
		matches = matches[:maxResults]
	}

	texts := make([]string, len(matches))
	for i, m := range matches {
		texts[i] = m.Text
	}
	return "\n[DATOS DETALLADOS DE VÍAS ENCONTRADOS]:\n" + strings.Join(texts, "\n------------------------------\n")
}

func (e *Engine) warnSkip(name string, err error) {
	if errors.Is(err, os.ErrNotExist) {
		e.log.Debug("dataset not present", zap.String("dataset", name))
		return
	}
	e.log.Warn("skipping dataset", zap.String("dataset", name), zap.Error(err))
}
