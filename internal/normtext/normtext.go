// Package normtext provides accent and case insensitive text handling for
// Spanish-language queries and dataset values. Every comparison in the
// application goes through Normalize so that "Vía" and "via" agree.
package normtext

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize strips diacritics, lowercases and trims surrounding whitespace.
// It is idempotent: Normalize(Normalize(s)) == Normalize(s).
func Normalize(s string) string {
	out, _, err := transform.String(stripAccents, s)
	if err != nil {
		out = s
	}
	return strings.TrimSpace(strings.ToLower(out))
}

// Vocabulary holds the fixed keyword sets driving query interpretation.
// It is built once at startup and passed to each component; the zero value
// is not usable, construct it with New or Default.
type Vocabulary struct {
	stop map[string]struct{}

	Statistic  []string
	Listing    []string
	Money      []string
	SubRegions []string
}

// New builds a Vocabulary from explicit keyword lists. Stop words are
// normalized so the set matches tokenized queries regardless of accents.
func New(stopWords, statistic, listing, money, subRegions []string) Vocabulary {
	stop := make(map[string]struct{}, len(stopWords))
	for _, w := range stopWords {
		stop[Normalize(w)] = struct{}{}
	}
	return Vocabulary{
		stop:       stop,
		Statistic:  statistic,
		Listing:    listing,
		Money:      money,
		SubRegions: subRegions,
	}
}

// Default returns the vocabulary used by the production deployment.
func Default() Vocabulary {
	return New(
		[]string{
			"el", "la", "los", "las", "de", "en", "y", "a", "que", "es",
			"un", "una", "cual", "cuales", "dame", "muestrame",
			"informacion", "sobre", "del", "por",
		},
		[]string{"total", "cantidad", "cuantos", "numero", "suma", "cuantas", "cuanto"},
		[]string{
			"cuales", "que radicados", "que proyectos", "lista", "listado",
			"dame los radicados", "muestrame los radicados",
		},
		[]string{"aporte", "inversion", "costo", "valor", "presupuesto", "dinero", "plata", "cuanto"},
		[]string{
			"Urabá", "Bajo Cauca", "Nordeste", "Norte", "Occidente",
			"Oriente", "Suroeste", "Valle de Aburrá", "Magdalena Medio",
		},
	)
}

// StopWords returns the normalized stop word list in lexical order.
func (v Vocabulary) StopWords() []string {
	out := make([]string, 0, len(v.stop))
	for w := range v.stop {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

// Keywords normalizes the query, splits it on whitespace and drops stop
// words and tokens of length <= 2. Order and duplicates are preserved.
func (v Vocabulary) Keywords(query string) []string {
	fields := strings.Fields(Normalize(query))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if _, isStop := v.stop[f]; isStop {
			continue
		}
		if len([]rune(f)) <= 2 {
			continue
		}
		out = append(out, f)
	}
	return out
}

// ContainsAny reports whether any of the given keywords appears as a
// substring of the normalized query. Matching is deliberately unanchored
// (no word boundaries) to stay compatible with the deployed behavior, even
// though a keyword inside a longer word also counts.
func ContainsAny(query string, keywords []string) bool {
	q := Normalize(query)
	for _, k := range keywords {
		if strings.Contains(q, Normalize(k)) {
			return true
		}
	}
	return false
}
