package engine

import "allison/internal/normtext"

// Intent is the recognized purpose of a query.
type Intent int

const (
	// IntentNone routes the query to the free-text scorer only.
	IntentNone Intent = iota
	// IntentStatistic asks for a count or a sum.
	IntentStatistic
	// IntentListing asks to enumerate matching records.
	IntentListing
)

// Classify inspects the normalized query for statistic keywords first,
// then listing keywords. Detection is unanchored substring containment: a
// keyword inside a longer word also counts. That can misclassify, but it
// is the behavior the deployed prompt pipeline was tuned against, so it is
// kept as is.
func Classify(query string, vocab normtext.Vocabulary) Intent {
	if normtext.ContainsAny(query, vocab.Statistic) {
		return IntentStatistic
	}
	if normtext.ContainsAny(query, vocab.Listing) {
		return IntentListing
	}
	return IntentNone
}
