package relevance

import "strings"

// Per-field term weights used across the retrievers.
const (
	WeightFileName = 10
	WeightTitle    = 20
	WeightContent  = 5

	// ExactMatchBonus is added when the whole query appears as a substring.
	ExactMatchBonus = 100
)

// Score computes a lexical relevance score for text against query.
// The whole query found as a substring adds ExactMatchBonus; each
// whitespace-separated query term found as a substring adds termWeight.
// An empty query scores every candidate 1 so ordering is preserved but
// nothing is filtered out.
func Score(text, query string, termWeight int) int {
	terms, textLower, empty := prepare(text, query)
	if empty {
		return 1
	}

	score := 0
	if strings.Contains(textLower, strings.ToLower(strings.TrimSpace(query))) {
		score += ExactMatchBonus
	}
	for _, term := range terms {
		if strings.Contains(textLower, term) {
			score += termWeight
		}
	}
	return score
}

// TermScore is Score without the exact-match bonus. Body/content fields use
// this: a full-query hit in a long body should not outrank title matches.
func TermScore(text, query string, termWeight int) int {
	terms, textLower, empty := prepare(text, query)
	if empty {
		return 1
	}

	score := 0
	for _, term := range terms {
		if strings.Contains(textLower, term) {
			score += termWeight
		}
	}
	return score
}

// Terms splits a query into lower-cased whitespace-separated terms.
func Terms(query string) []string {
	return strings.Fields(strings.ToLower(query))
}

func prepare(text, query string) (terms []string, textLower string, empty bool) {
	terms = Terms(query)
	if len(terms) == 0 {
		return nil, "", true
	}
	return terms, strings.ToLower(text), false
}
