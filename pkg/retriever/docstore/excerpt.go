package docstore

import (
	"regexp"
	"strings"

	"course-chatbot-be/pkg/relevance"
)

const (
	// excerptLength is the display window sliced out of the body.
	excerptLength = 200
	// excerptStep is how far the window slides between samples.
	excerptStep = 50
)

var markupTag = regexp.MustCompile(`<[^>]*>`)

// stripMarkup removes tags and collapses the whitespace they leave behind.
func stripMarkup(body string) string {
	clean := markupTag.ReplaceAllString(body, " ")
	return strings.Join(strings.Fields(clean), " ")
}

// extractExcerpt slides a fixed window across the body and keeps the first
// window containing the most distinct query terms, then emits that stretch
// of the original (non-lower-cased) text.
func extractExcerpt(body, query string) string {
	content := stripMarkup(body)
	contentLower := strings.ToLower(content)
	terms := relevance.Terms(query)

	bestPosition := 0
	maxMatches := 0
	for i := 0; i < len(contentLower); i += excerptStep {
		end := i + excerptLength
		if end > len(contentLower) {
			end = len(contentLower)
		}
		chunk := contentLower[i:end]

		matches := 0
		for _, term := range terms {
			if strings.Contains(chunk, term) {
				matches++
			}
		}
		if matches > maxMatches {
			maxMatches = matches
			bestPosition = i
		}
	}

	end := bestPosition + excerptLength
	if end > len(content) {
		end = len(content)
	}
	excerpt := content[bestPosition:end]

	if len(content) > bestPosition+excerptLength {
		excerpt += "..."
	}

	return highlightTerms(excerpt, terms)
}

// highlightTerms wraps each case-insensitive whole-word occurrence of a
// query term in ** markers for downstream rendering.
func highlightTerms(excerpt string, terms []string) string {
	for _, term := range terms {
		re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(term) + `\b`)
		if err != nil {
			continue
		}
		excerpt = re.ReplaceAllString(excerpt, "**"+term+"**")
	}
	return excerpt
}
