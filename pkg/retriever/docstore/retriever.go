package docstore

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"course-chatbot-be/internal/pkg/logger"
	"course-chatbot-be/pkg/relevance"
	"course-chatbot-be/pkg/store"
)

// allowedTypes are the content types considered course material.
var allowedTypes = []string{"page", "post", "product", "course", "flms-courses"}

// Retriever searches the structured document store by keyword, ranks the
// recency-ordered candidates by lexical relevance, and extracts a
// highlighted excerpt for each.
type Retriever struct {
	client Client
	logger logger.ILogger
}

func NewRetriever(client Client, log logger.ILogger) *Retriever {
	return &Retriever{
		client: client,
		logger: log,
	}
}

// Search returns the top candidates for the query. Store errors are logged
// and yield an empty result set.
func (r *Retriever) Search(ctx context.Context, query string, limit int) []store.Candidate {
	terms := relevance.Terms(query)
	if len(terms) == 0 {
		return []store.Candidate{}
	}

	docs, err := r.client.Search(ctx, Query{
		Search: query,
		Types:  allowedTypes,
		Limit:  limit,
	})
	if err != nil {
		r.logger.Error("DocStoreRetriever", "Failed to search document store", map[string]interface{}{
			"query": query,
			"error": err.Error(),
		})
		return []store.Candidate{}
	}

	candidates := make([]store.Candidate, 0, len(docs))
	for _, doc := range docs {
		if !matchesAllTerms(doc, terms) {
			continue
		}

		score := relevance.Score(doc.Title, query, relevance.WeightTitle) +
			relevance.TermScore(doc.Body, query, relevance.WeightContent)

		candidates = append(candidates, store.Candidate{
			Source:  store.SourceDocumentStore,
			Path:    strconv.FormatInt(doc.ID, 10),
			Title:   doc.Title,
			URL:     doc.URL,
			Content: extractExcerpt(doc.Body, query),
			Score:   score,
		})
	}

	// The store orders by recency; presentation order is score-based.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	return candidates
}

// matchesAllTerms requires every query term to appear in the title or the
// body (AND across terms, OR within each term's two fields).
func matchesAllTerms(doc Document, terms []string) bool {
	titleLower := strings.ToLower(doc.Title)
	bodyLower := strings.ToLower(doc.Body)
	for _, term := range terms {
		if !strings.Contains(titleLower, term) && !strings.Contains(bodyLower, term) {
			return false
		}
	}
	return true
}
