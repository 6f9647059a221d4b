package tools

import (
	"context"
	"encoding/json"

	"course-chatbot-be/pkg/retriever/docstore"
	"course-chatbot-be/pkg/store"
)

// SearchCoursesTool runs a ranked search over published site documents.
type SearchCoursesTool struct {
	retriever *docstore.Retriever
}

func NewSearchCoursesTool(r *docstore.Retriever) *SearchCoursesTool {
	return &SearchCoursesTool{retriever: r}
}

func (t *SearchCoursesTool) Definition() Definition {
	return Definition{
		Name:        "search_courses",
		Description: "Search published courses and pages on the website",
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Search terms to match against course titles and content",
				},
			},
			"required": []string{"query"},
		},
	}
}

func (t *SearchCoursesTool) Call(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var in searchArgs
	if err := json.Unmarshal(args, &in); err != nil {
		return nil, err
	}
	results := t.retriever.Search(ctx, in.Query, defaultSearchLimit)
	return map[string]interface{}{
		"query":   in.Query,
		"results": courseSummaries(results),
	}, nil
}

func courseSummaries(candidates []store.Candidate) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, map[string]interface{}{
			"title":   c.Title,
			"url":     c.URL,
			"excerpt": c.Content,
		})
	}
	return out
}
