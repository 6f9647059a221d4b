package tools

import (
	"context"
	"encoding/json"

	"course-chatbot-be/pkg/retriever/filestore"
	"course-chatbot-be/pkg/store"
)

const defaultSearchLimit = 5

// SearchFilesTool surfaces course files from the file store to the engine.
type SearchFilesTool struct {
	retriever *filestore.Retriever
}

func NewSearchFilesTool(r *filestore.Retriever) *SearchFilesTool {
	return &SearchFilesTool{retriever: r}
}

func (t *SearchFilesTool) Definition() Definition {
	return Definition{
		Name:        "search_files",
		Description: "Search course files by name and return their content",
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Search terms to match against file names",
				},
			},
			"required": []string{"query"},
		},
	}
}

type searchArgs struct {
	Query string `json:"query"`
}

func (t *SearchFilesTool) Call(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var in searchArgs
	if err := json.Unmarshal(args, &in); err != nil {
		return nil, err
	}
	results := t.retriever.Search(ctx, in.Query, defaultSearchLimit)
	return map[string]interface{}{
		"query":   in.Query,
		"results": fileSummaries(results),
	}, nil
}

func fileSummaries(candidates []store.Candidate) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, map[string]interface{}{
			"name":    c.Title,
			"path":    c.Path,
			"content": c.Content,
		})
	}
	return out
}
