package filestore

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"course-chatbot-be/internal/pkg/logger"
	"course-chatbot-be/pkg/relevance"
	"course-chatbot-be/pkg/store"
)

// maxContentChars bounds fetched file content to keep token usage reasonable.
const maxContentChars = 5000

// textExtensions are the file types whose raw content is readable enough to
// ground an answer. Everything else gets a placeholder.
var textExtensions = map[string]bool{
	"txt": true, "pdf": true, "md": true, "doc": true, "docx": true,
	"csv": true, "html": true, "htm": true, "xml": true, "json": true,
	"rtf": true,
}

// Retriever searches the hierarchical file store: it lists everything under
// the configured root, ranks file names against the query, and fetches
// content for the best matches.
type Retriever struct {
	client Client
	root   string
	logger logger.ILogger
}

func NewRetriever(client Client, root string, log logger.ILogger) *Retriever {
	return &Retriever{
		client: client,
		root:   root,
		logger: log,
	}
}

// Search returns the top candidates for the query. Transport errors during
// listing are logged and yield an empty result set; retrieval being
// unavailable must never fail the whole chat turn.
func (r *Retriever) Search(ctx context.Context, query string, limit int) []store.Candidate {
	entries, err := r.client.ListAll(ctx, r.root)
	if err != nil {
		r.logger.Error("FileStoreRetriever", "Failed to list file store", map[string]interface{}{
			"root":  r.root,
			"error": err.Error(),
		})
		return []store.Candidate{}
	}

	queryEmpty := len(relevance.Terms(query)) == 0

	candidates := make([]store.Candidate, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsFile {
			continue
		}

		score := relevance.Score(entry.Name, query, relevance.WeightFileName)
		if !queryEmpty && score == 0 {
			continue
		}

		candidates = append(candidates, store.Candidate{
			Source: store.SourceFileStore,
			Path:   entry.Path,
			Title:  entry.Name,
			Score:  score,
			Size:   entry.Size,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	for i := range candidates {
		candidates[i].Content = r.fetchContent(ctx, candidates[i].Path)
	}

	return candidates
}

func (r *Retriever) fetchContent(ctx context.Context, path string) string {
	if !isTextFile(path) {
		return fmt.Sprintf("File: %s (Binary file, cannot read content)", filepath.Base(path))
	}

	raw, err := r.client.Download(ctx, path)
	if err != nil {
		r.logger.Error("FileStoreRetriever", "Failed to download file", map[string]interface{}{
			"path":  path,
			"error": err.Error(),
		})
		return ""
	}

	content := string(raw)
	if len(content) > maxContentChars {
		content = content[:maxContentChars] + "..."
	}
	return content
}

func isTextFile(path string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	return textExtensions[ext]
}
