package store

// Source identifies which repository a candidate was retrieved from.
type Source string

const (
	SourceFileStore     Source = "file-store"
	SourceDocumentStore Source = "document-store"
)

// Candidate represents a scored, retrieved unit of content considered for
// grounding an answer. Candidates are produced fresh per query and never
// persisted.
type Candidate struct {
	Source  Source `json:"source"`
	Path    string `json:"path"`
	Title   string `json:"title"`
	URL     string `json:"url,omitempty"`
	Content string `json:"content"`
	Score   int    `json:"score"`
	Size    int64  `json:"size,omitempty"`
}
