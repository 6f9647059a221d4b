package docstore

import (
	"context"
	"time"
)

// Document is a structured item from the document store.
type Document struct {
	ID    int64
	Title string
	Body  string
	URL   string
	Type  string
	Date  time.Time
}

// Query describes a store-level fetch. The store restricts candidates and
// returns them recency-ordered; relevance ranking happens in the retriever.
type Query struct {
	// Search is the raw user query forwarded to the store's search.
	Search string

	// Types restricts the content types considered.
	Types []string

	// Limit caps the number of candidates fetched.
	Limit int
}

// Client is the transport boundary to the structured document store. Only
// published, non-password-protected documents may be returned, newest first.
type Client interface {
	Search(ctx context.Context, q Query) ([]Document, error)

	// Fetch returns one document by id.
	Fetch(ctx context.Context, id int64) (*Document, error)

	// FetchMeta returns the document's metadata object (course materials
	// and similar structured fields).
	FetchMeta(ctx context.Context, id int64) (map[string]interface{}, error)
}
