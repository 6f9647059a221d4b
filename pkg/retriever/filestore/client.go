package filestore

import "context"

// Entry is a single item from a hierarchical store listing.
type Entry struct {
	Name   string
	Path   string
	Size   int64
	IsFile bool
}

// Client is the transport boundary to the hierarchical file store. The
// retriever only needs listing and raw content; credentials, pagination and
// rate limits live behind the implementation.
type Client interface {
	// ListAll returns every entry under root, recursively.
	ListAll(ctx context.Context, root string) ([]Entry, error)

	// Download returns the raw bytes of a file.
	Download(ctx context.Context, path string) ([]byte, error)
}
