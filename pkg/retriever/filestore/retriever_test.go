package filestore

import (
	"context"
	"errors"
	"strings"
	"testing"

	"course-chatbot-be/internal/pkg/logger"
	"course-chatbot-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	entries   []Entry
	contents  map[string]string
	listErr   error
	downloads int
}

func (f *fakeClient) ListAll(_ context.Context, _ string) ([]Entry, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.entries, nil
}

func (f *fakeClient) Download(_ context.Context, path string) ([]byte, error) {
	f.downloads++
	content, ok := f.contents[path]
	if !ok {
		return nil, errors.New("not found")
	}
	return []byte(content), nil
}

func newTestRetriever(client *fakeClient) *Retriever {
	return NewRetriever(client, "/Course Files", logger.NewNopLogger())
}

func TestSearchRanksAndFetches(t *testing.T) {
	client := &fakeClient{
		entries: []Entry{
			{Name: "divorce taxation.txt", Path: "/Course Files/divorce taxation.txt", Size: 10, IsFile: true},
			{Name: "taxation basics.txt", Path: "/Course Files/taxation basics.txt", Size: 20, IsFile: true},
			{Name: "ethics.txt", Path: "/Course Files/ethics.txt", Size: 30, IsFile: true},
			{Name: "Subfolder", Path: "/Course Files/Subfolder", IsFile: false},
		},
		contents: map[string]string{
			"/Course Files/divorce taxation.txt": "filing status after divorce",
			"/Course Files/taxation basics.txt":  "brackets and rates",
		},
	}

	got := newTestRetriever(client).Search(context.Background(), "divorce taxation", 5)

	require.Len(t, got, 2, "zero-score and non-file entries are dropped")
	// Exact match (100) + both terms (20) beats a single term (10).
	assert.Equal(t, "divorce taxation.txt", got[0].Title)
	assert.Equal(t, 120, got[0].Score)
	assert.Equal(t, "taxation basics.txt", got[1].Title)
	assert.Equal(t, 10, got[1].Score)
	assert.Equal(t, store.SourceFileStore, got[0].Source)
	assert.Equal(t, "filing status after divorce", got[0].Content)
}

func TestSearchLimit(t *testing.T) {
	client := &fakeClient{
		entries: []Entry{
			{Name: "tax 1.txt", Path: "/f/tax 1.txt", IsFile: true},
			{Name: "tax 2.txt", Path: "/f/tax 2.txt", IsFile: true},
			{Name: "tax 3.txt", Path: "/f/tax 3.txt", IsFile: true},
		},
		contents: map[string]string{
			"/f/tax 1.txt": "a", "/f/tax 2.txt": "b", "/f/tax 3.txt": "c",
		},
	}

	got := newTestRetriever(client).Search(context.Background(), "tax", 2)
	assert.Len(t, got, 2)
}

func TestSearchEmptyQueryKeepsAllFiles(t *testing.T) {
	client := &fakeClient{
		entries: []Entry{
			{Name: "a.txt", Path: "/f/a.txt", IsFile: true},
			{Name: "b.txt", Path: "/f/b.txt", IsFile: true},
		},
		contents: map[string]string{"/f/a.txt": "a", "/f/b.txt": "b"},
	}

	got := newTestRetriever(client).Search(context.Background(), "", 5)

	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].Score)
	assert.Equal(t, 1, got[1].Score)
}

func TestSearchBinaryPlaceholder(t *testing.T) {
	client := &fakeClient{
		entries: []Entry{
			{Name: "tax slides.pptx", Path: "/f/tax slides.pptx", IsFile: true},
		},
	}

	got := newTestRetriever(client).Search(context.Background(), "tax", 5)

	require.Len(t, got, 1)
	assert.Equal(t, "File: tax slides.pptx (Binary file, cannot read content)", got[0].Content)
	assert.Zero(t, client.downloads, "binary files are never downloaded")
}

func TestSearchTruncatesLongContent(t *testing.T) {
	long := strings.Repeat("x", maxContentChars+500)
	client := &fakeClient{
		entries:  []Entry{{Name: "tax.txt", Path: "/f/tax.txt", IsFile: true}},
		contents: map[string]string{"/f/tax.txt": long},
	}

	got := newTestRetriever(client).Search(context.Background(), "tax", 5)

	require.Len(t, got, 1)
	assert.Len(t, got[0].Content, maxContentChars+3)
	assert.True(t, strings.HasSuffix(got[0].Content, "..."))
}

func TestSearchListErrorYieldsEmptySet(t *testing.T) {
	client := &fakeClient{listErr: errors.New("rate limited")}

	got := newTestRetriever(client).Search(context.Background(), "tax", 5)

	assert.NotNil(t, got)
	assert.Empty(t, got)
}
