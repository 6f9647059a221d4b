package docstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"course-chatbot-be/internal/pkg/logger"
	"course-chatbot-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	docs      []Document
	searchErr error
	gotQuery  Query
}

func (f *fakeClient) Search(_ context.Context, q Query) ([]Document, error) {
	f.gotQuery = q
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.docs, nil
}

func (f *fakeClient) Fetch(_ context.Context, id int64) (*Document, error) {
	for i := range f.docs {
		if f.docs[i].ID == id {
			return &f.docs[i], nil
		}
	}
	return nil, errors.New("not found")
}

func (f *fakeClient) FetchMeta(_ context.Context, _ int64) (map[string]interface{}, error) {
	return map[string]interface{}{}, nil
}

func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

func TestSearchScoresAndReorders(t *testing.T) {
	client := &fakeClient{
		docs: []Document{
			// Newest first (store ordering), but relevance must win.
			{ID: 1, Title: "Ethics Update", Body: "mentions divorce and taxation once", URL: "https://example.com/ethics", Date: day(3)},
			{ID: 2, Title: "Divorce Taxation", Body: "divorce taxation in depth", URL: "https://example.com/divorce-taxation", Date: day(1)},
		},
	}
	r := NewRetriever(client, logger.NewNopLogger())

	got := r.Search(context.Background(), "divorce taxation", 5)

	require.Len(t, got, 2)
	// Exact in title (100) + title terms (40) + body terms (10) = 150.
	assert.Equal(t, "Divorce Taxation", got[0].Title)
	assert.Equal(t, 150, got[0].Score)
	// Body terms only (10).
	assert.Equal(t, "Ethics Update", got[1].Title)
	assert.Equal(t, 10, got[1].Score)
	assert.Equal(t, store.SourceDocumentStore, got[0].Source)
	assert.Contains(t, got[0].Content, "**divorce**")
}

func TestSearchRequiresEveryTerm(t *testing.T) {
	client := &fakeClient{
		docs: []Document{
			{ID: 1, Title: "Divorce Basics", Body: "no second term here"},
			{ID: 2, Title: "Taxation", Body: "divorce appears in the body"},
		},
	}
	r := NewRetriever(client, logger.NewNopLogger())

	got := r.Search(context.Background(), "divorce taxation", 5)

	// Doc 1 lacks "taxation" entirely; doc 2 has taxation in title and
	// divorce in body, satisfying the AND-of-OR filter.
	require.Len(t, got, 1)
	assert.Equal(t, "Taxation", got[0].Title)
}

func TestSearchPassesBoundaryQuery(t *testing.T) {
	client := &fakeClient{}
	r := NewRetriever(client, logger.NewNopLogger())

	r.Search(context.Background(), "divorce", 7)

	assert.Equal(t, "divorce", client.gotQuery.Search)
	assert.Equal(t, 7, client.gotQuery.Limit)
	assert.Equal(t, allowedTypes, client.gotQuery.Types)
}

func TestSearchEmptyQuery(t *testing.T) {
	client := &fakeClient{}
	r := NewRetriever(client, logger.NewNopLogger())

	got := r.Search(context.Background(), "   ", 5)

	assert.Empty(t, got)
	assert.Empty(t, client.gotQuery.Search, "store is not queried at all")
}

func TestSearchStoreErrorYieldsEmptySet(t *testing.T) {
	client := &fakeClient{searchErr: errors.New("connection refused")}
	r := NewRetriever(client, logger.NewNopLogger())

	got := r.Search(context.Background(), "divorce", 5)

	assert.NotNil(t, got)
	assert.Empty(t, got)
}
