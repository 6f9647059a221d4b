package docstore

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"course-chatbot-be/internal/pkg/logger"
)

// WordPressClient reads the course catalog over the WordPress REST API.
// Custom course post types may not be exposed on every install, so search
// tries the commerce products endpoint first and falls back to the courses
// endpoint on 404/403.
type WordPressClient struct {
	BaseURL string
	// Secret is either "username:password" (application password, sent as
	// Basic auth) or a plain token (sent as Bearer).
	Secret string
	Client *http.Client
	logger logger.ILogger
}

var _ Client = &WordPressClient{}

func NewWordPressClient(baseURL, secret string, log logger.ILogger) *WordPressClient {
	return &WordPressClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Secret:  secret,
		Client: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: log,
	}
}

// --- Response structs (internal to this package) ---

type wpRendered struct {
	Rendered string `json:"rendered"`
}

type wpPost struct {
	ID      int64      `json:"id"`
	Date    string     `json:"date"`
	Link    string     `json:"link"`
	Type    string     `json:"type"`
	Title   wpRendered `json:"title"`
	Content wpRendered `json:"content"`
	Excerpt wpRendered `json:"excerpt"`
	Meta    map[string]interface{} `json:"meta"`
}

// --- Interface implementation ---

func (w *WordPressClient) Search(ctx context.Context, q Query) ([]Document, error) {
	params := url.Values{}
	params.Set("search", q.Search)
	params.Set("per_page", strconv.Itoa(q.Limit))
	params.Set("status", "publish")
	params.Set("orderby", "date")
	params.Set("order", "desc")

	posts, err := w.getPosts(ctx, "/wp/v2/products", params)
	if isNotFound(err) {
		posts, err = w.getPosts(ctx, "/wp/v2/flms-courses", params)
	}
	if err != nil {
		return nil, err
	}

	docs := make([]Document, 0, len(posts))
	for _, p := range posts {
		if !typeAllowed(p.Type, q.Types) {
			continue
		}
		docs = append(docs, toDocument(p))
	}
	return docs, nil
}

func (w *WordPressClient) Fetch(ctx context.Context, id int64) (*Document, error) {
	post, err := w.getPost(ctx, fmt.Sprintf("/wp/v2/flms-courses/%d", id))
	if isNotFound(err) {
		post, err = w.getPost(ctx, fmt.Sprintf("/wp/v2/products/%d", id))
	}
	if err != nil {
		return nil, err
	}
	doc := toDocument(*post)
	return &doc, nil
}

func (w *WordPressClient) FetchMeta(ctx context.Context, id int64) (map[string]interface{}, error) {
	post, err := w.getPost(ctx, fmt.Sprintf("/wp/v2/flms-courses/%d", id))
	if isNotFound(err) {
		post, err = w.getPost(ctx, fmt.Sprintf("/wp/v2/products/%d", id))
	}
	if err != nil {
		return nil, err
	}
	if post.Meta == nil {
		return map[string]interface{}{}, nil
	}
	return post.Meta, nil
}

// --- Transport ---

type apiError struct {
	StatusCode int
	Body       string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("wordpress api returned status %d: %s", e.StatusCode, e.Body)
}

func isNotFound(err error) bool {
	apiErr, ok := err.(*apiError)
	return ok && (apiErr.StatusCode == http.StatusNotFound || apiErr.StatusCode == http.StatusForbidden)
}

func (w *WordPressClient) getPosts(ctx context.Context, endpoint string, params url.Values) ([]wpPost, error) {
	body, err := w.get(ctx, endpoint, params)
	if err != nil {
		return nil, err
	}
	var posts []wpPost
	if err := json.Unmarshal(body, &posts); err != nil {
		return nil, fmt.Errorf("failed to decode wordpress response: %w", err)
	}
	return posts, nil
}

func (w *WordPressClient) getPost(ctx context.Context, endpoint string) (*wpPost, error) {
	body, err := w.get(ctx, endpoint, nil)
	if err != nil {
		return nil, err
	}
	var post wpPost
	if err := json.Unmarshal(body, &post); err != nil {
		return nil, fmt.Errorf("failed to decode wordpress response: %w", err)
	}
	return &post, nil
}

// get performs an authenticated request. If the configured application
// password is rejected with 401, one retry is made with the secret as a
// Bearer token; no other retries anywhere in the request path.
func (w *WordPressClient) get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	body, err := w.doGet(ctx, endpoint, params, w.primaryAuthHeader())
	if apiErr, ok := err.(*apiError); ok && apiErr.StatusCode == http.StatusUnauthorized {
		w.logger.Warn("WordPressClient", "Primary auth rejected, retrying with bearer token", map[string]interface{}{
			"endpoint": endpoint,
		})
		return w.doGet(ctx, endpoint, params, "Bearer "+w.Secret)
	}
	return body, err
}

func (w *WordPressClient) doGet(ctx context.Context, endpoint string, params url.Values, authHeader string) ([]byte, error) {
	u := w.BaseURL + endpoint
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", authHeader)
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("wordpress request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		w.logger.Error("WordPressClient", "Non-success response", map[string]interface{}{
			"endpoint": endpoint,
			"status":   resp.StatusCode,
			"body":     string(body),
		})
		return nil, &apiError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}

func (w *WordPressClient) primaryAuthHeader() string {
	if strings.Contains(w.Secret, ":") {
		return "Basic " + base64.StdEncoding.EncodeToString([]byte(w.Secret))
	}
	return "Bearer " + w.Secret
}

func toDocument(p wpPost) Document {
	date, _ := time.Parse("2006-01-02T15:04:05", p.Date)
	return Document{
		ID:    p.ID,
		Title: p.Title.Rendered,
		Body:  p.Content.Rendered,
		URL:   p.Link,
		Type:  p.Type,
		Date:  date,
	}
}

func typeAllowed(postType string, allowed []string) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, t := range allowed {
		if postType == t {
			return true
		}
	}
	return false
}
