package filestore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const dropboxAPIBase = "https://api.dropboxapi.com"

// DropboxClient talks to the Dropbox HTTP API v2.
type DropboxClient struct {
	AccessToken string
	Client      *http.Client
}

var _ Client = &DropboxClient{}

func NewDropboxClient(accessToken string) *DropboxClient {
	return &DropboxClient{
		AccessToken: accessToken,
		Client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// --- Request/Response structs (internal to this package) ---

type listFolderRequest struct {
	Path      string `json:"path"`
	Recursive bool   `json:"recursive"`
}

type listFolderContinueRequest struct {
	Cursor string `json:"cursor"`
}

type listFolderResponse struct {
	Entries []listFolderEntry `json:"entries"`
	Cursor  string            `json:"cursor"`
	HasMore bool              `json:"has_more"`
}

type listFolderEntry struct {
	Tag         string `json:".tag"`
	Name        string `json:"name"`
	PathDisplay string `json:"path_display"`
	Size        int64  `json:"size"`
}

type downloadArg struct {
	Path string `json:"path"`
}

// --- Interface implementation ---

func (d *DropboxClient) ListAll(ctx context.Context, root string) ([]Entry, error) {
	var entries []Entry

	page, err := d.listFolder(ctx, "/2/files/list_folder", listFolderRequest{
		Path:      root,
		Recursive: true,
	})
	if err != nil {
		return nil, err
	}
	entries = appendEntries(entries, page.Entries)

	for page.HasMore {
		page, err = d.listFolder(ctx, "/2/files/list_folder/continue", listFolderContinueRequest{
			Cursor: page.Cursor,
		})
		if err != nil {
			return nil, err
		}
		entries = appendEntries(entries, page.Entries)
	}

	return entries, nil
}

func (d *DropboxClient) Download(ctx context.Context, path string) ([]byte, error) {
	arg, err := json.Marshal(downloadArg{Path: path})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "https://content.dropboxapi.com/2/files/download", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+d.AccessToken)
	req.Header.Set("Dropbox-API-Arg", string(arg))

	resp, err := d.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("dropbox download failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("dropbox download returned status %d: %s", resp.StatusCode, string(body))
	}

	return body, nil
}

func (d *DropboxClient) listFolder(ctx context.Context, endpoint string, payload interface{}) (*listFolderResponse, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, dropboxAPIBase+endpoint, bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+d.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("dropbox list failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("dropbox list returned status %d: %s", resp.StatusCode, string(body))
	}

	var page listFolderResponse
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("failed to decode dropbox response: %w", err)
	}
	return &page, nil
}

func appendEntries(entries []Entry, page []listFolderEntry) []Entry {
	for _, e := range page {
		entries = append(entries, Entry{
			Name:   e.Name,
			Path:   e.PathDisplay,
			Size:   e.Size,
			IsFile: e.Tag == "file",
		})
	}
	return entries
}
