// Package catalog fetches and filters the community sketch listing.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"sketchforge/internal/sketch"
)

// DefaultFeedURL is the community catalog endpoint.
const DefaultFeedURL = "https://arduboy.ried.cl/repo.json"

// Item is one sketch record from the catalog feed.
type Item struct {
	Title        string `json:"title"`
	Description  string `json:"description,omitempty"`
	SourceURL    string `json:"sourceUrl,omitempty"`
	LocalPath    string `json:"localPath,omitempty"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
}

// Source converts the item into a buildable sketch source. Items without a
// usable source are listed but cannot be built.
func (i Item) Source() (sketch.Source, error) {
	switch {
	case i.SourceURL != "":
		return sketch.RemoteGit{URL: i.SourceURL}, nil
	case i.LocalPath != "":
		return sketch.LocalFile{Path: i.LocalPath}, nil
	default:
		return nil, fmt.Errorf("sketch %q has no source URL or local path", i.Title)
	}
}

type feed struct {
	Items []Item `json:"items"`
}

// Client fetches the catalog feed.
type Client struct {
	http *http.Client
	url  string
}

// NewClient creates a catalog client for the given feed URL (DefaultFeedURL
// when empty).
func NewClient(url string) *Client {
	if url == "" {
		url = DefaultFeedURL
	}
	return &Client{
		http: &http.Client{Timeout: 10 * time.Second},
		url:  url,
	}
}

// Fetch retrieves and decodes the catalog feed.
func (c *Client) Fetch(ctx context.Context) ([]Item, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build catalog request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch catalog %s: %w", c.url, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog %s returned status %d", c.url, resp.StatusCode)
	}

	var f feed
	if err := json.NewDecoder(resp.Body).Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to decode catalog feed: %w", err)
	}
	if f.Items == nil {
		return nil, fmt.Errorf("catalog feed %s has no items array", c.url)
	}
	return f.Items, nil
}
