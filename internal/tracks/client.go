package tracks

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client lists tracks stored in a GitHub repository directory.
type Client struct {
	baseURL   *url.URL
	repo      string
	path      string
	listing   Listing
	http      *http.Client
	download  *http.Client
	userAgent string
}

var _ Source = (*Client)(nil)

const (
	// DefaultAPIURL is the public GitHub REST endpoint.
	DefaultAPIURL    = "https://api.github.com"
	DefaultRepo      = "AnodeGrindYo/OrangeReichRecordings"
	DefaultPath      = "tracks"
	defaultUserAgent = "circuitplayer/0.1"
	requestTimeout   = 10 * time.Second
)

// entry is one item of the contents API listing.
type entry struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	Type        string `json:"type"`
	Size        int64  `json:"size"`
	DownloadURL string `json:"download_url"`
}

// NewClient builds a Client for repo ("owner/name") and the directory path
// inside it.
func NewClient(apiURL, repo, path string, listing Listing) (*Client, error) {
	base, err := parseBaseURL(apiURL)
	if err != nil {
		return nil, err
	}
	repo = strings.Trim(strings.TrimSpace(repo), "/")
	if repo == "" {
		repo = DefaultRepo
	}
	if strings.Count(repo, "/") != 1 {
		return nil, fmt.Errorf("repo %q must be owner/name", repo)
	}
	return &Client{
		baseURL:   base,
		repo:      repo,
		path:      strings.Trim(strings.TrimSpace(path), "/"),
		listing:   listing,
		http:      &http.Client{Timeout: requestTimeout},
		download:  &http.Client{},
		userAgent: defaultUserAgent,
	}, nil
}

// FetchTracks lists the directory and returns the playable files in listing
// order.
func (c *Client) FetchTracks(ctx context.Context) ([]Track, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	rel := &url.URL{Path: "/repos/" + c.repo + "/contents/" + c.path}
	var entries []entry
	if err := c.doURL(ctx, rel, &entries); err != nil {
		return nil, err
	}
	var out []Track
	for _, e := range entries {
		if e.Type != "" && e.Type != "file" {
			continue
		}
		if e.DownloadURL == "" {
			continue
		}
		if t, ok := c.listing.track(e.Name, e.DownloadURL); ok {
			out = append(out, t)
		}
	}
	return out, nil
}

// Open streams the track's audio. The caller closes the body.
func (c *Client) Open(ctx context.Context, t Track) (io.ReadCloser, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	resp, err := c.download.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", t.FileName(), err)
	}
	if resp.StatusCode >= 400 {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("fetch %s returned status %d", t.FileName(), resp.StatusCode)
	}
	return resp.Body, nil
}

// Download saves the track into dir.
func (c *Client) Download(ctx context.Context, t Track, dir string) (string, error) {
	return Download(ctx, c, t, dir)
}

func (c *Client) doURL(ctx context.Context, rel *url.URL, dest any) error {
	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("api %s returned status %d", rel.String(), resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseBaseURL(apiURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiURL)
	if trimmed == "" {
		trimmed = DefaultAPIURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_url %q: %w", apiURL, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
