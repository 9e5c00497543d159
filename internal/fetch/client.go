// Package fetch downloads remote projection sheets into the local file
// store so a catalog can be loaded from a URL.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"auction-draft-mcp/internal/store"
)

type Client struct {
	HTTP      *http.Client
	Store     *store.JSONStore
	UserAgent string
	UseCache  bool
}

func NewClient(st *store.JSONStore) *Client {
	return &Client{
		HTTP:      &http.Client{Timeout: 20 * time.Second},
		Store:     st,
		UserAgent: "auction-draft/1.0",
		UseCache:  true,
	}
}

// IsURL reports whether source names an http(s) resource rather than a
// local file.
func IsURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// CachePath is where a download of rawURL is kept, relative to the store
// root: catalog/<host>/<file name>.
func CachePath(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	name := path.Base(u.Path)
	if name == "." || name == "/" || name == "" {
		name = "catalog.csv"
	}
	return path.Join("catalog", u.Hostname(), name), nil
}

// FetchCatalog downloads rawURL into the store and returns the local file
// path. A cached copy is reused unless force is set.
func (c *Client) FetchCatalog(ctx context.Context, rawURL string, force bool) (string, error) {
	relPath, err := CachePath(rawURL)
	if err != nil {
		return "", err
	}
	if !force && c.UseCache && c.Store.Exists(relPath) {
		return c.Store.Path(relPath), nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", "text/csv, application/vnd.openxmlformats-officedocument.spreadsheetml.sheet, */*")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("GET %s failed: %d body=%s", rawURL, resp.StatusCode, string(body))
	}

	if err := c.Store.WriteRaw(relPath, body); err != nil {
		return "", err
	}
	return c.Store.Path(relPath), nil
}
