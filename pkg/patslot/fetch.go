package patslot

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
)

// Fetcher retrieves the text of a template source.
type Fetcher interface {
	FetchText(ctx context.Context, url string) (string, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, url string) (string, error)

// FetchText implements Fetcher.
func (f FetcherFunc) FetchText(ctx context.Context, url string) (string, error) {
	return f(ctx, url)
}

// DefaultMaxTemplateBytes bounds the size of a fetched template.
const DefaultMaxTemplateBytes = 10 << 20

// HTTPFetcher fetches templates over http and https.
type HTTPFetcher struct {
	// Client defaults to http.DefaultClient.
	Client *http.Client

	// MaxBytes defaults to DefaultMaxTemplateBytes.
	MaxBytes int64
}

// FetchText implements Fetcher.
func (f HTTPFetcher) FetchText(ctx context.Context, rawURL string) (string, error) {
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("GET %s: %s", rawURL, resp.Status)
	}
	return readLimited(resp.Body, f.MaxBytes)
}

// FileFetcher reads templates from the local filesystem. It accepts file://
// URLs and plain paths.
type FileFetcher struct{}

// FetchText implements Fetcher.
func (FileFetcher) FetchText(_ context.Context, rawURL string) (string, error) {
	path := rawURL
	if strings.HasPrefix(rawURL, "file://") {
		u, err := url.Parse(rawURL)
		if err != nil {
			return "", err
		}
		path = u.Path
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// MuxFetcher dispatches on the URL scheme. The "" entry handles plain paths.
type MuxFetcher map[string]Fetcher

// DefaultFetcher returns a MuxFetcher for http, https, file and plain paths.
// Register an S3Fetcher under "s3" to read from buckets.
func DefaultFetcher() MuxFetcher {
	return MuxFetcher{
		"http":  HTTPFetcher{},
		"https": HTTPFetcher{},
		"file":  FileFetcher{},
		"":      FileFetcher{},
	}
}

// FetchText implements Fetcher.
func (m MuxFetcher) FetchText(ctx context.Context, rawURL string) (string, error) {
	scheme := schemeOf(rawURL)
	f, ok := m[scheme]
	if !ok {
		return "", fmt.Errorf("no fetcher for scheme %q", scheme)
	}
	return f.FetchText(ctx, rawURL)
}

// schemeOf returns the lower-cased URL scheme, or "" for plain paths.
func schemeOf(rawURL string) string {
	i := strings.Index(rawURL, "://")
	if i <= 0 {
		return ""
	}
	return strings.ToLower(rawURL[:i])
}

func readLimited(r io.Reader, max int64) (string, error) {
	if max <= 0 {
		max = DefaultMaxTemplateBytes
	}
	data, err := io.ReadAll(io.LimitReader(r, max+1))
	if err != nil {
		return "", err
	}
	if int64(len(data)) > max {
		return "", fmt.Errorf("template larger than %d bytes", max)
	}
	return string(data), nil
}
