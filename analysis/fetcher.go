package analysis

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// Fetcher loads the text content of a job posting URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// FetcherOptions configures an HTTPFetcher.
type FetcherOptions struct {
	Client    *http.Client
	UserAgent string
	MaxBytes  int64
}

// HTTPFetcher fetches pages over HTTP and reduces HTML to visible text.
type HTTPFetcher struct {
	opts FetcherOptions
}

// NewHTTPFetcher creates a fetcher with a 30s client timeout.
func NewHTTPFetcher(optFns ...func(o *FetcherOptions)) *HTTPFetcher {
	opts := FetcherOptions{
		Client:    &http.Client{Timeout: 30 * time.Second},
		UserAgent: "cvmesh/1.0",
		MaxBytes:  2 << 20,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &HTTPFetcher{opts: opts}
}

// Fetch implements Fetcher.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", url, err)
	}
	req.Header.Set("User-Agent", f.opts.UserAgent)

	resp, err := f.opts.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("fetch %s: unexpected status %s", url, resp.Status)
	}

	body := io.LimitReader(resp.Body, f.opts.MaxBytes)
	if strings.Contains(resp.Header.Get("Content-Type"), "html") {
		return visibleText(body)
	}
	b, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", url, err)
	}
	return normalizeText(string(b)), nil
}

var (
	skipTags = map[string]bool{
		"script": true, "style": true, "noscript": true, "nav": true,
		"header": true, "footer": true, "svg": true, "head": true,
	}
	blockTags = map[string]bool{
		"p": true, "div": true, "br": true, "li": true, "ul": true, "ol": true,
		"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
		"section": true, "article": true, "tr": true, "table": true,
	}
)

// visibleText extracts the human readable text of an HTML document.
func visibleText(r io.Reader) (string, error) {
	z := html.NewTokenizer(r)
	var (
		b    strings.Builder
		skip int
	)
	for {
		switch z.Next() {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return "", fmt.Errorf("parse html: %w", err)
			}
			return normalizeText(b.String()), nil
		case html.StartTagToken:
			name, _ := z.TagName()
			if skipTags[string(name)] {
				skip++
			} else if blockTags[string(name)] {
				b.WriteByte('\n')
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if skipTags[string(name)] && skip > 0 {
				skip--
			} else if blockTags[string(name)] {
				b.WriteByte('\n')
			}
		case html.SelfClosingTagToken:
			if name, _ := z.TagName(); blockTags[string(name)] {
				b.WriteByte('\n')
			}
		case html.TextToken:
			if skip == 0 {
				b.Write(z.Text())
			}
		}
	}
}

// normalizeText trims lines, collapses inner whitespace and drops blank lines.
func normalizeText(s string) string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
