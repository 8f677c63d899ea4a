// Package fetch obtains the raw text blob the extraction pipeline runs
// on. Sources are a literal string, a local UTF-8 text file (or any
// reader of uploaded bytes), or a web page whose markup is stripped down
// to visible text.
package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
	"golang.org/x/net/html"
)

const (
	defaultTimeout = 30 * time.Second
	// maxBodySize caps downloaded HTML to prevent OOM from untrusted URLs.
	maxBodySize = 10 * 1024 * 1024
	// minReadableChars is the least article text readability must produce
	// before we trust it over the whole-page fallback.
	minReadableChars = 80
)

// ErrNotUTF8 is returned when uploaded bytes do not decode as UTF-8.
var ErrNotUTF8 = errors.New("content is not valid UTF-8 text")

// FromString returns a literal string unchanged. It exists so all three
// source kinds share one shape at the call site.
func FromString(s string) string { return s }

// FromReader decodes uploaded bytes as UTF-8 text.
func FromReader(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("reading input: %w", err)
	}
	if !utf8.Valid(data) {
		return "", ErrNotUTF8
	}
	return string(data), nil
}

// FromFile reads a local text file and decodes it as UTF-8.
func FromFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	text, err := FromReader(f)
	if err != nil {
		return "", fmt.Errorf("decoding %s: %w", path, err)
	}
	return text, nil
}

// Client fetches web pages and strips their markup.
type Client struct {
	http *http.Client
}

// NewClient creates a Client with a sensible timeout.
func NewClient() *Client {
	return &Client{http: &http.Client{Timeout: defaultTimeout}}
}

// FromURL fetches a page and returns its visible text with line breaks
// preserved. Readability article extraction is tried first; when it
// fails or yields almost nothing, the whole page is flattened to one
// line per rendered text node instead.
func (c *Client) FromURL(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	// Mimic a real browser to avoid being blocked (e.g. 403 Forbidden or Cloudflare).
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d for %s", resp.StatusCode, rawURL)
	}
	if resp.ContentLength > int64(maxBodySize) {
		return "", fmt.Errorf("content-length %d exceeds limit of %d bytes", resp.ContentLength, maxBodySize)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", fmt.Errorf("reading response body: %w", err)
	}
	if int64(len(body)) >= int64(maxBodySize) {
		return "", fmt.Errorf("response body exceeded maximum size limit of %d bytes", maxBodySize)
	}

	// Readability isolates the main content; the article fragment is then
	// flattened so every rendered text node sits on its own line. Pages
	// readability cannot make sense of fall back to the whole document.
	parsedURL, _ := url.Parse(rawURL)
	if article, err := readability.FromReader(bytes.NewReader(body), parsedURL); err == nil {
		if len(strings.TrimSpace(article.TextContent)) >= minReadableChars {
			if text, err := StripMarkup(strings.NewReader(article.Content)); err == nil && text != "" {
				return text, nil
			}
		}
	}

	text, err := StripMarkup(bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("stripping markup for %s: %w", rawURL, err)
	}
	return text, nil
}

// noiseSelector lists elements whose text never renders as page content.
const noiseSelector = "script,style,noscript,iframe,svg,head,template"

// StripMarkup flattens an HTML document to its visible text, one line
// per text node in document order.
func StripMarkup(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", fmt.Errorf("parsing HTML: %w", err)
	}
	doc.Find(noiseSelector).Remove()

	var lines []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				lines = append(lines, t)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range doc.Nodes {
		walk(n)
	}
	return strings.Join(lines, "\n"), nil
}
