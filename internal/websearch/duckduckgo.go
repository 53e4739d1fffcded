// Package websearch queries the DuckDuckGo HTML endpoint for fresh web
// context. No API key is required.
package websearch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// Result is a single search result.
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// Config tunes the search client.
type Config struct {
	MaxResults int
	MaxRetries int
	BaseDelay  time.Duration
	Timeout    time.Duration
}

// DefaultConfig returns search defaults.
func DefaultConfig() Config {
	return Config{
		MaxResults: 3,
		MaxRetries: 3,
		BaseDelay:  1 * time.Second,
		Timeout:    30 * time.Second,
	}
}

const defaultEndpoint = "https://html.duckduckgo.com/html/"

// Client searches DuckDuckGo's HTML interface.
type Client struct {
	httpClient *http.Client
	endpoint   string
	cfg        Config
}

// NewClient creates a search client.
func NewClient(cfg Config) *Client {
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = 3
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 1
	}
	return &Client{
		httpClient: &http.Client{},
		endpoint:   defaultEndpoint,
		cfg:        cfg,
	}
}

// Search returns up to MaxResults results for query. DuckDuckGo answers
// rate-limited requests with 202 (sometimes 429); those are retried with
// exponential back-off. Exhausting retries returns an empty slice, not an
// error, so callers can proceed without web context.
func (c *Client) Search(ctx context.Context, query string) ([]Result, error) {
	delay := c.cfg.BaseDelay
	for attempt := 1; attempt <= c.cfg.MaxRetries; attempt++ {
		results, retryable, err := c.fetch(ctx, query)
		if err == nil {
			return results, nil
		}
		if !retryable {
			return nil, err
		}
		if attempt == c.cfg.MaxRetries {
			break
		}
		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, ctx.Err()
		case <-t.C:
		}
		delay *= 2
	}
	return nil, nil
}

// fetch performs one search request. The second return reports whether the
// failure was a rate limit worth retrying.
func (c *Client) fetch(ctx context.Context, query string) ([]Result, bool, error) {
	searchURL := fmt.Sprintf("%s?q=%s", c.endpoint, url.QueryEscape(query))

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", searchURL, nil)
	if err != nil {
		return nil, false, fmt.Errorf("create request: %w", err)
	}

	// Headers to look like a browser; DuckDuckGo blocks obvious bots.
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, false, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusAccepted || resp.StatusCode == http.StatusTooManyRequests {
		return nil, true, fmt.Errorf("rate limited: HTTP %d", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, false, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1MB limit
	if err != nil {
		return nil, false, fmt.Errorf("read response: %w", err)
	}

	results, err := parseResults(string(body), c.cfg.MaxResults)
	if err != nil {
		return nil, false, err
	}
	return results, false, nil
}

// parseResults extracts search results from DuckDuckGo result HTML.
func parseResults(htmlContent string, maxResults int) ([]Result, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return nil, fmt.Errorf("parse HTML: %w", err)
	}

	var results []Result

	// DuckDuckGo HTML marks each hit with class="result results_links …".
	var findResults func(*html.Node)
	findResults = func(n *html.Node) {
		if len(results) >= maxResults {
			return
		}

		if n.Type == html.ElementNode && n.Data == "div" {
			for _, attr := range n.Attr {
				if attr.Key == "class" && strings.Contains(attr.Val, "result") && strings.Contains(attr.Val, "results_links") {
					r := extractResult(n)
					if r.URL != "" && r.Title != "" {
						results = append(results, r)
					}
					return
				}
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			findResults(c)
		}
	}

	findResults(doc)
	return results, nil
}

// extractResult extracts a single search result from a result div.
func extractResult(n *html.Node) Result {
	var result Result

	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			for _, attr := range n.Attr {
				if attr.Key == "class" {
					if strings.Contains(attr.Val, "result__a") {
						result.URL = attrValue(n, "href")
						result.Title = textContent(n)
					} else if strings.Contains(attr.Val, "result__snippet") {
						result.Snippet = textContent(n)
					}
				}
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}

	extract(n)

	// Unwrap DuckDuckGo redirect URLs.
	if strings.HasPrefix(result.URL, "//duckduckgo.com/l/?uddg=") {
		if decoded, err := url.QueryUnescape(strings.TrimPrefix(result.URL, "//duckduckgo.com/l/?uddg=")); err == nil {
			if idx := strings.Index(decoded, "&"); idx > 0 {
				decoded = decoded[:idx]
			}
			result.URL = decoded
		}
	}

	return result
}

func attrValue(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var getText func(*html.Node)
	getText = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(strings.TrimSpace(n.Data))
			sb.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			getText(c)
		}
	}
	getText(n)
	return strings.TrimSpace(sb.String())
}

// FormatContext renders results as a compact block for inclusion in a prompt.
func FormatContext(results []Result) string {
	if len(results) == 0 {
		return "No web results available."
	}

	var sb strings.Builder
	for i, r := range results {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, r.Title))
		if r.Snippet != "" {
			sb.WriteString(fmt.Sprintf("   %s\n", r.Snippet))
		}
		sb.WriteString(fmt.Sprintf("   %s\n", r.URL))
	}
	return sb.String()
}
