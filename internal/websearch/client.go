// Package websearch queries DuckDuckGo for live web context. Provider
// failure is modeled, not thrown: callers get Success=false and treat it as
// "no results".
package websearch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"
)

const (
	instantAnswerURL = "https://api.duckduckgo.com/"
	htmlSearchURL    = "https://html.duckduckgo.com/html/"

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

// Result is one web-search hit. Source distinguishes an authoritative
// instant answer from a generic result.
type Result struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	URL     string `json:"url"`
	Source  string `json:"source"`
}

// Response is the explicit outcome of a search call. Ephemeral: produced
// per-request, never persisted.
type Response struct {
	Success bool     `json:"success"`
	Query   string   `json:"query"`
	Results []Result `json:"results"`
	Err     string   `json:"error,omitempty"`
}

// Client talks to DuckDuckGo: the Instant Answer API first, then an HTML
// scrape of the result page when the API returns nothing.
type Client struct {
	httpClient *http.Client
	log        *slog.Logger

	apiURL  string
	htmlURL string
}

func NewClient(timeout time.Duration, log *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
		apiURL:     instantAnswerURL,
		htmlURL:    htmlSearchURL,
	}
}

// Search runs the query and returns up to maxResults hits.
func (c *Client) Search(ctx context.Context, query string, maxResults int) Response {
	if maxResults <= 0 {
		maxResults = 5
	}

	results, err := c.searchInstantAnswer(ctx, query, maxResults)
	if err != nil {
		c.log.Warn("instant answer search failed", "error", err)
	}
	if len(results) == 0 {
		var fbErr error
		results, fbErr = c.searchHTMLFallback(ctx, query, maxResults)
		if fbErr != nil {
			c.log.Warn("fallback search failed", "error", fbErr)
			if err == nil {
				err = fbErr
			}
		}
	}

	if len(results) == 0 {
		resp := Response{Query: query}
		if err != nil {
			resp.Err = err.Error()
		} else {
			resp.Err = "no results found"
		}
		return resp
	}

	c.log.Info("web search complete", "query", query, "results", len(results))
	return Response{Success: true, Query: query, Results: results}
}

// instantAnswerPayload is the subset of the DuckDuckGo Instant Answer
// response we consume.
type instantAnswerPayload struct {
	AbstractText   string `json:"AbstractText"`
	AbstractSource string `json:"AbstractSource"`
	AbstractURL    string `json:"AbstractURL"`
	RelatedTopics  []struct {
		Text     string `json:"Text"`
		FirstURL string `json:"FirstURL"`
	} `json:"RelatedTopics"`
}

func (c *Client) searchInstantAnswer(ctx context.Context, query string, maxResults int) ([]Result, error) {
	u := c.apiURL + "?q=" + url.QueryEscape(query) + "&format=json&no_html=1&skip_disambig=1"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("instant answer api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("instant answer api status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var payload instantAnswerPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	var results []Result
	if payload.AbstractText != "" {
		title := payload.AbstractSource
		if title == "" {
			title = "DuckDuckGo"
		}
		results = append(results, Result{
			Title:   title,
			Snippet: payload.AbstractText,
			URL:     payload.AbstractURL,
			Source:  "instant_answer",
		})
	}
	for _, topic := range payload.RelatedTopics {
		if len(results) >= maxResults {
			break
		}
		if topic.Text == "" {
			continue
		}
		results = append(results, Result{
			Title:   truncate(topic.Text, 100),
			Snippet: topic.Text,
			URL:     topic.FirstURL,
			Source:  "related_topic",
		})
	}
	return results, nil
}

func (c *Client) searchHTMLFallback(ctx context.Context, query string, maxResults int) ([]Result, error) {
	u := c.htmlURL + "?q=" + url.QueryEscape(query)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("html search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("html search status %d", resp.StatusCode)
	}

	doc, err := html.Parse(io.LimitReader(resp.Body, 2<<20))
	if err != nil {
		return nil, fmt.Errorf("parse result page: %w", err)
	}

	var results []Result
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if len(results) >= maxResults {
			return
		}
		if n.Type == html.ElementNode && n.Data == "div" && hasClass(n, "result") {
			if r, ok := parseResultDiv(n); ok {
				results = append(results, r)
			}
			return
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)
	return results, nil
}

func parseResultDiv(div *html.Node) (Result, bool) {
	var r Result
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			switch {
			case hasClass(n, "result__a"):
				r.Title = nodeText(n)
				r.URL = attr(n, "href")
			case hasClass(n, "result__snippet"):
				r.Snippet = nodeText(n)
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(div)
	if r.Title == "" {
		return Result{}, false
	}
	r.Source = "web_search"
	return r, true
}

func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(a.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(sb.String())
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// FormatResults renders search hits for model consumption. Empty string when
// the response carries no usable results.
func FormatResults(resp Response) string {
	if !resp.Success || len(resp.Results) == 0 {
		return ""
	}
	var sb strings.Builder
	for i, r := range resp.Results {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		title := r.Title
		if title == "" {
			title = "Unknown"
		}
		snippet := r.Snippet
		if snippet == "" {
			snippet = "No description available"
		}
		fmt.Fprintf(&sb, "[Search Result %d: %s]\n%s\nSource: %s", i+1, title, snippet, r.URL)
	}
	return sb.String()
}
