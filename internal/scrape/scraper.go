// Package scrape fetches a web page and reduces it to plain text suitable
// for feeding to a model.
package scrape

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"
)

const (
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

	// maxContentChars bounds scraped text so a single page cannot flood the
	// model context.
	maxContentChars = 5000

	maxBodyBytes = 4 << 20
)

// Result is the text extracted from one page.
type Result struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

type Scraper struct {
	httpClient *http.Client
	log        *slog.Logger
}

func NewScraper(timeout time.Duration, log *slog.Logger) *Scraper {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Scraper{
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

// Scrape downloads the page and returns its title and visible text. Content
// is capped at maxContentChars.
func (s *Scraper) Scrape(ctx context.Context, pageURL string) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %d", pageURL, resp.StatusCode)
	}

	doc, err := html.Parse(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", pageURL, err)
	}

	title := pageTitle(doc)
	content := collapseWhitespace(visibleText(doc))
	if len(content) > maxContentChars {
		content = content[:maxContentChars] + "..."
	}

	s.log.Info("scraped page", "url", pageURL, "title", title, "chars", len(content))
	return &Result{URL: pageURL, Title: title, Content: content}, nil
}

// FormatResult renders a scrape for inclusion in a model prompt.
func FormatResult(r *Result) string {
	title := r.Title
	if title == "" {
		title = r.URL
	}
	return fmt.Sprintf("Title: %s\n\n%s", title, r.Content)
}

func pageTitle(doc *html.Node) string {
	var title string
	var walk func(*html.Node) bool
	walk = func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.Data == "title" {
			title = strings.TrimSpace(textContent(n))
			return true
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if walk(c) {
				return true
			}
		}
		return false
	}
	walk(doc)
	return title
}

// visibleText extracts text nodes, skipping chrome elements that never carry
// page content.
func visibleText(doc *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "nav", "footer", "header", "head":
				return
			}
		}
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return sb.String()
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
	}
	return sb.String()
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
