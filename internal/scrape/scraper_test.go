package scrape

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScraper() *Scraper {
	return NewScraper(5*time.Second, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestScrape_ExtractsTitleAndText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html>
			<head><title>Example Page</title><style>body { color: red }</style></head>
			<body>
				<nav>Home About Contact</nav>
				<script>console.log("hidden")</script>
				<p>First   paragraph
				with broken    whitespace.</p>
				<p>Second paragraph.</p>
				<footer>Copyright notice</footer>
			</body>
		</html>`)
	}))
	defer srv.Close()

	got, err := newTestScraper().Scrape(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.Equal(t, "Example Page", got.Title)
	assert.Equal(t, srv.URL, got.URL)
	assert.Contains(t, got.Content, "First paragraph with broken whitespace.")
	assert.Contains(t, got.Content, "Second paragraph.")
	assert.NotContains(t, got.Content, "console.log")
	assert.NotContains(t, got.Content, "color: red")
	assert.NotContains(t, got.Content, "Copyright notice")
	assert.NotContains(t, got.Content, "Home About Contact")
}

func TestScrape_CapsContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<html><head><title>Big</title></head><body><p>%s</p></body></html>`,
			strings.Repeat("word ", 3000))
	}))
	defer srv.Close()

	got, err := newTestScraper().Scrape(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.Len(t, got.Content, maxContentChars+3)
	assert.True(t, strings.HasSuffix(got.Content, "..."))
}

func TestScrape_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newTestScraper().Scrape(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}

func TestScrape_UnreachableHost(t *testing.T) {
	_, err := newTestScraper().Scrape(context.Background(), "http://127.0.0.1:1/nope")
	require.Error(t, err)
}

func TestFormatResult(t *testing.T) {
	got := FormatResult(&Result{URL: "https://example.com", Title: "Example", Content: "Body text."})
	assert.Equal(t, "Title: Example\n\nBody text.", got)

	got = FormatResult(&Result{URL: "https://example.com", Content: "Body text."})
	assert.Equal(t, "Title: https://example.com\n\nBody text.", got)
}
