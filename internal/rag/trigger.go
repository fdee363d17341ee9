package rag

import (
	"regexp"
	"strings"
)

// Triggers is the configuration table behind the search-trigger classifier.
// The lists are data, not hidden heuristics: callers may override any of them
// before constructing a Composer.
type Triggers struct {
	// URLIndicators mark a message that already carries scraped page content
	// for summarization. Such messages bypass all augmentation.
	URLIndicators []string

	// DocumentScoped phrases suppress web search outright: an explicit
	// document reference wins over any co-occurring time-sensitive word.
	DocumentScoped []string

	// SearchKeywords trigger live web search on substring match.
	SearchKeywords []string

	// SearchPatterns trigger live web search on regex match. Word-shaped
	// triggers ("vs", "price") live here so they match whole words only.
	SearchPatterns []*regexp.Regexp
}

// DefaultTriggers returns the shipped classifier configuration.
func DefaultTriggers() Triggers {
	return Triggers{
		URLIndicators: []string{
			"analyze and summarize the following content from:",
			"please analyze",
			"content summary:",
			"url:",
			"title:",
			"please provide a comprehensive summary",
		},
		DocumentScoped: []string{
			"from the document",
			"in the document",
			"from the pdf",
			"in the pdf",
			"from the file",
			"in the file",
			"the uploaded document",
			"according to the document",
		},
		SearchKeywords: []string{
			// time-sensitive
			"latest", "today", "current", "recent", "breaking",
			"this week", "this month", "this year", "right now",
			// live data
			"weather", "stock price", "stock market", "exchange rate",
			"bitcoin price", "crypto price", "news", "trending", "happening",
			// comparison
			"compare", "comparison", "versus", "difference between",
		},
		SearchPatterns: []*regexp.Regexp{
			regexp.MustCompile(`\bvs\.?\b`),
			regexp.MustCompile(`\bhow much (does|is|are|do)\b`),
			regexp.MustCompile(`\bwhat('s| is) the (price|cost|value) of\b`),
			regexp.MustCompile(`\bwhen did\b`),
			regexp.MustCompile(`\bwho is (currently|now)\b`),
			regexp.MustCompile(`\bwhat('s| is) the current\b`),
		},
	}
}

// IsURLAnalysisRequest reports whether the message already contains scraped
// URL content to be summarized. When true the message is used verbatim and
// every other augmentation path is skipped.
func (t Triggers) IsURLAnalysisRequest(query string) bool {
	q := strings.ToLower(query)
	for _, indicator := range t.URLIndicators {
		if strings.Contains(q, indicator) {
			return true
		}
	}
	return false
}

// ShouldSearch decides whether live web search is warranted for a query.
// Document-scoped phrases suppress search regardless of other matches.
func (t Triggers) ShouldSearch(query string) bool {
	q := strings.ToLower(query)

	for _, phrase := range t.DocumentScoped {
		if strings.Contains(q, phrase) {
			return false
		}
	}

	for _, kw := range t.SearchKeywords {
		if strings.Contains(q, kw) {
			return true
		}
	}
	for _, re := range t.SearchPatterns {
		if re.MatchString(q) {
			return true
		}
	}
	return false
}
