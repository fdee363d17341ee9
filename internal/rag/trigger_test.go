package rag

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShouldSearch(t *testing.T) {
	triggers := DefaultTriggers()

	cases := []struct {
		query string
		want  bool
	}{
		// time-sensitive keywords
		{"What is the latest bitcoin price?", true},
		{"today's weather in Berlin", true},
		{"current inflation rate", true},
		{"breaking news about the election", true},
		// live-data keywords
		{"tesla stock price", true},
		{"usd to eur exchange rate", true},
		// comparison
		{"golang vs rust performance", true},
		{"compare these two laptops", true},
		// question patterns
		{"how much does a model 3 cost", true},
		{"when did the eiffel tower open", true},
		{"who is currently the UN secretary general", true},
		{"what is the current population of japan", true},
		// no trigger
		{"explain binary search trees", false},
		{"write a haiku about autumn", false},
		{"summarize our earlier conversation", false},
		// "vs" must match as a word, not inside one
		{"my conversation went well", false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, triggers.ShouldSearch(tc.query), "query: %q", tc.query)
	}
}

func TestShouldSearch_DocumentScopeSuppresses(t *testing.T) {
	triggers := DefaultTriggers()

	// An explicit document reference wins even when time-sensitive words
	// are present.
	cases := []string{
		"what is the latest update from the document",
		"current figures in the pdf",
		"according to the document, what changed today?",
		"compare the numbers from the file",
	}
	for _, q := range cases {
		assert.False(t, triggers.ShouldSearch(q), "query: %q", q)
	}
}

func TestIsURLAnalysisRequest(t *testing.T) {
	triggers := DefaultTriggers()

	assert.True(t, triggers.IsURLAnalysisRequest(
		"Please analyze and summarize the following content from: https://x.com\nTitle: X\nSome text"))
	assert.True(t, triggers.IsURLAnalysisRequest("URL: https://example.com\nContent Summary: stuff"))
	assert.True(t, triggers.IsURLAnalysisRequest("please analyze this for me"))

	assert.False(t, triggers.IsURLAnalysisRequest("what is the capital of france"))
	assert.False(t, triggers.IsURLAnalysisRequest("summarize chapter three"))
}

func TestTriggers_Overridable(t *testing.T) {
	triggers := DefaultTriggers()
	triggers.SearchKeywords = []string{"frobnicate"}
	triggers.SearchPatterns = nil

	assert.True(t, triggers.ShouldSearch("please frobnicate the widget"))
	assert.False(t, triggers.ShouldSearch("what is the latest news"))
}
