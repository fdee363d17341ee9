package rag

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Vishwa-247/smart-ai-conversations-hub/internal/websearch"
)

// Result caps for the two search-capable branches. Combined prompts get
// fewer web hits since document context also takes prompt space.
const (
	combinedWebResults = 3
	searchOnlyResults  = 5
)

// Searcher is the web-search collaborator the composer consumes.
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int) websearch.Response
}

// Composer merges {query, retrieved document context, web results} into a
// single prompt per a fixed precedence policy. Stateless across calls: each
// Compose is a pure function of its inputs plus reads against the document
// store. It never fails; any internal fault degrades to the original query
// so the chat turn can still reach a model.
type Composer struct {
	triggers  Triggers
	retriever *Retriever
	docs      DocumentSource
	search    Searcher
	log       *slog.Logger
}

func NewComposer(triggers Triggers, retriever *Retriever, docs DocumentSource, search Searcher, log *slog.Logger) *Composer {
	return &Composer{
		triggers:  triggers,
		retriever: retriever,
		docs:      docs,
		search:    search,
		log:       log,
	}
}

// Compose builds the augmented prompt for one chat turn. The branch order is
// a design decision: document relevance is persistent context, search
// relevance is a time-sensitive override, and both can legitimately co-occur.
//
//  1. URL-analysis message  -> verbatim pass-through
//  2. search need + docs    -> combined document + web prompt
//  3. search need           -> web-only prompt
//  4. docs                  -> document retrieval prompt
//  5. neither               -> verbatim pass-through
func (c *Composer) Compose(ctx context.Context, query, conversationID string) string {
	if c.triggers.IsURLAnalysisRequest(query) {
		c.log.Debug("url analysis request, skipping augmentation")
		return query
	}

	needsSearch := c.triggers.ShouldSearch(query)
	hasDocs := c.docs.HasDocuments(conversationID)

	switch {
	case needsSearch && hasDocs:
		return c.composeCombined(ctx, query, conversationID)
	case needsSearch:
		return c.composeSearchOnly(ctx, query)
	case hasDocs:
		return c.retriever.Retrieve(query, conversationID)
	default:
		return query
	}
}

func (c *Composer) composeCombined(ctx context.Context, query, conversationID string) string {
	docContext := c.retriever.ContextBlock(query, conversationID)
	webContext := websearch.FormatResults(c.search.Search(ctx, query, combinedWebResults))

	if docContext == "" && webContext == "" {
		return query
	}

	prompt := "You have access to context from uploaded documents and current web information. Use both naturally in your response.\n"
	if docContext != "" {
		prompt += fmt.Sprintf("\nDocument Context:\n%s\n", docContext)
	}
	if webContext != "" {
		prompt += fmt.Sprintf("\nCurrent Web Information:\n%s\n", webContext)
	}
	prompt += fmt.Sprintf("\nUser Query: %s\n\nPlease provide a comprehensive and helpful response:", query)
	return prompt
}

func (c *Composer) composeSearchOnly(ctx context.Context, query string) string {
	webContext := websearch.FormatResults(c.search.Search(ctx, query, searchOnlyResults))
	if webContext == "" {
		// Provider failure or empty results: proceed unaugmented.
		return query
	}

	return fmt.Sprintf(`You have access to current information from the web. Use it to give an up-to-date answer.

Current Web Information:
%s

User Query: %s

Please provide a comprehensive and helpful response:`, webContext, query)
}
