// Package rag is the retrieval-and-context-augmentation core: keyword-scored
// chunk retrieval, search-trigger classification, and the policy that merges
// document context, web results and the user query into one prompt.
package rag

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/Vishwa-247/smart-ai-conversations-hub/internal/docstore"
)

// DocumentSource is the slice of the document store the retriever reads.
type DocumentSource interface {
	Documents(conversationID string) []*docstore.Document
	HasDocuments(conversationID string) bool
}

// Retriever scores document chunks against a query by keyword overlap.
// Scoring is literal substring matching, not semantic similarity, and needs
// no embedding model.
type Retriever struct {
	docs DocumentSource
	topK int
	log  *slog.Logger
}

func NewRetriever(docs DocumentSource, topK int, log *slog.Logger) *Retriever {
	if topK <= 0 {
		topK = 3
	}
	return &Retriever{docs: docs, topK: topK, log: log}
}

type scoredChunk struct {
	chunk    string
	filename string
	score    int
}

// Retrieve builds an augmented prompt from the best-matching chunks in the
// conversation's documents. When no chunk matches, the original query is
// returned unchanged, and callers rely on that identity to detect pass-through.
func (r *Retriever) Retrieve(query, conversationID string) string {
	block := r.ContextBlock(query, conversationID)
	if block == "" {
		return query
	}

	return fmt.Sprintf(`You have access to relevant information from uploaded documents. Use this knowledge naturally in your response.

Available Context:
%s

User Query: %s

Please provide a comprehensive and helpful response:`, block, query)
}

// ContextBlock renders the ranked document references for a query, or the
// empty string when nothing in the conversation's documents matches. The
// composer uses this directly when merging with web results.
func (r *Retriever) ContextBlock(query, conversationID string) string {
	tokens := strings.Fields(strings.ToLower(query))
	if len(tokens) == 0 {
		return ""
	}

	var scored []scoredChunk
	for _, doc := range r.docs.Documents(conversationID) {
		for _, chunk := range doc.Chunks {
			lower := strings.ToLower(chunk)
			score := 0
			for _, tok := range tokens {
				if strings.Contains(lower, tok) {
					score++
				}
			}
			if score > 0 {
				scored = append(scored, scoredChunk{chunk: chunk, filename: doc.Filename, score: score})
			}
		}
	}
	if len(scored) == 0 {
		return ""
	}

	// Stable: ties keep upload order, then chunk order.
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].score > scored[j].score })
	if len(scored) > r.topK {
		scored = scored[:r.topK]
	}

	r.log.Debug("retrieved document context",
		"conversation_id", conversationID,
		"chunks", len(scored),
		"top_score", scored[0].score,
	)

	var sb strings.Builder
	for i, sc := range scored {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		fmt.Fprintf(&sb, "[Document Reference %d: %s]\n%s", i+1, sc.filename, sc.chunk)
	}
	return sb.String()
}
