// Package docstore holds extracted, chunked document text keyed by
// conversation. Documents are immutable once ingested; the index only ever
// grows or drops whole entries.
package docstore

import (
	"crypto/sha256"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/Vishwa-247/smart-ai-conversations-hub/internal/chunker"
)

// Document is one ingested file: its extracted text split into chunks plus
// the bookkeeping needed to list and delete it.
type Document struct {
	ID             string
	Filename       string
	ConversationID string // empty means the global pool
	Chunks         []string
	UploadedAt     time.Time
	FilePath       string // content-addressed copy of the raw upload
}

// Info is the read-only listing view of a document.
type Info struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	ChunkCount int       `json:"chunks"`
	UploadedAt time.Time `json:"upload_time"`
}

// AddResult reports a successful ingestion.
type AddResult struct {
	DocumentID string
	ChunkCount int
}

// ExtractFunc converts raw file bytes to plain text.
type ExtractFunc func(data []byte, filename string) (string, error)

// Store is the per-conversation document index. The empty conversation ID is
// the legacy global pool, kept as an explicit alternate scope rather than
// merged into per-conversation mode. Entries are never evicted; in the
// shipped single-process deployment the index lives for the process lifetime.
type Store struct {
	mu       sync.RWMutex
	dir      string
	extract  ExtractFunc
	chunkCfg chunker.Config
	log      *slog.Logger

	// Insertion-ordered per scope: retrieval ties must keep upload order.
	docs map[string][]*Document
}

func New(dir string, extract ExtractFunc, chunkCfg chunker.Config, log *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create documents dir: %w", err)
	}
	return &Store{
		dir:      dir,
		extract:  extract,
		chunkCfg: chunkCfg,
		log:      log,
		docs:     make(map[string][]*Document),
	}, nil
}

// AddDocument extracts, chunks and indexes an uploaded file. The raw bytes
// are persisted to a content-addressed path for potential re-extraction.
// Ingestion is synchronous: once this returns, retrieval sees the document.
func (s *Store) AddDocument(data []byte, filename, conversationID string) (AddResult, error) {
	text, err := s.extract(data, filename)
	if err != nil {
		return AddResult{}, err
	}

	id := ContentHashHex(data)[:16]
	path := filepath.Join(s.dir, id+"_"+filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return AddResult{}, fmt.Errorf("save file: %w", err)
	}

	doc := &Document{
		ID:             id,
		Filename:       filename,
		ConversationID: conversationID,
		Chunks:         chunker.Split(text, s.chunkCfg),
		UploadedAt:     time.Now(),
		FilePath:       path,
	}

	s.mu.Lock()
	s.docs[conversationID] = append(s.docs[conversationID], doc)
	s.mu.Unlock()

	s.log.Info("document ingested",
		"doc_id", doc.ID,
		"filename", filename,
		"conversation_id", conversationID,
		"chunks", len(doc.Chunks),
	)

	return AddResult{DocumentID: doc.ID, ChunkCount: len(doc.Chunks)}, nil
}

// Documents returns the documents in a scope, in upload order. The returned
// slice is a copy; the documents themselves are immutable.
func (s *Store) Documents(conversationID string) []*Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Document, len(s.docs[conversationID]))
	copy(out, s.docs[conversationID])
	return out
}

// ListDocuments lists the documents in a scope, in upload order.
func (s *Store) ListDocuments(conversationID string) []Info {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Info, 0, len(s.docs[conversationID]))
	for _, d := range s.docs[conversationID] {
		out = append(out, Info{
			ID:         d.ID,
			Filename:   d.Filename,
			ChunkCount: len(d.Chunks),
			UploadedAt: d.UploadedAt,
		})
	}
	return out
}

// ListAll lists every document across all scopes, ordered by upload time.
func (s *Store) ListAll() []Info {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Info
	for _, docs := range s.docs {
		for _, d := range docs {
			out = append(out, Info{
				ID:         d.ID,
				Filename:   d.Filename,
				ChunkCount: len(d.Chunks),
				UploadedAt: d.UploadedAt,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UploadedAt.Before(out[j].UploadedAt) })
	return out
}

// HasDocuments reports whether the scope holds any documents.
func (s *Store) HasDocuments(conversationID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs[conversationID]) > 0
}

// DeleteDocument removes the first document in the scope whose filename
// matches exactly. Returns false if none matched. Two uploads sharing a name
// in one conversation are ambiguous under this API; the oldest match wins.
func (s *Store) DeleteDocument(filename, conversationID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs := s.docs[conversationID]
	for i, d := range docs {
		if d.Filename != filename {
			continue
		}
		s.docs[conversationID] = append(docs[:i:i], docs[i+1:]...)
		if len(s.docs[conversationID]) == 0 {
			delete(s.docs, conversationID)
		}
		if d.FilePath != "" {
			if err := os.Remove(d.FilePath); err != nil && !os.IsNotExist(err) {
				s.log.Warn("could not remove stored file", "path", d.FilePath, "error", err)
			}
		}
		s.log.Info("document deleted", "doc_id", d.ID, "filename", filename, "conversation_id", conversationID)
		return true
	}
	return false
}

// ContentHashHex computes SHA-256 of content and returns the hex string.
// Identical uploads therefore get identical document IDs.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
