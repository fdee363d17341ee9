package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/Vishwa-247/smart-ai-conversations-hub/internal/docstore"
	"github.com/Vishwa-247/smart-ai-conversations-hub/internal/extract"
)

func (s *Server) handleUploadDocument(w http.ResponseWriter, r *http.Request) {
	// Limit total request size, with extra headroom for form overhead.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	conversationID := r.FormValue("conversation_id")

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if !extract.IsSupportedExtension(filename) {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return
	}

	res, err := s.docs.AddDocument(data, filename, conversationID)
	if err != nil {
		if errors.Is(err, extract.ErrNoText) || errors.Is(err, extract.ErrUnsupportedType) {
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.log.Error("document ingestion failed", "filename", filename, "error", err)
		jsonError(w, "failed to process document", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":     "Document uploaded and processed successfully",
		"document_id": res.DocumentID,
		"filename":    filename,
		"chunks":      res.ChunkCount,
	})
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	var docs []docstore.Info
	if conversationID, ok := conversationScope(r); ok {
		docs = s.docs.ListDocuments(conversationID)
	} else {
		docs = s.docs.ListAll()
	}
	if docs == nil {
		docs = []docstore.Info{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"documents": docs,
		"count":     len(docs),
	})
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	filename := r.URL.Query().Get("filename")
	if filename == "" {
		jsonError(w, "filename is required", http.StatusBadRequest)
		return
	}
	conversationID := r.URL.Query().Get("conversation_id")

	if !s.docs.DeleteDocument(filename, conversationID) {
		jsonError(w, "document not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "document deleted"})
}

// conversationScope reports whether the request names a conversation scope.
// A present-but-empty conversation_id addresses the global pool, while an
// absent parameter means "everything".
func conversationScope(r *http.Request) (string, bool) {
	if !r.URL.Query().Has("conversation_id") {
		return "", false
	}
	return r.URL.Query().Get("conversation_id"), true
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
