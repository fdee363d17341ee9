// Package extract converts uploaded document bytes into plain text.
package extract

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// ErrUnsupportedType marks a file extension this service cannot handle.
var ErrUnsupportedType = errors.New("unsupported file type")

// ErrNoText marks a document that parsed without usable text content.
var ErrNoText = errors.New("no text could be extracted from the document")

// Extractor converts raw document bytes into plain text.
type Extractor interface {
	Extract(r io.Reader, filename string) (string, error)
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".docx":     true,
}

// ForFile returns the appropriate extractor for a filename.
func ForFile(filename string) (Extractor, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return &TextExtractor{}, nil
	case ".md", ".markdown":
		return &MarkdownExtractor{}, nil
	case ".html", ".htm":
		return &HTMLExtractor{}, nil
	case ".pdf":
		return &PDFExtractor{FallbackPdftotext: true}, nil
	case ".docx":
		return &DOCXExtractor{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// FromBytes extracts text from an in-memory document. It fails with
// ErrUnsupportedType for unknown extensions and ErrNoText when the parse
// succeeds but yields nothing usable.
func FromBytes(data []byte, filename string) (string, error) {
	ex, err := ForFile(filename)
	if err != nil {
		return "", err
	}
	text, err := ex.Extract(bytes.NewReader(data), filename)
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", filename, err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrNoText
	}
	return text, nil
}
