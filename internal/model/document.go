package model

import (
	"path/filepath"
	"strings"
)

// Document is one uploaded file plus its extracted plain text.
// It lives for the duration of a single check run and is never persisted.
type Document struct {
	Name  string `json:"name"`            // Human-readable identity (usually the file name)
	Path  string `json:"path,omitempty"`  // Source path, if loaded from disk
	Pages int    `json:"pages,omitempty"` // Page count for paginated formats
	Text  string `json:"-"`               // Extracted plain text (excluded from reports)
}

// TextPreview returns the first n characters of the extracted text.
func (d *Document) TextPreview(n int) string {
	if n <= 0 || len(d.Text) <= n {
		return d.Text
	}
	return d.Text[:n]
}

// SubjectFromPath derives a report subject from a file path:
// base name without extension, de-slugified.
func SubjectFromPath(path string) string {
	base := filepath.Base(path)
	if idx := strings.LastIndex(base, "."); idx > 0 {
		base = base[:idx]
	}
	base = strings.ReplaceAll(base, "_", " ")
	base = strings.ReplaceAll(base, "-", " ")
	return strings.TrimSpace(base)
}
