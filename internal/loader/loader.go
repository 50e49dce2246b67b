// Package loader converts raw document bytes into plain text. PDF is the
// primary format; anything without a PDF signature is treated as plain text.
// Corrupt, encrypted, or empty input surfaces as an unreadable-document
// error so the caller can fail the run before any service calls happen.
package loader

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"github.com/claimlens/claimlens/internal/model"
)

var pdfMagic = []byte("%PDF-")

// Loader converts uploaded document bytes into a Document with extracted text
type Loader struct{}

// NewLoader creates a new document loader
func NewLoader() *Loader {
	return &Loader{}
}

// Load extracts plain text from raw document bytes. name is kept as the
// document's identity in the final report.
func (l *Loader) Load(name string, data []byte) (*model.Document, error) {
	if len(data) == 0 {
		return nil, model.NewUnreadableDocument("document is empty", nil)
	}

	if bytes.HasPrefix(data, pdfMagic) {
		return l.loadPDF(name, data)
	}

	return l.loadText(name, data)
}

// loadText treats the bytes as a plain-text document
func (l *Loader) loadText(name string, data []byte) (*model.Document, error) {
	if !utf8.Valid(data) {
		return nil, model.NewUnreadableDocument("document is neither PDF nor valid UTF-8 text", nil)
	}

	text := strings.TrimSpace(string(data))
	if text == "" {
		return nil, model.NewUnreadableDocument("document contains no text", nil)
	}

	return &model.Document{
		Name: name,
		Text: text,
	}, nil
}
