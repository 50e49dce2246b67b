package loader

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/claimlens/claimlens/internal/model"
)

// loadPDF extracts the text of every page and joins it into one string.
func (l *Loader) loadPDF(name string, data []byte) (doc *model.Document, err error) {
	// The pdf library panics on some malformed files; convert that to an
	// unreadable-document error instead of crashing the run.
	defer func() {
		if r := recover(); r != nil {
			doc = nil
			err = model.NewUnreadableDocument(fmt.Sprintf("malformed PDF: %v", r), nil)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, model.NewUnreadableDocument("open PDF", err)
	}

	var sb strings.Builder
	pages := reader.NumPage()
	for i := 1; i <= pages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// Skip unreadable pages; an entirely unreadable document is
			// caught by the emptiness check below.
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(strings.TrimSpace(text))
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return nil, model.NewUnreadableDocument("PDF contains no extractable text", nil)
	}

	return &model.Document{
		Name:  name,
		Pages: pages,
		Text:  text,
	}, nil
}
