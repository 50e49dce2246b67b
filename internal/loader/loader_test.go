package loader

import (
	"errors"
	"strings"
	"testing"

	"github.com/claimlens/claimlens/internal/model"
)

func TestLoader_PlainText(t *testing.T) {
	loader := NewLoader()

	doc, err := loader.Load("notes.txt", []byte("  Revenue grew 40% in 2023.  \n"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if doc.Name != "notes.txt" {
		t.Errorf("Unexpected name: %s", doc.Name)
	}
	if doc.Text != "Revenue grew 40% in 2023." {
		t.Errorf("Expected trimmed text, got %q", doc.Text)
	}
}

func TestLoader_EmptyDocument(t *testing.T) {
	loader := NewLoader()

	_, err := loader.Load("empty.txt", nil)
	if !errors.Is(err, model.ErrUnreadableDocument) {
		t.Errorf("Expected ErrUnreadableDocument, got %v", err)
	}
}

func TestLoader_WhitespaceOnly(t *testing.T) {
	loader := NewLoader()

	_, err := loader.Load("blank.txt", []byte("   \n\t  "))
	if !errors.Is(err, model.ErrUnreadableDocument) {
		t.Errorf("Expected ErrUnreadableDocument, got %v", err)
	}
}

func TestLoader_BinaryGarbage(t *testing.T) {
	loader := NewLoader()

	_, err := loader.Load("blob.bin", []byte{0xff, 0xfe, 0x00, 0x81, 0x82})
	if !errors.Is(err, model.ErrUnreadableDocument) {
		t.Errorf("Expected ErrUnreadableDocument for non-UTF-8 input, got %v", err)
	}
}

func TestLoader_CorruptPDF(t *testing.T) {
	loader := NewLoader()

	// Valid signature, garbage body
	data := []byte("%PDF-1.7\nnot actually a pdf")
	_, err := loader.Load("broken.pdf", data)
	if !errors.Is(err, model.ErrUnreadableDocument) {
		t.Errorf("Expected ErrUnreadableDocument for corrupt PDF, got %v", err)
	}
}

func TestLoader_TruncatedPDF(t *testing.T) {
	loader := NewLoader()

	_, err := loader.Load("cut.pdf", []byte("%PDF-"))
	if !errors.Is(err, model.ErrUnreadableDocument) {
		t.Errorf("Expected ErrUnreadableDocument for truncated PDF, got %v", err)
	}
}

func TestLoader_LargeText(t *testing.T) {
	loader := NewLoader()

	text := strings.Repeat("A factual sentence. ", 10000)
	doc, err := loader.Load("big.txt", []byte(text))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(doc.Text) == 0 {
		t.Error("Expected non-empty text")
	}
}
