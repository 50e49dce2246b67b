package model

// Claim represents a discrete, checkable factual assertion extracted from a
// document. Claims are immutable once extracted; Ordinal records the position
// in the extractor's output so concurrent verification can restore order.
type Claim struct {
	Text    string `json:"text"`    // Normalized claim text
	Ordinal int    `json:"ordinal"` // Position in extraction order (0-based)
}
