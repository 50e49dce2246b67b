package model

// EvidenceItem is one web-search result gathered to check a single claim.
// Items belong to exactly one claim and are ordered by the search service's
// own relevance ranking; no independent re-ranking happens downstream.
type EvidenceItem struct {
	URL     string  `json:"url"`
	Snippet string  `json:"snippet,omitempty"` // Result content excerpt
	Score   float64 `json:"score,omitempty"`   // Relevance score from the search service
	Rank    int     `json:"rank"`              // Position in the result list (0-based)
}

// SourceValidation records the accessibility probe of one cited source URL.
// Validation is diagnostic only and never changes a verdict.
type SourceValidation struct {
	URL          string `json:"url"`
	IsAccessible bool   `json:"is_accessible"`
	StatusCode   int    `json:"status_code,omitempty"`
	RedirectURL  string `json:"redirect_url,omitempty"`
	Error        string `json:"error,omitempty"`
}
