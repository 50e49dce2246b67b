// Package search retrieves web evidence for claims. The Tavily client issues
// the actual queries; the Retriever wraps it with caching, rate limiting,
// and a single retry on transient failure.
package search

import (
	"context"

	"github.com/claimlens/claimlens/internal/model"
)

// Searcher defines the interface for web-search services
type Searcher interface {
	// Search runs one query and returns up to maxResults evidence items
	// ranked by the service's own relevance score. An empty result set is
	// a legitimate outcome, not an error.
	Search(ctx context.Context, query string, maxResults int) ([]model.EvidenceItem, error)
}
