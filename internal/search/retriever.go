package search

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/claimlens/claimlens/internal/cache"
	"github.com/claimlens/claimlens/internal/model"
	"github.com/claimlens/claimlens/internal/worker"
)

// retrieveSleepFunc is the sleep function used before a retry (injectable for tests)
var retrieveSleepFunc = time.Sleep

// Retriever gathers evidence for one claim at a time. It applies per-host
// rate limiting, caches responses by query, and retries transient failures
// once before surfacing a retrieval error.
type Retriever struct {
	searcher   Searcher
	cache      cache.Cache // nil when caching is disabled
	limiter    *worker.Limiter
	baseURL    string
	maxResults int
	retries    int
	cacheTTL   time.Duration
}

// RetrieverOptions configures a Retriever
type RetrieverOptions struct {
	Cache      cache.Cache
	Limiter    *worker.Limiter
	BaseURL    string // used for per-host rate limiting
	MaxResults int
	Retries    int
	CacheTTL   time.Duration
}

// NewRetriever creates a new evidence retriever around a search client
func NewRetriever(searcher Searcher, opts RetrieverOptions) *Retriever {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = 5
	}

	return &Retriever{
		searcher:   searcher,
		cache:      opts.Cache,
		limiter:    opts.Limiter,
		baseURL:    opts.BaseURL,
		maxResults: maxResults,
		retries:    opts.Retries,
		cacheTTL:   opts.CacheTTL,
	}
}

// Retrieve gathers evidence for a claim, using the claim text verbatim as
// the query. An empty evidence list is returned as-is so the verifier can
// judge the claim Unverifiable.
func (r *Retriever) Retrieve(ctx context.Context, claim model.Claim) ([]model.EvidenceItem, error) {
	key := cache.QueryKey(claim.Text, r.maxResults)

	if r.cache != nil {
		if data, found := r.cache.Get(key); found {
			var items []model.EvidenceItem
			if err := json.Unmarshal(data, &items); err == nil {
				return items, nil
			}
			// Corrupt entry: drop it and fall through to a live query
			_ = r.cache.Delete(key)
		}
	}

	items, err := r.searchWithRetry(ctx, claim.Text)
	if err != nil {
		return nil, err
	}

	if r.cache != nil {
		if data, err := json.Marshal(items); err == nil {
			_ = r.cache.Set(key, data, r.cacheTTL)
		}
	}

	return items, nil
}

// searchWithRetry retries transient failures with exponential backoff
func (r *Retriever) searchWithRetry(ctx context.Context, query string) ([]model.EvidenceItem, error) {
	attempts := r.retries + 1
	var lastErr error

	for attempt := 0; attempt < attempts; attempt++ {
		if r.limiter != nil && r.baseURL != "" {
			if err := r.limiter.Wait(ctx, r.baseURL); err != nil {
				return nil, model.NewRetrievalError("rate limit wait", 0, err)
			}
		}

		items, err := r.searcher.Search(ctx, query, r.maxResults)
		if err == nil {
			return items, nil
		}
		lastErr = err

		if !isTransient(err) || ctx.Err() != nil {
			break
		}
		if attempt < attempts-1 {
			retrieveSleepFunc(time.Duration(1<<uint(attempt)) * time.Second)
		}
	}

	return nil, lastErr
}

// isTransient reports whether a retrieval failure is worth one more attempt:
// transport errors, rate limiting, and server-side errors.
func isTransient(err error) bool {
	var svcErr *model.ServiceError
	if !errors.As(err, &svcErr) {
		return false
	}
	if svcErr.StatusCode == 0 {
		return true // transport failure
	}
	if svcErr.StatusCode == 429 {
		return true
	}
	return svcErr.StatusCode >= 500 && svcErr.StatusCode < 600
}
