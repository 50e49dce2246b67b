// Package pipeline sequences one check run: load the document, extract
// claims, then retrieve evidence and verify each claim, and assemble the
// final report. Document-level failures abort the run; per-claim failures
// degrade that one claim to Unverifiable so the rest of the report survives.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/claimlens/claimlens/internal/cache"
	"github.com/claimlens/claimlens/internal/extract"
	"github.com/claimlens/claimlens/internal/llm"
	"github.com/claimlens/claimlens/internal/loader"
	"github.com/claimlens/claimlens/internal/model"
	"github.com/claimlens/claimlens/internal/search"
	"github.com/claimlens/claimlens/internal/validate"
	"github.com/claimlens/claimlens/internal/verify"
	"github.com/claimlens/claimlens/internal/worker"
)

// Pipeline orchestrates the complete check process for one document
type Pipeline struct {
	loader    *loader.Loader
	extractor *extract.ClaimExtractor
	retriever *search.Retriever
	verifier  *verify.Verifier
	validator *validate.Validator // nil when source validation is disabled
	workers   int
	verbose   bool
}

// NewPipeline creates a new pipeline from configuration, constructing the
// completion provider and search client with explicitly injected credentials.
func NewPipeline(cfg *model.Config) (*Pipeline, error) {
	provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		return nil, fmt.Errorf("create LLM provider: %w", err)
	}

	searcher, err := search.NewTavilyClient(search.TavilyConfig{
		APIKey:     cfg.Search.APIKey,
		BaseURL:    cfg.Search.BaseURL,
		Timeout:    cfg.Search.Timeout,
		HTTPProxy:  cfg.LLM.HTTPProxy,
		HTTPSProxy: cfg.LLM.HTTPSProxy,
		NoProxy:    cfg.LLM.NoProxy,
	})
	if err != nil {
		return nil, fmt.Errorf("create search client: %w", err)
	}

	var searchCache cache.Cache
	if cfg.Cache.Enabled {
		if cfg.Cache.Dir != "" {
			searchCache = cache.NewLayeredCache(cfg.Cache.TTL, cfg.Cache.Dir, cfg.Cache.TTL)
		} else {
			searchCache = cache.NewMemoryCache(cfg.Cache.TTL, 10*time.Minute)
		}
	}

	retriever := search.NewRetriever(searcher, search.RetrieverOptions{
		Cache:      searchCache,
		Limiter:    worker.NewLimiter(cfg.Search.RatePerHost, cfg.Search.Burst),
		BaseURL:    cfg.Search.BaseURL,
		MaxResults: cfg.Search.MaxResults,
		Retries:    cfg.Search.Retries,
		CacheTTL:   cfg.Cache.TTL,
	})

	var validator *validate.Validator
	if cfg.Validate.Enabled {
		validator = validate.NewValidator(cfg.Validate)
	}

	return &Pipeline{
		loader:    loader.NewLoader(),
		extractor: extract.NewClaimExtractor(provider, cfg.Extract),
		retriever: retriever,
		verifier:  verify.NewVerifier(provider),
		validator: validator,
		workers:   cfg.Pipeline.Workers,
		verbose:   cfg.Output.Verbose,
	}, nil
}

// CheckFile runs the pipeline over a document file on disk
func (p *Pipeline) CheckFile(ctx context.Context, path string) (*model.Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		loadErr := model.NewUnreadableDocument("read file", err)
		return failedReport(model.SubjectFromPath(path), model.Document{Name: path, Path: path}, loadErr), loadErr
	}

	report, err := p.CheckBytes(ctx, path, data)
	report.Document.Path = path
	report.Subject = model.SubjectFromPath(path)
	return report, err
}

// CheckBytes runs the pipeline over raw document bytes
func (p *Pipeline) CheckBytes(ctx context.Context, name string, data []byte) (*model.Report, error) {
	// 1. Load document text
	doc, err := p.loader.Load(name, data)
	if err != nil {
		return failedReport(name, model.Document{Name: name}, err), err
	}

	if p.verbose {
		fmt.Fprintf(os.Stderr, "✓ Extracted %d characters of text\n", len(doc.Text))
		preview := doc.TextPreview(200)
		if len(preview) < len(doc.Text) {
			preview += "..."
		}
		fmt.Fprintf(os.Stderr, "  %s\n", preview)
	}

	// 2. Extract claims (one completion call)
	claims, err := p.extractor.Extract(ctx, doc.Text)
	if err != nil {
		return failedReport(name, *doc, err), err
	}

	if p.verbose {
		fmt.Fprintf(os.Stderr, "✓ Extracted %d claims\n", len(claims))
	}

	// 3+4. Retrieve evidence and verify each claim concurrently
	results := p.checkClaims(ctx, claims)

	report := &model.Report{
		Subject:   doc.Name,
		Document:  *doc,
		CheckedAt: time.Now().UTC(),
		Results:   results,
	}
	report.Summarize()

	return report, nil
}

// checkClaims dispatches per-claim retrieval and verification on a bounded
// worker pool and restores extraction order before returning.
func (p *Pipeline) checkClaims(ctx context.Context, claims []model.Claim) []model.ClaimResult {
	if len(claims) == 0 {
		return []model.ClaimResult{}
	}

	pool := worker.NewPool(ctx, p.workers)
	pool.Start()

	for _, claim := range claims {
		pool.Submit(&claimJob{pipeline: p, claim: claim})
	}

	poolResults := pool.Wait()

	results := make([]model.ClaimResult, 0, len(claims))
	judged := make(map[int]bool, len(poolResults))
	for _, r := range poolResults {
		cr := r.(*claimJobResult)
		results = append(results, cr.result)
		judged[cr.result.Claim.Ordinal] = true
		if cr.err != nil && p.verbose {
			fmt.Fprintf(os.Stderr, "⚠ claim %d degraded: %v\n", cr.result.Claim.Ordinal, cr.err)
		}
	}

	// A cancelled context stops workers before they drain the queue. The
	// report still carries every extracted claim, so anything left behind
	// is recorded as degraded rather than silently dropped.
	if len(results) < len(claims) {
		for _, claim := range claims {
			if !judged[claim.Ordinal] {
				results = append(results, degradedResult(claim, "run interrupted", ctx.Err()))
			}
		}
	}

	// Completion order is arbitrary under concurrency; the report always
	// lists claims in extraction order.
	sort.Slice(results, func(i, j int) bool {
		return results[i].Claim.Ordinal < results[j].Claim.Ordinal
	})

	return results
}

// checkClaim runs retrieval and verification for one claim. Failures are
// isolated: the claim comes back Unverifiable with an explanation of the
// lookup failure, and the run continues.
func (p *Pipeline) checkClaim(ctx context.Context, claim model.Claim) (model.ClaimResult, error) {
	evidence, err := p.retriever.Retrieve(ctx, claim)
	if err != nil {
		return degradedResult(claim, "evidence lookup failed", err), err
	}

	verdict, err := p.verifier.Verify(ctx, claim, evidence)
	if err != nil {
		result := degradedResult(claim, "verification failed", err)
		result.Evidence = evidence
		return result, err
	}

	result := model.ClaimResult{
		Claim:    claim,
		Evidence: evidence,
		Verdict:  verdict,
	}

	if p.validator != nil && len(verdict.Sources) > 0 {
		result.Validation = p.validator.Validate(ctx, verdict.Sources)
	}

	return result, nil
}

// degradedResult builds the Unverifiable result recorded when a claim's
// retrieval or verification fails.
func degradedResult(claim model.Claim, reason string, err error) model.ClaimResult {
	return model.ClaimResult{
		Claim:    claim,
		Evidence: []model.EvidenceItem{},
		Verdict: model.Verdict{
			Status:      model.StatusUnverifiable,
			Explanation: fmt.Sprintf("Could not verify: %s: %v", reason, err),
			Sources:     []string{},
		},
	}
}

// failedReport builds the terminal report for a run that aborted before any
// claim could be judged.
func failedReport(subject string, doc model.Document, err error) *model.Report {
	return &model.Report{
		Subject:   subject,
		Document:  doc,
		CheckedAt: time.Now().UTC(),
		Results:   []model.ClaimResult{},
		Failed:    true,
		Error:     err.Error(),
	}
}

// claimJob is the unit of work for one claim on the worker pool
type claimJob struct {
	pipeline *Pipeline
	claim    model.Claim
}

// Execute runs the job
func (j *claimJob) Execute(ctx context.Context) worker.Result {
	result, err := j.pipeline.checkClaim(ctx, j.claim)
	return &claimJobResult{result: result, err: err}
}

// claimJobResult carries one claim's outcome off the pool. err records a
// degraded claim's underlying failure; the result itself is always valid.
type claimJobResult struct {
	result model.ClaimResult
	err    error
}

// GetError returns the underlying failure, if any
func (r *claimJobResult) GetError() error { return r.err }
