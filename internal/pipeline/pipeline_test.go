package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/claimlens/claimlens/internal/extract"
	"github.com/claimlens/claimlens/internal/llm"
	"github.com/claimlens/claimlens/internal/loader"
	"github.com/claimlens/claimlens/internal/model"
	"github.com/claimlens/claimlens/internal/search"
	"github.com/claimlens/claimlens/internal/verify"
)

// fakeProvider serves both extraction and verification calls, routed on the
// system message.
type fakeProvider struct {
	extractContent string
	extractErr     error

	// verifyContent maps claim text to the raw verification response
	verifyContent map[string]string
	verifyErr     error
}

func (f *fakeProvider) Name() string                         { return "fake" }
func (f *fakeProvider) IsAvailable(ctx context.Context) bool { return true }

func (f *fakeProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	if strings.Contains(req.System, "claim extractor") {
		if f.extractErr != nil {
			return nil, f.extractErr
		}
		return &llm.CompletionResponse{Content: f.extractContent}, nil
	}

	if f.verifyErr != nil {
		return nil, f.verifyErr
	}
	for claim, content := range f.verifyContent {
		if strings.Contains(req.Prompt, claim) {
			return &llm.CompletionResponse{Content: content}, nil
		}
	}
	return &llm.CompletionResponse{Content: `{"status": "Unverifiable", "explanation": "no match", "sources": []}`}, nil
}

// fakeSearcher returns evidence per claim text, with an optional delay per
// query to exercise out-of-order completion.
type fakeSearcher struct {
	evidence map[string][]model.EvidenceItem
	errs     map[string]error
	delays   map[string]time.Duration
}

func (f *fakeSearcher) Search(ctx context.Context, query string, maxResults int) ([]model.EvidenceItem, error) {
	if d, ok := f.delays[query]; ok {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err, ok := f.errs[query]; ok {
		return nil, err
	}
	return f.evidence[query], nil
}

func newTestPipeline(provider llm.Provider, searcher search.Searcher, workers int) *Pipeline {
	return &Pipeline{
		loader:    loader.NewLoader(),
		extractor: extract.NewClaimExtractor(provider, model.ExtractConfig{MaxDocumentChars: 8000}),
		retriever: search.NewRetriever(searcher, search.RetrieverOptions{MaxResults: 5}),
		verifier:  verify.NewVerifier(provider),
		workers:   workers,
	}
}

const revenueDoc = "Revenue grew 40% in 2023, reaching $2 billion."

func revenueProvider() *fakeProvider {
	return &fakeProvider{
		extractContent: `[{"claim": "Revenue grew 40% in 2023"}, {"claim": "Revenue reached $2 billion"}]`,
		verifyContent: map[string]string{
			"Revenue grew 40% in 2023":   `{"status": "Verified", "explanation": "Confirmed by filings.", "sources": ["https://example.com/growth"]}`,
			"Revenue reached $2 billion": `{"status": "Inaccurate", "explanation": "Revenue was $1.9 billion.", "sources": ["https://example.com/revenue"]}`,
		},
	}
}

func revenueSearcher() *fakeSearcher {
	return &fakeSearcher{
		evidence: map[string][]model.EvidenceItem{
			"Revenue grew 40% in 2023": {
				{URL: "https://example.com/growth", Snippet: "40% growth confirmed", Score: 0.9, Rank: 0},
			},
			"Revenue reached $2 billion": {
				{URL: "https://example.com/revenue", Snippet: "revenue was $1.9B", Score: 0.8, Rank: 0},
			},
		},
	}
}

func TestPipeline_RevenueScenario(t *testing.T) {
	p := newTestPipeline(revenueProvider(), revenueSearcher(), 2)

	report, err := p.CheckBytes(context.Background(), "report.txt", []byte(revenueDoc))
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}

	if report.Failed {
		t.Fatal("Expected successful run")
	}
	if len(report.Results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(report.Results))
	}
	if report.Results[0].Claim.Text != "Revenue grew 40% in 2023" {
		t.Errorf("Unexpected first claim: %q", report.Results[0].Claim.Text)
	}
	if report.Results[0].Verdict.Status != model.StatusVerified {
		t.Errorf("Expected Verified, got %s", report.Results[0].Verdict.Status)
	}
	if report.Results[1].Verdict.Status != model.StatusInaccurate {
		t.Errorf("Expected Inaccurate, got %s", report.Results[1].Verdict.Status)
	}
	if report.Summary.Total != 2 || report.Summary.Verified != 1 || report.Summary.Inaccurate != 1 {
		t.Errorf("Unexpected summary: %+v", report.Summary)
	}
}

func TestPipeline_OrderPreservedUnderConcurrency(t *testing.T) {
	claims := make([]string, 8)
	entries := make([]string, 8)
	evidence := make(map[string][]model.EvidenceItem, 8)
	verdicts := make(map[string]string, 8)
	delays := make(map[string]time.Duration, 8)

	for i := range claims {
		claims[i] = fmt.Sprintf("claim number %d", i)
		entries[i] = fmt.Sprintf(`{"claim": "%s"}`, claims[i])
		evidence[claims[i]] = []model.EvidenceItem{{URL: fmt.Sprintf("https://example.com/%d", i), Snippet: "snippet"}}
		verdicts[claims[i]] = fmt.Sprintf(`{"status": "Verified", "explanation": "ok", "sources": ["https://example.com/%d"]}`, i)
		// Earlier claims finish later
		delays[claims[i]] = time.Duration(len(claims)-i) * 10 * time.Millisecond
	}

	provider := &fakeProvider{
		extractContent: "[" + strings.Join(entries, ", ") + "]",
		verifyContent:  verdicts,
	}
	searcher := &fakeSearcher{evidence: evidence, delays: delays}

	p := newTestPipeline(provider, searcher, 4)
	report, err := p.CheckBytes(context.Background(), "doc.txt", []byte("text with many claims"))
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}

	if len(report.Results) != len(claims) {
		t.Fatalf("Expected %d results, got %d", len(claims), len(report.Results))
	}
	for i, res := range report.Results {
		if res.Claim.Ordinal != i {
			t.Errorf("Result %d has ordinal %d", i, res.Claim.Ordinal)
		}
		if res.Claim.Text != claims[i] {
			t.Errorf("Result %d: expected %q, got %q", i, claims[i], res.Claim.Text)
		}
	}
}

func TestPipeline_Idempotent(t *testing.T) {
	run := func() []model.ClaimResult {
		p := newTestPipeline(revenueProvider(), revenueSearcher(), 4)
		report, err := p.CheckBytes(context.Background(), "report.txt", []byte(revenueDoc))
		if err != nil {
			t.Fatalf("Check failed: %v", err)
		}
		return report.Results
	}

	first, _ := json.Marshal(run())
	second, _ := json.Marshal(run())
	if string(first) != string(second) {
		t.Errorf("Expected identical results across runs:\n%s\n%s", first, second)
	}
}

func TestPipeline_ZeroClaimsSucceeds(t *testing.T) {
	provider := &fakeProvider{extractContent: `[]`}
	p := newTestPipeline(provider, &fakeSearcher{}, 2)

	report, err := p.CheckBytes(context.Background(), "opinion.txt", []byte("Nothing checkable here."))
	if err != nil {
		t.Fatalf("Expected success for zero claims, got %v", err)
	}
	if report.Failed {
		t.Error("Expected run not marked failed")
	}
	if len(report.Results) != 0 || report.Summary.Total != 0 {
		t.Errorf("Expected empty report, got %+v", report.Summary)
	}
}

func TestPipeline_ExtractionFailureAbortsRun(t *testing.T) {
	provider := &fakeProvider{extractContent: "not json at all"}
	p := newTestPipeline(provider, &fakeSearcher{}, 2)

	report, err := p.CheckBytes(context.Background(), "doc.txt", []byte("some text"))
	if err == nil {
		t.Fatal("Expected error, got nil")
	}
	if !errors.Is(err, model.ErrExtractionService) {
		t.Errorf("Expected ErrExtractionService, got %v", err)
	}
	if report == nil || !report.Failed {
		t.Fatal("Expected failed report")
	}
	if len(report.Results) != 0 {
		t.Errorf("Expected empty results in failed report, got %d", len(report.Results))
	}
}

func TestPipeline_UnreadableDocumentAbortsRun(t *testing.T) {
	p := newTestPipeline(&fakeProvider{}, &fakeSearcher{}, 2)

	report, err := p.CheckBytes(context.Background(), "empty.txt", nil)
	if !errors.Is(err, model.ErrUnreadableDocument) {
		t.Errorf("Expected ErrUnreadableDocument, got %v", err)
	}
	if report == nil || !report.Failed {
		t.Fatal("Expected failed report")
	}
}

func TestPipeline_NoEvidenceMeansUnverifiable(t *testing.T) {
	provider := &fakeProvider{
		extractContent: `[{"claim": "An obscure claim"}]`,
		// Verifier must not be consulted, but give it a trap response anyway
		verifyContent: map[string]string{
			"An obscure claim": `{"status": "Verified", "explanation": "trap", "sources": []}`,
		},
	}
	searcher := &fakeSearcher{evidence: map[string][]model.EvidenceItem{}}

	p := newTestPipeline(provider, searcher, 1)
	report, err := p.CheckBytes(context.Background(), "doc.txt", []byte("text"))
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}

	res := report.Results[0]
	if res.Verdict.Status != model.StatusUnverifiable {
		t.Errorf("Expected Unverifiable, got %s", res.Verdict.Status)
	}
	if !strings.Contains(strings.ToLower(res.Verdict.Explanation), "no evidence") {
		t.Errorf("Expected explanation to mention missing evidence, got %q", res.Verdict.Explanation)
	}
	if len(res.Verdict.Sources) != 0 {
		t.Errorf("Expected no sources, got %v", res.Verdict.Sources)
	}
}

func TestPipeline_TimeoutKeepsEveryClaimInReport(t *testing.T) {
	claims := make([]string, 8)
	entries := make([]string, 8)
	evidence := make(map[string][]model.EvidenceItem, 8)
	verdicts := make(map[string]string, 8)
	delays := make(map[string]time.Duration, 8)

	for i := range claims {
		claims[i] = fmt.Sprintf("claim number %d", i)
		entries[i] = fmt.Sprintf(`{"claim": "%s"}`, claims[i])
		evidence[claims[i]] = []model.EvidenceItem{{URL: fmt.Sprintf("https://example.com/%d", i), Snippet: "snippet"}}
		verdicts[claims[i]] = fmt.Sprintf(`{"status": "Verified", "explanation": "ok", "sources": ["https://example.com/%d"]}`, i)
		// Only the first claim finishes before the deadline
		if i == 0 {
			delays[claims[i]] = 10 * time.Millisecond
		} else {
			delays[claims[i]] = 10 * time.Second
		}
	}

	provider := &fakeProvider{
		extractContent: "[" + strings.Join(entries, ", ") + "]",
		verifyContent:  verdicts,
	}
	searcher := &fakeSearcher{evidence: evidence, delays: delays}

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	p := newTestPipeline(provider, searcher, 1)
	report, err := p.CheckBytes(ctx, "doc.txt", []byte("text with many claims"))
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}

	// Every extracted claim appears even though the deadline stopped the
	// workers; unjudged claims are degraded, never dropped.
	if len(report.Results) != len(claims) {
		t.Fatalf("Expected %d results, got %d", len(claims), len(report.Results))
	}
	if report.Failed {
		t.Error("Expected run not marked failed")
	}
	if report.Summary.Total != len(claims) {
		t.Errorf("Expected summary over all claims, got %d", report.Summary.Total)
	}
	if report.Results[0].Verdict.Status != model.StatusVerified {
		t.Errorf("Expected completed claim Verified, got %s", report.Results[0].Verdict.Status)
	}

	interrupted := 0
	for i, res := range report.Results[1:] {
		if res.Claim.Ordinal != i+1 {
			t.Errorf("Result %d has ordinal %d", i+1, res.Claim.Ordinal)
		}
		if res.Verdict.Status != model.StatusUnverifiable {
			t.Errorf("Expected unjudged claim Unverifiable, got %s", res.Verdict.Status)
		}
		if strings.Contains(res.Verdict.Explanation, "run interrupted") {
			interrupted++
		}
	}
	if interrupted == 0 {
		t.Error("Expected at least one claim recorded as interrupted")
	}
}

func TestPipeline_RetrievalFailureDegradesSingleClaim(t *testing.T) {
	provider := &fakeProvider{
		extractContent: `[{"claim": "claim one"}, {"claim": "claim two"}]`,
		verifyContent: map[string]string{
			"claim one": `{"status": "Verified", "explanation": "ok", "sources": ["https://example.com/1"]}`,
		},
	}
	searcher := &fakeSearcher{
		evidence: map[string][]model.EvidenceItem{
			"claim one": {{URL: "https://example.com/1", Snippet: "s"}},
		},
		errs: map[string]error{
			"claim two": model.NewRetrievalError("search unavailable", 503, nil),
		},
	}

	p := newTestPipeline(provider, searcher, 2)
	report, err := p.CheckBytes(context.Background(), "doc.txt", []byte("text"))
	if err != nil {
		t.Fatalf("Expected run to survive per-claim failure, got %v", err)
	}

	if len(report.Results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(report.Results))
	}
	if report.Results[0].Verdict.Status != model.StatusVerified {
		t.Errorf("Expected first claim Verified, got %s", report.Results[0].Verdict.Status)
	}
	degraded := report.Results[1]
	if degraded.Verdict.Status != model.StatusUnverifiable {
		t.Errorf("Expected degraded claim Unverifiable, got %s", degraded.Verdict.Status)
	}
	if !strings.Contains(degraded.Verdict.Explanation, "Could not verify") {
		t.Errorf("Expected lookup-failure explanation, got %q", degraded.Verdict.Explanation)
	}
}
