// Package verify classifies one claim at a time against its gathered
// evidence. The verdict enumeration is closed and two invariants are
// enforced here rather than trusted to the model: a claim with no evidence
// is always Unverifiable, and cited sources are always a subset of the
// claim's own evidence URLs.
package verify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/claimlens/claimlens/internal/llm"
	"github.com/claimlens/claimlens/internal/model"
)

const verifierSystem = "You are a fact checker. Return only valid JSON."

// verifySleepFunc is the sleep function used before a retry (injectable for tests)
var verifySleepFunc = time.Sleep

// Verifier judges claims against evidence via one completion call per claim
type Verifier struct {
	provider llm.Provider
}

// NewVerifier creates a new claim verifier
func NewVerifier(provider llm.Provider) *Verifier {
	return &Verifier{provider: provider}
}

// verdictEntry is the wire shape of the verification response
type verdictEntry struct {
	Status      string   `json:"status"`
	Explanation string   `json:"explanation"`
	Sources     []string `json:"sources"`
}

// Verify produces exactly one verdict for the claim. Empty evidence short
// circuits to Unverifiable without a completion call.
func (v *Verifier) Verify(ctx context.Context, claim model.Claim, evidence []model.EvidenceItem) (model.Verdict, error) {
	if len(evidence) == 0 {
		return model.Verdict{
			Status:      model.StatusUnverifiable,
			Explanation: "No evidence was found for this claim; web search returned no results.",
			Sources:     []string{},
		}, nil
	}

	resp, err := v.complete(ctx, llm.CompletionRequest{
		System:      verifierSystem,
		Prompt:      buildVerificationPrompt(claim, evidence),
		Temperature: 0.3,
	})
	if err != nil {
		return model.Verdict{}, model.NewVerificationError("completion call failed", 0, err)
	}

	entry, err := parseVerdict(resp.Content)
	if err != nil {
		return model.Verdict{}, model.NewVerificationError("unparsable verification response", 0, err)
	}

	status, err := model.ParseVerdictStatus(entry.Status)
	if err != nil {
		return model.Verdict{}, model.NewVerificationError("invalid verdict status", 0, err)
	}

	return model.Verdict{
		Status:      status,
		Explanation: strings.TrimSpace(entry.Explanation),
		Sources:     filterCited(entry.Sources, evidence),
	}, nil
}

// complete issues the completion call, retrying once on a transient failure
func (v *Verifier) complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	resp, err := v.provider.Complete(ctx, req)
	if err == nil || ctx.Err() != nil || !llm.IsTransient(err) {
		return resp, err
	}
	verifySleepFunc(time.Second)
	return v.provider.Complete(ctx, req)
}

// buildVerificationPrompt lays out the claim and its evidence snippets with
// the classification instruction.
func buildVerificationPrompt(claim model.Claim, evidence []model.EvidenceItem) string {
	var context strings.Builder
	for i, ev := range evidence {
		if i > 0 {
			context.WriteString("\n\n")
		}
		fmt.Fprintf(&context, "Source: %s\n%s", ev.URL, ev.Snippet)
	}

	return fmt.Sprintf(`Given this claim and web search results, determine if the claim is:
- "Verified" (accurate based on current data)
- "Inaccurate" (outdated or slightly wrong)
- "False" (contradicts evidence)
- "Unverifiable" (evidence does not address the claim)

Claim: %s

Search Results:
%s

Return ONLY a JSON object, no markdown, no explanations:
{
    "status": "Verified/Inaccurate/False/Unverifiable",
    "explanation": "brief explanation with specific facts",
    "sources": ["url1", "url2"]
}`, claim.Text, context.String())
}

// parseVerdict validates the raw model output against the expected shape
func parseVerdict(raw string) (*verdictEntry, error) {
	cleaned := llm.StripCodeFence(raw)
	if cleaned == "" {
		return nil, fmt.Errorf("empty response")
	}

	var entry verdictEntry
	if err := json.Unmarshal([]byte(cleaned), &entry); err != nil {
		return nil, fmt.Errorf("expected JSON verdict object: %w", err)
	}
	if entry.Status == "" {
		return nil, fmt.Errorf("missing status field")
	}

	return &entry, nil
}

// filterCited keeps only cited URLs that actually appear in the evidence,
// preserving citation order.
func filterCited(cited []string, evidence []model.EvidenceItem) []string {
	allowed := make(map[string]bool, len(evidence))
	for _, ev := range evidence {
		allowed[ev.URL] = true
	}

	kept := make([]string, 0, len(cited))
	seen := make(map[string]bool)
	for _, url := range cited {
		url = strings.TrimSpace(url)
		if allowed[url] && !seen[url] {
			seen[url] = true
			kept = append(kept, url)
		}
	}
	return kept
}
