// Package extract turns document text into a list of discrete, checkable
// claims via one completion call. The model is instructed to return a strict
// JSON array; anything that fails to parse is surfaced as an extraction
// error rather than being mistaken for "no claims".
package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/claimlens/claimlens/internal/llm"
	"github.com/claimlens/claimlens/internal/model"
)

const extractorSystem = "You are a precise claim extractor. Return only valid JSON."

// extractSleepFunc is the sleep function used before a retry (injectable for tests)
var extractSleepFunc = time.Sleep

// ClaimExtractor extracts verifiable claims from document text
type ClaimExtractor struct {
	provider  llm.Provider
	maxClaims int
	maxChars  int
}

// NewClaimExtractor creates a new claim extractor
func NewClaimExtractor(provider llm.Provider, cfg model.ExtractConfig) *ClaimExtractor {
	maxChars := cfg.MaxDocumentChars
	if maxChars <= 0 {
		maxChars = 8000
	}

	return &ClaimExtractor{
		provider:  provider,
		maxClaims: cfg.MaxClaims,
		maxChars:  maxChars,
	}
}

// claimEntry is the wire shape of one extracted claim
type claimEntry struct {
	Claim string `json:"claim"`
}

// Extract enumerates checkable factual assertions in the document text.
// An empty list is a legitimate result for documents with nothing to check.
func (e *ClaimExtractor) Extract(ctx context.Context, text string) ([]model.Claim, error) {
	if strings.TrimSpace(text) == "" {
		return nil, model.NewExtractionError("document text is empty", 0, nil)
	}

	resp, err := e.complete(ctx, llm.CompletionRequest{
		System:      extractorSystem,
		Prompt:      buildExtractionPrompt(text, e.maxChars),
		Temperature: 0.3,
	})
	if err != nil {
		return nil, model.NewExtractionError("completion call failed", 0, err)
	}

	entries, err := parseClaimList(resp.Content)
	if err != nil {
		return nil, model.NewExtractionError("unparsable extraction response", 0, err)
	}

	var claims []model.Claim
	for _, entry := range entries {
		claimText := strings.TrimSpace(entry.Claim)
		if claimText == "" {
			continue
		}
		claims = append(claims, model.Claim{
			Text:    claimText,
			Ordinal: len(claims),
		})
		if e.maxClaims > 0 && len(claims) >= e.maxClaims {
			break
		}
	}

	return claims, nil
}

// complete issues the completion call, retrying once on a transient failure
func (e *ClaimExtractor) complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	resp, err := e.provider.Complete(ctx, req)
	if err == nil || ctx.Err() != nil || !llm.IsTransient(err) {
		return resp, err
	}
	extractSleepFunc(time.Second)
	return e.provider.Complete(ctx, req)
}

// buildExtractionPrompt constructs the extraction instruction over (possibly
// truncated) document text.
func buildExtractionPrompt(text string, maxChars int) string {
	if len(text) > maxChars {
		text = text[:maxChars]
	}

	return fmt.Sprintf(`Analyze this document and extract ONLY specific, verifiable factual claims.
Focus on:
- Statistics and percentages
- Dates and timelines
- Financial figures (prices, revenues, market caps, GDP)
- Technical specifications
- Quantifiable statements

Return ONLY a JSON array of claims, nothing else. No markdown, no explanations.
Format: [{"claim": "specific claim here"}, ...]

Document:
%s`, text)
}

// parseClaimList validates the raw model output against the expected shape.
// A bare JSON array of objects with a "claim" string field is required;
// surrounding markdown fences are tolerated and stripped.
func parseClaimList(raw string) ([]claimEntry, error) {
	cleaned := llm.StripCodeFence(raw)
	if cleaned == "" {
		return nil, fmt.Errorf("empty response")
	}

	var entries []claimEntry
	if err := json.Unmarshal([]byte(cleaned), &entries); err != nil {
		return nil, fmt.Errorf("expected JSON array of claims: %w", err)
	}

	return entries, nil
}
