package model

import "time"

// Report is the terminal artifact of one check run: the document identity
// plus the ordered sequence of judged claims. Claim order always matches
// extraction order regardless of how verification was scheduled.
type Report struct {
	Subject   string    `json:"subject"`
	Document  Document  `json:"document"`
	CheckedAt time.Time `json:"checked_at"`

	Results []ClaimResult `json:"results"`
	Summary Summary       `json:"summary"`

	// Failed is set when the run aborted before any claim could be judged
	// (unreadable document, extraction failure). Results is empty then.
	Failed bool   `json:"failed,omitempty"`
	Error  string `json:"error,omitempty"`
}

// ClaimResult pairs a claim with its verdict and the evidence that was
// considered. Exactly one verdict per claim.
type ClaimResult struct {
	Claim    Claim          `json:"claim"`
	Evidence []EvidenceItem `json:"evidence"`
	Verdict  Verdict        `json:"verdict"`

	// Validation holds accessibility probes of the cited sources when
	// source validation is enabled. Diagnostic only.
	Validation []SourceValidation `json:"validation,omitempty"`
}

// Summary aggregates verdict counts for one run.
type Summary struct {
	Total        int `json:"total"`
	Verified     int `json:"verified"`
	Inaccurate   int `json:"inaccurate"`
	False        int `json:"false"`
	Unverifiable int `json:"unverifiable"`
}

// Summarize recomputes the summary counts from the result list.
func (r *Report) Summarize() {
	s := Summary{Total: len(r.Results)}
	for _, res := range r.Results {
		switch res.Verdict.Status {
		case StatusVerified:
			s.Verified++
		case StatusInaccurate:
			s.Inaccurate++
		case StatusFalse:
			s.False++
		case StatusUnverifiable:
			s.Unverifiable++
		}
	}
	r.Summary = s
}
