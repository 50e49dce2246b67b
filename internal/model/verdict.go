package model

import (
	"fmt"
	"strings"
)

// VerdictStatus is the fixed classification outcome for a claim.
type VerdictStatus string

const (
	StatusVerified     VerdictStatus = "Verified"     // Accurate based on current evidence
	StatusInaccurate   VerdictStatus = "Inaccurate"   // Outdated or slightly wrong
	StatusFalse        VerdictStatus = "False"        // Contradicted by evidence
	StatusUnverifiable VerdictStatus = "Unverifiable" // No evidence available to judge
)

// ParseVerdictStatus maps raw service output onto the enumeration.
// Matching is case-insensitive; anything outside the enumeration is an error.
func ParseVerdictStatus(s string) (VerdictStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "verified":
		return StatusVerified, nil
	case "inaccurate":
		return StatusInaccurate, nil
	case "false":
		return StatusFalse, nil
	case "unverifiable":
		return StatusUnverifiable, nil
	default:
		return "", fmt.Errorf("unknown verdict status: %q", s)
	}
}

// Verdict is the judgment attached 1:1 to a claim.
type Verdict struct {
	Status      VerdictStatus `json:"status"`
	Explanation string        `json:"explanation"`
	// Sources cites the evidence URLs supporting the explanation.
	// Always a subset of the claim's own evidence URLs.
	Sources []string `json:"sources"`
}
