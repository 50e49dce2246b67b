package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/claimlens/claimlens/internal/model"
)

// Renderer writes reports to JSON and Markdown files and prints a summary
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a new renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the report as indented JSON
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	return nil
}

// RenderMarkdown writes the report as a Markdown document
func (r *Renderer) RenderMarkdown(report *model.Report, path string) error {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Fact Check: %s\n\n", report.Subject)
	fmt.Fprintf(&sb, "Checked: %s\n\n", report.CheckedAt.Format("2006-01-02 15:04 UTC"))

	if report.Failed {
		fmt.Fprintf(&sb, "**Run failed:** %s\n", report.Error)
		return os.WriteFile(path, []byte(sb.String()), 0o644)
	}

	fmt.Fprintf(&sb, "| Verdict | Count |\n|---|---|\n")
	fmt.Fprintf(&sb, "| ✅ Verified | %d |\n", report.Summary.Verified)
	fmt.Fprintf(&sb, "| ⚠️ Inaccurate | %d |\n", report.Summary.Inaccurate)
	fmt.Fprintf(&sb, "| ❌ False | %d |\n", report.Summary.False)
	fmt.Fprintf(&sb, "| ❓ Unverifiable | %d |\n\n", report.Summary.Unverifiable)

	for _, res := range report.Results {
		fmt.Fprintf(&sb, "## %s %s\n\n", verdictEmoji(res.Verdict.Status), res.Claim.Text)
		fmt.Fprintf(&sb, "**Status:** %s\n\n", res.Verdict.Status)
		fmt.Fprintf(&sb, "**Finding:** %s\n\n", res.Verdict.Explanation)
		if len(res.Verdict.Sources) > 0 {
			fmt.Fprintf(&sb, "**Sources:**\n")
			for _, src := range res.Verdict.Sources {
				fmt.Fprintf(&sb, "- %s\n", src)
			}
			fmt.Fprintf(&sb, "\n")
		}
		for _, v := range res.Validation {
			if !v.IsAccessible {
				fmt.Fprintf(&sb, "> ⚠ cited source not accessible: %s (%s)\n\n", v.URL, validationNote(v))
			}
		}
	}

	if r.includeFooter {
		fmt.Fprintf(&sb, "---\n\nGenerated by claimlens. Verdicts describe how well claims are supported by retrieved evidence.\n")
	}

	return os.WriteFile(path, []byte(sb.String()), 0o644)
}

// RenderSummary prints a short run summary to w
func (r *Renderer) RenderSummary(report *model.Report, w io.Writer) {
	if report.Failed {
		fmt.Fprintf(w, "✗ %s: %s\n", report.Subject, report.Error)
		return
	}

	fmt.Fprintf(w, "\n%s - %d claims checked\n", report.Subject, report.Summary.Total)
	fmt.Fprintf(w, "  ✅ Verified:     %d\n", report.Summary.Verified)
	fmt.Fprintf(w, "  ⚠️  Inaccurate:   %d\n", report.Summary.Inaccurate)
	fmt.Fprintf(w, "  ❌ False:        %d\n", report.Summary.False)
	fmt.Fprintf(w, "  ❓ Unverifiable: %d\n", report.Summary.Unverifiable)
}

func verdictEmoji(status model.VerdictStatus) string {
	switch status {
	case model.StatusVerified:
		return "✅"
	case model.StatusInaccurate:
		return "⚠️"
	case model.StatusFalse:
		return "❌"
	default:
		return "❓"
	}
}

func validationNote(v model.SourceValidation) string {
	if v.Error != "" {
		return v.Error
	}
	return fmt.Sprintf("HTTP %d", v.StatusCode)
}
