package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/verilex/verilex/internal/model"
)

// Renderer writes verification records to report files and the terminal
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the record as indented JSON. Field names and enum
// spellings are the record's own; external consumers key off them.
func (r *Renderer) RenderJSON(record *model.VerificationRecord, path string) error {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write JSON report: %w", err)
	}
	return nil
}

// RenderMarkdown writes a human-readable report
func (r *Renderer) RenderMarkdown(record *model.VerificationRecord, path string) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# Verification Report: %s\n\n", record.DocumentID)
	fmt.Fprintf(&b, "- **Document type:** %s\n", record.DocumentType)
	fmt.Fprintf(&b, "- **Status:** %s\n", record.PipelineStatus)
	if record.PipelineStatus == model.StatusFailed {
		fmt.Fprintf(&b, "- **Failure reason:** %s\n", record.FailureReason)
	}
	fmt.Fprintf(&b, "- **Risk:** %s (%.1f/100)\n", record.RiskLevel, record.OverallRiskScore)
	if len(record.Parties) > 0 {
		fmt.Fprintf(&b, "- **Parties:** %s\n", strings.Join(record.Parties, "; "))
	}
	b.WriteString("\n")

	if record.Summary != "" {
		fmt.Fprintf(&b, "## Summary\n\n%s\n\n", record.Summary)
	}

	if len(record.RenewalDates) > 0 {
		b.WriteString("## Renewal Dates\n\n| Date | Description | Days Until | Urgency |\n|---|---|---|---|\n")
		for _, rd := range record.RenewalDates {
			fmt.Fprintf(&b, "| %s | %s | %d | %s |\n", rd.Date.Format("2006-01-02"), rd.Description, rd.DaysUntil, rd.UrgencyLevel)
		}
		b.WriteString("\n")
	}

	if len(record.Obligations) > 0 {
		b.WriteString("## Obligations\n\n| Requirement | Party | Status |\n|---|---|---|\n")
		for _, o := range record.Obligations {
			fmt.Fprintf(&b, "| %s | %s | %s |\n", o.Requirement, o.ResponsibleParty, o.Status)
		}
		b.WriteString("\n")
	}

	if len(record.ComplianceItems) > 0 {
		b.WriteString("## Compliance\n\n| Requirement | Status | Gap |\n|---|---|---|\n")
		for _, item := range record.ComplianceItems {
			fmt.Fprintf(&b, "| %s | %s | %s |\n", item.Requirement, item.Status, item.Gap)
		}
		b.WriteString("\n")
	}

	if len(record.Risks) > 0 {
		b.WriteString("## Risks\n\n")
		for _, risk := range record.Risks {
			fmt.Fprintf(&b, "- **[%s/%s]** %s (+%.1f)\n  - Mitigation: %s\n", risk.Category, risk.Severity, risk.Description, risk.ContributionScore, risk.Mitigation)
		}
		b.WriteString("\n")
	}

	if len(record.Recommendations) > 0 {
		b.WriteString("## Recommendations\n\n")
		for i, rec := range record.Recommendations {
			fmt.Fprintf(&b, "%d. %s\n", i+1, rec)
		}
		b.WriteString("\n")
	}

	if r.includeFooter {
		b.WriteString("---\n\nGenerated by verilex. Findings describe the document as analyzed; they are not legal advice.\n")
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write Markdown report: %w", err)
	}
	return nil
}

// RenderSummary prints a short result line for terminal use
func (r *Renderer) RenderSummary(w io.Writer, record *model.VerificationRecord) {
	switch record.PipelineStatus {
	case model.StatusFailed:
		fmt.Fprintf(w, "✗ %s: verification failed: %s\n", record.DocumentID, record.FailureReason)
	case model.StatusAwaitingReview:
		fmt.Fprintf(w, "⏸ %s: %s risk (%.1f/100), awaiting human review\n", record.DocumentID, record.RiskLevel, record.OverallRiskScore)
	default:
		fmt.Fprintf(w, "✓ %s: %s risk (%.1f/100), %d risks, %d compliance gaps\n",
			record.DocumentID, record.RiskLevel, record.OverallRiskScore, len(record.Risks), countGaps(record))
	}
}

func countGaps(record *model.VerificationRecord) int {
	gaps := 0
	for _, item := range record.ComplianceItems {
		if item.Status != model.ComplianceMet {
			gaps++
		}
	}
	return gaps
}
