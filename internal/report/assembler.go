package report

import (
	"fmt"

	"github.com/verilex/verilex/internal/model"
)

// Assembler writes the executive summary and recommendations onto a terminal
// record. It reads the findings and never alters them: the score, risks and
// compliance items it describes are exactly what the scoring stage produced.
type Assembler struct{}

// NewAssembler creates an assembler
func NewAssembler() *Assembler {
	return &Assembler{}
}

// Assemble fills Summary and Recommendations from the record's findings
func (a *Assembler) Assemble(record *model.VerificationRecord) {
	record.Summary = a.summary(record)
	record.Recommendations = a.recommendations(record)
}

func (a *Assembler) summary(record *model.VerificationRecord) string {
	critical, high := 0, 0
	for _, risk := range record.Risks {
		switch risk.Severity {
		case model.SeverityCritical:
			critical++
		case model.SeverityHigh:
			high++
		}
	}

	gaps := 0
	for _, item := range record.ComplianceItems {
		if item.Status != model.ComplianceMet {
			gaps++
		}
	}

	return fmt.Sprintf(
		"%s risk (%.1f/100): %d risk items identified (%d critical, %d high), %d compliance gaps, %d renewal dates tracked.",
		record.RiskLevel, record.OverallRiskScore, len(record.Risks), critical, high, gaps, len(record.RenewalDates))
}

// recommendations collects the highest-priority mitigations, worst first
func (a *Assembler) recommendations(record *model.VerificationRecord) []string {
	var recs []string
	seen := map[string]bool{}

	for _, severity := range []model.Severity{model.SeverityCritical, model.SeverityHigh, model.SeverityMedium} {
		for _, risk := range record.Risks {
			if risk.Severity != severity || risk.Mitigation == "" || seen[risk.Mitigation] {
				continue
			}
			seen[risk.Mitigation] = true
			recs = append(recs, risk.Mitigation)
		}
	}

	if len(recs) > 5 {
		recs = recs[:5]
	}
	if len(recs) == 0 && record.PipelineStatus != model.StatusFailed {
		recs = append(recs, "No action required; schedule the next periodic verification.")
	}
	return recs
}
