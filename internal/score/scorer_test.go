package score

import (
	"math"
	"testing"

	"github.com/verilex/verilex/internal/model"
	"github.com/verilex/verilex/internal/rules"
)

func testScorer() *Scorer {
	return NewScorer(model.DefaultConfig().Scoring)
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestScorer_NoFindings(t *testing.T) {
	assessment := testScorer().Calculate(nil, nil, nil)

	if assessment.OverallScore != 0 {
		t.Errorf("Expected score 0, got %v", assessment.OverallScore)
	}
	if assessment.Level != model.RiskLow {
		t.Errorf("Expected low risk level, got %s", assessment.Level)
	}
	if len(assessment.Risks) != 0 {
		t.Errorf("Expected no risks, got %d", len(assessment.Risks))
	}
}

func TestScorer_CriticalDeadlineAlone(t *testing.T) {
	renewals := []model.RenewalDate{
		{Description: "Contract renewal", DaysUntil: 5, UrgencyLevel: model.SeverityCritical},
	}

	assessment := testScorer().Calculate(renewals, nil, nil)

	if !almostEqual(assessment.OverallScore, 40) {
		t.Errorf("Expected score 40 from a critical deadline, got %v", assessment.OverallScore)
	}
	if assessment.Level != model.RiskMedium {
		t.Errorf("Expected medium risk level at 40, got %s", assessment.Level)
	}
	if len(assessment.Risks) != 1 {
		t.Fatalf("Expected 1 deadline risk, got %d", len(assessment.Risks))
	}

	risk := assessment.Risks[0]
	if risk.Category != model.RiskCategoryDeadline {
		t.Errorf("Expected deadline category, got %s", risk.Category)
	}
	if risk.Severity != model.SeverityCritical {
		t.Errorf("Expected critical severity, got %s", risk.Severity)
	}
	if !almostEqual(risk.ContributionScore, 40) {
		t.Errorf("Expected contribution 40, got %v", risk.ContributionScore)
	}
	if risk.Mitigation == "" {
		t.Error("Expected a mitigation suggestion")
	}
}

func TestScorer_ObligationStatuses(t *testing.T) {
	tests := []struct {
		name   string
		status model.ObligationStatus
		want   float64
	}{
		{"overdue", model.ObligationOverdue, 30},
		{"unclear", model.ObligationUnclear, 15},
		{"pending", model.ObligationPending, 12},
		{"met", model.ObligationMet, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obligations := []model.Obligation{
				{ID: "o1", Requirement: "deliver report", Status: tt.status},
			}
			assessment := testScorer().Calculate(nil, obligations, nil)
			if !almostEqual(assessment.OverallScore, tt.want) {
				t.Errorf("Expected score %v for %s obligation, got %v", tt.want, tt.status, assessment.OverallScore)
			}
		})
	}
}

func TestScorer_MissingComplianceEscalatesSeverity(t *testing.T) {
	items := []model.ComplianceItem{
		{RegulationID: "reg-gdpr", Requirement: "GDPR compliance", Status: model.ComplianceMissing, Severity: model.SeverityHigh},
	}

	assessment := testScorer().Calculate(nil, nil, items)

	if !almostEqual(assessment.OverallScore, 24) {
		t.Errorf("Expected score 24 for missing high-severity item, got %v", assessment.OverallScore)
	}
	if len(assessment.Risks) != 1 {
		t.Fatalf("Expected 1 compliance risk, got %d", len(assessment.Risks))
	}
	if assessment.Risks[0].Severity != model.SeverityCritical {
		t.Errorf("Expected missing high item to escalate to critical, got %s", assessment.Risks[0].Severity)
	}
	if assessment.Risks[0].Category != model.RiskCategoryCompliance {
		t.Errorf("Expected compliance category, got %s", assessment.Risks[0].Category)
	}
}

func TestScorer_ExpiredWeighsLessThanMissing(t *testing.T) {
	scorer := testScorer()

	missing := scorer.Calculate(nil, nil, []model.ComplianceItem{
		{RegulationID: "cert-soc2", Status: model.ComplianceMissing, Severity: model.SeverityHigh},
	})
	expired := scorer.Calculate(nil, nil, []model.ComplianceItem{
		{RegulationID: "cert-soc2", Status: model.ComplianceExpired, Severity: model.SeverityHigh},
	})

	if !almostEqual(expired.OverallScore, 18) {
		t.Errorf("Expected 18 for expired high item, got %v", expired.OverallScore)
	}
	if expired.OverallScore >= missing.OverallScore {
		t.Errorf("Expected expired (%v) to score below missing (%v)", expired.OverallScore, missing.OverallScore)
	}
	// Expired items keep their penalty severity, no escalation
	if expired.Risks[0].Severity != model.SeverityHigh {
		t.Errorf("Expected expired item severity high, got %s", expired.Risks[0].Severity)
	}
}

func TestScorer_DeadlineItemsExcludedFromPenalty(t *testing.T) {
	items := []model.ComplianceItem{
		{RegulationID: rules.DeadlineRegulationID, Status: model.ComplianceMissing, Severity: model.SeverityCritical},
	}

	assessment := testScorer().Calculate(nil, nil, items)

	if assessment.OverallScore != 0 {
		t.Errorf("Expected deadline-derived items to add no penalty, got score %v", assessment.OverallScore)
	}
	if len(assessment.Risks) != 0 {
		t.Errorf("Expected no compliance risks from deadline items, got %d", len(assessment.Risks))
	}
}

func TestScorer_MultipleGapsEscalate(t *testing.T) {
	two := []model.ComplianceItem{
		{RegulationID: "reg-gdpr", Status: model.ComplianceMissing, Severity: model.SeverityHigh},
		{RegulationID: "reg-dpa", Status: model.ComplianceMissing, Severity: model.SeverityHigh},
	}

	assessment := testScorer().Calculate(nil, nil, two)

	// max 0.8 plus 0.15 for the second gap, weighted by 30
	if !almostEqual(assessment.OverallScore, 28.5) {
		t.Errorf("Expected 28.5 for two missing high items, got %v", assessment.OverallScore)
	}
}

func TestScorer_TermsAreClamped(t *testing.T) {
	var items []model.ComplianceItem
	for i := 0; i < 10; i++ {
		items = append(items, model.ComplianceItem{
			RegulationID: "reg", Status: model.ComplianceMissing, Severity: model.SeverityCritical,
		})
	}
	var obligations []model.Obligation
	for i := 0; i < 10; i++ {
		obligations = append(obligations, model.Obligation{Status: model.ObligationOverdue})
	}
	renewals := []model.RenewalDate{
		{Description: "overdue filing", DaysUntil: -200, UrgencyLevel: model.SeverityCritical},
	}

	assessment := testScorer().Calculate(renewals, obligations, items)

	if assessment.OverallScore != 100 {
		t.Errorf("Expected score capped at 100, got %v", assessment.OverallScore)
	}
	if assessment.Level != model.RiskCritical {
		t.Errorf("Expected critical level, got %s", assessment.Level)
	}
}

func TestScorer_ContributionsSumToTerms(t *testing.T) {
	renewals := []model.RenewalDate{
		{Description: "renewal A", DaysUntil: 3, UrgencyLevel: model.SeverityCritical},
		{Description: "renewal B", DaysUntil: 20, UrgencyLevel: model.SeverityHigh},
	}
	obligations := []model.Obligation{
		{Requirement: "notify counterparty", Status: model.ObligationOverdue},
		{Requirement: "deliver audit", Status: model.ObligationPending},
	}
	items := []model.ComplianceItem{
		{RegulationID: "reg-gdpr", Status: model.ComplianceMissing, Severity: model.SeverityHigh},
		{RegulationID: "cert-soc2", Status: model.ComplianceExpired, Severity: model.SeverityMedium},
	}

	assessment := testScorer().Calculate(renewals, obligations, items)

	var sum float64
	for _, risk := range assessment.Risks {
		sum += risk.ContributionScore
	}
	if !almostEqual(sum, assessment.OverallScore) {
		t.Errorf("Expected contributions to sum to %v, got %v", assessment.OverallScore, sum)
	}
}

func TestScorer_OverdueDeadlineDescription(t *testing.T) {
	renewals := []model.RenewalDate{
		{Description: "license renewal", DaysUntil: -10, UrgencyLevel: model.SeverityCritical},
	}

	assessment := testScorer().Calculate(renewals, nil, nil)

	if len(assessment.Risks) != 1 {
		t.Fatalf("Expected 1 risk, got %d", len(assessment.Risks))
	}
	desc := assessment.Risks[0].Description
	if desc != "Deadline overdue: license renewal, 10 days past" {
		t.Errorf("Unexpected overdue description: %q", desc)
	}
}
