package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/verilex/verilex/internal/model"
)

func sampleRecord() *model.VerificationRecord {
	return &model.VerificationRecord{
		DocumentID:     "msa-2025",
		DocumentType:   model.DocTypeServiceAgreement,
		PipelineStatus: model.StatusAwaitingReview,
		Parties:        []string{"Acme Corp", "Beta LLC"},
		RenewalDates: []model.RenewalDate{
			{Date: time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC), Description: "annual renewal", DaysUntil: 5, UrgencyLevel: model.SeverityCritical},
		},
		Obligations: []model.Obligation{
			{Requirement: "deliver reports", ResponsibleParty: "Vendor", Status: model.ObligationPending},
		},
		ComplianceItems: []model.ComplianceItem{
			{RegulationID: "reg-gdpr", Requirement: "GDPR compliance", Status: model.ComplianceMissing, Gap: "no coverage found", Severity: model.SeverityHigh},
		},
		Risks: []model.Risk{
			{ID: "r1", Category: model.RiskCategoryCompliance, Severity: model.SeverityCritical, Description: "GDPR gap", Mitigation: "Add GDPR terms", ContributionScore: 24},
		},
		OverallRiskScore: 76,
		RiskLevel:        model.RiskCritical,
		Summary:          "Critical risk summary.",
		Recommendations:  []string{"Add GDPR terms"},
		CreatedAt:        time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestRenderJSON_RoundTripsFieldNames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	if err := NewRenderer(true).RenderJSON(sampleRecord(), path); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Expected valid JSON, got %v", err)
	}

	// External consumers key off these exact field names and enum spellings
	if raw["documentId"] != "msa-2025" {
		t.Errorf("Expected documentId field, got %v", raw["documentId"])
	}
	if raw["pipelineStatus"] != "AwaitingReview" {
		t.Errorf("Expected pipelineStatus AwaitingReview, got %v", raw["pipelineStatus"])
	}
	if raw["riskLevel"] != "Critical" {
		t.Errorf("Expected riskLevel Critical, got %v", raw["riskLevel"])
	}
	if raw["overallRiskScore"] != float64(76) {
		t.Errorf("Expected overallRiskScore 76, got %v", raw["overallRiskScore"])
	}
}

func TestRenderMarkdown_Sections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.md")
	if err := NewRenderer(true).RenderMarkdown(sampleRecord(), path); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	md := string(data)

	for _, want := range []string{
		"# Verification Report: msa-2025",
		"## Renewal Dates",
		"## Obligations",
		"## Compliance",
		"## Risks",
		"## Recommendations",
		"| 2025-09-01 | annual renewal | 5 | critical |",
		"Acme Corp; Beta LLC",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("Expected markdown to contain %q", want)
		}
	}
	if !strings.Contains(md, "not legal advice") {
		t.Error("Expected the footer when enabled")
	}
}

func TestRenderMarkdown_NoFooter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.md")
	if err := NewRenderer(false).RenderMarkdown(sampleRecord(), path); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "not legal advice") {
		t.Error("Expected no footer when disabled")
	}
}

func TestRenderSummary_StatusLines(t *testing.T) {
	r := NewRenderer(true)

	var buf bytes.Buffer
	r.RenderSummary(&buf, sampleRecord())
	if !strings.Contains(buf.String(), "awaiting human review") {
		t.Errorf("Unexpected suspended line: %q", buf.String())
	}

	failed := sampleRecord()
	failed.PipelineStatus = model.StatusFailed
	failed.FailureReason = "rejected by reviewer"
	buf.Reset()
	r.RenderSummary(&buf, failed)
	if !strings.Contains(buf.String(), "verification failed: rejected by reviewer") {
		t.Errorf("Unexpected failed line: %q", buf.String())
	}

	done := sampleRecord()
	done.PipelineStatus = model.StatusCompleted
	buf.Reset()
	r.RenderSummary(&buf, done)
	if !strings.Contains(buf.String(), "1 risks, 1 compliance gaps") {
		t.Errorf("Unexpected completed line: %q", buf.String())
	}
}
